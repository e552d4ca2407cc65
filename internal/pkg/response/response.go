package response

import "github.com/gofiber/fiber/v3"

// Bodies follow the contract the admin frontend consumes: plain objects and
// paged envelopes on success, {"detail": ...} or a field-keyed map on error.

const (
	DetailBadRequest          = "bad request"
	DetailNotFound            = "not found"
	DetailConflict            = "conflict"
	DetailTimeout             = "timeout"
	DetailInternalServerError = "internal server error"
)

func JSON(c fiber.Ctx, status int, body any) error {
	return c.Status(normalizeStatus(status)).JSON(body)
}

// Detail renders a single human-readable error string.
func Detail(c fiber.Ctx, status int, detail string) error {
	st := normalizeStatus(status)
	if detail == "" {
		detail = defaultDetailForStatus(st)
	}
	return c.Status(st).JSON(fiber.Map{"detail": detail})
}

// Fields renders a field-keyed validation error for direct form display.
func Fields(c fiber.Ctx, status int, fields map[string]string) error {
	if len(fields) == 0 {
		return Detail(c, status, "")
	}
	return c.Status(normalizeStatus(status)).JSON(fields)
}

func normalizeStatus(status int) int {
	if status < 100 || status > 599 {
		return fiber.StatusInternalServerError
	}
	return status
}

func defaultDetailForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return DetailBadRequest
	case fiber.StatusNotFound:
		return DetailNotFound
	case fiber.StatusConflict:
		return DetailConflict
	case fiber.StatusGatewayTimeout:
		return DetailTimeout
	default:
		if status >= 500 {
			return DetailInternalServerError
		}
		return DetailBadRequest
	}
}
