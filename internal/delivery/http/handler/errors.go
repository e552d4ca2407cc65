package handler

import (
	"errors"
	"strconv"

	"team-forge/internal/delivery/http/middleware"
	"team-forge/internal/domain/roster"
	"team-forge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// mapUsecaseError translates usecase failures into the HTTP error taxonomy.
// Matcher policy errors surface as 422 with a human-readable detail; they
// mean "no team formed", not a broken request.
func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	var vErr *usecase.ValidationError
	if errors.As(err, &vErr) {
		return middleware.NewFieldError(fiber.StatusBadRequest, vErr.Fields, err)
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid input", err)
	case errors.Is(err, roster.ErrMalformed):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), err)
	case errors.Is(err, usecase.ErrSkillNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "skill not found", err)
	case errors.Is(err, usecase.ErrProjectNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "project not found", err)
	case errors.Is(err, usecase.ErrTeamNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "team not found", err)
	case errors.Is(err, usecase.ErrUserNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "user not found", err)
	case errors.Is(err, usecase.ErrSkillExists):
		return middleware.NewAppError(fiber.StatusConflict, "skill already exists", err)
	case errors.Is(err, usecase.ErrProjectTitleTaken):
		return middleware.NewAppError(fiber.StatusConflict, "project title already taken", err)
	case errors.Is(err, usecase.ErrConcurrentModification):
		return middleware.NewAppError(fiber.StatusConflict, "project was modified concurrently", err)
	case errors.Is(err, usecase.ErrEmptyCandidatePool),
		errors.Is(err, usecase.ErrBoundsUnsatisfiable):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, err.Error(), err)
	case errors.Is(err, usecase.ErrTimeout):
		return middleware.NewAppError(fiber.StatusGatewayTimeout, "operation timed out", err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, "", err)
	}
}

func queryInt(c fiber.Ctx, key string, def int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, middleware.NewFieldError(fiber.StatusBadRequest,
			map[string]string{key: "must be an integer"}, err)
	}
	return v, nil
}
