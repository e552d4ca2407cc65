package handler

import (
	"strconv"

	"team-forge/internal/delivery/http/middleware"
	"team-forge/internal/pkg/response"
	"team-forge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type TeamHandler struct {
	uc usecase.TeamUsecase
}

func NewTeamHandler(uc usecase.TeamUsecase) *TeamHandler {
	return &TeamHandler{uc: uc}
}

func (h *TeamHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/teams")
	grp.Get("/", h.List)
	grp.Get("/:id/", h.Get)
	grp.Delete("/:id/", h.Delete)
}

func (h *TeamHandler) List(c fiber.Ctx) error {
	params := usecase.TeamListParams{Ordering: c.Query("ordering")}

	if raw := c.Query("project"); raw != "" {
		projectID, err := uuid.Parse(raw)
		if err != nil {
			return middleware.NewFieldError(fiber.StatusBadRequest,
				map[string]string{"project": "must be a valid uuid"}, err)
		}
		params.ProjectID = &projectID
	}

	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return err
	}
	params.Limit = limit
	params.Offset = offset

	result, err := h.uc.List(c.Context(), params)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, result)
}

func (h *TeamHandler) Get(c fiber.Ctx) error {
	id, err := parseTeamID(c)
	if err != nil {
		return err
	}

	team, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, team)
}

func (h *TeamHandler) Delete(c fiber.Ctx) error {
	id, err := parseTeamID(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), id); err != nil {
		return mapUsecaseError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseTeamID(c fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, middleware.NewAppError(fiber.StatusBadRequest, "invalid team id", err)
	}
	return id, nil
}
