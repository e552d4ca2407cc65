package handler

import (
	"team-forge/internal/pkg/response"
	"team-forge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MatchHandler struct {
	uc usecase.MatchingUsecase
}

func NewMatchHandler(uc usecase.MatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/projects/:id")
	grp.Post("/match/", h.Match)
	grp.Post("/match_with_file/", h.MatchWithFile)
}

func (h *MatchHandler) Match(c fiber.Ctx) error {
	projectID, err := parseProjectID(c)
	if err != nil {
		return err
	}

	team, err := h.uc.MatchFromDatabase(c.Context(), projectID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusCreated, team)
}

// MatchWithFile forms a team from a roster uploaded as the request body.
// The roster never touches the user tables.
func (h *MatchHandler) MatchWithFile(c fiber.Ctx) error {
	projectID, err := parseProjectID(c)
	if err != nil {
		return err
	}

	team, err := h.uc.MatchFromRoster(c.Context(), projectID, c.Body())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusCreated, team)
}
