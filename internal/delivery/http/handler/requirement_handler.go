package handler

import (
	"team-forge/internal/delivery/http/middleware"
	"team-forge/internal/pkg/response"
	"team-forge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type RequirementHandler struct {
	uc    usecase.RequirementUsecase
	users usecase.UserUsecase
}

type requirementAddRequest struct {
	Skill uuid.UUID `json:"skill"`
	Level int       `json:"level"`
}

type requirementRemoveRequest struct {
	SkillID uuid.UUID `json:"skill_id"`
}

type requirementSyncRequest struct {
	Requirements []requirementAddRequest `json:"requirements"`
}

type importSkillsRequest struct {
	Students []usecase.ImportStudent `json:"students"`
}

func NewRequirementHandler(uc usecase.RequirementUsecase, users usecase.UserUsecase) *RequirementHandler {
	return &RequirementHandler{uc: uc, users: users}
}

func (h *RequirementHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/projects/:id")
	grp.Get("/requirements/", h.List)
	grp.Post("/add_requirement/", h.Add)
	grp.Post("/remove_requirement/", h.Remove)
	grp.Put("/sync_requirements/", h.Sync)
	grp.Post("/import_skills/", h.ImportSkills)
}

func (h *RequirementHandler) List(c fiber.Ctx) error {
	projectID, err := parseProjectID(c)
	if err != nil {
		return err
	}

	items, err := h.uc.List(c.Context(), projectID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, items)
}

func (h *RequirementHandler) Add(c fiber.Ctx) error {
	projectID, err := parseProjectID(c)
	if err != nil {
		return err
	}

	var req requirementAddRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.DetailBadRequest, err)
	}

	if err := h.uc.Add(c.Context(), projectID, req.Skill, req.Level); err != nil {
		return mapUsecaseError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RequirementHandler) Remove(c fiber.Ctx) error {
	projectID, err := parseProjectID(c)
	if err != nil {
		return err
	}

	var req requirementRemoveRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.DetailBadRequest, err)
	}

	if err := h.uc.Remove(c.Context(), projectID, req.SkillID); err != nil {
		return mapUsecaseError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RequirementHandler) Sync(c fiber.Ctx) error {
	projectID, err := parseProjectID(c)
	if err != nil {
		return err
	}

	var req requirementSyncRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.DetailBadRequest, err)
	}

	items := make([]usecase.RequirementInput, 0, len(req.Requirements))
	for _, r := range req.Requirements {
		items = append(items, usecase.RequirementInput{SkillID: r.Skill, Level: r.Level})
	}

	if err := h.uc.Sync(c.Context(), projectID, items); err != nil {
		return mapUsecaseError(err)
	}

	updated, err := h.uc.List(c.Context(), projectID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, updated)
}

func (h *RequirementHandler) ImportSkills(c fiber.Ctx) error {
	if _, err := parseProjectID(c); err != nil {
		return err
	}

	var req importSkillsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.DetailBadRequest, err)
	}

	imported, err := h.users.ImportSkills(c.Context(), req.Students)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, fiber.Map{"imported": imported})
}
