package handler

import (
	"team-forge/internal/delivery/http/middleware"
	"team-forge/internal/pkg/response"
	"team-forge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ProjectHandler struct {
	uc usecase.ProjectUsecase
}

type projectCreateRequest struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Curator         *uuid.UUID `json:"curator"`
	MinParticipants int        `json:"min_participants"`
	MaxParticipants int        `json:"max_participants"`
}

type projectPatchRequest struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Curator         *uuid.UUID `json:"curator"`
	MinParticipants *int       `json:"min_participants"`
	MaxParticipants *int       `json:"max_participants"`
}

func NewProjectHandler(uc usecase.ProjectUsecase) *ProjectHandler {
	return &ProjectHandler{uc: uc}
}

func (h *ProjectHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/projects")
	grp.Get("/", h.List)
	grp.Post("/", h.Create)
	grp.Get("/:id/", h.Get)
	grp.Patch("/:id/", h.Update)
	grp.Delete("/:id/", h.Delete)
}

func (h *ProjectHandler) List(c fiber.Ctx) error {
	pageNum, err := queryInt(c, "page", 1)
	if err != nil {
		return err
	}
	pageSize, err := queryInt(c, "page_size", 20)
	if err != nil {
		return err
	}

	result, err := h.uc.List(c.Context(), c.Query("search"), pageNum, pageSize)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, result)
}

func (h *ProjectHandler) Create(c fiber.Ctx) error {
	var req projectCreateRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.DetailBadRequest, err)
	}

	created, err := h.uc.Create(c.Context(), usecase.ProjectInput{
		Title:           req.Title,
		Description:     req.Description,
		CuratorID:       req.Curator,
		MinParticipants: req.MinParticipants,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusCreated, created)
}

func (h *ProjectHandler) Get(c fiber.Ctx) error {
	id, err := parseProjectID(c)
	if err != nil {
		return err
	}

	p, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, p)
}

func (h *ProjectHandler) Update(c fiber.Ctx) error {
	id, err := parseProjectID(c)
	if err != nil {
		return err
	}

	var req projectPatchRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.DetailBadRequest, err)
	}

	updated, err := h.uc.Update(c.Context(), id, usecase.ProjectPatch{
		Title:           req.Title,
		Description:     req.Description,
		CuratorID:       req.Curator,
		MinParticipants: req.MinParticipants,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, updated)
}

func (h *ProjectHandler) Delete(c fiber.Ctx) error {
	id, err := parseProjectID(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), id); err != nil {
		return mapUsecaseError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseProjectID(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "invalid project id", err)
	}
	return id, nil
}
