package handler

import (
	"team-forge/internal/delivery/http/middleware"
	"team-forge/internal/pkg/response"
	"team-forge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type SkillHandler struct {
	uc usecase.SkillUsecase
}

type skillNameRequest struct {
	Name string `json:"name"`
}

func NewSkillHandler(uc usecase.SkillUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/skills")
	grp.Get("/", h.List)
	grp.Post("/", h.Create)
	grp.Patch("/:id/", h.Rename)
	grp.Get("/:id/students/", h.Students)
}

func (h *SkillHandler) List(c fiber.Ctx) error {
	pageNum, err := queryInt(c, "page", 1)
	if err != nil {
		return err
	}
	pageSize, err := queryInt(c, "page_size", 20)
	if err != nil {
		return err
	}

	result, err := h.uc.Search(c.Context(), c.Query("search"), pageNum, pageSize)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, result)
}

func (h *SkillHandler) Create(c fiber.Ctx) error {
	var req skillNameRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.DetailBadRequest, err)
	}

	created, err := h.uc.FindOrCreate(c.Context(), req.Name)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusCreated, created)
}

func (h *SkillHandler) Rename(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid skill id", err)
	}

	var req skillNameRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.DetailBadRequest, err)
	}

	updated, err := h.uc.Rename(c.Context(), id, req.Name)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, updated)
}

func (h *SkillHandler) Students(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid skill id", err)
	}

	pageNum, err := queryInt(c, "page", 1)
	if err != nil {
		return err
	}
	pageSize, err := queryInt(c, "page_size", 20)
	if err != nil {
		return err
	}

	result, err := h.uc.Holders(c.Context(), id, pageNum, pageSize)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, result)
}
