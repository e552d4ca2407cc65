package handler

import (
	"team-forge/internal/delivery/http/middleware"
	"team-forge/internal/pkg/response"
	"team-forge/internal/repository"
	"team-forge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type UserHandler struct {
	uc usecase.UserUsecase
}

func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/students/", h.Students)
	r.Get("/students/:id/", h.Get)
	r.Get("/curators/", h.Curators)
}

func (h *UserHandler) Students(c fiber.Ctx) error {
	return h.list(c, repository.RoleStudent)
}

func (h *UserHandler) Curators(c fiber.Ctx) error {
	return h.list(c, repository.RoleCurator)
}

func (h *UserHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid user id", err)
	}

	usr, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, usr)
}

func (h *UserHandler) list(c fiber.Ctx, role string) error {
	pageNum, err := queryInt(c, "page", 1)
	if err != nil {
		return err
	}
	pageSize, err := queryInt(c, "page_size", 20)
	if err != nil {
		return err
	}

	result, err := h.uc.List(c.Context(), role, c.Query("search"), pageNum, pageSize)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, result)
}
