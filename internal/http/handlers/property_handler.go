package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/brickfund/backend/internal/http/dto"
	"github.com/brickfund/backend/internal/services"
)

type PropertyHandler struct {
	registry *services.RegistryService
	log      *zap.Logger
}

func NewPropertyHandler(registry *services.RegistryService, log *zap.Logger) *PropertyHandler {
	return &PropertyHandler{registry: registry, log: log}
}

// RegisterProperty заводит объект в реестре и выдаёт ему следующий
// последовательный id.
// POST /api/v1/properties
func (h *PropertyHandler) RegisterProperty(c *fiber.Ctx) error {
	var req dto.RegisterPropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "name is required"})
	}

	p, err := h.registry.RegisterProperty(c.Context(), req.Name, req.ImageURL)
	if err != nil {
		return c.Status(statusForError(err)).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: p})
}

// GET /api/v1/properties
func (h *PropertyHandler) ListProperties(c *fiber.Ctx) error {
	limit, offset := 20, 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}

	props, err := h.registry.ListProperties(c.Context(), limit, offset)
	if err != nil {
		h.log.Error("list properties failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: props})
}

// GET /api/v1/properties/:id
func (h *PropertyHandler) GetProperty(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid property id"})
	}

	p, err := h.registry.GetProperty(c.Context(), uint32(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "property not found"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: p})
}
