package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/brickfund/backend/internal/http/dto"
	"github.com/brickfund/backend/internal/middleware"
	"github.com/brickfund/backend/internal/services"
)

type AccountHandler struct {
	escrow *services.EscrowService
	log    *zap.Logger
}

func NewAccountHandler(escrow *services.EscrowService, log *zap.Logger) *AccountHandler {
	return &AccountHandler{escrow: escrow, log: log}
}

// GetAccount возвращает баланс адреса вызывающего в леджере.
// GET /api/v1/me/account
func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	addr := middleware.GetAddress(c)
	balance, err := h.escrow.AccountBalance(c.Context(), addr)
	if err != nil {
		h.log.Error("account balance failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.AccountResponse{
		Address: string(addr),
		Balance: strconv.FormatUint(balance, 10),
	}})
}

// MyPayments возвращает все записи вызывающего по всем объектам.
// GET /api/v1/me/payments
func (h *AccountHandler) MyPayments(c *fiber.Ctx) error {
	addr := middleware.GetAddress(c)
	payments, err := h.escrow.ListPayments(c.Context(), addr)
	if err != nil {
		h.log.Error("list payments failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: payments})
}
