package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/brickfund/backend/internal/http/dto"
	"github.com/brickfund/backend/internal/middleware"
	"github.com/brickfund/backend/internal/services"
)

type EscrowHandler struct {
	escrow *services.EscrowService
	log    *zap.Logger
}

func NewEscrowHandler(escrow *services.EscrowService, log *zap.Logger) *EscrowHandler {
	return &EscrowHandler{escrow: escrow, log: log}
}

// parseAmount разбирает сумму из десятичной строки. Ноль не принимаем:
// пустой вклад не двигает ни леджер, ни записи.
func parseAmount(raw string) (uint64, error) {
	amount, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid amount")
	}
	if amount == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "amount must be a positive integer")
	}
	return amount, nil
}

// Fund переводит средства вкладчика в пул объекта и накапливает его
// персональную запись.
// POST /api/v1/properties/:id/fund
func (h *EscrowHandler) Fund(c *fiber.Ctx) error {
	propertyID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid property id"})
	}

	var req dto.FundRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	contributor := middleware.GetAddress(c)
	if err := h.escrow.FundProperty(c.Context(), contributor, uint32(propertyID), amount); err != nil {
		return c.Status(statusForError(err)).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(dto.SuccessResponse{OK: true})
}

// Withdraw возвращает вкладчику часть его ещё не выведенной записи.
// POST /api/v1/properties/:id/withdraw
func (h *EscrowHandler) Withdraw(c *fiber.Ctx) error {
	propertyID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid property id"})
	}

	var req dto.WithdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	contributor := middleware.GetAddress(c)
	if err := h.escrow.WithdrawPayment(c.Context(), contributor, uint32(propertyID), amount); err != nil {
		return c.Status(statusForError(err)).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(dto.SuccessResponse{OK: true})
}

// WithdrawMaster выкачивает из пула объекта произвольную сумму на
// мастер-адрес. Записи вкладчиков не трогаются.
// POST /api/v1/properties/:id/withdraw-master
func (h *EscrowHandler) WithdrawMaster(c *fiber.Ctx) error {
	propertyID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid property id"})
	}

	var req dto.WithdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	caller := middleware.GetAddress(c)
	if err := h.escrow.WithdrawMaster(c.Context(), caller, uint32(propertyID), amount); err != nil {
		return c.Status(statusForError(err)).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(dto.SuccessResponse{OK: true})
}

// GetVault возвращает адрес пула объекта и его текущий баланс в
// леджере.
// GET /api/v1/properties/:id/vault
func (h *EscrowHandler) GetVault(c *fiber.Ctx) error {
	propertyID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid property id"})
	}

	vault, balance, err := h.escrow.GetVault(c.Context(), uint32(propertyID))
	if err != nil {
		return c.Status(statusForError(err)).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.VaultResponse{
		PropertyID: vault.PropertyID,
		Address:    string(vault.Address()),
		Balance:    strconv.FormatUint(balance, 10),
	}})
}

// GetPayment возвращает запись вызывающего по объекту.
// GET /api/v1/properties/:id/payment
func (h *EscrowHandler) GetPayment(c *fiber.Ctx) error {
	propertyID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid property id"})
	}

	owner := middleware.GetAddress(c)
	rec, err := h.escrow.GetPaymentRecord(c.Context(), owner, uint32(propertyID))
	if err != nil {
		return c.Status(statusForError(err)).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: rec})
}

// PropertyEvents возвращает журнал операций по объекту, новые сверху.
// GET /api/v1/properties/:id/events
func (h *EscrowHandler) PropertyEvents(c *fiber.Ctx) error {
	propertyID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid property id"})
	}

	logs, err := h.escrow.PropertyEvents(c.Context(), uint32(propertyID))
	if err != nil {
		h.log.Error("property events failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: logs})
}
