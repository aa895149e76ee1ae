package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/brickfund/backend/internal/ledger"
	"github.com/brickfund/backend/internal/models"
)

// statusForError переводит ошибки эскроу-ядра в HTTP-статусы. Всё,
// что ядро не классифицировало, считаем ошибкой запроса.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, models.ErrAlreadyWithdrawn),
		errors.Is(err, models.ErrIDOverflow):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrInsufficientFunds),
		errors.Is(err, models.ErrVaultInsufficientFunds),
		errors.Is(err, ledger.ErrInsufficientBalance):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, models.ErrVaultNotFound),
		errors.Is(err, models.ErrRecordNotFound),
		errors.Is(err, models.ErrPropertyNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusBadRequest
	}
}
