package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/brickfund/backend/internal/auth"
	"github.com/brickfund/backend/internal/config"
	"github.com/brickfund/backend/internal/http/dto"
	"github.com/brickfund/backend/internal/models"
)

type AuthHandler struct {
	cfg *config.Config
	log *zap.Logger
}

func NewAuthHandler(cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, log: log}
}

// Token обменивает подписанный login proof на JWT. Клиент владеет
// адресом в леджере и доказывает это HMAC-подписью.
// POST /api/v1/auth/token
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var req dto.AuthTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	addr, err := models.ParseAddress(req.Address)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid address"})
	}
	if req.Proof == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "proof is required"})
	}

	if err := auth.VerifyLoginProof(h.cfg.AuthSecret, string(addr), req.Timestamp, req.Proof, auth.DefaultProofTTL); err != nil {
		h.log.Debug("login proof rejected", zap.String("address", string(addr)), zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	token, err := auth.GenerateJWT(h.cfg.JWTSecret, string(addr), h.cfg.JWTExpiration)
	if err != nil {
		h.log.Error("failed to generate jwt", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	return c.JSON(dto.AuthResponse{
		Token:   token,
		Address: string(addr),
	})
}
