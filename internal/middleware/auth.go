package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/brickfund/backend/internal/auth"
	"github.com/brickfund/backend/internal/config"
	"github.com/brickfund/backend/internal/models"
)

const CtxAddress = "address"

func AuthMiddleware(cfg *config.Config, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
		}

		claims, err := auth.ParseJWT(cfg.JWTSecret, tokenStr)
		if err != nil {
			log.Debug("jwt parse error", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		c.Locals(CtxAddress, models.Address(claims.Address))

		return c.Next()
	}
}

// GetAddress returns the authenticated ledger address, or the zero
// address on unauthenticated routes.
func GetAddress(c *fiber.Ctx) models.Address {
	addr, _ := c.Locals(CtxAddress).(models.Address)
	return addr
}
