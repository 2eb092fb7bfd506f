package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MohammadSabeti/K2/backend/config"
	"github.com/MohammadSabeti/K2/backend/models"
	"github.com/MohammadSabeti/K2/backend/storage"
	"github.com/MohammadSabeti/K2/backend/utils"
)

// Locals keys set by AuthMiddleware for downstream handlers.
const (
	LocalUsername = "username"
	LocalRole     = "role"
	LocalUserID   = "user_id"
)

func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.ExtractTokenClaims(c, cfg)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalUserID, claims.UserID)
		return c.Next()
	}
}

// AdminMiddleware rechecks the role against the store instead of trusting
// the token, so a demoted admin loses access when the token is replayed.
func AdminMiddleware(cfg *config.Config, store storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.ExtractTokenClaims(c, cfg)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		user, err := store.UserByName(claims.Username)
		if err != nil || user == nil || user.Role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden - Admin access required",
			})
		}

		return c.Next()
	}
}

// Username returns the authenticated username set by AuthMiddleware.
func Username(c *fiber.Ctx) string {
	username, _ := c.Locals(LocalUsername).(string)
	return username
}
