package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/MohammadSabeti/K2/backend/config"
	"github.com/MohammadSabeti/K2/backend/middleware"
	"github.com/MohammadSabeti/K2/backend/report"
	"github.com/MohammadSabeti/K2/backend/services"
	"github.com/MohammadSabeti/K2/backend/utils"
)

type AuthController struct {
	Auth     *services.AuthService
	Sessions *services.SessionManager
	Cfg      *config.Config
}

func NewAuthController(auth *services.AuthService, sessions *services.SessionManager, cfg *config.Config) *AuthController {
	return &AuthController{Auth: auth, Sessions: sessions, Cfg: cfg}
}

// Login is the merged login/registration endpoint: an unknown username
// registers a new account, the configured admin pair bootstraps the
// admin account, anything else must verify against the stored hash.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Username == "" || input.Password == "" {
		return utils.BadRequest(c, "Username and password are required")
	}

	user, err := ac.Auth.Login(input.Username, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, report.ErrInvalidCredentials):
			return utils.Unauthorized(c, "Invalid credentials")
		case errors.Is(err, report.ErrRegistrationFailed):
			return utils.Conflict(c, "Could not create account")
		case errors.Is(err, report.ErrStorageUnavailable):
			return utils.ServiceUnavailable(c, "Storage unavailable")
		default:
			return utils.InternalServerError(c, "Login failed")
		}
	}

	token, err := utils.GenerateJWTToken(user.ID, user.Username, user.Role, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// ChangePassword overwrites the caller's password hash.
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	type PasswordInput struct {
		NewPassword string `json:"new_password"`
	}

	var input PasswordInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	username := middleware.Username(c)
	if err := ac.Auth.ChangePassword(username, input.NewPassword); err != nil {
		switch {
		case errors.Is(err, report.ErrConstraintViolation):
			return utils.UnprocessableEntity(c, err.Error())
		case errors.Is(err, report.ErrStorageUnavailable):
			return utils.ServiceUnavailable(c, "Storage unavailable")
		default:
			return utils.InternalServerError(c, "Could not change password")
		}
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"changed": true})
}

// Logout drops any in-flight week drafts for the caller. Tokens are
// stateless, so the client simply discards its copy.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	ac.Sessions.DropByUser(middleware.Username(c))
	return utils.Success(c, fiber.StatusOK, fiber.Map{"logged_out": true})
}
