package handlers

import (
	"catalog/internal/services"
	"catalog/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

var (
	signUp = outcome{action: "signing up", conflict: "Email already registered"}
	logIn  = outcome{action: "logging in"}
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	responder
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		responder:   responder{logger: logger.With().Str("component", "auth_handler").Logger()},
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/signup", h.HandleSignup)
	router.Post("/login", h.HandleLogin)
}

// HandleSignup registers a user and returns it with a fresh token.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	values, err := h.bind(c, validation.SignupSchema)
	if err != nil {
		return h.fail(c, err, signUp)
	}
	user, token, err := h.authService.RegisterUser(c.UserContext(), values)
	if err != nil {
		return h.fail(c, err, signUp)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"userResult": user,
		"auth":       token,
	})
}

// HandleLogin checks credentials and issues a token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	values, err := h.bind(c, validation.LoginSchema)
	if err != nil {
		return h.fail(c, err, logIn)
	}
	user, token, err := h.authService.LoginUser(c.UserContext(), values["email"], values["password"])
	if err != nil {
		return h.fail(c, err, logIn)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": user,
		"auth": token,
	})
}
