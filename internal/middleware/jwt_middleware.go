package middleware

import (
	"strings"

	"catalog/internal/models"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// LocalsUser is the fiber.Ctx locals key holding the authenticated models.User.
const LocalsUser = "user"

// TokenValidator verifies a bearer token.
type TokenValidator interface {
	ValidateToken(tokenString string) (*services.Claims, error)
}

// AuthRequired is a Fiber middleware to check for a valid bearer token.
// A missing header is rejected with 403, anything unusable with 401.
func AuthRequired(validator TokenValidator, logger zerolog.Logger) fiber.Handler {
	logger = logger.With().Str("component", "auth").Logger()
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			logger.Debug().Str("path", c.Path()).Msg("missing token")
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse{
				Error: "Please provide a token",
			})
		}

		// Expected format: "bearer <token>", scheme case-insensitive
		scheme, tokenString, ok := strings.Cut(strings.TrimSpace(authHeader), " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(tokenString) == "" {
			return invalidToken(c, logger, "authorization header format must be 'bearer <token>'")
		}

		claims, err := validator.ValidateToken(strings.TrimSpace(tokenString))
		if err != nil {
			return invalidToken(c, logger, err.Error())
		}

		c.Locals(LocalsUser, claims.User)
		return c.Next()
	}
}

func invalidToken(c *fiber.Ctx, logger zerolog.Logger, reason string) error {
	logger.Debug().Str("path", c.Path()).Str("reason", reason).Msg("token rejected")
	return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
		Error:   "Please provide a valid token",
		Message: reason,
	})
}

// CurrentUser returns the user stored by AuthRequired.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals(LocalsUser).(models.User)
	return user, ok
}
