// Package server assembles the HTTP application from its stores and services.
package server

import (
	"errors"
	"time"

	"catalog/internal/config"
	"catalog/internal/handlers"
	"catalog/internal/middleware"
	"catalog/internal/models"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"
)

// Deps are the collaborators the application is built from.
type Deps struct {
	Config    *config.Config
	Stores    *Stores
	Publisher services.EventPublisher // optional
	Logger    zerolog.Logger
}

// NewApp creates the fiber application with middleware, routes and the health check.
func NewApp(deps Deps) *fiber.App {
	cfg := deps.Config
	logger := deps.Logger

	productService := services.NewProductService(deps.Stores.Products, deps.Publisher, logger)
	userService := services.NewUserService(deps.Stores.Users, deps.Publisher, logger)
	authService := services.NewAuthService(deps.Stores.Users, cfg.JWTSecret, cfg.TokenTTL, deps.Publisher, logger)

	app := fiber.New(fiber.Config{
		AppName:               "catalog",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.RequestLogger(logger.With().Str("component", "http").Logger()))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	auth := middleware.AuthRequired(authService, logger)
	handlers.NewProductHandler(productService, logger).RegisterRoutes(app, auth)
	handlers.NewAuthHandler(authService, logger).RegisterRoutes(app)
	handlers.NewUserHandler(userService, logger).RegisterRoutes(app, auth)

	return app
}

// errorHandler renders errors that escape the handlers, such as unknown
// routes and recovered panics, in the common error shape.
func errorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			logger.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		}
		return c.Status(code).JSON(models.ErrorResponse{
			Error:   utils.StatusMessage(code),
			Message: message,
		})
	}
}
