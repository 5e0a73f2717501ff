package handlers

import (
	"catalog/internal/middleware"
	"catalog/internal/services"
	"catalog/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

var (
	listUsers     = outcome{action: "retrieving all users", notFound: "No users found"}
	updateProfile = outcome{action: "updating user info", notFound: "User not found", conflict: "Email already registered"}
	deleteUser    = outcome{action: "deleting a user", notFound: "User not found"}
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	service *services.UserService
	responder
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service:   service,
		responder: responder{logger: logger.With().Str("component", "user_handler").Logger()},
	}
}

// RegisterRoutes registers the user routes. Account deletion is public.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Put("/profile/:id", auth, h.HandleUpdateProfile)
	router.Get("/api/users", auth, h.HandleGetUsers)
	router.Delete("/api/users/:id", h.HandleDeleteUser)
}

// HandleUpdateProfile replaces name, email and mobile number of a user.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	values, err := h.bind(c, validation.ProfileSchema)
	if err != nil {
		return h.fail(c, err, updateProfile)
	}
	user, err := h.service.UpdateProfile(c.UserContext(), c.Params("id"), values)
	if err != nil {
		return h.fail(c, err, updateProfile)
	}
	actor, _ := middleware.CurrentUser(c)
	h.logger.Info().
		Str("user_id", user.ID).
		Str("actor_id", actor.ID).
		Bool("self", actor.ID == user.ID).
		Msg("profile changed")
	return c.JSON(fiber.Map{"updated_user": user})
}

// HandleGetUsers lists all users.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.service.GetAllUsers(c.UserContext())
	if err != nil {
		return h.fail(c, err, listUsers)
	}
	return c.JSON(fiber.Map{"users": users})
}

// HandleDeleteUser removes a user.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	user, err := h.service.DeleteUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err, deleteUser)
	}
	return c.JSON(fiber.Map{"deleted_user": user})
}
