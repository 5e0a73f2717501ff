package handlers

import (
	"errors"

	"catalog/internal/models"
	"catalog/internal/services"
	"catalog/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// outcome names the messages a handler reports for the error kinds it can hit.
type outcome struct {
	action   string // e.g. "adding a product"
	notFound string
	conflict string
}

// responder maps pipeline results to HTTP responses.
type responder struct {
	logger zerolog.Logger
}

// bind decodes the JSON body and checks it against schema.
func (r responder) bind(c *fiber.Ctx, schema validation.Schema) (validation.Values, error) {
	var body map[string]any
	if err := c.App().Config().JSONDecoder(c.Body(), &body); err != nil || body == nil {
		return nil, &validation.Error{Kind: validation.InvalidFieldSet}
	}
	return schema.Validate(body)
}

// fail writes the error response for err. Unexpected errors are logged and
// reported without their details.
func (r responder) fail(c *fiber.Ctx, err error, o outcome) error {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   verr.Message(),
			Message: verr.Error(),
		})
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Error: o.notFound})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Error: "Incorrect details provided"})
	case errors.Is(err, models.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse{
			Error:   o.conflict,
			Message: "duplicate record",
		})
	default:
		r.logger.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msgf("unexpected error while %s", o.action)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:   "An unexpected error occurred while " + o.action,
			Message: "internal server error",
		})
	}
}
