package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"twin-editor/internal/backend"
	"twin-editor/internal/conversion"
	"twin-editor/internal/extraction"
	"twin-editor/internal/services"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   bool   `json:"error" example:"true"`
	Kind    string `json:"kind" example:"validation"`
	Message string `json:"message" example:"device with this serial number already exists."`
}

func errorJSON(c *fiber.Ctx, status int, kind, message string) error {
	return c.Status(status).JSON(ErrorResponse{Error: true, Kind: kind, Message: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return errorJSON(c, fiber.StatusBadRequest, "bad_request", message)
}

// classify maps a service error to an HTTP status and error kind.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound), errors.Is(err, services.ErrObjectNotFound):
		return fiber.StatusNotFound, string(backend.KindNotFound)
	case errors.Is(err, services.ErrUnsupportedFile),
		errors.Is(err, services.ErrInvalidDevice),
		errors.Is(err, extraction.ErrNoModel),
		errors.Is(err, extraction.ErrMultipleModels):
		return fiber.StatusUnprocessableEntity, string(backend.KindValidation)
	case errors.Is(err, conversion.ErrUnavailable):
		return fiber.StatusNotImplemented, "unavailable"
	}

	switch kind := backend.KindOf(err); kind {
	case backend.KindValidation:
		return fiber.StatusUnprocessableEntity, string(kind)
	case backend.KindNotFound:
		return fiber.StatusNotFound, string(kind)
	case backend.KindTransport, backend.KindMalformed, backend.KindServer, backend.KindUnauthorized:
		return fiber.StatusBadGateway, string(kind)
	}
	return fiber.StatusInternalServerError, "internal"
}

// fail logs err and writes the matching error response.
func fail(c *fiber.Ctx, logger *zap.Logger, msg string, err error) error {
	status, kind := classify(err)
	message := backend.MessageOf(err)
	if message == "" {
		message = err.Error()
	}

	fields := []zap.Field{
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.String("kind", kind),
		zap.Error(err),
	}
	if status >= fiber.StatusInternalServerError {
		logger.Error(msg, fields...)
	} else {
		logger.Warn(msg, fields...)
	}
	return errorJSON(c, status, kind, message)
}
