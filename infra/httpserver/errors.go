package httpserver

import (
	"errors"

	"isletmenum/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// statusFor is the only place failure kinds become HTTP status codes.
func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	case apperror.KindInvalidCredentials, apperror.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperror.KindForbidden:
		return fiber.StatusForbidden
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindTooManyRequests:
		return fiber.StatusTooManyRequests
	case apperror.KindStorage:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError is the app's fiber ErrorHandler.
func writeError(c *fiber.Ctx, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		status := statusFor(appErr.Kind)
		payload := fiber.Map{
			"code":    appErr.Code,
			"message": appErr.Message,
		}

		if appErr.Details != nil {
			payload["details"] = appErr.Details
		}

		if status >= fiber.StatusInternalServerError {
			zap.L().Error("Handler returned server error", zap.String("code", appErr.Code), zap.Error(appErr))
		} else {
			zap.L().Warn("Handler returned client error", zap.String("code", appErr.Code), zap.Error(appErr))
		}

		return c.Status(status).JSON(payload)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		zap.L().Warn("Fiber error", zap.Int("status", fiberErr.Code), zap.String("message", fiberErr.Message))
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"code":    "request.invalid",
			"message": fiberErr.Message,
		})
	}

	zap.L().Error("Unhandled error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"code":    "internal_server_error",
		"message": "Internal server error.",
	})
}
