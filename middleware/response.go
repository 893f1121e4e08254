package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"verve/apierr"
	"verve/logger"
)

func JsonResponse(c *fiber.Ctx, statusCode int, success bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"success": success,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Validation failed!",
		"errors":  errors,
	})
}

// ErrorResponse writes err as {success:false, message}. Internal failures are logged with
// their cause and answered with the public message only.
func ErrorResponse(c *fiber.Ctx, err error) error {
	kind := apierr.KindOf(err)
	if kind == apierr.KindInternal {
		logger.L().Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"requestId", RequestID(c),
			"error", err,
		)
	}
	return c.Status(kind.Status()).JSON(fiber.Map{
		"success": false,
		"message": apierr.PublicMessage(err),
	})
}

// ErrorHandler is the app-level fallback so no handler error or panic escapes as a raw
// response.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"success": false,
			"message": fe.Message,
		})
	}
	return ErrorResponse(c, err)
}
