package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"screener-api/internal/tokens"
)

const msgServerError = "Server error"

// errorHandler renders errors that escape a route as JSON. Server-side
// failures and recovered panics share the listing error shape so clients
// always find a tokens array.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			logger.Error("unhandled error", zap.String("path", c.Path()), zap.Int("status", code), zap.Error(err))
			return c.Status(code).JSON(fiber.Map{"tokens": []tokens.Token{}, "error": msgServerError})
		}
		msg := err.Error()
		if fe != nil {
			msg = fe.Message
		}
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
}
