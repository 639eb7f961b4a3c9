package rest

import (
	"errors"

	"github.com/dmitrijs2005/whybudget/internal/common"
	"github.com/dmitrijs2005/whybudget/internal/logging"
	"github.com/gofiber/fiber/v2"
)

type errorMapping struct {
	target  error
	status  int
	message string
}

var errorMappings = []errorMapping{
	{common.ErrorUnauthenticated, fiber.StatusUnauthorized, "Missing user"},
	{common.ErrorInvalidInput, fiber.StatusBadRequest, "Invalid input"},
	{common.ErrorNotFound, fiber.StatusNotFound, "Not found"},
	{common.ErrNoActiveChallenge, fiber.StatusBadRequest, "No active code"},
	{common.ErrChallengeExpired, fiber.StatusBadRequest, "Code expired"},
	{common.ErrInvalidCode, fiber.StatusBadRequest, "Invalid code"},
	{common.ErrDeliveryFailed, fiber.StatusInternalServerError, "Failed to send email"},
}

// statusFor maps err to an HTTP status and client-facing message.
func statusFor(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.message
		}
	}
	return fiber.StatusInternalServerError, "Internal server error"
}

func errorHandler(logger logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, message := statusFor(err)
		if status >= fiber.StatusInternalServerError {
			logger.Error(c.UserContext(), "request failed", "path", c.Path(), "error", err)
		}
		return c.Status(status).JSON(fiber.Map{"message": message})
	}
}
