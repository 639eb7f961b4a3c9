package rest

import (
	"time"

	"github.com/dmitrijs2005/whybudget/internal/common"
	"github.com/dmitrijs2005/whybudget/internal/logging"
	"github.com/dmitrijs2005/whybudget/internal/server/identity"
	"github.com/gofiber/fiber/v2"
)

// resolveCaller stores the caller-id of the request, if any, in the user
// context. It never rejects a request; handlers decide whether a caller is
// required.
func resolveCaller(gw *identity.Gateway) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := gw.Resolve(c.UserContext(), c.Get(common.CallerIDHeaderName), c.Get(fiber.HeaderAuthorization)); ok {
			c.SetUserContext(identity.WithCaller(c.UserContext(), id))
		}
		return c.Next()
	}
}

func requestLogger(logger logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		logger.Info(c.UserContext(), "request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency", time.Since(start),
		)
		return nil
	}
}
