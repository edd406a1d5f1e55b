package middleware

import (
	"context"
	"time"

	"fichai/config"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const HeaderRequestID = "X-Request-ID"

// RequestContext tags each request with an id and bounds its user context by timeout.
func RequestContext(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(HeaderRequestID, id)
		c.Locals("reqid", id)

		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)

		start := time.Now()
		err := c.Next()
		if dur := time.Since(start); dur > timeout/2 {
			config.GetLogrusInstance().WithFields(logrus.Fields{
				"reqid":  id,
				"path":   c.Path(),
				"method": c.Method(),
				"took":   dur.String(),
			}).Warn("slow request")
		}
		return err
	}
}
