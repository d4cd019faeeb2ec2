package middleware

import (
	"errors"
	"time"

	"lalastore/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records the count and latency of every request, labelled by route pattern.
func Metrics(m *metrics.ServerMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		m.ObserveRequest(c.Route().Path, c.Method(), status, time.Since(start))
		return err
	}
}
