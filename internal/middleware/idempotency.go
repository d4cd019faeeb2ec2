package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"log"
	"time"

	"lalastore/pkg/idempotency"

	"github.com/gofiber/fiber/v2"
)

const maxIdempotencyKeyLength = 255

// IdempotencyScope partitions keys, e.g. per user, so two callers choosing
// the same key never see each other's responses.
type IdempotencyScope func(c *fiber.Ctx) string

// Idempotency replays the stored response for a repeated Idempotency-Key.
// Only 201 Created responses are stored; failed requests run again on retry.
// A key reused with a different request body is refused with 422.
// Requests without the header pass through untouched. scope may be nil.
func Idempotency(store idempotency.Store, ttl time.Duration, scope IdempotencyScope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(idempotency.Header)
		if key == "" {
			return c.Next()
		}
		if len(key) > maxIdempotencyKeyLength {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Idempotency-Key is too long",
			})
		}

		ctx := c.UserContext()
		scopedKey := c.Method() + " " + c.Path() + " "
		if scope != nil {
			scopedKey += scope(c) + " "
		}
		scopedKey += key
		requestHash := hashBody(c.Body())

		stored, ok, err := store.Get(ctx, scopedKey)
		if err != nil {
			log.Printf("Error reading idempotency key: %v", err)
		}
		if ok {
			if stored.RequestHash != requestHash {
				return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
					"success": false,
					"error":   "Idempotency-Key was already used with a different request",
				})
			}
			c.Set(idempotency.ReplayedHeader, "true")
			if stored.ContentType != "" {
				c.Set(fiber.HeaderContentType, stored.ContentType)
			}
			return c.Status(stored.Status).Send(stored.Body)
		}

		if err := c.Next(); err != nil {
			return err
		}

		if c.Response().StatusCode() == fiber.StatusCreated {
			resp := idempotency.Response{
				Status:      fiber.StatusCreated,
				ContentType: string(c.Response().Header.ContentType()),
				Body:        append([]byte(nil), c.Response().Body()...),
				RequestHash: requestHash,
			}
			if err := store.Set(ctx, scopedKey, resp, ttl); err != nil {
				log.Printf("Error storing idempotency key: %v", err)
			}
		}
		return nil
	}
}

func hashBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
