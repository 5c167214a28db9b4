package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"sonic/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

var rateLimitEnabled atomic.Bool

func init() {
	rateLimitEnabled.Store(true)
}

// SetRateLimitEnabled turns Redis-backed rate limiting on or off process-wide.
func SetRateLimitEnabled(enabled bool) {
	rateLimitEnabled.Store(enabled)
}

// ErrNoRedis is returned when a limit is checked without a Redis client.
var ErrNoRedis = errors.New("redis client is nil")

// CheckRateLimit checks if a resource has exceeded its rate limit using a fixed window.
// Returns true if allowed, false if limit exceeded.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if !rateLimitEnabled.Load() {
		return true, nil
	}
	if rdb == nil {
		return false, ErrNoRedis
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return cnt <= int64(limit), nil
}

// RateLimit returns a Fiber middleware enforcing `limit` requests per `window`.
// It keys by authenticated user id when present, otherwise by remote IP, and
// lets the request through when Redis cannot be reached.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := "ip:" + c.IP()
		if uid := CurrentUserID(c); uid != "" {
			id = "user:" + uid
		}

		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}

		allowed, err := CheckRateLimit(c.UserContext(), rdb, resource, id, limit, window)
		if err != nil {
			if !errors.Is(err, ErrNoRedis) {
				Logger.WarnContext(c.UserContext(), "rate limit check failed",
					slog.String("resource", resource),
					slog.String("error", err.Error()),
				)
			}
			return c.Next()
		}

		if !allowed {
			c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%d", int(window.Seconds())))
			return models.NewTooManyRequestsError("rate_limit.exceeded", "Too many requests. Please try again later.")
		}
		return c.Next()
	}
}
