package server

import (
	"context"
	"errors"
	"time"

	"sonic/internal/models"

	"github.com/gofiber/fiber/v2"
)

const healthCheckTimeout = 2 * time.Second

var errRedisUnavailable = errors.New("redis client is not configured")

// LivenessCheck handles GET /health
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string}
// @Router /health [get]
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "OK"})
}

// DBHealthCheck handles GET /db-health
// @Summary Store health
// @Description Pings the configured data store
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string,store=string}
// @Failure 503 {object} models.ProblemDetails
// @Router /db-health [get]
func (s *Server) DBHealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		return models.NewUnavailableError(err)
	}
	return c.JSON(fiber.Map{"status": "OK", "store": s.store.Driver})
}

// ReadinessCheck handles GET /health/ready
// @Summary Readiness probe
// @Description Reports the store and Redis status; 503 when either is down
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string,checks=object}
// @Failure 503 {object} object{status=string,checks=object}
// @Router /health/ready [get]
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
	defer cancel()

	checks := fiber.Map{
		"store": checkStatus(s.store.Ping(ctx)),
		"redis": checkStatus(s.pingRedis(ctx)),
	}

	status, code := "ready", fiber.StatusOK
	for _, v := range checks {
		if v != "up" {
			status, code = "unavailable", fiber.StatusServiceUnavailable
			break
		}
	}
	return c.Status(code).JSON(fiber.Map{"status": status, "checks": checks})
}

func (s *Server) pingRedis(ctx context.Context) error {
	if s.redis == nil {
		return errRedisUnavailable
	}
	return s.redis.Ping(ctx).Err()
}

func checkStatus(err error) string {
	if err != nil {
		return "down"
	}
	return "up"
}
