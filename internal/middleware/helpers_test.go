package middleware

import (
	"sonic/internal/models"

	"github.com/gofiber/fiber/v2"
)

// newTestApp renders AppErrors with their status like the real server does.
func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := models.StatusOf(err)
			if status == 0 {
				status = fiber.StatusInternalServerError
			}
			return models.RespondWithError(c, status, err.Error(), models.CodeOf(err))
		},
	})
}
