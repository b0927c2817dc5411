package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/FitBaseHQ/FitBase/internal/pkg/database"
	"github.com/FitBaseHQ/FitBase/internal/pkg/sweeper"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"service": "fitbase", "status": "ok"})
	})

	// Liveness/readiness for container orchestration.
	app.Get("/health", func(c *fiber.Ctx) error {
		if database.GetDB() == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "database": "unavailable"})
		}
		return c.JSON(fiber.Map{
			"status":        "ok",
			"sweep_running": sweeper.Running(),
		})
	})
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
