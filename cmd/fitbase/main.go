package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/FitBaseHQ/FitBase/app/repository"
	"github.com/FitBaseHQ/FitBase/internal/pkg/cache"
	"github.com/FitBaseHQ/FitBase/internal/pkg/database"
	"github.com/FitBaseHQ/FitBase/internal/pkg/env"
	"github.com/FitBaseHQ/FitBase/internal/pkg/membership"
	"github.com/FitBaseHQ/FitBase/internal/pkg/router"
	"github.com/FitBaseHQ/FitBase/internal/pkg/sweeper"
)

// Development entrypoint with the fiber monitor exposed.
func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	engine := membership.NewServiceFromDB(database.GetDB())
	sweeper.GetManager(engine).Start()

	app := fiber.New(fiber.Config{
		AppName: "FitBase (dev)",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			"admin": env.GetEnv("METRICS_PASSWORD", "test"),
		},
	}), monitor.New())

	// ROUTER
	router.InstallRouter(app)

	return app
}
