package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/FitBaseHQ/FitBase/app/repository"
	"github.com/FitBaseHQ/FitBase/internal/pkg/cache"
	"github.com/FitBaseHQ/FitBase/internal/pkg/database"
	"github.com/FitBaseHQ/FitBase/internal/pkg/env"
	"github.com/FitBaseHQ/FitBase/internal/pkg/membership"
	"github.com/FitBaseHQ/FitBase/internal/pkg/router"
	"github.com/FitBaseHQ/FitBase/internal/pkg/sweeper"
)

func main() {
	app := NewApplication()

	// graceful shutdown: stop the sweep loop before closing the listener
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		sweeper.StopGlobal()
		_ = app.Shutdown()
	}()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	// nightly absence sweep
	engine := membership.NewServiceFromDB(database.GetDB())
	sweeper.GetManager(engine).Start()

	app := fiber.New(fiber.Config{
		AppName: "FitBase",
	})
	app.Use(recover.New(), logger.New())

	// ROUTER
	router.InstallRouter(app)

	return app
}
