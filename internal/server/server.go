package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/config"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/handlers"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/middlewares"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/routes"
)

// New builds the Fiber application with middlewares and routes wired up.
func New(cfg *config.Config, h *handlers.Handler, auth middlewares.Authenticator, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.App.ReadTimeout),
		WriteTimeout: time.Duration(cfg.App.WriteTimeout),
		IdleTimeout:  time.Duration(cfg.App.IdleTimeout),
	})

	app.Use(cors.New())
	app.Use(middlewares.RequestLogger(logger))

	routes.Setup(app, h, auth)

	return app
}
