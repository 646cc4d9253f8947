// Package main provides the activity wizard API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/audit"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/backend"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/eventbus"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger   *slog.Logger
	backend  backend.Backend
	eventBus eventbus.EventBus
	registry *web.SessionRegistry
	validate *validator.Validate
	app      *fiber.App
}

func NewAPI(
	logger *slog.Logger,
	be backend.Backend,
	eventBus eventbus.EventBus,
) *API {
	return &API{
		logger:   logger,
		backend:  be,
		eventBus: eventBus,
		registry: web.NewSessionRegistry(be, eventBus, logger),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	if a.app != nil {
		return a.app
	}

	handlers := web.NewAPIHandlers(a.registry, a.backend, a.validate, a.logger)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			return a.backend.HealthCheck(c.Context()) == nil
		},
	}))

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Activity Wizard API")
	})

	handlers.Register(app)

	a.app = app

	return app
}

// SubscribeEvents logs the wizard events of this process until ctx is done.
func (a *API) SubscribeEvents(ctx context.Context) error {
	err := audit.NewLogger(a.logger).Register(a.eventBus)
	if err != nil {
		return err
	}

	err = a.eventBus.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to wizard events: %w", err)
	}

	return nil
}

func (a *API) Start(port int) error {
	return a.App().Listen(":" + strconv.Itoa(port))
}

// Shutdown stops accepting requests and discards every open wizard.
func (a *API) Shutdown(ctx context.Context) error {
	err := a.App().ShutdownWithContext(ctx)

	a.registry.CloseAll()

	return err
}
