package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/backend/rest"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/channels/kafka"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/cmd"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/log"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/otelhelper"
	cli "github.com/urfave/cli/v3"
)

const (
	defaultPort     = 9092
	serviceName     = "activity-wizard-api"
	shutdownTimeout = 10 * time.Second
)

func main() {
	command := &cli.Command{
		Name:                  serviceName,
		Usage:                 "Serve the activity creation wizard",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "backend-url",
				Usage:    "Portal API base URL (http/https) or fixture directory (file://)",
				Required: true,
				Sources:  cli.EnvVars("BACKEND_URL"),
			},
			&cli.StringFlag{
				Name:    "backend-token",
				Usage:   "Bearer token sent to the portal API",
				Sources: cli.EnvVars("BACKEND_TOKEN"),
			},
			&cli.DurationFlag{
				Name:    "backend-timeout",
				Usage:   "Timeout of each portal API call",
				Value:   rest.DefaultTimeout,
				Sources: cli.EnvVars("BACKEND_TIMEOUT"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma separated Kafka brokers, used with --event-bus=kafka",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export OpenTelemetry traces over OTLP/HTTP",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format (text, json)",
				Value:   "text",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
		},
		Action: run,
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}

func run(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"), command.String("log-format"))

	logger := log.WithModule("api")

	logger.InfoContext(ctx, "Initializing activity wizard API")

	backendCfg := cmd.BackendConfig{
		Token:   command.String("backend-token"),
		Timeout: command.Duration("backend-timeout"),
	}

	if command.Bool("tracing") {
		tracer, provider, err := otelhelper.NewTracer(ctx, serviceName)
		if err != nil {
			return err
		}

		defer func() {
			if err := provider.Shutdown(context.WithoutCancel(ctx)); err != nil {
				logger.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
			}
		}()

		backendCfg.Tracer = tracer
	}

	be := cmd.NewBackend(command.String("backend-url"), backendCfg, logger)
	defer func() {
		if err := be.Close(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to close backend", "error", err)
		}
	}()

	eventBus, err := cmd.NewEventBus(command.String("event-bus"), kafka.ParseBrokers(command.String("kafka-brokers")), logger)
	if err != nil {
		return err
	}

	defer func() {
		if err := eventBus.Close(); err != nil {
			logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
		}
	}()

	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := NewAPI(logger, be, eventBus)

	err = api.SubscribeEvents(signalCtx)
	if err != nil {
		return err
	}

	go func() {
		<-signalCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := api.Shutdown(shutdownCtx); err != nil {
			logger.ErrorContext(ctx, "Failed to shutdown API", "error", err)
		}
	}()

	err = api.Start(command.Int("port"))
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.ErrorContext(ctx, "Failed to start activity wizard API", "error", err)

		return err
	}

	return nil
}
