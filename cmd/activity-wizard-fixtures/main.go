// Package main seeds a file backend directory from a YAML fixtures file.
package main

import (
	"context"
	"os"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/backend/file"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/config"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/log"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/models"
	cli "github.com/urfave/cli/v3"
)

func main() {
	command := &cli.Command{
		Name:  "activity-wizard-fixtures",
		Usage: "Seed a file backend with developments and stages",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "fixtures",
				Aliases:  []string{"f"},
				Usage:    "Path to the fixtures YAML file",
				Required: true,
				Sources:  cli.EnvVars("FIXTURES_FILE"),
			},
			&cli.StringFlag{
				Name:     "backend-url",
				Usage:    "Fixture directory (file://)",
				Required: true,
				Sources:  cli.EnvVars("BACKEND_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"), "text")

			return seed(ctx, command.String("fixtures"), file.NewBackend(command.String("backend-url")))
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}

func seed(ctx context.Context, fixturesPath string, be *file.Backend) error {
	logger := log.WithModule("fixtures")

	fixtures, err := config.LoadFixtures(fixturesPath)
	if err != nil {
		return err
	}

	for _, development := range fixtures.Developments {
		stages := make([]models.Stage, 0, len(development.Stages))
		configs := make([]models.StageFieldConfig, 0, len(development.Stages))

		for _, stage := range development.Stages {
			stages = append(stages, stage.Stage())

			if cfg := stage.FieldConfig(); cfg.HasDynamicFields {
				configs = append(configs, cfg)
			}
		}

		err = be.SeedDevelopment(ctx, development.ID, stages, configs)
		if err != nil {
			return err
		}

		logger.InfoContext(ctx, "Seeded development", "development_id", development.ID, "stages", len(stages))
	}

	return nil
}
