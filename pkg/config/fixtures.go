// Package config loads the YAML fixtures used to seed the file backend.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/models"
	"gopkg.in/yaml.v3"
)

var ErrNoDevelopments = errors.New("at least one development must be configured")

// FixturesFile represents the structure of a fixtures.yaml file.
type FixturesFile struct {
	Developments []DevelopmentFixture `yaml:"developments"`
}

// DevelopmentFixture describes one development and its stages.
type DevelopmentFixture struct {
	ID     string         `yaml:"id"`
	Stages []StageFixture `yaml:"stages"`
}

// StageFixture describes a stage and the dynamic fields it declares.
type StageFixture struct {
	ID             int      `yaml:"id"`
	Name           string   `yaml:"name"`
	Code           string   `yaml:"code"`
	RequiredFields []string `yaml:"required_fields"`
	OptionalFields []string `yaml:"optional_fields"`
}

// Stage returns the stage as listed by the backend.
func (s StageFixture) Stage() models.Stage {
	return models.Stage{ID: s.ID, StageName: s.Name, StageCode: s.Code}
}

// FieldConfig returns the dynamic field configuration of the stage.
func (s StageFixture) FieldConfig() models.StageFieldConfig {
	cfg := models.EmptyStageFieldConfig(s.ID)
	cfg.StageName = s.Name
	cfg.StageCode = s.Code

	if len(s.RequiredFields) > 0 {
		cfg.RequiredFields = append(cfg.RequiredFields, s.RequiredFields...)
	}

	if len(s.OptionalFields) > 0 {
		cfg.OptionalFields = append(cfg.OptionalFields, s.OptionalFields...)
	}

	cfg.HasDynamicFields = len(cfg.RequiredFields)+len(cfg.OptionalFields) > 0

	return cfg
}

// LoadFixtures reads and validates a fixtures file.
func LoadFixtures(filepath string) (FixturesFile, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return FixturesFile{}, fmt.Errorf("failed to read fixtures file %s: %w", filepath, err)
	}

	var fixtures FixturesFile
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return FixturesFile{}, fmt.Errorf("failed to parse YAML fixtures: %w", err)
	}

	if err := ValidateFixtures(fixtures); err != nil {
		return FixturesFile{}, err
	}

	return fixtures, nil
}

// ValidateFixtures checks ids are present and unique.
func ValidateFixtures(fixtures FixturesFile) error {
	if len(fixtures.Developments) == 0 {
		return ErrNoDevelopments
	}

	developments := make(map[string]struct{}, len(fixtures.Developments))

	for i, development := range fixtures.Developments {
		if development.ID == "" {
			return fmt.Errorf("developments[%d]: id is required", i)
		}

		if _, exists := developments[development.ID]; exists {
			return fmt.Errorf("developments[%d]: duplicate id '%s'", i, development.ID)
		}

		developments[development.ID] = struct{}{}

		stages := make(map[int]struct{}, len(development.Stages))

		for j, stage := range development.Stages {
			if stage.ID < 1 {
				return fmt.Errorf("developments[%d].stages[%d]: id must be positive", i, j)
			}

			if stage.Name == "" {
				return fmt.Errorf("developments[%d].stages[%d]: name is required", i, j)
			}

			if _, exists := stages[stage.ID]; exists {
				return fmt.Errorf("developments[%d].stages[%d]: duplicate id %d", i, j, stage.ID)
			}

			stages[stage.ID] = struct{}{}
		}
	}

	return nil
}
