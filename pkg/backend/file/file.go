// Package file provides a directory-backed backend for local use and tests.
//
// Layout per development:
//
//	<root>/developments/<id>/stages.json
//	<root>/developments/<id>/stage_fields/<stageId>.json
//	<root>/developments/<id>/activities/<uuid>.json
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/backend"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/models"
	"github.com/google/uuid"
)

// Backend implements backend.Backend on the file system.
type Backend struct {
	root string

	// serializes activity id allocation
	mu sync.Mutex
}

// NewBackend creates a file backend rooted at root. A file:// prefix is accepted.
func NewBackend(root string) *Backend {
	return &Backend{root: strings.Replace(root, "file://", "", 1)}
}

func (b *Backend) developmentDir(developmentID string) string {
	return filepath.Clean(path.Join(b.root, "developments", developmentID))
}

// FetchStages reads stages.json of the development.
func (b *Backend) FetchStages(_ context.Context, developmentID string) ([]models.Stage, error) {
	body, err := os.ReadFile(path.Join(b.developmentDir(developmentID), "stages.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, backend.NewRequestError("FetchStages", developmentID, 0, backend.ErrDevelopmentNotFound)
		}

		return nil, fmt.Errorf("failed to read stages of development %s: %w", developmentID, err)
	}

	var stages []models.Stage

	err = json.Unmarshal(body, &stages)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal stages of development %s: %w", developmentID, err)
	}

	return stages, nil
}

// FetchStageFieldConfig reads stage_fields/<stageId>.json. A stage without a file
// has no dynamic fields.
func (b *Backend) FetchStageFieldConfig(_ context.Context, developmentID string, stageID int) (*models.StageFieldConfig, error) {
	if _, err := os.Stat(b.developmentDir(developmentID)); os.IsNotExist(err) {
		return nil, backend.NewRequestError("FetchStageFieldConfig", developmentID, 0, backend.ErrDevelopmentNotFound)
	}

	filePath := path.Join(b.developmentDir(developmentID), "stage_fields", strconv.Itoa(stageID)+".json")

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := models.EmptyStageFieldConfig(stageID)

			return &cfg, nil
		}

		return nil, fmt.Errorf("failed to read field config of stage %d: %w", stageID, err)
	}

	var cfg models.StageFieldConfig

	err = json.Unmarshal(body, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal field config of stage %d: %w", stageID, err)
	}

	if cfg.StageID == 0 {
		cfg.StageID = stageID
	}

	return &cfg, nil
}

// SubmitActivity stores the activity as a new JSON file.
func (b *Backend) SubmitActivity(ctx context.Context, developmentID string, payload models.ActivityPayload) (*models.Activity, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := os.Stat(b.developmentDir(developmentID)); os.IsNotExist(err) {
		return nil, backend.NewRequestError("SubmitActivity", developmentID, 0, backend.ErrDevelopmentNotFound)
	}

	dir := path.Join(b.developmentDir(developmentID), "activities")

	err := os.MkdirAll(dir, 0750)
	if err != nil {
		return nil, fmt.Errorf("failed to create activities directory: %w", err)
	}

	existing, err := b.ListActivities(ctx, developmentID)
	if err != nil {
		return nil, err
	}

	activity := &models.Activity{
		ID:             len(existing) + 1,
		DevelopmentID:  developmentID,
		ActivityType:   payload.ActivityType,
		ActorType:      payload.ActorType,
		StageID:        payload.StageID,
		Status:         payload.Status,
		StartDate:      payload.StartDate,
		EndDate:        payload.EndDate,
		NextFollowUpAt: payload.NextFollowUpAt,
		FollowUpConfig: payload.FollowUpConfig,
		Notes:          payload.Notes,
		DynamicPayload: payload.DynamicPayload,
		CreatedAt:      time.Now().UTC(),
	}

	err = writeJSONFile(path.Join(dir, uuid.NewString()+".json"), activity)
	if err != nil {
		return nil, err
	}

	return activity, nil
}

// ListActivities returns every stored activity of a development ordered by id.
func (b *Backend) ListActivities(_ context.Context, developmentID string) ([]*models.Activity, error) {
	dir := path.Join(b.developmentDir(developmentID), "activities")

	jsonFiles, err := fs.Glob(os.DirFS(dir), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list activity files: %w", err)
	}

	activities := make([]*models.Activity, len(jsonFiles))

	for _, file := range jsonFiles {
		body, err := os.ReadFile(path.Join(dir, file))
		if err != nil {
			return nil, fmt.Errorf("failed to read activity %s: %w", file, err)
		}

		var activity models.Activity

		err = json.Unmarshal(body, &activity)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal activity %s: %w", file, err)
		}

		if activity.ID < 1 || activity.ID > len(activities) || activities[activity.ID-1] != nil {
			return nil, fmt.Errorf("activity %s has an unexpected id %d", file, activity.ID)
		}

		activities[activity.ID-1] = &activity
	}

	return activities, nil
}

// SeedDevelopment writes the stages and field configurations of a development,
// replacing any stored before. Stored activities are kept.
func (b *Backend) SeedDevelopment(_ context.Context, developmentID string, stages []models.Stage, configs []models.StageFieldConfig) error {
	dir := path.Join(b.developmentDir(developmentID), "stage_fields")

	err := os.MkdirAll(dir, 0750)
	if err != nil {
		return fmt.Errorf("failed to create development directory: %w", err)
	}

	err = writeJSONFile(path.Join(b.developmentDir(developmentID), "stages.json"), stages)
	if err != nil {
		return err
	}

	for _, cfg := range configs {
		err = writeJSONFile(path.Join(dir, strconv.Itoa(cfg.StageID)+".json"), cfg)
		if err != nil {
			return err
		}
	}

	return nil
}

func writeJSONFile(filePath string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(filePath), err)
	}

	err = os.WriteFile(filePath, data, 0600)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(filePath), err)
	}

	return nil
}

// HealthCheck verifies the root directory exists.
func (b *Backend) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(b.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close has nothing to release.
func (b *Backend) Close(_ context.Context) error {
	return nil
}

var _ backend.Backend = (*Backend)(nil)
