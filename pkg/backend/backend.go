// Package backend defines the portal operations the activity wizard depends on.
package backend

import (
	"context"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/models"
)

// Backend is the store that owns developments, their stages and activities.
type Backend interface {
	// FetchStages lists the stages of a development, in no particular order.
	FetchStages(ctx context.Context, developmentID string) ([]models.Stage, error)

	// FetchStageFieldConfig returns the dynamic field schema of one stage.
	FetchStageFieldConfig(ctx context.Context, developmentID string, stageID int) (*models.StageFieldConfig, error)

	// SubmitActivity creates an activity and returns the stored record.
	SubmitActivity(ctx context.Context, developmentID string, payload models.ActivityPayload) (*models.Activity, error)

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
