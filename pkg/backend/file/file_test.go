package file

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/backend"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, filePath string, value any) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0750))

	data, err := json.Marshal(value)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filePath, data, 0600))
}

func seedDevelopment(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	dir := filepath.Join(root, "developments", "dev-1")

	writeJSON(t, filepath.Join(dir, "stages.json"), []models.Stage{
		{ID: 2, StageName: "Desarrollo", StageCode: "20"},
		{ID: 1, StageName: "Definición", StageCode: "10"},
	})
	writeJSON(t, filepath.Join(dir, "stage_fields", "2.json"), models.StageFieldConfig{
		StageName:        "Desarrollo",
		StageCode:        "20",
		HasDynamicFields: true,
		RequiredFields:   []string{"Ticket"},
		OptionalFields:   []string{"Observaciones"},
	})

	return root
}

func TestNewBackend(t *testing.T) {
	assert.Equal(t, "/tmp/test", NewBackend("/tmp/test").root)
	assert.Equal(t, "/tmp/test", NewBackend("file:///tmp/test").root)
}

func TestBackend_FetchStages(t *testing.T) {
	b := NewBackend(seedDevelopment(t))

	stages, err := b.FetchStages(t.Context(), "dev-1")

	require.NoError(t, err)
	require.Len(t, stages, 2)
	assert.Equal(t, "20", stages[0].StageCode, "stages are returned as stored")

	_, err = b.FetchStages(t.Context(), "missing")
	require.Error(t, err)
	assert.True(t, backend.IsDevelopmentNotFound(err))
}

func TestBackend_FetchStageFieldConfig(t *testing.T) {
	b := NewBackend(seedDevelopment(t))

	cfg, err := b.FetchStageFieldConfig(t.Context(), "dev-1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.StageID)
	assert.Equal(t, []string{"Ticket"}, cfg.RequiredFields)
	assert.True(t, cfg.HasDynamicFields)

	cfg, err = b.FetchStageFieldConfig(t.Context(), "dev-1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.StageID)
	assert.Empty(t, cfg.RequiredFields)
	assert.False(t, cfg.HasDynamicFields)

	_, err = b.FetchStageFieldConfig(t.Context(), "missing", 1)
	assert.True(t, backend.IsDevelopmentNotFound(err))
}

func TestBackend_SubmitActivity(t *testing.T) {
	root := seedDevelopment(t)
	b := NewBackend(root)

	next := "2026-02-07"
	days := 3
	payload := models.ActivityPayload{
		ActivityType:   models.ActivityTypeReunion,
		ActorType:      models.ActorTypeProveedor,
		StageID:        2,
		Status:         models.ActivityStatusPendiente,
		StartDate:      "2026-02-10",
		NextFollowUpAt: &next,
		FollowUpConfig: &models.FollowUpConfig{Enabled: true, Type: models.FollowUpBeforeStart, Days: &days},
		DynamicPayload: map[string]string{"Ticket": "T-1"},
	}

	first, err := b.SubmitActivity(t.Context(), "dev-1", payload)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, "dev-1", first.DevelopmentID)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := b.SubmitActivity(t.Context(), "dev-1", payload)
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)

	files, err := filepath.Glob(filepath.Join(root, "developments", "dev-1", "activities", "*.json"))
	require.NoError(t, err)
	assert.Len(t, files, 2)

	activities, err := b.ListActivities(t.Context(), "dev-1")
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, "2026-02-07", *activities[0].NextFollowUpAt)
	assert.Equal(t, map[string]string{"Ticket": "T-1"}, activities[1].DynamicPayload)

	_, err = b.SubmitActivity(t.Context(), "missing", payload)
	assert.True(t, backend.IsDevelopmentNotFound(err))
}

func TestBackend_SeedDevelopment(t *testing.T) {
	b := NewBackend(t.TempDir())

	err := b.SeedDevelopment(t.Context(), "dev-9",
		[]models.Stage{{ID: 4, StageName: "Pruebas", StageCode: "40"}},
		[]models.StageFieldConfig{{StageID: 4, HasDynamicFields: true, RequiredFields: []string{"Ambiente"}}},
	)
	require.NoError(t, err)

	stages, err := b.FetchStages(t.Context(), "dev-9")
	require.NoError(t, err)
	assert.Equal(t, []models.Stage{{ID: 4, StageName: "Pruebas", StageCode: "40"}}, stages)

	cfg, err := b.FetchStageFieldConfig(t.Context(), "dev-9", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ambiente"}, cfg.RequiredFields)

	activities, err := b.ListActivities(t.Context(), "dev-9")
	require.NoError(t, err)
	assert.Empty(t, activities)
}

func TestBackend_HealthCheck(t *testing.T) {
	assert.NoError(t, NewBackend(t.TempDir()).HealthCheck(t.Context()))
	assert.ErrorIs(t, NewBackend(filepath.Join(t.TempDir(), "nope")).HealthCheck(t.Context()), os.ErrNotExist)
	assert.NoError(t, NewBackend(t.TempDir()).Close(t.Context()))
}
