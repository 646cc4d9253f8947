package events

import (
	"encoding/json"
	"testing"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewActivityCreated(t *testing.T) {
	next := "2026-02-07"
	days := 3

	event := NewActivityCreated("wiz-1", &models.Activity{
		ID:             12,
		DevelopmentID:  "DEV-1",
		ActivityType:   models.ActivityTypeEntrega,
		ActorType:      models.ActorTypeCliente,
		StageID:        4,
		Status:         models.ActivityStatusPendiente,
		StartDate:      "2026-02-10",
		NextFollowUpAt: &next,
		FollowUpConfig: &models.FollowUpConfig{Enabled: true, Type: models.FollowUpBeforeStart, Days: &days},
	})

	assert.Equal(t, ActivityCreatedEvent, event.GetType())
	assert.Equal(t, ActivityCreatedEvent, event.Type)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.Timestamp.IsZero())
	assert.Equal(t, "DEV-1", event.DevelopmentID)
	assert.Equal(t, "wiz-1", event.SessionID)
	assert.Equal(t, 12, event.ActivityID)

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "activity.created", decoded["type"])
	assert.Equal(t, "2026-02-07", decoded["next_follow_up_at"])
	assert.Equal(t, "before_start", decoded["follow_up_config"].(map[string]any)["type"])
}

func TestEventTypes(t *testing.T) {
	tests := []struct {
		event interface{ GetType() EventType }
		want  EventType
	}{
		{WizardOpened{}, WizardOpenedEvent},
		{WizardClosed{}, WizardClosedEvent},
		{ActivityCreated{}, ActivityCreatedEvent},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.event.GetType())
	}
}
