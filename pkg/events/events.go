// Package events defines the notifications published over the wizard lifecycle.
package events

import (
	"time"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/models"
	"github.com/google/uuid"
)

type EventType string

// Topic carries every wizard event.
const Topic = "activity-wizard.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	WizardOpenedEvent    EventType = "activity_wizard.opened"
	WizardClosedEvent    EventType = "activity_wizard.closed"
	ActivityCreatedEvent EventType = "activity.created"
)

type BaseEvent struct {
	ID            string         `json:"id"`
	Type          EventType      `json:"type"`
	Timestamp     time.Time      `json:"timestamp"`
	DevelopmentID string         `json:"development_id"`
	SessionID     string         `json:"session_id"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// NewBaseEvent stamps a new event with a random id and the current time.
func NewBaseEvent(eventType EventType, developmentID, sessionID string) BaseEvent {
	return BaseEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		Timestamp:     time.Now().UTC(),
		DevelopmentID: developmentID,
		SessionID:     sessionID,
	}
}

type WizardOpened struct {
	BaseEvent

	StageID int `json:"stage_id"`
}

func (w WizardOpened) GetType() EventType {
	return WizardOpenedEvent
}

// WizardClosed is published once per session, after ActivityCreated when the
// wizard closed on a successful submission.
type WizardClosed struct {
	BaseEvent

	Submitted bool `json:"submitted"`
}

func (w WizardClosed) GetType() EventType {
	return WizardClosedEvent
}

type ActivityCreated struct {
	BaseEvent

	ActivityID     int                    `json:"activity_id"`
	StageID        int                    `json:"stage_id"`
	ActivityType   models.ActivityType    `json:"activity_type"`
	ActorType      models.ActorType       `json:"actor_type"`
	Status         models.ActivityStatus  `json:"status"`
	StartDate      string                 `json:"start_date"`
	NextFollowUpAt *string                `json:"next_follow_up_at,omitempty"`
	FollowUpConfig *models.FollowUpConfig `json:"follow_up_config,omitempty"`
}

func (a ActivityCreated) GetType() EventType {
	return ActivityCreatedEvent
}

// NewActivityCreated builds the event for a stored activity.
func NewActivityCreated(sessionID string, activity *models.Activity) ActivityCreated {
	return ActivityCreated{
		BaseEvent:      NewBaseEvent(ActivityCreatedEvent, activity.DevelopmentID, sessionID),
		ActivityID:     activity.ID,
		StageID:        activity.StageID,
		ActivityType:   activity.ActivityType,
		ActorType:      activity.ActorType,
		Status:         activity.Status,
		StartDate:      activity.StartDate,
		NextFollowUpAt: activity.NextFollowUpAt,
		FollowUpConfig: activity.FollowUpConfig,
	}
}
