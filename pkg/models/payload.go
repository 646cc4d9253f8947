package models

import "time"

// ActivityPayload is the body sent to the backend to create an activity.
type ActivityPayload struct {
	ActivityType   ActivityType      `json:"activity_type"`
	ActorType      ActorType         `json:"actor_type"`
	StageID        int               `json:"stage_id"`
	Status         ActivityStatus    `json:"status"`
	StartDate      string            `json:"start_date"`
	Notes          string            `json:"notes,omitempty"`
	EndDate        string            `json:"end_date,omitempty"`
	NextFollowUpAt *string           `json:"next_follow_up_at,omitempty"`
	FollowUpConfig *FollowUpConfig   `json:"follow_up_config,omitempty"`
	DynamicPayload map[string]string `json:"dynamic_payload"`
}

// NewActivityPayload assembles the submission payload from a form.
// The follow-up configuration is only included when it is enabled.
func NewActivityPayload(form ActivityForm, nextFollowUpAt *string) ActivityPayload {
	form = form.Clone()

	payload := ActivityPayload{
		ActivityType:   form.ActivityType,
		ActorType:      form.ActorType,
		StageID:        form.StageID,
		Status:         form.Status,
		StartDate:      form.StartDate,
		Notes:          form.Notes,
		EndDate:        form.EndDate,
		NextFollowUpAt: nextFollowUpAt,
		DynamicPayload: form.DynamicPayload,
	}

	if form.FollowUp.Enabled {
		followUp := form.FollowUp
		payload.FollowUpConfig = &followUp
	}

	return payload
}

// Activity is the record returned by the backend once an activity is created.
type Activity struct {
	ID             int               `json:"id"`
	DevelopmentID  string            `json:"development_id"`
	ActivityType   ActivityType      `json:"activity_type"`
	ActorType      ActorType         `json:"actor_type"`
	StageID        int               `json:"stage_id"`
	Status         ActivityStatus    `json:"status"`
	StartDate      string            `json:"start_date"`
	EndDate        string            `json:"end_date,omitempty"`
	NextFollowUpAt *string           `json:"next_follow_up_at,omitempty"`
	FollowUpConfig *FollowUpConfig   `json:"follow_up_config,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	DynamicPayload map[string]string `json:"dynamic_payload,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}
