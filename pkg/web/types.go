// Package web exposes the activity wizard over HTTP.
package web

import "github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/models"

// OpenWizardRequest is the body of the open endpoint. It may be empty.
type OpenWizardRequest struct {
	DefaultStageID int `json:"default_stage_id" validate:"omitempty,min=1"`
}

// FollowUpRequest replaces the follow-up configuration. Offsets are checked by
// the step validator, not here.
type FollowUpRequest struct {
	Enabled  bool   `json:"enabled"`
	Type     string `json:"type"               validate:"omitempty,oneof=before_start after_start before_end after_end"`
	Days     *int   `json:"days,omitempty"`
	Interval *int   `json:"interval,omitempty"`
	EndDate  string `json:"end_date,omitempty"`
}

func (r FollowUpRequest) config() models.FollowUpConfig {
	return models.FollowUpConfig{
		Enabled:  r.Enabled,
		Type:     models.FollowUpType(r.Type),
		Days:     r.Days,
		Interval: r.Interval,
		EndDate:  r.EndDate,
	}
}

// UpdateFormRequest is a partial form update; absent fields are left as they are.
// Dates are accepted as typed and reported by the step validator when malformed.
type UpdateFormRequest struct {
	StageID        *int              `json:"stage_id,omitempty"        validate:"omitempty,min=0"`
	ActivityType   *string           `json:"activity_type,omitempty"   validate:"omitempty,oneof=seguimiento reunion entrega revision incidencia otro"`
	ActorType      *string           `json:"actor_type,omitempty"      validate:"omitempty,oneof=equipo_interno proveedor usuario cliente"`
	Status         *string           `json:"status,omitempty"          validate:"omitempty,oneof=pendiente en_curso completada cancelada"`
	StartDate      *string           `json:"start_date,omitempty"`
	EndDate        *string           `json:"end_date,omitempty"`
	FollowUp       *FollowUpRequest  `json:"follow_up_config,omitempty"`
	Notes          *string           `json:"notes,omitempty"`
	DynamicPayload map[string]string `json:"dynamic_payload,omitempty"`
}

// DynamicFieldRequest sets the value of one dynamic field.
type DynamicFieldRequest struct {
	Value string `json:"value"`
}
