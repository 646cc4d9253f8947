// Package models defines the domain models for the activity-creation wizard.
package models

import "time"

// DateLayout is the calendar date format used for every date field of the form.
const DateLayout = "2006-01-02"

// DefaultStageID is used when the caller does not provide a stage to preselect.
const DefaultStageID = 1

// ActivityType classifies the unit of work being logged.
type ActivityType string

const (
	ActivityTypeSeguimiento ActivityType = "seguimiento"
	ActivityTypeReunion     ActivityType = "reunion"
	ActivityTypeEntrega     ActivityType = "entrega"
	ActivityTypeRevision    ActivityType = "revision"
	ActivityTypeIncidencia  ActivityType = "incidencia"
	ActivityTypeOtro        ActivityType = "otro"
)

// ActorType identifies who performs the activity.
type ActorType string

const (
	ActorTypeEquipoInterno ActorType = "equipo_interno"
	ActorTypeProveedor     ActorType = "proveedor"
	ActorTypeUsuario       ActorType = "usuario"
	ActorTypeCliente       ActorType = "cliente"
)

// ActivityStatus is the progress state of an activity.
type ActivityStatus string

const (
	ActivityStatusPendiente  ActivityStatus = "pendiente"
	ActivityStatusEnCurso    ActivityStatus = "en_curso"
	ActivityStatusCompletada ActivityStatus = "completada"
	ActivityStatusCancelada  ActivityStatus = "cancelada"
)

// FollowUpType selects the anchor date and direction of a follow-up reminder.
type FollowUpType string

const (
	FollowUpBeforeStart FollowUpType = "before_start"
	FollowUpAfterStart  FollowUpType = "after_start"
	FollowUpBeforeEnd   FollowUpType = "before_end"
	FollowUpAfterEnd    FollowUpType = "after_end"
)

// IsBefore reports whether the follow-up is counted backwards from its anchor (uses Days).
func (t FollowUpType) IsBefore() bool {
	return t == FollowUpBeforeStart || t == FollowUpBeforeEnd
}

// IsAfter reports whether the follow-up is counted forward from its anchor (uses Interval).
func (t FollowUpType) IsAfter() bool {
	return t == FollowUpAfterStart || t == FollowUpAfterEnd
}

// Valid reports whether t is one of the known follow-up types.
func (t FollowUpType) Valid() bool {
	return t.IsBefore() || t.IsAfter()
}

// FollowUpConfig describes an optional reminder relative to the activity dates.
// Only one of Days and Interval is meaningful at a time, depending on Type; the
// other one may hold a stale value and is ignored.
type FollowUpConfig struct {
	Enabled  bool         `json:"enabled"`
	Type     FollowUpType `json:"type,omitempty"`
	Days     *int         `json:"days,omitempty"`
	Interval *int         `json:"interval,omitempty"`
	EndDate  string       `json:"end_date,omitempty"` // only meaningful for after_* types
}

// ActivityForm holds all the input gathered by the wizard.
type ActivityForm struct {
	StageID        int               `json:"stage_id"        validate:"required"`
	ActivityType   ActivityType      `json:"activity_type"   validate:"required"`
	ActorType      ActorType         `json:"actor_type"      validate:"required"`
	Status         ActivityStatus    `json:"status"          validate:"required"`
	StartDate      string            `json:"start_date"      validate:"required"`
	EndDate        string            `json:"end_date"`
	FollowUp       FollowUpConfig    `json:"follow_up_config"`
	Notes          string            `json:"notes"`
	DynamicPayload map[string]string `json:"dynamic_payload"`
}

// NewActivityForm returns a form populated with the wizard defaults.
// A non-positive defaultStageID falls back to DefaultStageID.
func NewActivityForm(defaultStageID int) ActivityForm {
	if defaultStageID <= 0 {
		defaultStageID = DefaultStageID
	}

	return ActivityForm{
		StageID:        defaultStageID,
		ActivityType:   ActivityTypeSeguimiento,
		ActorType:      ActorTypeEquipoInterno,
		Status:         ActivityStatusPendiente,
		DynamicPayload: map[string]string{},
	}
}

// Clone returns a deep copy of the form so callers cannot alias its maps or pointers.
func (f ActivityForm) Clone() ActivityForm {
	clone := f

	clone.DynamicPayload = make(map[string]string, len(f.DynamicPayload))
	for k, v := range f.DynamicPayload {
		clone.DynamicPayload[k] = v
	}

	clone.FollowUp = f.FollowUp.Clone()

	return clone
}

// Clone returns a copy of the config with its own Days and Interval values.
func (c FollowUpConfig) Clone() FollowUpConfig {
	clone := c

	if c.Days != nil {
		days := *c.Days
		clone.Days = &days
	}

	if c.Interval != nil {
		interval := *c.Interval
		clone.Interval = &interval
	}

	return clone
}

// ParseDate parses a calendar date string in DateLayout as a UTC midnight.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}
