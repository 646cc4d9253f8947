// Package wizard drives the three-step activity creation flow.
package wizard

import "github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/validation"

// Predicate reports whether a step is complete for the given state.
type Predicate func(state validation.State) bool

// Step is one screen of the wizard.
type Step struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsValid     Predicate `json:"-"`
}

// DefaultSteps returns the three fixed steps of the activity wizard in display order.
//
// The predicates are the quick completeness checks the UI uses to enable the
// "next" control; navigation also requires the StepValidator to report no errors.
func DefaultSteps() []Step {
	return []Step{
		{
			ID:          validation.StepBasicInfo,
			Title:       "Información básica",
			Description: "Etapa, tipo de actividad, actor y estado",
			IsValid: func(s validation.State) bool {
				f := s.Form

				return f.StageID != 0 && f.ActivityType != "" && f.ActorType != "" && f.Status != "" && f.StartDate != ""
			},
		},
		{
			ID:          validation.StepSchedule,
			Title:       "Fechas y seguimiento",
			Description: "Fechas de la actividad y recordatorio de seguimiento",
			IsValid: func(s validation.State) bool {
				return s.Form.StartDate != ""
			},
		},
		{
			ID:          validation.StepDetails,
			Title:       "Notas y campos de la etapa",
			Description: "Observaciones y campos dinámicos definidos por la etapa",
			IsValid: func(_ validation.State) bool {
				return true
			},
		},
	}
}
