// Package validation implements the per-step and whole-form rules of the activity wizard.
package validation

import (
	"errors"
	"fmt"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/models"
	"github.com/go-playground/validator/v10"
)

// Wizard step identifiers, in display order.
const (
	StepBasicInfo = 1
	StepSchedule  = 2
	StepDetails   = 3
)

// StepCount is the number of wizard steps.
const StepCount = 3

// State is everything a step rule is evaluated against.
type State struct {
	Form   models.ActivityForm
	Fields models.StageFieldConfig
}

// Result is the outcome of a validation run.
type Result struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// Err returns the result as an *Error for step, or nil when it is valid.
func (r Result) Err(step int) error {
	if r.IsValid {
		return nil
	}

	return &Error{Step: step, Messages: r.Errors}
}

func newResult(errs []string) Result {
	if errs == nil {
		errs = []string{}
	}

	return Result{IsValid: len(errs) == 0, Errors: errs}
}

var basicInfoFields = []string{"StageID", "ActivityType", "ActorType", "Status", "StartDate"}

var fieldLabels = map[string]string{
	"StageID":      "Stage",
	"ActivityType": "Activity type",
	"ActorType":    "Actor type",
	"Status":       "Status",
	"StartDate":    "Start date",
}

// StepValidator evaluates the wizard rules. It holds no per-form state and is safe
// for concurrent use.
type StepValidator struct {
	validate *validator.Validate
}

// New creates a StepValidator with its own validator instance.
func New() *StepValidator {
	return NewWithValidate(validator.New(validator.WithRequiredStructEnabled()))
}

// NewWithValidate creates a StepValidator sharing an existing validator instance.
func NewWithValidate(validate *validator.Validate) *StepValidator {
	return &StepValidator{validate: validate}
}

// ValidateStep runs the rules of a single step.
func (v *StepValidator) ValidateStep(step int, state State) Result {
	switch step {
	case StepBasicInfo:
		return newResult(v.basicInfoErrors(state.Form))
	case StepSchedule:
		return newResult(scheduleErrors(state.Form))
	case StepDetails:
		return newResult(dynamicFieldErrors(state.Form.DynamicPayload, state.Fields.RequiredFields))
	default:
		return newResult([]string{fmt.Sprintf("unknown step %d", step)})
	}
}

// ValidateAllSteps is the union of every step's errors, without duplicates and in
// step order. It does not depend on which step is currently displayed.
func (v *StepValidator) ValidateAllSteps(state State) Result {
	var (
		errs []string
		seen = make(map[string]bool)
	)

	for step := StepBasicInfo; step <= StepCount; step++ {
		for _, msg := range v.ValidateStep(step, state).Errors {
			if seen[msg] {
				continue
			}

			seen[msg] = true
			errs = append(errs, msg)
		}
	}

	return newResult(errs)
}

func (v *StepValidator) basicInfoErrors(form models.ActivityForm) []string {
	err := v.validate.StructPartial(form, basicInfoFields...)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	errs := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		label, ok := fieldLabels[fieldErr.StructField()]
		if !ok {
			label = fieldErr.StructField()
		}

		errs = append(errs, label+" is required")
	}

	return errs
}

func scheduleErrors(form models.ActivityForm) []string {
	var errs []string

	if form.StartDate == "" {
		errs = append(errs, "Start date is required")
	}

	start, startErr := models.ParseDate(form.StartDate)
	if form.StartDate != "" && startErr != nil {
		errs = append(errs, "Start date must be a valid date (YYYY-MM-DD)")
	}

	if form.EndDate != "" {
		end, err := models.ParseDate(form.EndDate)

		switch {
		case err != nil:
			errs = append(errs, "End date must be a valid date (YYYY-MM-DD)")
		case startErr == nil && end.Before(start):
			errs = append(errs, "End date cannot be before the start date")
		}
	}

	return append(errs, followUpErrors(form.FollowUp)...)
}

func followUpErrors(cfg models.FollowUpConfig) []string {
	if !cfg.Enabled {
		return nil
	}

	var errs []string

	switch {
	case cfg.Type == "":
		errs = append(errs, "Follow-up type is required")
	case !cfg.Type.Valid():
		errs = append(errs, fmt.Sprintf("Follow-up type %q is not supported", cfg.Type))
	case cfg.Type.IsBefore() && (cfg.Days == nil || *cfg.Days <= 0):
		errs = append(errs, "Follow-up days must be a positive number")
	case cfg.Type.IsAfter() && (cfg.Interval == nil || *cfg.Interval <= 0):
		errs = append(errs, "Follow-up interval must be a positive number")
	}

	if cfg.Type.IsAfter() && cfg.EndDate != "" {
		if _, err := models.ParseDate(cfg.EndDate); err != nil {
			errs = append(errs, "Follow-up end date must be a valid date (YYYY-MM-DD)")
		}
	}

	return errs
}
