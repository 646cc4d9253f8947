package wizard

import (
	"fmt"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/validation"
)

// StateFunc returns the current form state each time a step is evaluated.
type StateFunc func() validation.State

// StepChangeFunc is notified after every successful transition.
type StepChangeFunc func(from, to int)

// StepStatus is a step together with its live evaluation.
type StepStatus struct {
	Step

	IsValid bool `json:"is_valid"`
	Current bool `json:"current"`
}

// Controller is the step state machine of the wizard. It starts on step 1, has no
// terminal state and is not safe for concurrent use; its owner serialises calls.
type Controller struct {
	steps        []Step
	validator    *validation.StepValidator
	state        StateFunc
	onStepChange StepChangeFunc

	current int
	history []int
}

// NewController creates a controller over steps, whose IDs must be 1..len(steps)
// in order. onStepChange may be nil.
func NewController(steps []Step, validator *validation.StepValidator, state StateFunc, onStepChange StepChangeFunc) *Controller {
	return &Controller{
		steps:        steps,
		validator:    validator,
		state:        state,
		onStepChange: onStepChange,
		current:      1,
		history:      []int{1},
	}
}

// Current returns the id of the displayed step.
func (c *Controller) Current() int {
	return c.current
}

// History returns the ids of the steps visited so far, in order.
func (c *Controller) History() []int {
	return append([]int{}, c.history...)
}

// CanGoPrevious reports whether Previous would move.
func (c *Controller) CanGoPrevious() bool {
	return c.current > 1
}

// IsLastStep reports whether the displayed step is the final one.
func (c *Controller) IsLastStep() bool {
	return c.current == len(c.steps)
}

// Steps returns every step with its live validity.
func (c *Controller) Steps() []StepStatus {
	state := c.state()
	statuses := make([]StepStatus, 0, len(c.steps))

	for _, step := range c.steps {
		statuses = append(statuses, StepStatus{
			Step:    step,
			IsValid: c.evaluate(step, state).IsValid,
			Current: step.ID == c.current,
		})
	}

	return statuses
}

// Validate evaluates the displayed step.
func (c *Controller) Validate() validation.Result {
	return c.evaluate(c.steps[c.current-1], c.state())
}

// Next advances one step when the displayed step is valid. On the last step it
// does nothing. A blocked transition returns a *validation.Error.
func (c *Controller) Next() error {
	if c.IsLastStep() {
		return nil
	}

	if result := c.Validate(); !result.IsValid {
		return result.Err(c.current)
	}

	c.moveTo(c.current + 1)

	return nil
}

// Previous moves back one step. It returns false on the first step.
func (c *Controller) Previous() bool {
	if !c.CanGoPrevious() {
		return false
	}

	c.moveTo(c.current - 1)

	return true
}

// GoTo jumps to target. Going back is always allowed; going forward requires the
// displayed step to be valid, and a rejection leaves the current step unchanged.
func (c *Controller) GoTo(target int) error {
	if target < 1 || target > len(c.steps) {
		return fmt.Errorf("%w: %d", ErrInvalidStep, target)
	}

	if target == c.current {
		return nil
	}

	if target > c.current {
		if result := c.Validate(); !result.IsValid {
			return result.Err(c.current)
		}
	}

	c.moveTo(target)

	return nil
}

func (c *Controller) moveTo(target int) {
	from := c.current
	c.current = target
	c.history = append(c.history, target)

	if c.onStepChange != nil {
		c.onStepChange(from, target)
	}
}

// evaluate combines the step predicate with the validator rules of that step.
func (c *Controller) evaluate(step Step, state validation.State) validation.Result {
	result := c.validator.ValidateStep(step.ID, state)

	if step.IsValid != nil && !step.IsValid(state) && result.IsValid {
		return validation.Result{
			IsValid: false,
			Errors:  []string{fmt.Sprintf("Step %q is incomplete", step.Title)},
		}
	}

	return result
}
