package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidForm is matched by every *Error through errors.Is.
var ErrInvalidForm = errors.New("invalid activity form")

// Error carries the human-readable messages that blocked a step transition or a submit.
type Error struct {
	Step     int // 0 when the whole form was validated
	Messages []string
}

func (e *Error) Error() string {
	scope := "form"
	if e.Step > 0 {
		scope = fmt.Sprintf("step %d", e.Step)
	}

	return fmt.Sprintf("%s is invalid: %s", scope, strings.Join(e.Messages, "; "))
}

func (e *Error) Is(target error) bool {
	return target == ErrInvalidForm
}

// IsValidationError checks if an error is a form validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidForm)
}

// Messages extracts the validation messages from err, or nil if err is not a validation error.
func Messages(err error) []string {
	var validationErr *Error
	if errors.As(err, &validationErr) {
		return validationErr.Messages
	}

	return nil
}
