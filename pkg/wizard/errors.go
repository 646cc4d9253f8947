package wizard

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStep is returned when navigating to a step that does not exist.
	ErrInvalidStep = errors.New("invalid wizard step")

	// ErrSessionClosed is returned by any operation on a closed session.
	ErrSessionClosed = errors.New("wizard session is closed")

	// ErrSubmissionInProgress is returned when submit is called while a submission is pending.
	ErrSubmissionInProgress = errors.New("submission already in progress")

	// ErrFieldsLoading is returned when submit gives up waiting for the selected
	// stage's field configuration.
	ErrFieldsLoading = errors.New("stage field configuration is still loading")
)

// SubmissionFailedMessage is shown to the user when the create call fails.
const SubmissionFailedMessage = "The activity could not be created, please try again"

// SubmissionError wraps a failed create call. The form is left untouched so the
// user can retry.
type SubmissionError struct {
	DevelopmentID string
	Err           error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit activity for development %s: %v", e.DevelopmentID, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// IsSubmissionError checks if an error is a failed create call.
func IsSubmissionError(err error) bool {
	var target *SubmissionError

	return errors.As(err, &target)
}

// IsSessionClosed checks if an error indicates the session was already closed.
func IsSessionClosed(err error) bool {
	return errors.Is(err, ErrSessionClosed)
}

// IsConflictError checks if an error is caused by a pending submission or a
// field configuration that has not loaded yet.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrSubmissionInProgress) || errors.Is(err, ErrFieldsLoading)
}
