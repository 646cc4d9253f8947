package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrDevelopmentNotFound indicates the development does not exist in the backend.
	ErrDevelopmentNotFound = errors.New("development not found")

	// ErrStageNotFound indicates the stage does not exist for the development.
	ErrStageNotFound = errors.New("stage not found")

	// ErrUnexpectedStatus indicates the backend answered with a non-success status.
	ErrUnexpectedStatus = errors.New("unexpected backend response status")
)

// RequestError wraps a failed backend operation with its context.
type RequestError struct {
	Op            string // FetchStages, FetchStageFieldConfig or SubmitActivity
	DevelopmentID string
	StatusCode    int // zero when no HTTP response was received
	Err           error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed for development %s (status %d): %v", e.Op, e.DevelopmentID, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("%s failed for development %s: %v", e.Op, e.DevelopmentID, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewRequestError creates a new request error with context.
func NewRequestError(op, developmentID string, statusCode int, err error) *RequestError {
	return &RequestError{
		Op:            op,
		DevelopmentID: developmentID,
		StatusCode:    statusCode,
		Err:           err,
	}
}

// IsDevelopmentNotFound checks if an error indicates a missing development.
func IsDevelopmentNotFound(err error) bool {
	return errors.Is(err, ErrDevelopmentNotFound)
}

// IsStageNotFound checks if an error indicates a missing stage.
func IsStageNotFound(err error) bool {
	return errors.Is(err, ErrStageNotFound)
}
