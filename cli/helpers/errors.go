package helpers

import (
	"errors"
	"fmt"
)

// ErrInvalidHistory reports a message history that breaks tool pairing.
var ErrInvalidHistory = errors.New("invalid message history")

// InvalidHistoryError carries the validation issues of a rejected history
type InvalidHistoryError struct {
	Issues []string
}

func (e *InvalidHistoryError) Error() string {
	return fmt.Sprintf("message history is invalid: %d %s", len(e.Issues), Pluralize(len(e.Issues), "issue", "issues"))
}

func (e *InvalidHistoryError) Is(target error) bool {
	return target == ErrInvalidHistory
}

// NewInvalidHistoryError creates a new invalid history error
func NewInvalidHistoryError(issues []string) error {
	return &InvalidHistoryError{Issues: issues}
}
