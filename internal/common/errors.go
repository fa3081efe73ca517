// Package common provides shared error and logging helpers used across
// the importer.
package common

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the pipeline.
var (
	ErrInvalidPreset = errors.New("invalid preset")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError carries a message fit for the terminal alongside the
// technical cause. The CLI prints UserMessage; the cause goes to the log.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError wraps err with a message meant for the operator.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
