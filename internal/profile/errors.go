package profile

import (
	"errors"
	"fmt"

	"github.com/Jasmitha1474/women-safety-app/internal/models"
)

// ErrMissingPin no new PIN was supplied and none is stored.
var ErrMissingPin = errors.New("a 4-digit pin is required")

// ValidationError a candidate field failed validation. Nothing was saved.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// RemoteSaveError the remote create-or-update failed. Profile holds the
// validated record that was not persisted, so the caller may keep its edits.
type RemoteSaveError struct {
	Profile models.UserProfile
	Err     error
}

func (e *RemoteSaveError) Error() string {
	return fmt.Sprintf("failed to save profile remotely: %v", e.Err)
}

func (e *RemoteSaveError) Unwrap() error { return e.Err }
