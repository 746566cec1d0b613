package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrTemplateImmutable = errors.New("built-in templates cannot be deleted")
	ErrInvalidDays       = errors.New("days before must be zero or more")
	ErrPolicyNotFound    = errors.New("cancellation policy not found")
	ErrInvalidToken      = errors.New("invalid identity token")
	ErrSyncDisabled      = errors.New("cloud sync is disabled")
)

// ValidationError reports a request field the service refuses.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
