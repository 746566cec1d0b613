package syncer

import (
	"errors"
	"fmt"

	"aozu-ops-hub/internal/domain"
)

var (
	ErrNotSignedIn    = errors.New("not signed in")
	ErrUnknownSlice   = errors.New("unknown slice")
	ErrMalformedSlice = errors.New("malformed slice value")
)

// SyncError wraps a remote failure with the operation that hit it.
type SyncError struct {
	Op    string // "flush", "pull", "push"
	Slice domain.Slice
	Err   error
}

func (e *SyncError) Error() string {
	if e.Slice != "" {
		return fmt.Sprintf("sync %s of %s failed: %v", e.Op, e.Slice, e.Err)
	}
	return fmt.Sprintf("sync %s failed: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
