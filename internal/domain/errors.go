package domain

import "errors"

// Remote Store failure classes. Adapters wrap their transport errors with
// one of these so callers can classify without knowing the backend.
var (
	ErrRemoteUnavailable = errors.New("remote store unavailable")
	ErrPermissionDenied  = errors.New("remote store permission denied")
)
