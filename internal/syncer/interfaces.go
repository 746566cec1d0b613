package syncer

import (
	"context"
	"encoding/json"

	"aozu-ops-hub/internal/domain"
)

// LocalStore is synchronous device storage. Write must not fail from the
// caller's point of view; implementations log and drop what they cannot keep.
type LocalStore interface {
	Write(key, value string)
	Read(key string) (string, bool)
}

// RemoteStore holds one mergeable document per user. GetDocument returns
// (nil, nil) when the user has never synced.
type RemoteStore interface {
	GetDocument(ctx context.Context, userID string) (*domain.RemoteDocument, error)
	SetFields(ctx context.Context, userID string, fields map[domain.Slice]json.RawMessage) error
}

type Identity interface {
	IsLoggedIn() bool
	UserID() string
}

// SessionSource publishes identity transitions.
type SessionSource interface {
	Subscribe(fn func(prev, next *domain.User)) (cancel func())
}

type StatusReporter interface {
	UpdateSyncStatus(status domain.SyncStatus)
}

// Mirror is in-memory state that shadows a slice and must be replaced when
// reconciliation overwrites it. raw is the slice's JSON value. A mirror that
// owns the slice calls commit, which writes the Local Store, while holding the
// lock its own writers hold; slices it does not own are ignored.
type Mirror interface {
	ReplaceSlice(slice domain.Slice, raw []byte, commit func()) error
}

// Renderer is told to redraw after reconciliation changed local data.
type Renderer interface {
	Refresh()
}

// SliceStore is the capability feature services receive for persisting
// their slices. Engine implements it.
type SliceStore interface {
	Save(slice domain.Slice, value any) error
	Load(slice domain.Slice, dst any) bool
}
