package service

import (
	"context"

	"aozu-ops-hub/internal/domain"
	"aozu-ops-hub/internal/syncer"
)

// Reconciler is the part of the sync engine the API drives directly.
type Reconciler interface {
	StatusSource
	RemoteEnabled() bool
	SyncFromCloud(ctx context.Context) error
	SyncAllToCloud(ctx context.Context) error
}

type SyncService struct {
	engine   Reconciler
	identity syncer.Identity
}

func NewSyncService(engine Reconciler, identity syncer.Identity) *SyncService {
	return &SyncService{engine: engine, identity: identity}
}

func (s *SyncService) Status() *domain.SyncStatusResponse {
	status := s.engine.Status()
	return &domain.SyncStatusResponse{
		Status:   status,
		Label:    status.Label(),
		Title:    status.Title(),
		LoggedIn: s.identity.IsLoggedIn(),
	}
}

// Pull re-runs reconciliation, the manual retry after a sync error.
func (s *SyncService) Pull(ctx context.Context) (*domain.SyncStatusResponse, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := s.engine.SyncFromCloud(ctx); err != nil {
		return s.Status(), err
	}
	return s.Status(), nil
}

// Push uploads a full snapshot of local data.
func (s *SyncService) Push(ctx context.Context) (*domain.SyncStatusResponse, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := s.engine.SyncAllToCloud(ctx); err != nil {
		return s.Status(), err
	}
	return s.Status(), nil
}

func (s *SyncService) ready() error {
	if !s.engine.RemoteEnabled() {
		return ErrSyncDisabled
	}
	if !s.identity.IsLoggedIn() {
		return syncer.ErrNotSignedIn
	}
	return nil
}
