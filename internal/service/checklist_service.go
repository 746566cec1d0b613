package service

import (
	"fmt"
	"sync"

	"aozu-ops-hub/internal/domain"
	"aozu-ops-hub/internal/syncer"
)

// ChecklistService keeps the daily checklist: item id to checked.
type ChecklistService struct {
	store syncer.SliceStore
	mu    sync.Mutex
}

func NewChecklistService(store syncer.SliceStore) *ChecklistService {
	return &ChecklistService{store: store}
}

func (s *ChecklistService) Get() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *ChecklistService) load() map[string]bool {
	items := map[string]bool{}
	if !s.store.Load(domain.SliceChecklist, &items) || items == nil {
		items = map[string]bool{}
	}
	return items
}

func (s *ChecklistService) Set(itemID string, checked bool) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load()
	items[itemID] = checked
	if err := s.store.Save(domain.SliceChecklist, items); err != nil {
		return nil, fmt.Errorf("failed to save checklist: %w", err)
	}
	return items, nil
}

// Replace stores the whole checklist as given.
func (s *ChecklistService) Replace(items map[string]bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if items == nil {
		items = map[string]bool{}
	}
	if err := s.store.Save(domain.SliceChecklist, items); err != nil {
		return fmt.Errorf("failed to save checklist: %w", err)
	}
	return nil
}

// Reset clears every item. The empty checklist is saved, not removed, so the
// reset reaches the cloud copy as well.
func (s *ChecklistService) Reset() error {
	return s.Replace(map[string]bool{})
}
