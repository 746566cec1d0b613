package service

import (
	"fmt"

	"aozu-ops-hub/internal/domain"
	"aozu-ops-hub/internal/syncer"
)

type NotesService struct {
	store syncer.SliceStore
}

func NewNotesService(store syncer.SliceStore) *NotesService {
	return &NotesService{store: store}
}

func (s *NotesService) Get() string {
	var text string
	s.store.Load(domain.SliceNotes, &text)
	return text
}

func (s *NotesService) Set(text string) error {
	if err := s.store.Save(domain.SliceNotes, text); err != nil {
		return fmt.Errorf("failed to save notes: %w", err)
	}
	return nil
}
