package service

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"aozu-ops-hub/internal/domain"
	"aozu-ops-hub/internal/syncer"
)

const userTemplatePrefix = "user-"

// TemplateService serves built-in message templates together with the ones
// the user added. Only user templates are stored in the slice.
type TemplateService struct {
	store   syncer.SliceStore
	content ContentSource

	mu   sync.RWMutex
	user []domain.Template
}

func NewTemplateService(store syncer.SliceStore, content ContentSource) *TemplateService {
	s := &TemplateService{store: store, content: content}
	if !store.Load(domain.SliceUserTemplates, &s.user) || s.user == nil {
		s.user = []domain.Template{}
	}
	return s
}

// ReplaceSlice swaps in user templates reconciled from the cloud, committing
// the Local Store under the same lock as Create and Delete.
func (s *TemplateService) ReplaceSlice(slice domain.Slice, raw []byte, commit func()) error {
	if slice != domain.SliceUserTemplates {
		return nil
	}
	var user []domain.Template
	if err := json.Unmarshal(raw, &user); err != nil {
		return fmt.Errorf("failed to decode user templates: %w", err)
	}
	if user == nil {
		user = []domain.Template{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	commit()
	s.user = user
	return nil
}

// List returns built-in templates followed by user templates that pass
// every filter set in f. "all" or "" disables a filter.
func (s *TemplateService) List(f domain.TemplateFilter) []domain.Template {
	s.mu.RLock()
	all := append(slices.Clone(s.content.Snapshot().Templates), s.user...)
	s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := []domain.Template{}
	for _, t := range all {
		if active(f.Category) && t.Category != f.Category {
			continue
		}
		if active(f.Platform) && !slices.Contains(t.Platform, f.Platform) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Body), q) &&
			!strings.Contains(strings.ToLower(t.Category), q) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func active(filter string) bool {
	return filter != "" && filter != CategoryAll
}

func (s *TemplateService) Create(req *domain.CreateTemplateRequest) (*domain.Template, error) {
	if len(req.Platform) == 0 {
		return nil, &ValidationError{Field: "platform", Reason: "select at least one platform"}
	}

	t := domain.Template{
		ID:        userTemplatePrefix + uuid.NewString(),
		Title:     req.Title,
		Category:  req.Category,
		Platform:  slices.Clone(req.Platform),
		Body:      req.Body,
		UserAdded: true,
	}
	if req.EmojiVersion != "" {
		emoji := req.EmojiVersion
		t.EmojiVersion = &emoji
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(slices.Clone(s.user), t)
	if err := s.store.Save(domain.SliceUserTemplates, next); err != nil {
		return nil, fmt.Errorf("failed to save user templates: %w", err)
	}
	s.user = next
	return &t, nil
}

func (s *TemplateService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.user, func(t domain.Template) bool { return t.ID == id })
	if idx < 0 {
		if s.builtin(id) != nil {
			return ErrTemplateImmutable
		}
		return fmt.Errorf("template %s: %w", id, ErrNotFound)
	}

	next := slices.Delete(slices.Clone(s.user), idx, idx+1)
	if err := s.store.Save(domain.SliceUserTemplates, next); err != nil {
		return fmt.Errorf("failed to save user templates: %w", err)
	}
	s.user = next
	return nil
}

// CopyText returns the text to put on the clipboard. The emoji version is used
// only when asked for and present.
func (s *TemplateService) CopyText(id string, emoji bool) (*domain.TemplateCopy, error) {
	s.mu.RLock()
	t := s.builtin(id)
	if t == nil {
		if idx := slices.IndexFunc(s.user, func(t domain.Template) bool { return t.ID == id }); idx >= 0 {
			u := s.user[idx]
			t = &u
		}
	}
	s.mu.RUnlock()

	if t == nil {
		return nil, fmt.Errorf("template %s: %w", id, ErrNotFound)
	}

	if emoji && t.EmojiVersion != nil && *t.EmojiVersion != "" {
		return &domain.TemplateCopy{ID: t.ID, Text: *t.EmojiVersion, Emoji: true}, nil
	}
	return &domain.TemplateCopy{ID: t.ID, Text: t.Body}, nil
}

func (s *TemplateService) builtin(id string) *domain.Template {
	for _, t := range s.content.Snapshot().Templates {
		if t.ID == id {
			return &t
		}
	}
	return nil
}
