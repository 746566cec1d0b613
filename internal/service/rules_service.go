package service

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"aozu-ops-hub/internal/domain"
	"aozu-ops-hub/internal/syncer"
)

type RulesService struct {
	store   syncer.SliceStore
	content ContentSource
	mu      sync.Mutex
}

func NewRulesService(store syncer.SliceStore, content ContentSource) *RulesService {
	return &RulesService{store: store, content: content}
}

func (s *RulesService) checked() []string {
	ids := []string{}
	if !s.store.Load(domain.SliceRulesChecked, &ids) || ids == nil {
		ids = []string{}
	}
	return ids
}

// List returns the house rules matching query, each with its checked state.
func (s *RulesService) List(query string) []domain.RuleView {
	s.mu.Lock()
	checked := s.checked()
	s.mu.Unlock()

	set := make(map[string]bool, len(checked))
	for _, id := range checked {
		set[id] = true
	}

	q := strings.ToLower(strings.TrimSpace(query))
	views := []domain.RuleView{}
	for _, r := range s.content.Snapshot().Rules {
		if q != "" &&
			!strings.Contains(strings.ToLower(r.Title), q) &&
			!strings.Contains(strings.ToLower(r.Description), q) {
			continue
		}
		views = append(views, domain.RuleView{Rule: r, Checked: set[r.ID]})
	}
	return views
}

func (s *RulesService) SetChecked(ruleID string, checked bool) ([]string, error) {
	if !s.exists(ruleID) {
		return nil, fmt.Errorf("rule %s: %w", ruleID, ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.checked()
	if checked {
		if !slices.Contains(ids, ruleID) {
			ids = append(ids, ruleID)
		}
	} else {
		kept := ids[:0]
		for _, id := range ids {
			if id != ruleID {
				kept = append(kept, id)
			}
		}
		ids = kept
	}

	if err := s.store.Save(domain.SliceRulesChecked, ids); err != nil {
		return nil, fmt.Errorf("failed to save checked rules: %w", err)
	}
	return ids, nil
}

func (s *RulesService) exists(ruleID string) bool {
	for _, r := range s.content.Snapshot().Rules {
		if r.ID == ruleID {
			return true
		}
	}
	return false
}
