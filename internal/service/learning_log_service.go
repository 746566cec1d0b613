package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"aozu-ops-hub/internal/domain"
	"aozu-ops-hub/internal/syncer"
)

const CategoryAll = "all"

var categoryIcons = map[string]string{
	"民泊":       "🏡",
	"レンタルスペース": "🏢",
	"共通":       "📋",
}

// CategoryIcon returns the badge icon for a learning-log category.
func CategoryIcon(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return "📋"
}

// LearningLogService holds the learning log in memory, newest entry first,
// and persists every change through the slice store.
type LearningLogService struct {
	store syncer.SliceStore
	now   func() time.Time

	mu      sync.RWMutex
	entries []domain.LearningEntry
}

func NewLearningLogService(store syncer.SliceStore) *LearningLogService {
	s := &LearningLogService{store: store, now: time.Now}
	if !store.Load(domain.SliceLearningLogs, &s.entries) || s.entries == nil {
		s.entries = []domain.LearningEntry{}
	}
	return s
}

// ReplaceSlice swaps in entries reconciled from the cloud. The Local Store is
// committed under s.mu so a concurrent Create or Delete cannot interleave.
func (s *LearningLogService) ReplaceSlice(slice domain.Slice, raw []byte, commit func()) error {
	if slice != domain.SliceLearningLogs {
		return nil
	}
	var entries []domain.LearningEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("failed to decode learning logs: %w", err)
	}
	if entries == nil {
		entries = []domain.LearningEntry{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	commit()
	s.entries = entries
	return nil
}

func (s *LearningLogService) Create(req *domain.CreateLearningEntryRequest) (*domain.LearningEntry, error) {
	now := s.now()
	date := req.Date
	if date == "" {
		date = now.UTC().Format("2006-01-02")
	}

	entry := domain.LearningEntry{
		ID:         ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Date:       date,
		Platform:   req.Platform,
		Category:   req.Category,
		Incident:   req.Incident,
		Action:     req.Action,
		Prevention: req.Prevention,
		Published:  req.Published,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.LearningEntry, 0, len(s.entries)+1)
	next = append(next, entry)
	next = append(next, s.entries...)
	if err := s.store.Save(domain.SliceLearningLogs, next); err != nil {
		return nil, fmt.Errorf("failed to save learning log: %w", err)
	}
	s.entries = next
	return &entry, nil
}

func (s *LearningLogService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.LearningEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.ID != id {
			next = append(next, e)
		}
	}
	if len(next) == len(s.entries) {
		return fmt.Errorf("learning entry %s: %w", id, ErrNotFound)
	}
	if err := s.store.Save(domain.SliceLearningLogs, next); err != nil {
		return fmt.Errorf("failed to save learning log: %w", err)
	}
	s.entries = next
	return nil
}

// List returns entries whose incident, action or platform contains query,
// ignoring case.
func (s *LearningLogService) List(query string) []domain.LearningEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.LearningEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if q == "" ||
			strings.Contains(strings.ToLower(e.Incident), q) ||
			strings.Contains(strings.ToLower(e.Action), q) ||
			strings.Contains(strings.ToLower(e.Platform), q) {
			out = append(out, e)
		}
	}
	return out
}

// Export renders the whole log as indented JSON named after the UTC date.
func (s *LearningLogService) Export(now time.Time) (*domain.LearningExport, error) {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.entries, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("failed to encode learning logs: %w", err)
	}
	return &domain.LearningExport{
		Filename: fmt.Sprintf("learning-logs-%s.json", now.UTC().Format("2006-01-02")),
		Data:     data,
	}, nil
}

// Insights returns published entries, optionally limited to one category.
func (s *LearningLogService) Insights(category string) []domain.Insight {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Insight{}
	for _, e := range s.entries {
		if !e.Published {
			continue
		}
		if category != "" && category != CategoryAll && e.Category != category {
			continue
		}
		out = append(out, domain.Insight{LearningEntry: e, Icon: CategoryIcon(e.Category)})
	}
	return out
}
