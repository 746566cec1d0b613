package service

import (
	"strings"

	"aozu-ops-hub/internal/domain"
)

type SOPService struct {
	content ContentSource
}

func NewSOPService(content ContentSource) *SOPService {
	return &SOPService{content: content}
}

// List filters procedures by platform id (case-insensitive, "all" or "" for
// every platform) and by query over the platform name, tips and check order.
func (s *SOPService) List(platform, query string) []domain.SOP {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []domain.SOP{}
	for _, sop := range s.content.Snapshot().SOP {
		if active(platform) && !strings.EqualFold(sop.ID, platform) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(sop.Platform), q) &&
			!anyContains(sop.Tips, q) &&
			!anyContains(sop.CheckOrder, q) {
			continue
		}
		out = append(out, sop)
	}
	return out
}

func anyContains(items []string, q string) bool {
	for _, item := range items {
		if strings.Contains(strings.ToLower(item), q) {
			return true
		}
	}
	return false
}
