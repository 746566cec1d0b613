package service

import (
	"encoding/json"
	"errors"
	"sync"

	"aozu-ops-hub/internal/content"
	"aozu-ops-hub/internal/domain"
)

// memorySliceStore is a SliceStore that keeps JSON in a map and counts saves.
type memorySliceStore struct {
	mu      sync.Mutex
	data    map[domain.Slice][]byte
	saves   map[domain.Slice]int
	saveErr error
}

func newMemorySliceStore() *memorySliceStore {
	return &memorySliceStore{
		data:  make(map[domain.Slice][]byte),
		saves: make(map[domain.Slice]int),
	}
}

func (m *memorySliceStore) Save(slice domain.Slice, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[slice] = b
	m.saves[slice]++
	return nil
}

func (m *memorySliceStore) Load(slice domain.Slice, dst any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[slice]
	if !ok {
		return false
	}
	return json.Unmarshal(b, dst) == nil
}

func (m *memorySliceStore) raw(slice domain.Slice) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.data[slice])
}

func (m *memorySliceStore) saveCount(slice domain.Slice) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves[slice]
}

var errDiskFull = errors.New("disk full")

func strPtr(s string) *string { return &s }

func testLibrary() *content.Library {
	return content.NewStaticLibrary(&content.Snapshot{
		Rules: []domain.Rule{
			{ID: "quiet-hours", Title: "Quiet hours", Description: "22時以降は静かに"},
			{ID: "garbage", Title: "ゴミ出し", Description: "分別して指定日に"},
		},
		SOP: []domain.SOP{
			{ID: "airbnb", Platform: "Airbnb", Tips: []string{"Reply within 24h"}, CheckOrder: []string{"予約", "メッセージ"}},
			{ID: "spacee", Platform: "スペイシー", Tips: []string{"鍵の返却を確認"}},
		},
		Templates: []domain.Template{
			{ID: "checkin", Title: "Check-in guide", Category: "checkin", Platform: []string{"airbnb", "booking"}, Body: "Welcome!", EmojiVersion: strPtr("Welcome! 🎉")},
			{ID: "review", Title: "Review thanks", Category: "review", Platform: []string{"airbnb"}, Body: "Thanks for staying"},
		},
		Cancellation: map[string]domain.CancellationPolicy{
			"spacee": {
				Note: "スペイシー標準",
				Policy: []domain.PolicyRule{
					{Range: "30日前〜15日前", Charge: 0, Refund: 100},
					{Range: "14日前〜7日前", Charge: 50, Refund: 50},
					{Range: "前日〜当日", Charge: 100, Refund: 0},
				},
			},
			"instabase": {
				Policy: []domain.PolicyRule{
					{Range: "7日前", Charge: 30, Refund: 70},
				},
			},
		},
	})
}
