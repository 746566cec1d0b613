package domain

import (
	"encoding/json"
	"time"
)

type SyncStatus string

const (
	SyncStatusIdle    SyncStatus = "idle"
	SyncStatusSyncing SyncStatus = "syncing"
	SyncStatusSynced  SyncStatus = "synced"
	SyncStatusError   SyncStatus = "error"
)

// Label is the text shown by the status indicator.
func (s SyncStatus) Label() string {
	switch s {
	case SyncStatusSyncing:
		return "🔄 同期中..."
	case SyncStatusSynced:
		return "✅ 同期済み"
	case SyncStatusError:
		return "⚠️ 同期エラー"
	default:
		return ""
	}
}

func (s SyncStatus) Title() string {
	switch s {
	case SyncStatusSyncing:
		return "データを同期しています"
	case SyncStatusSynced:
		return "クラウドと同期されています"
	case SyncStatusError:
		return "同期に失敗しました"
	default:
		return ""
	}
}

type SyncStatusResponse struct {
	Status   SyncStatus `json:"status"`
	Label    string     `json:"label"`
	Title    string     `json:"title"`
	LoggedIn bool       `json:"logged_in"`
}

// RemoteDocument is the per-user cloud mirror. A slice missing from Fields
// was never synced; it is not the same as an empty value.
type RemoteDocument struct {
	UserID      string
	Fields      map[Slice]json.RawMessage
	LastUpdated time.Time
}

func (d *RemoteDocument) Has(s Slice) bool {
	if d == nil {
		return false
	}
	_, ok := d.Fields[s]
	return ok
}
