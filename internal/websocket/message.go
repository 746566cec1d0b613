package websocket

import (
	"encoding/json"
	"time"

	"aozu-ops-hub/internal/domain"
)

type MessageType string

const (
	TypeSyncStatus    MessageType = "sync_status"
	TypeRefresh       MessageType = "refresh"
	TypeStatusRequest MessageType = "status_request"
	TypePing          MessageType = "ping"
	TypePong          MessageType = "pong"
	TypeError         MessageType = "error"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// SyncStatusPayload carries what the status indicator shows.
type SyncStatusPayload struct {
	Status domain.SyncStatus `json:"status"`
	Label  string            `json:"label"`
	Title  string            `json:"title"`
}

func NewSyncStatusPayload(s domain.SyncStatus) SyncStatusPayload {
	return SyncStatusPayload{Status: s, Label: s.Label(), Title: s.Title()}
}

const (
	RefreshReconciled = "reconciled"
	RefreshContent    = "content"
)

// RefreshPayload asks the UI to re-render the current page.
type RefreshPayload struct {
	Reason string `json:"reason"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		bytes, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = bytes
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Payload:   payloadBytes,
	}, nil
}

func (m *Message) UnmarshalPayload(v interface{}) error {
	if m.Payload == nil {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}
