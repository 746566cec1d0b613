package service

import "aozu-ops-hub/internal/content"

// ContentSource provides the current static content.
type ContentSource interface {
	Snapshot() *content.Snapshot
}
