package content

import (
	"sync"

	"go.uber.org/zap"
)

// Library serves the current snapshot and swaps it atomically on reload.
type Library struct {
	loader *Loader
	logger *zap.Logger

	mu   sync.RWMutex
	snap *Snapshot
}

// NewLibrary performs the initial load.
func NewLibrary(loader *Loader, logger *zap.Logger) (*Library, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	snap, err := loader.Load()
	if err != nil {
		return nil, err
	}
	return &Library{loader: loader, logger: logger.Named("library"), snap: snap}, nil
}

// NewStaticLibrary wraps a fixed snapshot.
func NewStaticLibrary(snap *Snapshot) *Library {
	return &Library{logger: zap.NewNop(), snap: snap}
}

func (l *Library) Snapshot() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap
}

// Reload keeps the previous snapshot when the new one fails to load.
func (l *Library) Reload() error {
	if l.loader == nil {
		return nil
	}
	snap, err := l.loader.Load()
	if err != nil {
		l.logger.Error("content reload failed, keeping previous", zap.Error(err))
		return err
	}
	l.mu.Lock()
	l.snap = snap
	l.mu.Unlock()
	l.logger.Info("content reloaded",
		zap.Int("rules", len(snap.Rules)),
		zap.Int("sop", len(snap.SOP)),
		zap.Int("templates", len(snap.Templates)),
		zap.Int("policies", len(snap.Cancellation)))
	return nil
}
