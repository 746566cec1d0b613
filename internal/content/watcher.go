package content

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDelay = 100 * time.Millisecond

// Watcher reloads a Library when files in its content directory change.
// Bursts of events (editors write, rename and chmod) collapse into one reload.
type Watcher struct {
	library *Library
	logger  *zap.Logger
	watcher *fsnotify.Watcher
	delay   time.Duration

	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	timer   *time.Timer
	running bool

	// OnReload, if set, runs after each successful reload.
	OnReload func()
}

func NewWatcher(library *Library, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		library: library,
		logger:  logger.Named("content-watcher"),
		watcher: w,
		delay:   reloadDelay,
		done:    make(chan struct{}),
	}, nil
}

func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return fmt.Errorf("watcher already running")
	}
	if w.library.loader == nil {
		return fmt.Errorf("library has no content directory")
	}
	dir := w.library.loader.Dir()
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch content directory %s: %w", dir, err)
	}
	w.running = true
	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop blocks until the event loop has exited.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	if err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !IsContentFile(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			w.logger.Debug("content changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("content watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()
	if !running {
		return
	}
	if err := w.library.Reload(); err != nil {
		return
	}
	if w.OnReload != nil {
		w.OnReload()
	}
}
