package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"aozu-ops-hub/internal/domain"
)

// Collection names; each is a file in the content directory with one of
// the supported extensions.
const (
	Rules        = "rules"
	SOP          = "sop"
	Templates    = "templates"
	Cancellation = "cancellation"
)

var extensions = []string{".json", ".yaml", ".yml"}

// Snapshot is one consistent view of the static content.
type Snapshot struct {
	Rules        []domain.Rule
	SOP          []domain.SOP
	Templates    []domain.Template
	Cancellation map[string]domain.CancellationPolicy
}

type Loader struct {
	dir    string
	logger *zap.Logger
}

func NewLoader(dir string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{dir: dir, logger: logger.Named("content")}
}

func (l *Loader) Dir() string {
	return l.dir
}

// Load reads every collection. A missing file leaves that collection empty;
// a file that exists but does not parse is an error.
func (l *Loader) Load() (*Snapshot, error) {
	snap := &Snapshot{
		Rules:        []domain.Rule{},
		SOP:          []domain.SOP{},
		Templates:    []domain.Template{},
		Cancellation: map[string]domain.CancellationPolicy{},
	}

	targets := []struct {
		name string
		dst  any
	}{
		{Rules, &snap.Rules},
		{SOP, &snap.SOP},
		{Templates, &snap.Templates},
		{Cancellation, &snap.Cancellation},
	}
	for _, t := range targets {
		if err := l.loadOne(t.name, t.dst); err != nil {
			return nil, err
		}
	}

	for i := range snap.Templates {
		snap.Templates[i].UserAdded = false
	}
	return snap, nil
}

func (l *Loader) loadOne(name string, dst any) error {
	path, ok := l.find(name)
	if !ok {
		l.logger.Warn("content file missing", zap.String("collection", name), zap.String("dir", l.dir))
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if filepath.Ext(path) == ".json" {
		err = json.Unmarshal(data, dst)
	} else {
		err = yaml.Unmarshal(data, dst)
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func (l *Loader) find(name string) (string, bool) {
	for _, ext := range extensions {
		path := filepath.Join(l.dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		} else if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("content file not readable", zap.String("path", path), zap.Error(err))
		}
	}
	return "", false
}

// IsContentFile reports whether path names one of the loader's files.
func IsContentFile(path string) bool {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	switch stem {
	case Rules, SOP, Templates, Cancellation:
	default:
		return false
	}
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}
