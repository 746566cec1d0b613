package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"

	"aozu-ops-hub/internal/domain"
)

const DefaultDebounce = time.Second

type pendingWrite struct {
	timer  *time.Timer
	userID string
	value  json.RawMessage
}

// Engine keeps the Local Store and the per-user Remote Store document in step.
// Local writes are synchronous; remote writes are debounced per slice.
type Engine struct {
	local    LocalStore
	remote   RemoteStore
	identity Identity
	logger   *zap.Logger
	debounce time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	pending  map[domain.Slice]*pendingWrite
	mirrors  []Mirror
	renderer Renderer
	closed   bool
	inflight sync.WaitGroup

	// statusMu serializes status changes so reporters observe them in order.
	statusMu  sync.Mutex
	status    domain.SyncStatus
	reporters []StatusReporter
}

// NewEngine builds an engine. A nil remote gives a local-only engine.
func NewEngine(local LocalStore, remote RemoteStore, identity Identity, logger *zap.Logger, debounce time.Duration) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		local:    local,
		remote:   remote,
		identity: identity,
		logger:   logger.Named("syncer"),
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
		pending:  make(map[domain.Slice]*pendingWrite),
		status:   domain.SyncStatusIdle,
	}
}

func (e *Engine) AddMirror(m Mirror) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mirrors = append(e.mirrors, m)
}

func (e *Engine) SetRenderer(r Renderer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderer = r
}

func (e *Engine) AddStatusReporter(r StatusReporter) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	e.reporters = append(e.reporters, r)
}

func (e *Engine) Status() domain.SyncStatus {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	return e.status
}

func (e *Engine) setStatus(s domain.SyncStatus) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	e.status = s
	for _, r := range e.reporters {
		r.UpdateSyncStatus(s)
	}
}

// RemoteEnabled reports whether the engine has a Remote Store at all.
func (e *Engine) RemoteEnabled() bool {
	return e.remote != nil
}

func (e *Engine) signedIn() (string, bool) {
	if e.remote == nil || e.identity == nil || !e.identity.IsLoggedIn() {
		return "", false
	}
	uid := e.identity.UserID()
	return uid, uid != ""
}

// Save writes value locally and, when signed in, schedules a remote write of
// the slice. A newer Save of the same slice replaces the scheduled one.
func (e *Engine) Save(slice domain.Slice, value any) error {
	d, err := domain.Describe(slice)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownSlice, slice)
	}

	local, remote, err := encode(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", slice, err)
	}
	e.local.Write(d.LocalKey, local)

	uid, ok := e.signedIn()
	if !ok {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.setStatus(domain.SyncStatusSyncing)
	if prev := e.pending[slice]; prev != nil {
		prev.timer.Stop()
	}
	p := &pendingWrite{userID: uid, value: remote}
	p.timer = time.AfterFunc(e.debounce, func() {
		e.flushPending(slice, p)
	})
	e.pending[slice] = p
	return nil
}

func (e *Engine) flushPending(slice domain.Slice, p *pendingWrite) {
	e.mu.Lock()
	if e.pending[slice] != p {
		// superseded or flushed already
		e.mu.Unlock()
		return
	}
	delete(e.pending, slice)
	e.inflight.Add(1)
	e.mu.Unlock()
	defer e.inflight.Done()

	_ = e.push(e.ctx, slice, p)
}

func (e *Engine) push(ctx context.Context, slice domain.Slice, p *pendingWrite) error {
	err := e.remote.SetFields(ctx, p.userID, map[domain.Slice]json.RawMessage{slice: p.value})
	if err != nil {
		e.logger.Error("remote write failed",
			zap.String("slice", string(slice)),
			zap.String("user_id", p.userID),
			zap.Error(err))
		e.setStatus(domain.SyncStatusError)
		return &SyncError{Op: "flush", Slice: slice, Err: err}
	}
	e.setStatus(domain.SyncStatusSynced)
	return nil
}

// Flush sends every scheduled remote write now instead of waiting out the
// debounce interval.
func (e *Engine) Flush(ctx context.Context) error {
	e.mu.Lock()
	batch := make(map[domain.Slice]*pendingWrite, len(e.pending))
	for slice, p := range e.pending {
		p.timer.Stop()
		batch[slice] = p
	}
	e.pending = make(map[domain.Slice]*pendingWrite)
	e.mu.Unlock()

	var errs []error
	for _, slice := range domain.AllSlices {
		p, ok := batch[slice]
		if !ok {
			continue
		}
		if err := e.push(ctx, slice, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close drops scheduled writes and waits for in-flight ones. Call Flush first
// to keep them.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	for slice, p := range e.pending {
		p.timer.Stop()
		delete(e.pending, slice)
	}
	e.mu.Unlock()

	e.cancel()
	e.inflight.Wait()
}

// Load decodes the locally stored slice into dst. It returns false, leaving
// dst untouched, when the value is missing or does not decode.
func (e *Engine) Load(slice domain.Slice, dst any) bool {
	d, err := domain.Describe(slice)
	if err != nil {
		return false
	}
	raw, ok := e.local.Read(d.LocalKey)
	if !ok {
		return false
	}
	if sp, ok := dst.(*string); ok && d.Kind == domain.SliceKindText {
		*sp = raw
		return true
	}

	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return false
	}
	fresh := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal([]byte(raw), fresh.Interface()); err != nil {
		if sp, ok := dst.(*string); ok {
			// non-JSON strings are stored raw
			*sp = raw
			return true
		}
		e.logger.Warn("malformed local value",
			zap.String("slice", string(slice)),
			zap.Error(err))
		return false
	}
	rv.Elem().Set(fresh.Elem())
	return true
}

// LoadRaw returns the stored representation of a slice.
func (e *Engine) LoadRaw(slice domain.Slice) (string, bool) {
	key := slice.LocalKey()
	if key == "" {
		return "", false
	}
	return e.local.Read(key)
}

// SyncFromCloud reconciles the device with the signed-in user's document.
// Fields present remotely overwrite local ones. A user without a document
// gets one built from local data.
func (e *Engine) SyncFromCloud(ctx context.Context) error {
	uid, ok := e.signedIn()
	if !ok {
		return nil
	}

	e.setStatus(domain.SyncStatusSyncing)

	doc, err := e.remote.GetDocument(ctx, uid)
	if err != nil {
		return e.fail("pull", err)
	}

	if doc == nil {
		if err := e.pushAll(ctx, uid); err != nil {
			return e.fail("push", err)
		}
		e.setStatus(domain.SyncStatusSynced)
		return nil
	}

	if err := e.apply(uid, doc); err != nil {
		return e.fail("pull", err)
	}
	e.setStatus(domain.SyncStatusSynced)
	return nil
}

// SyncAllToCloud pushes a full snapshot of local data in one merge write.
func (e *Engine) SyncAllToCloud(ctx context.Context) error {
	uid, ok := e.signedIn()
	if !ok {
		return nil
	}
	if err := e.pushAll(ctx, uid); err != nil {
		return e.fail("push", err)
	}
	e.setStatus(domain.SyncStatusSynced)
	return nil
}

func (e *Engine) fail(op string, err error) error {
	e.logger.Error("sync failed", zap.String("op", op), zap.Error(err))
	e.setStatus(domain.SyncStatusError)
	return &SyncError{Op: op, Err: err}
}

func (e *Engine) pushAll(ctx context.Context, uid string) error {
	return e.remote.SetFields(ctx, uid, e.snapshot())
}

func (e *Engine) snapshot() map[domain.Slice]json.RawMessage {
	fields := make(map[domain.Slice]json.RawMessage, len(domain.AllSlices))
	for _, slice := range domain.AllSlices {
		d, _ := domain.Describe(slice)
		raw, ok := e.local.Read(d.LocalKey)

		if d.Kind == domain.SliceKindText {
			if !ok {
				raw = d.Empty
			}
			b, _ := json.Marshal(raw)
			fields[slice] = b
			continue
		}

		if !ok || !json.Valid([]byte(raw)) {
			if ok {
				e.logger.Warn("malformed local value replaced with empty",
					zap.String("slice", string(slice)))
			}
			raw = d.Empty
		}
		fields[slice] = json.RawMessage(raw)
	}
	return fields
}

func (e *Engine) apply(uid string, doc *domain.RemoteDocument) error {
	e.mu.Lock()
	mirrors := append([]Mirror(nil), e.mirrors...)
	renderer := e.renderer
	e.mu.Unlock()

	for _, slice := range domain.AllSlices {
		if !doc.Has(slice) {
			continue
		}
		d, _ := domain.Describe(slice)
		c := &localCommit{engine: e, uid: uid, desc: d, raw: doc.Fields[slice]}

		if d.Mirrored {
			for _, m := range mirrors {
				if err := m.ReplaceSlice(slice, c.raw, c.run); err != nil {
					return &SyncError{Op: "apply", Slice: slice, Err: fmt.Errorf("%w: %w", ErrMalformedSlice, err)}
				}
			}
		}
		// no mirror owns it
		c.run()
	}

	if renderer != nil {
		renderer.Refresh()
	}
	return nil
}

// localCommit writes one reconciled slice to the Local Store at most once.
// The cloud value wins, so a write of the slice still waiting on the debounce
// for the same user is dropped.
type localCommit struct {
	engine *Engine
	uid    string
	desc   domain.SliceDescriptor
	raw    json.RawMessage
	done   bool
}

func (c *localCommit) run() {
	if c.done {
		return
	}
	c.done = true
	c.engine.local.Write(c.desc.LocalKey, localForm(c.desc, c.raw))
	c.engine.dropPending(c.desc.Slice, c.uid)
}

func (e *Engine) dropPending(slice domain.Slice, uid string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p := e.pending[slice]; p != nil && p.userID == uid {
		p.timer.Stop()
		delete(e.pending, slice)
	}
}

// WatchSession reconciles whenever a user becomes signed in.
func (e *Engine) WatchSession(ctx context.Context, src SessionSource) (cancel func()) {
	return src.Subscribe(func(prev, next *domain.User) {
		if next == nil {
			return
		}
		if prev != nil && prev.UID == next.UID {
			return
		}
		if err := e.SyncFromCloud(ctx); err != nil {
			e.logger.Warn("reconciliation after sign-in failed",
				zap.String("user_id", next.UID),
				zap.Error(err))
		}
	})
}

// encode returns the local and remote forms of a value. Strings are kept raw
// locally; everything else is JSON.
func encode(value any) (string, json.RawMessage, error) {
	switch v := value.(type) {
	case string:
		b, err := json.Marshal(v)
		return v, b, err
	case json.RawMessage:
		if !json.Valid(v) {
			return "", nil, ErrMalformedSlice
		}
		return string(v), v, nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return "", nil, err
	}
	return string(b), b, nil
}

func localForm(d domain.SliceDescriptor, raw json.RawMessage) string {
	if d.Kind != domain.SliceKindText {
		return string(raw)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if string(raw) == "null" {
		return d.Empty
	}
	return string(raw)
}

var _ SliceStore = (*Engine)(nil)
