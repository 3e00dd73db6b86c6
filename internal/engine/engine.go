// Package engine implements the offline-first sync engine. It owns the
// authoritative in-process item list, persists every mutation locally,
// and pushes debounced snapshots to the remote store in the background.
package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shelfsync/shelfsync/internal/domain"
	"github.com/shelfsync/shelfsync/internal/logger"
	"github.com/shelfsync/shelfsync/internal/store/local"
	"github.com/shelfsync/shelfsync/internal/store/remote"
)

const (
	// DefaultDebounce is the quiet period after the last mutation before
	// a snapshot is sent to the remote store.
	DefaultDebounce = 500 * time.Millisecond

	// DefaultRetryCooldown is the minimum gap between signal-triggered
	// retries, so repeated connectivity/focus events cannot spam the
	// boundary.
	DefaultRetryCooldown = 10 * time.Second
)

// Options configures an Engine. Local and Remote are required; everything
// else has a sensible default.
type Options struct {
	Local         local.Store
	Remote        remote.Client
	Logger        logger.Logger
	Debounce      time.Duration
	RetryCooldown time.Duration

	// Now and NewID are injectable for tests.
	Now   func() time.Time
	NewID func() string
}

type subscriber struct {
	id int
	fn func()
}

// Engine is the single per-session sync engine instance. All entry points
// are serialized by one mutex; local mutations complete synchronously
// while remote I/O happens on background goroutines.
type Engine struct {
	log      logger.Logger
	local    local.Store
	remote   remote.Client
	debounce time.Duration
	cooldown time.Duration
	now      func() time.Time
	newID    func() string

	mu        sync.Mutex
	userID    string
	items     []domain.Item
	pending   *domain.Document
	timer     *time.Timer
	subs      []subscriber
	nextSub   int
	lastRetry time.Time
}

func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.RetryCooldown <= 0 {
		opts.RetryCooldown = DefaultRetryCooldown
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	return &Engine{
		log:      opts.Logger,
		local:    opts.Local,
		remote:   opts.Remote,
		debounce: opts.Debounce,
		cooldown: opts.RetryCooldown,
		now:      opts.Now,
		newID:    opts.NewID,
	}
}

// Init resolves the user identity and loads the local item list. It never
// fails: every persistence problem degrades to a best-effort default.
func (e *Engine) Init() {
	e.mu.Lock()
	defer e.mu.Unlock()

	id, err := e.local.LoadUserID()
	if err != nil {
		e.log.Warn("failed to load user id, generating a new one", logger.Error(err))
	}
	if id == "" {
		id = e.newID()
		if err := e.local.SaveUserID(id); err != nil {
			e.log.Warn("failed to persist user id", logger.Error(err))
		}
		e.log.Info("generated user id", logger.String("user_id", id))
	}
	e.userID = id

	items, err := e.local.LoadItems()
	if err != nil {
		e.log.Warn("local items unreadable, starting empty", logger.Error(err))
		items = nil
	}
	e.items = items
}

// Start runs the full initialization protocol: Init synchronously, then
// remote reconciliation in the background. Startup never hard-fails.
func (e *Engine) Start(ctx context.Context) {
	e.Init()
	go func() {
		if err := e.Reconcile(ctx); err != nil {
			e.log.Warn("startup reconcile failed, local state stands", logger.Error(err))
		}
	}()
}

// Reconcile fetches the remote document and applies the merge protocol.
// An absent document or a stale one leaves local state untouched.
func (e *Engine) Reconcile(ctx context.Context) error {
	doc, err := e.remote.Fetch(ctx, e.UserID())
	if err != nil {
		return err
	}
	if doc == nil {
		e.log.Debug("no remote document stored yet")
		return nil
	}

	e.mu.Lock()
	if !domain.ShouldMerge(e.items, doc) {
		e.mu.Unlock()
		e.log.Debug("remote document is stale, keeping local state",
			logger.Time("remote_updated_at", doc.UpdatedAt))
		return nil
	}
	e.items = domain.Merge(e.items, doc.Items)
	e.persistLocked()
	count := len(e.items)
	e.mu.Unlock()

	e.log.Info("merged remote document", logger.Int("items", count))
	e.notify()
	return nil
}

// UserID returns the stable per-device identifier.
func (e *Engine) UserID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.userID
}

// Items returns a defensive copy of the current list, newest first.
func (e *Engine) Items() []domain.Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.Item, len(e.items))
	copy(out, e.items)
	return out
}

// Add saves a new item at the front of the list. It returns false without
// side effects when an item with the same (title, url) key already exists
// or the title is blank.
func (e *Engine) Add(title, url, snippet string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}

	e.mu.Lock()
	key := domain.ItemKey(title, url)
	for _, it := range e.items {
		if it.Key() == key {
			e.mu.Unlock()
			return false
		}
	}

	item := domain.Item{
		ID:        e.newID(),
		Title:     title,
		URL:       url,
		Snippet:   snippet,
		CreatedAt: e.now(),
	}
	e.items = append([]domain.Item{item}, e.items...)
	e.persistLocked()
	e.scheduleSyncLocked()
	e.mu.Unlock()

	e.notify()
	return true
}

// Remove deletes the item with the given id. Removing an unknown id is a
// no-op with no notification.
func (e *Engine) Remove(id string) {
	e.mu.Lock()
	idx := -1
	for i, it := range e.items {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return
	}
	e.items = append(e.items[:idx], e.items[idx+1:]...)
	e.persistLocked()
	e.scheduleSyncLocked()
	e.mu.Unlock()

	e.notify()
}

// Clear empties the list.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.items = nil
	e.persistLocked()
	e.scheduleSyncLocked()
	e.mu.Unlock()

	e.notify()
}

// Subscribe registers a callback invoked after every successful mutation
// (add, remove, clear, merge). The returned function deregisters exactly
// this subscription and leaves others untouched.
func (e *Engine) Subscribe(fn func()) func() {
	e.mu.Lock()
	e.nextSub++
	id := e.nextSub
	e.subs = append(e.subs, subscriber{id: id, fn: fn})
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, s := range e.subs {
			if s.id == id {
				e.subs = append(e.subs[:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

// Flush cancels any scheduled sync and writes the current state to the
// remote store immediately. Unlike mutations, it surfaces the write error
// so interactive callers can report it; the retry marker is still kept
// for retryable failures.
func (e *Engine) Flush(ctx context.Context) error {
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	doc := e.snapshotLocked()
	e.pending = &doc
	e.mu.Unlock()

	return e.writeSnapshot(ctx, doc)
}

// Reconnected tells the engine network connectivity was restored.
func (e *Engine) Reconnected(ctx context.Context) {
	e.retryPending(ctx, "reconnect")
}

// FocusRegained tells the engine the application regained user focus.
func (e *Engine) FocusRegained(ctx context.Context) {
	e.retryPending(ctx, "focus")
}

// Stop cancels any scheduled sync. Unsent state stays in local
// persistence and is picked up on the next retry signal or flush.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// persistLocked saves the current list locally, best effort. Callers hold
// the mutex.
func (e *Engine) persistLocked() {
	items := make([]domain.Item, len(e.items))
	copy(items, e.items)
	if err := e.local.SaveItems(items); err != nil {
		e.log.Warn("failed to persist items locally", logger.Error(err))
	}
}

// scheduleSyncLocked arms the trailing-edge debounce timer, replacing any
// previous one so only the final state after the quiet period is sent.
func (e *Engine) scheduleSyncLocked() {
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.debounce, e.debouncedSync)
}

func (e *Engine) debouncedSync() {
	e.mu.Lock()
	e.timer = nil
	doc := e.snapshotLocked()
	e.pending = &doc
	e.mu.Unlock()

	// Errors are a background concern: the marker in local persistence is
	// the only observable trace.
	_ = e.writeSnapshot(context.Background(), doc)
}

func (e *Engine) snapshotLocked() domain.Document {
	items := make([]domain.Item, len(e.items))
	copy(items, e.items)
	return domain.Document{
		UserID:    e.userID,
		Items:     items,
		UpdatedAt: e.now(),
	}
}

func (e *Engine) writeSnapshot(ctx context.Context, doc domain.Document) error {
	err := e.remote.Write(ctx, doc)
	if err == nil {
		e.clearPending(doc)
		e.log.Debug("synced snapshot", logger.Int("items", len(doc.Items)))
		return nil
	}

	if !remote.Retryable(err) {
		e.log.Error("remote rejected snapshot, dropping it", logger.Error(err))
		e.clearPending(doc)
		return err
	}

	e.log.Warn("remote write failed, keeping retry marker", logger.Error(err))
	if perr := e.local.SavePendingWrite(doc); perr != nil {
		e.log.Warn("failed to persist retry marker", logger.Error(perr))
	}
	return err
}

// clearPending forgets the in-memory pending snapshot and the persisted
// retry marker, but only when no newer snapshot owns them. A slow write
// finishing late must not erase the marker a newer failed write left
// behind; that marker is the only trace the next retry signal has.
func (e *Engine) clearPending(doc domain.Document) {
	e.mu.Lock()
	if e.pending != nil && !e.pending.UpdatedAt.After(doc.UpdatedAt) {
		e.pending = nil
	}
	e.mu.Unlock()

	marker, err := e.local.LoadPendingWrite()
	if err != nil {
		e.log.Warn("failed to load retry marker", logger.Error(err))
		return
	}
	if marker == nil {
		return
	}
	if marker.UpdatedAt.After(doc.UpdatedAt) {
		e.log.Debug("keeping retry marker for newer snapshot",
			logger.Time("marker_updated_at", marker.UpdatedAt))
		return
	}

	if err := e.local.ClearPendingWrite(); err != nil {
		e.log.Warn("failed to clear retry marker", logger.Error(err))
	}
}

// retryPending re-sends the exact stored snapshot whose write failed.
// At most one attempt per cooldown window, regardless of signal volume.
func (e *Engine) retryPending(ctx context.Context, signal string) {
	e.mu.Lock()
	if e.now().Sub(e.lastRetry) < e.cooldown {
		e.mu.Unlock()
		e.log.Debug("retry suppressed by cooldown", logger.String("signal", signal))
		return
	}
	e.mu.Unlock()

	doc, err := e.local.LoadPendingWrite()
	if err != nil {
		e.log.Warn("failed to load retry marker", logger.Error(err))
		return
	}
	if doc == nil {
		return
	}

	e.mu.Lock()
	e.lastRetry = e.now()
	e.mu.Unlock()

	if err := e.remote.Write(ctx, *doc); err != nil {
		if !remote.Retryable(err) {
			e.log.Error("retry rejected, dropping marker",
				logger.String("signal", signal), logger.Error(err))
			e.clearPending(*doc)
			return
		}
		e.log.Warn("retry write failed, marker kept",
			logger.String("signal", signal), logger.Error(err))
		return
	}

	e.clearPending(*doc)
	e.log.Info("retry write succeeded", logger.String("signal", signal))
}

// notify invokes subscribers in subscription order. A panicking listener
// is isolated so the rest still run.
func (e *Engine) notify() {
	e.mu.Lock()
	subs := make([]subscriber, len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()

	for _, s := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					e.log.Warnf("subscriber panicked: %v", r)
				}
			}()
			s.fn()
		}()
	}
}
