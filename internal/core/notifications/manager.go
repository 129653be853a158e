// Package notifications maintains the viewer's notification list: a
// cache-first load refreshed by a time-boxed remote fetch, with local
// read-state authoritative for the user and the backend kept
// eventually consistent by best-effort writes.
package notifications

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"bracula/internal/remote"
)

// DefaultFetchTimeout bounds the remote refresh during Initialize. A
// slow backend must not delay rendering past this.
const DefaultFetchTimeout = 5 * time.Second

// API is the slice of the backend client the manager depends on.
type API interface {
	GetNotifications(ctx context.Context) ([]remote.Notification, error)
	UpdateReadStatus(ctx context.Context, id int64, read bool) error
	MarkAllRead(ctx context.Context) error
	AddNotification(ctx context.Context, n remote.Notification) (int64, error)
}

// Cache persists the notification list between sessions.
type Cache interface {
	SaveNotifications(ctx context.Context, items []remote.Notification) error
	LoadNotifications(ctx context.Context) ([]remote.Notification, bool, error)
}

// Filter selects a slice of the list.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterUnread Filter = "unread"
	FilterRead   Filter = "read"
)

// Toast is a transient alert, distinct from the persisted
// notification records.
type Toast struct {
	Level   string
	Title   string
	Message string
}

// Manager owns the notification list. Exactly one instance exists per
// process; construct it in main and pass it to whatever needs it.
type Manager struct {
	api          API
	cache        Cache
	logger       *slog.Logger
	fetchTimeout time.Duration

	mu          sync.Mutex
	items       []remote.Notification
	initialized bool
	degraded    bool

	subMu       sync.Mutex
	subscribers []func(Toast)
}

// NewManager creates an uninitialized manager. Call Initialize before
// reading the list.
func NewManager(api API, cache Cache, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		api:          api,
		cache:        cache,
		logger:       logger,
		fetchTimeout: DefaultFetchTimeout,
	}
}

// SetFetchTimeout overrides the remote refresh bound. Only useful
// before Initialize.
func (m *Manager) SetFetchTimeout(d time.Duration) {
	m.mu.Lock()
	m.fetchTimeout = d
	m.mu.Unlock()
}

// Initialize loads the list. Calling it again after the first
// completion is a no-op.
//
// The persisted cache populates the list first so it can render
// immediately. A remote fetch bounded by the fetch timeout then
// refreshes it; a successful fetch replaces the list wholesale and
// re-persists it. If the fetch fails and no cache existed, a fixed
// fallback dataset fills in so the list is never empty.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		return nil
	}
	timeout := m.fetchTimeout
	m.mu.Unlock()

	cached, hadCache, loadErr := m.cache.LoadNotifications(ctx)
	if loadErr != nil {
		m.logger.Warn("notification cache load failed", "error", loadErr)
	}
	if loadErr == nil && hadCache {
		m.replace(cached)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fetched, err := m.api.GetNotifications(fetchCtx)
	switch {
	case err == nil:
		m.replace(fetched)
		m.persist(ctx)
	case loadErr == nil && hadCache:
		// Stale cache beats an empty panel.
		m.logger.Warn("notification fetch failed, serving cache", "error", err)
	case loadErr != nil:
		// A load failure is transient, not proof the cache is absent.
		// Fall back in memory only; persisting here could overwrite a
		// healthy cache with the placeholder dataset.
		m.logger.Warn("notification fetch failed with cache unreadable, using fallback", "error", err)
		m.replace(fallbackNotifications())
	default:
		m.logger.Warn("notification fetch failed with no cache, using fallback", "error", err)
		m.replace(fallbackNotifications())
		m.persist(ctx)
	}

	m.mu.Lock()
	m.initialized = true
	m.mu.Unlock()
	return nil
}

// Teardown resets the manager so a later Initialize starts fresh.
func (m *Manager) Teardown() {
	m.mu.Lock()
	m.items = nil
	m.initialized = false
	m.mu.Unlock()

	m.subMu.Lock()
	m.subscribers = nil
	m.subMu.Unlock()
}

// Initialized reports whether Initialize has completed.
func (m *Manager) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// SetDegraded toggles degraded mode. While set, all remote writes are
// skipped; local state and the cache keep working as usual.
func (m *Manager) SetDegraded(on bool) {
	m.mu.Lock()
	m.degraded = on
	m.mu.Unlock()
}

// Degraded reports whether remote writes are being skipped.
func (m *Manager) Degraded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.degraded
}

// List returns the notifications matching the filter, in list order
// (newest first).
func (m *Manager) List(filter Filter) []remote.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]remote.Notification, 0, len(m.items))
	for _, n := range m.items {
		switch filter {
		case FilterUnread:
			if n.Read {
				continue
			}
		case FilterRead:
			if !n.Read {
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

// Unread returns the badge count.
func (m *Manager) Unread() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, n := range m.items {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead marks one notification read. The in-memory list and the
// cache update synchronously regardless of what the backend does; the
// remote write is best effort and a failure is only logged.
func (m *Manager) MarkRead(ctx context.Context, id int64) error {
	m.mu.Lock()
	idx := m.indexOf(id)
	if idx < 0 {
		m.mu.Unlock()
		return ErrNotFound
	}
	m.items[idx].Read = true
	degraded := m.degraded
	m.mu.Unlock()

	m.persist(ctx)

	if !degraded {
		if err := m.api.UpdateReadStatus(ctx, id, true); err != nil {
			m.logger.Warn("remote read-status update failed", "id", id, "error", err)
		}
	}
	return nil
}

// MarkAllRead marks every notification read, same local-first
// semantics as MarkRead.
func (m *Manager) MarkAllRead(ctx context.Context) error {
	m.mu.Lock()
	for i := range m.items {
		m.items[i].Read = true
	}
	degraded := m.degraded
	m.mu.Unlock()

	m.persist(ctx)

	if !degraded {
		if err := m.api.MarkAllRead(ctx); err != nil {
			m.logger.Warn("remote mark-all-read failed", "error", err)
		}
	}
	return nil
}

// Add inserts a new notification at the head of the list with a
// client-generated temporary id, emits a toast, persists, and
// asynchronously asks the backend for a permanent id. When the
// permanent id arrives the temporary record is rewritten in place,
// matched by the temporary id, never appended as a duplicate.
func (m *Manager) Add(ctx context.Context, kind, title, message string) remote.Notification {
	if kind == "" {
		kind = "general"
	}
	n := remote.Notification{
		ID:        tempID(),
		Kind:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	m.items = append([]remote.Notification{n}, m.items...)
	degraded := m.degraded
	m.mu.Unlock()

	m.emit(Toast{Level: "info", Title: title, Message: message})
	m.persist(ctx)

	if !degraded {
		go m.requestServerID(n)
	}
	return n
}

func (m *Manager) requestServerID(n remote.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultFetchTimeout)
	defer cancel()

	serverID, err := m.api.AddNotification(ctx, n)
	if err != nil {
		m.logger.Warn("remote add-notification failed", "temp_id", n.ID, "error", err)
		return
	}
	m.promote(ctx, n.ID, serverID)
}

// promote rewrites the record carrying tempID with its permanent id.
func (m *Manager) promote(ctx context.Context, tempID, serverID int64) {
	m.mu.Lock()
	idx := m.indexOf(tempID)
	if idx < 0 {
		m.mu.Unlock()
		return
	}
	m.items[idx].ID = serverID
	m.mu.Unlock()

	m.persist(ctx)
}

// Update rewrites the title and message of an existing notification.
func (m *Manager) Update(ctx context.Context, id int64, title, message string) error {
	m.mu.Lock()
	idx := m.indexOf(id)
	if idx < 0 {
		m.mu.Unlock()
		return ErrNotFound
	}
	m.items[idx].Title = title
	m.items[idx].Message = message
	m.mu.Unlock()

	m.persist(ctx)
	return nil
}

// Subscribe registers a toast listener. Listeners run synchronously on
// the emitting goroutine and must be fast.
func (m *Manager) Subscribe(fn func(Toast)) {
	m.subMu.Lock()
	m.subscribers = append(m.subscribers, fn)
	m.subMu.Unlock()
}

// Notify emits a toast without creating a persisted record. It is the
// alert sink for vote and save outcomes.
func (m *Manager) Notify(level, message string) {
	m.emit(Toast{Level: level, Message: message})
}

func (m *Manager) emit(t Toast) {
	m.subMu.Lock()
	subs := make([]func(Toast), len(m.subscribers))
	copy(subs, m.subscribers)
	m.subMu.Unlock()
	for _, fn := range subs {
		fn(t)
	}
}

func (m *Manager) replace(items []remote.Notification) {
	copied := make([]remote.Notification, len(items))
	copy(copied, items)
	m.mu.Lock()
	m.items = copied
	m.mu.Unlock()
}

func (m *Manager) persist(ctx context.Context) {
	m.mu.Lock()
	items := make([]remote.Notification, len(m.items))
	copy(items, m.items)
	m.mu.Unlock()

	if err := m.cache.SaveNotifications(ctx, items); err != nil {
		m.logger.Warn("notification cache save failed", "error", err)
	}
}

// indexOf requires m.mu held.
func (m *Manager) indexOf(id int64) int {
	for i, n := range m.items {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// tempSeq is seeded from the wall clock at startup so temporary ids
// stay distinct across restarts as well as within one process.
var tempSeq atomic.Int64

func init() {
	tempSeq.Store(time.Now().UnixMilli())
}

// tempID generates a client-side identifier that cannot collide with
// server-assigned positive ids, nor with other temporary ids handed
// out in the same millisecond.
func tempID() int64 {
	return -tempSeq.Add(1)
}

// fallbackNotifications is the fixed dataset shown when the backend is
// unreachable and no cache exists.
func fallbackNotifications() []remote.Notification {
	now := time.Now()
	return []remote.Notification{
		{
			ID:        1,
			Kind:      "general",
			Title:     "New accommodation posted",
			Message:   "A new apartment is available in Mohakhali",
			CreatedAt: now.Add(-5 * time.Minute),
		},
		{
			ID:        2,
			Kind:      "general",
			Title:     "Price drop alert",
			Message:   "A room you saved has reduced its price",
			CreatedAt: now.Add(-2 * time.Hour),
		},
		{
			ID:        3,
			Kind:      "message",
			Title:     "Message from owner",
			Message:   "You have a new message about your inquiry",
			CreatedAt: now.Add(-24 * time.Hour),
			Read:      true,
		},
	}
}

// IconFor maps a notification kind to its display icon class.
func IconFor(kind string) string {
	switch kind {
	case "ride_request":
		return "fa-car"
	case "ride_accepted":
		return "fa-check"
	case "ride_rejected":
		return "fa-times"
	case "comment":
		return "fa-comment"
	case "like":
		return "fa-heart"
	case "event":
		return "fa-calendar"
	case "message":
		return "fa-envelope"
	default:
		return "fa-bell"
	}
}
