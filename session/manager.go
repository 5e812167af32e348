package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/studyloop/tutorchat/observability"
	"github.com/studyloop/tutorchat/storage"
)

// Manager is the persisted implementation of Identity. The in-memory id is
// authoritative for the process lifetime: persistence failures are reported
// to the observer and swallowed, because losing the active id only degrades
// to "next send starts a new session".
type Manager struct {
	store    storage.Store
	observer observability.Observer

	mu      sync.Mutex
	current string
	loaded  bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithObserver overrides the default NoOpObserver.
func WithObserver(o observability.Observer) Option {
	return func(m *Manager) { m.observer = o }
}

// NewManager creates a Manager over the given store.
func NewManager(store storage.Store, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		observer: observability.NoOpObserver{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Active(ctx context.Context) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		value, err := m.store.Get(ctx, KeyActive)
		switch {
		case err == nil:
			m.current = value
		case errors.Is(err, storage.ErrKeyNotFound):
			m.current = ""
		default:
			m.emit(ctx, EventLoadError, observability.LevelWarning, map[string]any{
				"key":   KeyActive,
				"error": err.Error(),
			})
			m.current = ""
		}
		m.loaded = true
	}

	return m.current, m.current != ""
}

func (m *Manager) GenerateNew(ctx context.Context) string {
	id := uuid.NewString()

	m.mu.Lock()
	m.current = id
	m.loaded = true
	m.mu.Unlock()

	m.persist(ctx, id)
	m.emit(ctx, EventGenerated, observability.LevelVerbose, map[string]any{
		"session_id": id,
	})
	return id
}

func (m *Manager) SetActive(ctx context.Context, id string) {
	m.mu.Lock()
	m.current = id
	m.loaded = true
	m.mu.Unlock()

	m.persist(ctx, id)
}

func (m *Manager) Reset(ctx context.Context) {
	m.mu.Lock()
	m.current = ""
	m.loaded = true
	m.mu.Unlock()

	for _, key := range []string{KeyActive, KeyCurrent} {
		if err := m.store.Remove(ctx, key); err != nil {
			m.emit(ctx, EventPersistError, observability.LevelWarning, map[string]any{
				"key":   key,
				"error": err.Error(),
			})
		}
	}

	m.emit(ctx, EventReset, observability.LevelVerbose, nil)
}

func (m *Manager) persist(ctx context.Context, id string) {
	if err := m.store.Set(ctx, KeyActive, id); err != nil {
		m.emit(ctx, EventPersistError, observability.LevelWarning, map[string]any{
			"key":   KeyActive,
			"error": err.Error(),
		})
	}
}

func (m *Manager) emit(ctx context.Context, typ observability.EventType, level observability.Level, data map[string]any) {
	m.observer.OnEvent(ctx, observability.Event{
		Type:      typ,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "session.Manager",
		Data:      data,
	})
}
