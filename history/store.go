package history

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/studyloop/tutorchat/core/protocol"
	"github.com/studyloop/tutorchat/observability"
	"github.com/studyloop/tutorchat/storage"
)

// Key under which the serialized collection is persisted, as a JSON array
// of Records.
const Key = "chat/history"

// Store is the in-memory view of the history collection with write-through
// persistence. Every mutation persists the full collection before
// returning; persistence failures are reported to the observer and
// swallowed, leaving the in-memory collection authoritative for the
// process lifetime. All methods are safe for concurrent use.
type Store struct {
	backend  storage.Store
	observer observability.Observer

	mu      sync.RWMutex
	records []Record
}

// Option configures a Store.
type Option func(*Store)

// WithObserver overrides the default NoOpObserver.
func WithObserver(o observability.Observer) Option {
	return func(s *Store) { s.observer = o }
}

// NewStore creates a Store persisting through backend. Call Load before
// first use to pick up the previously persisted collection.
func NewStore(backend storage.Store, opts ...Option) *Store {
	s := &Store{
		backend:  backend,
		observer: observability.NoOpObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted collection. Absent or corrupt data yields an
// empty collection; Load never fails from the caller's perspective.
func (s *Store) Load(ctx context.Context) {
	value, err := s.backend.Get(ctx, Key)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.emit(ctx, EventLoadError, observability.LevelWarning, map[string]any{
				"error": err.Error(),
			})
		}
		s.mu.Lock()
		s.records = nil
		s.mu.Unlock()
		return
	}

	var records []Record
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		s.emit(ctx, EventCorrupt, observability.LevelWarning, map[string]any{
			"error": err.Error(),
		})
		records = nil
	}

	if len(records) > MaxRecords {
		records = records[:MaxRecords]
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
}

// Upsert merges a completed conversation snapshot into the collection.
// A non-empty sessionID updates the existing record for that session in
// place; an empty sessionID always creates a new record, so two untagged
// conversations never merge. The affected record moves to the front, the
// collection is truncated to MaxRecords from the tail, and the result is
// persisted before Upsert returns.
func (s *Store) Upsert(ctx context.Context, messages []protocol.Message, sessionID string) {
	msgs := slices.Clone(messages)
	now := time.Now()

	s.mu.Lock()

	var record Record
	if idx := s.indexBySession(sessionID); idx >= 0 {
		record = s.records[idx]
		record.Messages = msgs
		record.Title = deriveTitle(msgs)
		record.UpdatedAt = now
		s.records = slices.Delete(s.records, idx, idx+1)
	} else {
		record = Record{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			Title:     deriveTitle(msgs),
			Messages:  msgs,
			UpdatedAt: now,
		}
	}

	s.records = slices.Insert(s.records, 0, record)
	if len(s.records) > MaxRecords {
		s.records = s.records[:MaxRecords]
	}

	s.persistLocked(ctx)
	s.mu.Unlock()

	s.emit(ctx, EventSaved, observability.LevelVerbose, map[string]any{
		"record_id":  record.ID,
		"session_id": sessionID,
		"messages":   len(msgs),
	})
}

// Remove deletes exactly one record by id; unknown ids are a no-op.
func (s *Store) Remove(ctx context.Context, recordID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, record := range s.records {
		if record.ID == recordID {
			s.records = slices.Delete(s.records, i, i+1)
			s.persistLocked(ctx)
			return
		}
	}
}

// Clear empties the collection and persists the empty state.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.persistLocked(ctx)
}

// Records returns a copy of the collection, most recently updated
// first. Mutating the result does not affect the store.
func (s *Store) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]Record, len(s.records))
	for i, record := range s.records {
		records[i] = record
		records[i].Messages = slices.Clone(record.Messages)
	}
	return records
}

// Len returns the number of records in the collection.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// indexBySession returns the index of the record tagged with sessionID,
// or -1. Empty session ids never match: untagged records have no merge
// target.
func (s *Store) indexBySession(sessionID string) int {
	if sessionID == "" {
		return -1
	}
	for i, record := range s.records {
		if record.SessionID == sessionID {
			return i
		}
	}
	return -1
}

func (s *Store) persistLocked(ctx context.Context) {
	records := s.records
	if records == nil {
		records = []Record{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		s.emit(ctx, EventPersistError, observability.LevelWarning, map[string]any{
			"error": err.Error(),
		})
		return
	}

	if err := s.backend.Set(ctx, Key, string(data)); err != nil {
		s.emit(ctx, EventPersistError, observability.LevelWarning, map[string]any{
			"error": err.Error(),
		})
	}
}

func (s *Store) emit(ctx context.Context, typ observability.EventType, level observability.Level, data map[string]any) {
	s.observer.OnEvent(ctx, observability.Event{
		Type:      typ,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "history.Store",
		Data:      data,
	})
}
