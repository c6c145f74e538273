package repository

import (
	"context"
	"sync"
	"time"

	"github.com/seojun/eventory/internal/domain/model"
	"github.com/seojun/eventory/pkg/metrics"
)

// MemoryStore is the default in-process Store. Reads return copies, so a
// snapshot handed to an evaluation pass is immune to concurrent upserts.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]model.ScheduleRecord
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory schedule store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		records: make(map[string]model.ScheduleRecord),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upsert writes the record keyed by its event ID and stamps UpdatedAt with
// the store clock. The stamped record is returned.
func (s *MemoryStore) Upsert(_ context.Context, rec model.ScheduleRecord) (model.ScheduleRecord, error) {
	if rec.EventID == "" {
		return model.ScheduleRecord{}, ErrMissingEventID
	}
	rec.UpdatedAt = s.now().UnixMilli()

	s.mu.Lock()
	s.records[rec.EventID] = rec
	size := len(s.records)
	s.mu.Unlock()

	metrics.RecordScheduleUpsert()
	metrics.UpdateScheduleRecords(size)
	return rec, nil
}

// Get returns the record for an event ID, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, eventID string) (model.ScheduleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[eventID]
	if !ok {
		return model.ScheduleRecord{}, ErrNotFound
	}
	return rec, nil
}

// List returns a snapshot of all records.
func (s *MemoryStore) List(_ context.Context) ([]model.ScheduleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ScheduleRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out, nil
}

// Delete removes the record for an event ID, or returns ErrNotFound.
func (s *MemoryStore) Delete(_ context.Context, eventID string) error {
	s.mu.Lock()
	_, ok := s.records[eventID]
	if ok {
		delete(s.records, eventID)
	}
	size := len(s.records)
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	metrics.UpdateScheduleRecords(size)
	return nil
}

// Count returns the number of persisted records.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
