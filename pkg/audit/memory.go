package audit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used by tests and by deployments
// that want recording without persistence.
type MemoryStore struct {
	mu      sync.RWMutex
	records []*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Insert writes one record.
func (s *MemoryStore) Insert(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	s.records = append(s.records, &cp)
	return nil
}

// Query returns matching records, newest first.
func (s *MemoryStore) Query(_ context.Context, q *Query) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Record
	for i := len(s.records) - 1; i >= 0; i-- {
		rec := s.records[i]
		if q.CorrelationID != "" && rec.CorrelationID != q.CorrelationID {
			continue
		}
		if q.Route != "" && rec.Route != q.Route {
			continue
		}
		if q.StartTime != nil && rec.Timestamp.Before(*q.StartTime) {
			continue
		}
		if q.EndTime != nil && !rec.Timestamp.Before(*q.EndTime) {
			continue
		}
		cp := *rec
		out = append(out, &cp)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

// DeleteOlderThan removes records older than the cutoff.
func (s *MemoryStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	var deleted int64
	for _, rec := range s.records {
		if rec.Timestamp.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	s.records = kept
	return deleted, nil
}

// Count returns the number of stored records.
func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

// Records returns a snapshot of the stored records, oldest first.
func (s *MemoryStore) Records() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Record, len(s.records))
	copy(out, s.records)
	return out
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
