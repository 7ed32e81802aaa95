package history

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is an in-memory Store, used when no database is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) Insert(_ context.Context, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		r.Features = slices.Clone(r.Features)
		m.records = append(m.records, r)
	}
	return nil
}

func (m *MemoryStore) List(_ context.Context, limit int) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	limit = ClampLimit(limit)
	out := make([]Record, 0, min(limit, len(m.records)))
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		r := m.records[i]
		r.Features = slices.Clone(r.Features)
		out = append(out, r)
	}
	return out, nil
}

func (m *MemoryStore) Stats(_ context.Context) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var s Stats
	var sum float64
	for _, r := range m.records {
		s.Total++
		if r.Prediction == 1 {
			s.FraudDetected++
		} else {
			s.Legitimate++
		}
		sum += r.Probability
	}
	if s.Total > 0 {
		s.MeanProbability = sum / float64(s.Total)
	}
	return s, nil
}
