package history

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/metrics"
)

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ClampLimit(0))
	assert.Equal(t, DefaultLimit, ClampLimit(-3))
	assert.Equal(t, 7, ClampLimit(7))
	assert.Equal(t, MaxLimit, ClampLimit(1000))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	empty, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, empty)

	require.NoError(t, s.Insert(ctx, []Record{
		{ID: "a", Prediction: 0, Probability: 0.1},
		{ID: "b", Prediction: 1, Probability: 0.9},
		{ID: "c", Prediction: 0, Probability: 0.2},
	}))

	got, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.FraudDetected)
	assert.Equal(t, 2, stats.Legitimate)
	assert.InDelta(t, 0.4, stats.MeanProbability, 1e-12)
}

func TestMemoryStoreCopiesFeatures(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	features := []float64{1, 2}
	require.NoError(t, s.Insert(ctx, []Record{{ID: "a", Features: features}}))
	features[0] = 99

	got, err := s.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, got[0].Features)
}

func TestRecorderFlushesOnClose(t *testing.T) {
	store := NewMemoryStore()
	r := NewRecorder(store, 16, 4, WithFlushInterval(time.Hour))

	for i := 0; i < 10; i++ {
		assert.True(t, r.Record(Record{Prediction: i % 2, Probability: 0.5}))
	}
	require.NoError(t, r.Close(context.Background()))

	got, err := store.List(context.Background(), MaxLimit)
	require.NoError(t, err)
	require.Len(t, got, 10)
	for _, rec := range got {
		assert.NotEmpty(t, rec.ID)
		assert.False(t, rec.CreatedAt.IsZero())
	}

	assert.False(t, r.Record(Record{}), "closed recorder accepts nothing")
	require.NoError(t, r.Close(context.Background()))
}

func TestRecorderFlushesOnInterval(t *testing.T) {
	store := NewMemoryStore()
	r := NewRecorder(store, 16, 100, WithFlushInterval(10*time.Millisecond))
	defer r.Close(context.Background())

	require.True(t, r.Record(Record{Prediction: 1, Probability: 0.8}))
	assert.Eventually(t, func() bool {
		s, _ := store.Stats(context.Background())
		return s.Total == 1
	}, time.Second, 5*time.Millisecond)
}

// blockingStore holds every Insert until release is closed.
type blockingStore struct {
	*MemoryStore
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingStore) Insert(ctx context.Context, records []Record) error {
	b.once.Do(func() { close(b.entered) })
	<-b.release
	return b.MemoryStore.Insert(ctx, records)
}

func TestRecorderDropsWhenFull(t *testing.T) {
	store := &blockingStore{MemoryStore: NewMemoryStore(), entered: make(chan struct{}), release: make(chan struct{})}
	r := NewRecorder(store, 1, 1, WithFlushInterval(time.Hour))

	require.True(t, r.Record(Record{}))
	<-store.entered

	before := testutil.ToFloat64(metrics.HistoryDroppedTotal)
	require.True(t, r.Record(Record{}), "buffer has one free slot")
	assert.False(t, r.Record(Record{}))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.HistoryDroppedTotal))

	close(store.release)
	require.NoError(t, r.Close(context.Background()))
	s, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, s.Total)
}

type failingStore struct{ *MemoryStore }

func (failingStore) Insert(context.Context, []Record) error { return errors.New("database is down") }

func TestRecorderCountsFlushErrors(t *testing.T) {
	r := NewRecorder(failingStore{NewMemoryStore()}, 4, 1, WithFlushInterval(time.Hour))
	before := testutil.ToFloat64(metrics.HistoryFlushErrorsTotal)
	require.True(t, r.Record(Record{}))
	require.NoError(t, r.Close(context.Background()))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.HistoryFlushErrorsTotal))
}

func TestRecorderCloseHonoursContext(t *testing.T) {
	store := &blockingStore{MemoryStore: NewMemoryStore(), entered: make(chan struct{}), release: make(chan struct{})}
	r := NewRecorder(store, 4, 1, WithFlushInterval(time.Hour))
	require.True(t, r.Record(Record{}))
	<-store.entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Close(ctx), context.DeadlineExceeded)
	close(store.release)
}
