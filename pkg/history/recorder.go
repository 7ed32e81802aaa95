package history

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/metrics"
)

// DefaultFlushInterval bounds how long a partial batch waits before it is written.
const DefaultFlushInterval = time.Second

// Recorder writes records to a Store from a background goroutine, in batches.
// Record never blocks: when the buffer is full the record is dropped.
type Recorder struct {
	store    Store
	in       chan Record
	batch    int
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithFlushInterval sets the maximum age of a partial batch.
func WithFlushInterval(d time.Duration) RecorderOption {
	return func(r *Recorder) { r.interval = d }
}

// WithRecorderLogger sets the logger for flush failures.
func WithRecorderLogger(l *slog.Logger) RecorderOption {
	return func(r *Recorder) { r.logger = l }
}

// NewRecorder starts the background writer. buffer and batch below 1 are
// treated as 1.
func NewRecorder(store Store, buffer, batch int, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		store:    store,
		in:       make(chan Record, max(buffer, 1)),
		batch:    max(batch, 1),
		interval: DefaultFlushInterval,
		logger:   slog.Default(),
		now:      time.Now,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	go r.run()
	return r
}

// Record queues rec, filling ID and CreatedAt when unset. It reports whether
// the record was accepted.
func (r *Recorder) Record(rec Record) bool {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now().UTC()
	}
	rec.Features = slices.Clone(rec.Features)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		metrics.HistoryDroppedTotal.Inc()
		return false
	}
	select {
	case r.in <- rec:
		return true
	default:
		metrics.HistoryDroppedTotal.Inc()
		return false
	}
}

// Close stops accepting records and waits for queued ones to be written, or
// for ctx to end.
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.in)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Recorder) run() {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	var pending []Record
	for {
		select {
		case rec, ok := <-r.in:
			if !ok {
				r.flush(pending)
				return
			}
			pending = append(pending, rec)
			if len(pending) >= r.batch {
				r.flush(pending)
				pending = nil
			}
		case <-ticker.C:
			if len(pending) > 0 {
				r.flush(pending)
				pending = nil
			}
		}
	}
}

func (r *Recorder) flush(batch []Record) {
	if len(batch) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.store.Insert(ctx, batch); err != nil {
		metrics.HistoryFlushErrorsTotal.Inc()
		r.logger.Error("prediction history flush failed", "records", len(batch), "error", err)
	}
}
