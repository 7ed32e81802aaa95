// Package history keeps a log of served predictions.
package history

import (
	"context"
	"time"
)

// List limits.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Record is one served prediction.
type Record struct {
	ID          string    `json:"id"`
	RequestID   string    `json:"request_id,omitempty"`
	Features    []float64 `json:"features"`
	Prediction  int       `json:"prediction"`
	Probability float64   `json:"probability"`
	ModelTag    string    `json:"model,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Stats summarizes all stored records.
type Stats struct {
	Total           int     `json:"total_predictions"`
	FraudDetected   int     `json:"fraud_detected"`
	Legitimate      int     `json:"legitimate"`
	MeanProbability float64 `json:"mean_probability"`
}

// Store persists prediction records.
type Store interface {
	// Insert writes a batch of records.
	Insert(ctx context.Context, records []Record) error
	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]Record, error)
	Stats(ctx context.Context) (Stats, error)
}

// ClampLimit maps a requested page size onto [1, MaxLimit], using
// DefaultLimit for anything non-positive.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}
