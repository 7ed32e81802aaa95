package stats

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/data"
)

var (
	ErrNotFitted      = errors.New("stats: scaler is not fitted")
	ErrColumnMismatch = errors.New("stats: column mismatch")
)

// StandardScaler centres each column on its mean and divides by its
// population standard deviation. Constant columns are divided by 1.
// Statistics come only from the frame passed to Fit.
type StandardScaler struct {
	Columns []string
	Mean    []float64
	Std     []float64
	Fitted  bool
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

// Fit learns per-column mean and standard deviation from f.
func (s *StandardScaler) Fit(f *data.Frame, _ []int) error {
	if f.Len() == 0 {
		return errors.New("stats: cannot fit scaler on empty frame")
	}
	c := f.Width()
	s.Columns = slices.Clone(f.Columns)
	s.Mean = make([]float64, c)
	s.Std = make([]float64, c)

	col := make([]float64, f.Len())
	for j := 0; j < c; j++ {
		for i, row := range f.Rows {
			col[i] = row[j]
		}
		s.Mean[j], s.Std[j] = stat.PopMeanStdDev(col, nil)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	s.Fitted = true
	return nil
}

// Transform returns a standardized copy of f. f must carry the columns seen
// at fit time, in the same order.
func (s *StandardScaler) Transform(f *data.Frame) (*data.Frame, error) {
	if !s.Fitted {
		return nil, ErrNotFitted
	}
	if !slices.Equal(f.Columns, s.Columns) {
		return nil, fmt.Errorf("%w: fitted on %d columns %v, got %d columns %v",
			ErrColumnMismatch, len(s.Columns), s.Columns, len(f.Columns), f.Columns)
	}

	out := &data.Frame{Columns: slices.Clone(f.Columns), Rows: make([][]float64, f.Len())}
	for i, row := range f.Rows {
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Std[j]
		}
		out.Rows[i] = scaled
	}
	return out, nil
}

func (s *StandardScaler) FitTransform(f *data.Frame) (*data.Frame, error) {
	if err := s.Fit(f, nil); err != nil {
		return nil, err
	}
	return s.Transform(f)
}
