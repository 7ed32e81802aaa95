package dataprep

import (
	"math"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/data"
)

const (
	AmountColumn    = "Amount"
	AmountLogColumn = "Amount_log"
)

// FeatureCreator derives financial features from the raw transaction
// columns. It learns nothing from data; Fit exists so it can sit in a
// pipeline next to stages that do.
type FeatureCreator struct {
	AddAmountLog bool
	Source       string
	Derived      string
}

// NewFeatureCreator returns a creator that appends Amount_log = log1p(Amount).
func NewFeatureCreator(addAmountLog bool) *FeatureCreator {
	return &FeatureCreator{
		AddAmountLog: addAmountLog,
		Source:       AmountColumn,
		Derived:      AmountLogColumn,
	}
}

// Fit is a no-op.
func (fc *FeatureCreator) Fit(*data.Frame, []int) error { return nil }

// Transform returns a copy of f with the derived column appended. When the
// option is off or the source column is absent the input is returned as is.
// If the derived column already exists it is recomputed in place, so applying
// Transform twice yields the same frame as applying it once.
func (fc *FeatureCreator) Transform(f *data.Frame) (*data.Frame, error) {
	if !fc.AddAmountLog {
		return f, nil
	}
	amount, ok := f.Column(fc.source())
	if !ok {
		return f, nil
	}
	logged := LogTransform(amount)

	out := f.Clone()
	if j := out.Index(fc.derived()); j >= 0 {
		for i, row := range out.Rows {
			row[j] = logged[i]
		}
		return out, nil
	}

	out.Columns = append(out.Columns, fc.derived())
	for i := range out.Rows {
		out.Rows[i] = append(out.Rows[i], logged[i])
	}
	return out, nil
}

func (fc *FeatureCreator) source() string {
	if fc.Source == "" {
		return AmountColumn
	}
	return fc.Source
}

func (fc *FeatureCreator) derived() string {
	if fc.Derived == "" {
		return AmountLogColumn
	}
	return fc.Derived
}

// LogTransform applies log(x+1) to each value.
func LogTransform(X []float64) []float64 {
	out := make([]float64, len(X))
	for i, v := range X {
		out[i] = math.Log1p(v)
	}
	return out
}
