package data

import (
	"errors"
	"fmt"
	"math"
)

// ErrDataIntegrity marks input data that cannot be used as given: a missing
// target column, an unparseable cell, a non-binary label or a class too small
// to stratify.
var ErrDataIntegrity = errors.New("data integrity")

// Frame is a dense numeric table with named columns. Missing cells are NaN.
type Frame struct {
	Columns []string
	Rows    [][]float64
}

// NewFrame returns an empty frame with a copy of the given column names.
func NewFrame(columns []string) *Frame {
	return &Frame{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Rows) }

// Width returns the number of columns.
func (f *Frame) Width() int { return len(f.Columns) }

// Index returns the position of the named column or -1.
func (f *Frame) Index(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the named column.
func (f *Frame) Column(name string) ([]float64, bool) {
	j := f.Index(name)
	if j < 0 {
		return nil, false
	}
	out := make([]float64, len(f.Rows))
	for i, row := range f.Rows {
		out[i] = row[j]
	}
	return out, true
}

// Append adds a row after checking its width.
func (f *Frame) Append(row []float64) error {
	if len(row) != len(f.Columns) {
		return fmt.Errorf("%w: row has %d values, frame has %d columns", ErrDataIntegrity, len(row), len(f.Columns))
	}
	f.Rows = append(f.Rows, row)
	return nil
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	out := &Frame{
		Columns: append([]string(nil), f.Columns...),
		Rows:    make([][]float64, len(f.Rows)),
	}
	for i, row := range f.Rows {
		out.Rows[i] = append([]float64(nil), row...)
	}
	return out
}

// Select returns a new frame holding copies of the given rows, in the order given.
func (f *Frame) Select(idx []int) *Frame {
	out := &Frame{
		Columns: append([]string(nil), f.Columns...),
		Rows:    make([][]float64, len(idx)),
	}
	for i, r := range idx {
		out.Rows[i] = append([]float64(nil), f.Rows[r]...)
	}
	return out
}

// Project returns a frame with exactly the named columns, in that order.
func (f *Frame) Project(columns []string) (*Frame, error) {
	pos := make([]int, len(columns))
	for k, name := range columns {
		j := f.Index(name)
		if j < 0 {
			return nil, fmt.Errorf("%w: column %q not found", ErrDataIntegrity, name)
		}
		pos[k] = j
	}
	out := &Frame{
		Columns: append([]string(nil), columns...),
		Rows:    make([][]float64, len(f.Rows)),
	}
	for i, row := range f.Rows {
		projected := make([]float64, len(pos))
		for k, j := range pos {
			projected[k] = row[j]
		}
		out.Rows[i] = projected
	}
	return out, nil
}

// SplitTarget separates the named label column from the features. Labels must
// be 0 or 1.
func (f *Frame) SplitTarget(target string) (*Frame, []int, error) {
	j := f.Index(target)
	if j < 0 {
		return nil, nil, fmt.Errorf("%w: target column %q not found", ErrDataIntegrity, target)
	}

	features := make([]string, 0, len(f.Columns)-1)
	features = append(features, f.Columns[:j]...)
	features = append(features, f.Columns[j+1:]...)

	X := &Frame{Columns: features, Rows: make([][]float64, len(f.Rows))}
	y := make([]int, len(f.Rows))
	for i, row := range f.Rows {
		label, err := binaryLabel(row[j])
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		y[i] = label

		x := make([]float64, 0, len(row)-1)
		x = append(x, row[:j]...)
		x = append(x, row[j+1:]...)
		X.Rows[i] = x
	}
	return X, y, nil
}

// WithTarget returns a copy of f with y appended as the named last column.
func (f *Frame) WithTarget(target string, y []int) (*Frame, error) {
	if len(y) != len(f.Rows) {
		return nil, fmt.Errorf("%w: %d rows but %d labels", ErrDataIntegrity, len(f.Rows), len(y))
	}
	out := &Frame{
		Columns: append(append([]string(nil), f.Columns...), target),
		Rows:    make([][]float64, len(f.Rows)),
	}
	for i, row := range f.Rows {
		r := make([]float64, 0, len(row)+1)
		r = append(r, row...)
		out.Rows[i] = append(r, float64(y[i]))
	}
	return out, nil
}

func binaryLabel(v float64) (int, error) {
	switch {
	case v == 0:
		return 0, nil
	case v == 1:
		return 1, nil
	case math.IsNaN(v):
		return 0, fmt.Errorf("%w: missing label", ErrDataIntegrity)
	default:
		return 0, fmt.Errorf("%w: label %v is not 0 or 1", ErrDataIntegrity, v)
	}
}
