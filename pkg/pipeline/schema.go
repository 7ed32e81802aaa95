package pipeline

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
)

// ErrSchemaMismatch is matched by every *MismatchError.
var ErrSchemaMismatch = errors.New("schema mismatch")

// SchemaVersion identifies the feature layout below. Bump it whenever the
// feature list changes incompatibly.
const SchemaVersion = "v1"

// TargetColumn is the binary label: 1 for fraud, 0 otherwise.
const TargetColumn = "Class"

// Schema describes the ordered inputs every consumer of a fitted pipeline
// must agree on.
type Schema struct {
	Version      string
	FeatureNames []string
	Target       string
}

// DefaultSchema returns a fresh copy of the transaction schema: Time, V1..V28
// and Amount, labelled by Class.
func DefaultSchema() Schema {
	names := make([]string, 0, 30)
	names = append(names, "Time")
	for i := 1; i <= 28; i++ {
		names = append(names, "V"+strconv.Itoa(i))
	}
	names = append(names, "Amount")
	return Schema{Version: SchemaVersion, FeatureNames: names, Target: TargetColumn}
}

// NumFeatures returns the number of input features.
func (s Schema) NumFeatures() int { return len(s.FeatureNames) }

// Columns returns the partition file header: features followed by the target.
func (s Schema) Columns() []string {
	return append(slices.Clone(s.FeatureNames), s.Target)
}

// Equal reports whether two schemas describe the same layout.
func (s Schema) Equal(o Schema) bool {
	return s.Version == o.Version && s.Target == o.Target && slices.Equal(s.FeatureNames, o.FeatureNames)
}

// CheckVector rejects a feature vector whose length differs from the schema.
func (s Schema) CheckVector(v []float64) error {
	if len(v) != len(s.FeatureNames) {
		return &MismatchError{Expected: len(s.FeatureNames), Got: len(v)}
	}
	return nil
}

// CheckColumns rejects a column list that is not exactly the feature list.
func (s Schema) CheckColumns(columns []string) error {
	if len(columns) != len(s.FeatureNames) {
		return &MismatchError{Expected: len(s.FeatureNames), Got: len(columns)}
	}
	for i, name := range s.FeatureNames {
		if columns[i] != name {
			return &MismatchError{
				Expected: len(s.FeatureNames),
				Got:      len(columns),
				Column:   i,
				Want:     name,
				Have:     columns[i],
			}
		}
	}
	return nil
}

// MismatchError reports input that disagrees with the schema. When the count
// matches but a column name does not, Want and Have name the offending column.
type MismatchError struct {
	Expected int
	Got      int
	Column   int
	Want     string
	Have     string
}

func (e *MismatchError) Error() string {
	if e.Expected == e.Got && e.Want != "" {
		return fmt.Sprintf("Expected column %d to be %q, got %q", e.Column, e.Want, e.Have)
	}
	return fmt.Sprintf("Expected %d values, got %d", e.Expected, e.Got)
}

func (e *MismatchError) Is(target error) bool { return target == ErrSchemaMismatch }
