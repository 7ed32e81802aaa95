package pipeline

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSchema(t *testing.T) {
	s := DefaultSchema()

	require.Equal(t, 30, s.NumFeatures())
	assert.Equal(t, "Time", s.FeatureNames[0])
	assert.Equal(t, "V1", s.FeatureNames[1])
	assert.Equal(t, "V28", s.FeatureNames[28])
	assert.Equal(t, "Amount", s.FeatureNames[29])
	assert.Equal(t, "Class", s.Target)
	assert.Equal(t, "Class", s.Columns()[30])
}

func TestDefaultSchemaIsACopy(t *testing.T) {
	s := DefaultSchema()
	s.FeatureNames[0] = "changed"

	assert.Equal(t, "Time", DefaultSchema().FeatureNames[0])
	assert.False(t, s.Equal(DefaultSchema()))
}

func TestCheckVector(t *testing.T) {
	s := DefaultSchema()
	require.NoError(t, s.CheckVector(make([]float64, 30)))

	for _, n := range []int{0, 29, 31} {
		err := s.CheckVector(make([]float64, n))
		require.ErrorIs(t, err, ErrSchemaMismatch)
		assert.Equal(t, "Expected 30 values, got "+strconv.Itoa(n), err.Error())
	}
}

func TestCheckColumns(t *testing.T) {
	s := DefaultSchema()
	require.NoError(t, s.CheckColumns(s.FeatureNames))

	cols := append([]string(nil), s.FeatureNames...)
	cols[0], cols[1] = cols[1], cols[0]
	err := s.CheckColumns(cols)
	require.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Contains(t, err.Error(), `"Time"`)
}
