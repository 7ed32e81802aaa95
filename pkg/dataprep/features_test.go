package dataprep

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/data"
)

func TestFeatureCreatorAddsAmountLog(t *testing.T) {
	in := &data.Frame{
		Columns: []string{"Time", "Amount"},
		Rows:    [][]float64{{0, 0}, {1, math.E - 1}},
	}
	fc := NewFeatureCreator(true)
	require.NoError(t, fc.Fit(in, nil))

	out, err := fc.Transform(in)
	require.NoError(t, err)

	assert.Equal(t, []string{"Time", "Amount", "Amount_log"}, out.Columns)
	assert.Equal(t, 0.0, out.Rows[0][2])
	assert.InDelta(t, 1.0, out.Rows[1][2], 1e-12)
	assert.Equal(t, []string{"Time", "Amount"}, in.Columns)
}

func TestFeatureCreatorWithoutAmount(t *testing.T) {
	in := &data.Frame{Columns: []string{"Time"}, Rows: [][]float64{{7}}}

	out, err := NewFeatureCreator(true).Transform(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestFeatureCreatorDisabled(t *testing.T) {
	in := &data.Frame{Columns: []string{"Amount"}, Rows: [][]float64{{7}}}

	out, err := NewFeatureCreator(false).Transform(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"Amount"}, out.Columns)
}

func TestFeatureCreatorReapplied(t *testing.T) {
	in := &data.Frame{Columns: []string{"Amount"}, Rows: [][]float64{{99}}}
	fc := NewFeatureCreator(true)

	once, err := fc.Transform(in)
	require.NoError(t, err)
	twice, err := fc.Transform(once)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}
