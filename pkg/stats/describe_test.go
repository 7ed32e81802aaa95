package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/data"
)

func TestDescribe(t *testing.T) {
	nan := math.NaN()
	f := &data.Frame{
		Columns: []string{"Amount", "Empty", "Single"},
		Rows: [][]float64{
			{4, nan, 7},
			{1, nan, nan},
			{nan, nan, nan},
			{3, nan, nan},
			{2, nan, nan},
		},
	}

	got := Describe(f)
	require.Len(t, got, 3)

	amount := got[0]
	assert.Equal(t, "Amount", amount.Column)
	assert.Equal(t, 4, amount.Count)
	assert.Equal(t, 1, amount.Missing)
	assert.InDelta(t, 2.5, amount.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3), amount.Std, 1e-12)
	assert.Equal(t, 1.0, amount.Min)
	assert.Equal(t, 4.0, amount.Max)
	assert.GreaterOrEqual(t, amount.Median, 2.0)
	assert.LessOrEqual(t, amount.Median, 3.0)
	assert.LessOrEqual(t, amount.P25, amount.Median)
	assert.LessOrEqual(t, amount.Median, amount.P75)

	empty := got[1]
	assert.Zero(t, empty.Count)
	assert.Equal(t, 5, empty.Missing)
	assert.True(t, math.IsNaN(empty.Mean))

	single := got[2]
	assert.Equal(t, 1, single.Count)
	assert.Equal(t, 7.0, single.Mean)
	assert.Zero(t, single.Std)
	assert.Equal(t, 7.0, single.Median)

	// the frame itself is untouched
	assert.Equal(t, 4.0, f.Rows[0][0])
	assert.True(t, math.IsNaN(f.Rows[2][0]))
}
