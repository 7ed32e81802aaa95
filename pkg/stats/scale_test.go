package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/data"
)

func TestStandardScaler(t *testing.T) {
	f := &data.Frame{
		Columns: []string{"a", "const"},
		Rows:    [][]float64{{1, 5}, {2, 5}, {3, 5}, {4, 5}},
	}

	s := NewStandardScaler()
	out, err := s.FitTransform(f)
	require.NoError(t, err)

	assert.Equal(t, []float64{2.5, 5}, s.Mean)
	assert.InDelta(t, 1.118033988749895, s.Std[0], 1e-12)
	assert.Equal(t, 1.0, s.Std[1])

	sum := 0.0
	for _, row := range out.Rows {
		sum += row[0]
		assert.Equal(t, 0.0, row[1])
	}
	assert.InDelta(t, 0, sum, 1e-12)
}

func TestStandardScalerUsesOnlyFitData(t *testing.T) {
	train := &data.Frame{Columns: []string{"a"}, Rows: [][]float64{{0}, {2}}}
	s := NewStandardScaler()
	require.NoError(t, s.Fit(train, nil))
	mean, std := append([]float64(nil), s.Mean...), append([]float64(nil), s.Std...)

	other := &data.Frame{Columns: []string{"a"}, Rows: [][]float64{{1000}, {-1000}, {7}}}
	out, err := s.Transform(other)
	require.NoError(t, err)

	assert.Equal(t, mean, s.Mean)
	assert.Equal(t, std, s.Std)
	assert.Equal(t, 999.0, out.Rows[0][0])
}

func TestStandardScalerRejectsOtherColumns(t *testing.T) {
	s := NewStandardScaler()
	require.NoError(t, s.Fit(&data.Frame{Columns: []string{"a", "b"}, Rows: [][]float64{{1, 2}}}, nil))

	_, err := s.Transform(&data.Frame{Columns: []string{"a"}, Rows: [][]float64{{1}}})
	assert.ErrorIs(t, err, ErrColumnMismatch)
}

func TestStandardScalerNotFitted(t *testing.T) {
	_, err := NewStandardScaler().Transform(&data.Frame{Columns: []string{"a"}})
	assert.ErrorIs(t, err, ErrNotFitted)
}
