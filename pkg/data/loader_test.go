package data

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVFrom(t *testing.T) {
	in := "Time,Amount,Class\n0,149.62,0\n1,,1\n2,NA,0\n"

	f, err := ReadCSVFrom(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"Time", "Amount", "Class"}, f.Columns)
	require.Equal(t, 3, f.Len())
	assert.Equal(t, 149.62, f.Rows[0][1])
	assert.True(t, math.IsNaN(f.Rows[1][1]))
	assert.True(t, math.IsNaN(f.Rows[2][1]))
}

func TestReadCSVFrom_NonNumeric(t *testing.T) {
	_, err := ReadCSVFrom(strings.NewReader("a,b\n1,x\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataIntegrity)
	assert.Contains(t, err.Error(), `column "b"`)
}

func TestReadCSVFrom_Empty(t *testing.T) {
	_, err := ReadCSVFrom(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrDataIntegrity)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	f := &Frame{
		Columns: []string{"a", "b"},
		Rows: [][]float64{
			{0.1 + 0.2, -1e-300},
			{math.NaN(), 42},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSVTo(&buf, f))
	assert.True(t, strings.HasPrefix(buf.String(), "a,b\n"))

	back, err := ReadCSVFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, f.Rows[0], back.Rows[0])
	assert.True(t, math.IsNaN(back.Rows[1][0]))
	assert.Equal(t, 42.0, back.Rows[1][1])
}

func TestWriteCSVCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	f := &Frame{Columns: []string{"x"}, Rows: [][]float64{{1}}}

	require.NoError(t, WriteCSV(path, f))

	back, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, f.Rows, back.Rows)
}
