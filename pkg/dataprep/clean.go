package dataprep

import (
	"encoding/binary"
	"math"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/data"
)

// CleanReport summarizes what Clean changed.
type CleanReport struct {
	RowsIn            int
	DuplicatesRemoved int
	CellsFilled       int
}

// Clean drops exact duplicate rows and then replaces every missing cell with
// zero. No row is dropped for holding a missing value. The input is not
// modified.
func Clean(f *data.Frame) (*data.Frame, CleanReport) {
	deduped := DropDuplicates(f)
	filled := ImputeConstant(deduped, 0)
	return deduped, CleanReport{
		RowsIn:            f.Len(),
		DuplicatesRemoved: f.Len() - deduped.Len(),
		CellsFilled:       filled,
	}
}

// DropDuplicates returns a copy of f without repeated rows, keeping the first
// occurrence of each and the original order. Missing cells compare equal to
// each other.
func DropDuplicates(f *data.Frame) *data.Frame {
	out := data.NewFrame(f.Columns)
	seen := make(map[string]struct{}, f.Len())
	for _, row := range f.Rows {
		key := rowKey(row)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out.Rows = append(out.Rows, append([]float64(nil), row...))
	}
	return out
}

// rowKey encodes the exact bit pattern of each value. All NaNs share one key
// and -0 is folded into 0.
func rowKey(row []float64) string {
	buf := make([]byte, 8*len(row))
	for i, v := range row {
		var bits uint64
		switch {
		case math.IsNaN(v):
			bits = math.Float64bits(math.NaN())
		case v == 0:
			bits = 0
		default:
			bits = math.Float64bits(v)
		}
		binary.LittleEndian.PutUint64(buf[i*8:], bits)
	}
	return string(buf)
}
