package dataprep

import (
	"math"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/data"
)

// ImputeConstant replaces missing cells of f in place with value and returns
// the number of cells it filled.
func ImputeConstant(f *data.Frame, value float64) int {
	filled := 0
	for _, row := range f.Rows {
		for j, v := range row {
			if math.IsNaN(v) {
				row[j] = value
				filled++
			}
		}
	}
	return filled
}

// MissingCount returns the number of missing cells per column.
func MissingCount(f *data.Frame) map[string]int {
	counts := make(map[string]int)
	for _, row := range f.Rows {
		for j, v := range row {
			if math.IsNaN(v) {
				counts[f.Columns[j]]++
			}
		}
	}
	return counts
}
