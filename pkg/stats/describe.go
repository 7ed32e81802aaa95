package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/data"
)

// Summary describes one column. Statistics ignore missing cells and are NaN
// when the column has no observed values.
type Summary struct {
	Column  string  `json:"column"`
	Count   int     `json:"count"`
	Missing int     `json:"missing"`
	Mean    float64 `json:"mean"`
	Std     float64 `json:"std"`
	Min     float64 `json:"min"`
	P25     float64 `json:"25%"`
	Median  float64 `json:"50%"`
	P75     float64 `json:"75%"`
	Max     float64 `json:"max"`
}

// Describe summarizes every column of f.
func Describe(f *data.Frame) []Summary {
	out := make([]Summary, f.Width())
	for j, name := range f.Columns {
		col, _ := f.Column(name)
		observed := col[:0:0]
		for _, v := range col {
			if !math.IsNaN(v) {
				observed = append(observed, v)
			}
		}
		out[j] = summarize(name, observed, len(col)-len(observed))
	}
	return out
}

func summarize(name string, x []float64, missing int) Summary {
	s := Summary{Column: name, Count: len(x), Missing: missing}
	if len(x) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.P25, s.Median, s.P75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}
	sort.Float64s(x)
	s.Mean, s.Std = stat.MeanStdDev(x, nil)
	if len(x) == 1 {
		s.Std = 0
	}
	s.Min = floats.Min(x)
	s.Max = floats.Max(x)
	s.P25 = stat.Quantile(0.25, stat.LinInterp, x, nil)
	s.Median = stat.Quantile(0.5, stat.LinInterp, x, nil)
	s.P75 = stat.Quantile(0.75, stat.LinInterp, x, nil)
	return s
}
