// Package synth generates labelled card transactions in the training schema
// layout. Fraud rows are shifted along a handful of the anonymised
// components so that a classifier has something to learn.
package synth

import (
	"math"
	"math/rand"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/data"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/pipeline"
)

// Config controls the generated dataset.
type Config struct {
	Rows          int
	FraudRate     float64 // share of rows labelled 1
	MissingRate   float64 // share of feature cells left empty
	DuplicateRows int     // extra copies of existing rows appended at the end
	Seed          int64
}

// fraudShift moves fraud rows along selected components, keyed by V index.
var fraudShift = map[int]float64{
	1:  -2.0,
	3:  -3.0,
	4:  2.5,
	10: -3.0,
	11: 2.0,
	12: -3.0,
	14: -4.0,
	17: -3.0,
}

const secondsInTwoDays = 172792

// Generate returns a frame with the schema feature columns followed by Class.
// The same Config always yields the same frame.
func Generate(cfg Config) *data.Frame {
	schema := pipeline.DefaultSchema()
	f := data.NewFrame(schema.Columns())
	rnd := rand.New(rand.NewSource(cfg.Seed))

	frauds := int(math.Round(float64(cfg.Rows) * cfg.FraudRate))
	isFraud := make([]bool, cfg.Rows)
	for _, i := range rnd.Perm(cfg.Rows)[:frauds] {
		isFraud[i] = true
	}

	nFeatures := schema.NumFeatures()
	for i := 0; i < cfg.Rows; i++ {
		row := make([]float64, nFeatures+1)
		row[0] = math.Floor(rnd.Float64() * secondsInTwoDays)
		for v := 1; v <= 28; v++ {
			x := rnd.NormFloat64()
			if isFraud[i] {
				x += fraudShift[v]
			}
			row[v] = x
		}

		mu, sigma := 3.0, 1.2
		if isFraud[i] {
			mu, sigma = 4.0, 1.5
		}
		row[nFeatures-1] = math.Round(math.Exp(mu+sigma*rnd.NormFloat64())*100) / 100

		if isFraud[i] {
			row[nFeatures] = 1
		}
		if cfg.MissingRate > 0 {
			for j := 0; j < nFeatures; j++ {
				if rnd.Float64() < cfg.MissingRate {
					row[j] = math.NaN()
				}
			}
		}
		f.Rows = append(f.Rows, row)
	}

	for d := 0; d < cfg.DuplicateRows && cfg.Rows > 0; d++ {
		src := f.Rows[rnd.Intn(cfg.Rows)]
		f.Rows = append(f.Rows, append([]float64(nil), src...))
	}
	return f
}
