// Command synth writes a deterministic synthetic transaction file in the raw
// data layout, for demos and smoke tests.
package main

import (
	"flag"
	"os"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/data"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/logging"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/synth"
)

func main() {
	out := flag.String("out", "data/raw/credit_card_data.csv", "Output CSV path")
	rows := flag.Int("rows", 20000, "Number of distinct rows")
	fraudRate := flag.Float64("fraud-rate", 0.02, "Share of rows labelled as fraud")
	missingRate := flag.Float64("missing-rate", 0.001, "Share of feature cells left empty")
	duplicates := flag.Int("duplicates", 50, "Extra duplicate rows appended")
	seed := flag.Int64("seed", 42, "Random seed")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "text", "Log format: text or json")
	flag.Parse()

	logger := logging.New(*logLevel, *logFormat)

	f := synth.Generate(synth.Config{
		Rows:          *rows,
		FraudRate:     *fraudRate,
		MissingRate:   *missingRate,
		DuplicateRows: *duplicates,
		Seed:          *seed,
	})
	if err := data.WriteCSV(*out, f); err != nil {
		logger.Error("write synthetic data", "path", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("synthetic data written", "path", *out, "rows", f.Len())
}
