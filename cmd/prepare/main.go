// Command prepare cleans the raw transaction file and writes stratified
// train/val/test partitions.
package main

import (
	"flag"
	"os"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/data"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/dataprep"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/loader"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/logging"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/pipeline"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/stats"
)

func main() {
	input := flag.String("input", "data/raw/credit_card_data.csv", "Path to the raw CSV file")
	outDir := flag.String("out", "data/processed", "Directory for train.csv, val.csv and test.csv")
	testFrac := flag.Float64("test", 0.2, "Fraction of rows held out for test")
	valFrac := flag.Float64("val", 0.1, "Fraction of rows held out for validation")
	seed := flag.Int64("seed", 42, "Random seed for the stratified splits")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "text", "Log format: text or json")
	flag.Parse()

	logger := logging.New(*logLevel, *logFormat)

	raw, err := data.ReadCSV(*input)
	if err != nil {
		logger.Error("load raw data", "path", *input, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded raw data", "path", *input, "rows", raw.Len(), "columns", raw.Width())

	schema := pipeline.DefaultSchema()
	records, err := raw.Project(schema.Columns())
	if err != nil {
		logger.Error("raw data does not match the transaction schema", "error", err)
		os.Exit(1)
	}
	if missing := dataprep.MissingCount(records); len(missing) > 0 {
		logger.Info("missing values found", "columns", missing)
	}
	for _, s := range stats.Describe(records) {
		logger.Debug("column profile",
			"column", s.Column, "count", s.Count, "missing", s.Missing,
			"mean", s.Mean, "std", s.Std, "min", s.Min, "median", s.Median, "max", s.Max,
		)
	}

	cleaned, report := dataprep.Clean(records)
	logger.Info("cleaned",
		"rows_in", report.RowsIn,
		"duplicates_removed", report.DuplicatesRemoved,
		"cells_filled", report.CellsFilled,
		"rows_out", cleaned.Len(),
	)

	parts, err := loader.Split(cleaned, schema.Target, *testFrac, *valFrac, *seed)
	if err != nil {
		logger.Error("split", "error", err)
		os.Exit(1)
	}
	paths, err := parts.Write(*outDir)
	if err != nil {
		logger.Error("write partitions", "dir", *outDir, "error", err)
		os.Exit(1)
	}
	logger.Info("partitions written",
		"train", parts.Train.Len(), "val", parts.Val.Len(), "test", parts.Test.Len(),
		"files", paths,
	)
}
