// Command sample picks the first fraud row of a dataset and prints a curl
// command that posts it to the prediction service.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/data"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/logging"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/pipeline"
)

var errNoFraud = errors.New("no fraud rows found in dataset")

func main() {
	input := flag.String("input", "data/raw/credit_card_data.csv", "Dataset with the raw column layout")
	url := flag.String("url", "http://127.0.0.1:8000/predict", "Prediction endpoint")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "text", "Log format: text or json")
	flag.Parse()

	logger := logging.New(*logLevel, *logFormat)

	f, err := data.ReadCSV(*input)
	if err != nil {
		logger.Error("load dataset", "path", *input, "error", err)
		os.Exit(1)
	}
	features, err := firstFraud(f, pipeline.DefaultSchema())
	if err != nil {
		logger.Error("pick fraud sample", "error", err)
		os.Exit(1)
	}
	cmd, err := curlCommand(*url, features)
	if err != nil {
		logger.Error("encode sample", "error", err)
		os.Exit(1)
	}

	fmt.Println("High-risk fraud sample. Use this curl command:")
	fmt.Println()
	fmt.Println(cmd)
	fmt.Println()
	fmt.Println("Raw features:")
	fmt.Println(features)
}

// firstFraud returns the features of the first row labelled 1. The frame
// must have exactly the schema's columns in order.
func firstFraud(f *data.Frame, schema pipeline.Schema) ([]float64, error) {
	if !slices.Equal(f.Columns, schema.Columns()) {
		return nil, fmt.Errorf("%w: columns are not in the standard order, found %v",
			pipeline.ErrSchemaMismatch, f.Columns)
	}
	target := len(f.Columns) - 1
	for _, row := range f.Rows {
		if row[target] == 1 {
			return slices.Clone(row[:target]), nil
		}
	}
	return nil, errNoFraud
}

func curlCommand(url string, features []float64) (string, error) {
	body, err := json.Marshal(map[string][]float64{"features": features})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("curl -X POST %q \\\n  -H \"Content-Type: application/json\" \\\n  -d '%s'", url, body), nil
}
