// Command evaluate scores a trained artifact on the test partition and writes
// metrics.json plus ROC and precision-recall plots.
package main

import (
	"flag"
	"os"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/artifact"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/data"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/evaluate"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/logging"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/pipeline"
)

func main() {
	modelPath := flag.String("model", "models/model_pipeline.bin", "Path to the trained artifact")
	input := flag.String("test", "data/processed/test.csv", "Path to the test partition")
	outDir := flag.String("out", "reports", "Directory for metrics and plots")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "text", "Log format: text or json")
	flag.Parse()

	logger := logging.New(*logLevel, *logFormat)

	a, err := artifact.Load(*modelPath)
	if err != nil {
		logger.Error("load artifact", "path", *modelPath, "error", err)
		os.Exit(1)
	}
	frame, err := data.ReadCSV(*input)
	if err != nil {
		logger.Error("load test data", "path", *input, "error", err)
		os.Exit(1)
	}
	X, y, err := frame.SplitTarget(pipeline.TargetColumn)
	if err != nil {
		logger.Error("test data", "error", err)
		os.Exit(1)
	}

	report, err := evaluate.Evaluate(a.Pipeline, X, y)
	if err != nil {
		logger.Error("evaluate", "error", err)
		os.Exit(1)
	}
	paths, err := evaluate.WriteReport(*outDir, report)
	if err != nil {
		logger.Error("write report", "dir", *outDir, "error", err)
		os.Exit(1)
	}

	m := report.Metrics
	logger.Info("evaluation finished",
		"trained_at", a.Metadata.TrainedAt,
		"rows", m.Rows,
		"roc_auc", m.ROCAUC,
		"average_precision", m.AveragePrecision,
		"accuracy", m.Accuracy,
		"confusion_matrix", m.ConfusionMatrix,
		"files", paths,
	)
}
