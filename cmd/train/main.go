// Command train runs the cross-validated grid search on the training
// partition and writes the fitted pipeline artifact.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/data"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/dataprep"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/logging"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/pipeline"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/train"
)

func main() {
	defaults := train.DefaultConfig()

	input := flag.String("train", "data/processed/train.csv", "Path to the training partition")
	out := flag.String("out", defaults.ArtifactPath, "Artifact output path (overwritten)")
	gridSpec := flag.String("grid", defaults.Grid.String(), `Hyperparameter grid, e.g. "n_estimators=100,200;max_depth=8,12"`)
	folds := flag.Int("folds", defaults.Folds, "Number of stratified CV folds")
	seed := flag.Int64("seed", defaults.Seed, "Random seed for folds and the forest")
	parallelism := flag.Int("parallelism", 0, "Concurrent fits (0 = GOMAXPROCS)")
	amountLog := flag.Bool("amount-log", true, "Add the Amount_log feature")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "text", "Log format: text or json")
	flag.Parse()

	logger := logging.New(*logLevel, *logFormat)

	grid, err := train.ParseGrid(*gridSpec)
	if err != nil {
		logger.Error("parse grid", "error", err)
		os.Exit(1)
	}

	frame, err := data.ReadCSV(*input)
	if err != nil {
		logger.Error("load training data", "path", *input, "error", err)
		os.Exit(1)
	}
	X, y, err := frame.SplitTarget(pipeline.TargetColumn)
	if err != nil {
		logger.Error("training data", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := train.Train(ctx, pipeline.Build(dataprep.NewFeatureCreator(*amountLog)), X, y, train.Config{
		Grid:         grid,
		Folds:        *folds,
		Seed:         *seed,
		Parallelism:  *parallelism,
		ArtifactPath: *out,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("training failed", "error", err)
		os.Exit(1)
	}
	logger.Info("training finished, artifact saved",
		"path", *out,
		"best_params", a.Metadata.BestParams,
		"best_roc_auc", a.Metadata.BestScore,
	)
}
