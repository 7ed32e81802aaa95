// Package train selects classifier hyperparameters by cross-validated grid
// search, refits the winner on all training rows and writes the artifact.
package train

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/artifact"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/data"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/pipeline"
)

// Config controls a training run.
type Config struct {
	Grid         Grid
	Folds        int
	Seed         int64
	Parallelism  int
	ArtifactPath string // empty => do not write
	Now          func() time.Time
	Logger       *slog.Logger
}

// DefaultConfig mirrors the defaults of the train command.
func DefaultConfig() Config {
	return Config{
		Grid:         DefaultGrid(),
		Folds:        4,
		Seed:         42,
		ArtifactPath: "models/model_pipeline.bin",
	}
}

// Train runs the grid search on X, y, refits the best combination on the
// whole of X, y and saves the resulting artifact to cfg.ArtifactPath,
// overwriting any previous file. Configuration problems are reported before
// any model is fitted and nothing is written on error. base is not modified.
func Train(ctx context.Context, base *pipeline.Pipeline, X *data.Frame, y []int, cfg Config) (*artifact.Artifact, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	if X.Len() != len(y) {
		return nil, fmt.Errorf("%w: X has %d rows but y has %d", data.ErrDataIntegrity, X.Len(), len(y))
	}
	if cfg.Folds < 2 {
		return nil, fmt.Errorf("%w: cv folds must be >= 2, got %d", ErrInvalidConfig, cfg.Folds)
	}
	if err := base.Schema.CheckColumns(X.Columns); err != nil {
		return nil, err
	}
	seeded := base.Clone()
	seeded.SetSeed(cfg.Seed)
	if err := cfg.Grid.Validate(seeded); err != nil {
		return nil, err
	}

	start := time.Now()
	logger.Info("grid search started",
		"rows", X.Len(), "grid", cfg.Grid.String(), "combinations", len(cfg.Grid.Combinations()),
		"folds", cfg.Folds, "seed", cfg.Seed)

	res, err := GridSearch(ctx, seeded, X, y, cfg.Grid, SearchConfig{
		Folds:       cfg.Folds,
		Seed:        cfg.Seed,
		Parallelism: cfg.Parallelism,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("grid search finished",
		"best_params", res.BestParams, "best_auc", res.BestScore, "elapsed", time.Since(start).Round(time.Millisecond))

	best := seeded.Clone()
	if err := best.SetParams(res.BestParams); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := best.Fit(X, y); err != nil {
		return nil, fmt.Errorf("refit: %w", err)
	}

	scores := make([]artifact.ParamScore, len(res.Results))
	for i, r := range res.Results {
		scores[i] = artifact.ParamScore{Params: r.Params, MeanScore: r.MeanScore, StdScore: r.StdScore}
	}
	a := &artifact.Artifact{
		Pipeline: best,
		Metadata: artifact.Metadata{
			TrainedAt:     now().UTC().Format(time.RFC3339),
			BestParams:    res.BestParams,
			BestScore:     res.BestScore,
			CVFolds:       cfg.Folds,
			Seed:          cfg.Seed,
			TrainRows:     X.Len(),
			SchemaVersion: best.Schema.Version,
			Features:      best.Schema.FeatureNames,
			CVResults:     scores,
		},
	}

	if cfg.ArtifactPath != "" {
		if err := artifact.Save(cfg.ArtifactPath, a); err != nil {
			return nil, fmt.Errorf("save artifact: %w", err)
		}
		logger.Info("artifact written", "path", cfg.ArtifactPath)
	}
	return a, nil
}
