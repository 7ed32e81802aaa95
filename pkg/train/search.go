package train

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/data"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/loader"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/model"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/pipeline"
)

// SearchConfig controls cross-validation during grid search.
type SearchConfig struct {
	Folds       int
	Seed        int64
	Parallelism int // concurrent fold fits; 0 => GOMAXPROCS
	Logger      *slog.Logger
}

// CVResult holds the fold scores of one combination.
type CVResult struct {
	Params     map[string]int
	FoldScores []float64
	MeanScore  float64
	StdScore   float64
}

// SearchResult is the outcome of GridSearch. Results follow Combinations order.
type SearchResult struct {
	BestIndex  int
	BestParams map[string]int
	BestScore  float64
	Results    []CVResult
}

// GridSearch scores every grid combination by stratified k-fold ROC-AUC on
// X, y. Fold fits run concurrently but each score lands in a fixed slot, so
// the result is the same for any Parallelism. The highest mean wins; on a tie
// the earlier combination is kept.
func GridSearch(ctx context.Context, base *pipeline.Pipeline, X *data.Frame, y []int, grid Grid, cfg SearchConfig) (*SearchResult, error) {
	if err := grid.Validate(base); err != nil {
		return nil, err
	}
	folds, err := loader.StratifiedKFold(y, cfg.Folds, cfg.Seed)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	combos := grid.Combinations()
	results := make([]CVResult, len(combos))
	for i, c := range combos {
		results[i] = CVResult{Params: c, FoldScores: make([]float64, len(folds))}
	}

	g, ctx := errgroup.WithContext(ctx)
	limit := cfg.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)

	for ci := range combos {
		for fi := range folds {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				score, err := scoreFold(base, combos[ci], X, y, folds[fi])
				if err != nil {
					return fmt.Errorf("combination %v fold %d: %w", combos[ci], fi, err)
				}
				results[ci].FoldScores[fi] = score
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &SearchResult{BestIndex: -1, Results: results}
	for i := range results {
		r := &results[i]
		r.MeanScore, r.StdScore = stat.PopMeanStdDev(r.FoldScores, nil)
		logger.Debug("cv result", "params", r.Params, "mean_auc", r.MeanScore, "std_auc", r.StdScore)
		if out.BestIndex < 0 || r.MeanScore > out.BestScore {
			out.BestIndex = i
			out.BestScore = r.MeanScore
		}
	}
	out.BestParams = results[out.BestIndex].Params
	return out, nil
}

func scoreFold(base *pipeline.Pipeline, params map[string]int, X *data.Frame, y []int, fold loader.Fold) (float64, error) {
	p := base.Clone()
	if err := p.SetParams(params); err != nil {
		return 0, err
	}
	p.Classifier.Parallelism = 1

	if err := p.Fit(X.Select(fold.Train), pick(y, fold.Train)); err != nil {
		return 0, err
	}
	proba, err := p.PredictProba(X.Select(fold.Test))
	if err != nil {
		return 0, err
	}
	return model.ROCAUC(pick(y, fold.Test), model.PositiveScores(proba))
}

func pick(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, r := range idx {
		out[i] = y[r]
	}
	return out
}
