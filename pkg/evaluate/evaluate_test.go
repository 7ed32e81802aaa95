package evaluate

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/data"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/dataprep"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/loader"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/pipeline"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/synth"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/train"
)

func trainedOnSynthetic(t *testing.T) (*pipeline.Pipeline, *data.Frame, []int) {
	t.Helper()
	raw := synth.Generate(synth.Config{Rows: 1000, FraudRate: 0.05, Seed: 3})
	cleaned, _ := dataprep.Clean(raw)
	parts, err := loader.Split(cleaned, pipeline.TargetColumn, 0.2, 0.1, 42)
	require.NoError(t, err)

	Xtr, ytr, err := parts.Train.SplitTarget(pipeline.TargetColumn)
	require.NoError(t, err)
	a, err := train.Train(context.Background(), pipeline.Build(dataprep.NewFeatureCreator(true)), Xtr, ytr, train.Config{
		Grid:  train.Grid{"n_estimators": {10}, "max_depth": {4, 6}},
		Folds: 3,
		Seed:  42,
	})
	require.NoError(t, err)

	Xte, yte, err := parts.Test.SplitTarget(pipeline.TargetColumn)
	require.NoError(t, err)
	return a.Pipeline, Xte, yte
}

func TestEvaluateEndToEnd(t *testing.T) {
	p, X, y := trainedOnSynthetic(t)

	r, err := Evaluate(p, X, y)
	require.NoError(t, err)

	assert.Greater(t, r.Metrics.ROCAUC, 0.5)
	assert.Greater(t, r.Metrics.AveragePrecision, 0.0)
	assert.Equal(t, len(y), r.Metrics.Rows)

	var neg, pos int
	for _, v := range y {
		if v == 1 {
			pos++
		} else {
			neg++
		}
	}
	cm := r.Metrics.ConfusionMatrix
	require.Len(t, cm, 2)
	assert.Equal(t, neg, cm[0][0]+cm[0][1])
	assert.Equal(t, pos, cm[1][0]+cm[1][1])
	assert.Equal(t, pos, r.Metrics.ClassificationReport["1"].Support)

	assert.Equal(t, 0.0, r.ROC.X[0])
	assert.Equal(t, 1.0, r.ROC.X[len(r.ROC.X)-1])
}

func TestEvaluateLengthMismatch(t *testing.T) {
	p, X, y := trainedOnSynthetic(t)
	_, err := Evaluate(p, X, y[1:])
	assert.ErrorIs(t, err, data.ErrDataIntegrity)
}

func TestEvaluateWrongColumns(t *testing.T) {
	p, X, y := trainedOnSynthetic(t)
	narrowed, err := X.Project(X.Columns[1:])
	require.NoError(t, err)
	_, err = Evaluate(p, narrowed, y)
	assert.ErrorIs(t, err, pipeline.ErrSchemaMismatch)
}

func TestWriteReport(t *testing.T) {
	p, X, y := trainedOnSynthetic(t)
	r, err := Evaluate(p, X, y)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "reports")
	paths, err := WriteReport(dir, r)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	for _, path := range paths {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size(), path)
	}

	raw, err := os.ReadFile(filepath.Join(dir, MetricsFile))
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, key := range []string{"roc_auc", "average_precision", "accuracy", "classification_report", "confusion_matrix"} {
		assert.Contains(t, decoded, key)
	}

	png, err := os.ReadFile(filepath.Join(dir, ROCPlotFile))
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(png[:4]))
}
