package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/data"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/dataprep"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/model"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/pipeline"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/synth"
)

func dataset(t *testing.T, rows int, seed int64) (*data.Frame, []int) {
	t.Helper()
	X, y, err := synth.Generate(synth.Config{Rows: rows, FraudRate: 0.1, Seed: seed}).SplitTarget("Class")
	require.NoError(t, err)
	return X, y
}

func newPipeline() *pipeline.Pipeline {
	return pipeline.Build(dataprep.NewFeatureCreator(true), model.WithNEstimators(10), model.WithForestMaxDepth(5), model.WithSeed(1))
}

func TestPipelineFitPredict(t *testing.T) {
	X, y := dataset(t, 300, 1)
	p := newPipeline()
	require.NoError(t, p.Fit(X, y))

	proba, err := p.PredictProba(X)
	require.NoError(t, err)
	require.Len(t, proba, X.Len())
	for _, row := range proba {
		require.Len(t, row, 2)
		assert.InDelta(t, 1, row[0]+row[1], 1e-9)
	}

	labels, err := p.Predict(X)
	require.NoError(t, err)
	assert.Greater(t, model.Accuracy(y, labels), 0.9)

	assert.Equal(t, append(pipeline.DefaultSchema().FeatureNames, "Amount_log"), p.Scaler.Columns)
	assert.Equal(t, model.ClassWeightBalanced, p.Classifier.ClassWeight)
}

func TestPipelineScalerStatisticsComeFromFitDataOnly(t *testing.T) {
	train, yTrain := dataset(t, 200, 2)
	p := newPipeline()
	require.NoError(t, p.Fit(train, yTrain))
	mean := append([]float64(nil), p.Scaler.Mean...)
	std := append([]float64(nil), p.Scaler.Std...)

	test, _ := dataset(t, 100, 3)
	for _, row := range test.Rows {
		for j := range row {
			row[j] = row[j]*1000 + 5
		}
	}
	_, err := p.PredictProba(test)
	require.NoError(t, err)

	assert.Equal(t, mean, p.Scaler.Mean)
	assert.Equal(t, std, p.Scaler.Std)

	// Refitting on the same training rows gives the same statistics no matter
	// what the held-out data looks like.
	q := newPipeline()
	require.NoError(t, q.Fit(train, yTrain))
	assert.Equal(t, mean, q.Scaler.Mean)
}

func TestPipelineRejectsWrongColumns(t *testing.T) {
	X, y := dataset(t, 50, 4)
	p := newPipeline()

	short, err := X.Project(X.Columns[:29])
	require.NoError(t, err)
	err = p.Fit(short, y)
	assert.ErrorIs(t, err, pipeline.ErrSchemaMismatch)

	require.NoError(t, p.Fit(X, y))
	_, err = p.Predict(short)
	assert.ErrorIs(t, err, pipeline.ErrSchemaMismatch)
}

func TestPipelineNotFitted(t *testing.T) {
	X, _ := dataset(t, 10, 5)
	_, err := newPipeline().Predict(X)
	assert.ErrorIs(t, err, pipeline.ErrNotFitted)
}

func TestPredictVector(t *testing.T) {
	X, y := dataset(t, 200, 6)
	p := newPipeline()
	require.NoError(t, p.Fit(X, y))

	proba, err := p.PredictProba(X)
	require.NoError(t, err)
	label, prob, err := p.PredictVector(X.Rows[0])
	require.NoError(t, err)
	assert.Equal(t, proba[0][1], prob)
	assert.Equal(t, prob > 0.5, label == 1)

	for _, n := range []int{0, 29, 31} {
		_, _, err := p.PredictVector(make([]float64, n))
		var mismatch *pipeline.MismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, 30, mismatch.Expected)
		assert.Equal(t, n, mismatch.Got)
	}
}

func TestCloneIsUnfittedAndIndependent(t *testing.T) {
	X, y := dataset(t, 100, 7)
	p := newPipeline()
	require.NoError(t, p.Fit(X, y))

	c := p.Clone()
	assert.False(t, c.Fitted)
	require.NoError(t, c.SetParams(map[string]int{"n_estimators": 3}))
	assert.Equal(t, 10, p.Classifier.NEstimators)
	assert.Equal(t, 3, c.Classifier.NEstimators)
}
