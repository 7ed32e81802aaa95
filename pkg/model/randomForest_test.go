package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blobs returns two gaussian clusters in 4 dimensions; every tenth row is
// positive.
func blobs(n int, seed int64) ([][]float64, []int) {
	rnd := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]int, n)
	for i := range X {
		shift := 0.0
		if i%10 == 0 {
			y[i] = 1
			shift = 3
		}
		X[i] = []float64{
			rnd.NormFloat64() + shift,
			rnd.NormFloat64() - shift,
			rnd.NormFloat64(),
			rnd.NormFloat64(),
		}
	}
	return X, y
}

func TestRandomForestLearnsSeparableData(t *testing.T) {
	X, y := blobs(400, 1)
	rf := NewRandomForest(WithNEstimators(25), WithForestMaxDepth(6), WithSeed(42), WithClassWeight(ClassWeightBalanced))
	require.NoError(t, rf.Fit(X, y))

	Xt, yt := blobs(200, 2)
	assert.Greater(t, Accuracy(yt, rf.Predict(Xt)), 0.9)

	auc, err := ROCAUC(yt, PositiveScores(rf.PredictProba(Xt)))
	require.NoError(t, err)
	assert.Greater(t, auc, 0.95)
}

func TestRandomForestProbabilitiesSumToOne(t *testing.T) {
	X, y := blobs(200, 3)
	rf := NewRandomForest(WithNEstimators(10), WithSeed(1))
	require.NoError(t, rf.Fit(X, y))

	for _, p := range rf.PredictProba(X) {
		require.Len(t, p, 2)
		assert.InDelta(t, 1.0, p[0]+p[1], 1e-9)
		assert.GreaterOrEqual(t, p[1], 0.0)
		assert.LessOrEqual(t, p[1], 1.0)
	}
}

func TestRandomForestIsReproducibleAcrossParallelism(t *testing.T) {
	X, y := blobs(300, 4)
	Xt, _ := blobs(1200, 5)

	serial := NewRandomForest(WithNEstimators(12), WithSeed(7), WithParallelism(1))
	require.NoError(t, serial.Fit(X, y))
	parallel := NewRandomForest(WithNEstimators(12), WithSeed(7), WithParallelism(8))
	require.NoError(t, parallel.Fit(X, y))

	assert.Equal(t, serial.PredictProba(Xt), parallel.PredictProba(Xt))

	other := NewRandomForest(WithNEstimators(12), WithSeed(8))
	require.NoError(t, other.Fit(X, y))
	assert.NotEqual(t, serial.PredictProba(Xt), other.PredictProba(Xt))
}

func TestRandomForestBalancedClassWeights(t *testing.T) {
	y := make([]int, 100)
	for i := 0; i < 10; i++ {
		y[i] = 1
	}
	rf := NewRandomForest(WithClassWeight(ClassWeightBalanced))

	w := rf.ClassWeights(y)
	assert.InDelta(t, 100.0/(2*90), w[0], 1e-12)
	assert.InDelta(t, 100.0/(2*10), w[1], 1e-12)

	plain := NewRandomForest().ClassWeights(y)
	assert.Equal(t, map[int]float64{0: 1, 1: 1}, plain)
}

func TestRandomForestSetParams(t *testing.T) {
	rf := NewRandomForest()
	require.NoError(t, rf.SetParams(map[string]int{"n_estimators": 7, "clf__max_depth": 3}))
	assert.Equal(t, 7, rf.NEstimators)
	assert.Equal(t, 3, rf.MaxDepth)
	assert.Equal(t, 7, rf.Params()[ParamNEstimators])

	assert.ErrorIs(t, rf.SetParams(map[string]int{"max_depth": 0}), ErrInvalidParam)
	assert.ErrorIs(t, rf.SetParams(map[string]int{"max_depth": -2}), ErrInvalidParam)
	assert.ErrorIs(t, rf.SetParams(map[string]int{"learning_rate": 1}), ErrInvalidParam)
	assert.ErrorIs(t, rf.SetParams(map[string]int{"min_samples_split": 1}), ErrInvalidParam)
}

func TestRandomForestCloneIsUnfitted(t *testing.T) {
	X, y := blobs(50, 6)
	rf := NewRandomForest(WithNEstimators(3), WithSeed(2))
	require.NoError(t, rf.Fit(X, y))

	c := rf.Clone()
	assert.Nil(t, c.Trees)
	assert.Equal(t, rf.NEstimators, c.NEstimators)
	assert.Len(t, rf.Trees, 3)
}

func TestRandomForestErrors(t *testing.T) {
	rf := NewRandomForest(WithNEstimators(0))
	assert.ErrorIs(t, rf.Fit([][]float64{{1}}, []int{0}), ErrInvalidParam)
	assert.Error(t, NewRandomForest().Fit([][]float64{{1}}, []int{0, 1}))
	assert.Error(t, NewRandomForest().Fit(nil, nil))
}
