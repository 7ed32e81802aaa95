package model

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ClassWeightBalanced weights each class by n / (classes * count) over the
// labels passed to Fit.
const ClassWeightBalanced = "balanced"

// Hyperparameter names accepted by SetParams.
const (
	ParamNEstimators     = "n_estimators"
	ParamMaxDepth        = "max_depth"
	ParamMinSamplesSplit = "min_samples_split"
	ParamMinSamplesLeaf  = "min_samples_leaf"
	ParamMaxFeatures     = "max_features"
)

// RandomForest for classification
type RandomForest struct {
	// Hyperparameters / options
	NEstimators     int
	MaxDepth        int // 0 => unlimited
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int // 0 => floor(sqrt(features))
	Criterion       string
	Bootstrap       bool
	ClassWeight     string // "" or "balanced"
	RandomState     int64
	Parallelism     int // 0 => GOMAXPROCS

	// Fitted state
	NClasses int
	Trees    []*DecisionTreeClassifier
}

// RandomForestOption is a functional config for RandomForest.
type RandomForestOption func(*RandomForest)

func WithNEstimators(n int) RandomForestOption { return func(rf *RandomForest) { rf.NEstimators = n } }
func WithBootstrap(b bool) RandomForestOption  { return func(rf *RandomForest) { rf.Bootstrap = b } }
func WithForestMaxDepth(d int) RandomForestOption {
	return func(rf *RandomForest) { rf.MaxDepth = d }
}
func WithForestMinSamplesLeaf(n int) RandomForestOption {
	return func(rf *RandomForest) { rf.MinSamplesLeaf = n }
}
func WithForestMaxFeatures(k int) RandomForestOption {
	return func(rf *RandomForest) { rf.MaxFeatures = k }
}
func WithClassWeight(cw string) RandomForestOption {
	return func(rf *RandomForest) { rf.ClassWeight = cw }
}
func WithSeed(seed int64) RandomForestOption { return func(rf *RandomForest) { rf.RandomState = seed } }
func WithParallelism(n int) RandomForestOption {
	return func(rf *RandomForest) { rf.Parallelism = n }
}

// NewRandomForest initializes the forest with sensible defaults.
func NewRandomForest(opts ...RandomForestOption) *RandomForest {
	rf := &RandomForest{
		NEstimators:     100,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     0,
		Criterion:       "gini",
		Bootstrap:       true,
		RandomState:     42,
	}
	for _, o := range opts {
		o(rf)
	}
	return rf
}

// Fit trains the forest. Tree i draws its bootstrap sample from a source
// seeded with RandomState+i, so the result does not depend on Parallelism.
func (rf *RandomForest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("randomforest: empty X")
	}
	n := len(X)
	if len(y) != n {
		return errors.New("randomforest: X and y length mismatch")
	}
	if err := rf.Validate(); err != nil {
		return err
	}

	k := 2
	for _, lab := range y {
		if lab < 0 {
			return fmt.Errorf("randomforest: negative class label %d", lab)
		}
		k = max(k, lab+1)
	}
	rf.NClasses = k
	weights := rf.classWeights(y, k)
	maxFeatures := rf.featuresPerSplit(len(X[0]))

	trees := make([]*DecisionTreeClassifier, rf.NEstimators)
	var g errgroup.Group
	g.SetLimit(rf.workers())
	for i := 0; i < rf.NEstimators; i++ {
		g.Go(func() error {
			treeRand := rand.New(rand.NewSource(rf.RandomState + int64(i)))

			// Bootstrap counts become sample weights.
			w := make([]float64, n)
			if rf.Bootstrap {
				for range n {
					w[treeRand.Intn(n)]++
				}
			} else {
				for j := range w {
					w[j] = 1
				}
			}
			for j := range w {
				w[j] *= weights[y[j]]
			}

			tree := NewDecisionTreeClassifier(
				WithMaxDepth(rf.MaxDepth),
				WithMinSamplesSplit(rf.MinSamplesSplit),
				WithMinSamplesLeaf(rf.MinSamplesLeaf),
				WithMaxFeatures(maxFeatures),
				WithCriterion(rf.Criterion),
				WithNumClasses(k),
				WithRandomState(treeRand.Int63()),
			)
			if err := tree.FitWeighted(X, y, w); err != nil {
				return fmt.Errorf("randomforest: tree %d: %w", i, err)
			}
			trees[i] = tree
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	rf.Trees = trees
	return nil
}

// PredictProba averages the class distributions of all trees. Each row sums
// its trees in a fixed order, so results are identical across runs.
func (rf *RandomForest) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	k := max(rf.NClasses, 2)

	predictRange := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			acc := make([]float64, k)
			for _, t := range rf.Trees {
				for c, p := range t.predictProbaSingle(X[i]) {
					acc[c] += p
				}
			}
			if len(rf.Trees) > 0 {
				for c := range acc {
					acc[c] /= float64(len(rf.Trees))
				}
			}
			out[i] = acc
		}
	}

	const chunk = 512
	if len(X) <= chunk {
		predictRange(0, len(X))
		return out
	}
	var wg sync.WaitGroup
	for lo := 0; lo < len(X); lo += chunk {
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			predictRange(lo, hi)
		}(lo, min(lo+chunk, len(X)))
	}
	wg.Wait()
	return out
}

// Predict returns the class with the highest averaged probability.
func (rf *RandomForest) Predict(X [][]float64) []int {
	proba := rf.PredictProba(X)
	out := make([]int, len(proba))
	for i, p := range proba {
		out[i] = argmax(p)
	}
	return out
}

// Validate checks the hyperparameters without fitting.
func (rf *RandomForest) Validate() error {
	switch {
	case rf.NEstimators < 1:
		return fmt.Errorf("%w: n_estimators must be >= 1, got %d", ErrInvalidParam, rf.NEstimators)
	case rf.MaxDepth < 0:
		return fmt.Errorf("%w: max_depth must be >= 0, got %d", ErrInvalidParam, rf.MaxDepth)
	case rf.MinSamplesSplit < 2:
		return fmt.Errorf("%w: min_samples_split must be >= 2, got %d", ErrInvalidParam, rf.MinSamplesSplit)
	case rf.MinSamplesLeaf < 1:
		return fmt.Errorf("%w: min_samples_leaf must be >= 1, got %d", ErrInvalidParam, rf.MinSamplesLeaf)
	case rf.MaxFeatures < 0:
		return fmt.Errorf("%w: max_features must be >= 0, got %d", ErrInvalidParam, rf.MaxFeatures)
	case rf.Criterion != "gini" && rf.Criterion != "entropy":
		return fmt.Errorf("%w: unknown criterion %q", ErrInvalidParam, rf.Criterion)
	case rf.ClassWeight != "" && rf.ClassWeight != ClassWeightBalanced:
		return fmt.Errorf("%w: unknown class_weight %q", ErrInvalidParam, rf.ClassWeight)
	}
	return nil
}

// SetParams applies grid-search style integer hyperparameters. A "clf__"
// prefix on a name is accepted. Grid values must be positive; zero is
// reserved for the unlimited/automatic defaults.
func (rf *RandomForest) SetParams(params map[string]int) error {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		v := params[key]
		name := strings.TrimPrefix(key, "clf__")
		if v < 1 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidParam, key, v)
		}
		switch name {
		case ParamNEstimators:
			rf.NEstimators = v
		case ParamMaxDepth:
			rf.MaxDepth = v
		case ParamMinSamplesSplit:
			rf.MinSamplesSplit = v
		case ParamMinSamplesLeaf:
			rf.MinSamplesLeaf = v
		case ParamMaxFeatures:
			rf.MaxFeatures = v
		default:
			return fmt.Errorf("%w: unknown hyperparameter %q", ErrInvalidParam, key)
		}
	}
	return rf.Validate()
}

// Params returns the current integer hyperparameters by name.
func (rf *RandomForest) Params() map[string]int {
	return map[string]int{
		ParamNEstimators:     rf.NEstimators,
		ParamMaxDepth:        rf.MaxDepth,
		ParamMinSamplesSplit: rf.MinSamplesSplit,
		ParamMinSamplesLeaf:  rf.MinSamplesLeaf,
		ParamMaxFeatures:     rf.MaxFeatures,
	}
}

// Clone returns an unfitted forest with the same hyperparameters.
func (rf *RandomForest) Clone() *RandomForest {
	c := *rf
	c.NClasses = 0
	c.Trees = nil
	return &c
}

// ClassWeights returns the per-class weights Fit would apply to y.
func (rf *RandomForest) ClassWeights(y []int) map[int]float64 {
	k := 2
	for _, lab := range y {
		k = max(k, lab+1)
	}
	w := rf.classWeights(y, k)
	out := make(map[int]float64, k)
	for c, v := range w {
		out[c] = v
	}
	return out
}

func (rf *RandomForest) classWeights(y []int, k int) []float64 {
	w := make([]float64, k)
	for c := range w {
		w[c] = 1
	}
	if rf.ClassWeight != ClassWeightBalanced {
		return w
	}
	counts := make([]int, k)
	for _, lab := range y {
		counts[lab]++
	}
	present := 0
	for _, c := range counts {
		if c > 0 {
			present++
		}
	}
	for c, cnt := range counts {
		if cnt > 0 {
			w[c] = float64(len(y)) / (float64(present) * float64(cnt))
		}
	}
	return w
}

func (rf *RandomForest) featuresPerSplit(p int) int {
	if rf.MaxFeatures > 0 {
		return min(rf.MaxFeatures, p)
	}
	return max(1, int(math.Sqrt(float64(p))))
}

func (rf *RandomForest) workers() int {
	if rf.Parallelism > 0 {
		return rf.Parallelism
	}
	return runtime.GOMAXPROCS(0)
}
