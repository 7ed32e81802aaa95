package model

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// ---------------------------
// Types & options
// ---------------------------

// DecisionTreeClassifier is a CART-style classifier with weighted samples.
// Labels are class indices 0..NClasses-1.
type DecisionTreeClassifier struct {
	// Hyperparameters / options
	MaxDepth            int     // maximum depth (root depth = 0). 0 => no limit
	MinSamplesSplit     int     // minimum samples to attempt a split
	MinSamplesLeaf      int     // minimum samples required in each leaf
	Criterion           string  // "gini" (default) or "entropy"
	MaxFeatures         int     // 0 => all features, >0 => features sampled per split
	MinImpurityDecrease float64 // weighted impurity decrease required to split
	RandomState         int64   // seed for feature subsampling
	NClasses            int     // 0 => inferred from the largest label

	// Fitted tree, root at index 0.
	Nodes []Node
}

// Node is one entry of the flattened tree. Leaves have Feature == -1.
// Rows with x[Feature] <= Threshold go Left, everything else (NaN included)
// goes Right.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Samples   int
	Value     []float64 // weighted class distribution, sums to 1
}

// Option functional config
type Option func(*DecisionTreeClassifier)

func WithMaxDepth(d int) Option { return func(t *DecisionTreeClassifier) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) Option {
	return func(t *DecisionTreeClassifier) { t.MinSamplesSplit = n }
}
func WithMinSamplesLeaf(n int) Option {
	return func(t *DecisionTreeClassifier) { t.MinSamplesLeaf = n }
}
func WithCriterion(c string) Option { return func(t *DecisionTreeClassifier) { t.Criterion = c } }
func WithMaxFeatures(k int) Option  { return func(t *DecisionTreeClassifier) { t.MaxFeatures = k } }
func WithMinImpurityDecrease(v float64) Option {
	return func(t *DecisionTreeClassifier) { t.MinImpurityDecrease = v }
}
func WithRandomState(seed int64) Option {
	return func(t *DecisionTreeClassifier) { t.RandomState = seed }
}
func WithNumClasses(k int) Option { return func(t *DecisionTreeClassifier) { t.NClasses = k } }

// NewDecisionTreeClassifier returns a classifier with sensible defaults.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	d := &DecisionTreeClassifier{
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Criterion:       "gini",
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// ---------------------------
// Public API: Fit / Predict / PredictProba
// ---------------------------

// Fit trains the tree with unit sample weights.
func (t *DecisionTreeClassifier) Fit(X [][]float64, y []int) error {
	return t.FitWeighted(X, y, nil)
}

// FitWeighted trains the tree on X (n x p) and y with per-row weights w.
// Rows with zero weight are ignored; nil w means every row weighs 1.
func (t *DecisionTreeClassifier) FitWeighted(X [][]float64, y []int, w []float64) error {
	if len(X) == 0 {
		return errors.New("dtree: empty X")
	}
	n := len(X)
	if len(y) != n {
		return errors.New("dtree: X and y length mismatch")
	}
	if w != nil && len(w) != n {
		return errors.New("dtree: X and sample weight length mismatch")
	}
	if err := t.validate(); err != nil {
		return err
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return errors.New("dtree: inconsistent number of features in X rows")
		}
	}

	k := t.NClasses
	for _, lab := range y {
		if lab < 0 {
			return fmt.Errorf("dtree: negative class label %d", lab)
		}
		if t.NClasses > 0 && lab >= t.NClasses {
			return fmt.Errorf("dtree: label %d out of range for %d classes", lab, t.NClasses)
		}
		k = max(k, lab+1)
	}
	t.NClasses = k

	if w == nil {
		w = make([]float64, n)
		for i := range w {
			w[i] = 1
		}
	}
	idx := make([]int, 0, n)
	rootWeight := 0.0
	for i := 0; i < n; i++ {
		if w[i] < 0 {
			return errors.New("dtree: negative sample weight")
		}
		if w[i] > 0 {
			idx = append(idx, i)
			rootWeight += w[i]
		}
	}
	if len(idx) == 0 {
		return errors.New("dtree: all sample weights are zero")
	}

	b := &builder{
		t:          t,
		X:          X,
		y:          y,
		w:          w,
		p:          p,
		k:          k,
		rootWeight: rootWeight,
		rnd:        rand.New(rand.NewSource(t.RandomState)),
		impurity:   giniImpurity,
		features:   make([]int, p),
		pairs:      make([]pair, 0, len(idx)),
	}
	if t.Criterion == "entropy" {
		b.impurity = entropyImpurity
	}

	t.Nodes = t.Nodes[:0]
	b.build(idx, 0)
	return nil
}

// Predict returns the most probable class for each row. Ties go to the
// lower class index.
func (t *DecisionTreeClassifier) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i := range X {
		out[i] = argmax(t.predictProbaSingle(X[i]))
	}
	return out
}

// PredictProba returns the per-class probability vectors for rows in X.
func (t *DecisionTreeClassifier) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i := range X {
		out[i] = append([]float64(nil), t.predictProbaSingle(X[i])...)
	}
	return out
}

// Depth returns the depth of the fitted tree.
func (t *DecisionTreeClassifier) Depth() int {
	if len(t.Nodes) == 0 {
		return 0
	}
	var walk func(i int) int
	walk = func(i int) int {
		n := t.Nodes[i]
		if n.Feature < 0 {
			return 0
		}
		return 1 + max(walk(n.Left), walk(n.Right))
	}
	return walk(0)
}

func (t *DecisionTreeClassifier) validate() error {
	switch {
	case t.MaxDepth < 0:
		return fmt.Errorf("%w: max_depth must be >= 0, got %d", ErrInvalidParam, t.MaxDepth)
	case t.MinSamplesSplit < 2:
		return fmt.Errorf("%w: min_samples_split must be >= 2, got %d", ErrInvalidParam, t.MinSamplesSplit)
	case t.MinSamplesLeaf < 1:
		return fmt.Errorf("%w: min_samples_leaf must be >= 1, got %d", ErrInvalidParam, t.MinSamplesLeaf)
	case t.MaxFeatures < 0:
		return fmt.Errorf("%w: max_features must be >= 0, got %d", ErrInvalidParam, t.MaxFeatures)
	case t.Criterion != "gini" && t.Criterion != "entropy":
		return fmt.Errorf("%w: unknown criterion %q", ErrInvalidParam, t.Criterion)
	}
	return nil
}

// ---------------------------
// Internal builders & helpers
// ---------------------------

type builder struct {
	t          *DecisionTreeClassifier
	X          [][]float64
	y          []int
	w          []float64
	p, k       int
	rootWeight float64
	rnd        *rand.Rand
	impurity   func(counts []float64, total float64) float64

	// scratch
	features []int
	pairs    []pair
}

// splitResult holds the best split found for one feature.
type splitResult struct {
	gain      float64
	feature   int
	threshold float64
}

// pair is a feature value and its row index.
type pair struct {
	v float64
	i int
}

// build appends the subtree for idx and returns its node index.
func (b *builder) build(idx []int, depth int) int {
	t := b.t
	counts := make([]float64, b.k)
	total := 0.0
	for _, i := range idx {
		counts[b.y[i]] += b.w[i]
		total += b.w[i]
	}

	id := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{
		Feature: -1,
		Samples: len(idx),
		Value:   normalize(counts, total),
	})

	if isPure(counts) ||
		len(idx) < t.MinSamplesSplit ||
		len(idx) < 2*t.MinSamplesLeaf ||
		(t.MaxDepth > 0 && depth >= t.MaxDepth) {
		return id
	}

	best := b.bestSplit(idx, counts, total)
	if best.feature < 0 || (total/b.rootWeight)*best.gain < t.MinImpurityDecrease {
		return id
	}

	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, i := range idx {
		if b.X[i][best.feature] <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.build(left, depth+1)
	r := b.build(right, depth+1)
	node := &t.Nodes[id]
	node.Feature = best.feature
	node.Threshold = best.threshold
	node.Left = l
	node.Right = r
	return id
}

// bestSplit evaluates MaxFeatures randomly ordered features. When none of
// them admits a split the search continues with the remaining features.
func (b *builder) bestSplit(idx []int, counts []float64, total float64) splitResult {
	for j := range b.features {
		b.features[j] = j
	}
	for i := 0; i < b.p; i++ {
		j := i + b.rnd.Intn(b.p-i)
		b.features[i], b.features[j] = b.features[j], b.features[i]
	}
	k := b.t.MaxFeatures
	if k <= 0 || k > b.p {
		k = b.p
	}

	parent := b.impurity(counts, total)
	best := splitResult{feature: -1}
	for i, f := range b.features {
		if i >= k && best.feature >= 0 {
			break
		}
		res := b.splitFeature(idx, f, counts, total, parent)
		if res.feature >= 0 && (best.feature < 0 || res.gain > best.gain) {
			best = res
		}
	}
	return best
}

// splitFeature sorts the rows by feature f and sweeps every boundary between
// distinct values, keeping running class weights on the left side.
func (b *builder) splitFeature(idx []int, f int, counts []float64, total, parent float64) splitResult {
	result := splitResult{feature: -1}
	minLeaf := b.t.MinSamplesLeaf

	pairs := b.pairs[:0]
	for _, i := range idx {
		v := b.X[i][f]
		if math.IsNaN(v) {
			continue
		}
		pairs = append(pairs, pair{v, i})
	}
	b.pairs = pairs
	if len(pairs) < 2 {
		return result
	}
	sort.Slice(pairs, func(a, c int) bool { return pairs[a].v < pairs[c].v })
	if pairs[0].v == pairs[len(pairs)-1].v {
		return result
	}

	left := make([]float64, b.k)
	right := make([]float64, b.k)
	leftW := 0.0
	for s := 1; s < len(pairs); s++ {
		prev := pairs[s-1]
		left[b.y[prev.i]] += b.w[prev.i]
		leftW += b.w[prev.i]
		if pairs[s].v == prev.v {
			continue
		}
		if s < minLeaf || len(idx)-s < minLeaf {
			continue
		}

		rightW := total - leftW
		for c := range right {
			right[c] = counts[c] - left[c]
		}
		child := (leftW*b.impurity(left, leftW) + rightW*b.impurity(right, rightW)) / total
		gain := parent - child
		if result.feature < 0 || gain > result.gain {
			thr := prev.v + (pairs[s].v-prev.v)/2
			if thr >= pairs[s].v || math.IsInf(thr, 0) {
				thr = prev.v
			}
			result = splitResult{gain: gain, feature: f, threshold: thr}
		}
	}
	return result
}

func giniImpurity(counts []float64, total float64) float64 {
	if total <= 0 {
		return 0
	}
	sum := 0.0
	for _, c := range counts {
		if c <= 0 {
			continue
		}
		p := c / total
		sum += p * p
	}
	return 1 - sum
}

func entropyImpurity(counts []float64, total float64) float64 {
	if total <= 0 {
		return 0
	}
	h := 0.0
	for _, c := range counts {
		if c <= 0 {
			continue
		}
		p := c / total
		h -= p * math.Log2(p)
	}
	return h
}

func isPure(counts []float64) bool {
	nonzero := 0
	for _, c := range counts {
		if c > 0 {
			nonzero++
		}
	}
	return nonzero <= 1
}

func normalize(counts []float64, total float64) []float64 {
	out := make([]float64, len(counts))
	if total <= 0 {
		return out
	}
	for i, c := range counts {
		out[i] = c / total
	}
	return out
}

func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

// ---------------------------
// Prediction helper
// ---------------------------

func (t *DecisionTreeClassifier) predictProbaSingle(x []float64) []float64 {
	if len(t.Nodes) == 0 {
		k := max(t.NClasses, 1)
		p := make([]float64, k)
		for i := range p {
			p[i] = 1.0 / float64(k)
		}
		return p
	}
	i := 0
	for t.Nodes[i].Feature >= 0 {
		n := &t.Nodes[i]
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return t.Nodes[i].Value
}
