package loader

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"path/filepath"
	"slices"
	"sort"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/data"
)

// Partition file names written by Partitions.Write.
const (
	TrainFile = "train.csv"
	ValFile   = "val.csv"
	TestFile  = "test.csv"
)

// ErrInvalidFraction is returned for split fractions outside (0, 1).
var ErrInvalidFraction = errors.New("loader: invalid split fraction")

// Partitions holds the three disjoint parts of a dataset. Every frame keeps
// the full column set, target included.
type Partitions struct {
	Train *data.Frame
	Val   *data.Frame
	Test  *data.Frame
}

// Split performs two sequential stratified splits of f on the target column:
// first testFraction+valFraction of the rows are held out, then the held-out
// rows are divided so that valFraction and testFraction of the original rows
// land in validation and test. Both splits use seed.
func Split(f *data.Frame, target string, testFraction, valFraction float64, seed int64) (*Partitions, error) {
	if testFraction <= 0 || valFraction <= 0 || testFraction+valFraction >= 1 {
		return nil, fmt.Errorf("%w: test=%v val=%v", ErrInvalidFraction, testFraction, valFraction)
	}
	_, y, err := f.SplitTarget(target)
	if err != nil {
		return nil, err
	}

	held := testFraction + valFraction
	trainIdx, heldIdx, err := StratifiedSplit(y, held, seed)
	if err != nil {
		return nil, fmt.Errorf("holdout split: %w", err)
	}

	heldY := make([]int, len(heldIdx))
	for i, r := range heldIdx {
		heldY[i] = y[r]
	}
	valPos, testPos, err := StratifiedSplit(heldY, testFraction/held, seed)
	if err != nil {
		return nil, fmt.Errorf("validation/test split: %w", err)
	}

	return &Partitions{
		Train: f.Select(trainIdx),
		Val:   f.Select(gather(heldIdx, valPos)),
		Test:  f.Select(gather(heldIdx, testPos)),
	}, nil
}

// Write stores the partitions as train.csv, val.csv and test.csv under dir
// and returns the written paths in that order.
func (p *Partitions) Write(dir string) ([]string, error) {
	parts := []struct {
		name  string
		frame *data.Frame
	}{
		{TrainFile, p.Train},
		{ValFile, p.Val},
		{TestFile, p.Test},
	}
	paths := make([]string, 0, len(parts))
	for _, part := range parts {
		path := filepath.Join(dir, part.name)
		if err := data.WriteCSV(path, part.frame); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// StratifiedSplit returns shuffled train and test row indices such that each
// class contributes to the test side in proportion to its size. The test side
// holds ceil(testFraction * len(y)) rows.
func StratifiedSplit(y []int, testFraction float64, seed int64) (train, test []int, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidFraction, testFraction)
	}
	if len(y) == 0 {
		return nil, nil, fmt.Errorf("%w: no rows to split", data.ErrDataIntegrity)
	}
	classes, members := groupByClass(y)
	for _, c := range classes {
		if len(members[c]) < 2 {
			return nil, nil, fmt.Errorf("%w: the least populated class %d has only %d member(s), too few to stratify",
				data.ErrDataIntegrity, c, len(members[c]))
		}
	}

	n := len(y)
	nTest := int(math.Ceil(testFraction*float64(n) - 1e-9))
	nTrain := n - nTest
	if nTest < len(classes) || nTrain < len(classes) {
		return nil, nil, fmt.Errorf("%w: train size %d and test size %d must each be at least the number of classes %d",
			data.ErrDataIntegrity, nTrain, nTest, len(classes))
	}

	counts := make([]int, len(classes))
	for k, c := range classes {
		counts[k] = len(members[c])
	}
	alloc := allocate(counts, nTest)

	rng := rand.New(rand.NewSource(seed))
	train = make([]int, 0, nTrain)
	test = make([]int, 0, nTest)
	for k, c := range classes {
		idx := slices.Clone(members[c])
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		test = append(test, idx[:alloc[k]]...)
		train = append(train, idx[alloc[k]:]...)
	}
	rng.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })
	rng.Shuffle(len(test), func(i, j int) { test[i], test[j] = test[j], test[i] })
	return train, test, nil
}

// Fold is one cross-validation round: fit on Train, score on Test.
type Fold struct {
	Train []int
	Test  []int
}

// StratifiedKFold shuffles each class with seed and deals its rows round-robin
// across k folds, so every fold keeps roughly the overall class proportions.
// Indices within a fold are ascending.
func StratifiedKFold(y []int, k int, seed int64) ([]Fold, error) {
	if k < 2 {
		return nil, fmt.Errorf("loader: k-fold needs at least 2 folds, got %d", k)
	}
	classes, members := groupByClass(y)
	for _, c := range classes {
		if len(members[c]) < k {
			return nil, fmt.Errorf("%w: %d folds cannot be greater than the number of members in class %d (%d)",
				data.ErrDataIntegrity, k, c, len(members[c]))
		}
	}

	rng := rand.New(rand.NewSource(seed))
	assign := make([]int, len(y))
	offset := 0
	for _, c := range classes {
		idx := slices.Clone(members[c])
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		for j, r := range idx {
			assign[r] = (offset + j) % k
		}
		offset += len(idx)
	}

	folds := make([]Fold, k)
	for r, f := range assign {
		for i := range folds {
			if i == f {
				folds[i].Test = append(folds[i].Test, r)
			} else {
				folds[i].Train = append(folds[i].Train, r)
			}
		}
	}
	return folds, nil
}

// groupByClass returns the sorted distinct labels and the row indices of each.
func groupByClass(y []int) ([]int, map[int][]int) {
	members := make(map[int][]int)
	for i, label := range y {
		members[label] = append(members[label], i)
	}
	classes := make([]int, 0, len(members))
	for c := range members {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	return classes, members
}

// allocate distributes total draws across classes proportionally to counts
// using largest remainders; ties go to the earlier class.
func allocate(counts []int, total int) []int {
	n := 0
	for _, c := range counts {
		n += c
	}
	alloc := make([]int, len(counts))
	rem := make([]float64, len(counts))
	assigned := 0
	for k, c := range counts {
		exact := float64(c) * float64(total) / float64(n)
		alloc[k] = int(math.Floor(exact))
		rem[k] = exact - float64(alloc[k])
		assigned += alloc[k]
	}

	order := make([]int, len(counts))
	for k := range order {
		order[k] = k
	}
	sort.SliceStable(order, func(a, b int) bool { return rem[order[a]] > rem[order[b]] })
	for i := 0; assigned < total; i++ {
		k := order[i%len(order)]
		if alloc[k] < counts[k] {
			alloc[k]++
			assigned++
		}
	}
	return alloc
}

func gather(idx, pos []int) []int {
	out := make([]int, len(pos))
	for i, p := range pos {
		out[i] = idx[p]
	}
	return out
}
