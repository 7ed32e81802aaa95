package model

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// ErrSingleClass is returned when a ranking metric is asked for labels that
// contain only one class.
var ErrSingleClass = errors.New("model: only one class present in y_true")

// Curve is a sequence of (X, Y) points with the score threshold that
// produced each one.
type Curve struct {
	X          []float64
	Y          []float64
	Thresholds []float64
}

func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// LogLoss is the mean binary cross-entropy of positive-class scores,
// clipped away from 0 and 1.
func LogLoss(yTrue []int, scores []float64) float64 {
	n := len(yTrue)
	if n == 0 {
		return 0
	}
	s := 0.0
	for i := range n {
		p := math.Min(math.Max(scores[i], 1e-15), 1-1e-15)
		if yTrue[i] == 1 {
			s -= math.Log(p)
		} else {
			s -= math.Log(1 - p)
		}
	}
	return s / float64(n)
}

func BinaryPredFromProba(proba []float64, threshold float64) []int {
	out := make([]int, len(proba))
	for i, p := range proba {
		if p >= threshold {
			out[i] = 1
		}
	}
	return out
}

// PositiveScores extracts the class-1 column of a PredictProba result.
func PositiveScores(proba [][]float64) []float64 {
	out := make([]float64, len(proba))
	for i, p := range proba {
		if len(p) > 1 {
			out[i] = p[1]
		}
	}
	return out
}

// ROCCurve returns false positive rate (X) against true positive rate (Y),
// ordered by increasing false positive rate.
func ROCCurve(yTrue []int, scores []float64) (Curve, error) {
	if err := checkBinary(yTrue, scores); err != nil {
		return Curve{}, err
	}
	y := append([]float64(nil), scores...)
	classes := make([]bool, len(yTrue))
	for i, lab := range yTrue {
		classes[i] = lab == 1
	}
	stat.SortWeightedLabeled(y, classes, nil)
	tpr, fpr, thresh := stat.ROC(nil, y, classes, nil)
	return Curve{X: fpr, Y: tpr, Thresholds: thresh}, nil
}

// ROCAUC is the area under the ROC curve by the trapezoidal rule.
func ROCAUC(yTrue []int, scores []float64) (float64, error) {
	c, err := ROCCurve(yTrue, scores)
	if err != nil {
		return 0, err
	}
	return integrate.Trapezoidal(c.X, c.Y), nil
}

// PrecisionRecallCurve returns recall (X) against precision (Y), one point
// per distinct score taken as a ">= threshold" cutoff, ordered by increasing
// recall and starting at (0, 1).
func PrecisionRecallCurve(yTrue []int, scores []float64) (Curve, error) {
	if err := checkBinary(yTrue, scores); err != nil {
		return Curve{}, err
	}
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	positives := 0
	for _, lab := range yTrue {
		positives += lab
	}

	c := Curve{X: []float64{0}, Y: []float64{1}, Thresholds: []float64{scores[order[0]]}}
	tp, fp := 0, 0
	for k, i := range order {
		if yTrue[i] == 1 {
			tp++
		} else {
			fp++
		}
		if k+1 < len(order) && scores[order[k+1]] == scores[i] {
			continue
		}
		c.X = append(c.X, float64(tp)/float64(positives))
		c.Y = append(c.Y, float64(tp)/float64(tp+fp))
		c.Thresholds = append(c.Thresholds, scores[i])
	}
	return c, nil
}

// AveragePrecision summarizes the precision-recall curve as the mean of
// precisions weighted by the increase in recall at each threshold.
func AveragePrecision(yTrue []int, scores []float64) (float64, error) {
	c, err := PrecisionRecallCurve(yTrue, scores)
	if err != nil {
		return 0, err
	}
	ap := 0.0
	for i := 1; i < len(c.X); i++ {
		ap += (c.X[i] - c.X[i-1]) * c.Y[i]
	}
	return ap, nil
}

// ConfusionMatrix returns counts indexed [true][predicted] for classes 0 and 1:
// [[tn, fp], [fn, tp]].
func ConfusionMatrix(yTrue, yPred []int) [][]int {
	m := [][]int{{0, 0}, {0, 0}}
	for i := range yTrue {
		m[yTrue[i]][yPred[i]]++
	}
	return m
}

// ClassMetrics is one row of a classification report.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1-score"`
	Support   int     `json:"support"`
}

// ClassificationReport returns per-class precision, recall and F1 keyed by
// "0" and "1", plus "macro avg" and "weighted avg". Undefined ratios are 0.
func ClassificationReport(yTrue, yPred []int) map[string]ClassMetrics {
	cm := ConfusionMatrix(yTrue, yPred)
	report := make(map[string]ClassMetrics, 4)

	var macro, weighted ClassMetrics
	total := len(yTrue)
	for c := 0; c < 2; c++ {
		tp := cm[c][c]
		predicted := cm[0][c] + cm[1][c]
		support := cm[c][0] + cm[c][1]

		m := ClassMetrics{Support: support}
		if predicted > 0 {
			m.Precision = float64(tp) / float64(predicted)
		}
		if support > 0 {
			m.Recall = float64(tp) / float64(support)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		report[strconv.Itoa(c)] = m

		macro.Precision += m.Precision / 2
		macro.Recall += m.Recall / 2
		macro.F1 += m.F1 / 2
		if total > 0 {
			share := float64(support) / float64(total)
			weighted.Precision += m.Precision * share
			weighted.Recall += m.Recall * share
			weighted.F1 += m.F1 * share
		}
	}
	macro.Support = total
	weighted.Support = total
	report["macro avg"] = macro
	report["weighted avg"] = weighted
	return report
}

func checkBinary(yTrue []int, scores []float64) error {
	if len(yTrue) != len(scores) {
		return fmt.Errorf("model: %d labels but %d scores", len(yTrue), len(scores))
	}
	pos, neg := 0, 0
	for _, lab := range yTrue {
		switch lab {
		case 0:
			neg++
		case 1:
			pos++
		default:
			return fmt.Errorf("model: label %d is not 0 or 1", lab)
		}
	}
	if pos == 0 || neg == 0 {
		return ErrSingleClass
	}
	return nil
}
