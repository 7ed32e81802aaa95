// Package evaluate scores a fitted pipeline on held-out rows and writes the
// metrics summary and diagnostic curves.
package evaluate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/data"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/model"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/pipeline"
)

// Output file names written by WriteReport.
const (
	MetricsFile = "metrics.json"
	ROCPlotFile = "roc_curve.png"
	PRPlotFile  = "pr_curve.png"
)

// Metrics is the persisted summary.
type Metrics struct {
	ROCAUC               float64                       `json:"roc_auc"`
	AveragePrecision     float64                       `json:"average_precision"`
	Accuracy             float64                       `json:"accuracy"`
	LogLoss              float64                       `json:"log_loss"`
	ClassificationReport map[string]model.ClassMetrics `json:"classification_report"`
	ConfusionMatrix      [][]int                       `json:"confusion_matrix"`
	Rows                 int                           `json:"rows"`
}

// Report is the full outcome of Evaluate: the metrics plus the curves behind
// the plots.
type Report struct {
	Metrics Metrics
	ROC     model.Curve
	PR      model.Curve
	Scores  []float64
	Labels  []int
}

// Evaluate scores p on X and compares against y. p is only read.
func Evaluate(p *pipeline.Pipeline, X *data.Frame, y []int) (*Report, error) {
	if X.Len() != len(y) {
		return nil, fmt.Errorf("%w: X has %d rows but y has %d", data.ErrDataIntegrity, X.Len(), len(y))
	}
	proba, err := p.PredictProba(X)
	if err != nil {
		return nil, err
	}
	labels, err := p.Predict(X)
	if err != nil {
		return nil, err
	}
	scores := model.PositiveScores(proba)

	roc, err := model.ROCCurve(y, scores)
	if err != nil {
		return nil, fmt.Errorf("roc: %w", err)
	}
	auc, err := model.ROCAUC(y, scores)
	if err != nil {
		return nil, err
	}
	pr, err := model.PrecisionRecallCurve(y, scores)
	if err != nil {
		return nil, fmt.Errorf("precision-recall: %w", err)
	}
	ap, err := model.AveragePrecision(y, scores)
	if err != nil {
		return nil, err
	}

	return &Report{
		Metrics: Metrics{
			ROCAUC:               auc,
			AveragePrecision:     ap,
			Accuracy:             model.Accuracy(y, labels),
			LogLoss:              model.LogLoss(y, scores),
			ClassificationReport: model.ClassificationReport(y, labels),
			ConfusionMatrix:      model.ConfusionMatrix(y, labels),
			Rows:                 len(y),
		},
		ROC:    roc,
		PR:     pr,
		Scores: scores,
		Labels: labels,
	}, nil
}

// WriteReport writes metrics.json, roc_curve.png and pr_curve.png to dir and
// returns their paths.
func WriteReport(dir string, r *Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	metricsPath := filepath.Join(dir, MetricsFile)
	b, err := json.MarshalIndent(r.Metrics, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(metricsPath, append(b, '\n'), 0o644); err != nil {
		return nil, err
	}

	rocPath := filepath.Join(dir, ROCPlotFile)
	if err := plotROC(rocPath, r.ROC, r.Metrics.ROCAUC); err != nil {
		return nil, fmt.Errorf("roc plot: %w", err)
	}
	prPath := filepath.Join(dir, PRPlotFile)
	if err := plotPR(prPath, r.PR, r.Metrics.AveragePrecision); err != nil {
		return nil, fmt.Errorf("precision-recall plot: %w", err)
	}
	return []string{metricsPath, rocPath, prPath}, nil
}
