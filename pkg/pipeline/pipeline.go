package pipeline

import (
	"errors"
	"fmt"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/data"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/dataprep"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/model"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/stats"
)

// ErrNotFitted is returned when predicting with a pipeline that was never fitted.
var ErrNotFitted = errors.New("pipeline: not fitted")

// Stage is a fit/transform step that runs ahead of the classifier.
type Stage interface {
	Fit(f *data.Frame, y []int) error
	Transform(f *data.Frame) (*data.Frame, error)
}

var (
	_ Stage = (*dataprep.FeatureCreator)(nil)
	_ Stage = (*stats.StandardScaler)(nil)
)

// Pipeline is the fixed composition feature creation -> standardization ->
// random forest. Fields are exported so a fitted pipeline can be persisted
// as a whole.
type Pipeline struct {
	Schema     Schema
	Features   *dataprep.FeatureCreator
	Scaler     *stats.StandardScaler
	Classifier *model.RandomForest
	Fitted     bool
}

// Build assembles an unfitted pipeline around features. The classifier uses
// balanced class weights; opts override its other settings.
func Build(features *dataprep.FeatureCreator, opts ...model.RandomForestOption) *Pipeline {
	opts = append([]model.RandomForestOption{model.WithClassWeight(model.ClassWeightBalanced)}, opts...)
	return &Pipeline{
		Schema:     DefaultSchema(),
		Features:   features,
		Scaler:     stats.NewStandardScaler(),
		Classifier: model.NewRandomForest(opts...),
	}
}

// Stages returns the transform stages in execution order.
func (p *Pipeline) Stages() []Stage {
	return []Stage{p.Features, p.Scaler}
}

// Fit fits every stage in order on X and y only; no statistic is taken from
// any other data.
func (p *Pipeline) Fit(X *data.Frame, y []int) error {
	if err := p.Schema.CheckColumns(X.Columns); err != nil {
		return err
	}
	if X.Len() != len(y) {
		return fmt.Errorf("%w: %d rows but %d labels", data.ErrDataIntegrity, X.Len(), len(y))
	}

	p.Fitted = false
	cur := X
	for i, st := range p.Stages() {
		if err := st.Fit(cur, y); err != nil {
			return fmt.Errorf("pipeline: fit stage %d: %w", i, err)
		}
		next, err := st.Transform(cur)
		if err != nil {
			return fmt.Errorf("pipeline: transform stage %d: %w", i, err)
		}
		cur = next
	}
	if err := p.Classifier.Fit(cur.Rows, y); err != nil {
		return fmt.Errorf("pipeline: fit classifier: %w", err)
	}
	p.Fitted = true
	return nil
}

// Transform runs X through the fitted stages without the classifier.
func (p *Pipeline) Transform(X *data.Frame) (*data.Frame, error) {
	if !p.Fitted {
		return nil, ErrNotFitted
	}
	if err := p.Schema.CheckColumns(X.Columns); err != nil {
		return nil, err
	}
	cur := X
	for _, st := range p.Stages() {
		next, err := st.Transform(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// PredictProba returns [P(class 0), P(class 1)] for each row of X.
func (p *Pipeline) PredictProba(X *data.Frame) ([][]float64, error) {
	Xt, err := p.Transform(X)
	if err != nil {
		return nil, err
	}
	return p.Classifier.PredictProba(Xt.Rows), nil
}

// Predict returns the hard label for each row of X.
func (p *Pipeline) Predict(X *data.Frame) ([]int, error) {
	Xt, err := p.Transform(X)
	if err != nil {
		return nil, err
	}
	return p.Classifier.Predict(Xt.Rows), nil
}

// PredictVector scores one feature vector given in schema order.
func (p *Pipeline) PredictVector(v []float64) (label int, probability float64, err error) {
	if err := p.Schema.CheckVector(v); err != nil {
		return 0, 0, err
	}
	X := &data.Frame{Columns: p.Schema.FeatureNames, Rows: [][]float64{v}}
	proba, err := p.PredictProba(X)
	if err != nil {
		return 0, 0, err
	}
	label = 0
	if proba[0][1] > proba[0][0] {
		label = 1
	}
	return label, proba[0][1], nil
}

// Clone returns an unfitted pipeline with the same configuration.
func (p *Pipeline) Clone() *Pipeline {
	features := *p.Features
	return &Pipeline{
		Schema: Schema{
			Version:      p.Schema.Version,
			FeatureNames: append([]string(nil), p.Schema.FeatureNames...),
			Target:       p.Schema.Target,
		},
		Features:   &features,
		Scaler:     stats.NewStandardScaler(),
		Classifier: p.Classifier.Clone(),
	}
}

// SetParams forwards hyperparameters to the classifier.
func (p *Pipeline) SetParams(params map[string]int) error {
	return p.Classifier.SetParams(params)
}

// SetSeed sets the classifier's random state.
func (p *Pipeline) SetSeed(seed int64) {
	p.Classifier.RandomState = seed
}
