package model

import "errors"

// ErrInvalidParam is returned for a hyperparameter that is unknown or out of
// range for the classifier.
var ErrInvalidParam = errors.New("model: invalid hyperparameter")

// Classifier is a supervised binary classifier over dense rows.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) []int
	// PredictProba returns one probability per class for each row.
	PredictProba(X [][]float64) [][]float64
}

var (
	_ Classifier = (*DecisionTreeClassifier)(nil)
	_ Classifier = (*RandomForest)(nil)
)
