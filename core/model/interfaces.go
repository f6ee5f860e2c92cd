// Package model provides the shared estimator interfaces and base types that
// every candidate regressor in this module implements.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter is the interface for estimators that learn from data.
type Fitter interface {
	// Fit trains the estimator on X (n_samples × n_features) and
	// y (n_samples × 1).
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for estimators that produce predictions.
type Predictor interface {
	// Predict returns an n_samples × 1 matrix of predictions.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Regressor is the capability the model package stores: a fitted estimator
// that maps feature rows to real-valued targets. The inference engine never
// needs to know which concrete algorithm it holds.
type Regressor interface {
	Fitter
	Predictor

	// Name returns the human-readable algorithm name used in evaluation
	// reports and in the persisted package.
	Name() string
}

// Transformer is the interface for preprocessing steps fitted on training
// data and replayed at inference time.
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
}
