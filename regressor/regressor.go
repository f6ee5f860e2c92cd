// Package regressor implements the five candidate regression algorithms the
// trainer evaluates: linear regression, random forest, k-nearest neighbors,
// RBF-kernel support vector regression, and gradient boosting.
//
// Every estimator implements model.Regressor, embeds model.BaseEstimator, and
// keeps its learned state in exported plain-slice fields so a fitted model
// round-trips through gob inside a model package.
package regressor

import (
	"gonum.org/v1/gonum/mat"

	"github.com/socialpulse/addictml/pkg/errors"
)

// rowsOf copies a matrix into a slice of rows. Estimators snapshot training
// data with this so a fitted model never aliases caller-owned memory.
func rowsOf(X mat.Matrix) [][]float64 {
	r, c := X.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		row := make([]float64, c)
		for j := 0; j < c; j++ {
			row[j] = X.At(i, j)
		}
		rows[i] = row
	}
	return rows
}

// targetsOf validates that y is an n×1 column and copies it into a slice.
func targetsOf(op string, y mat.Matrix, wantRows int) ([]float64, error) {
	ry, cy := y.Dims()
	if cy != 1 {
		return nil, errors.NewValueError(op, "y must be a column vector")
	}
	if ry != wantRows {
		return nil, errors.NewDimensionError(op, wantRows, ry, 0)
	}

	targets := make([]float64, ry)
	for i := 0; i < ry; i++ {
		targets[i] = y.At(i, 0)
	}
	return targets, nil
}

// checkFit validates the common Fit preconditions and returns the dimensions.
func checkFit(op string, X, y mat.Matrix) (r, c int, err error) {
	r, c = X.Dims()
	if r == 0 || c == 0 {
		return 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	ry, _ := y.Dims()
	if ry != r {
		return 0, 0, errors.NewDimensionError(op, r, ry, 0)
	}
	return r, c, nil
}

// predictionColumn runs a per-row prediction function over X and assembles
// the n×1 result matrix.
func predictionColumn(X mat.Matrix, predictRow func(row []float64) float64) *mat.Dense {
	r, c := X.Dims()
	out := mat.NewDense(r, 1, nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			row[j] = X.At(i, j)
		}
		out.Set(i, 0, predictRow(row))
	}
	return out
}
