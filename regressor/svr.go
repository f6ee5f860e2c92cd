package regressor

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/socialpulse/addictml/core/model"
	"github.com/socialpulse/addictml/pkg/errors"
)

// SVR is an RBF-kernel support vector regressor with epsilon-insensitive
// loss. The dual coefficients are trained by deterministic subgradient
// descent on the regularized empirical risk
//
//	J(beta, b) = lambda/2 * |beta|^2 + 1/n * sum_i max(0, |f(x_i)-y_i| - eps)
//
// with lambda = 1/(C*n), rather than by SMO as libsvm does; for this
// pipeline's data sizes the two land on comparable fits and the descent
// needs no working-set heuristics. SVR is scale-sensitive and must be fed
// standardized features.
type SVR struct {
	model.BaseEstimator

	C       float64
	Epsilon float64
	// Gamma is the RBF width; <= 0 selects "scale": 1/(n_features * Var(X)).
	Gamma float64

	LearningRate float64
	Epochs       int

	XTrain     [][]float64
	Beta       []float64
	B          float64
	GammaValue float64
}

// NewSVR creates a regressor with the pipeline's fixed hyperparameters
// (C=1.0, rbf kernel, gamma=scale).
func NewSVR() *SVR {
	return &SVR{
		C:            1.0,
		Epsilon:      0.1,
		Gamma:        0, // scale
		LearningRate: 0.1,
		Epochs:       1000,
	}
}

// Name はアルゴリズム名を返す
func (s *SVR) Name() string { return "SVM" }

// Fit trains the dual coefficients on (X, y).
func (s *SVR) Fit(X, y mat.Matrix) error {
	r, c, err := checkFit("SVR.Fit", X, y)
	if err != nil {
		return err
	}
	targets, err := targetsOf("SVR.Fit", y, r)
	if err != nil {
		return err
	}

	rows := rowsOf(X)
	s.XTrain = rows
	s.GammaValue = s.resolveGamma(rows, c)

	// Precompute the kernel matrix; n is small for this pipeline.
	K := make([][]float64, r)
	for i := range K {
		K[i] = make([]float64, r)
		for j := 0; j <= i; j++ {
			v := rbf(rows[i], rows[j], s.GammaValue)
			K[i][j] = v
			K[j][i] = v
		}
	}

	n := float64(r)
	lambda := 1.0 / (s.C * n)

	beta := make([]float64, r)
	b := meanOf(targets)

	f := make([]float64, r)
	grad := make([]float64, r)
	for epoch := 0; epoch < s.Epochs; epoch++ {
		// f = K*beta + b
		for i := 0; i < r; i++ {
			sum := b
			for j := 0; j < r; j++ {
				sum += K[i][j] * beta[j]
			}
			f[i] = sum
		}

		// Subgradient of the epsilon-insensitive loss per sample.
		var gSum float64
		for i := 0; i < r; i++ {
			res := f[i] - targets[i]
			switch {
			case res > s.Epsilon:
				grad[i] = 1
			case res < -s.Epsilon:
				grad[i] = -1
			default:
				grad[i] = 0
			}
			gSum += grad[i]
		}

		for i := 0; i < r; i++ {
			beta[i] -= s.LearningRate * (lambda*beta[i] + grad[i]/n)
		}
		b -= s.LearningRate * gSum / n
	}

	s.Beta = beta
	s.B = b
	s.SetFitted()
	return nil
}

// Predict evaluates f(x) = sum_i beta_i K(x_i, x) + b for each row.
func (s *SVR) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("SVR", "Predict")
	}

	_, c := X.Dims()
	if c != len(s.XTrain[0]) {
		return nil, errors.NewDimensionError("SVR.Predict", len(s.XTrain[0]), c, 1)
	}

	return predictionColumn(X, func(row []float64) float64 {
		sum := s.B
		for i, train := range s.XTrain {
			if s.Beta[i] == 0 {
				continue
			}
			sum += s.Beta[i] * rbf(train, row, s.GammaValue)
		}
		return sum
	}), nil
}

// resolveGamma implements sklearn's gamma="scale": 1/(n_features * Var(X))
// over all matrix entries, falling back to 1/n_features on zero variance.
func (s *SVR) resolveGamma(rows [][]float64, nFeatures int) float64 {
	if s.Gamma > 0 {
		return s.Gamma
	}

	var sum, sumSq, count float64
	for _, row := range rows {
		for _, v := range row {
			sum += v
			sumSq += v * v
			count++
		}
	}
	mean := sum / count
	variance := sumSq/count - mean*mean
	if variance <= 1e-12 {
		return 1.0 / float64(nFeatures)
	}
	return 1.0 / (float64(nFeatures) * variance)
}

func rbf(a, b []float64, gamma float64) float64 {
	var d float64
	for i := range a {
		diff := a[i] - b[i]
		d += diff * diff
	}
	return math.Exp(-gamma * d)
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
