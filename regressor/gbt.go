package regressor

import (
	"gonum.org/v1/gonum/mat"

	"github.com/socialpulse/addictml/core/model"
	"github.com/socialpulse/addictml/pkg/errors"
)

// GradientBoostingRegressor boosts shallow CART trees on squared loss: each
// stage fits a depth-limited tree to the current residuals and its shrunken
// prediction is added to the ensemble.
type GradientBoostingRegressor struct {
	model.BaseEstimator

	NEstimators  int
	LearningRate float64
	MaxDepth     int
	RandomState  uint64

	InitValue float64
	Trees     []*DecisionTreeRegressor
	NFeatures int
}

// NewGradientBoostingRegressor creates a regressor with the pipeline's fixed
// hyperparameters (100 stages, learning rate 0.1, depth 3, seed 42).
func NewGradientBoostingRegressor() *GradientBoostingRegressor {
	return &GradientBoostingRegressor{
		NEstimators:  100,
		LearningRate: 0.1,
		MaxDepth:     3,
		RandomState:  42,
	}
}

// Name はアルゴリズム名を返す
func (gb *GradientBoostingRegressor) Name() string { return "Gradient Boosting" }

// Fit runs the boosting stages. With squared loss the negative gradient is
// the plain residual, so every stage is a tree fit to y minus the running
// prediction.
func (gb *GradientBoostingRegressor) Fit(X, y mat.Matrix) error {
	r, c, err := checkFit("GradientBoostingRegressor.Fit", X, y)
	if err != nil {
		return err
	}
	targets, err := targetsOf("GradientBoostingRegressor.Fit", y, r)
	if err != nil {
		return err
	}
	if gb.NEstimators <= 0 {
		return errors.NewValueError("GradientBoostingRegressor.Fit", "NEstimators must be positive")
	}

	rows := rowsOf(X)
	indices := make([]int, r)
	for i := range indices {
		indices[i] = i
	}

	gb.InitValue = meanOf(targets)

	current := make([]float64, r)
	for i := range current {
		current[i] = gb.InitValue
	}

	residuals := make([]float64, r)
	trees := make([]*DecisionTreeRegressor, 0, gb.NEstimators)
	for stage := 0; stage < gb.NEstimators; stage++ {
		for i := range residuals {
			residuals[i] = targets[i] - current[i]
		}

		tree := NewDecisionTreeRegressor()
		tree.MaxDepth = gb.MaxDepth
		if err := tree.FitRows(rows, residuals, indices); err != nil {
			return errors.Wrapf(err, "GradientBoostingRegressor.Fit: stage %d", stage)
		}
		trees = append(trees, tree)

		for i, row := range rows {
			current[i] += gb.LearningRate * tree.PredictRow(row)
		}
	}

	gb.Trees = trees
	gb.NFeatures = c
	gb.SetFitted()
	return nil
}

// Predict sums the init value and every stage's shrunken contribution.
func (gb *GradientBoostingRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !gb.IsFitted() {
		return nil, errors.NewNotFittedError("GradientBoostingRegressor", "Predict")
	}

	_, c := X.Dims()
	if c != gb.NFeatures {
		return nil, errors.NewDimensionError("GradientBoostingRegressor.Predict", gb.NFeatures, c, 1)
	}

	return predictionColumn(X, func(row []float64) float64 {
		sum := gb.InitValue
		for _, tree := range gb.Trees {
			sum += gb.LearningRate * tree.PredictRow(row)
		}
		return sum
	}), nil
}
