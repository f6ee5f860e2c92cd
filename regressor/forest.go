package regressor

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/socialpulse/addictml/core/model"
	"github.com/socialpulse/addictml/core/parallel"
	"github.com/socialpulse/addictml/pkg/errors"
)

// RandomForestRegressor averages bootstrap-bagged CART trees.
//
// Bootstrap index sets and per-tree seeds are drawn sequentially from one
// seeded source before any fitting starts, so results are identical whether
// the trees are then grown in parallel or not.
type RandomForestRegressor struct {
	model.BaseEstimator

	NEstimators int
	MaxDepth    int
	// MaxFeatures limits features per split; <= 0 examines all features,
	// matching sklearn's regression default.
	MaxFeatures int
	RandomState uint64

	Trees     []*DecisionTreeRegressor
	NFeatures int
}

// NewRandomForestRegressor creates a forest with the pipeline's fixed
// hyperparameters (100 trees, seed 42).
func NewRandomForestRegressor() *RandomForestRegressor {
	return &RandomForestRegressor{
		NEstimators: 100,
		MaxDepth:    -1,
		RandomState: 42,
	}
}

// Name はアルゴリズム名を返す
func (rf *RandomForestRegressor) Name() string { return "Random Forest" }

// Fit grows NEstimators trees on bootstrap samples of (X, y).
func (rf *RandomForestRegressor) Fit(X, y mat.Matrix) error {
	r, c, err := checkFit("RandomForestRegressor.Fit", X, y)
	if err != nil {
		return err
	}
	targets, err := targetsOf("RandomForestRegressor.Fit", y, r)
	if err != nil {
		return err
	}
	if rf.NEstimators <= 0 {
		return errors.NewValueError("RandomForestRegressor.Fit", "NEstimators must be positive")
	}

	rows := rowsOf(X)
	rng := rand.New(rand.NewPCG(rf.RandomState, rf.RandomState))

	// Draw all randomness up front to keep the parallel fit deterministic.
	bootstraps := make([][]int, rf.NEstimators)
	seeds := make([]uint64, rf.NEstimators)
	for t := 0; t < rf.NEstimators; t++ {
		sample := make([]int, r)
		for i := range sample {
			sample[i] = rng.IntN(r)
		}
		bootstraps[t] = sample
		seeds[t] = rng.Uint64()
	}

	// Each worker writes only its own slots, so no locking is needed.
	trees := make([]*DecisionTreeRegressor, rf.NEstimators)
	errs := make([]error, rf.NEstimators)

	parallel.Parallelize(rf.NEstimators, func(start, end int) {
		for t := start; t < end; t++ {
			tree := NewDecisionTreeRegressor()
			tree.MaxDepth = rf.MaxDepth
			tree.MaxFeatures = rf.MaxFeatures
			tree.SetRand(rand.New(rand.NewPCG(seeds[t], seeds[t])))

			if err := tree.FitRows(rows, targets, bootstraps[t]); err != nil {
				errs[t] = err
				continue
			}
			trees[t] = tree
		}
	})

	for _, err := range errs {
		if err != nil {
			return errors.Wrap(err, "RandomForestRegressor.Fit")
		}
	}

	rf.Trees = trees
	rf.NFeatures = c
	rf.SetFitted()
	return nil
}

// Predict returns the mean prediction over all trees.
func (rf *RandomForestRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !rf.IsFitted() {
		return nil, errors.NewNotFittedError("RandomForestRegressor", "Predict")
	}

	_, c := X.Dims()
	if c != rf.NFeatures {
		return nil, errors.NewDimensionError("RandomForestRegressor.Predict", rf.NFeatures, c, 1)
	}

	return predictionColumn(X, func(row []float64) float64 {
		var sum float64
		for _, tree := range rf.Trees {
			sum += tree.PredictRow(row)
		}
		return sum / float64(len(rf.Trees))
	}), nil
}
