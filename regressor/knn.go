package regressor

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/socialpulse/addictml/core/model"
	"github.com/socialpulse/addictml/pkg/errors"
)

// KNNRegressor predicts the mean target of the k nearest training samples by
// Euclidean distance. It is scale-sensitive and must be fed standardized
// features, both at training and at inference.
type KNNRegressor struct {
	model.BaseEstimator

	K int

	XTrain [][]float64
	YTrain []float64
}

// NewKNNRegressor creates a regressor with the pipeline's fixed k=5.
func NewKNNRegressor() *KNNRegressor {
	return &KNNRegressor{K: 5}
}

// Name はアルゴリズム名を返す
func (knn *KNNRegressor) Name() string { return "KNN" }

// Fit memorizes the training set.
func (knn *KNNRegressor) Fit(X, y mat.Matrix) error {
	r, _, err := checkFit("KNNRegressor.Fit", X, y)
	if err != nil {
		return err
	}
	targets, err := targetsOf("KNNRegressor.Fit", y, r)
	if err != nil {
		return err
	}
	if knn.K <= 0 {
		return errors.NewValueError("KNNRegressor.Fit", "K must be positive")
	}

	knn.XTrain = rowsOf(X)
	knn.YTrain = targets
	knn.SetFitted()
	return nil
}

// Predict averages the targets of each row's k nearest neighbors. Distance
// ties resolve to the lower training index, keeping predictions deterministic.
func (knn *KNNRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !knn.IsFitted() {
		return nil, errors.NewNotFittedError("KNNRegressor", "Predict")
	}

	_, c := X.Dims()
	if c != len(knn.XTrain[0]) {
		return nil, errors.NewDimensionError("KNNRegressor.Predict", len(knn.XTrain[0]), c, 1)
	}

	k := knn.K
	if k > len(knn.XTrain) {
		k = len(knn.XTrain)
	}

	return predictionColumn(X, func(row []float64) float64 {
		type neighbor struct {
			index int
			dist  float64
		}
		neighbors := make([]neighbor, len(knn.XTrain))
		for i, train := range knn.XTrain {
			var d float64
			for j := range train {
				diff := row[j] - train[j]
				d += diff * diff
			}
			neighbors[i] = neighbor{index: i, dist: d}
		}
		sort.Slice(neighbors, func(a, b int) bool {
			if neighbors[a].dist != neighbors[b].dist {
				return neighbors[a].dist < neighbors[b].dist
			}
			return neighbors[a].index < neighbors[b].index
		})

		var sum float64
		for _, nb := range neighbors[:k] {
			sum += knn.YTrain[nb.index]
		}
		return sum / float64(k)
	}), nil
}
