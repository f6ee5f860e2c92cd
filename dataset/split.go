package dataset

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/socialpulse/addictml/pkg/errors"
)

// Split is the result of one train/test partition.
type Split struct {
	XTrain *mat.Dense
	XTest  *mat.Dense
	YTrain *mat.VecDense
	YTest  *mat.VecDense
}

// TrainTestSplit shuffles row indices with a seeded generator and carves off
// the trailing testSize fraction (rounded up) as the held-out partition.
// The same seed always yields the same partition.
func TrainTestSplit(X mat.Matrix, y []float64, testSize float64, seed uint64) (*Split, error) {
	r, c := X.Dims()
	if r == 0 {
		return nil, errors.NewModelError("dataset.TrainTestSplit", "empty data", errors.ErrEmptyData)
	}
	if len(y) != r {
		return nil, errors.NewDimensionError("dataset.TrainTestSplit", r, len(y), 0)
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, errors.NewValueError("dataset.TrainTestSplit", "testSize must be in (0, 1)")
	}

	nTest := int(math.Ceil(float64(r) * testSize))
	nTrain := r - nTest
	if nTrain == 0 {
		return nil, errors.NewValueError("dataset.TrainTestSplit", "split leaves no training rows")
	}

	indices := make([]int, r)
	for i := range indices {
		indices[i] = i
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	rng.Shuffle(r, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	split := &Split{
		XTrain: mat.NewDense(nTrain, c, nil),
		XTest:  mat.NewDense(nTest, c, nil),
		YTrain: mat.NewVecDense(nTrain, nil),
		YTest:  mat.NewVecDense(nTest, nil),
	}

	for pos, idx := range indices[:nTrain] {
		for j := 0; j < c; j++ {
			split.XTrain.Set(pos, j, X.At(idx, j))
		}
		split.YTrain.SetVec(pos, y[idx])
	}
	for pos, idx := range indices[nTrain:] {
		for j := 0; j < c; j++ {
			split.XTest.Set(pos, j, X.At(idx, j))
		}
		split.YTest.SetVec(pos, y[idx])
	}

	return split, nil
}
