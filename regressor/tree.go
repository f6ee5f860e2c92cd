package regressor

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/socialpulse/addictml/core/model"
	"github.com/socialpulse/addictml/pkg/errors"
)

// TreeNode is one node of a fitted regression tree. Interior nodes route on
// Feature < Threshold; leaves carry the mean target of their samples.
type TreeNode struct {
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
	Value     float64
	Leaf      bool
}

// DecisionTreeRegressor is a CART regression tree minimizing squared error.
// It backs both the random forest and the gradient boosting candidates and is
// deterministic unless feature subsampling is enabled with a seeded source.
type DecisionTreeRegressor struct {
	model.BaseEstimator

	// MaxDepth limits tree depth; <= 0 means unlimited.
	MaxDepth int
	// MinSamplesSplit is the minimum node size eligible for splitting.
	MinSamplesSplit int
	// MinSamplesLeaf is the minimum size of each child after a split.
	MinSamplesLeaf int
	// MaxFeatures limits the number of features examined per split;
	// <= 0 means all features. Used by the random forest.
	MaxFeatures int

	Root      *TreeNode
	NFeatures int

	// rng drives feature subsampling at fit time only; never persisted.
	rng *rand.Rand
}

// NewDecisionTreeRegressor creates a tree with sklearn-like defaults.
func NewDecisionTreeRegressor() *DecisionTreeRegressor {
	return &DecisionTreeRegressor{
		MaxDepth:        -1,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}
}

// Name はアルゴリズム名を返す
func (dt *DecisionTreeRegressor) Name() string { return "Decision Tree" }

// SetRand sets the random source used for feature subsampling.
func (dt *DecisionTreeRegressor) SetRand(rng *rand.Rand) {
	dt.rng = rng
}

// Fit grows the tree on X and y.
func (dt *DecisionTreeRegressor) Fit(X, y mat.Matrix) error {
	r, c, err := checkFit("DecisionTreeRegressor.Fit", X, y)
	if err != nil {
		return err
	}
	targets, err := targetsOf("DecisionTreeRegressor.Fit", y, r)
	if err != nil {
		return err
	}

	rows := rowsOf(X)
	indices := make([]int, r)
	for i := range indices {
		indices[i] = i
	}

	dt.NFeatures = c
	dt.Root = dt.grow(rows, targets, indices, 0)
	dt.SetFitted()
	return nil
}

// FitRows is the slice-based variant used by the ensemble estimators, which
// already hold row slices and bootstrap index sets.
func (dt *DecisionTreeRegressor) FitRows(rows [][]float64, targets []float64, indices []int) error {
	if len(rows) == 0 || len(indices) == 0 {
		return errors.NewModelError("DecisionTreeRegressor.Fit", "empty data", errors.ErrEmptyData)
	}

	dt.NFeatures = len(rows[0])
	dt.Root = dt.grow(rows, targets, indices, 0)
	dt.SetFitted()
	return nil
}

// Predict routes each row of X down the tree.
func (dt *DecisionTreeRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !dt.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeRegressor", "Predict")
	}

	_, c := X.Dims()
	if c != dt.NFeatures {
		return nil, errors.NewDimensionError("DecisionTreeRegressor.Predict", dt.NFeatures, c, 1)
	}

	return predictionColumn(X, dt.PredictRow), nil
}

// PredictRow routes one feature vector down the tree.
func (dt *DecisionTreeRegressor) PredictRow(row []float64) float64 {
	node := dt.Root
	for !node.Leaf {
		if row[node.Feature] < node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

func (dt *DecisionTreeRegressor) grow(rows [][]float64, targets []float64, indices []int, depth int) *TreeNode {
	mean := meanAt(targets, indices)

	if len(indices) < dt.MinSamplesSplit || (dt.MaxDepth > 0 && depth >= dt.MaxDepth) {
		return &TreeNode{Leaf: true, Value: mean}
	}

	feature, threshold, ok := dt.bestSplit(rows, targets, indices)
	if !ok {
		return &TreeNode{Leaf: true, Value: mean}
	}

	var left, right []int
	for _, i := range indices {
		if rows[i][feature] < threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < dt.MinSamplesLeaf || len(right) < dt.MinSamplesLeaf {
		return &TreeNode{Leaf: true, Value: mean}
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      dt.grow(rows, targets, left, depth+1),
		Right:     dt.grow(rows, targets, right, depth+1),
	}
}

// bestSplit scans candidate features for the threshold with the largest
// squared-error reduction. Sorting the node's samples once per feature lets
// left/right sums update incrementally in one pass.
func (dt *DecisionTreeRegressor) bestSplit(rows [][]float64, targets []float64, indices []int) (int, float64, bool) {
	nFeatures := len(rows[indices[0]])
	candidates := dt.candidateFeatures(nFeatures)

	var (
		bestGain      = math.Inf(-1)
		bestFeature   = -1
		bestThreshold float64
	)

	var totalSum, totalSq float64
	for _, i := range indices {
		totalSum += targets[i]
		totalSq += targets[i] * targets[i]
	}
	n := float64(len(indices))
	parentSSE := totalSq - totalSum*totalSum/n

	sorted := make([]int, len(indices))
	for _, feature := range candidates {
		copy(sorted, indices)
		sort.Slice(sorted, func(a, b int) bool {
			return rows[sorted[a]][feature] < rows[sorted[b]][feature]
		})

		var leftSum, leftSq float64
		for pos := 0; pos < len(sorted)-1; pos++ {
			i := sorted[pos]
			leftSum += targets[i]
			leftSq += targets[i] * targets[i]

			cur := rows[i][feature]
			next := rows[sorted[pos+1]][feature]
			if cur == next {
				continue
			}

			nl := float64(pos + 1)
			nr := n - nl
			if int(nl) < dt.MinSamplesLeaf || int(nr) < dt.MinSamplesLeaf {
				continue
			}

			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			leftSSE := leftSq - leftSum*leftSum/nl
			rightSSE := rightSq - rightSum*rightSum/nr

			gain := parentSSE - leftSSE - rightSSE
			if gain > bestGain {
				bestGain = gain
				bestFeature = feature
				bestThreshold = (cur + next) / 2
			}
		}
	}

	if bestFeature < 0 || bestGain <= 1e-12 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

// candidateFeatures returns the feature indices examined for one split.
func (dt *DecisionTreeRegressor) candidateFeatures(nFeatures int) []int {
	all := make([]int, nFeatures)
	for i := range all {
		all[i] = i
	}
	if dt.MaxFeatures <= 0 || dt.MaxFeatures >= nFeatures || dt.rng == nil {
		return all
	}

	// Partial Fisher-Yates draw of MaxFeatures distinct indices.
	for i := 0; i < dt.MaxFeatures; i++ {
		j := i + dt.rng.IntN(nFeatures-i)
		all[i], all[j] = all[j], all[i]
	}
	return all[:dt.MaxFeatures]
}

func meanAt(targets []float64, indices []int) float64 {
	var sum float64
	for _, i := range indices {
		sum += targets[i]
	}
	return sum / float64(len(indices))
}
