// Package training は5つの候補アルゴリズムを同一分割で学習・評価し、
// ホールドアウトR²で勝者を選んでモデルパッケージに組み上げる。
package training

import (
	"log/slog"
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/socialpulse/addictml/bundle"
	"github.com/socialpulse/addictml/core/model"
	"github.com/socialpulse/addictml/dataset"
	"github.com/socialpulse/addictml/features"
	"github.com/socialpulse/addictml/metrics"
	"github.com/socialpulse/addictml/pkg/errors"
	"github.com/socialpulse/addictml/pkg/log"
	"github.com/socialpulse/addictml/preprocessing"
	"github.com/socialpulse/addictml/regressor"
)

// Options は学習の再現性を決めるパラメータ。
type Options struct {
	// TestSize はホールドアウトに回す行の割合。
	TestSize float64

	// Seed は分割と木アンサンブルの乱数シード。
	Seed uint64

	// CVFolds は交差検証の分割数。
	CVFolds int
}

// DefaultOptions returns the canonical 80/20 split with seed 42 and
// five-fold cross-validation.
func DefaultOptions() Options {
	return Options{
		TestSize: 0.2,
		Seed:     42,
		CVFolds:  5,
	}
}

// CandidateReport は1候補分の評価結果。
type CandidateReport struct {
	Name     string
	MSE      float64
	RMSE     float64
	MAE      float64
	R2       float64
	CVMean   float64
	CVStd    float64
	Accuracy float64
}

// Result は学習一式の成果物。Package は永続化可能な勝者。
type Result struct {
	RunID     string
	Reports   []CandidateReport
	BestIndex int
	Package   *bundle.ModelPackage
}

// Best returns the winning candidate's report.
func (r *Result) Best() CandidateReport {
	return r.Reports[r.BestIndex]
}

// candidate pairs an algorithm name with a factory producing a fresh,
// unfitted instance. Cross-validation needs one instance per fold.
type candidate struct {
	name  string
	build func() model.Regressor
}

// candidates は宣言順が同率時の優先順位を兼ねる。
func candidates() []candidate {
	return []candidate{
		{"Linear Regression", func() model.Regressor { return regressor.NewLinearRegression() }},
		{"Random Forest", func() model.Regressor { return regressor.NewRandomForestRegressor() }},
		{"KNN", func() model.Regressor { return regressor.NewKNNRegressor() }},
		{"SVM", func() model.Regressor { return regressor.NewSVR() }},
		{"Gradient Boosting", func() model.Regressor { return regressor.NewGradientBoostingRegressor() }},
	}
}

// TrainAndSelect は全候補を学習・評価して勝者をパッケージ化する。
//
// 流れ:
//  1. 名義フィールドごとにエンコーダを学習し特徴量行列を組む
//  2. シード付き 80/20 分割
//  3. スケーラを学習パーティションのみで学習
//  4. 各候補を学習し、ホールドアウト指標と学習側5分割CVを算出
//  5. ホールドアウトR²の厳密比較で勝者を選ぶ(同率は先勝ち)
func TrainAndSelect(table *dataset.Table, opts Options) (*Result, error) {
	if opts.TestSize <= 0 {
		opts.TestSize = 0.2
	}
	if opts.CVFolds < 2 {
		opts.CVFolds = 5
	}

	runID := uuid.NewString()
	logger := slog.Default().With(slog.String(log.RunIDKey, runID))

	encoders, err := fitEncoders(table)
	if err != nil {
		return nil, err
	}

	order := features.CanonicalOrder()
	X, err := features.BuildMatrix(table.Records, encoders, order)
	if err != nil {
		return nil, err
	}

	r, c := X.Dims()
	logger.Info("dataset assembled",
		slog.String(log.PhaseKey, "preprocessing"),
		slog.Int(log.SamplesKey, r),
		slog.Int(log.FeaturesKey, c))

	split, err := dataset.TrainTestSplit(X, table.Targets, opts.TestSize, opts.Seed)
	if err != nil {
		return nil, err
	}

	trainRows, _ := split.XTrain.Dims()
	testRows, _ := split.XTest.Dims()
	logger.Info("dataset split",
		slog.String(log.PhaseKey, "training"),
		slog.Int(log.TrainSizeKey, trainRows),
		slog.Int(log.TestSizeKey, testRows),
		slog.Uint64(log.RandomSeedKey, opts.Seed),
		slog.Float64(log.SplitRatioKey, opts.TestSize))

	scaler := preprocessing.NewStandardScaler()
	if err := scaler.Fit(split.XTrain); err != nil {
		return nil, err
	}
	scaledTrain, err := scaler.Transform(split.XTrain)
	if err != nil {
		return nil, err
	}
	scaledTest, err := scaler.Transform(split.XTest)
	if err != nil {
		return nil, err
	}
	XTrainScaled := mat.DenseCopyOf(scaledTrain)
	XTestScaled := mat.DenseCopyOf(scaledTest)

	result := &Result{RunID: runID}
	var (
		bestIdx   = -1
		bestR2    float64
		bestModel model.Regressor
	)

	for i, cand := range candidates() {
		XTrain, XTest := split.XTrain, split.XTest
		if bundle.ScaleSensitive(cand.name) {
			XTrain, XTest = XTrainScaled, XTestScaled
		}

		est := cand.build()
		if err := errors.SafeExecute("training.fit "+cand.name, func() error {
			return est.Fit(XTrain, split.YTrain)
		}); err != nil {
			terr := errors.NewTrainingError(cand.name, "fit", err)
			logger.Error("candidate training failed",
				slog.String(log.ModelNameKey, cand.name),
				slog.String(log.OperationKey, "fit"),
				log.ErrAttr(terr))
			return nil, terr
		}

		report, err := evaluate(cand, est, XTrain, XTest, split.YTrain, split.YTest, opts.CVFolds)
		if err != nil {
			terr := errors.NewTrainingError(cand.name, "evaluate", err)
			logger.Error("candidate evaluation failed",
				slog.String(log.ModelNameKey, cand.name),
				slog.String(log.OperationKey, "evaluate"),
				log.ErrAttr(terr))
			return nil, terr
		}
		result.Reports = append(result.Reports, report)

		logger.Info("candidate evaluated",
			slog.String(log.PhaseKey, "evaluation"),
			slog.String(log.OperationKey, "evaluate"),
			slog.String(log.ModelNameKey, cand.name),
			slog.Float64(log.MSEKey, report.MSE),
			slog.Float64(log.RMSEKey, report.RMSE),
			slog.Float64(log.MAEKey, report.MAE),
			slog.Float64(log.R2ScoreKey, report.R2),
			slog.Float64(log.CVMeanKey, report.CVMean),
			slog.Float64(log.CVStdKey, report.CVStd),
			slog.Float64(log.AccuracyKey, report.Accuracy))

		// 厳密な大なり比較。同率なら先に宣言された候補が残る。
		if bestIdx < 0 || report.R2 > bestR2 {
			bestIdx = i
			bestR2 = report.R2
			bestModel = est
		}
	}

	result.BestIndex = bestIdx
	pkg := &bundle.ModelPackage{
		Model:        bestModel,
		ModelName:    result.Reports[bestIdx].Name,
		Encoders:     encoders,
		FeatureOrder: order,
	}
	if bundle.ScaleSensitive(pkg.ModelName) {
		pkg.Scaler = scaler
	}
	if err := pkg.Validate(); err != nil {
		return nil, err
	}
	result.Package = pkg

	logger.Info("best model selected",
		slog.String(log.PhaseKey, "selection"),
		slog.String(log.OperationKey, "select"),
		slog.String(log.ModelNameKey, pkg.ModelName),
		slog.Float64(log.R2ScoreKey, bestR2))

	return result, nil
}

// fitEncoders learns one sorted-vocabulary encoder per nominal field from
// the full table, so every category seen anywhere in the data is encodable.
func fitEncoders(table *dataset.Table) (map[string]*preprocessing.LabelEncoder, error) {
	encoders := make(map[string]*preprocessing.LabelEncoder)
	for _, field := range features.NominalFields() {
		values, err := table.Column(field)
		if err != nil {
			return nil, err
		}
		le := preprocessing.NewLabelEncoder(field)
		if err := le.Fit(values); err != nil {
			return nil, err
		}
		encoders[field] = le
	}
	return encoders, nil
}

// evaluate scores a fitted candidate on the held-out partition and runs
// k-fold cross-validation on the training partition with fresh instances.
func evaluate(cand candidate, fitted model.Regressor, XTrain, XTest *mat.Dense, yTrain, yTest *mat.VecDense, folds int) (CandidateReport, error) {
	pred, err := fitted.Predict(XTest)
	if err != nil {
		return CandidateReport{}, err
	}
	yPred := columnVec(pred)

	mse, err := metrics.MSE(yTest, yPred)
	if err != nil {
		return CandidateReport{}, err
	}
	rmse, err := metrics.RMSE(yTest, yPred)
	if err != nil {
		return CandidateReport{}, err
	}
	mae, err := metrics.MAE(yTest, yPred)
	if err != nil {
		return CandidateReport{}, err
	}
	r2, err := metrics.R2Score(yTest, yPred)
	if err != nil {
		return CandidateReport{}, err
	}

	cvMean, cvStd, err := crossValidateR2(cand, XTrain, yTrain, folds)
	if err != nil {
		return CandidateReport{}, err
	}

	return CandidateReport{
		Name:     cand.name,
		MSE:      mse,
		RMSE:     rmse,
		MAE:      mae,
		R2:       r2,
		CVMean:   cvMean,
		CVStd:    cvStd,
		Accuracy: metrics.AccuracyPercent(r2),
	}, nil
}

// crossValidateR2 runs unshuffled k-fold CV over the training partition and
// returns the mean and population standard deviation of the fold R² scores.
func crossValidateR2(cand candidate, X *mat.Dense, y *mat.VecDense, folds int) (mean, std float64, err error) {
	kf := NewKFold(folds, false, 0)
	scores := make([]float64, 0, kf.NSplits)

	for _, fold := range kf.Split(X) {
		XFit := selectRows(X, fold.TrainIndices)
		yFit := selectVec(y, fold.TrainIndices)
		XVal := selectRows(X, fold.TestIndices)
		yVal := selectVec(y, fold.TestIndices)

		est := cand.build()
		if err := est.Fit(XFit, yFit); err != nil {
			return 0, 0, err
		}
		pred, err := est.Predict(XVal)
		if err != nil {
			return 0, 0, err
		}
		score, err := metrics.R2Score(yVal, columnVec(pred))
		if err != nil {
			return 0, 0, err
		}
		scores = append(scores, score)
	}

	for _, s := range scores {
		mean += s
	}
	mean /= float64(len(scores))
	for _, s := range scores {
		std += (s - mean) * (s - mean)
	}
	std = math.Sqrt(std / float64(len(scores)))
	return mean, std, nil
}

func selectRows(X *mat.Dense, indices []int) *mat.Dense {
	_, c := X.Dims()
	out := mat.NewDense(len(indices), c, nil)
	for i, idx := range indices {
		out.SetRow(i, X.RawRowView(idx))
	}
	return out
}

func selectVec(y *mat.VecDense, indices []int) *mat.VecDense {
	out := mat.NewVecDense(len(indices), nil)
	for i, idx := range indices {
		out.SetVec(i, y.AtVec(idx))
	}
	return out
}

// columnVec copies the first column of a prediction matrix into a vector.
func columnVec(m mat.Matrix) *mat.VecDense {
	r, _ := m.Dims()
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v
}
