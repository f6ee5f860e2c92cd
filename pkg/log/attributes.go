// Package log defines standard attribute keys for the training and inference
// pipeline.
//
// Using these keys consistently keeps the JSON logs of a training run easy to
// filter: every candidate's metrics carry the same key names, and a run can be
// isolated by its run ID.
package log

// Model and operation context.
const (
	// ModelNameKey identifies the regression model involved in an operation.
	// Examples: "Linear Regression", "Random Forest", "SVM"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "evaluate", "select"
	OperationKey = "ml.operation"

	// PhaseKey indicates the phase of the pipeline.
	// Standard values: "preprocessing", "training", "evaluation", "selection",
	// "inference"
	PhaseKey = "ml.phase"

	// RunIDKey carries the UUID assigned to one training run.
	RunIDKey = "run.id"
)

// Data shape.
const (
	// SamplesKey indicates the number of samples (rows) being processed.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns).
	FeaturesKey = "data.features"

	// TrainSizeKey / TestSizeKey report the partition sizes of the split.
	TrainSizeKey = "data.train_size"
	TestSizeKey  = "data.test_size"
)

// Evaluation metrics.
const (
	MSEKey      = "metrics.mse"
	RMSEKey     = "metrics.rmse"
	MAEKey      = "metrics.mae"
	R2ScoreKey  = "metrics.r2_score"
	CVMeanKey   = "metrics.cv_mean"
	CVStdKey    = "metrics.cv_std"
	AccuracyKey = "metrics.accuracy_pct"
)

// Inference context.
const (
	// ScoreKey is the clamped addiction score returned to the caller.
	ScoreKey = "prediction.score"

	// LevelKey is the addiction level band derived from the score.
	LevelKey = "prediction.level"
)

// Configuration.
const (
	RandomSeedKey = "config.random_seed"
	SplitRatioKey = "config.split_ratio"
	ModelPathKey  = "config.model_path"
)
