package inference

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/socialpulse/addictml/bundle"
	"github.com/socialpulse/addictml/core/model"
	"github.com/socialpulse/addictml/features"
	"github.com/socialpulse/addictml/pkg/errors"
	"github.com/socialpulse/addictml/preprocessing"
	"github.com/socialpulse/addictml/regressor"
)

func trainingRecords(n int) ([]map[string]any, []float64) {
	genders := []string{"Female", "Male"}
	levels := []string{"Graduate", "High School", "Undergraduate"}
	countries := []string{"India", "Japan", "USA"}
	platforms := []string{"Instagram", "TikTok", "YouTube"}
	affects := []string{"No", "Yes"}

	// Randomized covariates keep the encoded columns linearly independent.
	rng := rand.New(rand.NewPCG(3, 3))
	records := make([]map[string]any, 0, n)
	targets := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		usage := 0.5 + 11.5*float64(i)/float64(n-1)
		records = append(records, map[string]any{
			features.FieldAge:             float64(15 + rng.IntN(15)),
			features.FieldGender:          genders[rng.IntN(len(genders))],
			features.FieldAcademicLevel:   levels[rng.IntN(len(levels))],
			features.FieldCountry:         countries[rng.IntN(len(countries))],
			features.FieldDailyUsage:      usage,
			features.FieldPlatform:        platforms[rng.IntN(len(platforms))],
			features.FieldAffectsAcademic: affects[rng.IntN(len(affects))],
			features.FieldSleepHours:      4.0 + 6.0*rng.Float64(),
			features.FieldMentalHealth:    float64(1 + rng.IntN(10)),
			features.FieldConflicts:       float64(rng.IntN(6)),
		})
		targets = append(targets, usage)
	}
	return records, targets
}

func fitEncoders(t *testing.T, records []map[string]any) map[string]*preprocessing.LabelEncoder {
	t.Helper()

	encoders := make(map[string]*preprocessing.LabelEncoder)
	for _, field := range features.NominalFields() {
		values := make([]string, len(records))
		for i, rec := range records {
			values[i] = rec[field].(string)
		}
		le := preprocessing.NewLabelEncoder(field)
		if err := le.Fit(values); err != nil {
			t.Fatalf("Fit(%s) failed: %v", field, err)
		}
		encoders[field] = le
	}
	return encoders
}

// linearPackage trains a linear model whose score equals the usage hours,
// so predictions (and clamping) are easy to reason about.
func linearPackage(t *testing.T) *bundle.ModelPackage {
	t.Helper()

	records, targets := trainingRecords(40)
	encoders := fitEncoders(t, records)

	X, err := features.BuildMatrix(records, encoders, features.CanonicalOrder())
	if err != nil {
		t.Fatalf("BuildMatrix failed: %v", err)
	}
	y := mat.NewVecDense(len(targets), targets)

	lr := regressor.NewLinearRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	return &bundle.ModelPackage{
		Model:        lr,
		ModelName:    lr.Name(),
		Encoders:     encoders,
		FeatureOrder: features.CanonicalOrder(),
	}
}

func sampleRecord(usage float64) map[string]any {
	return map[string]any{
		features.FieldAge:             20.0,
		features.FieldGender:          "Female",
		features.FieldAcademicLevel:   "Undergraduate",
		features.FieldCountry:         "Japan",
		features.FieldDailyUsage:      usage,
		features.FieldPlatform:        "Instagram",
		features.FieldAffectsAcademic: "Yes",
		features.FieldSleepHours:      6.5,
		features.FieldMentalHealth:    6.0,
		features.FieldConflicts:       2.0,
	}
}

func TestPredict_TracksUsage(t *testing.T) {
	pkg := linearPackage(t)

	score, err := Predict(pkg, sampleRecord(4.0))
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if math.Abs(score-4.0) > 0.05 {
		t.Errorf("score = %v, want ~4.0", score)
	}
}

func TestPredict_ClampsToRange(t *testing.T) {
	pkg := linearPackage(t)

	tests := []struct {
		name  string
		usage float64
		want  float64
	}{
		{"far above ceiling", 500.0, MaxScore},
		{"below floor", -500.0, MinScore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := Predict(pkg, sampleRecord(tt.usage))
			if err != nil {
				t.Fatalf("Predict failed: %v", err)
			}
			if score != tt.want {
				t.Errorf("score = %v, want clamped %v", score, tt.want)
			}
		})
	}
}

func TestPredict_BoundaryRecordsStayInRange(t *testing.T) {
	pkg := linearPackage(t)

	lo := sampleRecord(0.5)
	lo[features.FieldAge] = 15.0
	lo[features.FieldSleepHours] = 4.0
	lo[features.FieldMentalHealth] = 1.0
	lo[features.FieldConflicts] = 0.0

	hi := sampleRecord(12.0)
	hi[features.FieldAge] = 30.0
	hi[features.FieldSleepHours] = 10.0
	hi[features.FieldMentalHealth] = 10.0
	hi[features.FieldConflicts] = 5.0

	for name, rec := range map[string]map[string]any{"low edge": lo, "high edge": hi} {
		score, err := Predict(pkg, rec)
		if err != nil {
			t.Fatalf("%s: Predict failed: %v", name, err)
		}
		if score < MinScore || score > MaxScore {
			t.Errorf("%s: score = %v, outside [0, 10]", name, score)
		}
	}
}

func TestPredict_ScaledModel(t *testing.T) {
	records, _ := trainingRecords(30)
	encoders := fitEncoders(t, records)

	X, err := features.BuildMatrix(records, encoders, features.CanonicalOrder())
	if err != nil {
		t.Fatalf("BuildMatrix failed: %v", err)
	}

	scaler := preprocessing.NewStandardScaler()
	XScaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	// A constant target makes every KNN prediction exactly that constant,
	// regardless of which neighbors the scaler selects.
	targets := make([]float64, len(records))
	for i := range targets {
		targets[i] = 5.0
	}
	knn := regressor.NewKNNRegressor()
	if err := knn.Fit(XScaled, mat.NewVecDense(len(targets), targets)); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	pkg := &bundle.ModelPackage{
		Model:        knn,
		ModelName:    knn.Name(),
		Scaler:       scaler,
		Encoders:     encoders,
		FeatureOrder: features.CanonicalOrder(),
	}

	score, err := Predict(pkg, sampleRecord(7.5))
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if math.Abs(score-5.0) > 1e-9 {
		t.Errorf("score = %v, want 5.0", score)
	}
}

func TestPredict_Errors(t *testing.T) {
	pkg := linearPackage(t)

	if _, err := Predict(nil, sampleRecord(4.0)); err == nil {
		t.Error("nil package must fail")
	}

	rec := sampleRecord(4.0)
	delete(rec, features.FieldSleepHours)
	_, err := Predict(pkg, rec)
	var missingErr *errors.MissingFieldError
	if !errors.As(err, &missingErr) {
		t.Errorf("expected *MissingFieldError, got %v", err)
	}

	rec = sampleRecord(4.0)
	rec[features.FieldPlatform] = "MySpace"
	_, err = Predict(pkg, rec)
	var unknownErr *errors.UnknownCategoryError
	if !errors.As(err, &unknownErr) {
		t.Errorf("expected *UnknownCategoryError, got %v", err)
	}

	// Extra keys are ignored, not rejected.
	rec = sampleRecord(4.0)
	rec["Student_ID"] = 123
	if _, err := Predict(pkg, rec); err != nil {
		t.Errorf("extra key must be ignored, got %v", err)
	}
}

// brokenRegressor always emits NaN, standing in for a numerically
// degenerate fit.
type brokenRegressor struct {
	model.BaseEstimator
}

func (b *brokenRegressor) Name() string { return "Linear Regression" }

func (b *brokenRegressor) Fit(X, y mat.Matrix) error {
	b.SetFitted()
	return nil
}

func (b *brokenRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	r, _ := X.Dims()
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, math.NaN())
	}
	return out, nil
}

func TestPredict_RejectsNaNScore(t *testing.T) {
	records, _ := trainingRecords(10)
	broken := &brokenRegressor{}
	broken.SetFitted()

	pkg := &bundle.ModelPackage{
		Model:        broken,
		ModelName:    broken.Name(),
		Encoders:     fitEncoders(t, records),
		FeatureOrder: features.CanonicalOrder(),
	}

	_, err := Predict(pkg, sampleRecord(4.0))
	if err == nil {
		t.Fatal("NaN score must surface as an error, not a value")
	}
	var valueErr *errors.ValueError
	if !errors.As(err, &valueErr) {
		t.Errorf("expected *ValueError, got %T: %v", err, err)
	}
}

func TestPredict_Idempotent(t *testing.T) {
	pkg := linearPackage(t)
	rec := sampleRecord(6.2)

	first, err := Predict(pkg, rec)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Predict(pkg, rec)
		if err != nil {
			t.Fatalf("repeat %d failed: %v", i, err)
		}
		if again != first {
			t.Fatalf("repeat %d = %v, first = %v", i, again, first)
		}
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0, LevelLow},
		{3.0, LevelLow},
		{3.0001, LevelModerate},
		{4.5, LevelModerate},
		{6.0, LevelModerate},
		{6.0001, LevelHigh},
		{8.0, LevelHigh},
		{8.0001, LevelVeryHigh},
		{10.0, LevelVeryHigh},
	}
	for _, tt := range tests {
		if got := Level(tt.score); got != tt.want {
			t.Errorf("Level(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestPredictWithLevel(t *testing.T) {
	pkg := linearPackage(t)

	score, level, err := PredictWithLevel(pkg, sampleRecord(4.0))
	if err != nil {
		t.Fatalf("PredictWithLevel failed: %v", err)
	}
	if level != Level(score) {
		t.Errorf("level = %q, want %q", level, Level(score))
	}
	if level != LevelModerate {
		t.Errorf("level = %q, want Moderate for score %v", level, score)
	}
}
