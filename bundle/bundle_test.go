package bundle

import (
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/socialpulse/addictml/features"
	"github.com/socialpulse/addictml/pkg/errors"
	"github.com/socialpulse/addictml/preprocessing"
	"github.com/socialpulse/addictml/regressor"
)

func fittedEncoders(t *testing.T) map[string]*preprocessing.LabelEncoder {
	t.Helper()

	vocab := map[string][]string{
		features.FieldGender:          {"Male", "Female"},
		features.FieldAcademicLevel:   {"High School", "Undergraduate", "Graduate"},
		features.FieldCountry:         {"India", "USA"},
		features.FieldPlatform:        {"Instagram", "TikTok"},
		features.FieldAffectsAcademic: {"Yes", "No"},
	}

	encoders := make(map[string]*preprocessing.LabelEncoder, len(vocab))
	for field, values := range vocab {
		le := preprocessing.NewLabelEncoder(field)
		if err := le.Fit(values); err != nil {
			t.Fatalf("Fit(%s) failed: %v", field, err)
		}
		encoders[field] = le
	}
	return encoders
}

func fittedLinear(t *testing.T) (*regressor.LinearRegression, *mat.Dense) {
	t.Helper()

	n := 30
	X := mat.NewDense(n, 10, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < 10; j++ {
			X.Set(i, j, float64((i*7+j*3)%13))
		}
		y.Set(i, 0, X.At(i, 4)) // target tracks usage hours
	}

	lr := regressor.NewLinearRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	return lr, X
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	lr, X := fittedLinear(t)
	pkg := &ModelPackage{
		Model:        lr,
		ModelName:    lr.Name(),
		Scaler:       nil,
		Encoders:     fittedEncoders(t),
		FeatureOrder: features.CanonicalOrder(),
	}

	path := filepath.Join(t.TempDir(), "model.gob")
	if err := Save(pkg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.ModelName != "Linear Regression" {
		t.Errorf("ModelName = %q", loaded.ModelName)
	}
	if loaded.Scaler != nil {
		t.Error("scaler must stay absent for Linear Regression")
	}
	if !reflect.DeepEqual(loaded.FeatureOrder, pkg.FeatureOrder) {
		t.Errorf("FeatureOrder = %v", loaded.FeatureOrder)
	}

	// Encoder vocabularies and their ordering must survive byte-for-byte.
	for field, enc := range pkg.Encoders {
		got, ok := loaded.Encoders[field]
		if !ok {
			t.Fatalf("encoder %q missing after load", field)
		}
		if !reflect.DeepEqual(got.Classes, enc.Classes) {
			t.Errorf("encoder %q classes = %v, want %v", field, got.Classes, enc.Classes)
		}
		if !got.IsFitted() {
			t.Errorf("encoder %q lost fitted state", field)
		}
	}

	// The reloaded model must predict identically.
	want, err := pkg.Model.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	got, err := loaded.Model.Predict(X)
	if err != nil {
		t.Fatalf("Predict after load failed: %v", err)
	}
	r, _ := want.Dims()
	for i := 0; i < r; i++ {
		if math.Abs(want.At(i, 0)-got.At(i, 0)) > 1e-12 {
			t.Fatalf("row %d: prediction drifted after round trip", i)
		}
	}
}

func TestSaveLoad_ScaleSensitiveModel(t *testing.T) {
	n := 20
	X := mat.NewDense(n, 10, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < 10; j++ {
			X.Set(i, j, float64((i+j)%7))
		}
		y.Set(i, 0, float64(i%10))
	}

	scaler := preprocessing.NewStandardScaler()
	XScaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	knn := regressor.NewKNNRegressor()
	if err := knn.Fit(XScaled, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	pkg := &ModelPackage{
		Model:        knn,
		ModelName:    knn.Name(),
		Scaler:       scaler,
		Encoders:     fittedEncoders(t),
		FeatureOrder: features.CanonicalOrder(),
	}

	path := filepath.Join(t.TempDir(), "model.gob")
	if err := Save(pkg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Scaler == nil {
		t.Fatal("scaler must be present for KNN")
	}
	if !reflect.DeepEqual(loaded.Scaler.Mean, scaler.Mean) {
		t.Error("scaler mean drifted after round trip")
	}
	if !loaded.Scaler.IsFitted() {
		t.Error("scaler lost fitted state")
	}
}

func TestValidate_ScalerInvariant(t *testing.T) {
	lr, _ := fittedLinear(t)
	encoders := fittedEncoders(t)

	// Linear Regression with a scaler is invalid.
	pkg := &ModelPackage{
		Model:        lr,
		ModelName:    lr.Name(),
		Scaler:       preprocessing.NewStandardScaler(),
		Encoders:     encoders,
		FeatureOrder: features.CanonicalOrder(),
	}
	if err := pkg.Validate(); err == nil {
		t.Error("Linear Regression with scaler must fail validation")
	}

	// KNN without a scaler is invalid.
	pkg = &ModelPackage{
		Model:        lr, // model identity irrelevant here
		ModelName:    "KNN",
		Encoders:     encoders,
		FeatureOrder: features.CanonicalOrder(),
	}
	if err := pkg.Validate(); err == nil {
		t.Error("KNN without scaler must fail validation")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.gob"))
	if err == nil {
		t.Fatal("Load of a missing file must fail")
	}

	var unavailErr *errors.ModelUnavailableError
	if !errors.As(err, &unavailErr) {
		t.Fatalf("expected *ModelUnavailableError, got %T: %v", err, err)
	}
}

func TestLoader_CachesAcrossCalls(t *testing.T) {
	lr, _ := fittedLinear(t)
	pkg := &ModelPackage{
		Model:        lr,
		ModelName:    lr.Name(),
		Encoders:     fittedEncoders(t),
		FeatureOrder: features.CanonicalOrder(),
	}

	path := filepath.Join(t.TempDir(), "model.gob")
	if err := Save(pkg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loader := NewLoader(path)
	first, err := loader.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	second, err := loader.Get()
	if err != nil {
		t.Fatalf("second Get failed: %v", err)
	}
	if first != second {
		t.Error("Loader must return the same cached instance")
	}
}

func TestScaleSensitive(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Linear Regression", false},
		{"Random Forest", false},
		{"KNN", true},
		{"SVM", true},
		{"Gradient Boosting", false},
	}
	for _, tt := range tests {
		if got := ScaleSensitive(tt.name); got != tt.want {
			t.Errorf("ScaleSensitive(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
