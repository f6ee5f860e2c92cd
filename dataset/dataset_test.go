package dataset

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/socialpulse/addictml/features"
	"github.com/socialpulse/addictml/pkg/errors"
)

const sampleCSV = `Student_ID,Age,Gender,Academic_Level,Country,Avg_Daily_Usage_Hours,Most_Used_Platform,Affects_Academic_Performance,Sleep_Hours_Per_Night,Mental_Health_Score,Conflicts_Over_Social_Media,Addicted_Score
1,19,Female,Undergraduate,Bangladesh,5.2,Instagram,Yes,6.5,6,3,8.5
2,22,Male,Graduate,India,2.1,Twitter,No,7.5,8,0,3.0
3,20,Female,Undergraduate,USA,6.0,TikTok,Yes,5.0,5,4,9.0
`

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(sampleCSV), "Addicted_Score")
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	if table.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", table.Len())
	}
	if table.Targets[0] != 8.5 || table.Targets[2] != 9.0 {
		t.Errorf("Targets = %v", table.Targets)
	}

	// Extra column Student_ID is ignored; it must not leak into records.
	if _, ok := table.Records[0]["Student_ID"]; ok {
		t.Error("records should not carry extra CSV columns")
	}

	// Numeric fields parse to float64; nominals remain strings.
	if age, ok := table.Records[0][features.FieldAge].(float64); !ok || age != 19 {
		t.Errorf("Age = %v (%T)", table.Records[0][features.FieldAge], table.Records[0][features.FieldAge])
	}
	if g, ok := table.Records[1][features.FieldGender].(string); !ok || g != "Male" {
		t.Errorf("Gender = %v", table.Records[1][features.FieldGender])
	}
}

func TestReadCSV_MissingColumn(t *testing.T) {
	bad := strings.Replace(sampleCSV, "Sleep_Hours_Per_Night", "Sleep_Hours", 1)
	if _, err := ReadCSV(strings.NewReader(bad), "Addicted_Score"); err == nil {
		t.Error("ReadCSV with a renamed required column should fail")
	}
}

func TestReadCSV_InvalidNumeric(t *testing.T) {
	bad := strings.Replace(sampleCSV, "5.2", "five", 1)
	if _, err := ReadCSV(strings.NewReader(bad), "Addicted_Score"); err == nil {
		t.Error("ReadCSV with an unparseable numeric should fail")
	}
}

func TestReadCSV_OutOfRangeWarns(t *testing.T) {
	var warned error
	errors.SetWarningHandler(func(w error) { warned = w })
	defer errors.SetWarningHandler(func(error) {})

	// Age 42 is outside the form range but must still load.
	warnCSV := strings.Replace(sampleCSV, "1,19,", "1,42,", 1)
	table, err := ReadCSV(strings.NewReader(warnCSV), "Addicted_Score")
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if table.Len() != 3 {
		t.Errorf("out-of-range row was dropped: Len() = %d", table.Len())
	}
	if warned == nil {
		t.Error("expected an out-of-range warning")
	}
}

func TestColumn(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(sampleCSV), "Addicted_Score")
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	genders, err := table.Column(features.FieldGender)
	if err != nil {
		t.Fatalf("Column failed: %v", err)
	}
	want := []string{"Female", "Male", "Female"}
	for i, w := range want {
		if genders[i] != w {
			t.Errorf("genders[%d] = %q, want %q", i, genders[i], w)
		}
	}

	if _, err := table.Column(features.FieldAge); err == nil {
		t.Error("Column on a numeric field should fail")
	}
}

func TestTrainTestSplit_Deterministic(t *testing.T) {
	n := 10
	X := mat.NewDense(n, 1, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		y[i] = float64(i)
	}

	s1, err := TrainTestSplit(X, y, 0.2, 42)
	if err != nil {
		t.Fatalf("TrainTestSplit failed: %v", err)
	}
	s2, err := TrainTestSplit(X, y, 0.2, 42)
	if err != nil {
		t.Fatalf("TrainTestSplit failed: %v", err)
	}

	rTrain, _ := s1.XTrain.Dims()
	rTest, _ := s1.XTest.Dims()
	if rTrain != 8 || rTest != 2 {
		t.Fatalf("split sizes = %d/%d, want 8/2", rTrain, rTest)
	}

	for i := 0; i < rTrain; i++ {
		if s1.XTrain.At(i, 0) != s2.XTrain.At(i, 0) {
			t.Fatal("same seed must give the same partition")
		}
	}

	// X rows and y entries must stay paired through the shuffle.
	for i := 0; i < rTrain; i++ {
		if s1.XTrain.At(i, 0) != s1.YTrain.AtVec(i) {
			t.Errorf("row %d: X/y pairing broken: %v vs %v", i, s1.XTrain.At(i, 0), s1.YTrain.AtVec(i))
		}
	}

	s3, err := TrainTestSplit(X, y, 0.2, 7)
	if err != nil {
		t.Fatalf("TrainTestSplit failed: %v", err)
	}
	same := true
	for i := 0; i < rTrain; i++ {
		if s1.XTrain.At(i, 0) != s3.XTrain.At(i, 0) {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds should give different partitions")
	}
}

func TestTrainTestSplit_Validation(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := []float64{1, 2, 3, 4}

	if _, err := TrainTestSplit(X, y[:3], 0.2, 42); err == nil {
		t.Error("mismatched y length should fail")
	}
	if _, err := TrainTestSplit(X, y, 0.0, 42); err == nil {
		t.Error("testSize 0 should fail")
	}
	if _, err := TrainTestSplit(X, y, 1.0, 42); err == nil {
		t.Error("testSize 1 should fail")
	}
}
