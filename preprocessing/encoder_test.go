package preprocessing

import (
	"reflect"
	"testing"

	"github.com/socialpulse/addictml/pkg/errors"
)

func TestLabelEncoder_FitSortsVocabulary(t *testing.T) {
	tests := []struct {
		name        string
		values      []string
		wantClasses []string
	}{
		{
			name:        "gender",
			values:      []string{"Male", "Female", "Male", "Female", "Male"},
			wantClasses: []string{"Female", "Male"},
		},
		{
			name:        "academic level unsorted input",
			values:      []string{"Undergraduate", "High School", "Graduate", "Undergraduate"},
			wantClasses: []string{"Graduate", "High School", "Undergraduate"},
		},
		{
			name:        "single class",
			values:      []string{"Yes", "Yes"},
			wantClasses: []string{"Yes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			le := NewLabelEncoder(tt.name)
			if err := le.Fit(tt.values); err != nil {
				t.Fatalf("Fit failed: %v", err)
			}
			if !reflect.DeepEqual(le.Classes, tt.wantClasses) {
				t.Errorf("Classes = %v, want %v", le.Classes, tt.wantClasses)
			}
		})
	}
}

func TestLabelEncoder_EncodeDecode(t *testing.T) {
	le := NewLabelEncoder("Most_Used_Platform")
	platforms := []string{"Instagram", "TikTok", "Facebook", "YouTube", "Twitter", "Snapchat", "LinkedIn", "WhatsApp"}
	if err := le.Fit(platforms); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	// Every class must round-trip through Encode/Decode with its sorted index.
	for i, class := range le.Classes {
		code, err := le.Encode(class)
		if err != nil {
			t.Fatalf("Encode(%q) failed: %v", class, err)
		}
		if code != i {
			t.Errorf("Encode(%q) = %d, want %d", class, code, i)
		}

		decoded, err := le.Decode(code)
		if err != nil {
			t.Fatalf("Decode(%d) failed: %v", code, err)
		}
		if decoded != class {
			t.Errorf("Decode(%d) = %q, want %q", code, decoded, class)
		}
	}
}

func TestLabelEncoder_UnknownCategoryRejected(t *testing.T) {
	le := NewLabelEncoder("Gender")
	if err := le.Fit([]string{"Male", "Female"}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	_, err := le.Encode("Other")
	if err == nil {
		t.Fatal("Encode of out-of-vocabulary value must fail, not default")
	}

	var catErr *errors.UnknownCategoryError
	if !errors.As(err, &catErr) {
		t.Fatalf("expected *UnknownCategoryError, got %T: %v", err, err)
	}
	if catErr.Field != "Gender" || catErr.Value != "Other" {
		t.Errorf("unexpected error fields: %+v", catErr)
	}
}

func TestLabelEncoder_NotFitted(t *testing.T) {
	le := NewLabelEncoder("Country")

	if _, err := le.Encode("Japan"); err == nil {
		t.Error("Encode before Fit should fail")
	}
	if _, err := le.Decode(0); err == nil {
		t.Error("Decode before Fit should fail")
	}
}

func TestLabelEncoder_EmptyFit(t *testing.T) {
	le := NewLabelEncoder("Country")
	if err := le.Fit(nil); err == nil {
		t.Error("Fit with no values should fail")
	}
}

func TestLabelEncoder_DecodeOutOfRange(t *testing.T) {
	le := NewLabelEncoder("Affects_Academic_Performance")
	if err := le.Fit([]string{"Yes", "No"}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if _, err := le.Decode(2); err == nil {
		t.Error("Decode with out-of-range code should fail")
	}
	if _, err := le.Decode(-1); err == nil {
		t.Error("Decode with negative code should fail")
	}
}
