// Package features defines the raw user record, the canonical feature order
// shared by training and inference, and the builder that turns one record
// into a numeric feature vector.
package features

import (
	"github.com/go-playground/validator/v10"

	"github.com/socialpulse/addictml/pkg/errors"
)

// Field names of the ten raw attributes. These are also the exact CSV column
// names the training input must carry.
const (
	FieldAge             = "Age"
	FieldGender          = "Gender"
	FieldAcademicLevel   = "Academic_Level"
	FieldCountry         = "Country"
	FieldDailyUsage      = "Avg_Daily_Usage_Hours"
	FieldPlatform        = "Most_Used_Platform"
	FieldAffectsAcademic = "Affects_Academic_Performance"
	FieldSleepHours      = "Sleep_Hours_Per_Night"
	FieldMentalHealth    = "Mental_Health_Score"
	FieldConflicts       = "Conflicts_Over_Social_Media"
)

// canonicalOrder is the binding feature order shared between the trainer and
// the inference engine. It is persisted inside every model package; the two
// sides never hard-code it independently.
var canonicalOrder = []string{
	FieldAge,
	FieldGender,
	FieldAcademicLevel,
	FieldCountry,
	FieldDailyUsage,
	FieldPlatform,
	FieldAffectsAcademic,
	FieldSleepHours,
	FieldMentalHealth,
	FieldConflicts,
}

// nominalFields are the five categorical attributes that go through a
// LabelEncoder. Every other field is numeric and passes through unchanged.
var nominalFields = map[string]bool{
	FieldGender:          true,
	FieldAcademicLevel:   true,
	FieldCountry:         true,
	FieldPlatform:        true,
	FieldAffectsAcademic: true,
}

// CanonicalOrder returns a copy of the canonical ten-field feature order.
func CanonicalOrder() []string {
	order := make([]string, len(canonicalOrder))
	copy(order, canonicalOrder)
	return order
}

// NominalFields returns the names of the categorical fields in canonical
// order.
func NominalFields() []string {
	var fields []string
	for _, f := range canonicalOrder {
		if nominalFields[f] {
			fields = append(fields, f)
		}
	}
	return fields
}

// IsNominal reports whether the field is categorical.
func IsNominal(field string) bool {
	return nominalFields[field]
}

// Record is one user's raw attributes in typed form. The validate tags mirror
// the ranges the input form enforces; violations in training data are logged
// as warnings, never rejected, since the model tolerates them.
type Record struct {
	Age             int     `validate:"gte=15,lte=30"`
	Gender          string  `validate:"required"`
	AcademicLevel   string  `validate:"required"`
	Country         string  `validate:"required"`
	DailyUsage      float64 `validate:"gte=0.5,lte=12"`
	Platform        string  `validate:"required"`
	AffectsAcademic string  `validate:"required"`
	SleepHours      float64 `validate:"gte=4,lte=10"`
	MentalHealth    int     `validate:"gte=1,lte=10"`
	Conflicts       int     `validate:"gte=0,lte=5"`
}

var validate = validator.New()

// FromMap converts a raw record map into a typed Record. Missing keys yield
// MissingFieldError; malformed values yield ValueError. Extra keys are
// ignored.
func FromMap(rec map[string]any) (Record, error) {
	var r Record
	var err error

	if r.Age, err = intField(rec, FieldAge); err != nil {
		return Record{}, err
	}
	if r.Gender, err = stringField(rec, FieldGender); err != nil {
		return Record{}, err
	}
	if r.AcademicLevel, err = stringField(rec, FieldAcademicLevel); err != nil {
		return Record{}, err
	}
	if r.Country, err = stringField(rec, FieldCountry); err != nil {
		return Record{}, err
	}
	if r.DailyUsage, err = floatField(rec, FieldDailyUsage); err != nil {
		return Record{}, err
	}
	if r.Platform, err = stringField(rec, FieldPlatform); err != nil {
		return Record{}, err
	}
	if r.AffectsAcademic, err = stringField(rec, FieldAffectsAcademic); err != nil {
		return Record{}, err
	}
	if r.SleepHours, err = floatField(rec, FieldSleepHours); err != nil {
		return Record{}, err
	}
	if r.MentalHealth, err = intField(rec, FieldMentalHealth); err != nil {
		return Record{}, err
	}
	if r.Conflicts, err = intField(rec, FieldConflicts); err != nil {
		return Record{}, err
	}
	return r, nil
}

// ToMap converts the typed record back into the map shape the feature
// builder and the inference engine consume.
func (r Record) ToMap() map[string]any {
	return map[string]any{
		FieldAge:             r.Age,
		FieldGender:          r.Gender,
		FieldAcademicLevel:   r.AcademicLevel,
		FieldCountry:         r.Country,
		FieldDailyUsage:      r.DailyUsage,
		FieldPlatform:        r.Platform,
		FieldAffectsAcademic: r.AffectsAcademic,
		FieldSleepHours:      r.SleepHours,
		FieldMentalHealth:    r.MentalHealth,
		FieldConflicts:       r.Conflicts,
	}
}

// Validate checks the form ranges. Callers treat a non-nil result as a
// warning, not a rejection.
func (r Record) Validate() error {
	return validate.Struct(r)
}

func stringField(rec map[string]any, field string) (string, error) {
	v, ok := rec[field]
	if !ok {
		return "", errors.NewMissingFieldError(field)
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.NewValueError("features.FromMap",
			"field "+field+" must be a string")
	}
	return s, nil
}

func floatField(rec map[string]any, field string) (float64, error) {
	v, ok := rec[field]
	if !ok {
		return 0, errors.NewMissingFieldError(field)
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, errors.NewValueError("features.FromMap",
			"field "+field+" must be numeric")
	}
	return f, nil
}

func intField(rec map[string]any, field string) (int, error) {
	f, err := floatField(rec, field)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
