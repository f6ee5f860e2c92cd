package features

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/socialpulse/addictml/pkg/errors"
	"github.com/socialpulse/addictml/preprocessing"
)

// Build assembles the feature vector for one raw record, in the given field
// order. Nominal fields are encoded with the matching encoder; numeric fields
// pass through unchanged.
//
// Missing keys fail with MissingFieldError and out-of-vocabulary categories
// propagate UnknownCategoryError. Extra keys are ignored so forward-compatible
// callers can attach metadata without breaking inference.
func Build(rec map[string]any, encoders map[string]*preprocessing.LabelEncoder, order []string) ([]float64, error) {
	vector := make([]float64, len(order))

	for i, field := range order {
		value, ok := rec[field]
		if !ok {
			return nil, errors.NewMissingFieldError(field)
		}

		if enc, nominal := encoders[field]; nominal {
			s, ok := value.(string)
			if !ok {
				return nil, errors.NewValueError("features.Build",
					fmt.Sprintf("nominal field %q must be a string, got %T", field, value))
			}
			code, err := enc.Encode(s)
			if err != nil {
				return nil, err
			}
			vector[i] = float64(code)
			continue
		}

		f, err := toFloat(value)
		if err != nil {
			return nil, errors.NewValueError("features.Build",
				fmt.Sprintf("numeric field %q: %v", field, err))
		}
		vector[i] = f
	}

	return vector, nil
}

// BuildMatrix assembles the n_samples × n_features design matrix for a slice
// of raw records. The first failing record aborts the whole build.
func BuildMatrix(records []map[string]any, encoders map[string]*preprocessing.LabelEncoder, order []string) (*mat.Dense, error) {
	if len(records) == 0 {
		return nil, errors.NewModelError("features.BuildMatrix", "empty data", errors.ErrEmptyData)
	}

	X := mat.NewDense(len(records), len(order), nil)
	for i, rec := range records {
		row, err := Build(rec, encoders, order)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
		X.SetRow(i, row)
	}
	return X, nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", v)
	}
}
