// Package bundle defines the model package: the immutable unit persisted by
// the trainer and consumed by every inference call. It is the only channel
// between training and inference; feature order and encoders travel inside
// it so the two sides can never drift apart.
package bundle

import (
	"github.com/socialpulse/addictml/core/model"
	"github.com/socialpulse/addictml/pkg/errors"
	"github.com/socialpulse/addictml/preprocessing"
)

// DefaultPath is the well-known location of the persisted model package.
const DefaultPath = "best_addiction_model.gob"

// scaleSensitive lists the algorithms whose predictions depend on feature
// magnitude and therefore require standardized inputs.
var scaleSensitive = map[string]bool{
	"KNN": true,
	"SVM": true,
}

// ScaleSensitive reports whether the named algorithm requires standardized
// features.
func ScaleSensitive(modelName string) bool {
	return scaleSensitive[modelName]
}

// ModelPackage bundles the winning model with every piece of preprocessing
// state needed to reproduce training-time features at inference time.
// It is created once by the trainer and never mutated afterwards, so any
// number of concurrent readers may share one instance without locking.
type ModelPackage struct {
	// Model is the fitted winner, erased behind the predict capability.
	Model model.Regressor

	// ModelName records which of the five candidate algorithms won.
	ModelName string

	// Scaler is set if and only if ModelName is scale-sensitive.
	Scaler *preprocessing.StandardScaler

	// Encoders maps each nominal field name to its fitted encoder.
	Encoders map[string]*preprocessing.LabelEncoder

	// FeatureOrder is the canonical ten-field order the model was trained
	// with.
	FeatureOrder []string
}

// Validate checks the package's structural invariants; a package read back
// from disk must pass before it serves predictions.
func (p *ModelPackage) Validate() error {
	if p.Model == nil {
		return errors.NewValueError("bundle.Validate", "package has no model")
	}
	if p.ModelName == "" {
		return errors.NewValueError("bundle.Validate", "package has no model name")
	}
	if len(p.FeatureOrder) == 0 {
		return errors.NewValueError("bundle.Validate", "package has no feature order")
	}

	if ScaleSensitive(p.ModelName) {
		if p.Scaler == nil {
			return errors.NewValueError("bundle.Validate",
				"scale-sensitive model "+p.ModelName+" is missing its scaler")
		}
	} else if p.Scaler != nil {
		return errors.NewValueError("bundle.Validate",
			"model "+p.ModelName+" must not carry a scaler")
	}

	for _, field := range p.FeatureOrder {
		enc, ok := p.Encoders[field]
		if !ok {
			continue // numeric field
		}
		if enc == nil || !enc.IsFitted() {
			return errors.NewValueError("bundle.Validate",
				"encoder for field "+field+" is not fitted")
		}
	}
	return nil
}
