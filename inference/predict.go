// Package inference は保存済みモデルパッケージで単一レコードを採点する。
// 学習時と同じエンコーダ・特徴量順・スケーラをパッケージから引き出すので、
// 呼び出し側は生のフィールド値を渡すだけでよい。
package inference

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/socialpulse/addictml/bundle"
	"github.com/socialpulse/addictml/features"
	"github.com/socialpulse/addictml/pkg/errors"
	"github.com/socialpulse/addictml/pkg/log"
)

// Score bounds. Raw model output outside this range is clamped, never
// surfaced.
const (
	MinScore = 0.0
	MaxScore = 10.0
)

// Predict は1レコードの依存スコアを返す。値は常に [0, 10] に収まる。
//
// レコードは10個の正準フィールドを持つマップ。名義フィールドは学習時の
// 語彙でエンコードされ、未知カテゴリは UnknownCategoryError で拒否する。
// 余分なキーは無視する。
func Predict(pkg *bundle.ModelPackage, rec map[string]any) (float64, error) {
	if pkg == nil {
		return 0, errors.NewValueError("inference.Predict", "nil model package")
	}

	row, err := features.Build(rec, pkg.Encoders, pkg.FeatureOrder)
	if err != nil {
		return 0, err
	}

	if pkg.Scaler != nil {
		row, err = pkg.Scaler.TransformRow(row)
		if err != nil {
			return 0, err
		}
	}

	X := mat.NewDense(1, len(row), row)
	pred, err := pkg.Model.Predict(X)
	if err != nil {
		return 0, err
	}

	raw := pred.At(0, 0)
	if math.IsNaN(raw) {
		return 0, errors.NewValueError("inference.Predict",
			"model "+pkg.ModelName+" produced a NaN score")
	}
	score := clamp(raw)
	slog.Debug("record scored",
		slog.String(log.PhaseKey, "inference"),
		slog.String(log.OperationKey, "predict"),
		slog.String(log.ModelNameKey, pkg.ModelName),
		slog.Float64(log.ScoreKey, score),
		slog.String(log.LevelKey, Level(score)))
	return score, nil
}

// PredictWithLevel scores the record and classifies the result in one call.
func PredictWithLevel(pkg *bundle.ModelPackage, rec map[string]any) (float64, string, error) {
	score, err := Predict(pkg, rec)
	if err != nil {
		return 0, "", err
	}
	return score, Level(score), nil
}

func clamp(v float64) float64 {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}
