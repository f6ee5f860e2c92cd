package preprocessing

import (
	"fmt"
	"sort"

	"github.com/socialpulse/addictml/core/model"
	"github.com/socialpulse/addictml/pkg/errors"
)

// LabelEncoder はカテゴリ値と整数コードの全単射を保持するエンコーダー。
// 学習データに現れた語彙をソート順で固定し、コードは語彙内の位置となる。
// 語彙は学習時に一度だけ確定し、以降は再計算せず保存されたものを使う。
type LabelEncoder struct {
	model.BaseEstimator

	// Field はこのエンコーダーが担当するフィールド名（エラーメッセージ用）
	Field string

	// Classes はソート済みの語彙。コードiはClasses[i]に対応する
	Classes []string
}

// NewLabelEncoder は指定フィールド用の新しいLabelEncoderを作成する
func NewLabelEncoder(field string) *LabelEncoder {
	return &LabelEncoder{Field: field}
}

// Fit は学習データの値から語彙を確定する。
// 重複を除いた値をソートし、その並びがそのまま整数コードを決める。
//
// パラメータ:
//   - values: 学習データに現れた値の列（重複可）
//
// 戻り値:
//   - error: 入力が空の場合のエラー
func (le *LabelEncoder) Fit(values []string) error {
	if len(values) == 0 {
		return errors.NewModelError("LabelEncoder.Fit", "empty data", errors.ErrEmptyData)
	}

	seen := make(map[string]struct{}, len(values))
	classes := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		classes = append(classes, v)
	}
	sort.Strings(classes)

	le.Classes = classes
	le.SetFitted()
	return nil
}

// Encode は値を整数コードに変換する。
// 語彙に存在しない値はUnknownCategoryErrorで拒否する（既定値への割り当てはしない）。
func (le *LabelEncoder) Encode(value string) (int, error) {
	if !le.IsFitted() {
		return 0, errors.NewNotFittedError("LabelEncoder", "Encode")
	}

	i := sort.SearchStrings(le.Classes, value)
	if i >= len(le.Classes) || le.Classes[i] != value {
		return 0, errors.NewUnknownCategoryError(le.Field, value, le.Classes)
	}
	return i, nil
}

// Decode は整数コードを元の値に戻す
func (le *LabelEncoder) Decode(code int) (string, error) {
	if !le.IsFitted() {
		return "", errors.NewNotFittedError("LabelEncoder", "Decode")
	}

	if code < 0 || code >= len(le.Classes) {
		return "", errors.NewValueError("LabelEncoder.Decode",
			fmt.Sprintf("code %d out of range [0, %d)", code, len(le.Classes)))
	}
	return le.Classes[code], nil
}

// String はエンコーダーの文字列表現を返す
func (le *LabelEncoder) String() string {
	if !le.IsFitted() {
		return fmt.Sprintf("LabelEncoder(field=%s)", le.Field)
	}
	return fmt.Sprintf("LabelEncoder(field=%s, n_classes=%d)", le.Field, len(le.Classes))
}
