// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// 学習パイプラインと推論エンジンが返す型付きエラーをここに集約し、
// cockroachdb/errors によるスタックトレースと zerolog による構造化出力を提供します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("addictml-warning: %v\n", w)
	}
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
// データセット読み込み時の範囲外警告などの処理方法を制御できます。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// Warn は警告を発生させます。エラーとは異なり処理は継続されます。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if warningHandler != nil {
		warningHandler(w)
	}
}

// OutOfRangeWarning は学習データの値がフォームの想定範囲を外れている場合の警告です。
// 入力フォーム側で範囲制限されている前提のため、学習時は拒否せず警告のみ行います。
type OutOfRangeWarning struct {
	Field string
	Value interface{}
	Row   int
}

func (w *OutOfRangeWarning) Error() string {
	return fmt.Sprintf("row %d: field %q has out-of-range value %v", w.Row, w.Field, w.Value)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *OutOfRangeWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("field", w.Field).
		Interface("value", w.Value).
		Int("row", w.Row).
		Str("type", "OutOfRangeWarning")
}

// NewOutOfRangeWarning は新しいOutOfRangeWarningを作成します。
func NewOutOfRangeWarning(field string, value interface{}, row int) *OutOfRangeWarning {
	return &OutOfRangeWarning{Field: field, Value: value, Row: row}
}

// ===========================================================================
//
//	前処理のエラー型
//
// ===========================================================================

// UnknownCategoryError は学習時の語彙に存在しないカテゴリ値をエンコードしようとした
// 場合のエラーです。既定のコードへ黙って割り当てることはせず、必ず拒否します。
type UnknownCategoryError struct {
	Field string
	Value string
	Known []string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("addictml: unknown category %q for field %q (vocabulary: %v)", e.Value, e.Field, e.Known)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *UnknownCategoryError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("field", e.Field).
		Str("value", e.Value).
		Strs("vocabulary", e.Known).
		Str("type", "UnknownCategoryError")
}

// NewUnknownCategoryError は新しいUnknownCategoryErrorを作成し、スタックトレースを付与します。
func NewUnknownCategoryError(field, value string, known []string) error {
	err := &UnknownCategoryError{Field: field, Value: value, Known: known}
	return errors.WithStack(err)
}

// MissingFieldError は入力レコードに必須フィールドが欠けている場合のエラーです。
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("addictml: record is missing required field %q", e.Field)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *MissingFieldError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("field", e.Field).
		Str("type", "MissingFieldError")
}

// NewMissingFieldError は新しいMissingFieldErrorを作成し、スタックトレースを付与します。
func NewMissingFieldError(field string) error {
	err := &MissingFieldError{Field: field}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	モデルライフサイクルのエラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Predict` や `Transform` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("addictml: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// ModelUnavailableError は永続化されたモデルパッケージが読み込めない場合のエラーです。
// ファイルの欠落と破損を区別せず、推論を開始できないことを表します。
type ModelUnavailableError struct {
	Path string
	Err  error
}

func (e *ModelUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("addictml: model package unavailable at %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("addictml: model package unavailable at %q", e.Path)
}

func (e *ModelUnavailableError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ModelUnavailableError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).
		AnErr("cause", e.Err).
		Str("type", "ModelUnavailableError")
}

// NewModelUnavailableError は新しいModelUnavailableErrorを作成し、スタックトレースを付与します。
func NewModelUnavailableError(path string, cause error) error {
	err := &ModelUnavailableError{Path: path, Err: cause}
	return errors.WithStack(err)
}

// TrainingError は候補モデルの学習または評価が失敗した場合のエラーです。
// 学習パイプラインは部分的な結果を残さず、このエラーで全体を中断します。
type TrainingError struct {
	Candidate string
	Stage     string // "fit", "predict", "cross_validation"
	Err       error
}

func (e *TrainingError) Error() string {
	return fmt.Sprintf("addictml: training failed for candidate %q during %s: %v", e.Candidate, e.Stage, e.Err)
}

func (e *TrainingError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *TrainingError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("candidate", e.Candidate).
		Str("stage", e.Stage).
		AnErr("cause", e.Err).
		Str("type", "TrainingError")
}

// NewTrainingError は新しいTrainingErrorを作成し、スタックトレースを付与します。
func NewTrainingError(candidate, stage string, cause error) error {
	err := &TrainingError{Candidate: candidate, Stage: stage, Err: cause}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	汎用エラー型
//
// ===========================================================================

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("addictml: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("addictml: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError は機械学習モデルに関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("addictml: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("addictml: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異行列の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")
)
