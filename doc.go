// Package addictml は学生のSNS依存スコアを推定する機械学習パイプライン。
//
// 5つの候補アルゴリズム(線形回帰・ランダムフォレスト・KNN・SVM・勾配
// ブースティング)を同一のシード付き分割で学習・評価し、ホールドアウト
// R² が最も高いものを勝者としてモデルパッケージに永続化する。推論側は
// パッケージを読み込み、レコード1件を [0, 10] のスコアと依存レベルに
// 変換する。
//
// 主要パッケージ:
//
//   - dataset: CSV読み込みとシード付きtrain/test分割
//   - preprocessing: ラベルエンコーダと標準化スケーラ
//   - features: 正準10特徴量の組み立て
//   - regressor: 候補アルゴリズムの実装
//   - training: 候補の学習・交差検証・勝者選定
//   - bundle: モデルパッケージの永続化
//   - inference: スコアリングとレベル分類
package addictml
