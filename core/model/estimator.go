package model

import "gonum.org/v1/gonum/mat"

// LabelFitter は離散ラベルで学習するモデルのインターフェース
type LabelFitter interface {
	// Fit はモデルを訓練データ X とラベル y で学習させる
	Fit(X mat.Matrix, y []Label) error
}

// LabelPredictor はクエリごとにラベルを返すモデルのインターフェース
type LabelPredictor interface {
	// Predict は入力データの各行に対するラベルを返す
	Predict(X mat.Matrix) ([]Label, error)
}

// Classifier は分類モデルのインターフェース
type Classifier interface {
	LabelFitter
	LabelPredictor

	// Score は X に対する予測と y の正解率を返す
	Score(X mat.Matrix, y []Label) (float64, error)

	// Classes は学習時に見たラベルをソート順で返す
	Classes() []Label

	// IsFitted は学習済みかどうかを返す
	IsFitted() bool
}
