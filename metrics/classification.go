package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-knn/core/model"
	"github.com/YuminosukeSato/scigo-knn/pkg/errors"
)

// Accuracy は数値エンコードされたラベルの正解率を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkVecPair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ClassificationError は誤分類率（1 - Accuracy）を計算する
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// BinaryScores は二値分類の評価指標
type BinaryScores struct {
	Precision float64
	Recall    float64
	F1        float64
	Accuracy  float64
}

// ConfusionCounts は陽性ラベルに対する混同行列の各セル
type ConfusionCounts struct {
	TP, FP, TN, FN int
}

// checkLabelPair は2つのラベル列が空でなく同じ長さであることを確認する
func checkLabelPair(op string, yTrue, yPred []model.Label) error {
	if len(yTrue) == 0 {
		return errors.NewValueError(op, "empty label slice")
	}
	if len(yPred) != len(yTrue) {
		return errors.NewDimensionError(op, len(yTrue), len(yPred), 0)
	}
	return nil
}

// BinaryConfusion は positive を陽性として混同行列を数える
// positive と一致しないラベルはすべて陰性として扱う。
func BinaryConfusion(yTrue, yPred []model.Label, positive model.Label) (ConfusionCounts, error) {
	if err := checkLabelPair("BinaryConfusion", yTrue, yPred); err != nil {
		return ConfusionCounts{}, err
	}
	if !positive.IsValid() {
		return ConfusionCounts{}, errors.NewValidationError("positive", "positive label must be set", positive.String())
	}

	var c ConfusionCounts
	for i := range yTrue {
		actual := yTrue[i] == positive
		predicted := yPred[i] == positive
		switch {
		case actual && predicted:
			c.TP++
		case !actual && predicted:
			c.FP++
		case actual && !predicted:
			c.FN++
		default:
			c.TN++
		}
	}
	return c, nil
}

// BinaryClassificationMetrics は precision, recall, F1, accuracy を計算する
//
// 分母が0になる指標は0とし、UndefinedMetricWarning を発生させる:
//   - precision: 陽性と予測されたサンプルがない
//   - recall: 陽性の正解サンプルがない
//   - F1: precision と recall がともに0
func BinaryClassificationMetrics(yTrue, yPred []model.Label, positive model.Label) (BinaryScores, error) {
	c, err := BinaryConfusion(yTrue, yPred, positive)
	if err != nil {
		return BinaryScores{}, err
	}

	var s BinaryScores
	s.Accuracy = float64(c.TP+c.TN) / float64(len(yTrue))
	s.Precision = errors.SafeDivide(float64(c.TP), float64(c.TP+c.FP))
	s.Recall = errors.SafeDivide(float64(c.TP), float64(c.TP+c.FN))
	s.F1 = errors.SafeDivide(2*s.Precision*s.Recall, s.Precision+s.Recall)

	if c.TP+c.FP == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted samples", 0))
	}
	if c.TP+c.FN == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("recall", "no true samples", 0))
	}
	if s.Precision+s.Recall == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("f1", "precision and recall are both zero", 0))
	}

	return s, nil
}

// MulticlassAccuracy はラベル列の正解率を計算する
func MulticlassAccuracy(yTrue, yPred []model.Label) (float64, error) {
	if err := checkLabelPair("MulticlassAccuracy", yTrue, yPred); err != nil {
		return 0, err
	}

	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}
