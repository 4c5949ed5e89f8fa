package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/scigo-knn/pkg/errors"
)

// checkVecPair は2つのベクトルが空でなく同じ長さで、NaN/Inf を含まないことを確認する
func checkVecPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	n := yTrue.Len()
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	if err := errors.CheckNumericalStability(op, mat.Col(nil, 0, yTrue)); err != nil {
		return 0, err
	}
	if err := errors.CheckNumericalStability(op, mat.Col(nil, 0, yPred)); err != nil {
		return 0, err
	}
	return n, nil
}

// residuals は yTrue - yPred を新しいスライスで返す
func residuals(yTrue, yPred *mat.VecDense) []float64 {
	diff := mat.NewVecDense(yTrue.Len(), nil)
	diff.SubVec(yTrue, yPred)
	return diff.RawVector().Data
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkVecPair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	diff := residuals(yTrue, yPred)
	return floats.Dot(diff, diff) / float64(n), nil
}

// MSEMatrix は行列形式（n×1）の入力に対してMSEを計算する
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()

	if rTrue == 0 || cTrue == 0 {
		return 0, errors.NewValueError("MSEMatrix", "empty matrix")
	}
	if rTrue != rPred {
		return 0, errors.NewDimensionError("MSEMatrix", rTrue, rPred, 0)
	}
	if cTrue != cPred {
		return 0, errors.NewDimensionError("MSEMatrix", cTrue, cPred, 1)
	}
	if cTrue != 1 {
		return 0, errors.NewValueError("MSEMatrix", "must be a column vector (n×1 matrix)")
	}

	yTrueVec := mat.NewVecDense(rTrue, mat.Col(nil, 0, yTrue))
	yPredVec := mat.NewVecDense(rPred, mat.Col(nil, 0, yPred))
	return MSE(yTrueVec, yPredVec)
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkVecPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MAE = (1/n) * Σ|yTrue - yPred|
	return floats.Norm(residuals(yTrue, yPred), 1) / float64(n), nil
}

// R2Score は決定係数（R²）を計算する
//
// yTrue の分散が0の場合、完全一致なら1.0を返し、それ以外はエラーを返す。
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	if _, err := checkVecPair("R2Score", yTrue, yPred); err != nil {
		return 0, err
	}

	truth := mat.Col(nil, 0, yTrue)
	yMean := stat.Mean(truth, nil)

	// 全変動（TSS）と残差変動（RSS）
	var tss float64
	for _, v := range truth {
		tss += (v - yMean) * (v - yMean)
	}
	diff := residuals(yTrue, yPred)
	rss := floats.Dot(diff, diff)

	if tss == 0 {
		if rss == 0 {
			return 1.0, nil
		}
		return 0, errors.NewValueError("R2Score", "total sum of squares is zero (no variance in yTrue)")
	}

	// R² = 1 - RSS/TSS
	return 1 - rss/tss, nil
}

// MAPE は平均絶対パーセンテージ誤差（Mean Absolute Percentage Error）を計算する
// yTrue が0の要素は除外する。
func MAPE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkVecPair("MAPE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MAPE = (100/n) * Σ|yTrue - yPred|/|yTrue|
	var sum float64
	validCount := 0
	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		if yTrueVal == 0 {
			continue
		}
		sum += math.Abs(yTrueVal-yPred.AtVec(i)) / math.Abs(yTrueVal)
		validCount++
	}

	if validCount == 0 {
		return 0, errors.NewValueError("MAPE", "all yTrue values are zero")
	}

	return (sum / float64(validCount)) * 100, nil
}

// ExplainedVarianceScore は説明分散スコアを計算する
func ExplainedVarianceScore(yTrue, yPred *mat.VecDense) (float64, error) {
	if _, err := checkVecPair("ExplainedVarianceScore", yTrue, yPred); err != nil {
		return 0, err
	}

	// 母分散（ddof=0）で計算する
	truth := mat.Col(nil, 0, yTrue)
	_, varYTrue := stat.PopMeanVariance(truth, nil)
	_, varDiff := stat.PopMeanVariance(residuals(yTrue, yPred), nil)

	if varYTrue == 0 {
		return 0, errors.NewValueError("ExplainedVarianceScore", "no variance in yTrue")
	}

	// 説明分散スコア = 1 - Var(yTrue - yPred) / Var(yTrue)
	return 1 - varDiff/varYTrue, nil
}
