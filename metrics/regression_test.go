package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-knn/pkg/errors"
)

func vec(v ...float64) *mat.VecDense {
	return mat.NewVecDense(len(v), v)
}

type vecMetric func(yTrue, yPred *mat.VecDense) (float64, error)

func TestRegressionMetrics(t *testing.T) {
	tests := []struct {
		name    string
		metric  vecMetric
		yTrue   *mat.VecDense
		yPred   *mat.VecDense
		want    float64
		wantErr bool
	}{
		{"MSE perfect", MSE, vec(1, 2, 3, 4, 5), vec(1, 2, 3, 4, 5), 0, false},
		// ((0.5)^2 * 4) / 4
		{"MSE simple", MSE, vec(1, 2, 3, 4), vec(1.5, 2.5, 2.5, 3.5), 0.25, false},
		// (4 + 4 + 9) / 3
		{"MSE larger errors", MSE, vec(10, 20, 30), vec(12, 18, 33), 17.0 / 3.0, false},
		{"MSE mismatch", MSE, vec(1, 2, 3), vec(1, 2), 0, true},
		{"MSE empty", MSE, &mat.VecDense{}, &mat.VecDense{}, 0, true},
		{"MSE nil", MSE, nil, nil, 0, true},

		{"RMSE unit offset", RMSE, vec(0, 0, 0, 0), vec(1, 1, 1, 1), 1, false},
		{"RMSE mismatch", RMSE, vec(1, 2, 3), vec(1, 2), 0, true},

		{"MAE simple", MAE, vec(1, 2, 3, 4), vec(1.5, 2.5, 2.5, 3.5), 0.5, false},
		{"MAE negative differences", MAE, vec(1, 2, 3, 4), vec(2, 1, 4, 3), 1, false},
		{"MAE mismatch", MAE, vec(1, 2, 3), vec(1, 2), 0, true},

		{"R2 perfect", R2Score, vec(1, 2, 3, 4, 5), vec(1, 2, 3, 4, 5), 1, false},
		{"R2 worse than mean", R2Score, vec(1, 2, 3, 4), vec(4, 3, 2, 1), -3, false},
		{"R2 constant truth, perfect prediction", R2Score, vec(3, 3, 3), vec(3, 3, 3), 1, false},
		{"R2 constant truth, imperfect prediction", R2Score, vec(3, 3, 3, 3, 3), vec(2, 3, 4, 3, 3), 0, true},
		{"R2 mismatch", R2Score, vec(1, 2, 3), vec(1, 2), 0, true},

		// (0.1 + 0.1) / 2 * 100
		{"MAPE skips zero truth", MAPE, vec(10, 0, 20), vec(11, 5, 18), 10, false},
		{"MAPE all zero truth", MAPE, vec(0, 0), vec(1, 1), 0, true},

		{"EVS perfect", ExplainedVarianceScore, vec(1, 2, 3), vec(1, 2, 3), 1, false},
		// residuals are constant, so their variance is zero
		{"EVS constant bias", ExplainedVarianceScore, vec(1, 2, 3), vec(2, 3, 4), 1, false},
		{"EVS no variance", ExplainedVarianceScore, vec(2, 2), vec(1, 3), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.metric(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMSEMatrix(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   mat.Matrix
		yPred   mat.Matrix
		want    float64
		wantErr bool
	}{
		{
			name:  "single column",
			yTrue: mat.NewDense(4, 1, []float64{1, 2, 3, 4}),
			yPred: mat.NewDense(4, 1, []float64{1.5, 2.5, 2.5, 3.5}),
			want:  0.25,
		},
		{
			name:    "multiple columns",
			yTrue:   mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
			yPred:   mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
			wantErr: true,
		},
		{
			name:    "row mismatch",
			yTrue:   mat.NewDense(3, 1, []float64{1, 2, 3}),
			yPred:   mat.NewDense(2, 1, []float64{1, 2}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSEMatrix(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MSEMatrix() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("MSEMatrix() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMSEMatrixDimensionAxis(t *testing.T) {
	tests := []struct {
		name          string
		yTrue, yPred  mat.Matrix
		expected, got int
		axis          int
	}{
		{"rows differ", mat.NewDense(3, 1, nil), mat.NewDense(2, 1, nil), 3, 2, 0},
		{"columns differ", mat.NewDense(2, 1, nil), mat.NewDense(2, 3, nil), 1, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MSEMatrix(tt.yTrue, tt.yPred)
			var dimErr *errors.DimensionError
			if !errors.As(err, &dimErr) {
				t.Fatalf("expected *DimensionError, got %T: %v", err, err)
			}
			if dimErr.Expected != tt.expected || dimErr.Got != tt.got || dimErr.Axis != tt.axis {
				t.Errorf("DimensionError = %+v, want expected=%d got=%d axis=%d",
					dimErr, tt.expected, tt.got, tt.axis)
			}
		})
	}
}

func TestMetricsRejectNonFinite(t *testing.T) {
	fns := map[string]vecMetric{
		"MSE":      MSE,
		"MAE":      MAE,
		"R2Score":  R2Score,
		"MAPE":     MAPE,
		"Accuracy": Accuracy,
	}
	for name, fn := range fns {
		t.Run(name, func(t *testing.T) {
			_, err := fn(vec(1, math.NaN(), 3), vec(1, 2, 3))
			var numErr *errors.NumericalInstabilityError
			if !errors.As(err, &numErr) {
				t.Fatalf("NaN in yTrue: expected *NumericalInstabilityError, got %v", err)
			}
			if _, err := fn(vec(1, 2, 3), vec(1, math.Inf(1), 3)); !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("Inf in yPred: expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestResidualsDoNotAliasInputs(t *testing.T) {
	yTrue := vec(1, 2, 3)
	yPred := vec(0, 0, 0)
	_, _ = MSE(yTrue, yPred)
	if yTrue.AtVec(0) != 1 || yPred.AtVec(0) != 0 {
		t.Error("metrics must not modify their inputs")
	}
}

// Benchmark tests
func BenchmarkMSE(b *testing.B) {
	size := 10000
	yTrue := mat.NewVecDense(size, nil)
	yPred := mat.NewVecDense(size, nil)
	for i := 0; i < size; i++ {
		yTrue.SetVec(i, float64(i))
		yPred.SetVec(i, float64(i)+0.1*float64(i%10))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = MSE(yTrue, yPred)
	}
}
