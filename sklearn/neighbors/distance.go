package neighbors

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-knn/core/parallel"
	"github.com/YuminosukeSato/scigo-knn/pkg/errors"
)

// Strategy selects how ComputeDistances evaluates the distance matrix.
type Strategy int

const (
	// NoLoops tiles queries and references with Kronecker products and
	// reduces them in one vectorised pass. Uses O(M·N·D) memory.
	NoLoops Strategy = iota
	// OneLoop iterates queries and reduces each one against the whole
	// reference set.
	OneLoop
	// TwoLoops iterates every (query, reference) pair.
	TwoLoops
)

// oneLoopParallelThreshold is the number of query rows above which OneLoop
// fills rows concurrently.
const oneLoopParallelThreshold = 64

// StrategyFromLoops maps a loop count to a Strategy:
// 0 is NoLoops, 1 is OneLoop and anything else is TwoLoops.
func StrategyFromLoops(n int) Strategy {
	switch n {
	case 0:
		return NoLoops
	case 1:
		return OneLoop
	default:
		return TwoLoops
	}
}

// ParseStrategy parses "no_loops", "one_loop" or "two_loops".
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "no_loops":
		return NoLoops, nil
	case "one_loop":
		return OneLoop, nil
	case "two_loops":
		return TwoLoops, nil
	default:
		return NoLoops, errors.NewValidationError("strategy", "must be one of no_loops, one_loop, two_loops", s)
	}
}

// String implements fmt.Stringer.
func (s Strategy) String() string {
	switch s {
	case NoLoops:
		return "no_loops"
	case OneLoop:
		return "one_loop"
	case TwoLoops:
		return "two_loops"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

func (s Strategy) valid() bool {
	return s == NoLoops || s == OneLoop || s == TwoLoops
}

// DistanceMatrix is a dense, row-major M×N matrix of L1 distances where
// element (i, j) is the distance between query i and reference row j.
//
// Unlike mat.Dense it can hold zero rows, which is what ComputeDistances
// returns for an empty query set.
type DistanceMatrix struct {
	rows, cols int
	data       []float64
}

var _ mat.Matrix = (*DistanceMatrix)(nil)

func newDistanceMatrix(rows, cols int) *DistanceMatrix {
	return &DistanceMatrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// Dims returns the number of queries and reference rows.
func (d *DistanceMatrix) Dims() (r, c int) { return d.rows, d.cols }

// At returns the distance between query i and reference row j.
func (d *DistanceMatrix) At(i, j int) float64 {
	if uint(i) >= uint(d.rows) {
		panic(mat.ErrRowAccess)
	}
	if uint(j) >= uint(d.cols) {
		panic(mat.ErrColAccess)
	}
	return d.data[i*d.cols+j]
}

// T returns the transpose of the matrix.
func (d *DistanceMatrix) T() mat.Matrix { return mat.Transpose{Matrix: d} }

// RawRowView returns the distances of query i. The slice aliases the matrix.
func (d *DistanceMatrix) RawRowView(i int) []float64 {
	if uint(i) >= uint(d.rows) {
		panic(mat.ErrRowAccess)
	}
	return d.data[i*d.cols : (i+1)*d.cols : (i+1)*d.cols]
}

// Dense returns a copy as a *mat.Dense, or nil when the matrix has no rows.
func (d *DistanceMatrix) Dense() *mat.Dense {
	if d.rows == 0 || d.cols == 0 {
		return nil
	}
	data := make([]float64, len(d.data))
	copy(data, d.data)
	return mat.NewDense(d.rows, d.cols, data)
}

// ComputeDistances returns the M×N matrix of L1 distances between every row
// of queries (M×D) and every row of reference (N×D).
//
// reference must have at least one row and one column. An empty query set
// yields a 0×N matrix. A column count mismatch is reported as a
// DimensionError, never broadcast. NaN or Inf in queries is a
// NumericalInstabilityError.
func ComputeDistances(reference, queries mat.Matrix, strategy Strategy) (dist *DistanceMatrix, err error) {
	defer errors.Recover(&err, "ComputeDistances")

	if !strategy.valid() {
		return nil, errors.NewValidationError("strategy", "unknown distance strategy", int(strategy))
	}
	if reference == nil {
		return nil, errors.Wrap(errors.ErrEmptyData, "ComputeDistances: reference is nil")
	}
	n, d := reference.Dims()
	if n == 0 || d == 0 {
		return nil, errors.Wrapf(errors.ErrEmptyData, "ComputeDistances: reference has shape (%d, %d)", n, d)
	}
	if queries == nil {
		return newDistanceMatrix(0, n), nil
	}
	m, qd := queries.Dims()
	if m == 0 {
		return newDistanceMatrix(0, n), nil
	}
	if qd != d {
		return nil, errors.NewDimensionError("ComputeDistances", d, qd, 1)
	}
	if err := errors.CheckMatrix("ComputeDistances", queries, m, qd); err != nil {
		return nil, err
	}

	switch strategy {
	case TwoLoops:
		return twoLoops(reference, queries, m, n, d), nil
	case OneLoop:
		return oneLoop(reference, queries, m, n, d), nil
	default:
		return noLoops(reference, queries, m, n, d), nil
	}
}

func twoLoops(reference, queries mat.Matrix, m, n, d int) *DistanceMatrix {
	out := newDistanceMatrix(m, n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum float64
			for k := 0; k < d; k++ {
				sum += math.Abs(queries.At(i, k) - reference.At(j, k))
			}
			out.data[i*n+j] = sum
		}
	}
	return out
}

func oneLoop(reference, queries mat.Matrix, m, n, d int) *DistanceMatrix {
	out := newDistanceMatrix(m, n)
	onesN := ones(n)
	onesD := ones(d)

	parallel.ParallelizeWithThreshold(m, oneLoopParallelThreshold, func(start, end int) {
		var tile, diff mat.Dense
		q := mat.NewVecDense(d, nil)
		for i := start; i < end; i++ {
			for k := 0; k < d; k++ {
				q.SetVec(k, queries.At(i, k))
			}
			// 各行を q_i で埋めたN×Dのタイル
			tile.Outer(1, onesN, q)
			diff.Sub(&tile, reference)
			diff.Apply(absElem, &diff)
			row := mat.NewVecDense(n, out.data[i*n:(i+1)*n])
			row.MulVec(&diff, onesD)
		}
	})
	return out
}

func noLoops(reference, queries mat.Matrix, m, n, d int) *DistanceMatrix {
	out := newDistanceMatrix(m, n)

	// 行 i*N+j は q_i と r_j
	var qTiled, rTiled, diff mat.Dense
	qTiled.Kronecker(queries, mat.NewDense(n, 1, ones(n).RawVector().Data))
	rTiled.Kronecker(mat.NewDense(m, 1, ones(m).RawVector().Data), reference)
	diff.Sub(&qTiled, &rTiled)
	diff.Apply(absElem, &diff)

	flat := mat.NewVecDense(m*n, out.data)
	flat.MulVec(&diff, ones(d))
	return out
}

func absElem(_, _ int, v float64) float64 { return math.Abs(v) }

func ones(n int) *mat.VecDense {
	data := make([]float64, n)
	floats.AddConst(1, data)
	return mat.NewVecDense(n, data)
}
