package eda

import (
	"math"

	"github.com/RoaringBitmap/roaring"
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"

	"github.com/YuminosukeSato/scigo-knn/pkg/errors"
)

// FromRecord copies an Arrow record into a Frame.
//
// Integer and floating-point columns become numeric columns and their nulls
// and NaN values become missing cells. String columns go through the same inference and
// missing-token handling as ReadCSV, with nulls read as missing. Any other
// type is kept as text via ValueStr. The record is not released.
func FromRecord(rec arrow.Record, opts ...ReadOption) (*Frame, error) {
	if rec == nil {
		return nil, errors.Wrap(errors.ErrEmptyData, "FromRecord: nil record")
	}
	cfg := newReadConfig(opts)
	ncols := int(rec.NumCols())
	nrows := int(rec.NumRows())
	if ncols == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "FromRecord: record has no columns")
	}

	columns := make([]*Column, ncols)
	for i := 0; i < ncols; i++ {
		columns[i] = columnFromArray(rec.ColumnName(i), rec.Column(i), cfg)
	}
	return newFrame(columns, nrows)
}

func columnFromArray(name string, arr arrow.Array, cfg readConfig) *Column {
	n := arr.Len()
	nulls := roaring.New()
	for i := 0; i < n; i++ {
		if arr.IsNull(i) {
			nulls.Add(uint32(i))
		}
	}

	// NaN は CSV の "NaN" と同じく欠損扱い
	numeric := func(at func(i int) float64) *Column {
		values := make([]float64, n)
		for i := range values {
			if arr.IsNull(i) {
				continue
			}
			if v := at(i); math.IsNaN(v) {
				nulls.Add(uint32(i))
			} else {
				values[i] = v
			}
		}
		return newNumericColumn(name, values, nulls)
	}

	switch a := arr.(type) {
	case *array.Float64:
		return numeric(a.Value)
	case *array.Float32:
		return numeric(func(i int) float64 { return float64(a.Value(i)) })
	case *array.Int64:
		return numeric(func(i int) float64 { return float64(a.Value(i)) })
	case *array.Int32:
		return numeric(func(i int) float64 { return float64(a.Value(i)) })
	}

	cells := make([]string, n)
	for i := range cells {
		if arr.IsNull(i) {
			continue
		}
		if s, ok := arr.(*array.String); ok {
			cells[i] = s.Value(i)
		} else {
			cells[i] = arr.ValueStr(i)
		}
	}
	return newTextColumn(name, cells, cfg.missing, nulls)
}
