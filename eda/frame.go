// Package eda profiles tabular datasets: column kinds, category counts,
// descriptive statistics, 1.5×IQR outliers, missing cells and duplicated
// rows, rendered as a human-readable report.
package eda

import (
	"math"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/YuminosukeSato/scigo-knn/pkg/errors"
)

// DefaultMissingTokens are the cell values read as missing.
var DefaultMissingTokens = []string{"", "NA", "NaN", "nan", "null", "None"}

// Column is one named column of a Frame.
//
// Missing cells are tracked in a roaring bitmap keyed by row index. A column
// is numeric when every non-missing cell parses as a float.
type Column struct {
	name    string
	raw     []string
	values  []float64
	numeric bool
	missing *roaring.Bitmap
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Len returns the number of rows.
func (c *Column) Len() int { return len(c.raw) }

// IsNumeric reports whether every non-missing cell is a number.
func (c *Column) IsNumeric() bool { return c.numeric }

// IsMissing reports whether row i is missing.
func (c *Column) IsMissing(i int) bool { return c.missing.Contains(uint32(i)) }

// MissingCount returns the number of missing cells.
func (c *Column) MissingCount() int { return int(c.missing.GetCardinality()) }

// Raw returns the cell text of row i.
func (c *Column) Raw(i int) string { return c.raw[i] }

// Float returns the numeric value of row i. ok is false for missing cells
// and non-numeric columns.
func (c *Column) Float(i int) (v float64, ok bool) {
	if !c.numeric || c.IsMissing(i) {
		return 0, false
	}
	return c.values[i], true
}

// Floats returns the non-missing values of a numeric column in row order.
func (c *Column) Floats() []float64 {
	if !c.numeric {
		return nil
	}
	out := make([]float64, 0, c.Len()-c.MissingCount())
	for i, v := range c.values {
		if !c.IsMissing(i) {
			out = append(out, v)
		}
	}
	return out
}

// key returns the value identity of row i used for distinct counts and
// duplicate detection. Numeric cells compare by value, so "1" and "1.0"
// are the same key.
func (c *Column) key(i int) string {
	if c.IsMissing(i) {
		return "\x00NA"
	}
	if c.numeric {
		return formatFloat(c.values[i])
	}
	return c.raw[i]
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Frame is an in-memory table of equally long named columns.
type Frame struct {
	columns []*Column
	index   map[string]int
	nrows   int
}

// NRows returns the number of rows.
func (f *Frame) NRows() int { return f.nrows }

// NCols returns the number of columns.
func (f *Frame) NCols() int { return len(f.columns) }

// Columns returns the columns in header order.
func (f *Frame) Columns() []*Column { return f.columns }

// Column looks a column up by name.
func (f *Frame) Column(name string) (*Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.columns[i], true
}

// Header returns the column names in order.
func (f *Frame) Header() []string {
	out := make([]string, len(f.columns))
	for i, c := range f.columns {
		out[i] = c.name
	}
	return out
}

// ReadOption configures how cells are read into a Frame.
type ReadOption func(*readConfig)

type readConfig struct {
	missing map[string]struct{}
	comma   rune
}

func newReadConfig(opts []ReadOption) readConfig {
	cfg := readConfig{comma: ','}
	WithMissingTokens(DefaultMissingTokens...)(&cfg)
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithMissingTokens replaces the set of cell values read as missing.
func WithMissingTokens(tokens ...string) ReadOption {
	return func(cfg *readConfig) {
		cfg.missing = make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			cfg.missing[t] = struct{}{}
		}
	}
}

// WithComma sets the CSV field delimiter.
func WithComma(r rune) ReadOption {
	return func(cfg *readConfig) {
		cfg.comma = r
	}
}

// NewFrame builds a Frame from a header and rows of cell text.
func NewFrame(header []string, rows [][]string, opts ...ReadOption) (*Frame, error) {
	cfg := newReadConfig(opts)
	if len(header) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "NewFrame: empty header")
	}

	cols := make([][]string, len(header))
	for i := range cols {
		cols[i] = make([]string, len(rows))
	}
	for r, row := range rows {
		if len(row) != len(header) {
			return nil, errors.NewDimensionError("NewFrame", len(header), len(row), 1)
		}
		for c, cell := range row {
			cols[c][r] = cell
		}
	}

	columns := make([]*Column, len(header))
	for i, name := range header {
		columns[i] = newTextColumn(name, cols[i], cfg.missing, nil)
	}
	return newFrame(columns, len(rows))
}

func newFrame(columns []*Column, nrows int) (*Frame, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c.name]; dup {
			return nil, errors.NewValidationError("header", "duplicate column name", c.name)
		}
		if c.Len() != nrows {
			return nil, errors.NewDimensionError("NewFrame", nrows, c.Len(), 0)
		}
		index[c.name] = i
	}
	return &Frame{columns: columns, index: index, nrows: nrows}, nil
}

// newTextColumn infers whether cells are numeric and marks missing tokens.
// Rows already set in nulls (may be nil) are missing regardless of content.
func newTextColumn(name string, cells []string, missing map[string]struct{}, nulls *roaring.Bitmap) *Column {
	c := &Column{
		name:    name,
		raw:     cells,
		values:  make([]float64, len(cells)),
		numeric: true,
		missing: roaring.New(),
	}
	for i, cell := range cells {
		if nulls != nil && nulls.Contains(uint32(i)) {
			c.missing.Add(uint32(i))
			continue
		}
		if _, ok := missing[strings.TrimSpace(cell)]; ok {
			c.missing.Add(uint32(i))
			continue
		}
		if !c.numeric {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			c.numeric = false
			continue
		}
		c.values[i] = v
	}
	if !c.numeric {
		c.values = nil
	}
	return c
}

// newNumericColumn builds a numeric column from typed values.
func newNumericColumn(name string, values []float64, missing *roaring.Bitmap) *Column {
	raw := make([]string, len(values))
	for i, v := range values {
		if !missing.Contains(uint32(i)) {
			raw[i] = formatFloat(v)
		}
	}
	return &Column{name: name, raw: raw, values: values, numeric: true, missing: missing}
}
