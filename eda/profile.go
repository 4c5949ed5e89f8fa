package eda

import (
	"encoding/binary"
	"io"
	"math"
	"os"
	"sort"
	"time"

	"github.com/RoaringBitmap/roaring"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/scigo-knn/pkg/errors"
	"github.com/YuminosukeSato/scigo-knn/pkg/log"
)

// DefaultCategoricalThreshold is the largest number of distinct values a
// column may have and still be reported as categorical.
const DefaultCategoricalThreshold = 12

// VariableKind is the role a column plays in the report.
type VariableKind int

const (
	// Categorical columns have at most the categorical threshold of distinct values.
	Categorical VariableKind = iota
	// Numerical columns are numeric columns above the threshold.
	Numerical
	// String columns are everything else.
	String
)

// String implements fmt.Stringer.
func (k VariableKind) String() string {
	switch k {
	case Categorical:
		return "categorical"
	case Numerical:
		return "numerical"
	default:
		return "string"
	}
}

// ValueCount is one row of a categorical value count table.
type ValueCount struct {
	Value     string
	Count     int
	Frequency float64
}

// CategoricalStats holds the value counts of one categorical column,
// ordered by descending count and then by value.
type CategoricalStats struct {
	Column string
	Counts []ValueCount
}

// NumericStats is the describe() row of one numerical column.
// Std is the sample standard deviation. Quantiles interpolate linearly
// between order statistics.
type NumericStats struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Q50    float64
	Q75    float64
	Max    float64
	Median float64
	IQR    float64
}

// OutlierCount is the number of values of a column at or beyond the
// fences Q25 - 1.5·IQR and Q75 + 1.5·IQR.
type OutlierCount struct {
	Column string
	Count  int
}

// Profile is the result of Analyze.
type Profile struct {
	Observations int
	Parameters   int

	Kinds       map[string]VariableKind
	Categorical []string
	Numerical   []string
	StringVars  []string

	CategoricalStats []CategoricalStats
	NumericStats     []NumericStats
	Outliers         []OutlierCount

	MissingValues  int
	DuplicatedRows int

	// PlotFiles lists the PNG files written when a plot directory is set.
	PlotFiles []string
}

// Option configures Analyze and RunEDA.
type Option func(*config)

type config struct {
	threshold int
	plotDir   string
	out       io.Writer
	logger    log.Logger
}

func newConfig(opts []Option) (config, error) {
	cfg := config{
		threshold: DefaultCategoricalThreshold,
		out:       os.Stdout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.threshold < 0 {
		return cfg, errors.NewValidationError("categorical_threshold", "must not be negative", cfg.threshold)
	}
	if cfg.logger == nil {
		cfg.logger = log.GetLoggerWithName("eda")
	}
	return cfg, nil
}

// WithCategoricalThreshold sets the distinct-value limit for categorical columns.
func WithCategoricalThreshold(n int) Option {
	return func(cfg *config) {
		cfg.threshold = n
	}
}

// WithPlotDir renders a histogram and a box plot per numerical column into dir.
func WithPlotDir(dir string) Option {
	return func(cfg *config) {
		cfg.plotDir = dir
	}
}

// WithOutput sets where RunEDA writes the report. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(cfg *config) {
		cfg.out = w
	}
}

// WithLogger sets the structured logger.
func WithLogger(l log.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}

// Analyze profiles f.
func Analyze(f *Frame, opts ...Option) (*Profile, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return analyze(f, cfg)
}

func analyze(f *Frame, cfg config) (p *Profile, err error) {
	defer errors.Recover(&err, "eda.Analyze")
	start := time.Now()

	if f == nil || f.NCols() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "eda.Analyze: empty frame")
	}

	p = &Profile{
		Observations: f.NRows(),
		Parameters:   f.NCols(),
		Kinds:        make(map[string]VariableKind, f.NCols()),
	}

	for _, c := range f.Columns() {
		counts := valueCounts(c)
		switch {
		case len(counts) <= cfg.threshold:
			p.Kinds[c.Name()] = Categorical
			p.Categorical = append(p.Categorical, c.Name())
			p.CategoricalStats = append(p.CategoricalStats, CategoricalStats{Column: c.Name(), Counts: counts})
		case c.IsNumeric():
			p.Kinds[c.Name()] = Numerical
			p.Numerical = append(p.Numerical, c.Name())
			ns := describe(c.Name(), c.Floats())
			p.NumericStats = append(p.NumericStats, ns)
			if n := countOutliers(c.Floats(), ns); n > 0 {
				p.Outliers = append(p.Outliers, OutlierCount{Column: c.Name(), Count: n})
			}
		default:
			p.Kinds[c.Name()] = String
			p.StringVars = append(p.StringVars, c.Name())
		}
		p.MissingValues += c.MissingCount()
	}
	p.DuplicatedRows = int(duplicatedRows(f).GetCardinality())

	if cfg.plotDir != "" {
		files, err := writePlots(f, p, cfg.plotDir)
		if err != nil {
			return nil, err
		}
		p.PlotFiles = files
	}

	cfg.logger.Debug("Analyze completed",
		log.OperationKey, log.OperationAnalyze,
		log.SamplesKey, p.Observations,
		log.ColumnsKey, p.Parameters,
		log.MissingKey, p.MissingValues,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return p, nil
}

// valueCounts counts the non-missing values of c, most frequent first.
// Frequencies are relative to the number of non-missing cells.
func valueCounts(c *Column) []ValueCount {
	counts := make(map[string]int)
	var numericKey map[string]float64
	if c.IsNumeric() {
		numericKey = make(map[string]float64)
	}
	total := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			continue
		}
		k := c.key(i)
		counts[k]++
		if numericKey != nil {
			numericKey[k] = c.values[i]
		}
		total++
	}

	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n, Frequency: float64(n) / float64(total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if numericKey != nil {
			return numericKey[out[i].Value] < numericKey[out[j].Value]
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// describe computes the summary statistics of a non-empty sample.
func describe(name string, values []float64) NumericStats {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	ns := NumericStats{
		Column: name,
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Std:    stat.StdDev(sorted, nil),
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		Q25:    quantile(sorted, 0.25),
		Q50:    quantile(sorted, 0.50),
		Q75:    quantile(sorted, 0.75),
	}
	ns.Median = ns.Q50
	ns.IQR = ns.Q75 - ns.Q25
	return ns
}

// quantile returns the p-quantile of sorted data interpolating linearly
// between the order statistics at floor and ceil of (n-1)·p.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

func countOutliers(values []float64, ns NumericStats) int {
	lower := ns.Q25 - 1.5*ns.IQR
	upper := ns.Q75 + 1.5*ns.IQR
	n := 0
	for _, v := range values {
		if v <= lower || v >= upper {
			n++
		}
	}
	return n
}

// duplicatedRows marks every row that has at least one identical row,
// including the first occurrence.
func duplicatedRows(f *Frame) *roaring.Bitmap {
	dups := roaring.New()
	first := make(map[string]int, f.NRows())
	cols := f.Columns()
	buf := make([]byte, 0, 64)
	for r := 0; r < f.NRows(); r++ {
		buf = buf[:0]
		for _, c := range cols {
			k := c.key(r)
			buf = binary.AppendUvarint(buf, uint64(len(k)))
			buf = append(buf, k...)
		}
		key := string(buf)
		if i, ok := first[key]; ok {
			dups.Add(uint32(i))
			dups.Add(uint32(r))
			continue
		}
		first[key] = r
	}
	return dups
}
