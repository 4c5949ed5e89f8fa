package eda

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/YuminosukeSato/scigo-knn/pkg/errors"
)

const greeting = "Greetings, stranger! Please get acquainted with data"

// WriteReport renders the profile as text.
func (p *Profile) WriteReport(w io.Writer) error {
	rw := &reportWriter{w: w}

	rw.printf("%s\n\n", greeting)
	rw.printf("Number of observations: %d\n", p.Observations)
	rw.printf("Number of parameters: %d\n\n", p.Parameters)

	rw.printf("Categorical variables: %s\n", strings.Join(p.Categorical, ", "))
	rw.printf("Numerical variables: %s\n", strings.Join(p.Numerical, ", "))
	rw.printf("String variables: %s\n\n", strings.Join(p.StringVars, ", "))

	rw.printf("Categorical variables statistics:\n")
	for _, cs := range p.CategoricalStats {
		rw.table(func(tw *tabwriter.Writer) {
			fmt.Fprintf(tw, "%s\tcounts\tfrequencies\n", cs.Column)
			for _, vc := range cs.Counts {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", vc.Value, vc.Count, formatStat(vc.Frequency))
			}
		})
		rw.printf("\n")
	}

	rw.printf("Numerical variables statistics:\n")
	if len(p.NumericStats) > 0 {
		rw.table(func(tw *tabwriter.Writer) {
			fmt.Fprintln(tw, "\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax\tmedian\tIQR")
			for _, ns := range p.NumericStats {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					ns.Column, ns.Count,
					formatStat(ns.Mean), formatStat(ns.Std),
					formatStat(ns.Min), formatStat(ns.Q25), formatStat(ns.Q50),
					formatStat(ns.Q75), formatStat(ns.Max),
					formatStat(ns.Median), formatStat(ns.IQR))
			}
		})
	}
	rw.printf("\n")

	if len(p.Outliers) > 0 {
		rw.table(func(tw *tabwriter.Writer) {
			fmt.Fprintln(tw, "\tNumber of outliers")
			for _, o := range p.Outliers {
				fmt.Fprintf(tw, "%s\t%d\n", o.Column, o.Count)
			}
		})
	}

	rw.printf("Number of missing values: %d\n", p.MissingValues)
	rw.printf("Number of duplicated rows: %d\n", p.DuplicatedRows)

	if rw.err != nil {
		return errors.Wrap(rw.err, "WriteReport")
	}
	return nil
}

// String returns the rendered report.
func (p *Profile) String() string {
	var sb strings.Builder
	_ = p.WriteReport(&sb)
	return sb.String()
}

// RunEDA analyzes f and writes the report to standard output, or to the
// writer given with WithOutput.
func RunEDA(f *Frame, opts ...Option) error {
	cfg, err := newConfig(opts)
	if err != nil {
		return err
	}
	p, err := analyze(f, cfg)
	if err != nil {
		return err
	}
	return p.WriteReport(cfg.out)
}

// reportWriter keeps the first write error so rendering can proceed without
// checking every call.
type reportWriter struct {
	w   io.Writer
	err error
}

func (rw *reportWriter) printf(format string, args ...interface{}) {
	if rw.err != nil {
		return
	}
	_, rw.err = fmt.Fprintf(rw.w, format, args...)
}

func (rw *reportWriter) table(fill func(tw *tabwriter.Writer)) {
	if rw.err != nil {
		return
	}
	tw := tabwriter.NewWriter(rw.w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fill(tw)
	rw.err = tw.Flush()
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
