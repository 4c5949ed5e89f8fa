// Command eda prints an exploratory data analysis report for a CSV file.
//
//	eda [-threshold N] [-plots DIR] [-log-level LEVEL] file.csv
//
// Flag defaults are taken from EDA_CATEGORICAL_THRESHOLD, EDA_PLOT_DIR and
// EDA_LOG_LEVEL, which may also be set in a .env file in the working directory.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/YuminosukeSato/scigo-knn/eda"
	"github.com/YuminosukeSato/scigo-knn/pkg/errors"
	"github.com/YuminosukeSato/scigo-knn/pkg/log"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.GetLoggerWithName("cmd.eda").Error("eda failed", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(".env")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("eda", flag.ContinueOnError)
	fs.SetOutput(stderr)
	threshold := fs.Int("threshold", cfg.CategoricalThreshold, "maximum number of distinct values of a categorical column")
	plotDir := fs.String("plots", cfg.PlotDir, "directory for histogram and box plot PNGs (disabled when empty)")
	logLevel := fs.String("log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: eda [flags] file.csv")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.Mark(errors.Newf("expected one CSV file, got %d arguments", fs.NArg()), errors.ErrInvalidInput)
	}

	if err := log.SetupLogger(*logLevel); err != nil {
		return err
	}

	frame, err := eda.ReadCSVFile(fs.Arg(0))
	if err != nil {
		return err
	}
	return eda.RunEDA(frame,
		eda.WithCategoricalThreshold(*threshold),
		eda.WithPlotDir(*plotDir),
		eda.WithOutput(stdout),
	)
}
