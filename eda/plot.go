package eda

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/scigo-knn/pkg/errors"
)

const (
	plotSize  = 15 * vg.Centimeter
	histBins  = 20
	boxWidth  = 2 * vg.Centimeter
	plotsPerm = 0o755
)

// writePlots saves hist_<column>.png and box_<column>.png for every
// numerical column and returns the written paths. Column names that
// sanitize to the same file name get a _2, _3, ... suffix.
func writePlots(f *Frame, p *Profile, dir string) ([]string, error) {
	if len(p.Numerical) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, plotsPerm); err != nil {
		return nil, errors.Wrapf(err, "create plot directory %s", dir)
	}

	var files []string
	used := make(map[string]bool, len(p.Numerical))
	for _, name := range p.Numerical {
		c, _ := f.Column(name)
		values := plotter.Values(c.Floats())
		base := uniqueFileName(sanitizeFileName(name), used)

		hist, err := histogramPlot(name, values)
		if err != nil {
			return files, err
		}
		path := filepath.Join(dir, "hist_"+base+".png")
		if err := hist.Save(plotSize, plotSize, path); err != nil {
			return files, errors.Wrapf(err, "save %s", path)
		}
		files = append(files, path)

		box, err := boxPlot(name, values)
		if err != nil {
			return files, err
		}
		path = filepath.Join(dir, "box_"+base+".png")
		if err := box.Save(plotSize/2, plotSize, path); err != nil {
			return files, errors.Wrapf(err, "save %s", path)
		}
		files = append(files, path)
	}
	return files, nil
}

func histogramPlot(name string, values plotter.Values) (*plot.Plot, error) {
	h, err := plotter.NewHist(values, histBins)
	if err != nil {
		return nil, errors.Wrapf(err, "histogram of %s", name)
	}
	p := plot.New()
	p.Title.Text = "Histogram of " + name
	p.X.Label.Text = name
	p.Y.Label.Text = "count"
	p.Add(h)
	return p, nil
}

func boxPlot(name string, values plotter.Values) (*plot.Plot, error) {
	b, err := plotter.NewBoxPlot(boxWidth, 0, values)
	if err != nil {
		return nil, errors.Wrapf(err, "box plot of %s", name)
	}
	p := plot.New()
	p.Title.Text = name
	p.Add(b)
	p.NominalX(name)
	return p, nil
}

func sanitizeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" {
		return "column"
	}
	return name
}

func uniqueFileName(base string, used map[string]bool) string {
	name := base
	for i := 2; used[name]; i++ {
		name = base + "_" + strconv.Itoa(i)
	}
	used[name] = true
	return name
}
