package eda

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/YuminosukeSato/scigo-knn/pkg/errors"
)

// ReadCSV reads a CSV table whose first record is the header. Every record
// must have as many fields as the header.
func ReadCSV(r io.Reader, opts ...ReadOption) (*Frame, error) {
	cfg := newReadConfig(opts)

	reader := csv.NewReader(r)
	reader.Comma = cfg.comma
	reader.FieldsPerRecord = 0 // header width
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Mark(errors.NewModelError("ReadCSV", "malformed CSV", err), errors.ErrInvalidInput)
	}
	if len(records) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "ReadCSV: no header")
	}

	header := records[0]
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	return NewFrame(header, records[1:], opts...)
}

// ReadCSVFile opens path and reads it with ReadCSV.
func ReadCSVFile(path string, opts ...ReadOption) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "ReadCSVFile: open %s", path)
	}
	defer f.Close()
	return ReadCSV(f, opts...)
}
