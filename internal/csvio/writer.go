package csvio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/wacheck/wacheck/internal/lookup"
)

// Header is the first row of every results file.
var Header = []string{"Number", "WhatsApp Status"}

// WriteResults writes results to path, replacing any existing file.
func WriteResults(path string, results []lookup.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}

	bw := bufio.NewWriter(f)
	if err := EncodeResults(bw, results); err != nil {
		f.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// EncodeResults writes the header and one row per result, in order.
func EncodeResults(w io.Writer, results []lookup.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range results {
		if err := cw.Write([]string{r.Number, r.Status.String()}); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseResults reads a results file produced by EncodeResults.
func ParseResults(r io.Reader) ([]lookup.Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, &IOError{Op: "read", Err: err}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("results file has no header")
	}
	if rows[0][0] != Header[0] || rows[0][1] != Header[1] {
		return nil, fmt.Errorf("unexpected results header %q", rows[0])
	}

	results := make([]lookup.Result, 0, len(rows)-1)
	for i, row := range rows[1:] {
		status, err := lookup.ParseStatus(row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		results = append(results, lookup.Result{Number: row[0], Status: status})
	}
	return results, nil
}
