package csvio

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"
)

// DefaultColumn is the header of the column holding phone numbers.
const DefaultColumn = "number"

const utf8BOM = "\ufeff"

// ReadNumbers returns the trimmed, non-empty values of column from the CSV
// file at path, in file order.
func ReadNumbers(path, column string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	numbers, err := ParseNumbers(f, column)
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			ioErr.Path = path
		}
		return nil, err
	}
	return numbers, nil
}

// ParseNumbers reads CSV from r. The first record is the header. Rows that
// are too short to hold column, whose value is blank, or that fail to parse
// are skipped. A file with no usable header yields no numbers. Only a failure
// of r itself is returned as an error.
func ParseNumbers(r io.Reader, column string) ([]string, error) {
	if column == "" {
		column = DefaultColumn
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	cr.LazyQuotes = true

	var parseErr *csv.ParseError
	idx := -1
	header, err := cr.Read()
	switch {
	case err == io.EOF:
		return []string{}, nil
	case errors.As(err, &parseErr):
	case err != nil:
		return nil, &IOError{Op: "read", Err: err}
	default:
		idx = columnIndex(header, column)
	}
	numbers := []string{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if errors.As(err, &parseErr) {
			continue
		}
		if err != nil {
			return nil, &IOError{Op: "read", Err: err}
		}
		if idx < 0 || idx >= len(rec) {
			continue
		}
		if v := strings.TrimSpace(rec[idx]); v != "" {
			numbers = append(numbers, v)
		}
	}
	return numbers, nil
}

// columnIndex returns the position of name in header, or -1.
func columnIndex(header []string, name string) int {
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}
