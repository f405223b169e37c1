// Package csvio reads phone numbers from CSV input files and writes
// verification results back out as CSV.
package csvio

import "fmt"

// IOError reports a failure to open, read, or write a CSV file.
type IOError struct {
	Op   string // "open", "read", "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s csv: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
