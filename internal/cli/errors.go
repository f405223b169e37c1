package cli

import (
	"errors"

	"github.com/wacheck/wacheck/internal/csvio"
	"github.com/wacheck/wacheck/internal/session"
)

// ErrorHints returns suggestions printed below a fatal error.
func ErrorHints(err error) []string {
	var ioErr *csvio.IOError
	switch {
	case errors.Is(err, session.ErrForcedLogout):
		return []string{"Clear the stored session with: wacheck reset", "Then link the device again with: wacheck pair"}
	case errors.Is(err, session.ErrConnectionClosedEarly):
		return []string{
			"Check your network connection and run again",
			"If the QR code expired, run: wacheck pair",
		}
	case errors.As(err, &ioErr) && ioErr.Op == "open":
		return []string{"Pass the CSV file with --input, or set input.path in wacheck.toml"}
	case errors.As(err, &ioErr) && ioErr.Op == "read":
		return []string{"Check that --input names a readable CSV file, not a directory"}
	case errors.As(err, &ioErr) && ioErr.Op == "write":
		return []string{"Check that the --output directory exists and is writable"}
	}
	return nil
}
