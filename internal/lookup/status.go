package lookup

import "fmt"

// Status is the outcome of a single registration query.
type Status int

const (
	StatusRegistered Status = iota + 1
	StatusNotRegistered
	StatusError
)

// String returns the display form written to result files.
func (s Status) String() string {
	switch s {
	case StatusRegistered:
		return "Registered"
	case StatusNotRegistered:
		return "Not Registered"
	case StatusError:
		return "Error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "Registered":
		return StatusRegistered, nil
	case "Not Registered":
		return StatusNotRegistered, nil
	case "Error":
		return StatusError, nil
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

// Result pairs an input number with the outcome of its query.
type Result struct {
	Number string
	Status Status
}

// Summary counts results per status.
type Summary struct {
	Total         int `json:"total"`
	Registered    int `json:"registered"`
	NotRegistered int `json:"not_registered"`
	Errors        int `json:"errors"`
}

// Summarize counts results per status.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusRegistered:
			s.Registered++
		case StatusNotRegistered:
			s.NotRegistered++
		case StatusError:
			s.Errors++
		}
	}
	return s
}
