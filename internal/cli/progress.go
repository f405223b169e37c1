package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/wacheck/wacheck/internal/cli/ui"
	"github.com/wacheck/wacheck/internal/lookup"
)

// progressReporter prints one line per checked number:
//
//	[ 3/10] +14155550123  → ✓ Registered
type progressReporter struct {
	w     io.Writer
	color bool
	width int
}

var _ lookup.Reporter = (*progressReporter)(nil)

func newProgressReporter(w io.Writer, color bool) *progressReporter {
	return &progressReporter{w: w, color: color}
}

func (p *progressReporter) Start(total int) {
	p.width = len(strconv.Itoa(total))
	noun := "numbers"
	if total == 1 {
		noun = "number"
	}
	fmt.Fprintf(p.w, "\n  Checking %s %s...\n\n", bold(strconv.Itoa(total), p.color), noun)
}

func (p *progressReporter) Result(index, total int, r lookup.Result) {
	counter := dim(fmt.Sprintf("[%*d/%d]", p.width, index, total), p.color)
	fmt.Fprintf(p.w, "  %s %-16s %s %s\n", counter, r.Number, ui.SymbolArrow, p.label(r.Status))
}

func (p *progressReporter) Done(s lookup.Summary) {
	fmt.Fprintln(p.w)
	fmt.Fprintf(p.w, "  %s registered, %s not registered, %s errors\n",
		green(strconv.Itoa(s.Registered), p.color),
		strconv.Itoa(s.NotRegistered),
		p.errorCount(s.Errors))
}

func (p *progressReporter) label(s lookup.Status) string {
	switch s {
	case lookup.StatusRegistered:
		return green(ui.SymbolCheck+" "+s.String(), p.color)
	case lookup.StatusNotRegistered:
		return dim(ui.SymbolCross+" "+s.String(), p.color)
	default:
		return red(ui.SymbolWarning+" "+s.String(), p.color)
	}
}

func (p *progressReporter) errorCount(n int) string {
	if n == 0 {
		return "0"
	}
	return yellow(strconv.Itoa(n), p.color)
}
