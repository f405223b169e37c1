package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// StepSpinner provides animated feedback for a blocking step such as
// connecting. In TTY mode it shows a braille dot spinner; in non-TTY mode it
// prints static text so piped/CI output stays clean.
type StepSpinner struct {
	mu     sync.Mutex
	w      io.Writer
	s      *spinner.Spinner
	msg    string
	active bool
	noSpin bool // true when not a TTY
	open   bool // static line printed without its status yet
}

// NewStepSpinner creates a spinner that writes to w.
// Set noSpin=true for non-interactive environments.
func NewStepSpinner(w io.Writer, noSpin bool) *StepSpinner {
	return &StepSpinner{w: w, noSpin: noSpin}
}

// Start begins a named step with an animated spinner (or static text).
func (ss *StepSpinner) Start(msg string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.msg = msg
	if ss.noSpin {
		fmt.Fprintf(ss.w, "  %s", msg)
		ss.open = true
		return
	}
	ss.s = spinner.New(
		spinner.CharSets[14], // braille dots: ⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏
		80*time.Millisecond,
		spinner.WithWriter(ss.w),
	)
	ss.s.Prefix = "  "
	ss.s.Suffix = " " + msg
	ss.s.FinalMSG = ""
	ss.s.Start()
	ss.active = true
}

// Done completes the current step with a green checkmark.
func (ss *StepSpinner) Done() {
	ss.finish(StyleSuccess.Render(SymbolCheck))
}

// Fail completes the current step with a red cross.
func (ss *StepSpinner) Fail() {
	ss.finish(StyleError.Render(SymbolCross))
}

// Stop halts the spinner without printing a status, e.g. before a QR code
// is drawn. In non-TTY mode it ends the pending line.
func (ss *StepSpinner) Stop() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.noSpin {
		if ss.open {
			fmt.Fprintln(ss.w)
			ss.open = false
		}
		return
	}
	if ss.s != nil && ss.active {
		ss.s.Stop()
		ss.active = false
	}
}

func (ss *StepSpinner) finish(mark string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.noSpin {
		if ss.open {
			fmt.Fprintf(ss.w, " %s\n", mark)
			ss.open = false
			return
		}
		fmt.Fprintf(ss.w, "  %s %s\n", ss.msg, mark)
		return
	}
	if ss.s != nil && ss.active {
		ss.s.Stop()
		ss.active = false
	}
	fmt.Fprintf(ss.w, "\r  %s %s\n", ss.msg, mark)
}
