package ui

import (
	"fmt"
	"strings"
)

// FormatError returns a styled error message with optional fix suggestions.
// When color is disabled, plain text is returned.
func FormatError(msg string, suggestions ...string) string {
	return format(StyleBoldRed.Render("Error:"), msg, suggestions)
}

// FormatWarning is FormatError for conditions that do not stop the run.
func FormatWarning(msg string, suggestions ...string) string {
	return format(StyleWarning.Render(SymbolWarning+" Warning:"), msg, suggestions)
}

func format(prefix, msg string, suggestions []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", prefix, msg)
	if len(suggestions) == 0 {
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(StyleHint.Render("  Try:") + "\n")
	for _, s := range suggestions {
		fmt.Fprintf(&b, "    %s %s\n", StyleHint.Render(SymbolArrow), s)
	}
	return b.String()
}
