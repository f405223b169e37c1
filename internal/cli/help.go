package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/wacheck/wacheck/internal/cli/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Command group IDs.
const (
	groupCheck   = "check"
	groupSession = "session"
	groupConfig  = "config"
)

// initHelp wires up styled help/usage rendering and command groups.
func initHelp() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupCheck, Title: "CHECK"},
		&cobra.Group{ID: groupSession, Title: "SESSION"},
		&cobra.Group{ID: groupConfig, Title: "CONFIGURATION"},
	)

	assign := map[string]string{
		"check": groupCheck,

		"pair":   groupSession,
		"status": groupSession,
		"reset":  groupSession,

		"config":  groupConfig,
		"version": groupConfig,
	}
	for _, cmd := range rootCmd.Commands() {
		if gid, ok := assign[cmd.Name()]; ok {
			cmd.GroupID = gid
		}
	}

	rootCmd.SetHelpFunc(styledHelp)
	rootCmd.SetUsageFunc(styledUsage)
}

// styledHelp renders colorful help output.
func styledHelp(cmd *cobra.Command, _ []string) {
	c := colorEnabled()
	w := cmd.ErrOrStderr()

	// Description.
	if cmd.Long != "" {
		fmt.Fprintln(w)
		if cmd == rootCmd {
			fmt.Fprintf(w, "  %s %s\n", ui.BrandEmoji, boldCyan("wacheck", c))
			fmt.Fprintln(w)
			for _, line := range strings.Split(cmd.Long, "\n") {
				if strings.TrimSpace(line) == "" {
					fmt.Fprintln(w)
				} else if strings.HasPrefix(line, "  ") {
					fmt.Fprintf(w, "    %s\n", green(strings.TrimSpace(line), c))
				} else {
					fmt.Fprintf(w, "  %s\n", dim(line, c))
				}
			}
		} else {
			for _, line := range strings.Split(cmd.Long, "\n") {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	} else if cmd.Short != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", cmd.Short)
	}

	fmt.Fprintln(w)

	// Usage.
	fmt.Fprintf(w, "%s\n", heading("USAGE", c))
	useLine := cmd.UseLine()
	if cmd.HasAvailableSubCommands() {
		useLine = cmd.CommandPath() + " [command]"
	}
	fmt.Fprintf(w, "  %s\n", useLine)
	fmt.Fprintln(w)

	// Examples.
	if cmd.Example != "" {
		fmt.Fprintf(w, "%s\n", heading("EXAMPLES", c))
		for _, line := range strings.Split(cmd.Example, "\n") {
			if strings.TrimSpace(line) == "" {
				fmt.Fprintln(w)
			} else {
				fmt.Fprintf(w, "  %s\n", green(strings.TrimSpace(line), c))
			}
		}
		fmt.Fprintln(w)
	}

	// Subcommands.
	printCommands(cmd, c)

	// Flags.
	printFlags(cmd, c)

	// Input format (root only).
	if cmd == rootCmd {
		fmt.Fprintf(w, "%s\n", heading("INPUT", c))
		for _, ex := range [][2]string{
			{"number", "# header row names the column"},
			{"+14155550123", "# international form"},
			{"4155550124", "# national form, needs --region"},
		} {
			fmt.Fprintf(w, "  %s  %s\n", green(fmt.Sprintf("%-12s", ex[0]), c), dim(ex[1], c))
		}
		fmt.Fprintln(w)
	}

	// Footer hint.
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "%s\n",
			dim(fmt.Sprintf("Use \"%s [command] --help\" for more information about a command.", cmd.CommandPath()), c))
		fmt.Fprintln(w)
	}
}

// styledUsage renders just the usage section (shown on errors).
func styledUsage(cmd *cobra.Command) error {
	styledHelp(cmd, nil)
	return nil
}

// printCommands lists subcommands under their group headings. Commands with
// no group, and all commands of a parent without groups, go under COMMANDS.
func printCommands(cmd *cobra.Command, c bool) {
	if !cmd.HasAvailableSubCommands() {
		return
	}
	w := cmd.ErrOrStderr()

	byGroup := make(map[string][]*cobra.Command)
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() {
			byGroup[sub.GroupID] = append(byGroup[sub.GroupID], sub)
		}
	}

	section := func(title string, cmds []*cobra.Command) {
		if len(cmds) == 0 {
			return
		}
		fmt.Fprintf(w, "%s\n", heading(title, c))
		printCommandList(w, cmds, c)
		fmt.Fprintln(w)
	}
	for _, g := range cmd.Groups() {
		section(g.Title, byGroup[g.ID])
	}
	section("COMMANDS", byGroup[""])
}

// printCommandList renders names padded to a common width, then the short
// description.
func printCommandList(w io.Writer, cmds []*cobra.Command, c bool) {
	width := 0
	for _, cmd := range cmds {
		width = max(width, len(cmd.Name()))
	}
	for _, cmd := range cmds {
		fmt.Fprintf(w, "  %s%s\n", bold(fmt.Sprintf("%-*s", width+4, cmd.Name()), c), dim(cmd.Short, c))
	}
}

// printFlags renders the root's flags in one block, and a subcommand's own
// flags apart from the ones it inherits.
func printFlags(cmd *cobra.Command, c bool) {
	w := cmd.ErrOrStderr()
	block := func(title string, fs *pflag.FlagSet) {
		if !hasVisibleFlags(fs) {
			return
		}
		fmt.Fprintf(w, "%s\n", heading(title, c))
		printFlagSet(w, fs, c)
		fmt.Fprintln(w)
	}

	if cmd == rootCmd {
		block("FLAGS", cmd.Flags())
		return
	}
	block("FLAGS", cmd.LocalNonPersistentFlags())
	block("GLOBAL FLAGS", cmd.InheritedFlags())
}

// printFlagSet colors pflag's own aligned usage lines.
func printFlagSet(w io.Writer, fs *pflag.FlagSet, c bool) {
	for _, line := range strings.Split(strings.TrimRight(fs.FlagUsages(), "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			fmt.Fprintln(w, colorizeFlag(line, c))
		}
	}
}

// colorizeFlag paints the flag part of a usage line cyan and the description
// dim. pflag separates the two with at least three spaces.
func colorizeFlag(line string, c bool) string {
	if !c {
		return line
	}
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]

	flag, desc, ok := strings.Cut(trimmed, "   ")
	desc = strings.TrimLeft(desc, " ")
	if !ok || desc == "" {
		return indent + cyan(trimmed, c)
	}
	return indent + cyan(flag, c) + "   " + dim(desc, c)
}

func hasVisibleFlags(fs *pflag.FlagSet) bool {
	visible := false
	fs.VisitAll(func(f *pflag.Flag) {
		visible = visible || !f.Hidden
	})
	return visible
}

func heading(title string, c bool) string {
	return boldCyan(title, c)
}
