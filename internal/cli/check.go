package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wacheck/wacheck/internal/cli/ui"
	"github.com/wacheck/wacheck/internal/config"
	"github.com/wacheck/wacheck/internal/csvio"
	"github.com/wacheck/wacheck/internal/lookup"
	"github.com/wacheck/wacheck/internal/session"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check which numbers in a CSV file are on WhatsApp",
	Long: `Connect to WhatsApp, read the numbers column of the input CSV, ask for each
number in turn whether it has an account, and write the answers to the output CSV.

Numbers are checked one at a time with a pause after each query. The output has
one row per input number, in input order, with status "Registered",
"Not Registered", or "Error".`,
	Example: `wacheck check
wacheck check -i leads.csv -o leads-checked.csv
wacheck check --column phone --region GB --delay 3s
wacheck check --json`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringP("input", "i", "", "CSV file to read (default numbers.csv)")
	checkCmd.Flags().StringP("output", "o", "", "CSV file to write (default output.csv)")
	checkCmd.Flags().String("column", "", "Header of the column holding the numbers (default number)")
	checkCmd.Flags().Duration("delay", 0, "Pause after each query (default 2s)")
	checkCmd.Flags().String("region", "", "Region for numbers without a country code, e.g. US")
	addStoreFlags(checkCmd)
}

// checkSummary is the --json output of the check command.
type checkSummary struct {
	lookup.Summary
	Output string `json:"output"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	jsonOut, _ := cmd.Flags().GetBool("json")

	isTTY := colorEnabled()
	stderr := cmd.ErrOrStderr()
	logger, logLevel := newLogger(stderr, cfg.Logging.Level, cfg.Logging.Format)
	quietForTTY(logLevel, isTTY)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, closeClient, err := openClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeClient()

	sp := ui.NewStepSpinner(stderr, !isTTY)
	var reporter lookup.Reporter = lookup.NopReporter{}
	if !jsonOut {
		reporter = newProgressReporter(stderr, isTTY)
	}
	run := &checkRun{
		cfg:       cfg,
		transport: client,
		logger:    logger,
		renderer:  ui.NewQRRenderer(stderr, sp.Stop),
		reporter:  reporter,
		spinner:   sp,
		exit:      logoutExit(stderr, cfg),
	}

	summary, err := run.execute(ctx)
	if err != nil {
		if errors.Is(err, session.ErrForcedLogout) {
			run.exit(err)
		}
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("interrupted, no results written")
		}
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		return json.NewEncoder(out).Encode(checkSummary{Summary: summary, Output: cfg.Output.Path})
	}
	fmt.Fprintf(out, "\n  %s Done. Results saved to %s\n\n", boldGreen(ui.SymbolCheck, isTTY), bold(cfg.Output.Path, isTTY))
	if summary.Errors > 0 {
		fmt.Fprint(stderr, ui.FormatWarning(
			fmt.Sprintf("%d of %d numbers could not be checked and are marked Error.", summary.Errors, summary.Total),
			"Check the log output above for the failure reasons",
			"Run again with only those numbers once the connection is stable",
		))
	}
	return nil
}

// checkRun is one pass of the check command: connect, read the input, query
// every number, write the output. Nothing is written unless every step
// before the write succeeds.
type checkRun struct {
	cfg       *config.Config
	transport session.Transport
	logger    *slog.Logger
	renderer  session.ChallengeRenderer
	reporter  lookup.Reporter
	spinner   *ui.StepSpinner // optional
	exit      func(error)
	sleep     lookup.SleepFunc
}

func (r *checkRun) execute(ctx context.Context) (lookup.Summary, error) {
	conn := session.New(r.transport, session.Options{
		Logger:   r.logger,
		Renderer: r.renderer,
		Exit:     r.exit,
	})

	r.step("Connecting to WhatsApp")
	if err := conn.Start(ctx); err != nil {
		r.stepFailed()
		return lookup.Summary{}, err
	}
	r.stepDone()

	numbers, err := csvio.ReadNumbers(r.cfg.Input.Path, r.cfg.Input.Column)
	if err != nil {
		return lookup.Summary{}, err
	}
	r.logger.Info("numbers loaded", "input", r.cfg.Input.Path, "count", len(numbers))

	checker := lookup.NewChecker(r.transport, lookup.Options{
		Delay:    r.cfg.Check.Delay(),
		Reporter: r.reporter,
		Logger:   r.logger,
		Sleep:    r.sleep,
	})
	results, err := checker.Run(ctx, numbers)
	if err != nil {
		return lookup.Summary{}, err
	}

	if err := csvio.WriteResults(r.cfg.Output.Path, results); err != nil {
		return lookup.Summary{}, err
	}
	summary := lookup.Summarize(results)
	r.logger.Info("results written",
		"output", r.cfg.Output.Path,
		"total", summary.Total,
		"registered", summary.Registered,
		"not_registered", summary.NotRegistered,
		"errors", summary.Errors)
	return summary, nil
}

func (r *checkRun) step(msg string) {
	if r.spinner != nil {
		r.spinner.Start(msg)
	}
}

func (r *checkRun) stepDone() {
	if r.spinner != nil {
		r.spinner.Done()
	}
}

func (r *checkRun) stepFailed() {
	if r.spinner != nil {
		r.spinner.Fail()
	}
}
