package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wacheck/wacheck/internal/cli/ui"
	"github.com/wacheck/wacheck/internal/session"
)

var pairCmd = &cobra.Command{
	Use:   "pair",
	Short: "Link wacheck to a WhatsApp account",
	Long: `Connect to WhatsApp and, if no device is stored yet, show a QR code to scan
from WhatsApp > Linked devices on your phone. The session keys are saved to the
credential store so later runs connect without scanning.`,
	Example: `wacheck pair
wacheck pair --store /var/lib/wacheck/session.db`,
	Args: cobra.NoArgs,
	RunE: runPair,
}

func init() {
	addStoreFlags(pairCmd)
}

func runPair(cmd *cobra.Command, args []string) error {
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

	alreadyPaired := client.AccountJID() != ""
	sp := ui.NewStepSpinner(stderr, !isTTY)
	exit := logoutExit(stderr, cfg)
	conn := session.New(client, session.Options{
		Logger:   logger,
		Renderer: ui.NewQRRenderer(stderr, sp.Stop),
		Exit:     exit,
	})

	sp.Start("Connecting to WhatsApp")
	if err := conn.Start(ctx); err != nil {
		sp.Fail()
		if errors.Is(err, session.ErrForcedLogout) {
			exit(err)
		}
		return err
	}
	sp.Done()

	jid := client.AccountJID()
	out := cmd.OutOrStdout()
	if jsonOut {
		return json.NewEncoder(out).Encode(map[string]any{
			"paired":         true,
			"jid":            jid,
			"already_paired": alreadyPaired,
		})
	}
	if alreadyPaired {
		fmt.Fprintf(out, "  %s Already paired as %s\n", ui.SymbolCheck, bold(jid, isTTY))
		return nil
	}
	fmt.Fprintf(out, "  %s Paired as %s\n", boldGreen(ui.SymbolCheck, isTTY), bold(jid, isTTY))
	fmt.Fprintf(out, "  %s\n", dim("Session saved to "+storeLocation(cfg), isTTY))
	return nil
}
