package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wacheck/wacheck/internal/cli/ui"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the paired WhatsApp device",
	Long: `Delete the paired device from the credential store. The next check or pair
shows a fresh QR code. Run this after WhatsApp logs the device out.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	addStoreFlags(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	jsonOut, _ := cmd.Flags().GetBool("json")
	logger, _ := newLogger(cmd.ErrOrStderr(), "warn", cfg.Logging.Format)

	st, err := openStore(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	removed, err := st.Reset(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		return json.NewEncoder(out).Encode(map[string]any{"removed": removed})
	}
	c := colorEnabled()
	if !removed {
		fmt.Fprintf(out, "  %s\n", dim("No paired device in "+storeLocation(cfg), c))
		return nil
	}
	fmt.Fprintf(out, "  %s Paired device removed. Run %s to link again.\n", green(ui.SymbolCheck, c), bold("wacheck pair", c))
	return nil
}
