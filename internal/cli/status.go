package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wacheck/wacheck/internal/cli/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a WhatsApp device is paired",
	Long: `Read the credential store without connecting and report the paired account,
if any.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	addStoreFlags(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	jid, err := st.Paired(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		return json.NewEncoder(out).Encode(map[string]any{
			"paired": jid != "",
			"jid":    jid,
			"store":  storeLocation(cfg),
		})
	}

	c := colorEnabled()
	if jid == "" {
		fmt.Fprintf(out, "  %s Not paired %s\n", yellow(ui.SymbolCross, c), dim("("+storeLocation(cfg)+")", c))
		fmt.Fprintf(out, "  %s\n", dim("Link a device with: wacheck pair", c))
		return nil
	}
	fmt.Fprintf(out, "  %s Paired as %s %s\n", green(ui.SymbolCheck, c), bold(jid, c), dim("("+storeLocation(cfg)+")", c))
	return nil
}
