package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wacheck/wacheck/internal/config"
)

var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

// SetVersion is called from main to inject build-time version info.
func SetVersion(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date
}

var rootCmd = &cobra.Command{
	Use:   "wacheck",
	Short: "wacheck: check which phone numbers are registered on WhatsApp",
	Long: `wacheck reads phone numbers from a CSV file, asks WhatsApp whether each one
has an account, and writes the answers to a new CSV file.

The first run shows a QR code to link wacheck as a device of your account:
  wacheck pair

Then check a file:
  wacheck check -i numbers.csv -o output.csv`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().String("config", "", "Path to wacheck.toml config file")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(pairCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	initHelp()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// addStoreFlags registers the credential store flags shared by the commands
// that open a session.
func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("store", "", "Credential store file, or a DSN for postgres (default wacheck.db)")
	cmd.Flags().String("store-driver", "", "Credential store driver: sqlite, sqlite3, or postgres")
}

// changedFlags collects the flags set on the command line, keyed by name, in
// the form config.Load expects.
func changedFlags(cmd *cobra.Command) map[string]string {
	flags := make(map[string]string)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		flags[f.Name] = f.Value.String()
	})
	return flags
}

// loadConfig resolves configuration for cmd: defaults, the config file,
// WACHECK_* variables, then the flags set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath, changedFlags(cmd))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
