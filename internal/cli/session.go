package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/wacheck/wacheck/internal/cli/ui"
	"github.com/wacheck/wacheck/internal/config"
	"github.com/wacheck/wacheck/internal/whatsapp"
)

// osExit is swapped out in tests.
var osExit = os.Exit

var logoutOnce sync.Once

// storeDSN returns the credential store DSN for cfg. An explicit session.dsn
// wins over session.path.
func storeDSN(cfg *config.Config) string {
	if cfg.Session.DSN != "" {
		return cfg.Session.DSN
	}
	return whatsapp.DSN(cfg.Session.Driver, cfg.Session.Path)
}

// storeLocation describes the credential store for humans without leaking a
// postgres password.
func storeLocation(cfg *config.Config) string {
	if cfg.Session.Driver == whatsapp.DriverPostgres {
		return "postgres"
	}
	if cfg.Session.DSN != "" {
		return cfg.Session.DSN
	}
	return cfg.Session.Path
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*whatsapp.Store, error) {
	st, err := whatsapp.OpenStore(ctx, cfg.Session.Driver, storeDSN(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("opening credential store %s: %w", storeLocation(cfg), err)
	}
	return st, nil
}

// openClient opens the credential store and wraps its device in a client.
// The returned func disconnects and closes the store.
func openClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*whatsapp.Client, func(), error) {
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	device, err := st.Device(ctx)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	client := whatsapp.NewClient(device, whatsapp.ClientOptions{
		DefaultRegion: cfg.Check.DefaultRegion,
		Logger:        logger,
	})
	return client, func() {
		client.Disconnect()
		if err := st.Close(); err != nil {
			logger.Warn("closing credential store", "error", err)
		}
	}, nil
}

// logoutExit returns the hook run when WhatsApp invalidates the stored
// session. It reports once and terminates the process with status 1; only a
// completed run exits 0.
func logoutExit(w io.Writer, cfg *config.Config) func(error) {
	return func(err error) {
		logoutOnce.Do(func() {
			fmt.Fprint(w, ui.FormatError("WhatsApp logged this device out: "+err.Error(), logoutHints(cfg)...))
			osExit(1)
		})
	}
}

func logoutHints(cfg *config.Config) []string {
	hints := []string{"Clear the stored session with: wacheck reset"}
	if cfg.Session.Driver != whatsapp.DriverPostgres && cfg.Session.DSN == "" {
		hints = append(hints, "Or delete "+cfg.Session.Path+" and run again")
	}
	return append(hints, "Then link the device again with: wacheck pair")
}
