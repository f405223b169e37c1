package whatsapp

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver ("pgx")
	_ "github.com/mattn/go-sqlite3"    // cgo SQLite driver ("sqlite3")
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	_ "modernc.org/sqlite" // pure Go SQLite driver ("sqlite")
)

// Credential store drivers.
const (
	DriverSQLite   = "sqlite"   // modernc.org/sqlite, no cgo
	DriverSQLite3  = "sqlite3"  // github.com/mattn/go-sqlite3, cgo
	DriverPostgres = "postgres" // github.com/jackc/pgx/v5
)

// Drivers lists the supported credential store drivers.
var Drivers = []string{DriverSQLite, DriverSQLite3, DriverPostgres}

// Store is the durable credential store: a SQL database holding the
// multi-device session keys.
type Store struct {
	db        *sql.DB
	container *sqlstore.Container
}

// DSN returns the data source name for a SQLite credential file. Foreign keys
// must be on for the session schema. Postgres has no file form and returns "".
func DSN(driver, path string) string {
	switch driver {
	case DriverSQLite:
		return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	case DriverSQLite3:
		return "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"
	}
	return ""
}

// OpenStore opens the credential store and brings its schema up to date.
func OpenStore(ctx context.Context, driver, dsn string, logger *slog.Logger) (*Store, error) {
	sqlDriver, dialect, err := driverDialect(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening credential store: %w", err)
	}
	if dialect == "sqlite3" {
		db.SetMaxOpenConns(1)
	}

	container := sqlstore.NewWithDB(db, dialect, NewLogger(logger, "store"))
	if err := container.Upgrade(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("upgrading credential store: %w", err)
	}
	return &Store{db: db, container: container}, nil
}

// Device returns the stored device, or a fresh unpaired one when the store
// is empty.
func (s *Store) Device(ctx context.Context) (*store.Device, error) {
	device, err := s.container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading device: %w", err)
	}
	return device, nil
}

// Paired returns the account JID of the stored device, or "" if the store
// holds no paired device.
func (s *Store) Paired(ctx context.Context) (string, error) {
	device, err := s.Device(ctx)
	if err != nil {
		return "", err
	}
	if device.ID == nil {
		return "", nil
	}
	return device.ID.String(), nil
}

// Reset removes the paired device so the next connection has to pair again.
// It reports whether anything was removed.
func (s *Store) Reset(ctx context.Context) (bool, error) {
	device, err := s.Device(ctx)
	if err != nil {
		return false, err
	}
	if device.ID == nil {
		return false, nil
	}
	if err := device.Delete(ctx); err != nil {
		return false, fmt.Errorf("deleting device: %w", err)
	}
	return true, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func driverDialect(driver string) (sqlDriver, dialect string, err error) {
	switch strings.ToLower(driver) {
	case DriverSQLite, "":
		return "sqlite", "sqlite3", nil
	case DriverSQLite3:
		return "sqlite3", "sqlite3", nil
	case DriverPostgres:
		return "pgx", "postgres", nil
	}
	return "", "", fmt.Errorf("unsupported credential store driver %q (supported: %s)", driver, strings.Join(Drivers, ", "))
}
