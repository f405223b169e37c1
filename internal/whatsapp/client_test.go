package whatsapp

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/wacheck/wacheck/internal/session"
	"github.com/wacheck/wacheck/internal/testutil"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want session.Event
	}{
		{"connected", &events.Connected{}, session.Connected{}},
		{"pair success", &events.PairSuccess{}, session.CredentialsUpdated{}},
		{"stream replaced", &events.StreamReplaced{}, session.Closed{Reason: session.CloseReason{Message: "session opened elsewhere"}}},
		{"disconnected", &events.Disconnected{}, session.Closed{Reason: session.CloseReason{Message: "connection lost"}}},
		{"outdated", &events.ClientOutdated{}, session.Closed{Reason: session.CloseReason{Message: "client version rejected as outdated"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translate(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateLoggedOut(t *testing.T) {
	got, ok := translate(&events.LoggedOut{Reason: events.ConnectFailureLoggedOut})
	require.True(t, ok)

	closed, isClosed := got.(session.Closed)
	require.True(t, isClosed)
	assert.True(t, closed.Reason.LoggedOut)
	assert.Contains(t, closed.Reason.Message, "401")
}

func TestTranslateConnectFailure(t *testing.T) {
	got, ok := translate(&events.ConnectFailure{Reason: events.ConnectFailureReason(500), Message: "internal"})
	require.True(t, ok)

	closed := got.(session.Closed)
	assert.False(t, closed.Reason.LoggedOut)
	assert.Equal(t, "connect failure 500: internal", closed.Reason.Message)

	got, _ = translate(&events.ConnectFailure{Reason: events.ConnectFailureLoggedOut})
	assert.True(t, got.(session.Closed).Reason.LoggedOut)
}

func TestTranslateIgnoresOtherEvents(t *testing.T) {
	_, ok := translate(&events.Message{})
	assert.False(t, ok)
	_, ok = translate("not an event")
	assert.False(t, ok)
}

func TestPairingEvent(t *testing.T) {
	e, ok := pairingEvent(whatsmeow.QRChannelItem{Event: whatsmeow.QRChannelEventCode, Code: "2@abc"})
	require.True(t, ok)
	assert.Equal(t, session.PairingChallenge{Code: "2@abc"}, e)

	_, ok = pairingEvent(whatsmeow.QRChannelSuccess)
	assert.False(t, ok, "success is reported by PairSuccess")

	e, ok = pairingEvent(whatsmeow.QRChannelTimeout)
	require.True(t, ok)
	assert.Contains(t, e.(session.Closed).Reason.Message, "expired")

	e, ok = pairingEvent(whatsmeow.QRChannelItem{Event: whatsmeow.QRChannelEventError, Error: errors.New("bad pair")})
	require.True(t, ok)
	assert.Equal(t, "pairing failed: bad pair", e.(session.Closed).Reason.Message)

	e, ok = pairingEvent(whatsmeow.QRChannelItem{Event: "err-unexpected-state"})
	require.True(t, ok)
	assert.Contains(t, e.(session.Closed).Reason.Message, "err-unexpected-state")
}

func TestPairingEventScannedWithoutMultideviceKeepsWaiting(t *testing.T) {
	e, ok := pairingEvent(whatsmeow.QRChannelScannedWithoutMultidevice)
	assert.False(t, ok)
	assert.Nil(t, e)
}

func TestForwardPairingSkipsScannedWithoutMultidevice(t *testing.T) {
	var got []session.Event
	c := &Client{logger: testutil.DiscardLogger()}
	c.SetEventHandler(func(e session.Event) { got = append(got, e) })

	ch := make(chan whatsmeow.QRChannelItem, 3)
	ch <- whatsmeow.QRChannelItem{Event: whatsmeow.QRChannelEventCode, Code: "2@one"}
	ch <- whatsmeow.QRChannelScannedWithoutMultidevice
	ch <- whatsmeow.QRChannelItem{Event: whatsmeow.QRChannelEventCode, Code: "2@two"}
	close(ch)
	c.forwardPairing(ch)

	assert.Equal(t, []session.Event{
		session.PairingChallenge{Code: "2@one"},
		session.PairingChallenge{Code: "2@two"},
	}, got)
}

func TestDSN(t *testing.T) {
	testutil.Equal(t, "file:wa.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", DSN(DriverSQLite, "wa.db"))
	testutil.Equal(t, "file:wa.db?_foreign_keys=on&_busy_timeout=5000", DSN(DriverSQLite3, "wa.db"))
	testutil.Equal(t, "", DSN(DriverPostgres, "wa.db"))
}

func TestDriverDialect(t *testing.T) {
	tests := []struct {
		driver, sqlDriver, dialect string
	}{
		{"", "sqlite", "sqlite3"},
		{"sqlite", "sqlite", "sqlite3"},
		{"SQLite3", "sqlite3", "sqlite3"},
		{"postgres", "pgx", "postgres"},
	}
	for _, tt := range tests {
		sqlDriver, dialect, err := driverDialect(tt.driver)
		require.NoError(t, err)
		assert.Equal(t, tt.sqlDriver, sqlDriver)
		assert.Equal(t, tt.dialect, dialect)
	}

	_, _, err := driverDialect("mysql")
	testutil.ErrorContains(t, err, "unsupported credential store driver")
}

func TestOpenStoreEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "wacheck.db")

	st, err := OpenStore(ctx, DriverSQLite, DSN(DriverSQLite, path), testutil.DiscardLogger())
	require.NoError(t, err)
	defer st.Close()

	jid, err := st.Paired(ctx)
	require.NoError(t, err)
	assert.Empty(t, jid)

	removed, err := st.Reset(ctx)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestNewLoggerBridgesToSlog(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	wl := NewLogger(l, "client")
	wl.Infof("connected to %s", "edge")
	wl.Sub("Socket").Warnf("retry %d", 2)

	out := buf.String()
	assert.Contains(t, out, "connected to edge")
	assert.Contains(t, out, "module=client")
	assert.Contains(t, out, "submodule=Socket")
	assert.Contains(t, out, "retry 2")
}
