// Package whatsapp implements session.Transport on top of the whatsmeow
// multi-device client, with the credential store kept in a SQL database.
package whatsapp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/wacheck/wacheck/internal/phone"
	"github.com/wacheck/wacheck/internal/session"
)

// Client is a session.Transport backed by whatsmeow.
type Client struct {
	wa     *whatsmeow.Client
	region string
	logger *slog.Logger

	mu      sync.Mutex
	handler func(session.Event)
}

var _ session.Transport = (*Client)(nil)

// ClientOptions configures a Client.
type ClientOptions struct {
	// DefaultRegion is used to format numbers written without a country code.
	DefaultRegion string
	Logger        *slog.Logger
}

// NewClient wraps device in a whatsmeow client. Reconnects are disabled: a
// dropped connection ends the session.
func NewClient(device *store.Device, opts ClientOptions) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		wa:     whatsmeow.NewClient(device, NewLogger(logger, "client")),
		region: opts.DefaultRegion,
		logger: logger,
	}
	c.wa.EnableAutoReconnect = false
	c.wa.AddEventHandler(c.dispatch)
	return c
}

func (c *Client) SetEventHandler(h func(session.Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = h
}

// Connect opens the websocket. Without stored credentials a pairing channel
// is requested first so QR codes reach the event handler.
func (c *Client) Connect(ctx context.Context) error {
	if c.wa.Store.ID == nil {
		qrChan, err := c.wa.GetQRChannel(ctx)
		if err != nil {
			return fmt.Errorf("requesting pairing codes: %w", err)
		}
		go c.forwardPairing(qrChan)
	}
	return c.wa.Connect()
}

// SaveCredentials writes the device keys to the credential store.
func (c *Client) SaveCredentials(ctx context.Context) error {
	return c.wa.Store.Save(ctx)
}

// QueryRegistration returns the JIDs of the accounts registered for number.
func (c *Client) QueryRegistration(ctx context.Context, number string) ([]string, error) {
	query, err := phone.QueryForm(number, c.region)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("querying registration", "number", number, "query", query, "region", phone.Region(query))
	resp, err := c.wa.IsOnWhatsApp(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", query, err)
	}
	var matches []string
	for _, r := range resp {
		if r.IsIn {
			matches = append(matches, r.JID.String())
		}
	}
	return matches, nil
}

// AccountJID returns the JID the device is paired as, or "" before pairing.
func (c *Client) AccountJID() string {
	if c.wa.Store.ID == nil {
		return ""
	}
	return c.wa.Store.ID.String()
}

// Disconnect closes the websocket. The stored credentials stay valid.
func (c *Client) Disconnect() {
	c.wa.Disconnect()
}

func (c *Client) emit(e session.Event) {
	c.mu.Lock()
	h := c.handler
	c.mu.Unlock()
	if h != nil {
		h(e)
	}
}

// forwardPairing relays pairing codes until the channel closes.
func (c *Client) forwardPairing(ch <-chan whatsmeow.QRChannelItem) {
	for item := range ch {
		if item.Event == whatsmeow.QRChannelScannedWithoutMultidevice.Event {
			c.logger.Warn("QR code scanned by a phone without multi-device enabled, waiting for another scan")
		}
		if e, ok := pairingEvent(item); ok {
			c.emit(e)
		}
	}
}

func (c *Client) dispatch(evt any) {
	if e, ok := translate(evt); ok {
		c.emit(e)
	}
}

// pairingEvent maps a pairing channel item to a session event. Successful
// pairing is reported through events.PairSuccess instead. A scan from a phone
// without multi-device leaves the channel open, so it is not terminal.
func pairingEvent(item whatsmeow.QRChannelItem) (session.Event, bool) {
	switch item.Event {
	case whatsmeow.QRChannelEventCode:
		return session.PairingChallenge{Code: item.Code}, true
	case whatsmeow.QRChannelSuccess.Event, whatsmeow.QRChannelScannedWithoutMultidevice.Event:
		return nil, false
	case whatsmeow.QRChannelTimeout.Event:
		return session.Closed{Reason: session.CloseReason{Message: "pairing code expired before it was scanned"}}, true
	case whatsmeow.QRChannelEventError:
		msg := "pairing failed"
		if item.Error != nil {
			msg = "pairing failed: " + item.Error.Error()
		}
		return session.Closed{Reason: session.CloseReason{Message: msg}}, true
	default:
		return session.Closed{Reason: session.CloseReason{Message: "pairing failed: " + item.Event}}, true
	}
}

// translate maps whatsmeow events to session events.
func translate(evt any) (session.Event, bool) {
	switch e := evt.(type) {
	case *events.Connected:
		return session.Connected{}, true
	case *events.PairSuccess:
		return session.CredentialsUpdated{}, true
	case *events.LoggedOut:
		return session.Closed{Reason: session.CloseReason{
			LoggedOut: true,
			Message:   fmt.Sprintf("logged out (reason %d)", int(e.Reason)),
		}}, true
	case *events.ConnectFailure:
		return session.Closed{Reason: session.CloseReason{
			LoggedOut: e.Reason.IsLoggedOut(),
			Message:   fmt.Sprintf("connect failure %d: %s", int(e.Reason), e.Message),
		}}, true
	case *events.StreamReplaced:
		return session.Closed{Reason: session.CloseReason{Message: "session opened elsewhere"}}, true
	case *events.TemporaryBan:
		return session.Closed{Reason: session.CloseReason{Message: e.String()}}, true
	case *events.ClientOutdated:
		return session.Closed{Reason: session.CloseReason{Message: "client version rejected as outdated"}}, true
	case *events.Disconnected:
		return session.Closed{Reason: session.CloseReason{Message: "connection lost"}}, true
	}
	return nil, false
}
