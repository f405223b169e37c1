// Package session turns the push-based connection lifecycle of a messaging
// client into a single blocking "ready" signal, while continuing to react to
// credential updates and forced logouts for the rest of the process lifetime.
package session

import (
	"context"
	"errors"
	"fmt"
)

// State is a Connector's position in the login handshake.
type State int

const (
	StateDisconnected State = iota
	StateAwaitingChallenge
	StateConnecting
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateAwaitingChallenge:
		return "awaiting_challenge"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrForcedLogout means the remote side invalidated the stored credentials.
	ErrForcedLogout = errors.New("session logged out by the server")

	// ErrConnectionClosedEarly means the connection closed before login completed.
	ErrConnectionClosedEarly = errors.New("connection closed before login")
)

// CloseReason describes why a connection closed.
type CloseReason struct {
	LoggedOut bool
	Message   string
}

// ClosedEarlyError is returned by Connector.Start when the connection closes
// for a reason other than a forced logout before reaching StateOpen.
type ClosedEarlyError struct {
	Reason CloseReason
}

func (e *ClosedEarlyError) Error() string {
	if e.Reason.Message == "" {
		return ErrConnectionClosedEarly.Error()
	}
	return fmt.Sprintf("%s: %s", ErrConnectionClosedEarly, e.Reason.Message)
}

func (e *ClosedEarlyError) Unwrap() error { return ErrConnectionClosedEarly }

// Event is a connection lifecycle notification pushed by a Transport.
type Event interface {
	event()
}

// PairingChallenge carries a code the operator must scan on a trusted device.
type PairingChallenge struct {
	Code string
}

// Connected is emitted once login has completed.
type Connected struct{}

// CredentialsUpdated is emitted whenever the credentials changed and must be persisted.
type CredentialsUpdated struct{}

// Closed is emitted when the connection ends.
type Closed struct {
	Reason CloseReason
}

func (PairingChallenge) event()   {}
func (Connected) event()          {}
func (CredentialsUpdated) event() {}
func (Closed) event()             {}

// Transport is the narrow boundary to the messaging client library.
type Transport interface {
	// SetEventHandler installs the lifecycle event callback. It is called
	// before Connect and may be invoked from any goroutine.
	SetEventHandler(func(Event))
	// Connect starts connecting with the persisted credentials.
	Connect(ctx context.Context) error
	// SaveCredentials persists the current credentials.
	SaveCredentials(ctx context.Context) error
	// QueryRegistration returns the accounts matching number; empty means
	// the number is not registered.
	QueryRegistration(ctx context.Context, number string) ([]string, error)
	// Disconnect closes the connection without logging out.
	Disconnect()
}

// ChallengeRenderer shows a pairing code to the operator.
type ChallengeRenderer interface {
	RenderChallenge(code string)
}
