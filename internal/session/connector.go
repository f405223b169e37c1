package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// saveTimeout bounds a single credential write.
const saveTimeout = 10 * time.Second

// Options configures a Connector.
type Options struct {
	Logger   *slog.Logger
	Renderer ChallengeRenderer
	// Exit is called with ErrForcedLogout when the server invalidates the
	// credentials. The CLI terminates the process here.
	Exit func(error)
}

// Connector drives a Transport through the login handshake.
type Connector struct {
	transport Transport
	logger    *slog.Logger
	renderer  ChallengeRenderer
	exit      func(error)

	mu    sync.Mutex
	state State

	readyOnce sync.Once
	ready     chan error
}

// New creates a Connector in StateDisconnected.
func New(t Transport, opts Options) *Connector {
	c := &Connector{
		transport: t,
		logger:    opts.Logger,
		renderer:  opts.Renderer,
		exit:      opts.Exit,
		state:     StateDisconnected,
		ready:     make(chan error, 1),
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.exit == nil {
		c.exit = func(error) {}
	}
	return c
}

// State returns the current handshake state.
func (c *Connector) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start connects and blocks until the session is open, the connection
// closes, or ctx ends. The event handler installed here stays active after
// Start returns.
func (c *Connector) Start(ctx context.Context) error {
	c.transport.SetEventHandler(c.handle)
	c.transition(StateConnecting)

	if err := c.transport.Connect(ctx); err != nil {
		c.transition(StateClosed)
		return fmt.Errorf("connecting: %w", err)
	}

	select {
	case err := <-c.ready:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Connector) handle(evt Event) {
	switch e := evt.(type) {
	case PairingChallenge:
		if c.transitionUnlessOpen(StateAwaitingChallenge) {
			c.logger.Info("pairing required, waiting for QR scan")
			if c.renderer != nil {
				c.renderer.RenderChallenge(e.Code)
			}
		}

	case CredentialsUpdated:
		c.mu.Lock()
		if c.state == StateAwaitingChallenge {
			c.state = StateConnecting
		}
		c.mu.Unlock()
		c.saveCredentials()

	case Connected:
		c.transition(StateOpen)
		c.logger.Info("session open")
		c.resolve(nil)

	case Closed:
		prev := c.transition(StateClosed)
		if e.Reason.LoggedOut {
			c.logger.Error("session logged out", "reason", e.Reason.Message)
			c.resolve(ErrForcedLogout)
			c.exit(ErrForcedLogout)
			return
		}
		if prev != StateOpen {
			c.logger.Warn("connection closed before login", "reason", e.Reason.Message, "state", prev.String())
			c.resolve(&ClosedEarlyError{Reason: e.Reason})
			return
		}
		c.logger.Warn("connection closed", "reason", e.Reason.Message)
	}
}

// saveCredentials persists credentials once. Failures are logged only.
func (c *Connector) saveCredentials() {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := c.transport.SaveCredentials(ctx); err != nil {
		c.logger.Error("saving credentials failed", "error", err)
		return
	}
	c.logger.Debug("credentials saved")
}

// resolve completes the ready signal. Only the first call has any effect.
func (c *Connector) resolve(err error) {
	c.readyOnce.Do(func() {
		c.ready <- err
	})
}

// transition moves to next and returns the previous state.
func (c *Connector) transition(next State) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.state
	c.state = next
	return prev
}

func (c *Connector) transitionUnlessOpen(next State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateOpen || c.state == StateClosed {
		return false
	}
	c.state = next
	return true
}
