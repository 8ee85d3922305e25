package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/learnloop/realtime/pkg/auth"
	"github.com/learnloop/realtime/pkg/dispatch"
	"github.com/learnloop/realtime/pkg/logging"
	"github.com/learnloop/realtime/pkg/protocol"
)

// Client owns the single transport for one logical room at a time.
type Client struct {
	cfg        Config
	dispatcher *dispatch.Dispatcher
	log        *slog.Logger
	id         string

	mu         sync.Mutex
	state      State
	conn       *websocket.Conn
	roomID     string
	credential auth.Credential
	connecting bool
	// gen increments whenever a transport is installed or torn down, so a
	// read loop from a replaced transport cannot act on the current one.
	gen     uint64
	backoff *reconnector

	changeMu  sync.Mutex
	changeSeq uint64
	onChange  map[uint64]func(bool)
}

// NewClient creates a client for the configured namespace. The client starts
// idle; call Connect to bind it to a room.
func NewClient(cfg Config) (*Client, error) {
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:        cfg,
		dispatcher: dispatch.New(),
		log:        logging.Nop(),
		id:         uuid.NewString(),
		backoff:    newReconnector(cfg.ReconnectBaseDelay, cfg.MaxReconnectAttempts),
		onChange:   make(map[uint64]func(bool)),
	}
	if cfg.OnConnectionChange != nil {
		c.OnConnectionChange(cfg.OnConnectionChange)
	}
	return c, nil
}

// SetLogger sets the operational logger for the client and its dispatcher.
func (c *Client) SetLogger(log *slog.Logger) {
	if log == nil {
		log = logging.Nop()
	}
	c.mu.Lock()
	c.log = log
	c.mu.Unlock()
	c.dispatcher.SetLogger(log)
}

// Dispatcher returns the dispatcher receiving this client's inbound frames.
func (c *Client) Dispatcher() *dispatch.Dispatcher { return c.dispatcher }

// ID returns the client instance ID used for log correlation.
func (c *Client) ID() string { return c.id }

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// RoomID returns the currently bound room, empty when idle.
func (c *Client) RoomID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomID
}

// IsConnected reports whether the transport is open.
func (c *Client) IsConnected() bool {
	return c.State() == StateOpen
}

// OnConnectionChange registers a connectivity listener and returns its
// removal function. Listeners fire with true on every open and false on
// every close of a live transport.
func (c *Client) OnConnectionChange(fn func(connected bool)) (remove func()) {
	c.changeMu.Lock()
	c.changeSeq++
	id := c.changeSeq
	c.onChange[id] = fn
	c.changeMu.Unlock()

	return func() {
		c.changeMu.Lock()
		delete(c.onChange, id)
		c.changeMu.Unlock()
	}
}

// Connect binds the client to a room and blocks until the transport is open
// or the dial fails.
//
// Connecting to the room that is already open is a no-op. Connecting to a
// different room tears the existing transport down first, so at most one
// transport is ever live. A second Connect while one is still pending
// returns ErrConnectInProgress instead of racing it; a Connect whose dial
// was superseded by a Disconnect or a newer Connect closes its transport
// and returns ErrConnectAborted. A dial failure here is
// returned to the caller and does not arm the reconnect machinery; transient
// recovery only applies once a transport has been open.
func (c *Client) Connect(ctx context.Context, roomID string, credential auth.Credential) error {
	if roomID == "" {
		return ErrMissingRoom
	}
	if credential.Empty() {
		return auth.ErrEmptyCredential
	}

	c.mu.Lock()
	if c.connecting {
		c.mu.Unlock()
		return ErrConnectInProgress
	}
	if c.state == StateOpen && c.roomID == roomID {
		c.mu.Unlock()
		return nil
	}
	old, wasOpen := c.teardownLocked()
	c.connecting = true
	c.state = StateConnecting
	c.roomID = roomID
	c.credential = credential
	// teardownLocked bumped gen; any Disconnect or newer Connect that runs
	// while our dial is in flight bumps it again, and we must not install.
	gen := c.gen
	c.mu.Unlock()

	if old != nil {
		_ = old.Close(websocket.StatusNormalClosure, "switching rooms")
	}
	if wasOpen {
		c.notify(false)
	}

	conn, err := c.dial(ctx, roomID, credential)
	if err != nil {
		c.mu.Lock()
		if c.gen == gen {
			c.connecting = false
			c.roomID, c.credential = "", ""
			c.state = StateIdle
		}
		c.mu.Unlock()
		return fmt.Errorf("connect room %s: %w", roomID, err)
	}

	c.mu.Lock()
	if c.gen != gen {
		// A Disconnect or a newer Connect superseded this attempt while the
		// dial was in flight; that caller owns the state now.
		c.mu.Unlock()
		_ = conn.Close(websocket.StatusNormalClosure, "superseded")
		return ErrConnectAborted
	}
	c.conn = conn
	c.state = StateOpen
	c.gen++
	gen = c.gen
	c.backoff.reset()
	c.connecting = false
	log := c.log
	c.mu.Unlock()

	log.Info("room transport open", "room", roomID, "client", c.id)
	c.notify(true)
	go c.readLoop(conn, gen)
	return nil
}

// Disconnect tears down the active transport, clears the room binding, and
// cancels any pending reconnect. A Connect whose dial is still in flight is
// aborted. It is terminal: no reconnection follows. Disconnecting an already
// disconnected client is a no-op.
func (c *Client) Disconnect() {
	c.mu.Lock()
	conn, wasOpen := c.teardownLocked()
	c.connecting = false
	log := c.log
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "client disconnect")
	}
	if wasOpen {
		log.Info("room transport closed", "client", c.id)
		c.notify(false)
	}
}

// Send writes an outbound action to the transport. While the transport is
// not open the action is dropped: the drop is logged and ErrNotConnected
// returned so callers can observe it, but presenters deliberately ignore it
// because a dropped realtime update is recoverable by resync and crashing
// the UI is not.
func (c *Client) Send(ctx context.Context, action protocol.Action) error {
	c.mu.Lock()
	conn := c.conn
	state := c.state
	log := c.log
	c.mu.Unlock()

	if state != StateOpen || conn == nil {
		log.Debug("dropping outbound action, transport not open",
			"action", action.ActionType(), "state", state.String(), "client", c.id)
		return ErrNotConnected
	}

	data, err := protocol.EncodeAction(action)
	if err != nil {
		return fmt.Errorf("encode %s action: %w", action.ActionType(), err)
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("write %s action: %w", action.ActionType(), err)
	}
	return nil
}

// teardownLocked releases the current transport and room binding and cancels
// reconnect state. Callers close the returned conn and emit the connectivity
// notification outside the lock.
func (c *Client) teardownLocked() (conn *websocket.Conn, wasOpen bool) {
	c.backoff.cancel()
	conn = c.conn
	wasOpen = c.state == StateOpen
	c.conn = nil
	c.gen++
	c.state = StateIdle
	c.roomID, c.credential = "", ""
	return conn, wasOpen
}

func (c *Client) dial(ctx context.Context, roomID string, credential auth.Credential) (*websocket.Conn, error) {
	conn, resp, err := websocket.Dial(ctx, c.roomURL(roomID, credential), nil)
	if resp != nil && resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (c *Client) roomURL(roomID string, credential auth.Credential) string {
	base := strings.TrimSuffix(c.cfg.BaseURL, "/")
	return fmt.Sprintf("%s/api/v1/%s/ws/%s?token=%s",
		base, c.cfg.Namespace, url.PathEscape(roomID), url.QueryEscape(string(credential)))
}

// readLoop pumps frames from one transport into the dispatcher. Undecodable
// frames are dropped without affecting the transport. A read error means the
// transport is gone; error handling is centralized in handleClose.
func (c *Client) readLoop(conn *websocket.Conn, gen uint64) {
	for {
		_, data, err := conn.Read(context.Background())
		if err != nil {
			c.handleClose(gen, err)
			return
		}
		frame, derr := protocol.DecodeFrame(data)
		if derr != nil {
			c.mu.Lock()
			log := c.log
			c.mu.Unlock()
			log.Warn("dropping undecodable frame", "client", c.id, "error", derr)
			continue
		}
		c.dispatcher.Dispatch(frame)
	}
}

// handleClose reacts to an unexpected transport loss. Explicit teardowns bump
// gen first, so their read loops return here without effect.
func (c *Client) handleClose(gen uint64, cause error) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.state = StateClosed
	room := c.roomID
	log := c.log
	c.mu.Unlock()

	log.Warn("room transport lost", "room", room, "client", c.id, "error", cause)
	c.notify(false)
	c.scheduleReconnect()
}

func (c *Client) scheduleReconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.roomID == "" || c.state != StateClosed {
		return
	}
	if c.cfg.MaxReconnectAttempts < 0 {
		c.log.Info("reconnection disabled, close is terminal", "room", c.roomID, "client", c.id)
		return
	}
	delay, attempt, ok := c.backoff.next()
	if !ok {
		// Terminal: surfaced to consumers only through the connectivity
		// callback that already fired for the close. An explicit Connect
		// starts over.
		c.log.Warn("reconnect attempts exhausted", "room", c.roomID, "client", c.id, "attempts", attempt)
		return
	}
	c.log.Info("scheduling reconnect", "room", c.roomID, "client", c.id, "attempt", attempt, "delay", delay)
	c.backoff.schedule(delay, c.redial)
}

// redial is one scheduled reconnect attempt, running off the backoff timer
// with the last-known room and credential.
func (c *Client) redial() {
	c.mu.Lock()
	if c.roomID == "" || c.state != StateClosed {
		// Disconnected or superseded since the attempt was scheduled.
		c.mu.Unlock()
		return
	}
	roomID, credential := c.roomID, c.credential
	gen := c.gen
	c.state = StateConnecting
	log := c.log
	c.mu.Unlock()

	conn, err := c.dial(context.Background(), roomID, credential)

	c.mu.Lock()
	if c.gen != gen || c.roomID != roomID {
		c.mu.Unlock()
		if conn != nil {
			_ = conn.Close(websocket.StatusNormalClosure, "superseded")
		}
		return
	}
	if err != nil {
		c.state = StateClosed
		c.mu.Unlock()
		log.Warn("reconnect attempt failed", "room", roomID, "client", c.id, "error", err)
		c.scheduleReconnect()
		return
	}
	c.conn = conn
	c.state = StateOpen
	c.gen++
	newGen := c.gen
	c.backoff.reset()
	c.mu.Unlock()

	log.Info("room transport reopened", "room", roomID, "client", c.id)
	c.notify(true)
	go c.readLoop(conn, newGen)
}

func (c *Client) notify(connected bool) {
	c.changeMu.Lock()
	fns := make([]func(bool), 0, len(c.onChange))
	for _, fn := range c.onChange {
		fns = append(fns, fn)
	}
	c.changeMu.Unlock()

	for _, fn := range fns {
		fn(connected)
	}
}
