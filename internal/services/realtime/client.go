// Package realtime keeps a room's shared state in sync with the room server
// over a STOMP broker session.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gabrielcapilla/roomsync/internal/domain"
	"github.com/gabrielcapilla/roomsync/internal/logger"
	"github.com/gabrielcapilla/roomsync/internal/ports"
	"github.com/gabrielcapilla/roomsync/internal/services/auth"
	"github.com/gabrielcapilla/roomsync/internal/services/state"
	"github.com/google/uuid"
)

const contentTypeJSON = "application/json"

var (
	ErrNotConnected   = errors.New("not connected to the room broker")
	errReauthenticate = errors.New("reauthentication requested")
)

// Options configure the broker session.
type Options struct {
	URL               string
	RoomID            int64
	ReconnectDelay    time.Duration
	HeartbeatIncoming time.Duration
	HeartbeatOutgoing time.Duration
}

func OptionsFromConfig(cfg domain.Config) Options {
	return Options{
		URL:               cfg.Broker.URL,
		RoomID:            cfg.Room.ID,
		ReconnectDelay:    cfg.Broker.ReconnectDelay,
		HeartbeatIncoming: cfg.Broker.HeartbeatIncoming,
		HeartbeatOutgoing: cfg.Broker.HeartbeatOutgoing,
	}
}

// StatusListener is called on every session status change.
type StatusListener func(domain.SessionStatus)

// Client owns at most one broker session at a time. Connect and Disconnect
// return immediately; progress is reported through status listeners and
// the state store.
type Client struct {
	opts   Options
	tokens ports.TokenSource
	store  *state.Store
	dialer Dialer

	mu         sync.Mutex
	generation uint64
	status     domain.SessionStatus
	cancel     context.CancelFunc
	done       chan struct{}
	conn       Conn
	token      string
	reauth     chan struct{}

	listenerMu sync.RWMutex
	nextID     int
	listeners  map[int]StatusListener
}

func NewClient(opts Options, tokens ports.TokenSource, store *state.Store, dialer Dialer) *Client {
	done := make(chan struct{})
	close(done)
	return &Client{
		opts:      opts,
		tokens:    tokens,
		store:     store,
		dialer:    dialer,
		status:    domain.StatusDisconnected,
		done:      done,
		reauth:    make(chan struct{}, 1),
		listeners: make(map[int]StatusListener),
	}
}

// Connect starts the session loop unless one is already running. The loop
// dials, subscribes both room channels, and on any failure waits
// ReconnectDelay and starts over until Disconnect is called.
func (c *Client) Connect() {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.generation++
	gen := c.generation
	c.cancel = cancel
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	go c.run(ctx, gen, done)
}

// Disconnect stops the session loop and closes the live session, if any.
// It does nothing when the client is already disconnected. Done reports when
// the teardown has finished.
func (c *Client) Disconnect() {
	c.mu.Lock()
	if c.cancel == nil {
		c.mu.Unlock()
		return
	}
	c.cancel()
	c.cancel = nil
	c.generation++
	c.conn, c.token = nil, ""
	c.mu.Unlock()

	c.publishStatus(domain.StatusDisconnected)
}

// Done is closed once the most recently started session loop has exited.
func (c *Client) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

func (c *Client) Status() domain.SessionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// OnStatus registers l and returns a function that removes it.
func (c *Client) OnStatus(l StatusListener) (cancel func()) {
	c.listenerMu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	c.listenerMu.Unlock()

	return func() {
		c.listenerMu.Lock()
		delete(c.listeners, id)
		c.listenerMu.Unlock()
	}
}

// Reauthenticate drops the live session so the next one is opened with a
// freshly read token. Without a running session it does nothing: the next
// Connect reads the token anyway.
func (c *Client) Reauthenticate() {
	select {
	case c.reauth <- struct{}{}:
	default:
	}
}

// Publish sends payload as JSON to destination on the live session.
func (c *Client) Publish(ctx context.Context, destination string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	conn, token := c.conn, c.token
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	headers := map[string]string{"Authorization": bearer(token)}
	if err := conn.Send(destination, contentTypeJSON, body, headers); err != nil {
		return fmt.Errorf("send to %s: %w", destination, err)
	}
	return nil
}

func (c *Client) run(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)

	for {
		c.setStatus(gen, domain.StatusConnecting)
		err := c.session(ctx, gen)
		if ctx.Err() != nil {
			return
		}
		if errors.Is(err, errReauthenticate) {
			logger.Log.Info().Msg("Reconnecting with refreshed credentials")
			continue
		}

		c.setStatus(gen, domain.StatusError)
		logSessionError(err)

		if c.opts.ReconnectDelay <= 0 {
			logger.Log.Warn().Msg("Reconnect disabled, giving up")
			c.mu.Lock()
			if c.generation == gen {
				c.cancel()
				c.cancel = nil
			}
			c.mu.Unlock()
			return
		}

		timer := time.NewTimer(c.opts.ReconnectDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// session runs one broker connection from dial to teardown.
func (c *Client) session(ctx context.Context, gen uint64) error {
	// The token is read below, so any earlier reauth request is already served.
	select {
	case <-c.reauth:
	default:
	}

	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("credential: %w", err)
	}
	if auth.Expired(token, time.Now(), 0) {
		logger.Log.Warn().Msg("Bearer token has expired; the broker will likely reject it")
	}

	sessionID := uuid.NewString()
	log := logger.Log.With().Str("session", sessionID).Str("url", c.opts.URL).Logger()
	log.Debug().Msg("Dialing broker")

	conn, err := c.dialer.Dial(ctx, ConnectOptions{
		URL: c.opts.URL,
		Headers: map[string]string{
			"Authorization": bearer(token),
			"Content-Type":  contentTypeJSON,
		},
		HeartbeatOutgoing: c.opts.HeartbeatOutgoing,
		HeartbeatIncoming: c.opts.HeartbeatIncoming,
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	current := c.generation == gen
	if current {
		c.conn, c.token = conn, token
	}
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		if c.conn == conn {
			c.conn, c.token = nil, ""
		}
		c.mu.Unlock()
		if err := conn.Disconnect(); err != nil {
			log.Debug().Err(err).Msg("Disconnect after session end")
		}
	}()

	if !current || !c.setStatus(gen, domain.StatusConnected) {
		return context.Canceled
	}
	log.Info().Msg("connect!")

	subs := newSubscriptions(c.opts.RoomID, c.store)
	if err := subs.open(conn, token); err != nil {
		return err
	}
	return subs.pump(ctx, c.reauth)
}

// setStatus records status for generation gen. Updates from a loop that
// has since been disconnected are dropped; the return value says whether
// gen is still current.
func (c *Client) setStatus(gen uint64, status domain.SessionStatus) bool {
	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		return false
	}
	changed := c.status != status
	c.status = status
	c.mu.Unlock()

	if changed {
		c.notify(status)
	}
	return true
}

func (c *Client) publishStatus(status domain.SessionStatus) {
	c.mu.Lock()
	changed := c.status != status
	c.status = status
	c.mu.Unlock()

	if changed {
		c.notify(status)
	}
}

func (c *Client) notify(status domain.SessionStatus) {
	c.listenerMu.RLock()
	defer c.listenerMu.RUnlock()
	for _, l := range c.listeners {
		l(status)
	}
}

func logSessionError(err error) {
	var brokerErr *BrokerError
	if errors.As(err, &brokerErr) {
		logger.Log.Error().
			Str("message", brokerErr.Message).
			Interface("headers", brokerErr.Headers).
			Bytes("body", brokerErr.Body).
			Msg("Broker reported error")
		return
	}
	logger.Log.Warn().Err(err).Msg("Session ended")
}
