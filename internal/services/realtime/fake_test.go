package realtime

import (
	"context"
	"errors"
	"sync"
)

type fakeSub struct {
	dest    string
	headers map[string]string
	frames  chan Frame

	mu           sync.Mutex
	unsubscribed bool
}

func (s *fakeSub) Destination() string  { return s.dest }
func (s *fakeSub) Frames() <-chan Frame { return s.frames }

func (s *fakeSub) Unsubscribe() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unsubscribed = true
	return nil
}

func (s *fakeSub) deliver(body string) {
	s.frames <- Frame{Destination: s.dest, Body: []byte(body)}
}

type sentFrame struct {
	destination string
	contentType string
	body        string
	headers     map[string]string
}

type fakeConn struct {
	mu           sync.Mutex
	subs         []*fakeSub
	sent         []sentFrame
	disconnected bool
	subscribeErr error

	dropOnce sync.Once
}

func (c *fakeConn) Subscribe(destination string, headers map[string]string) (Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subscribeErr != nil {
		return nil, c.subscribeErr
	}
	sub := &fakeSub{dest: destination, headers: headers, frames: make(chan Frame, 16)}
	c.subs = append(c.subs, sub)
	return sub, nil
}

func (c *fakeConn) Send(destination, contentType string, body []byte, headers map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disconnected {
		return errors.New("connection closed")
	}
	c.sent = append(c.sent, sentFrame{destination, contentType, string(body), headers})
	return nil
}

func (c *fakeConn) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnected = true
	return nil
}

// drop simulates a transport failure: every subscription channel closes.
func (c *fakeConn) drop() {
	c.dropOnce.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for _, s := range c.subs {
			close(s.frames)
		}
	})
}

func (c *fakeConn) subscriptions() []*fakeSub {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*fakeSub(nil), c.subs...)
}

func (c *fakeConn) sub(destination string) *fakeSub {
	for _, s := range c.subscriptions() {
		if s.dest == destination {
			return s
		}
	}
	return nil
}

func (c *fakeConn) isDisconnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disconnected
}

type fakeDialer struct {
	mu       sync.Mutex
	options  []ConnectOptions
	failures int
	connect  func(*fakeConn)

	dialed chan *fakeConn
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{dialed: make(chan *fakeConn, 16)}
}

func (d *fakeDialer) Dial(ctx context.Context, opts ConnectOptions) (Conn, error) {
	d.mu.Lock()
	d.options = append(d.options, opts)
	if d.failures > 0 {
		d.failures--
		d.mu.Unlock()
		return nil, errors.New("connection refused")
	}
	configure := d.connect
	d.mu.Unlock()

	conn := &fakeConn{}
	if configure != nil {
		configure(conn)
	}
	d.dialed <- conn
	return conn, nil
}

func (d *fakeDialer) dials() []ConnectOptions {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]ConnectOptions(nil), d.options...)
}

// mutableToken is a TokenSource whose token can be rotated mid-test.
type mutableToken struct {
	mu    sync.Mutex
	token string
}

func (m *mutableToken) Token() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *mutableToken) set(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}
