package realtime

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/go-stomp/stomp/v3"
	"github.com/go-stomp/stomp/v3/frame"
)

const disconnectTimeout = 2 * time.Second

// STOMPDialer opens STOMP sessions on the transport matching the broker URL.
type STOMPDialer struct {
	// Transport overrides the transport chosen from the URL scheme.
	Transport Transport
	Logger    stomp.Logger
}

func (d STOMPDialer) Dial(ctx context.Context, opts ConnectOptions) (Conn, error) {
	transport := d.Transport
	if transport == nil {
		var err error
		if transport, err = TransportFor(opts.URL); err != nil {
			return nil, err
		}
	}

	rwc, err := transport.Open(ctx, opts.URL)
	if err != nil {
		return nil, err
	}

	connOpts := []func(*stomp.Conn) error{
		stomp.ConnOpt.HeartBeat(opts.HeartbeatOutgoing, opts.HeartbeatIncoming),
	}
	if u, err := url.Parse(opts.URL); err == nil && u.Hostname() != "" {
		connOpts = append(connOpts, stomp.ConnOpt.Host(u.Hostname()))
	}
	if d.Logger != nil {
		connOpts = append(connOpts, stomp.ConnOpt.Logger(d.Logger))
	}
	for k, v := range opts.Headers {
		connOpts = append(connOpts, stomp.ConnOpt.Header(k, v))
	}

	// stomp.Connect has no context; closing the stream aborts the handshake.
	stop := context.AfterFunc(ctx, func() { rwc.Close() })
	conn, err := stomp.Connect(rwc, connOpts...)
	if !stop() {
		if err == nil {
			conn.MustDisconnect()
		}
		return nil, ctx.Err()
	}
	if err != nil {
		rwc.Close()
		return nil, fmt.Errorf("stomp connect: %w", err)
	}
	return &stompConn{conn: conn, done: make(chan struct{})}, nil
}

type stompConn struct {
	conn *stomp.Conn

	// done is closed by Disconnect and stops every forwarder of this conn.
	once sync.Once
	done chan struct{}
}

func (c *stompConn) Subscribe(destination string, headers map[string]string) (Subscription, error) {
	opts := make([]func(*frame.Frame) error, 0, len(headers))
	for k, v := range headers {
		opts = append(opts, stomp.SubscribeOpt.Header(k, v))
	}
	sub, err := c.conn.Subscribe(destination, stomp.AckAuto, opts...)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", destination, err)
	}

	s := &stompSubscription{
		sub:      sub,
		frames:   make(chan Frame),
		done:     make(chan struct{}),
		connDone: c.done,
	}
	go s.forward()
	return s, nil
}

func (c *stompConn) Send(destination, contentType string, body []byte, headers map[string]string) error {
	opts := make([]func(*frame.Frame) error, 0, len(headers))
	for k, v := range headers {
		opts = append(opts, stomp.SendOpt.Header(k, v))
	}
	return c.conn.Send(destination, contentType, body, opts...)
}

// Disconnect asks the broker for a graceful DISCONNECT receipt and drops the
// connection if none arrives in time.
func (c *stompConn) Disconnect() error {
	c.once.Do(func() { close(c.done) })

	done := make(chan error, 1)
	go func() { done <- c.conn.Disconnect() }()

	select {
	case err := <-done:
		return err
	case <-time.After(disconnectTimeout):
		return c.conn.MustDisconnect()
	}
}

type stompSubscription struct {
	sub    *stomp.Subscription
	frames chan Frame

	once     sync.Once
	done     chan struct{}
	connDone <-chan struct{}
}

func (s *stompSubscription) Destination() string  { return s.sub.Destination() }
func (s *stompSubscription) Frames() <-chan Frame { return s.frames }

func (s *stompSubscription) Unsubscribe() error {
	s.once.Do(func() { close(s.done) })
	if !s.sub.Active() {
		return nil
	}
	return s.sub.Unsubscribe()
}

// forward copies deliveries into frames until the subscription or its
// connection is closed by us, or go-stomp closes sub.C.
func (s *stompSubscription) forward() {
	defer close(s.frames)
	for {
		var msg *stomp.Message
		var ok bool
		select {
		case msg, ok = <-s.sub.C:
			if !ok {
				return
			}
		case <-s.done:
			return
		case <-s.connDone:
			return
		}

		f := Frame{Destination: msg.Destination, Body: msg.Body}
		if msg.Err != nil {
			f = Frame{Destination: s.sub.Destination(), Err: brokerError(msg.Err)}
		}
		select {
		case s.frames <- f:
		case <-s.done:
			return
		case <-s.connDone:
			return
		}
	}
}

func brokerError(err error) error {
	var stompErr *stomp.Error
	if !errors.As(err, &stompErr) || stompErr.Frame == nil {
		return err
	}
	be := &BrokerError{
		Message: stompErr.Message,
		Headers: make(map[string]string),
		Body:    stompErr.Frame.Body,
	}
	if h := stompErr.Frame.Header; h != nil {
		for i := 0; i < h.Len(); i++ {
			k, v := h.GetAt(i)
			be.Headers[k] = v
		}
	}
	return be
}
