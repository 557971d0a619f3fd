package realtime

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	handshakeTimeout = 10 * time.Second
	closeGrace       = time.Second
)

// STOMP over WebSocket subprotocols, most recent first.
var stompSubprotocols = []string{"v12.stomp", "v11.stomp", "v10.stomp"}

// Transport opens the byte stream a STOMP session runs on.
type Transport interface {
	Open(ctx context.Context, rawURL string) (io.ReadWriteCloser, error)
}

// TransportFor picks the transport for a broker URL: WebSocket for ws and
// wss, plain TCP for tcp and stomp URLs.
func TransportFor(rawURL string) (Transport, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse broker url: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
		return WebSocketTransport{}, nil
	case "tcp", "stomp":
		return TCPTransport{}, nil
	default:
		return nil, fmt.Errorf("unsupported broker url scheme %q", u.Scheme)
	}
}

// WebSocketTransport carries STOMP frames as WebSocket text messages.
type WebSocketTransport struct {
	Header http.Header
}

func (t WebSocketTransport) Open(ctx context.Context, rawURL string) (io.ReadWriteCloser, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshakeTimeout,
		Subprotocols:     stompSubprotocols,
	}
	conn, _, err := dialer.DialContext(ctx, rawURL, t.Header)
	if err != nil {
		return nil, fmt.Errorf("websocket dial: %w", err)
	}
	return newWSStream(conn), nil
}

// TCPTransport speaks STOMP directly on a TCP connection.
type TCPTransport struct{}

func (TCPTransport) Open(ctx context.Context, rawURL string) (io.ReadWriteCloser, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse broker url: %w", err)
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", u.Host)
	if err != nil {
		return nil, fmt.Errorf("tcp dial: %w", err)
	}
	return conn, nil
}

// wsStream turns a message-oriented WebSocket into the byte stream go-stomp
// expects. Reads concatenate incoming messages. Writes are buffered until a
// whole frame (NUL terminated) or a heart-beat (bare EOL) is pending, so each
// STOMP frame travels in exactly one WebSocket message.
type wsStream struct {
	conn   *websocket.Conn
	reader io.Reader

	writeMu sync.Mutex
	pending []byte
}

func newWSStream(conn *websocket.Conn) *wsStream {
	return &wsStream{conn: conn}
}

func (s *wsStream) Read(p []byte) (int, error) {
	for {
		if s.reader == nil {
			_, r, err := s.conn.NextReader()
			if err != nil {
				return 0, err
			}
			s.reader = r
		}
		n, err := s.reader.Read(p)
		if err == io.EOF {
			s.reader = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (s *wsStream) Write(p []byte) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.pending = append(s.pending, p...)
	if !frameComplete(s.pending) {
		return len(p), nil
	}
	err := s.conn.WriteMessage(websocket.TextMessage, s.pending)
	s.pending = s.pending[:0]
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

// frameComplete reports whether pending ends a STOMP frame or is a bare
// heart-beat. It relies on frame bodies never holding a NUL byte: a write
// that happens to end on one inside a body would be sent early as its own
// message. Every body on this connection is JSON, which cannot contain a
// raw NUL.
func frameComplete(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	if b[len(b)-1] == 0 {
		return true
	}
	return len(bytes.Trim(b, "\r\n")) == 0
}

func (s *wsStream) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGrace))
	return s.conn.Close()
}
