package realtime

import (
	"context"
	"fmt"
	"time"
)

// ConnectOptions are the parameters of one broker session.
type ConnectOptions struct {
	URL               string
	Headers           map[string]string
	HeartbeatOutgoing time.Duration
	HeartbeatIncoming time.Duration
}

// Dialer opens broker sessions. The production Dialer speaks STOMP; tests
// substitute an in-memory one.
type Dialer interface {
	Dial(ctx context.Context, opts ConnectOptions) (Conn, error)
}

// Conn is one live broker session. Subscriptions end with the Conn: after a
// reconnect they must be registered again.
type Conn interface {
	Subscribe(destination string, headers map[string]string) (Subscription, error)
	Send(destination, contentType string, body []byte, headers map[string]string) error
	Disconnect() error
}

// Subscription delivers the frames of one destination. Frames is closed
// when the subscription or its connection ends.
type Subscription interface {
	Destination() string
	Frames() <-chan Frame
	Unsubscribe() error
}

// Frame is one delivery. Err is set instead of a body when the broker
// reported an error or the session failed.
type Frame struct {
	Destination string
	Body        []byte
	Err         error
}

// BrokerError is an ERROR frame sent by the broker.
type BrokerError struct {
	Message string
	Headers map[string]string
	Body    []byte
}

func (e *BrokerError) Error() string {
	return fmt.Sprintf("broker reported error: %s", e.Message)
}
