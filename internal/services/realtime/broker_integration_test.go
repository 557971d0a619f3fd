package realtime

import (
	"net"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gabrielcapilla/roomsync/internal/domain"
	"github.com/gabrielcapilla/roomsync/internal/services/state"
	"github.com/go-stomp/stomp/v3"
	"github.com/go-stomp/stomp/v3/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trackingListener remembers accepted connections so a test can cut them.
type trackingListener struct {
	net.Listener

	mu    sync.Mutex
	conns []net.Conn
}

func (l *trackingListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err == nil {
		l.mu.Lock()
		l.conns = append(l.conns, conn)
		l.mu.Unlock()
	}
	return conn, err
}

func (l *trackingListener) cut() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range l.conns {
		c.Close()
	}
	l.conns = nil
}

func startBroker(t *testing.T) *trackingListener {
	t.Helper()
	inner, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	l := &trackingListener{Listener: inner}
	go func() { _ = server.Serve(l) }()
	t.Cleanup(func() { l.Close() })
	return l
}

func TestClient_AgainstBroker(t *testing.T) {
	l := startBroker(t)
	addr := l.Addr().String()

	store := state.NewStore()
	c := NewClient(Options{
		URL:            "tcp://" + addr,
		RoomID:         7,
		ReconnectDelay: 20 * time.Millisecond,
	}, &mutableToken{token: "secret"}, store, STOMPDialer{})
	defer func() {
		c.Disconnect()
		<-c.Done()
	}()
	c.Connect()

	publisher, err := stomp.Dial("tcp", addr)
	require.NoError(t, err)
	defer func() { _ = publisher.MustDisconnect() }()

	// Topic deliveries before the subscription exists are lost, so keep
	// publishing until one lands.
	reactionIs := func(kind domain.ReactionKind) func() bool {
		return func() bool {
			body := `{"type":"EMOJI","data":{"emojiType":"` + string(kind) + `"}}`
			if err := publisher.Send(BroadcastDestination(7), "application/json", []byte(body)); err != nil {
				return false
			}
			r := store.Snapshot().Reaction
			return r != nil && r.Kind == kind
		}
	}

	require.Eventually(t, reactionIs(domain.ReactionHeart), 2*time.Second, 20*time.Millisecond)

	l.cut()
	publisher, err = stomp.Dial("tcp", addr)
	require.NoError(t, err)

	assert.Eventually(t, reactionIs(domain.ReactionBook), 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, domain.StatusConnected, c.Status())
}

// forwarders counts live goroutines copying STOMP deliveries into frames.
func forwarders() int {
	buf := make([]byte, 1<<20)
	n := runtime.Stack(buf, true)
	return strings.Count(string(buf[:n]), "(*stompSubscription).forward(")
}

func TestClient_SessionTeardownStopsForwarders(t *testing.T) {
	l := startBroker(t)
	store := state.NewStore()
	c := NewClient(Options{
		URL:            "tcp://" + l.Addr().String(),
		RoomID:         7,
		ReconnectDelay: 20 * time.Millisecond,
	}, &mutableToken{token: "secret"}, store, STOMPDialer{})

	for i := 0; i < 5; i++ {
		c.Connect()
		require.Eventually(t, func() bool { return c.Status() == domain.StatusConnected }, 2*time.Second, 10*time.Millisecond)
		require.Eventually(t, func() bool { return forwarders() >= 2 }, 2*time.Second, 10*time.Millisecond)

		c.Disconnect()
		select {
		case <-c.Done():
		case <-time.After(5 * time.Second):
			t.Fatalf("cycle %d: session loop did not stop", i)
		}
	}

	assert.Eventually(t, func() bool { return forwarders() == 0 }, 2*time.Second, 10*time.Millisecond)
}
