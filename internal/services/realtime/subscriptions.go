package realtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabrielcapilla/roomsync/internal/logger"
	"github.com/gabrielcapilla/roomsync/internal/services/envelope"
	"github.com/gabrielcapilla/roomsync/internal/services/state"
)

var errConnectionLost = errors.New("connection lost")

// subscriptions binds the room's two channels of one session to the store.
type subscriptions struct {
	roomID int64
	store  *state.Store

	broadcast Subscription
	direct    Subscription
}

func newSubscriptions(roomID int64, store *state.Store) *subscriptions {
	return &subscriptions{roomID: roomID, store: store}
}

// open subscribes the broadcast and direct channels on conn. Either both
// succeed or neither stays registered.
func (s *subscriptions) open(conn Conn, token string) error {
	headers := map[string]string{"Authorization": bearer(token)}

	broadcast, err := conn.Subscribe(BroadcastDestination(s.roomID), headers)
	if err != nil {
		return err
	}
	direct, err := conn.Subscribe(DirectDestination, headers)
	if err != nil {
		_ = broadcast.Unsubscribe()
		return err
	}

	s.broadcast, s.direct = broadcast, direct
	logger.Log.Info().
		Str("broadcast", broadcast.Destination()).
		Str("direct", direct.Destination()).
		Msg("Subscribed to room channels")
	return nil
}

// pump handles frames from both channels one at a time until ctx is done,
// interrupt fires, or the session ends. It always returns a non-nil error
// describing why it stopped.
func (s *subscriptions) pump(ctx context.Context, interrupt <-chan struct{}) error {
	broadcast, direct := s.broadcast.Frames(), s.direct.Frames()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-interrupt:
			return errReauthenticate
		case f, ok := <-broadcast:
			if !ok {
				return fmt.Errorf("%s: %w", s.broadcast.Destination(), errConnectionLost)
			}
			if f.Err != nil {
				return f.Err
			}
			s.handle(envelope.Broadcast, f)
		case f, ok := <-direct:
			if !ok {
				return fmt.Errorf("%s: %w", s.direct.Destination(), errConnectionLost)
			}
			if f.Err != nil {
				return f.Err
			}
			s.handle(envelope.Direct, f)
		}
	}
}

// handle runs one frame through parse and projection. Nothing a single frame
// contains can stop delivery of the next one.
func (s *subscriptions) handle(channel envelope.Channel, f Frame) {
	log := logger.Log.With().Str("channel", channel.String()).Str("destination", f.Destination).Logger()

	msg, err := envelope.Parse(channel, f.Body)
	switch {
	case errors.Is(err, envelope.ErrEmptyBody):
		log.Warn().Msg("got empty message")
		return
	case errors.Is(err, envelope.ErrUnregisteredType):
		log.Error().Err(err).Msg("Unregistered message type")
		return
	case err != nil:
		log.Error().Err(err).Bytes("body", f.Body).Msg("Could not decode message")
		return
	}

	if err := s.store.Apply(msg); err != nil {
		var domainErr *envelope.DomainError
		if errors.As(err, &domainErr) {
			log.Error().Str("code", domainErr.Code).Str("message", domainErr.Message).Msg("Server reported error")
			return
		}
		log.Error().Err(err).Str("type", string(msg.Type())).Msg("Could not apply message")
		return
	}
	log.Debug().Str("type", string(msg.Type())).Msg("Applied message")
}
