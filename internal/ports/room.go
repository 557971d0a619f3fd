package ports

import (
	"context"

	"github.com/gabrielcapilla/roomsync/internal/domain"
)

// RoomClient is the part of the realtime client the UI drives.
type RoomClient interface {
	Status() domain.SessionStatus
	Publish(ctx context.Context, destination string, payload any) error
	Reauthenticate()
}
