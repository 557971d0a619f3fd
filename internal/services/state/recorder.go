package state

import (
	"time"

	"github.com/gabrielcapilla/roomsync/internal/domain"
	"github.com/gabrielcapilla/roomsync/internal/logger"
	"github.com/gabrielcapilla/roomsync/internal/ports"
	"github.com/gabrielcapilla/roomsync/internal/services/envelope"
)

// HistoryRecorder returns a Listener that stores every item added to the
// room's current playlist. Storage failures are logged and never reach the
// message pipeline.
func HistoryRecorder(roomID int64, storage ports.StorageService) Listener {
	return func(c Change) {
		add, ok := c.Message.(envelope.PlaylistItemAddMessage)
		if !ok {
			return
		}
		entry := domain.HistoryEntry{RoomID: roomID, Item: add.Item, SeenAt: time.Now()}
		if err := storage.AddToHistory(entry); err != nil {
			logger.Log.Warn().Err(err).Int64("item_id", add.Item.ID).Msg("Could not record history entry")
		}
	}
}
