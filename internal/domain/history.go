package domain

import "time"

// HistoryEntry records a playlist item seen in a room.
type HistoryEntry struct {
	RoomID int64
	Item   PlaylistItem
	SeenAt time.Time
}
