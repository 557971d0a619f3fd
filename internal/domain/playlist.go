package domain

import (
	"encoding/json"
	"fmt"
)

// PlaylistItem is one song queued in a room.
type PlaylistItem struct {
	ID        int64  `json:"playlistItemId"`
	Title     string `json:"title"`
	Duration  int    `json:"duration"`
	VideoID   string `json:"videoId,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Requester string `json:"requester,omitempty"`
}

// UnmarshalJSON accepts both the room server's "playlistItemId" and a bare "id".
func (p *PlaylistItem) UnmarshalJSON(b []byte) error {
	var wire struct {
		PlaylistItemID *int64 `json:"playlistItemId"`
		ID             *int64 `json:"id"`
		Title          string          `json:"title"`
		Duration       int             `json:"duration"`
		VideoID        string          `json:"videoId"`
		Thumbnail      string          `json:"thumbnail"`
		Requester      json.RawMessage `json:"requester"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	*p = PlaylistItem{
		Title:     wire.Title,
		Duration:  wire.Duration,
		VideoID:   wire.VideoID,
		Thumbnail: wire.Thumbnail,
		Requester: requesterName(wire.Requester),
	}
	switch {
	case wire.PlaylistItemID != nil:
		p.ID = *wire.PlaylistItemID
	case wire.ID != nil:
		p.ID = *wire.ID
	}
	return nil
}

// requesterName reads the requester as a plain string or as an object with a
// nickname or name. Anything else is dropped.
func requesterName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return name
	}
	var obj struct {
		Nickname string `json:"nickname"`
		Name     string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	if obj.Nickname != "" {
		return obj.Nickname
	}
	return obj.Name
}

// Playlist is an ordered sequence of items. Order is arrival order and the
// same identifier may appear more than once.
type Playlist []PlaylistItem

// IndexOf returns the position of the first item with the given id, or -1.
func (p Playlist) IndexOf(id int64) int {
	for i, item := range p {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Next returns the item after the one with the given id. When id is not in
// the playlist the first item is returned, matching how the room card picks
// the upcoming song before anything is playing.
func (p Playlist) Next(id int64) (PlaylistItem, bool) {
	i := p.IndexOf(id) + 1
	if i >= len(p) {
		return PlaylistItem{}, false
	}
	return p[i], true
}

// DurationText formats a duration in seconds as m:ss.
func DurationText(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
