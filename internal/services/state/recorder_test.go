package state

import (
	"errors"
	"testing"

	"github.com/gabrielcapilla/roomsync/internal/domain"
	"github.com/gabrielcapilla/roomsync/internal/services/envelope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistory struct {
	entries []domain.HistoryEntry
	err     error
}

func (f *fakeHistory) AddToHistory(entry domain.HistoryEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeHistory) GetHistory(roomID int64, limit int) ([]domain.HistoryEntry, error) {
	return f.entries, nil
}

func (f *fakeHistory) Close() error { return nil }

func TestHistoryRecorder_RecordsOnlyPlaylistAdds(t *testing.T) {
	history := &fakeHistory{}
	store := NewStore()
	store.Listen(HistoryRecorder(7, history))

	require.NoError(t, store.Apply(envelope.PlaylistItemAddMessage{Item: domain.PlaylistItem{ID: 1, Title: "A"}}))
	require.NoError(t, store.Apply(envelope.PlaylistItemRequestMessage{Item: domain.PlaylistItem{ID: 2}}))
	require.NoError(t, store.Apply(envelope.EmojiMessage{Reaction: domain.Reaction{Kind: domain.ReactionHeart}}))

	require.Len(t, history.entries, 1)
	assert.Equal(t, int64(7), history.entries[0].RoomID)
	assert.Equal(t, "A", history.entries[0].Item.Title)
	assert.False(t, history.entries[0].SeenAt.IsZero())
}

func TestHistoryRecorder_StorageErrorDoesNotBlockState(t *testing.T) {
	store := NewStore()
	store.Listen(HistoryRecorder(1, &fakeHistory{err: errors.New("disk full")}))

	require.NoError(t, store.Apply(envelope.PlaylistItemAddMessage{Item: domain.PlaylistItem{ID: 1}}))
	assert.Len(t, store.Snapshot().Current, 1)
}
