package state

import (
	"errors"
	"testing"

	"github.com/gabrielcapilla/roomsync/internal/domain"
	"github.com/gabrielcapilla/roomsync/internal/services/envelope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ApplyNotifiesListeners(t *testing.T) {
	store := NewStore()

	var changes []Change
	cancel := store.Listen(func(c Change) { changes = append(changes, c) })

	msg := envelope.PlaylistItemAddMessage{Item: domain.PlaylistItem{ID: 1, Title: "A"}}
	require.NoError(t, store.Apply(msg))

	require.Len(t, changes, 1)
	assert.Equal(t, msg, changes[0].Message)
	assert.Equal(t, domain.Playlist{{ID: 1, Title: "A"}}, changes[0].Slots.Current)
	assert.Equal(t, changes[0].Slots, store.Snapshot())

	cancel()
	require.NoError(t, store.Apply(msg))
	assert.Len(t, changes, 1, "A cancelled listener must not be called again")
	assert.Len(t, store.Snapshot().Current, 2)
}

func TestStore_ApplyReturnsDomainErrors(t *testing.T) {
	store := NewStore()

	err := store.Apply(envelope.ErrorMessage{Code: "E1", Message: "bad"})

	var domainErr *envelope.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, Slots{}, store.Snapshot())
}

func TestStore_SnapshotIsStable(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Apply(envelope.PlaylistItemRequestMessage{Item: domain.PlaylistItem{ID: 1}}))

	snapshot := store.Snapshot()
	require.NoError(t, store.Apply(envelope.PlaylistItemRequestMessage{Item: domain.PlaylistItem{ID: 2}}))

	assert.Len(t, snapshot.Proposed, 1)
	assert.Len(t, store.Snapshot().Proposed, 2)
}
