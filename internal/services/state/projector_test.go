package state

import (
	"errors"
	"testing"

	"github.com/gabrielcapilla/roomsync/internal/domain"
	"github.com/gabrielcapilla/roomsync/internal/services/envelope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, channel envelope.Channel, body string) envelope.Message {
	t.Helper()
	msg, err := envelope.Parse(channel, []byte(body))
	require.NoError(t, err)
	return msg
}

func TestApply_PlaylistAddKeepsArrivalOrder(t *testing.T) {
	var s Slots
	for _, body := range []string{
		`{"type":"PLAYLIST_ITEM_ADD","data":{"id":1,"title":"A"}}`,
		`{"type":"PLAYLIST_ITEM_ADD","data":{"id":2,"title":"B"}}`,
	} {
		var err error
		s, err = Apply(s, mustParse(t, envelope.Broadcast, body))
		require.NoError(t, err)
	}

	assert.Equal(t, domain.Playlist{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}, s.Current)
	assert.Empty(t, s.Proposed)
	assert.Nil(t, s.Reaction)
}

func TestApply_PlaylistRequestTouchesOnlyProposed(t *testing.T) {
	heart := domain.Reaction{Kind: domain.ReactionHeart}
	before := Slots{
		Current:  domain.Playlist{{ID: 1, Title: "A"}},
		Reaction: &heart,
	}

	after, err := Apply(before, mustParse(t, envelope.Direct,
		`{"type":"PLAYLIST_ITEM_REQUEST","data":{"id":9,"title":"X"}}`))

	require.NoError(t, err)
	assert.Equal(t, domain.Playlist{{ID: 9, Title: "X"}}, after.Proposed)
	assert.Equal(t, before.Current, after.Current)
	assert.Same(t, before.Reaction, after.Reaction)
}

func TestApply_ErrorMutatesNothing(t *testing.T) {
	heart := domain.Reaction{Kind: domain.ReactionHeart}
	before := Slots{
		Current:  domain.Playlist{{ID: 1}},
		Proposed: domain.Playlist{{ID: 2}},
		Reaction: &heart,
	}

	for _, channel := range []envelope.Channel{envelope.Broadcast, envelope.Direct} {
		after, err := Apply(before, mustParse(t, channel, `{"type":"ERROR","code":"E1","message":"bad"}`))

		var domainErr *envelope.DomainError
		require.True(t, errors.As(err, &domainErr), "channel %s", channel)
		assert.Equal(t, "E1", domainErr.Code)
		assert.Equal(t, "bad", domainErr.Message)
		assert.Equal(t, before, after)
	}
}

func TestApply_EmojiReplacesReaction(t *testing.T) {
	s, err := Apply(Slots{}, envelope.EmojiMessage{Reaction: domain.Reaction{Kind: domain.ReactionBook}})
	require.NoError(t, err)
	s, err = Apply(s, envelope.EmojiMessage{Reaction: domain.Reaction{Kind: domain.ReactionMirrorBall}})
	require.NoError(t, err)

	require.NotNil(t, s.Reaction)
	assert.Equal(t, domain.ReactionMirrorBall, s.Reaction.Kind)
}

func TestApply_DuplicateIdentifiersArePreserved(t *testing.T) {
	item := domain.PlaylistItem{ID: 4, Title: "Again"}
	s, _ := Apply(Slots{}, envelope.PlaylistItemAddMessage{Item: item})
	s, _ = Apply(s, envelope.PlaylistItemAddMessage{Item: item})

	assert.Equal(t, domain.Playlist{item, item}, s.Current)
}

func TestApply_DoesNotWriteIntoEarlierSnapshots(t *testing.T) {
	base := make(domain.Playlist, 1, 8)
	base[0] = domain.PlaylistItem{ID: 1}
	first := Slots{Current: base}

	a, _ := Apply(first, envelope.PlaylistItemAddMessage{Item: domain.PlaylistItem{ID: 2}})
	b, _ := Apply(first, envelope.PlaylistItemAddMessage{Item: domain.PlaylistItem{ID: 3}})

	assert.Equal(t, int64(2), a.Current[1].ID)
	assert.Equal(t, int64(3), b.Current[1].ID)
	assert.Len(t, first.Current, 1)
}
