package state

import (
	"testing"

	"github.com/gabrielcapilla/roomsync/internal/domain"
	"github.com/gabrielcapilla/roomsync/internal/services/envelope"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: after N PLAYLIST_ITEM_ADD messages the current playlist holds N
// items in arrival order.
func TestApplyPlaylistAddOrderProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("current playlist mirrors arrival order", prop.ForAll(
		func(ids []int64) bool {
			var s Slots
			for _, id := range ids {
				s, _ = Apply(s, envelope.PlaylistItemAddMessage{Item: domain.PlaylistItem{ID: id}})
			}
			if len(s.Current) != len(ids) {
				return false
			}
			for i, id := range ids {
				if s.Current[i].ID != id {
					return false
				}
			}
			return len(s.Proposed) == 0 && s.Reaction == nil
		},
		gen.SliceOf(gen.Int64Range(0, 5)),
	))

	properties.TestingRun(t)
}

// Property: the active reaction is the payload of the last EMOJI message.
func TestApplyEmojiLastWriteWinsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("last reaction wins", prop.ForAll(
		func(seq []int) bool {
			var s Slots
			for _, i := range seq {
				s, _ = Apply(s, envelope.EmojiMessage{Reaction: domain.Reaction{Kind: domain.ReactionKinds[i]}})
			}
			return s.Reaction != nil && s.Reaction.Kind == domain.ReactionKinds[seq[len(seq)-1]]
		},
		gen.SliceOfN(8, gen.IntRange(0, len(domain.ReactionKinds)-1)),
	))

	properties.TestingRun(t)
}

// Property: ERROR envelopes never change any slot.
func TestApplyErrorIsInertProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("errors leave slots untouched", prop.ForAll(
		func(current, proposed int, code, message string) bool {
			before := Slots{
				Current:  make(domain.Playlist, current),
				Proposed: make(domain.Playlist, proposed),
			}
			after, err := Apply(before, envelope.ErrorMessage{Code: code, Message: message})
			return err != nil &&
				len(after.Current) == current &&
				len(after.Proposed) == proposed &&
				after.Reaction == nil
		},
		gen.IntRange(0, 10),
		gen.IntRange(0, 10),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
