// Package state holds the three shared slots a room client renders from and
// the projection that updates them from decoded messages.
package state

import (
	"slices"

	"github.com/gabrielcapilla/roomsync/internal/domain"
	"github.com/gabrielcapilla/roomsync/internal/services/envelope"
)

// Slots is an immutable snapshot of room state. Apply never modifies the
// slices of the Slots it receives.
type Slots struct {
	Current  domain.Playlist
	Proposed domain.Playlist
	Reaction *domain.Reaction
}

// Apply projects msg onto s. Appends keep arrival order and never
// deduplicate. An ERROR message leaves s untouched and is returned as the
// report, a *envelope.DomainError.
func Apply(s Slots, msg envelope.Message) (Slots, error) {
	p := projection{slots: s}
	msg.Accept(&p)
	return p.slots, p.report
}

type projection struct {
	slots  Slots
	report error
}

func (p *projection) VisitError(m envelope.ErrorMessage) {
	p.report = m.Err()
}

func (p *projection) VisitEmoji(m envelope.EmojiMessage) {
	reaction := m.Reaction
	p.slots.Reaction = &reaction
}

func (p *projection) VisitPlaylistItemAdd(m envelope.PlaylistItemAddMessage) {
	p.slots.Current = appendItem(p.slots.Current, m.Item)
}

func (p *projection) VisitPlaylistItemRequest(m envelope.PlaylistItemRequestMessage) {
	p.slots.Proposed = appendItem(p.slots.Proposed, m.Item)
}

// appendItem copies before appending so earlier snapshots sharing the
// backing array stay unchanged.
func appendItem(list domain.Playlist, item domain.PlaylistItem) domain.Playlist {
	out := slices.Grow(slices.Clone(list), 1)
	return append(out, item)
}
