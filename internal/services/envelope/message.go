// Package envelope decodes the JSON bodies delivered on a room's STOMP
// channels into a closed set of message variants.
package envelope

import (
	"fmt"

	"github.com/gabrielcapilla/roomsync/internal/domain"
)

// Channel identifies which subscription a frame arrived on. Each channel
// accepts its own subset of message types.
type Channel int

const (
	Broadcast Channel = iota
	Direct
)

func (c Channel) String() string {
	switch c {
	case Broadcast:
		return "broadcast"
	case Direct:
		return "direct"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// Type is the wire tag carried in the envelope's "type" field.
type Type string

const (
	TypeError               Type = "ERROR"
	TypeEmoji               Type = "EMOJI"
	TypePlaylistItemAdd     Type = "PLAYLIST_ITEM_ADD"
	TypePlaylistItemRequest Type = "PLAYLIST_ITEM_REQUEST"
)

var channelTypes = map[Channel][]Type{
	Broadcast: {TypeError, TypeEmoji, TypePlaylistItemAdd},
	Direct:    {TypeError, TypePlaylistItemRequest},
}

// Accepts reports whether t may arrive on c.
func (c Channel) Accepts(t Type) bool {
	for _, known := range channelTypes[c] {
		if known == t {
			return true
		}
	}
	return false
}

// Message is one decoded envelope. The set of implementations is closed:
// only this package can add one, and adding one means adding a method to
// Visitor, which breaks every consumer until it handles the new variant.
type Message interface {
	Type() Type
	Accept(v Visitor)
	sealed()
}

// Visitor handles every message variant.
type Visitor interface {
	VisitError(ErrorMessage)
	VisitEmoji(EmojiMessage)
	VisitPlaylistItemAdd(PlaylistItemAddMessage)
	VisitPlaylistItemRequest(PlaylistItemRequestMessage)
}

// ErrorMessage is a domain error reported by the room server.
type ErrorMessage struct {
	Code    string
	Message string
}

func (m ErrorMessage) Type() Type       { return TypeError }
func (m ErrorMessage) Accept(v Visitor) { v.VisitError(m) }
func (ErrorMessage) sealed()            {}

// Err returns the message as a *DomainError.
func (m ErrorMessage) Err() error { return &DomainError{Code: m.Code, Message: m.Message} }

type EmojiMessage struct {
	Reaction domain.Reaction
}

func (m EmojiMessage) Type() Type       { return TypeEmoji }
func (m EmojiMessage) Accept(v Visitor) { v.VisitEmoji(m) }
func (EmojiMessage) sealed()            {}

// PlaylistItemAddMessage adds an item to the room's current playlist.
type PlaylistItemAddMessage struct {
	Item domain.PlaylistItem
}

func (m PlaylistItemAddMessage) Type() Type       { return TypePlaylistItemAdd }
func (m PlaylistItemAddMessage) Accept(v Visitor) { v.VisitPlaylistItemAdd(m) }
func (PlaylistItemAddMessage) sealed()            {}

// PlaylistItemRequestMessage proposes an item to this participant.
type PlaylistItemRequestMessage struct {
	Item domain.PlaylistItem
}

func (m PlaylistItemRequestMessage) Type() Type       { return TypePlaylistItemRequest }
func (m PlaylistItemRequestMessage) Accept(v Visitor) { v.VisitPlaylistItemRequest(m) }
func (PlaylistItemRequestMessage) sealed()            {}
