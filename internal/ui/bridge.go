package ui

import (
	"github.com/gabrielcapilla/roomsync/internal/domain"
	"github.com/gabrielcapilla/roomsync/internal/ports"
	"github.com/gabrielcapilla/roomsync/internal/services/envelope"
	"github.com/gabrielcapilla/roomsync/internal/services/state"

	tea "github.com/charmbracelet/bubbletea"
)

// ChangeMsg turns an applied store change into the message the screen
// reacts to, or nil when nothing visible changed.
func ChangeMsg(c state.Change) tea.Msg {
	switch c.Message.(type) {
	case envelope.EmojiMessage:
		if c.Slots.Reaction == nil {
			return nil
		}
		return ports.ReactionReceivedMsg{Reaction: *c.Slots.Reaction}
	case envelope.PlaylistItemAddMessage, envelope.PlaylistItemRequestMessage:
		return ports.PlaylistChangedMsg{Current: c.Slots.Current, Proposed: c.Slots.Proposed}
	}
	return nil
}

// StatusMsg wraps a session status for the program.
func StatusMsg(s domain.SessionStatus) tea.Msg {
	return ports.SessionStatusMsg{Status: s}
}
