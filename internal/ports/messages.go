package ports

import "github.com/gabrielcapilla/roomsync/internal/domain"

type FocusState int

const (
	GlobalFocus FocusState = iota
	ComponentFocus
)

type ChangeFocusMsg struct{ NewFocus FocusState }

type HistoryLoadedMsg struct{ Entries []domain.HistoryEntry }
type HistoryErrorMsg struct{ Err error }

// PlaylistChangedMsg carries both playlists after a playlist message was applied.
type PlaylistChangedMsg struct {
	Current  domain.Playlist
	Proposed domain.Playlist
}

// ReactionReceivedMsg is sent once per applied reaction, even when the kind repeats.
type ReactionReceivedMsg struct{ Reaction domain.Reaction }

type SessionStatusMsg struct{ Status domain.SessionStatus }

type PublishResultMsg struct {
	Kind domain.ReactionKind
	Err  error
}

// NoticeMsg shows a one-line notice in the status bar.
type NoticeMsg struct{ Text string }
