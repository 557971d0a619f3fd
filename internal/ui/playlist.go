package ui

import (
	"fmt"
	"strings"

	"github.com/gabrielcapilla/roomsync/internal/domain"
	"github.com/gabrielcapilla/roomsync/internal/ports"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const cardWidth = 28

var emptyPlaylistText = [2]string{
	"No songs\nwaiting.",
	"Add a song to the\nroom's playlist.",
}

// PlaylistModel shows the room's current playlist as a now/next card plus
// the queue, and the items proposed to this participant.
type PlaylistModel struct {
	width, height int
	current       domain.Playlist
	proposed      domain.Playlist
	styles        Styles
}

func NewPlaylistModel(styles Styles) PlaylistModel {
	return PlaylistModel{styles: styles}
}

func (m PlaylistModel) Update(msg tea.Msg) (PlaylistModel, tea.Cmd) {
	if msg, ok := msg.(ports.PlaylistChangedMsg); ok {
		m.current = msg.Current
		m.proposed = msg.Proposed
	}
	return m, nil
}

func (m *PlaylistModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// NowPlaying is the head of the current playlist.
func (m PlaylistModel) NowPlaying() (domain.PlaylistItem, bool) {
	if len(m.current) == 0 {
		return domain.PlaylistItem{}, false
	}
	return m.current[0], true
}

// UpNext is the item after the one playing, matched by playlist item id.
func (m PlaylistModel) UpNext() (domain.PlaylistItem, bool) {
	now, ok := m.NowPlaying()
	if !ok {
		return domain.PlaylistItem{}, false
	}
	return m.current.Next(now.ID)
}

func (m PlaylistModel) ProposedCount() int { return len(m.proposed) }

func (m PlaylistModel) cardView() string {
	var upper, lower string
	now, ok := m.NowPlaying()
	if !ok {
		upper = m.styles.Muted.Render(emptyPlaylistText[0])
		lower = m.styles.Muted.Render(emptyPlaylistText[1])
	} else {
		upper = m.itemLines(now, true)
		next, ok := m.UpNext()
		if !ok {
			next = domain.PlaylistItem{Title: "-"}
		}
		lower = m.itemLines(next, false)
	}

	inner := cardWidth - 2
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.CardTitle.Render("Playlist"),
		lipgloss.NewStyle().Width(inner).Render(upper),
		m.styles.Duration.Render(strings.Repeat("- ", inner/2)),
		m.styles.Muted.Render("Next"),
		lipgloss.NewStyle().Width(inner).Render(lower),
	)
}

func (m PlaylistModel) itemLines(item domain.PlaylistItem, bold bool) string {
	title := truncate(item.Title, cardWidth-2)
	if bold {
		title = m.styles.CardItem.Render(title)
	}
	return title + "\n" + m.styles.Duration.Render(domain.DurationText(item.Duration))
}

// queueView lists items one per line, numbered, fitting width and height.
func (m PlaylistModel) queueView(items domain.Playlist, width, height int, empty string) string {
	if len(items) == 0 {
		return m.styles.Muted.Render(empty)
	}
	var lines []string
	for i, item := range items {
		if height > 0 && len(lines) == height-1 && len(items) > height {
			lines = append(lines, m.styles.Muted.Render(fmt.Sprintf("... and %d more", len(items)-i)))
			break
		}
		duration := domain.DurationText(item.Duration)
		prefix := fmt.Sprintf("%2d. ", i+1)
		title := truncate(item.Title, width-lipgloss.Width(prefix)-lipgloss.Width(duration)-1)
		gap := width - lipgloss.Width(prefix+title) - lipgloss.Width(duration)
		if gap < 1 {
			gap = 1
		}
		lines = append(lines, prefix+title+strings.Repeat(" ", gap)+m.styles.Duration.Render(duration))
	}
	return strings.Join(lines, "\n")
}

func (m PlaylistModel) View() string {
	card := m.cardView()
	queueWidth := m.width - cardWidth - 2
	if queueWidth < 20 {
		return card
	}
	queue := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.CardTitle.Render("Queue"),
		m.queueView(m.current, queueWidth, m.height-2, "The queue is empty."),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(cardWidth).Render(card),
		"  ",
		queue,
	)
}

func (m PlaylistModel) ProposedView() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.CardTitle.Render("Proposed to you"),
		m.queueView(m.proposed, m.width, m.height-2, "Nobody has proposed a song to you."),
	)
}
