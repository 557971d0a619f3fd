package ui

import (
	"strings"
	"time"

	"github.com/gabrielcapilla/roomsync/internal/domain"
	"github.com/gabrielcapilla/roomsync/internal/ports"

	tea "github.com/charmbracelet/bubbletea"
)

// A reaction stays on screen for reactionWindow; reactions arriving while
// earlier ones are still visible grow the burst.
const reactionWindow = 3 * time.Second

var reactionGlyphs = map[domain.ReactionKind]string{
	domain.ReactionHeart:      "♥",
	domain.ReactionBook:       "📖",
	domain.ReactionMirrorBall: "🪩",
	domain.ReactionNote:       "♪",
}

// Glyphs drawn per burst stage.
var stageGlyphs = [...]int{0, 1, 4, 15}

type ReactionModel struct {
	kind     domain.ReactionKind
	arrivals []time.Time
	now      func() time.Time
	styles   Styles
}

func NewReactionModel(styles Styles) ReactionModel {
	return ReactionModel{now: time.Now, styles: styles}
}

func (m ReactionModel) Update(msg tea.Msg) (ReactionModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ports.ReactionReceivedMsg:
		m.kind = msg.Reaction.DisplayKind()
		m.arrivals = append(m.prune(), m.now())
		return m, tea.Tick(reactionWindow, func(t time.Time) tea.Msg { return reactionExpiredMsg(t) })
	case reactionExpiredMsg:
		m.arrivals = m.prune()
	}
	return m, nil
}

// prune returns the arrivals still inside the window, in a fresh slice.
func (m ReactionModel) prune() []time.Time {
	cutoff := m.now().Add(-reactionWindow)
	kept := make([]time.Time, 0, len(m.arrivals)+1)
	for _, t := range m.arrivals {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// Stage is 0 with nothing visible, then 1, 2 or 3 as the burst grows.
func (m ReactionModel) Stage() int {
	switch n := len(m.prune()); {
	case n == 0:
		return 0
	case n == 1:
		return 1
	case n <= 4:
		return 2
	default:
		return 3
	}
}

func (m ReactionModel) View() string {
	stage := m.Stage()
	if stage == 0 {
		return ""
	}
	glyph, ok := reactionGlyphs[m.kind]
	if !ok {
		glyph = reactionGlyphs[domain.ReactionNote]
	}
	glyphs := make([]string, stageGlyphs[stage])
	for i := range glyphs {
		glyphs[i] = glyph
	}
	return m.styles.Reaction.Render(strings.Join(glyphs, " "))
}
