package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func tabBorderWithBottom(left, middle, right string) lipgloss.Border {
	border := lipgloss.RoundedBorder()
	border.BottomLeft = left
	border.Bottom = middle
	border.BottomRight = right
	return border
}

var (
	inactiveTabBorder = tabBorderWithBottom("┴", "─", "┴")
	activeTabBorder   = tabBorderWithBottom("┘", " ", "└")
	highlightColor    = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	inactiveTabStyle  = lipgloss.NewStyle().Border(inactiveTabBorder, true).BorderForeground(highlightColor).Padding(0, 1)
	activeTabStyle    = inactiveTabStyle.Border(activeTabBorder, true).Bold(true)
)

type tab int

const (
	playlistTab tab = iota
	proposedTab
	historyTab
)

var tabTitles = map[tab]string{
	playlistTab: "Playlist",
	proposedTab: "Proposed",
	historyTab:  "History",
}

type TabModel struct {
	Tabs      []tab
	ActiveTab int
}

func NewTabModel() TabModel {
	return TabModel{
		Tabs:      []tab{playlistTab, proposedTab, historyTab},
		ActiveTab: 0,
	}
}

func (m TabModel) Active() tab { return m.Tabs[m.ActiveTab] }

func (m *TabModel) Next() {
	m.ActiveTab = (m.ActiveTab + 1) % len(m.Tabs)
}

func (m *TabModel) Prev() {
	m.ActiveTab--
	if m.ActiveTab < 0 {
		m.ActiveTab = len(m.Tabs) - 1
	}
}

// View renders the tab row. badges holds an optional count per tab.
func (m TabModel) View(badges map[tab]int) string {
	var renderedTabs []string

	for i, t := range m.Tabs {
		var style lipgloss.Style
		if i == m.ActiveTab {
			style = activeTabStyle
		} else {
			style = inactiveTabStyle
		}
		title := tabTitles[t]
		if n := badges[t]; n > 0 {
			title = fmt.Sprintf("%s (%d)", title, n)
		}
		renderedTabs = append(renderedTabs, style.Render(title))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}
