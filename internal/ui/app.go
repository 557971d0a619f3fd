package ui

import (
	"context"
	"time"

	"github.com/gabrielcapilla/roomsync/internal/domain"
	"github.com/gabrielcapilla/roomsync/internal/ports"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	MIN_WIDTH  = 50
	MIN_HEIGHT = 15

	publishTimeout = 5 * time.Second
)

// Keys 1-4 send these reactions.
var reactionKeys = map[string]domain.ReactionKind{
	"1": domain.ReactionHeart,
	"2": domain.ReactionBook,
	"3": domain.ReactionMirrorBall,
	"4": domain.ReactionNote,
}

type AppModel struct {
	width, height int
	room          ports.RoomClient
	config        domain.Config
	focus         ports.FocusState
	tabs          TabModel
	playlist      PlaylistModel
	history       listAndFilterModel
	reactions     ReactionModel
	status        StatusModel
	styles        Styles
}

// InitialModel builds the room screen. cfg.Room.ReactionDestination must
// already name the concrete room.
func InitialModel(room ports.RoomClient, storage ports.StorageService, cfg domain.Config) AppModel {
	styles := DefaultStyles()
	return AppModel{
		room:      room,
		config:    cfg,
		focus:     ports.GlobalFocus,
		tabs:      NewTabModel(),
		playlist:  NewPlaylistModel(styles),
		history:   NewHistoryModel(storage, cfg, styles),
		reactions: NewReactionModel(styles),
		status:    NewStatusModel(cfg.Room.ID, room.Status(), styles),
		styles:    styles,
	}
}

func (m AppModel) Init() tea.Cmd { return nil }

func publishReactionCmd(room ports.RoomClient, destination string, kind domain.ReactionKind) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		err := room.Publish(ctx, destination, domain.Reaction{Kind: kind})
		return ports.PublishResultMsg{Kind: kind, Err: err}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case ports.ChangeFocusMsg:
		m.focus = msg.NewFocus
		if m.focus == ports.GlobalFocus {
			m.history.Blur()
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.focus == ports.ComponentFocus {
			m.history, cmd = m.history.Update(msg)
			return m, cmd
		}
		return m.handleGlobalKey(msg)
	case ports.PlaylistChangedMsg:
		m.playlist, cmd = m.playlist.Update(msg)
		return m, cmd
	case ports.ReactionReceivedMsg, reactionExpiredMsg:
		m.reactions, cmd = m.reactions.Update(msg)
		return m, cmd
	case ports.SessionStatusMsg, ports.NoticeMsg, ports.PublishResultMsg:
		m.status, cmd = m.status.Update(msg)
		return m, cmd
	}

	// Loader results and spinner ticks.
	m.history, cmd = m.history.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m AppModel) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if kind, ok := reactionKeys[key]; ok {
		return m, publishReactionCmd(m.room, m.config.Room.ReactionDestination, kind)
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "tab", "right", "l":
		m.tabs.Next()
		return m, m.onTabChanged()
	case "shift+tab", "left", "h":
		m.tabs.Prev()
		return m, m.onTabChanged()
	case "r":
		m.room.Reauthenticate()
		return m, func() tea.Msg { return ports.NoticeMsg{Text: "reconnecting with stored credentials"} }
	case "enter", "/":
		if m.tabs.Active() == historyTab {
			m.focus = ports.ComponentFocus
			return m, m.history.Focus()
		}
	}
	return m, nil
}

func (m *AppModel) onTabChanged() tea.Cmd {
	if m.tabs.Active() == historyTab {
		return m.history.Init()
	}
	return nil
}

func (m AppModel) View() string {
	if m.width < MIN_WIDTH || m.height < MIN_HEIGHT {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, "Terminal too small")
	}

	availableWidth := m.width - m.styles.App.GetHorizontalFrameSize()

	tabsView := m.tabs.View(map[tab]int{proposedTab: m.playlist.ProposedCount()})
	reactionHeight := 1
	statusHeight := 1
	helpHeight := 1

	mainHeight := m.height - lipgloss.Height(tabsView) - reactionHeight - statusHeight - helpHeight -
		m.styles.App.GetVerticalFrameSize() - m.styles.Box.GetVerticalFrameSize()
	mainInnerWidth := availableWidth - m.styles.Box.GetHorizontalFrameSize() - 2

	m.playlist.SetSize(mainInnerWidth, mainHeight)
	m.history.SetSize(mainInnerWidth, mainHeight)
	m.status.SetWidth(availableWidth)

	var content string
	switch m.tabs.Active() {
	case playlistTab:
		content = m.playlist.View()
	case proposedTab:
		content = m.playlist.ProposedView()
	case historyTab:
		content = m.history.View()
	}

	mainPanel := m.styles.Box.Width(availableWidth - m.styles.Box.GetHorizontalFrameSize()).
		Height(mainHeight).
		Padding(0, 1).
		Render(content)

	reactionView := lipgloss.NewStyle().Width(availableWidth).MaxHeight(reactionHeight).
		Align(lipgloss.Center).Render(m.reactions.View())

	helpText := "[←/→] tabs | [1-4] react | [r] reconnect | [q] quit"
	if m.tabs.Active() == historyTab {
		helpText = "[enter] filter | [tab] list | [esc] back | [q] quit"
	}
	helpView := m.styles.Help.Width(availableWidth).Render(helpText)

	return m.styles.App.Render(lipgloss.JoinVertical(lipgloss.Left,
		tabsView,
		mainPanel,
		reactionView,
		m.status.View(),
		helpView,
	))
}
