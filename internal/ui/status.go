package ui

import (
	"fmt"

	"github.com/gabrielcapilla/roomsync/internal/domain"
	"github.com/gabrielcapilla/roomsync/internal/ports"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StatusModel is the one-line session status bar.
type StatusModel struct {
	width  int
	roomID int64
	status domain.SessionStatus
	notice string
	err    error
	styles Styles
}

func NewStatusModel(roomID int64, status domain.SessionStatus, styles Styles) StatusModel {
	return StatusModel{roomID: roomID, status: status, styles: styles}
}

func (m StatusModel) Update(msg tea.Msg) (StatusModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ports.SessionStatusMsg:
		m.status = msg.Status
		if msg.Status == domain.StatusConnected {
			m.err = nil
		}
	case ports.NoticeMsg:
		m.notice = msg.Text
	case ports.PublishResultMsg:
		m.err = nil
		if msg.Err != nil {
			m.err = fmt.Errorf("could not send %s: %w", msg.Kind, msg.Err)
		}
	}
	return m, nil
}

func (m *StatusModel) SetWidth(w int) { m.width = w }

func (m StatusModel) View() string {
	var style lipgloss.Style
	switch m.status {
	case domain.StatusConnected:
		style = m.styles.StatusOK
	case domain.StatusError:
		style = m.styles.StatusError
	default:
		style = m.styles.StatusWarn
	}
	content := style.Render("● "+m.status.String()) + m.styles.Muted.Render(fmt.Sprintf("  room %d", m.roomID))

	switch {
	case m.err != nil:
		content += "  " + m.styles.ErrorText.Render(m.err.Error())
	case m.notice != "":
		content += "  " + m.styles.StatusWarn.Render(m.notice)
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(content)
}
