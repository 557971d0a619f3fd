package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/gabrielcapilla/roomsync/internal/ports"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type componentFocus int

const (
	inputFocus componentFocus = iota
	listFocus
)

type listItem interface {
	list.Item
	ID() string
	Detail() string
}

type listDataSource interface {
	Fetch() tea.Msg
}

// listAndFilterModel is a list with a free-text filter above it and a
// spinner while its data source loads.
type listAndFilterModel struct {
	dataSource  listDataSource
	styles      Styles
	focus       componentFocus
	textInput   textinput.Model
	resultsList list.Model
	spinner     spinner.Model
	isLoading   bool
	err         error
	fullList    []list.Item
}

type itemDelegate struct {
	styles Styles
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	listItem, ok := item.(listItem)
	if !ok {
		return
	}

	itemStyle := d.styles.ListNormal
	pointer := "  "
	if index == m.Index() {
		itemStyle = d.styles.ListSelected
		pointer = d.styles.ListPointer.String()
	}

	detail := listItem.Detail()
	line := listItem.FilterValue()
	if m.Width() > 0 {
		lineWidth := m.Width() - lipgloss.Width(pointer) - lipgloss.Width(detail) - 1
		line = truncate(line, lineWidth)
	}
	fmt.Fprint(w, itemStyle.Render(pointer+line)+" "+d.styles.Duration.Render(detail))
}

func NewListAndFilterModel(placeholder string, source listDataSource, styles Styles) listAndFilterModel {
	m := listAndFilterModel{
		dataSource: source,
		styles:     styles,
		focus:      inputFocus,
	}

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "/ "
	ti.PromptStyle = styles.Muted
	ti.TextStyle = lipgloss.NewStyle()
	m.textInput = ti

	li := list.New([]list.Item{}, itemDelegate{styles: styles}, 0, 0)
	li.SetShowTitle(false)
	li.SetShowStatusBar(false)
	li.SetShowPagination(false)
	li.SetShowHelp(false)
	li.SetFilteringEnabled(false)
	m.resultsList = li

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner
	m.spinner = s

	return m
}

// Init (re)loads the list from its data source.
func (m *listAndFilterModel) Init() tea.Cmd {
	m.isLoading = true
	m.err = nil
	source := m.dataSource
	return tea.Batch(m.spinner.Tick, source.Fetch)
}

func (m *listAndFilterModel) Focus() tea.Cmd {
	m.focus = inputFocus
	return m.textInput.Focus()
}

func (m *listAndFilterModel) Blur() {
	m.focus = inputFocus
	m.textInput.Blur()
}

func (m *listAndFilterModel) GetFocus() componentFocus { return m.focus }
func (m *listAndFilterModel) SetSize(w, h int) {
	m.textInput.Width = w - 4
	m.resultsList.SetSize(w, h-2)
}

func (m *listAndFilterModel) GetItem(id string) list.Item {
	for _, item := range m.fullList {
		if li, ok := item.(listItem); ok && li.ID() == id {
			return item
		}
	}
	return nil
}

func (m listAndFilterModel) Len() int { return len(m.fullList) }

func (m listAndFilterModel) Update(msg tea.Msg) (listAndFilterModel, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case ports.HistoryLoadedMsg:
		m.isLoading = false
		items := make([]list.Item, len(msg.Entries))
		for i, entry := range msg.Entries {
			items[i] = historyItem{entry: entry}
		}
		m.fullList = items
		return m, m.resultsList.SetItems(m.filtered())
	case ports.HistoryErrorMsg:
		m.isLoading = false
		m.err = msg.Err
		return m, nil
	}

	if m.isLoading {
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return ports.ChangeFocusMsg{NewFocus: ports.GlobalFocus} }
		case "tab":
			if m.focus == inputFocus {
				m.focus = listFocus
				m.textInput.Blur()
			} else {
				m.focus = inputFocus
				m.textInput.Focus()
			}
			return m, nil
		}
	}

	switch m.focus {
	case inputFocus:
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
		cmds = append(cmds, m.resultsList.SetItems(m.filtered()))

	case listFocus:
		m.resultsList, cmd = m.resultsList.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m listAndFilterModel) filtered() []list.Item {
	filterTerm := strings.ToLower(m.textInput.Value())
	if filterTerm == "" {
		return m.fullList
	}
	var filteredItems []list.Item
	for _, item := range m.fullList {
		if strings.Contains(strings.ToLower(item.FilterValue()), filterTerm) {
			filteredItems = append(filteredItems, item)
		}
	}
	return filteredItems
}

func (m listAndFilterModel) View() string {
	var mainView string
	switch {
	case m.isLoading:
		mainView = m.spinner.View() + " Loading..."
	case m.err != nil:
		mainView = m.styles.ErrorText.Render(fmt.Sprintf("Error: %v", m.err))
	case len(m.fullList) == 0:
		mainView = m.styles.Muted.Render("Nothing played in this room yet.")
	default:
		mainView = m.resultsList.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.textInput.View(),
		"",
		mainView,
	)
}
