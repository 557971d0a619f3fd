package ui

import (
	"strconv"

	"github.com/gabrielcapilla/roomsync/internal/domain"
	"github.com/gabrielcapilla/roomsync/internal/ports"

	tea "github.com/charmbracelet/bubbletea"
)

type historyItem struct{ entry domain.HistoryEntry }

func (i historyItem) FilterValue() string { return i.entry.Item.Title }
func (i historyItem) ID() string          { return strconv.FormatInt(i.entry.Item.ID, 10) }
func (i historyItem) Detail() string {
	return domain.DurationText(i.entry.Item.Duration) + "  " + i.entry.SeenAt.Local().Format("Jan 2 15:04")
}

type historyDataSource struct {
	storageService ports.StorageService
	config         domain.Config
}

func (s historyDataSource) Fetch() tea.Msg {
	entries, err := s.storageService.GetHistory(s.config.Room.ID, s.config.HistoryLimit)
	if err != nil {
		return ports.HistoryErrorMsg{Err: err}
	}
	return ports.HistoryLoadedMsg{Entries: entries}
}

func NewHistoryModel(service ports.StorageService, cfg domain.Config, styles Styles) listAndFilterModel {
	return NewListAndFilterModel(
		"Filter history...",
		historyDataSource{storageService: service, config: cfg},
		styles,
	)
}
