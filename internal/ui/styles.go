package ui

import "github.com/charmbracelet/lipgloss"

var (
	accentColor = lipgloss.AdaptiveColor{Light: "#FF5100", Dark: "#FF793A"}
	mutedColor  = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}
	errorColor  = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}
	okColor     = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#5FD75F"}
)

type Styles struct {
	App  lipgloss.Style
	Box  lipgloss.Style
	Help lipgloss.Style

	ListNormal   lipgloss.Style
	ListSelected lipgloss.Style
	ListPointer  lipgloss.Style
	Spinner      lipgloss.Style
	ErrorText    lipgloss.Style

	CardTitle lipgloss.Style
	CardItem  lipgloss.Style
	Duration  lipgloss.Style
	Muted     lipgloss.Style
	Reaction  lipgloss.Style

	StatusOK    lipgloss.Style
	StatusWarn  lipgloss.Style
	StatusError lipgloss.Style
}

func DefaultStyles() Styles {
	s := Styles{}
	s.App = lipgloss.NewStyle().Padding(0, 1)
	s.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), true).
		BorderForeground(highlightColor)
	s.Help = lipgloss.NewStyle().Foreground(mutedColor)

	s.ListNormal = lipgloss.NewStyle()
	s.ListSelected = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	s.ListPointer = lipgloss.NewStyle().Foreground(accentColor).SetString("> ")
	s.Spinner = lipgloss.NewStyle().Foreground(accentColor)
	s.ErrorText = lipgloss.NewStyle().Foreground(errorColor)

	s.CardTitle = lipgloss.NewStyle().Bold(true).Foreground(accentColor).MarginBottom(1)
	s.CardItem = lipgloss.NewStyle().Bold(true)
	s.Duration = lipgloss.NewStyle().Foreground(mutedColor)
	s.Muted = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
	s.Reaction = lipgloss.NewStyle().Foreground(accentColor)

	s.StatusOK = lipgloss.NewStyle().Foreground(okColor)
	s.StatusWarn = lipgloss.NewStyle().Foreground(accentColor)
	s.StatusError = lipgloss.NewStyle().Foreground(errorColor)
	return s
}
