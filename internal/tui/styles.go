package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary   = lipgloss.Color("#101F38")
	accent    = lipgloss.Color("#8BC34A")
	muted     = lipgloss.Color("#6b7280")
	danger    = lipgloss.Color("#e53935")
	userColor = lipgloss.Color("#2196F3")
)

// Styles holds the lipgloss styles of the terminal host.
type Styles struct {
	UserLabel   lipgloss.Style
	BotLabel    lipgloss.Style
	UserMessage lipgloss.Style
	BotMessage  lipgloss.Style
	Status      lipgloss.Style
	Busy        lipgloss.Style
	Notice      lipgloss.Style
	Panel       lipgloss.Style
	PanelTitle  lipgloss.Style
	Input       lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		UserLabel:   lipgloss.NewStyle().Bold(true).Foreground(userColor),
		BotLabel:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		UserMessage: lipgloss.NewStyle().PaddingLeft(2),
		BotMessage:  lipgloss.NewStyle().PaddingLeft(2),
		Status:      lipgloss.NewStyle().Foreground(muted),
		Busy:        lipgloss.NewStyle().Foreground(accent).Italic(true),
		Notice:      lipgloss.NewStyle().Foreground(danger),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1),
		PanelTitle: lipgloss.NewStyle().Bold(true),
		Input: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(muted),
	}
}
