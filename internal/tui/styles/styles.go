package styles

import (
	"inikeys/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Styles defines the core UI styles
type Styles struct {
	App        lipgloss.Style
	Title      lipgloss.Style
	Header     lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Unbound    lipgloss.Style
	Help       lipgloss.Style
	Info       lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	Error      lipgloss.Style
	Capture    lipgloss.Style
}

// FromTheme builds the styles for a configured theme.
func FromTheme(t config.Theme) Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Primary)).
			MarginBottom(1),
		Header: lipgloss.NewStyle().
			Bold(true).
			Underline(true),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Primary)).
			Bold(true),
		Unselected: lipgloss.NewStyle(),
		Unbound: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Info)),
		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Info)),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Error)).
			Bold(true),
		Capture: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true).
			Blink(true),
	}
}

// Default returns the styles of the default theme.
func Default() Styles {
	return FromTheme(config.New().Theme)
}
