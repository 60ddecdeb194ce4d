package cmd

import (
	"fmt"
	"io"

	"inikeys/internal/config"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// ui colors command output with the configured theme.
type ui struct {
	success lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	info    lipgloss.Style
	header  lipgloss.Style
	border  lipgloss.Style
}

func newUI(t config.Theme) ui {
	return ui{
		success: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		err:     lipgloss.NewStyle().Foreground(lipgloss.Color(t.Error)).Bold(true),
		info:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary)).Bold(true).Padding(0, 1),
		border:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Border)),
	}
}

func (u ui) ok(w io.Writer, msg string) {
	fmt.Fprintln(w, u.success.Render("✓ "+msg))
}

func (u ui) warn(w io.Writer, msg string) {
	fmt.Fprintln(w, u.warning.Render("! "+msg))
}

func (u ui) fail(w io.Writer, msg string) {
	fmt.Fprintln(w, u.err.Render("✗ "+msg))
}

func (u ui) note(w io.Writer, msg string) {
	fmt.Fprintln(w, u.info.Render(msg))
}

func (u ui) table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(u.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return u.header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		String()
}
