package components

import (
	"fmt"
	"strconv"
	"strings"

	"inikeys/internal/keybind"
	"inikeys/internal/tui/styles"
)

// BindingTable renders keybinds as rows with a cursor. Only Height rows are
// shown at a time; the window follows the cursor.
type BindingTable struct {
	rows         []keybind.Keybind
	cursor       int
	height       int
	showDefaults bool
	styles       styles.Styles
}

func NewBindingTable(st styles.Styles) *BindingTable {
	return &BindingTable{styles: st, height: 20}
}

func (t *BindingTable) SetRows(rows []keybind.Keybind) {
	t.rows = rows
}

func (t *BindingTable) SetCursor(cursor int) {
	t.cursor = cursor
}

// SetHeight sets the number of visible rows. Values below one are ignored.
func (t *BindingTable) SetHeight(h int) {
	if h > 0 {
		t.height = h
	}
}

func (t *BindingTable) SetShowDefaults(show bool) {
	t.showDefaults = show
}

// window returns the [start, end) range of rows to draw.
func (t *BindingTable) window() (int, int) {
	n := len(t.rows)
	if n <= t.height {
		return 0, n
	}
	start := t.cursor - t.height/2
	if start < 0 {
		start = 0
	}
	if start+t.height > n {
		start = n - t.height
	}
	return start, start + t.height
}

func (t *BindingTable) View() string {
	if len(t.rows) == 0 {
		return t.styles.Unbound.Render("No bindings match") + "\n"
	}

	var s strings.Builder

	header := fmt.Sprintf("  %-6s %-26s %s", "Index", "Key", "Command")
	if t.showDefaults {
		header += "  Default"
	}
	s.WriteString(t.styles.Header.Render(header) + "\n")

	start, end := t.window()
	for i := start; i < end; i++ {
		kb := t.rows[i]

		cursor := " "
		style := t.styles.Unselected
		if !kb.Bound() {
			style = t.styles.Unbound
		}
		if i == t.cursor {
			cursor = ">"
			style = t.styles.Selected
		}

		line := fmt.Sprintf("%-6s %-26s %s", strconv.Itoa(kb.Index), kb.Chord(), commandLabel(kb))
		if t.showDefaults {
			line += "  " + kb.DefaultChord()
		}
		s.WriteString(cursor + " " + style.Render(line) + "\n")
	}

	if start > 0 || end < len(t.rows) {
		s.WriteString(t.styles.Help.Render(fmt.Sprintf("  %d-%d of %d", start+1, end, len(t.rows))) + "\n")
	}

	return s.String()
}

func commandLabel(kb keybind.Keybind) string {
	if kb.Command == nil {
		return "(none)"
	}
	if *kb.Command == "" {
		return `""`
	}
	return *kb.Command
}
