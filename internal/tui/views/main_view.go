package views

import (
	"fmt"
	"strings"

	"inikeys/internal/tui/common"
	"inikeys/internal/tui/styles"

	"github.com/dustin/go-humanize"
)

// Parts are the already rendered pieces owned by the model's components.
type Parts struct {
	Table  string
	Prompt string
	Status string
	Help   string
}

func RenderMainView(m common.ModelReader, st styles.Styles, p Parts) string {
	var sb strings.Builder

	sb.WriteString(st.Title.Render("inikeys") + "\n")
	sb.WriteString(RenderHeader(m) + "\n\n")

	sb.WriteString(p.Table)

	switch m.Mode() {
	case common.Capture:
		sb.WriteString("\n" + st.Capture.Render(CapturePrompt(m)) + "\n")
	case common.Filter:
		sb.WriteString("\n" + p.Prompt + "\n")
	default:
		if pattern := m.FilterPattern(); pattern != "" {
			sb.WriteString("\n" + st.Help.Render("filter: "+pattern) + "\n")
		}
	}

	if p.Status != "" {
		sb.WriteString("\n" + p.Status + "\n")
	}
	if p.Help != "" {
		sb.WriteString("\n" + p.Help)
	}

	return st.App.Render(sb.String())
}

// RenderHeader describes the loaded file, e.g. "Input.ini  4.1 kB  12 bindings [modified]".
func RenderHeader(m common.ModelReader) string {
	name := m.FileName()
	if name == "" {
		name = "(no file)"
	}
	parts := []string{name}
	if size := m.FileSize(); size > 0 {
		parts = append(parts, humanize.Bytes(uint64(size)))
	}
	parts = append(parts, fmt.Sprintf("%d bindings", len(m.Rows())))
	if m.Dirty() {
		parts = append(parts, "[modified]")
	}
	return strings.Join(parts, "  ")
}

// CapturePrompt is shown while waiting for the new key of the selected binding.
func CapturePrompt(m common.ModelReader) string {
	rows := m.Rows()
	c := m.Cursor()
	if c < 0 || c >= len(rows) {
		return "Press a key (esc to cancel)"
	}
	return fmt.Sprintf("Press a key for Bindings[%d] (esc to cancel)", rows[c].Index)
}
