package keybind

import (
	"strconv"
	"strings"

	"inikeys/internal/ini"
)

// Serialize writes doc back to text, rebuilding every binding line whose
// index has an entry in binds. When binds holds the same index more than
// once the later entry wins. All other lines are emitted exactly as parsed.
func Serialize(doc *ini.Document, binds []Keybind) string {
	byIndex := make(map[int]Keybind, len(binds))
	for _, kb := range binds {
		byIndex[kb.Index] = kb
	}

	var sb strings.Builder
	for i, line := range doc.Lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(renderLine(line, byIndex))
	}
	if doc.TrailingNewline {
		sb.WriteByte('\n')
	}
	return sb.String()
}

func renderLine(line ini.Line, byIndex map[int]Keybind) string {
	if line.Kind != ini.KindBinding || line.Binding == nil {
		return line.Raw
	}
	kb, ok := byIndex[line.Binding.Index]
	if !ok {
		return line.Raw
	}
	out := FormatLine(kb)
	if ini.HasBOM(line.Raw) {
		out = string(ini.BOM) + out
	}
	if ini.HasLineEndingCR(line.Raw) {
		out += "\r"
	}
	return out
}

// FormatLine renders kb as a Bindings[N]=(...) line without a line ending.
// Fields are written in a fixed order and optional fields that are nil are
// left out.
func FormatLine(kb Keybind) string {
	parts := make([]string, 0, 9)
	if kb.DefaultCtrl != nil {
		parts = append(parts, "DefaultCtrl="+formatBool(*kb.DefaultCtrl))
	}
	if kb.DefaultAlt != nil {
		parts = append(parts, "DefaultAlt="+formatBool(*kb.DefaultAlt))
	}
	if kb.DefaultShift != nil {
		parts = append(parts, "DefaultShift="+formatBool(*kb.DefaultShift))
	}
	if kb.Default != nil {
		parts = append(parts, "Default="+strconv.Itoa(*kb.Default))
	}
	parts = append(parts,
		"Key="+strconv.Itoa(kb.Key),
		"Ctrl="+formatBool(kb.Ctrl),
		"Alt="+formatBool(kb.Alt),
		"Shift="+formatBool(kb.Shift),
	)
	if kb.Command != nil {
		parts = append(parts, formatCommand(*kb.Command))
	}
	return "Bindings[" + strconv.Itoa(kb.Index) + "]=(" + strings.Join(parts, ",") + ")"
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func formatCommand(cmd string) string {
	if cmd == "" {
		return "Command="
	}
	return `Command="` + strings.ReplaceAll(cmd, `"`, `\"`) + `"`
}
