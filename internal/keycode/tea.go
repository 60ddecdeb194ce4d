package keycode

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// teaNames maps bubbletea key names to table names.
var teaNames = map[string]string{
	"up":        "ArrowUp",
	"down":      "ArrowDown",
	"left":      "ArrowLeft",
	"right":     "ArrowRight",
	"enter":     "Enter",
	"tab":       "Tab",
	"esc":       "Escape",
	"backspace": "Backspace",
	"delete":    "Delete",
	"insert":    "Insert",
	"home":      "Home",
	"end":       "End",
	"pgup":      "PageUp",
	"pgdown":    "PageDown",
	" ":         "Space",
	"space":     "Space",
	"f1":        "F1",
	"f2":        "F2",
	"f3":        "F3",
	"f4":        "F4",
	"f5":        "F5",
	"f6":        "F6",
	"f7":        "F7",
	"f8":        "F8",
	"f9":        "F9",
	"f10":       "F10",
	"f11":       "F11",
	"f12":       "F12",
}

// Modifiers holds the modifier state of a captured key press.
type Modifiers struct {
	Ctrl  bool
	Alt   bool
	Shift bool
}

// splitKey strips the "ctrl+", "alt+" and "shift+" prefixes bubbletea puts
// in front of a key name.
func splitKey(s string) (string, Modifiers) {
	var mods Modifiers
	for {
		switch {
		case strings.HasPrefix(s, "ctrl+") && len(s) > len("ctrl+"):
			mods.Ctrl = true
			s = s[len("ctrl+"):]
		case strings.HasPrefix(s, "alt+") && len(s) > len("alt+"):
			mods.Alt = true
			s = s[len("alt+"):]
		case strings.HasPrefix(s, "shift+") && len(s) > len("shift+"):
			mods.Shift = true
			s = s[len("shift+"):]
		default:
			return s, mods
		}
	}
}

// FromKeyMsg converts a bubbletea key message into an Event.
func FromKeyMsg(msg tea.KeyMsg) Event {
	base, _ := splitKey(msg.String())
	if name, ok := teaNames[base]; ok {
		return Event{Key: name}
	}
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		return Event{Key: string(msg.Runes), Char: string(msg.Runes)}
	}
	return Event{Key: base}
}

// ModifiersOf reports the modifiers held for msg.
func ModifiersOf(msg tea.KeyMsg) Modifiers {
	_, mods := splitKey(msg.String())
	return mods
}
