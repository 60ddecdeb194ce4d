// Package keybind projects parsed binding records into editable keybinds and
// writes edited keybinds back into the original document.
package keybind

import (
	"strings"

	"inikeys/internal/ini"
	"inikeys/internal/keycode"
)

// Keybind is the editable form of a binding. Key and the Ctrl/Alt/Shift
// modifiers always hold concrete values; the Default* fields and Command keep
// nil for "not present in the file".
type Keybind struct {
	// Index is the N of Bindings[N] and identifies the source line.
	Index   int
	Key     int
	KeyName string
	Ctrl    bool
	Alt     bool
	Shift   bool

	DefaultCtrl  *bool
	DefaultAlt   *bool
	DefaultShift *bool
	Default      *int
	Command      *string
}

// Project returns one Keybind per binding line, in source order.
func Project(doc *ini.Document) []Keybind {
	records := doc.Records()
	binds := make([]Keybind, 0, len(records))
	for i := range records {
		binds = append(binds, fromRecord(&records[i]))
	}
	return binds
}

func fromRecord(rec *ini.Record) Keybind {
	kb := Keybind{
		Index:        rec.Index,
		Key:          keycode.Unbound,
		DefaultCtrl:  rec.DefaultCtrl,
		DefaultAlt:   rec.DefaultAlt,
		DefaultShift: rec.DefaultShift,
		Default:      rec.Default,
		Command:      rec.Command,
	}
	if rec.Key != nil {
		kb.Key = *rec.Key
	}
	if rec.Ctrl != nil {
		kb.Ctrl = *rec.Ctrl
	}
	if rec.Alt != nil {
		kb.Alt = *rec.Alt
	}
	if rec.Shift != nil {
		kb.Shift = *rec.Shift
	}
	kb.KeyName = keycode.CodeToName(kb.Key)
	// the record belongs to the document and must not be reachable from edits
	return kb.Clone()
}

// SetKey assigns a new key code and refreshes KeyName.
func (kb *Keybind) SetKey(code int) {
	kb.Key = code
	kb.KeyName = keycode.CodeToName(code)
}

// SetCommand replaces the command.
func (kb *Keybind) SetCommand(cmd string) {
	kb.Command = &cmd
}

// CommandName returns the command, or "" when the binding has none.
func (kb Keybind) CommandName() string {
	if kb.Command == nil {
		return ""
	}
	return *kb.Command
}

// Bound reports whether a key is assigned.
func (kb Keybind) Bound() bool {
	return kb.Key != keycode.Unbound
}

// Chord renders the key combination, e.g. "Ctrl+Shift+ArrowUp".
func (kb Keybind) Chord() string {
	if !kb.Bound() {
		return "-"
	}
	var parts []string
	if kb.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if kb.Alt {
		parts = append(parts, "Alt")
	}
	if kb.Shift {
		parts = append(parts, "Shift")
	}
	parts = append(parts, keycode.CodeToName(kb.Key))
	return strings.Join(parts, "+")
}

// Clone returns a deep copy, so edits to the copy's optional fields do not
// alias the original.
func (kb Keybind) Clone() Keybind {
	c := kb
	if kb.DefaultCtrl != nil {
		v := *kb.DefaultCtrl
		c.DefaultCtrl = &v
	}
	if kb.DefaultAlt != nil {
		v := *kb.DefaultAlt
		c.DefaultAlt = &v
	}
	if kb.DefaultShift != nil {
		v := *kb.DefaultShift
		c.DefaultShift = &v
	}
	if kb.Default != nil {
		v := *kb.Default
		c.Default = &v
	}
	if kb.Command != nil {
		v := *kb.Command
		c.Command = &v
	}
	return c
}

// DefaultChord renders the Default* fields as a chord, or "-" when the file
// declares no default key.
func (kb Keybind) DefaultChord() string {
	if kb.Default == nil {
		return "-"
	}
	d := Keybind{Key: *kb.Default}
	if kb.DefaultCtrl != nil {
		d.Ctrl = *kb.DefaultCtrl
	}
	if kb.DefaultAlt != nil {
		d.Alt = *kb.DefaultAlt
	}
	if kb.DefaultShift != nil {
		d.Shift = *kb.DefaultShift
	}
	return d.Chord()
}
