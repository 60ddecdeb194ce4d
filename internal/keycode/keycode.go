// Package keycode maps integer key codes used in keybinding files to
// readable key names and resolves captured key events to codes.
package keycode

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Unbound is the key code used for a binding that has no key.
const Unbound = -1

// None is returned by EventToCode when no usable code was captured.
const None = 0

var codeToName = map[int]string{
	// Special keys
	8:  "Backspace",
	9:  "Tab",
	13: "Enter",
	16: "Shift",
	17: "Ctrl",
	18: "Alt",
	19: "Pause",
	20: "CapsLock",
	27: "Escape",
	32: "Space",
	33: "PageUp",
	34: "PageDown",
	35: "End",
	36: "Home",
	37: "ArrowLeft",
	38: "ArrowUp",
	39: "ArrowRight",
	40: "ArrowDown",
	45: "Insert",
	46: "Delete",

	// Numbers
	48: "0", 49: "1", 50: "2", 51: "3", 52: "4",
	53: "5", 54: "6", 55: "7", 56: "8", 57: "9",

	// Letters
	65: "A", 66: "B", 67: "C", 68: "D", 69: "E",
	70: "F", 71: "G", 72: "H", 73: "I", 74: "J",
	75: "K", 76: "L", 77: "M", 78: "N", 79: "O",
	80: "P", 81: "Q", 82: "R", 83: "S", 84: "T",
	85: "U", 86: "V", 87: "W", 88: "X", 89: "Y",
	90: "Z",

	// Numpad
	96: "Numpad0", 97: "Numpad1", 98: "Numpad2", 99: "Numpad3", 100: "Numpad4",
	101: "Numpad5", 102: "Numpad6", 103: "Numpad7", 104: "Numpad8", 105: "Numpad9",
	106: "Multiply", 107: "Add", 109: "Subtract", 110: "Decimal", 111: "Divide",

	// Function keys
	112: "F1", 113: "F2", 114: "F3", 115: "F4",
	116: "F5", 117: "F6", 118: "F7", 119: "F8",
	120: "F9", 121: "F10", 122: "F11", 123: "F12",

	// Symbols
	186: ";", 187: "=", 188: ",", 189: "-", 190: ".", 191: "/",
	192: "`", 219: "[", 220: `\`, 221: "]", 222: "'",
}

var nameToCode = func() map[string]int {
	m := make(map[string]int, len(codeToName))
	for code, name := range codeToName {
		m[name] = code
	}
	return m
}()

// foldedNames maps lower-cased names to codes for case-insensitive input.
var foldedNames = func() map[string]int {
	m := make(map[string]int, len(codeToName))
	for code, name := range codeToName {
		m[strings.ToLower(name)] = code
	}
	return m
}()

// CodeToName returns the readable name for code, or "Key<code>" when the
// code is not in the table.
func CodeToName(code int) string {
	if name, ok := codeToName[code]; ok {
		return name
	}
	return "Key" + strconv.Itoa(code)
}

// NameToCode is the inverse of CodeToName for names in the table.
func NameToCode(name string) (int, bool) {
	code, ok := nameToCode[name]
	return code, ok
}

// Codes returns every code in the table in ascending order.
func Codes() []int {
	codes := make([]int, 0, len(codeToName))
	for code := range codeToName {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

// Event describes a captured key press.
type Event struct {
	Code int    // legacy numeric code, 0 when unknown
	Key  string // symbolic key name, e.g. "ArrowUp", "Escape" or "a"
	Char string // printable character, if any
}

// EventToCode resolves ev to a key code. The first of these wins: a non-zero
// Code, a table lookup of Key, the upper-cased code of a single digit or
// letter character. It returns None otherwise.
func EventToCode(ev Event) int {
	if ev.Code != 0 {
		return ev.Code
	}

	if code, ok := NameToCode(ev.Key); ok {
		return code
	}

	char := ev.Char
	if char == "" && utf8.RuneCountInString(ev.Key) == 1 {
		char = ev.Key
	}
	if utf8.RuneCountInString(char) == 1 {
		r, _ := utf8.DecodeRuneInString(strings.ToUpper(char))
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return int(r)
		}
	}

	return None
}

// ParseKey accepts either a table name in any case ("ArrowUp", "arrowup",
// "f5") or a decimal code. A single digit is the digit key, not its code.
func ParseKey(s string) (int, bool) {
	if code, ok := NameToCode(s); ok {
		return code, true
	}
	if code, ok := foldedNames[strings.ToLower(s)]; ok {
		return code, true
	}
	code, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return code, true
}
