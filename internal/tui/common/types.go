package common

import "inikeys/internal/keybind"

type Mode int

const (
	Normal Mode = iota
	Filter
	Capture
)

func (m Mode) String() string {
	switch m {
	case Filter:
		return "FILTER"
	case Capture:
		return "CAPTURE"
	default:
		return "NORMAL"
	}
}

// StatusKind selects the style of the status line.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarning
	StatusError
)

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Rows() []keybind.Keybind
	Cursor() int
	ShowHelp() bool
	Mode() Mode
	FileName() string
	FileSize() int64
	Dirty() bool
	FilterPattern() string
	Status() (string, StatusKind)
}
