// Package ini parses keybinding INI files into a line-preserving document.
//
// Every input line is kept with its exact raw text. Only lines of the form
// Bindings[N]=(...) carry structured data; sections, comments, blank lines
// and anything unrecognized are opaque and are written back unchanged.
package ini

import "strings"

// Kind classifies a single line.
type Kind int

const (
	KindOther Kind = iota
	KindSection
	KindBinding
	KindComment
	KindBlank
)

func (k Kind) String() string {
	switch k {
	case KindSection:
		return "section"
	case KindBinding:
		return "binding"
	case KindComment:
		return "comment"
	case KindBlank:
		return "blank"
	default:
		return "other"
	}
}

// Record is the parsed body of a Bindings[N]=(...) line. A nil field was not
// present in the source text.
type Record struct {
	Index        int
	Key          *int
	Ctrl         *bool
	Alt          *bool
	Shift        *bool
	DefaultCtrl  *bool
	DefaultAlt   *bool
	DefaultShift *bool
	Default      *int
	Command      *string
}

// Line is one line of the source file.
type Line struct {
	Kind Kind
	// Raw is the line without the "\n" delimiter; a trailing "\r" is kept.
	Raw string
	// Position is the zero-based line number in the source.
	Position int
	// Section is the header name for KindSection lines.
	Section string
	// Binding is set for KindBinding lines.
	Binding *Record
}

// Document is a parsed file. It is not modified after Parse returns.
type Document struct {
	Lines []Line
	// BindingPositions lists the positions of KindBinding lines.
	BindingPositions []int
	// TrailingNewline is set when the source ended with "\n".
	TrailingNewline bool
}

// Len returns the number of lines.
func (d *Document) Len() int {
	return len(d.Lines)
}

// HasBindings reports whether at least one binding line was found.
func (d *Document) HasBindings() bool {
	return len(d.BindingPositions) > 0
}

// Records returns the binding records in source order.
func (d *Document) Records() []Record {
	records := make([]Record, 0, len(d.BindingPositions))
	for _, line := range d.Lines {
		if line.Kind == KindBinding && line.Binding != nil {
			records = append(records, *line.Binding)
		}
	}
	return records
}

// Sections returns the section names in source order.
func (d *Document) Sections() []string {
	var names []string
	for _, line := range d.Lines {
		if line.Kind == KindSection {
			names = append(names, line.Section)
		}
	}
	return names
}

// HasLineEndingCR reports whether raw ends with a carriage return, i.e. the
// source used CRLF line endings for that line.
func HasLineEndingCR(raw string) bool {
	return len(raw) > 0 && raw[len(raw)-1] == '\r'
}

// HasBOM reports whether raw starts with a byte order mark.
func HasBOM(raw string) bool {
	return strings.HasPrefix(raw, string(BOM))
}
