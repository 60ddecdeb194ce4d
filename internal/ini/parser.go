package ini

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	bindingRe = regexp.MustCompile(`^\s*Bindings\[(\d+)\]\s*=\s*\(([\s\S]*)\)\s*$`)
	// A value is a quoted string with backslash escapes or a bare run up to
	// the next comma or closing parenthesis.
	pairRe = regexp.MustCompile(`([A-Za-z0-9_]+)=("(?:[^"\\]|\\.)*"|[^,)]*)`)
	intRe  = regexp.MustCompile(`^-?\d+$`)
)

// Parse splits text on "\n" and classifies every line. It never fails: lines
// that are not recognized are kept as KindOther. A final "\n" terminates the
// last line rather than starting an empty one.
func Parse(text string) *Document {
	doc := &Document{}
	if len(text) > 0 && strings.HasSuffix(text, "\n") {
		doc.TrailingNewline = true
		text = text[:len(text)-1]
	}

	raws := strings.Split(text, "\n")
	doc.Lines = make([]Line, 0, len(raws))

	for pos, raw := range raws {
		line := parseLine(raw)
		line.Position = pos
		if line.Kind == KindBinding {
			doc.BindingPositions = append(doc.BindingPositions, pos)
		}
		doc.Lines = append(doc.Lines, line)
	}

	return doc
}

// Classify returns the kind of a single line, as Parse would assign it.
func Classify(raw string) Kind {
	return parseLine(raw).Kind
}

// BOM is the UTF-8 byte order mark some editors put at the start of a file.
const BOM = '\uFEFF'

func isSpaceOrBOM(r rune) bool {
	return unicode.IsSpace(r) || r == BOM
}

func parseLine(raw string) Line {
	trimmed := strings.TrimFunc(raw, isSpaceOrBOM)

	if rec, ok := parseBinding(trimmed); ok {
		return Line{Kind: KindBinding, Raw: raw, Binding: rec}
	}

	switch {
	case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
		return Line{Kind: KindSection, Raw: raw, Section: trimmed[1 : len(trimmed)-1]}
	case strings.HasPrefix(trimmed, ";") || strings.HasPrefix(trimmed, "#"):
		return Line{Kind: KindComment, Raw: raw}
	case trimmed == "":
		return Line{Kind: KindBlank, Raw: raw}
	default:
		return Line{Kind: KindOther, Raw: raw}
	}
}

func parseBinding(trimmed string) (*Record, bool) {
	m := bindingRe.FindStringSubmatch(trimmed)
	if m == nil {
		return nil, false
	}

	index, err := strconv.Atoi(m[1])
	if err != nil {
		// index does not fit in an int
		return nil, false
	}

	pairs := parsePairs(strings.TrimSpace(m[2]))

	rec := &Record{
		Index:        index,
		Key:          lookupInt(pairs, "Key"),
		Ctrl:         lookupBool(pairs, "Ctrl"),
		Alt:          lookupBool(pairs, "Alt"),
		Shift:        lookupBool(pairs, "Shift"),
		DefaultCtrl:  lookupBool(pairs, "DefaultCtrl"),
		DefaultAlt:   lookupBool(pairs, "DefaultAlt"),
		DefaultShift: lookupBool(pairs, "DefaultShift"),
		Default:      lookupInt(pairs, "Default"),
	}
	if cmd, ok := pairs["Command"]; ok {
		rec.Command = &cmd
	}

	return rec, true
}

// parsePairs collects Name=value pairs from a binding body. Later pairs
// overwrite earlier ones with the same name.
func parsePairs(body string) map[string]string {
	pairs := make(map[string]string)
	for _, m := range pairRe.FindAllStringSubmatch(body, -1) {
		val := strings.TrimSpace(m[2])
		if len(val) >= 2 && strings.HasPrefix(val, `"`) && strings.HasSuffix(val, `"`) {
			val = strings.ReplaceAll(val[1:len(val)-1], `\"`, `"`)
		}
		pairs[m[1]] = val
	}
	return pairs
}

func lookupBool(pairs map[string]string, name string) *bool {
	v, ok := pairs[name]
	if !ok {
		return nil
	}
	b, ok := ParseBool(v)
	if !ok {
		return nil
	}
	return &b
}

func lookupInt(pairs map[string]string, name string) *int {
	v, ok := pairs[name]
	if !ok {
		return nil
	}
	n, ok := ParseInt(v)
	if !ok {
		return nil
	}
	return &n
}

// ParseBool accepts "true"/"false" in any case and "1"/"0".
func ParseBool(v string) (bool, bool) {
	switch strings.ToLower(v) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	}
	return false, false
}

// ParseInt accepts an optional leading "-" followed by decimal digits.
func ParseInt(v string) (int, bool) {
	if !intRe.MatchString(v) {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
