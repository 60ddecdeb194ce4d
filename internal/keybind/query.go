package keybind

import (
	"fmt"
	"sort"

	"inikeys/internal/ini"

	"github.com/gobwas/glob"
)

// Filter returns the keybinds whose command matches the glob pattern.
// An empty pattern matches everything.
func Filter(binds []Keybind, pattern string) ([]Keybind, error) {
	if pattern == "" {
		return binds, nil
	}

	matcher, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid command pattern %q: %w", pattern, err)
	}

	var out []Keybind
	for _, kb := range binds {
		if matcher.Match(kb.CommandName()) {
			out = append(out, kb)
		}
	}
	return out, nil
}

// Find returns the position in binds of the last keybind with index, or -1.
// The last one is what Serialize would use.
func Find(binds []Keybind, index int) int {
	for i := len(binds) - 1; i >= 0; i-- {
		if binds[i].Index == index {
			return i
		}
	}
	return -1
}

// Duplicates maps every binding index declared on more than one line to the
// positions of those lines. Serialize rewrites all of them from a single
// keybind.
func Duplicates(doc *ini.Document) map[int][]int {
	seen := make(map[int][]int)
	for _, pos := range doc.BindingPositions {
		rec := doc.Lines[pos].Binding
		if rec == nil {
			continue
		}
		seen[rec.Index] = append(seen[rec.Index], pos)
	}

	dups := make(map[int][]int)
	for index, positions := range seen {
		if len(positions) > 1 {
			dups[index] = positions
		}
	}
	return dups
}

// Conflicts groups bound keybinds that share the same chord. Groups are
// ordered by the index of their first member.
func Conflicts(binds []Keybind) [][]Keybind {
	byChord := make(map[string][]Keybind)
	var order []string
	for _, kb := range binds {
		if !kb.Bound() {
			continue
		}
		chord := kb.Chord()
		if _, ok := byChord[chord]; !ok {
			order = append(order, chord)
		}
		byChord[chord] = append(byChord[chord], kb)
	}

	var groups [][]Keybind
	for _, chord := range order {
		if len(byChord[chord]) > 1 {
			groups = append(groups, byChord[chord])
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i][0].Index < groups[j][0].Index
	})
	return groups
}
