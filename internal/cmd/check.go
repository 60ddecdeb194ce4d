package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"inikeys/internal/errors"
	"inikeys/internal/keybind"
	"inikeys/internal/session"

	"github.com/spf13/cobra"
)

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Report problems in a keybinding file",
		Long: `Check FILE for a missing Bindings section, indices declared more than
once and key chords bound to several commands. Exits non-zero when a problem
is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// the missing-bindings warning is part of the report, so load quietly
			sess := session.New()
			if err := sess.LoadFile(args[0]); err != nil && !sess.Loaded() {
				return err
			}

			problems := a.report(cmd.OutOrStdout(), sess)
			if problems > 0 {
				return errors.Newf("%d problem(s) found in %s", problems, sess.FileName())
			}
			return nil
		},
	}
}

// report writes the findings for sess to w and returns how many there are.
func (a *app) report(w io.Writer, sess *session.Session) int {
	problems := 0

	if warn := sess.Warning(); warn != nil {
		a.ui.warn(w, warn.Error())
		problems++
	}

	dups := keybind.Duplicates(sess.Document())
	indices := make([]int, 0, len(dups))
	for idx := range dups {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	for _, idx := range indices {
		lines := make([]string, len(dups[idx]))
		for i, pos := range dups[idx] {
			lines[i] = fmt.Sprint(pos + 1)
		}
		a.ui.warn(w, fmt.Sprintf("Bindings[%d] is declared %d times (lines %s); the last one wins",
			idx, len(dups[idx]), strings.Join(lines, ", ")))
		problems++
	}

	for _, group := range keybind.Conflicts(sess.Bindings()) {
		names := make([]string, len(group))
		for i, kb := range group {
			names[i] = fmt.Sprintf("Bindings[%d] %s", kb.Index, kb.CommandName())
		}
		a.ui.warn(w, fmt.Sprintf("%s is bound more than once: %s", group[0].Chord(), strings.Join(names, ", ")))
		problems++
	}

	if problems == 0 {
		a.ui.ok(w, fmt.Sprintf("%s: %d bindings, no problems", sess.FileName(), len(sess.Bindings())))
	}
	return problems
}
