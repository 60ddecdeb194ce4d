package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"inikeys/internal/keybind"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func (a *app) listCmd() *cobra.Command {
	var (
		filter   string
		all      bool
		defaults bool
	)

	cmd := &cobra.Command{
		Use:   "list FILE",
		Short: "List the key bindings of a file",
		Long: `List every Bindings[N] entry of FILE with its key chord and command.
Unbound entries (Key=-1) are hidden unless --all is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("filter") {
				filter = a.cfg.Display.Filter
			}
			if !cmd.Flags().Changed("defaults") {
				defaults = a.cfg.Display.ShowDefaults
			}

			sess, err := a.open(cmd, args[0])
			if err != nil {
				return err
			}

			binds, err := keybind.Filter(sess.Bindings(), filter)
			if err != nil {
				return fmt.Errorf("invalid filter %q: %w", filter, err)
			}

			rows := make([][]string, 0, len(binds))
			for _, kb := range binds {
				if !all && !kb.Bound() {
					continue
				}
				rows = append(rows, bindingRow(kb, defaults))
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				a.ui.note(out, "No bindings to show")
			} else {
				fmt.Fprintln(out, a.ui.table(bindingHeaders(defaults), rows))
			}

			summary := fmt.Sprintf("%d of %d bindings", len(rows), len(sess.Bindings()))
			if sections := sess.Document().Sections(); len(sections) > 0 {
				summary += " in [" + strings.Join(sections, "], [") + "]"
			}
			if info, err := os.Stat(args[0]); err == nil {
				summary += ", " + humanize.Bytes(uint64(info.Size()))
			}
			a.ui.note(out, summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only show commands matching this glob (default from config)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include unbound entries")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "show the Default* fields")

	return cmd
}

func bindingRow(kb keybind.Keybind, defaults bool) []string {
	cmdName := kb.CommandName()
	if kb.Command == nil {
		cmdName = "-"
	}
	row := []string{strconv.Itoa(kb.Index), kb.Chord(), strconv.Itoa(kb.Key), cmdName}
	if defaults {
		row = append(row, kb.DefaultChord())
	}
	return row
}

func bindingHeaders(defaults bool) []string {
	headers := []string{"INDEX", "CHORD", "CODE", "COMMAND"}
	if defaults {
		headers = append(headers, "DEFAULT")
	}
	return headers
}
