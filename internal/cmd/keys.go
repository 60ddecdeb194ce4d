package cmd

import (
	"fmt"
	"strconv"

	"inikeys/internal/keycode"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"
)

func (a *app) keysCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Print the key code table",
		Long:  `Print the key codes understood in Key= and Default= fields with their names.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var g glob.Glob
			if filter != "" {
				var err error
				if g, err = glob.Compile(filter); err != nil {
					return err
				}
			}

			var rows [][]string
			for _, code := range keycode.Codes() {
				name := keycode.CodeToName(code)
				if g != nil && !g.Match(name) {
					continue
				}
				rows = append(rows, []string{strconv.Itoa(code), name})
			}

			fmt.Fprintln(cmd.OutOrStdout(), a.ui.table([]string{"CODE", "NAME"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only show key names matching this glob")
	return cmd
}
