package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Rewrite a file through the editor",
		Long: `Parse FILE and write it back out with every binding line rebuilt in
canonical field order. Other lines are copied unchanged. The result goes to
stdout unless --output is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.open(cmd, args[0])
			if err != nil {
				return err
			}

			if output != "" {
				if err := sess.SaveFile(output, a.cfg.Settings.Backup); err != nil {
					return err
				}
				a.ui.ok(cmd.ErrOrStderr(), "Exported to "+output)
				return nil
			}

			out, err := sess.Export()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this path instead of stdout")
	return cmd
}
