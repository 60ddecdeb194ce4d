package cmd

import (
	"time"

	"inikeys/internal/log"
	"inikeys/internal/tui"
	"inikeys/internal/watch"

	"github.com/spf13/cobra"
)

func (a *app) editCmd() *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "edit FILE",
		Short: "Edit key bindings interactively",
		Long: `Open FILE in the terminal editor. Move with j/k, press enter and then
the new key to rebind, c/a/s to toggle Ctrl/Alt/Shift, w to save and ? for
all keys.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.open(cmd, args[0])
			if err != nil {
				return err
			}

			var opts []tui.Option
			if follow {
				w, err := watch.New(time.Duration(a.cfg.Watch.DebounceMS) * time.Millisecond)
				if err != nil {
					return err
				}
				defer w.Stop()
				if err := w.AddFile(args[0]); err != nil {
					return err
				}
				if err := w.Start(); err != nil {
					return err
				}
				opts = append(opts, tui.WithWatcher(w))
			}

			log.LogWithFields(log.F("file", args[0]), log.F("follow", follow)).Debug("Starting editor")
			return tui.Run(sess, a.cfg, opts...)
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "F", false, "reload the file when it changes on disk")
	return cmd
}
