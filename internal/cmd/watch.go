package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inikeys/internal/log"
	"inikeys/internal/session"
	"inikeys/internal/watch"

	"github.com/spf13/cobra"
)

func (a *app) watchCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-check a file every time it changes",
		Long: `Watch FILE and run the same checks as "inikeys check" after every change.
Stop with Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("debounce") {
				debounce = time.Duration(a.cfg.Watch.DebounceMS) * time.Millisecond
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.watchFile(ctx, cmd.OutOrStdout(), args[0], debounce)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before a change is checked (default from config)")
	return cmd
}

// watchFile checks path once and then after every settled change until ctx
// is done.
func (a *app) watchFile(ctx context.Context, out io.Writer, path string, debounce time.Duration) error {
	w, err := watch.New(debounce)
	if err != nil {
		return err
	}
	defer w.Stop()
	if err := w.AddFile(path); err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}

	a.recheck(out, path)
	a.ui.note(out, fmt.Sprintf("Watching %s, press Ctrl+C to stop", path))

	for {
		select {
		case <-ctx.Done():
			return nil
		case c, ok := <-w.Events():
			if !ok {
				return nil
			}
			log.LogWithFields(log.F("file", c.Path), log.F("op", c.Op.String())).Debug("Change detected")
			if c.Removed() {
				if _, err := os.Stat(path); err != nil {
					a.ui.warn(out, fmt.Sprintf("%s was removed", path))
					continue
				}
			}
			a.ui.note(out, fmt.Sprintf("[%s] %s changed", c.Timestamp.Format("15:04:05"), path))
			a.recheck(out, path)
		}
	}
}

func (a *app) recheck(out io.Writer, path string) {
	sess := session.New()
	if err := sess.LoadFile(path); err != nil && !sess.Loaded() {
		a.ui.fail(out, err.Error())
		return
	}
	a.report(out, sess)
}
