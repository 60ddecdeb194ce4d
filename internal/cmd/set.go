package cmd

import (
	"fmt"
	"strconv"

	"inikeys/internal/errors"
	"inikeys/internal/keybind"
	"inikeys/internal/keycode"

	"github.com/spf13/cobra"
)

func (a *app) setCmd() *cobra.Command {
	var (
		keyName string
		ctrl    bool
		alt     bool
		shift   bool
		command string
		unbind  bool
		output  string
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "set FILE INDEX",
		Short: "Change one key binding",
		Long: `Change the key, modifiers or command of Bindings[INDEX] and write the file.
Only the given flags are changed. The key may be a name (ArrowUp, F5, W)
or a numeric code.`,
		Example: `  inikeys set Input.ini 3 --key F5 --ctrl
  inikeys set Input.ini 7 --unbind --dry-run`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[1], err)
			}

			flags := cmd.Flags()
			if !flags.Changed("key") && !flags.Changed("ctrl") && !flags.Changed("alt") &&
				!flags.Changed("shift") && !flags.Changed("command") && !unbind {
				return errors.New("nothing to change: give at least one of --key, --ctrl, --alt, --shift, --command, --unbind")
			}
			if unbind && flags.Changed("key") {
				return errors.New("--key and --unbind cannot be used together")
			}

			code := keycode.Unbound
			if flags.Changed("key") {
				c, ok := keycode.ParseKey(keyName)
				if !ok {
					return errors.NewBindingError("unknown key "+strconv.Quote(keyName), index, errors.InvalidBinding, nil)
				}
				code = c
			}

			sess, err := a.open(cmd, args[0])
			if err != nil {
				return err
			}

			err = sess.Update(index, func(kb *keybind.Keybind) {
				if flags.Changed("key") || unbind {
					kb.SetKey(code)
				}
				if flags.Changed("ctrl") {
					kb.Ctrl = ctrl
				}
				if flags.Changed("alt") {
					kb.Alt = alt
				}
				if flags.Changed("shift") {
					kb.Shift = shift
				}
				if flags.Changed("command") {
					kb.SetCommand(command)
				}
			})
			if err != nil {
				return err
			}

			if dryRun {
				out, err := sess.Export()
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			}

			if err := sess.SaveFile(output, a.cfg.Settings.Backup); err != nil {
				return err
			}

			binds := sess.Bindings()
			kb := binds[keybind.Find(binds, index)]
			target := output
			if target == "" {
				target = sess.Path()
			}
			a.ui.ok(cmd.OutOrStdout(), fmt.Sprintf("Bindings[%d] = %s (%s) written to %s", index, kb.Chord(), kb.CommandName(), target))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&keyName, "key", "k", "", "new key, by name or code")
	flags.BoolVar(&ctrl, "ctrl", false, "require Ctrl")
	flags.BoolVar(&alt, "alt", false, "require Alt")
	flags.BoolVar(&shift, "shift", false, "require Shift")
	flags.StringVarP(&command, "command", "c", "", "new command")
	flags.BoolVar(&unbind, "unbind", false, "remove the key (Key=-1)")
	flags.StringVarP(&output, "output", "o", "", "write to this path instead of FILE")
	flags.BoolVarP(&dryRun, "dry-run", "n", false, "print the result instead of writing it")

	return cmd
}
