package cmd

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"inikeys/internal/config"
	"inikeys/internal/errors"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the inikeys configuration",
	}
	cmd.AddCommand(a.configInitCmd(), a.configShowCmd(), a.configThemesCmd())
	return cmd
}

func (a *app) configInitCmd() *cobra.Command {
	var (
		theme string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.configPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.Newf("%s already exists (use --force to overwrite)", path)
			}
			if !slices.Contains(config.ListThemes(), theme) {
				return errors.NewConfigError(fmt.Sprintf("unknown theme %q", theme), "theme.name", errors.InvalidConfig, nil)
			}

			cfg := config.New()
			cfg.ApplyTheme(theme)
			if err := config.SaveConfig(cfg, path); err != nil {
				return errors.Wrap(err, "could not write config")
			}
			a.ui.ok(cmd.OutOrStdout(), fmt.Sprintf("Wrote %s", path))
			return nil
		},
	}

	cmd.Flags().StringVarP(&theme, "theme", "t", "default", "color theme ("+strings.Join(config.ListThemes(), ", ")+")")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func (a *app) configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the settings in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return errors.Wrap(err, "could not encode config")
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func (a *app) configThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the built-in color themes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			rows := make([][]string, 0, len(config.ListThemes()))
			for _, name := range config.ListThemes() {
				t := config.GetTheme(name)
				rows = append(rows, []string{name, t.Primary, t.Success, t.Warning, t.Error, t.Info})
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.ui.table([]string{"NAME", "PRIMARY", "SUCCESS", "WARNING", "ERROR", "INFO"}, rows))
		},
	}
}

func (a *app) configPath() (string, error) {
	if a.cfgFile != "" {
		return a.cfgFile, nil
	}
	return config.DefaultPath()
}
