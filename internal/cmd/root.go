// Package cmd holds the inikeys command line.
package cmd

import (
	"os"

	"inikeys/internal/config"
	"inikeys/internal/log"
	"inikeys/internal/session"

	"github.com/spf13/cobra"
)

var version = "dev"

// app is the state shared by all subcommands of one invocation.
type app struct {
	cfgFile string
	debug   bool
	cfg     *config.Config
	ui      ui
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{cfg: config.New()}
	a.ui = newUI(a.cfg.Theme)

	rootCmd := &cobra.Command{
		Use:   "inikeys",
		Short: "Edit key bindings in game INI files",
		Long: `inikeys lists, edits and checks Bindings[N]=(...) entries in INI
keybinding files while leaving every other line untouched.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.config/inikeys/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		a.listCmd(),
		a.setCmd(),
		a.exportCmd(),
		a.checkCmd(),
		a.keysCmd(),
		a.editCmd(),
		a.watchCmd(),
		a.configCmd(),
	)
	return rootCmd
}

// init loads the configuration and sets up logging on the command's stderr.
// A broken config file is reported and the defaults are used instead.
func (a *app) init(cmd *cobra.Command) error {
	var (
		cfg     *config.Config
		loadErr error
	)
	if a.cfgFile != "" {
		cfg, loadErr = config.LoadConfigFile(a.cfgFile)
	} else {
		cfg, loadErr = config.LoadConfig()
	}
	if loadErr != nil {
		cfg = config.New()
	}
	a.cfg = cfg
	a.ui = newUI(cfg.Theme)

	opts := []log.Option{log.WithOutput(cmd.ErrOrStderr())}
	if cfg.Settings.LogFile != "" {
		opts = append(opts, log.WithFile(cfg.Settings.LogFile))
	}
	if cfg.Settings.LogJSON {
		opts = append(opts, log.WithJSON())
	}
	log.Configure(opts...)
	if loadErr != nil {
		log.LogError(loadErr, "Could not load config, using default settings")
	}

	log.SetDebug(a.debug || cfg.Settings.Debug)
	log.LogWithFields(log.F("config", a.cfgFile), log.F("theme", cfg.Theme.Name)).Debug("Configuration loaded")
	return nil
}

// open loads path into a new session. A file without bindings is loaded
// with a warning on stderr.
func (a *app) open(cmd *cobra.Command, path string) (*session.Session, error) {
	sess := session.New()
	sess.SetBackupSuffix(a.cfg.Settings.BackupSuffix)

	if err := sess.LoadFile(path); err != nil {
		if !sess.Loaded() {
			return nil, err
		}
		a.ui.warn(cmd.ErrOrStderr(), err.Error())
	}
	return sess, nil
}

// Execute runs the command line and exits non-zero on error.
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		newUI(config.New().Theme).fail(rootCmd.ErrOrStderr(), err.Error())
		os.Exit(1)
	}
}
