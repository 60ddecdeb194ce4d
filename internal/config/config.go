package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"inikeys/internal/errors"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure.
// It defines write behavior, display defaults, watch mode and theme.
type Config struct {
	Settings struct {
		Backup       bool   `yaml:"backup"`        // Keep a copy of the file before overwriting it
		BackupSuffix string `yaml:"backup_suffix"` // Suffix appended to the backup copy
		Debug        bool   `yaml:"debug"`         // Enable debug logging
		LogFile      string `yaml:"log_file"`      // Also append log output to this file
		LogJSON      bool   `yaml:"log_json"`      // Log as JSON instead of text
	} `yaml:"settings"`
	Display struct {
		ShowDefaults bool   `yaml:"show_defaults"` // Show Default* columns in listings
		Filter       string `yaml:"filter"`        // Default command glob for list and edit
	} `yaml:"display"`
	Watch struct {
		DebounceMS int `yaml:"debounce_ms"` // Quiet period before a change is reloaded
	} `yaml:"watch"`
	Theme Theme `yaml:"theme"`
}

// Theme holds the terminal colors used by the editor.
type Theme struct {
	Name    string `yaml:"name"`    // Theme name (default, dark, light, monochrome)
	Primary string `yaml:"primary"` // Primary color for titles and the cursor
	Success string `yaml:"success"` // Success message color
	Warning string `yaml:"warning"` // Warning message color
	Error   string `yaml:"error"`   // Error message color
	Info    string `yaml:"info"`    // Informational message color
	Border  string `yaml:"border"`  // Border color for frames
}

// DefaultPath returns ~/.config/inikeys/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "inikeys", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location
// (~/.config/inikeys/config.yaml).
func LoadConfig() (*Config, error) {
	configPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(configPath)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.NewFileError("error reading config file", path, errors.FileAccessDenied, err)
	}

	// Unmarshal over the defaults so unset keys keep their default value.
	// Theme colors are filled in afterwards from the named theme.
	cfg.Theme = Theme{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}
	cfg.fillTheme()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Settings.Backup = true
	cfg.Settings.BackupSuffix = ".bak"
	cfg.Settings.Debug = false

	cfg.Display.ShowDefaults = false
	cfg.Display.Filter = ""

	cfg.Watch.DebounceMS = 200

	cfg.ApplyTheme("default")

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	if c.Settings.Backup {
		suffix := c.Settings.BackupSuffix
		if suffix == "" {
			return errors.NewConfigError("backup suffix must not be empty", "settings.backup_suffix", errors.InvalidConfig, nil)
		}
		if strings.ContainsAny(suffix, `/\`) {
			return errors.NewConfigError("backup suffix must not contain path separators", "settings.backup_suffix", errors.InvalidConfig, nil)
		}
	}

	if c.Watch.DebounceMS < 0 {
		return errors.NewConfigError("debounce must be >= 0 milliseconds", "watch.debounce_ms", errors.InvalidConfig, nil)
	}

	if c.Display.Filter != "" {
		if _, err := glob.Compile(c.Display.Filter); err != nil {
			return errors.NewConfigError("invalid command filter", "display.filter", errors.InvalidConfig, err)
		}
	}

	return nil
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Settings.Backup = false
	cfg.Watch.DebounceMS = 10
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// themeNames lists the built-in themes in display order.
var themeNames = []string{"default", "dark", "light", "monochrome"}

var themes = map[string]Theme{
	"default": {
		Primary: "213", // purple
		Success: "114",
		Warning: "220",
		Error:   "196",
		Info:    "39",
		Border:  "213",
	},
	"dark": {
		Primary: "105",
		Success: "78",
		Warning: "214",
		Error:   "160",
		Info:    "33",
		Border:  "105",
	},
	"light": {
		Primary: "135",
		Success: "150",
		Warning: "222",
		Error:   "210",
		Info:    "117",
		Border:  "135",
	},
	"monochrome": {
		Primary: "245", // greys only
		Success: "252",
		Warning: "241",
		Error:   "232",
		Info:    "248",
		Border:  "245",
	},
}

// GetTheme returns the built-in theme called name, or the default theme
// when there is none.
func GetTheme(name string) Theme {
	t, ok := themes[name]
	if !ok {
		name = "default"
		t = themes[name]
	}
	t.Name = name
	return t
}

// ApplyTheme replaces every theme color with the named built-in theme.
func (c *Config) ApplyTheme(name string) {
	c.Theme = GetTheme(name)
}

// fillTheme sets every theme color left empty from the named theme, so a
// config file can override single colors.
func (c *Config) fillTheme() {
	if c.Theme.Name == "" {
		c.Theme.Name = "default"
	}
	t := GetTheme(c.Theme.Name)
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&c.Theme.Primary, t.Primary)
	fill(&c.Theme.Success, t.Success)
	fill(&c.Theme.Warning, t.Warning)
	fill(&c.Theme.Error, t.Error)
	fill(&c.Theme.Info, t.Info)
	fill(&c.Theme.Border, t.Border)
}

// ListThemes returns the names of the built-in themes.
func ListThemes() []string {
	return append([]string(nil), themeNames...)
}
