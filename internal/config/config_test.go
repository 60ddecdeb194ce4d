package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"inikeys/internal/config"
	"inikeys/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary YAML config file
func createTestYAML(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	require.NoError(t, err)
	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	err = tmpFile.Close()
	require.NoError(t, err)
	return tmpFile.Name()
}

const (
	validYAML = `
settings:
  backup: false
  debug: true
  log_file: /tmp/inikeys.log
  log_json: true
display:
  show_defaults: true
  filter: "Move*"
watch:
  debounce_ms: 500
theme:
  name: dark
  primary: "99"
`
	partialYAML = `
display:
  filter: "Fire"
`
	invalidSyntaxYAML = `
settings:
  backup: [true
display: "unterminated
`
	invalidSuffixYAML = `
settings:
  backup: true
  backup_suffix: "../old"
`
	invalidDebounceYAML = `
watch:
  debounce_ms: -5
`
	invalidFilterYAML = `
display:
  filter: "[Move"
`
)

func TestLoadConfigFile(t *testing.T) {
	t.Run("load valid config", func(t *testing.T) {
		configFile := createTestYAML(t, validYAML)
		cfg, err := config.LoadConfigFile(configFile)

		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.False(t, cfg.Settings.Backup)
		assert.True(t, cfg.Settings.Debug)
		assert.Equal(t, "/tmp/inikeys.log", cfg.Settings.LogFile)
		assert.True(t, cfg.Settings.LogJSON)
		assert.Equal(t, ".bak", cfg.Settings.BackupSuffix, "unset keys keep defaults")
		assert.True(t, cfg.Display.ShowDefaults)
		assert.Equal(t, "Move*", cfg.Display.Filter)
		assert.Equal(t, 500, cfg.Watch.DebounceMS)

		// explicit color wins, the rest come from the named theme
		assert.Equal(t, "dark", cfg.Theme.Name)
		assert.Equal(t, "99", cfg.Theme.Primary)
		assert.Equal(t, config.GetTheme("dark").Error, cfg.Theme.Error)
	})

	t.Run("partial config keeps defaults", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestYAML(t, partialYAML))
		require.NoError(t, err)

		assert.True(t, cfg.Settings.Backup)
		assert.Empty(t, cfg.Settings.LogFile)
		assert.False(t, cfg.Settings.LogJSON)
		assert.Equal(t, 200, cfg.Watch.DebounceMS)
		assert.Equal(t, "Fire", cfg.Display.Filter)
		assert.Equal(t, "default", cfg.Theme.Name)
		assert.Equal(t, config.GetTheme("default").Primary, cfg.Theme.Primary)
	})

	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, config.New(), cfg)
	})

	t.Run("invalid syntax", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidSyntaxYAML))
		require.Error(t, err)
		assert.True(t, errors.IsInvalidConfig(err))
	})

	invalid := []struct {
		name  string
		yaml  string
		param string
	}{
		{"backup suffix with separator", invalidSuffixYAML, "settings.backup_suffix"},
		{"negative debounce", invalidDebounceYAML, "watch.debounce_ms"},
		{"bad filter glob", invalidFilterYAML, "display.filter"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadConfigFile(createTestYAML(t, tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.IsInvalidConfig(err))

			var ce *errors.ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.param, ce.Param())
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := config.New()
	cfg.Display.Filter = "Jump*"
	cfg.Watch.DebounceMS = 50
	cfg.ApplyTheme("light")

	require.NoError(t, config.SaveConfig(cfg, path))

	loaded, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	var nilCfg *config.Config
	assert.Error(t, nilCfg.Validate())

	assert.NoError(t, config.New().Validate())
	assert.NoError(t, config.NewTestConfig().Validate())

	cfg := config.New()
	cfg.Settings.BackupSuffix = ""
	assert.Error(t, cfg.Validate())

	// an empty suffix is fine when backups are off
	cfg.Settings.Backup = false
	assert.NoError(t, cfg.Validate())
}

func TestThemes(t *testing.T) {
	for _, name := range config.ListThemes() {
		theme := config.GetTheme(name)
		assert.Equal(t, name, theme.Name)
		assert.NotEmpty(t, theme.Primary, name)
		assert.NotEmpty(t, theme.Border, name)
	}

	assert.Equal(t, config.GetTheme("default"), config.GetTheme("unknown"))

	cfg := config.New()
	cfg.ApplyTheme("monochrome")
	assert.Equal(t, "monochrome", cfg.Theme.Name)
	assert.Equal(t, "245", cfg.Theme.Primary)
}

func TestDefaultPath(t *testing.T) {
	path, err := config.DefaultPath()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	assert.Equal(t, filepath.Join(".config", "inikeys", "config.yaml"), filepath.Join(filepath.Base(filepath.Dir(filepath.Dir(path))), filepath.Base(filepath.Dir(path)), filepath.Base(path)))
}
