package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"inikeys/internal/errors"
	"inikeys/internal/testutil"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const input = "[/Script/Game.Input]\n" +
	"; movement\n" +
	"Bindings[0]=(Key=38,Ctrl=False,Alt=False,Shift=False,Command=\"MoveForward\")\n" +
	"Bindings[1]=(DefaultCtrl=True,Default=87,Key=40,Ctrl=False,Alt=False,Shift=False,Command=\"MoveBack\")\n" +
	"Bindings[2]=(Key=-1,Ctrl=False,Alt=False,Shift=False,Command=\"Jump\")\n"

const conflicted = "[Input]\n" +
	"Bindings[0]=(Key=70,Ctrl=False,Alt=False,Shift=False,Command=\"Fire\")\n" +
	"Bindings[1]=(Key=70,Ctrl=False,Alt=False,Shift=False,Command=\"Use\")\n" +
	"Bindings[2]=(Key=71,Ctrl=False,Alt=False,Shift=False,Command=\"Old\")\n" +
	"Bindings[2]=(Key=72,Ctrl=False,Alt=False,Shift=False,Command=\"New\")\n"

type fixture struct {
	dir    string
	config string
}

func newFixture(t *testing.T, configYAML string) fixture {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if configYAML != "" {
		require.NoError(t, os.WriteFile(cfgPath, []byte(configYAML), 0644))
	}
	return fixture{dir: dir, config: cfgPath}
}

func (f fixture) file(t *testing.T, name, data string) string {
	t.Helper()
	return testutil.WriteFile(t, f.dir, name, data)
}

func (f fixture) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", f.config}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestListCommand(t *testing.T) {
	f := newFixture(t, "")
	path := f.file(t, "Input.ini", input)

	t.Run("hides unbound by default", func(t *testing.T) {
		out, _, err := f.run(t, "list", path)
		require.NoError(t, err)
		assert.Contains(t, out, "INDEX")
		assert.Contains(t, out, "ArrowUp")
		assert.Contains(t, out, "MoveForward")
		assert.NotContains(t, out, "Jump")
		assert.Contains(t, out, "2 of 3 bindings in [/Script/Game.Input]")
		assert.NotContains(t, out, "DEFAULT")
	})

	t.Run("all", func(t *testing.T) {
		out, _, err := f.run(t, "list", "--all", path)
		require.NoError(t, err)
		assert.Contains(t, out, "Jump")
		assert.Contains(t, out, "3 of 3 bindings")
	})

	t.Run("filter", func(t *testing.T) {
		out, _, err := f.run(t, "list", "--filter", "*Back", path)
		require.NoError(t, err)
		assert.Contains(t, out, "MoveBack")
		assert.NotContains(t, out, "MoveForward")
		assert.Contains(t, out, "1 of 3 bindings")
	})

	t.Run("defaults", func(t *testing.T) {
		out, _, err := f.run(t, "list", "--defaults", path)
		require.NoError(t, err)
		assert.Contains(t, out, "DEFAULT")
		assert.Contains(t, out, "Ctrl+W")
	})

	t.Run("invalid filter", func(t *testing.T) {
		_, _, err := f.run(t, "list", "--filter", "[", path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := f.run(t, "list", filepath.Join(f.dir, "missing.ini"))
		require.Error(t, err)
		assert.True(t, errors.IsFileNotFound(err))
	})
}

func TestListUsesConfiguredFilter(t *testing.T) {
	f := newFixture(t, "display:\n  filter: \"Move*\"\n  show_defaults: true\n")
	path := f.file(t, "Input.ini", input)

	out, _, err := f.run(t, "list", "--all", path)
	require.NoError(t, err)
	assert.NotContains(t, out, "Jump")
	assert.Contains(t, out, "DEFAULT")
}

func TestListWithoutBindingsWarns(t *testing.T) {
	f := newFixture(t, "")
	path := f.file(t, "empty.ini", "[Section]\nKey=Value\n")

	out, stderr, err := f.run(t, "list", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "no keybindings found")
	assert.Contains(t, out, "No bindings to show")
}

func TestSetCommand(t *testing.T) {
	f := newFixture(t, "settings:\n  backup: true\n  backup_suffix: .orig\n")

	t.Run("key and modifier", func(t *testing.T) {
		path := f.file(t, "Input.ini", input)
		out, _, err := f.run(t, "set", path, "0", "--key", "F5", "--ctrl")
		require.NoError(t, err)
		assert.Contains(t, out, "Bindings[0] = Ctrl+F5 (MoveForward)")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `Bindings[0]=(Key=116,Ctrl=True,Alt=False,Shift=False,Command="MoveForward")`+"\n")
		// untouched lines keep their text
		assert.True(t, strings.HasPrefix(string(data), "[/Script/Game.Input]\n; movement\n"))

		backup, err := os.ReadFile(path + ".orig")
		require.NoError(t, err)
		assert.Equal(t, input, string(backup))
	})

	t.Run("command and unbind", func(t *testing.T) {
		path := f.file(t, "Input.ini", input)
		_, _, err := f.run(t, "set", path, "1", "--unbind", "--command", `Say "hi"`)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data),
			`Bindings[1]=(DefaultCtrl=True,Default=87,Key=-1,Ctrl=False,Alt=False,Shift=False,Command="Say \"hi\"")`)
	})

	t.Run("numeric key to other output", func(t *testing.T) {
		path := f.file(t, "Input.ini", input)
		target := filepath.Join(f.dir, "out.ini")
		_, _, err := f.run(t, "set", path, "2", "--key", "32", "--output", target)
		require.NoError(t, err)

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Contains(t, string(data), `Bindings[2]=(Key=32,`)

		orig, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, input, string(orig))
	})

	t.Run("lower-case key name", func(t *testing.T) {
		path := f.file(t, "Input.ini", input)
		out, _, err := f.run(t, "set", path, "2", "--key", "arrowdown")
		require.NoError(t, err)
		assert.Contains(t, out, "Bindings[2] = ArrowDown (Jump)")
	})

	t.Run("dry run", func(t *testing.T) {
		path := f.file(t, "Input.ini", input)
		out, _, err := f.run(t, "set", path, "0", "--shift", "--dry-run")
		require.NoError(t, err)
		assert.Contains(t, out, "Shift=True")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, input, string(data))
	})

	t.Run("errors", func(t *testing.T) {
		path := f.file(t, "Input.ini", input)

		_, _, err := f.run(t, "set", path, "0")
		assert.ErrorContains(t, err, "nothing to change")

		_, _, err = f.run(t, "set", path, "x", "--ctrl")
		assert.ErrorContains(t, err, "invalid index")

		_, _, err = f.run(t, "set", path, "0", "--key", "NoSuchKey")
		assert.True(t, errors.IsInvalidBinding(err))

		_, _, err = f.run(t, "set", path, "9", "--ctrl")
		assert.True(t, errors.IsBindingNotFound(err))

		_, _, err = f.run(t, "set", path, "0", "--key", "A", "--unbind")
		assert.Error(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, input, string(data))
	})
}

func TestExportCommand(t *testing.T) {
	f := newFixture(t, "settings:\n  backup: false\n")
	path := f.file(t, "Input.ini", input)

	out, _, err := f.run(t, "export", path)
	require.NoError(t, err)
	assert.Equal(t, input, out)

	messy := f.file(t, "Messy.ini", "[K]\r\n  Bindings[3] = (Command=\"Crouch\",Key=67,Shift=1)\r\n")
	out, _, err = f.run(t, "export", messy)
	require.NoError(t, err)
	assert.Equal(t, "[K]\r\nBindings[3]=(Key=67,Ctrl=False,Alt=False,Shift=True,Command=\"Crouch\")\r\n", out)

	target := filepath.Join(f.dir, "exported.ini")
	_, stderr, err := f.run(t, "export", "--output", target, path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Exported to")
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, input, string(data))
}

func TestCheckCommand(t *testing.T) {
	f := newFixture(t, "")

	t.Run("clean", func(t *testing.T) {
		out, _, err := f.run(t, "check", f.file(t, "Input.ini", input))
		require.NoError(t, err)
		assert.Contains(t, out, "Input.ini: 3 bindings, no problems")
	})

	t.Run("duplicates and conflicts", func(t *testing.T) {
		out, _, err := f.run(t, "check", f.file(t, "Conflict.ini", conflicted))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 problem(s) found in Conflict.ini")
		assert.Contains(t, out, "Bindings[2] is declared 2 times (lines 4, 5)")
		assert.Contains(t, out, "F is bound more than once: Bindings[0] Fire, Bindings[1] Use")
	})

	t.Run("no bindings", func(t *testing.T) {
		out, _, err := f.run(t, "check", f.file(t, "empty.ini", "[Section]\n"))
		require.Error(t, err)
		assert.Contains(t, out, "empty.ini: no keybindings found")
	})
}

func TestKeysCommand(t *testing.T) {
	f := newFixture(t, "")

	out, _, err := f.run(t, "keys")
	require.NoError(t, err)
	assert.Contains(t, out, "ArrowUp")
	assert.Contains(t, out, "38")

	out, _, err = f.run(t, "keys", "--filter", "F1*")
	require.NoError(t, err)
	assert.Contains(t, out, "F1 ")
	assert.Contains(t, out, "F12")
	assert.NotContains(t, out, "ArrowUp")

	_, _, err = f.run(t, "keys", "extra")
	assert.Error(t, err)
}

func TestBrokenConfigFallsBackToDefaults(t *testing.T) {
	f := newFixture(t, "watch:\n  debounce_ms: -1\n")
	path := f.file(t, "Input.ini", input)

	out, _, err := f.run(t, "list", path)
	require.NoError(t, err)
	assert.Contains(t, out, "MoveForward")
}

func TestLogSettingsFromConfig(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "inikeys.log")
	f := newFixture(t, "settings:\n  log_file: "+logPath+"\n  log_json: true\n")
	path := f.file(t, "Input.ini", input)

	_, stderr, err := f.run(t, "--debug", "list", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, `"message":"Configuration loaded"`)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"Configuration loaded"`)
	assert.Contains(t, string(data), `"theme":"default"`)
}

func TestBrokenConfigIsLoggedToStderr(t *testing.T) {
	f := newFixture(t, "watch:\n  debounce_ms: -1\n")
	path := f.file(t, "Input.ini", input)

	_, stderr, err := f.run(t, "list", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Could not load config, using default settings")
	assert.Contains(t, stderr, "param=watch.debounce_ms")
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchFile(t *testing.T) {
	f := newFixture(t, "")
	path := f.file(t, "Input.ini", input)

	a := &app{cfgFile: f.config}
	require.NoError(t, a.init(&cobra.Command{}))

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- a.watchFile(ctx, out, path, 20*time.Millisecond) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Watching")
	}, 3*time.Second, 20*time.Millisecond)
	assert.Contains(t, out.String(), "no problems")

	require.NoError(t, os.WriteFile(path, []byte(conflicted), 0644))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "is bound more than once")
	}, 3*time.Second, 20*time.Millisecond)
	assert.Contains(t, out.String(), "changed")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchMissingFile(t *testing.T) {
	a := &app{cfgFile: newFixture(t, "").config}
	require.NoError(t, a.init(&cobra.Command{}))
	err := a.watchFile(context.Background(), &bytes.Buffer{}, filepath.Join(t.TempDir(), "nope.ini"), 0)
	assert.True(t, errors.IsFileNotFound(err))
}

func TestConfigCommand(t *testing.T) {
	f := newFixture(t, "")

	out, _, err := f.run(t, "config", "init", "--theme", "dark")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+f.config)

	data, err := os.ReadFile(f.config)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: dark")

	_, _, err = f.run(t, "config", "init")
	assert.Error(t, err, "existing file needs --force")

	_, _, err = f.run(t, "config", "init", "--force", "--theme", "neon")
	assert.True(t, errors.IsInvalidConfig(err))

	out, _, err = f.run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "debounce_ms: 200")
	assert.Contains(t, out, "primary: \"105\"")

	out, _, err = f.run(t, "config", "themes")
	require.NoError(t, err)
	for _, name := range []string{"default", "dark", "light", "monochrome"} {
		assert.Contains(t, out, name)
	}
}
