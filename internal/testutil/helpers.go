// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

// WriteFile writes data to name inside dir and returns the full path.
func WriteFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

// WriteFiles writes every name/content pair into dir.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, data := range files {
		WriteFile(t, dir, name, data)
	}
}

// StripANSI removes terminal escape sequences from rendered output.
func StripANSI(s string) string {
	return ansi.Strip(s)
}
