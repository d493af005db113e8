package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/hbsbind/internal/cli"
)

func writeProject(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "project.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600), "failed to set up test file")
	return path
}

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// An unterminated block makes the loader fail inside app.NewApp().
	filePath := writeProject(t, `
template {
  source = "<p>{{title}}</p>"
`)
	out, logs := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	runErr := run(context.Background(), out, logs, []string{filePath})

	// --- Assert ---
	require.Error(t, runErr, "run() should have returned an error after recovering from a panic")
	assert.Contains(t, runErr.Error(), "application startup panicked")
	assert.Contains(t, runErr.Error(), "failed to parse")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"})

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Act ---
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_PreviewAndExport(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	filePath := writeProject(t, `
template {
  source = "<h1>{{title}}</h1>"
}
sample_data {
  value = { title = "Hello" }
}
`)
	out, logs := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, logs, []string{"-preview", "-export", "-", "-log-level", "debug", filePath})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hello</h1>\n<h1>{{title}}</h1>\n", out.String())
	assert.Contains(t, logs.String(), "Project loaded.")
}
