package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/hbsbind/internal/app"
	"github.com/vk/hbsbind/internal/hbs"
	"github.com/vk/hbsbind/internal/hcl"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an application run.
type HarnessResult struct {
	Dir       string
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// WriteFiles writes files, keyed by relative path, into a fresh temporary
// directory and returns it.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// RunApp writes files to a temporary directory and runs the application
// against the project in it. cfg.ProjectPath and a relative cfg.ExportPath
// are taken relative to that directory; ProjectPath defaults to
// "project.hcl". Set BindID to NoBind unless a marker should be bound.
func RunApp(t *testing.T, files map[string]string, cfg app.Config, opts ...app.Option) *HarnessResult {
	t.Helper()
	return RunAppWithContext(context.Background(), t, files, cfg, opts...)
}

// RunAppWithContext is RunApp with a caller-provided context.
func RunAppWithContext(ctx context.Context, t *testing.T, files map[string]string, cfg app.Config, opts ...app.Option) *HarnessResult {
	t.Helper()

	dir := WriteFiles(t, files)
	if cfg.ProjectPath == "" {
		cfg.ProjectPath = "project.hcl"
	}
	cfg.ProjectPath = filepath.Join(dir, cfg.ProjectPath)
	if cfg.ExportPath != "" && cfg.ExportPath != app.StdoutPath && !filepath.IsAbs(cfg.ExportPath) {
		cfg.ExportPath = filepath.Join(dir, cfg.ExportPath)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	out := &SafeBuffer{}
	logs := &SafeBuffer{}
	result := &HarnessResult{Dir: dir}

	func() {
		defer func() {
			if r := recover(); r != nil {
				result.Err = fmt.Errorf("application startup panicked | %v", r)
			}
		}()
		result.App = app.NewApp(out, logs, &cfg, hcl.NewLoader(), opts...)
	}()
	if result.Err == nil {
		result.Err = result.App.Run(ctx)
	}

	if os.Getenv("HBSBIND_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
	}
	result.Output = out.String()
	result.LogOutput = logs.String()
	return result
}

// NoBind is the BindID that disables single-marker binding.
const NoBind = hbs.NoID
