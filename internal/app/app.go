package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vk/hbsbind/internal/config"
	"github.com/vk/hbsbind/internal/ctxlog"
	"github.com/vk/hbsbind/internal/explorer"
	"github.com/vk/hbsbind/internal/localsession"
	"github.com/vk/hbsbind/internal/session"
	"github.com/vk/hbsbind/internal/tui"
)

// StdoutPath as an export path writes the template to the output writer.
const StdoutPath = "-"

// ExploreFunc lets the user drive an open explorer for the marker described
// by heading. It reports whether a binding was applied.
type ExploreFunc func(ctx context.Context, sess session.Session, exp *explorer.Session, heading string) (bool, error)

// Option customizes an App.
type Option func(*App)

// WithExplorer replaces the terminal explorer, mainly for tests.
func WithExplorer(fn ExploreFunc) Option {
	return func(a *App) { a.explore = fn }
}

// WithSessionFactory replaces the in-memory session factory.
func WithSessionFactory(f session.Factory) Option {
	return func(a *App) { a.factory = f }
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	project    *config.Project
	exportPath string
	factory    session.Factory
	explore    ExploreFunc
}

// NewApp is the constructor for the main application. It loads the project
// and wires the editing session. Results go to outW, logs to logW.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	project, err := loader.Load(ctx, cfg.ProjectPath)
	if err != nil {
		// A project that cannot be loaded is a fatal startup error.
		panic(fmt.Errorf("failed to load project: %w", err))
	}
	logger.Debug("Project loaded.", "path", project.Path, "bindings", len(project.Bindings))

	a := &App{
		outW:       outW,
		logger:     logger,
		config:     cfg,
		project:    project,
		exportPath: exportTarget(cfg, project),
	}
	a.factory = &localsession.Factory{OnExport: a.writeExport}
	a.explore = terminalExplorer(os.Stdin, outW)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// exportTarget picks the flag over the project setting. With nothing else
// to do the template goes to the output writer.
func exportTarget(cfg *Config, project *config.Project) string {
	switch {
	case cfg.ExportPath != "":
		return cfg.ExportPath
	case project.ExportPath != "":
		return project.ExportPath
	case !cfg.Preview && !cfg.Check:
		return StdoutPath
	}
	return ""
}

// Project returns the loaded project. This is primarily for testing.
func (a *App) Project() *config.Project {
	return a.project
}

func (a *App) writeExport(ctx context.Context, template string) error {
	logger := ctxlog.FromContext(ctx)
	if a.exportPath == StdoutPath {
		_, err := fmt.Fprintln(a.outW, template)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(a.exportPath), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(a.exportPath, []byte(template), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", a.exportPath, err)
	}
	logger.Info("Template written.", "path", a.exportPath)
	return nil
}

func terminalExplorer(in io.Reader, out io.Writer) ExploreFunc {
	return func(ctx context.Context, sess session.Session, exp *explorer.Session, heading string) (bool, error) {
		return tui.Run(ctx, exp, tui.Options{
			Heading: heading,
			Confirm: sess.Confirm,
			Cancel:  sess.Cancel,
		}, in, out)
	}
}
