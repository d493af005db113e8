package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/hbsbind/internal/ctxlog"
	"github.com/vk/hbsbind/internal/explorer"
	"github.com/vk/hbsbind/internal/hbs"
	"github.com/vk/hbsbind/internal/session"
)

// ErrCheckFailed is returned when the check finds issues.
var ErrCheckFailed = errors.New("template check failed")

// Run executes one editing session: interactive bindings first, then the
// check, the preview and the export, each only when configured.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	sess, err := a.factory.NewSession(ctx, a.project)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer func() {
		if err := sess.Close(ctx); err != nil {
			a.logger.Warn("Session close failed.", "error", err)
		}
	}()

	if a.config.BindID != hbs.NoID {
		if err := a.bindOne(ctx, sess, a.config.BindID); err != nil {
			return err
		}
	}
	if a.config.Interactive {
		if err := a.bindAll(ctx, sess); err != nil {
			return err
		}
	}

	if a.config.Check {
		issues := sess.Check(ctx)
		for _, issue := range issues {
			fmt.Fprintf(a.outW, "%s %s\n", issue.Code, issue)
		}
		if len(issues) > 0 {
			return fmt.Errorf("%w: %d issue(s)", ErrCheckFailed, len(issues))
		}
		a.logger.Info("Template check passed.")
	}

	if a.config.Preview {
		out, err := sess.Preview(ctx)
		if err != nil {
			return fmt.Errorf("preview failed: %w", err)
		}
		fmt.Fprintln(a.outW, out)
	}

	if a.exportPath != "" {
		if _, err := sess.Export(ctx); err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) bindOne(ctx context.Context, sess session.Session, id int) error {
	exp, err := sess.DoubleClicked(ctx, id)
	if err != nil {
		return fmt.Errorf("cannot bind marker %d: %w", id, err)
	}
	return a.drive(ctx, sess, exp, id)
}

// bindAll walks the markers that still need a binding. Running out of data
// ends the walk without an error.
func (a *App) bindAll(ctx context.Context, sess session.Session) error {
	for _, n := range sess.Document().Markers() {
		if !hbs.NeedsBinding(n) || !hbs.Bindable(n) {
			continue
		}
		exp, err := sess.DoubleClicked(ctx, n.ID)
		if errors.Is(err, explorer.ErrNoData) {
			a.logger.Warn("No data sources available to map, skipping interactive binding.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("cannot bind marker %d: %w", n.ID, err)
		}
		if err := a.drive(ctx, sess, exp, n.ID); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) drive(ctx context.Context, sess session.Session, exp *explorer.Session, id int) error {
	heading := ""
	if n, ok := sess.Document().Marker(id); ok {
		heading = n.Raw
	}
	applied, err := a.explore(ctx, sess, exp, heading)
	if err != nil {
		sess.Cancel(ctx)
		return err
	}
	a.logger.Info("Explorer closed.", "marker", id, "applied", applied)
	return nil
}
