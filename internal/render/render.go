package render

import (
	"context"
	"fmt"

	"github.com/mailgun/raymond/v2"
	"github.com/vk/hbsbind/internal/ctxlog"
)

// Error is returned for any template that fails to parse or execute.
type Error struct {
	// Op is "parse" or "exec".
	Op     string
	Source string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("template %s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Engine renders templates with a fixed set of helpers. Helpers are
// registered per template so engines never share global state.
type Engine struct {
	helpers map[string]any
}

// New returns an engine with the slice helper registered.
func New() *Engine {
	return &Engine{helpers: map[string]any{"slice": Slice}}
}

// Render compiles source and executes it against data.
func (e *Engine) Render(ctx context.Context, source string, data any) (out string, err error) {
	logger := ctxlog.FromContext(ctx)

	tpl, err := raymond.Parse(source)
	if err != nil {
		logger.Debug("Template failed to parse.", "error", err)
		return "", &Error{Op: "parse", Source: source, Err: err}
	}
	tpl.RegisterHelpers(e.helpers)

	// raymond re-panics on runtime and reflection failures inside helpers.
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Template execution panicked.", "panic", r)
			out, err = "", &Error{Op: "exec", Source: source, Err: fmt.Errorf("%v", r)}
		}
	}()

	out, err = tpl.Exec(data)
	if err != nil {
		logger.Debug("Template failed to execute.", "error", err)
		return "", &Error{Op: "exec", Source: source, Err: err}
	}
	return out, nil
}

// Evaluate renders the single expression {{path}} against data, which is
// how a path's value is previewed.
func (e *Engine) Evaluate(ctx context.Context, path string, data any) (string, error) {
	return e.Render(ctx, "{{"+path+"}}", data)
}
