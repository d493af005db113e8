// Package binding writes confirmed data bindings onto document markers.
package binding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/hbsbind/internal/ctxlog"
	"github.com/vk/hbsbind/internal/datapath"
	"github.com/vk/hbsbind/internal/explorer"
	"github.com/vk/hbsbind/internal/hbs"
	"github.com/vk/hbsbind/internal/render"
)

var (
	ErrUnknownMarker = errors.New("no marker with that id")
	ErrModeMismatch  = errors.New("binding mode does not match the marker")
	ErrNotBindable   = errors.New("marker cannot be bound")
	ErrEmptyPath     = errors.New("binding path is empty")
)

// Binding is a request to attach a data path to a marker.
type Binding struct {
	Mode  explorer.Mode
	Path  string
	Range *hbs.Range
}

// FromSelection turns a confirmed explorer selection into a Binding.
func FromSelection(sel explorer.Selection) Binding {
	return Binding{Mode: sel.Mode, Path: sel.Path, Range: sel.Range}
}

// Applier mutates markers in place. Variable content and the iteration
// check are computed against the sample context.
type Applier struct {
	sample any
	engine explorer.Evaluator
}

// NewApplier returns an Applier. A nil engine defaults to render.New().
func NewApplier(sample any, engine explorer.Evaluator) *Applier {
	if engine == nil {
		engine = render.New()
	}
	return &Applier{sample: sample, engine: engine}
}

// Apply binds the marker with the given id. Nothing is mutated when an
// error is returned.
func (a *Applier) Apply(ctx context.Context, doc *hbs.Document, id int, b Binding) error {
	logger := ctxlog.FromContext(ctx)

	n, ok := doc.Marker(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMarker, id)
	}
	if !hbs.Bindable(n) {
		return fmt.Errorf("%w: %s", ErrNotBindable, n.Raw)
	}
	if want, _ := explorer.ModeFor(n); want != b.Mode {
		return fmt.Errorf("%w: %s marker %s needs %s, got %s", ErrModeMismatch, n.Kind, n.Raw, want, b.Mode)
	}
	if b.Path == "" {
		return ErrEmptyPath
	}

	switch b.Mode {
	case explorer.ModeVariable:
		a.applyVariable(ctx, n, b.Path)
	case explorer.ModeConditional:
		n.Raw = fmt.Sprintf("{{#if %s}}", b.Path)
		n.Content = n.Raw
		n.Processed = true
		_ = n.SetSource(datapath.First(b.Path))
	case explorer.ModeIteration:
		if err := a.applyIteration(doc, n, b); err != nil {
			return err
		}
	}

	logger.Debug("Applied binding.", "marker", id, "mode", b.Mode, "path", b.Path, "raw", n.Raw)
	return nil
}

func (a *Applier) applyVariable(ctx context.Context, n *hbs.Node, path string) {
	if strings.HasPrefix(n.Raw, "{{{") {
		n.Raw = fmt.Sprintf("{{{%s}}}", path)
	} else {
		n.Raw = fmt.Sprintf("{{%s}}", path)
	}
	n.Processed = true
	_ = n.SetSource(datapath.First(path))
	n.Content = a.content(ctx, path, n.Raw)
}

// content is the preview value of path, or fallback when the sample has no
// value there or the engine cannot render it.
func (a *Applier) content(ctx context.Context, path, fallback string) string {
	v, ok := datapath.Resolve(a.sample, path)
	if !ok || v == nil {
		return fallback
	}
	if datapath.KindOf(v).IsContainer() {
		return datapath.Preview(v)
	}
	out, err := a.engine.Evaluate(ctx, path, a.sample)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Could not render bound value, showing expression.", "path", path, "error", err)
		return fallback
	}
	return out
}

func (a *Applier) applyIteration(doc *hbs.Document, n *hbs.Node, b Binding) error {
	v, _ := datapath.Resolve(a.sample, b.Path)
	if !datapath.IsSequence(v) {
		return fmt.Errorf("%w: %s", explorer.ErrNotSequence, b.Path)
	}
	if err := b.Range.Validate(); err != nil {
		return err
	}

	// Validated above, so neither setter can fail from here on.
	_ = n.SetRange(b.Range)
	_ = n.SetSource(b.Path)
	n.Raw = fmt.Sprintf("{{#each %s}}", b.Path)
	n.Content = n.Raw
	n.Processed = true

	if closing, ok := doc.Pair(n.ID); ok {
		closing.Processed = true
	}
	return nil
}
