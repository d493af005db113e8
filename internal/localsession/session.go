// Package localsession provides a concrete implementation of the session.Session
// and session.Factory interfaces that keeps the document in memory.
package localsession

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/hbsbind/internal/binding"
	"github.com/vk/hbsbind/internal/canvas"
	"github.com/vk/hbsbind/internal/config"
	"github.com/vk/hbsbind/internal/ctxlog"
	"github.com/vk/hbsbind/internal/datapath"
	"github.com/vk/hbsbind/internal/explorer"
	"github.com/vk/hbsbind/internal/hbs"
	"github.com/vk/hbsbind/internal/render"
	"github.com/vk/hbsbind/internal/session"
)

// Factory implements session.Factory for in-process editing.
type Factory struct {
	// OnExport receives every exported template. Optional.
	OnExport session.ExportFunc
	// Engine defaults to render.New().
	Engine *render.Engine
}

// NewSession tokenizes the project template and applies its scripted
// bindings in order. A nil project means config.Default().
func (f *Factory) NewSession(ctx context.Context, project *config.Project) (session.Session, error) {
	logger := ctxlog.FromContext(ctx)
	if project == nil {
		project = config.Default()
	}
	engine := f.Engine
	if engine == nil {
		engine = render.New()
	}

	s := &Session{
		doc:        hbs.Tokenize(ctx, project.Template),
		sample:     project.Sample,
		dataSource: project.DataSource,
		engine:     engine,
		applier:    binding.NewApplier(project.Sample, engine),
		onExport:   f.OnExport,
		target:     hbs.NoID,
	}

	for _, b := range project.Bindings {
		mode, err := explorer.ParseMode(b.Mode)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", b, err)
		}
		req := binding.Binding{Mode: mode, Path: b.Path, Range: hbs.NewRange(b.From, b.To)}
		if err := s.applier.Apply(ctx, s.doc, b.Marker, req); err != nil {
			return nil, fmt.Errorf("failed to apply %s: %w", b, err)
		}
	}

	logger.Debug("Session created.", "markers", len(s.doc.Markers()), "bindings", len(project.Bindings))
	return s, nil
}

// Session implements session.Session. All methods are safe for concurrent
// use; the explorer it hands out is not and must be driven from one
// goroutine.
type Session struct {
	mu sync.Mutex

	doc        *hbs.Document
	sample     any
	dataSource any
	engine     *render.Engine
	applier    *binding.Applier
	onExport   session.ExportFunc

	explorer *explorer.Session
	target   int
	closed   bool
}

func (s *Session) Document() *hbs.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

func (s *Session) Markup() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return canvas.Markup(s.doc)
}

// Update replaces the document with the parsed markup. An open explorer
// whose marker was deleted in the editor is cancelled.
func (s *Session) Update(ctx context.Context, markup string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return session.ErrClosed
	}

	doc, err := canvas.Reparse(ctx, s.doc, markup)
	if err != nil {
		return err
	}
	s.doc = doc
	if s.explorer != nil {
		if _, ok := doc.Marker(s.target); !ok {
			ctxlog.FromContext(ctx).Debug("Explorer target removed, cancelling.", "marker", s.target)
			s.closeExplorer()
		}
	}
	return nil
}

func (s *Session) Insert(ctx context.Context, kind canvas.BlockKind, before int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, session.ErrClosed
	}

	nodes, err := canvas.Block(kind)
	if err != nil {
		return nil, err
	}
	pos := len(s.doc.Nodes)
	if before != hbs.NoID {
		if pos = s.doc.Index(before); pos < 0 {
			return nil, fmt.Errorf("%w: %d", binding.ErrUnknownMarker, before)
		}
	}
	ids := s.doc.InsertAt(pos, nodes...)
	ctxlog.FromContext(ctx).Debug("Block inserted.", "kind", kind, "ids", ids)
	return ids, nil
}

// ElementAdded opens the explorer for the first freshly added placeholder
// or unbound block among ids.
func (s *Session) ElementAdded(ctx context.Context, ids []int) (*explorer.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, session.ErrClosed
	}

	for _, id := range ids {
		n, ok := s.doc.Marker(id)
		if !ok || !needsExplorer(n) {
			continue
		}
		mode, _ := explorer.ModeFor(n)
		return s.openExplorer(ctx, id, mode)
	}
	return nil, nil
}

func needsExplorer(n *hbs.Node) bool {
	if !hbs.NeedsBinding(n) || !hbs.Bindable(n) {
		return false
	}
	if n.Kind == hbs.KindToken {
		return hbs.Inner(n.Raw) == ""
	}
	return n.IsOpen(hbs.HelperIf) || n.IsOpen(hbs.HelperEach)
}

// DoubleClicked opens the explorer for any bindable marker, bound or not.
func (s *Session) DoubleClicked(ctx context.Context, id int) (*explorer.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, session.ErrClosed
	}

	n, ok := s.doc.Marker(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", binding.ErrUnknownMarker, id)
	}
	mode, ok := explorer.ModeFor(n)
	if !ok {
		return nil, fmt.Errorf("%w: %s", binding.ErrNotBindable, n.Raw)
	}
	return s.openExplorer(ctx, id, mode)
}

// openExplorer replaces any open explorer; only one exists at a time.
func (s *Session) openExplorer(ctx context.Context, id int, mode explorer.Mode) (*explorer.Session, error) {
	logger := ctxlog.FromContext(ctx)
	if s.explorer != nil {
		logger.Debug("Superseding open explorer.", "marker", s.target)
		s.closeExplorer()
	}

	exp, err := explorer.Open(ctx, explorer.Options{
		Root:   s.dataSource,
		Sample: s.sample,
		Mode:   mode,
		Engine: s.engine,
	})
	if err != nil {
		return nil, err
	}
	s.explorer = exp
	s.target = id
	return exp, nil
}

func (s *Session) closeExplorer() {
	if s.explorer != nil {
		s.explorer.Cancel()
	}
	s.explorer = nil
	s.target = hbs.NoID
}

func (s *Session) Explorer() (*explorer.Session, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.explorer, s.target, s.explorer != nil
}

// Confirm applies the explorer selection to its marker. Selection errors
// leave the explorer open so the user can correct them.
func (s *Session) Confirm(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return session.ErrClosed
	}
	if s.explorer == nil {
		return session.ErrNoExplorer
	}

	sel, err := s.explorer.Confirm(ctx)
	if err != nil {
		return err
	}
	id := s.target
	s.closeExplorer()
	return s.applier.Apply(ctx, s.doc, id, binding.FromSelection(sel))
}

func (s *Session) Cancel(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.explorer != nil {
		ctxlog.FromContext(ctx).Debug("Explorer cancelled.", "marker", s.target)
	}
	s.closeExplorer()
}

func (s *Session) Bind(ctx context.Context, id int, b binding.Binding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return session.ErrClosed
	}
	return s.applier.Apply(ctx, s.doc, id, b)
}

// Check adds an issue for every top-level reference the sample cannot
// resolve to the structural issues of the document.
func (s *Session) Check(ctx context.Context) []hbs.Issue {
	s.mu.Lock()
	defer s.mu.Unlock()

	issues := hbs.Check(s.doc)
	for _, ref := range hbs.References(s.doc) {
		if _, ok := datapath.Resolve(s.sample, ref.Path); ok {
			continue
		}
		n, _ := s.doc.Marker(ref.ID)
		issues = append(issues, hbs.Issue{
			ID:      ref.ID,
			Raw:     n.Raw,
			Code:    session.IssueUnresolved,
			Message: fmt.Sprintf("%q has no value in the sample data", ref.Path),
		})
	}
	ctxlog.FromContext(ctx).Debug("Document checked.", "issues", len(issues))
	return issues
}

// Export serializes the document and passes it to the export callback.
func (s *Session) Export(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", session.ErrClosed
	}

	out := hbs.Serialize(ctx, s.doc)
	if s.onExport != nil {
		if err := s.onExport(ctx, out); err != nil {
			return "", fmt.Errorf("export failed: %w", err)
		}
	}
	ctxlog.FromContext(ctx).Info("Template exported.", "bytes", len(out))
	return out, nil
}

// Preview renders the serialized document against the sample.
func (s *Session) Preview(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", session.ErrClosed
	}
	return s.engine.Render(ctx, hbs.Serialize(ctx, s.doc), s.sample)
}

// Close cancels any open explorer. Closing twice is a no-op.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closeExplorer()
	s.closed = true
	ctxlog.FromContext(ctx).Debug("Session closed.")
	return nil
}
