package explorer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/hbsbind/internal/ctxlog"
	"github.com/vk/hbsbind/internal/datapath"
	"github.com/vk/hbsbind/internal/hbs"
	"github.com/vk/hbsbind/internal/render"
)

var (
	ErrNoData       = errors.New("no data sources available to map")
	ErrNoSelection  = errors.New("please select a value")
	ErrNotSequence  = errors.New("selected path is not a list in the sample data")
	ErrInvalidRange = hbs.ErrInvalidRange
	ErrUnknownPath  = errors.New("path does not resolve in the data")
	ErrNotContainer = errors.New("path does not resolve to an object or array")
	ErrClosed       = errors.New("explorer is closed")
)

// CardLimit caps the number of array elements listed at once.
const CardLimit = 50

// Mode is the kind of binding the explorer was opened for.
type Mode int

const (
	ModeVariable Mode = iota
	ModeConditional
	ModeIteration
)

func (m Mode) String() string {
	switch m {
	case ModeVariable:
		return "variable"
	case ModeConditional:
		return "conditional"
	case ModeIteration:
		return "iteration"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Title is the heading shown above the cards.
func (m Mode) Title() string {
	switch m {
	case ModeConditional:
		return "Bind If (condition)"
	case ModeIteration:
		return "Bind Each (collection)"
	default:
		return "Bind Variable"
	}
}

// ParseMode accepts the String form of a mode plus the helper names "if"
// and "each".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "variable", "var", "value":
		return ModeVariable, nil
	case "conditional", "if":
		return ModeConditional, nil
	case "iteration", "each":
		return ModeIteration, nil
	}
	return ModeVariable, fmt.Errorf("unknown binding mode %q (want variable, conditional or iteration)", s)
}

// ModeFor returns the mode that binds the given marker, if any.
func ModeFor(n *hbs.Node) (Mode, bool) {
	if !hbs.Bindable(n) {
		return ModeVariable, false
	}
	switch {
	case n.IsOpen(hbs.HelperIf):
		return ModeConditional, true
	case n.IsOpen(hbs.HelperEach):
		return ModeIteration, true
	}
	return ModeVariable, true
}

// Evaluator renders a single path expression against data.
// *render.Engine satisfies it.
type Evaluator interface {
	Evaluate(ctx context.Context, path string, data any) (string, error)
}

// Options configure a new Session.
type Options struct {
	// Root is navigated by the user. It must be an object or an array.
	Root any
	// Sample feeds previews and the iteration check.
	Sample any
	Mode   Mode
	// Start is an optional path inside Root to open at.
	Start string
	// Engine defaults to render.New().
	Engine Evaluator
}

// Card is one member of the current container.
type Card struct {
	Label    string
	Path     string
	Kind     datapath.Kind
	Badge    string
	Preview  string
	Selected bool
}

// Crumb is one step of the breadcrumb, root first.
type Crumb struct {
	Label string
	Path  string
}

// Selection is the outcome of a confirmed session.
type Selection struct {
	Mode Mode
	Path string
	Kind datapath.Kind
	// Preview is the rendered single expression against the sample.
	Preview string
	// Range is set only in iteration mode and only when a bound was given.
	Range *hbs.Range
}

// Session is one open explorer. It is not safe for concurrent use; the
// editing session that owns it serializes access.
type Session struct {
	root   any
	sample any
	engine Evaluator
	mode   Mode

	currentPath string
	currentNode any

	selectedPath string
	selectedKind datapath.Kind

	from, to *int
	closed   bool
}

// Open starts a session. It fails with ErrNoData when the root is not an
// object or an array. A start path that does not lead to a container is
// ignored and the session opens at the root.
func Open(ctx context.Context, opts Options) (*Session, error) {
	logger := ctxlog.FromContext(ctx)

	if !datapath.KindOf(opts.Root).IsContainer() {
		logger.Warn("Explorer not opened, no bindable data.", "mode", opts.Mode)
		return nil, ErrNoData
	}

	s := &Session{
		root:        opts.Root,
		sample:      opts.Sample,
		engine:      opts.Engine,
		mode:        opts.Mode,
		currentNode: opts.Root,
	}
	if s.engine == nil {
		s.engine = render.New()
	}
	if opts.Start != "" {
		if err := s.moveTo(opts.Start); err != nil {
			logger.Debug("Ignoring explorer start path.", "path", opts.Start, "error", err)
		}
	}

	logger.Debug("Explorer opened.", "mode", s.mode, "path", s.currentPath)
	return s, nil
}

func (s *Session) Mode() Mode { return s.mode }

// Path is the path of the container currently shown.
func (s *Session) Path() string { return s.currentPath }

// Selected returns the selected path and its kind.
func (s *Session) Selected() (string, datapath.Kind, bool) {
	return s.selectedPath, s.selectedKind, s.selectedPath != ""
}

// Closed reports whether the session was confirmed or cancelled.
func (s *Session) Closed() bool { return s.closed }

// Cards lists the members of the current container.
func (s *Session) Cards(ctx context.Context) []Card {
	children := datapath.Children(s.currentNode, s.currentPath, CardLimit)
	cards := make([]Card, 0, len(children))
	for _, c := range children {
		cards = append(cards, Card{
			Label:    c.Label,
			Path:     c.Path,
			Kind:     c.Kind,
			Badge:    c.Kind.Badge(),
			Preview:  s.cardPreview(ctx, c),
			Selected: c.Path == s.selectedPath,
		})
	}
	return cards
}

// cardPreview evaluates the card path against the sample. Containers and
// paths the engine cannot render fall back to the value in the root.
func (s *Session) cardPreview(ctx context.Context, c datapath.Child) string {
	if c.Kind.IsContainer() {
		return datapath.Preview(c.Value)
	}
	if _, ok := datapath.Resolve(s.sample, c.Path); ok {
		if out, err := s.engine.Evaluate(ctx, c.Path, s.sample); err == nil {
			return datapath.Ellipsize(out, datapath.PreviewLimit)
		}
	}
	return datapath.Preview(c.Value)
}

// Breadcrumbs lists root followed by every segment of the current path.
func (s *Session) Breadcrumbs() []Crumb {
	crumbs := []Crumb{{Label: "root", Path: ""}}
	var acc []string
	for _, seg := range datapath.Split(s.currentPath) {
		acc = append(acc, seg)
		crumbs = append(crumbs, Crumb{Label: seg, Path: datapath.Join(acc...)})
	}
	return crumbs
}

// Click drills into an object or array card and selects any other card.
// Selecting replaces the previous selection.
func (s *Session) Click(ctx context.Context, path string) error {
	if s.closed {
		return ErrClosed
	}
	v, ok := datapath.Resolve(s.root, path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPath, path)
	}
	if datapath.KindOf(v).IsContainer() {
		return s.Jump(ctx, path)
	}
	return s.Select(ctx, path)
}

// Select marks a card as the selection without drilling into it, which is
// how a whole list is picked for an iteration.
func (s *Session) Select(ctx context.Context, path string) error {
	if s.closed {
		return ErrClosed
	}
	v, ok := datapath.Resolve(s.root, path)
	if !ok || path == "" {
		return fmt.Errorf("%w: %s", ErrUnknownPath, path)
	}
	s.selectedPath = path
	s.selectedKind = datapath.KindOf(v)
	ctxlog.FromContext(ctx).Debug("Explorer selection changed.", "path", path, "kind", s.selectedKind)
	return nil
}

// Jump moves to any container path, root included, and clears the
// selection.
func (s *Session) Jump(ctx context.Context, path string) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.moveTo(path); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Explorer moved.", "path", path)
	return nil
}

func (s *Session) moveTo(path string) error {
	v, ok := datapath.Resolve(s.root, path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPath, path)
	}
	if !datapath.KindOf(v).IsContainer() {
		return fmt.Errorf("%w: %s", ErrNotContainer, path)
	}
	s.currentPath = path
	s.currentNode = v
	s.selectedPath = ""
	s.selectedKind = datapath.KindUndefined
	return nil
}

// Preview describes what the current selection would produce in this mode.
func (s *Session) Preview(ctx context.Context) string {
	if s.selectedPath == "" {
		return "Select a value to preview…"
	}
	p := s.selectedPath
	switch s.mode {
	case ModeConditional:
		v, _ := datapath.Resolve(s.sample, p)
		verdict := "falsy"
		if datapath.Truthy(v) {
			verdict = "truthy"
		}
		return fmt.Sprintf("Condition {{%s}} → %s", p, verdict)
	case ModeIteration:
		v, _ := datapath.Resolve(s.sample, p)
		return fmt.Sprintf("Collection {{%s}} → %d items", p, datapath.Len(v))
	default:
		return fmt.Sprintf("Bind to {{%s}} → Preview: %s", p, s.evaluate(ctx, p))
	}
}

func (s *Session) evaluate(ctx context.Context, path string) string {
	out, err := s.engine.Evaluate(ctx, path, s.sample)
	if err != nil {
		ctxlog.FromContext(ctx).Debug("Preview failed to render.", "path", path, "error", err)
		return ""
	}
	return out
}

// SetRange stores the optional iteration bounds. Passing two nils clears
// them.
func (s *Session) SetRange(from, to *int) error {
	if s.closed {
		return ErrClosed
	}
	r := hbs.NewRange(from, to)
	if r != nil && s.mode != ModeIteration {
		return hbs.ErrRangeNotAllowed
	}
	if err := r.Validate(); err != nil {
		return err
	}
	if r == nil {
		s.from, s.to = nil, nil
		return nil
	}
	s.from, s.to = r.From, r.To
	return nil
}

// Range returns the stored bounds, or nil when none were given.
func (s *Session) Range() *hbs.Range {
	return hbs.NewRange(s.from, s.to)
}

// Confirm validates the selection and closes the session. On error the
// session stays open and unchanged.
func (s *Session) Confirm(ctx context.Context) (Selection, error) {
	logger := ctxlog.FromContext(ctx)
	if s.closed {
		return Selection{}, ErrClosed
	}
	if s.selectedPath == "" {
		return Selection{}, ErrNoSelection
	}

	sel := Selection{Mode: s.mode, Path: s.selectedPath, Kind: s.selectedKind}
	if s.mode == ModeIteration {
		v, _ := datapath.Resolve(s.sample, s.selectedPath)
		if !datapath.IsSequence(v) {
			logger.Debug("Rejected iteration binding.", "path", s.selectedPath, "kind", datapath.KindOf(v))
			return Selection{}, fmt.Errorf("%w: %s", ErrNotSequence, s.selectedPath)
		}
		sel.Range = s.Range()
	}
	sel.Preview = s.evaluate(ctx, s.selectedPath)

	s.closed = true
	logger.Debug("Explorer confirmed.", "mode", s.mode, "path", sel.Path, "range", sel.Range.String())
	return sel, nil
}

// Cancel discards the session.
func (s *Session) Cancel() {
	s.closed = true
}
