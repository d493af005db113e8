package hbs

import (
	"errors"
	"fmt"
)

// NoID marks text nodes and unpaired markers.
const NoID = -1

// Kind tells text apart from the three marker variants.
type Kind int

const (
	KindText Kind = iota
	KindToken
	KindBlockOpen
	KindBlockClose
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindToken:
		return "token"
	case KindBlockOpen:
		return "block-open"
	case KindBlockClose:
		return "block-close"
	default:
		return "unknown"
	}
}

// Helper names the block helper of an open or close marker.
type Helper string

const (
	HelperNone Helper = ""
	HelperIf   Helper = "if"
	HelperEach Helper = "each"
)

var (
	ErrRangeNotAllowed  = errors.New("range can only be set on an each block-open marker")
	ErrSourceNotAllowed = errors.New("source path cannot be set on text or block-close nodes")
	ErrInvalidRange     = errors.New("range bounds must be non-negative and to must not be less than from")
)

// Range restricts an each block to an inclusive index window. Either bound
// may be absent.
type Range struct {
	From *int
	To   *int
}

// NewRange builds a Range from optional bounds; it returns nil when neither
// bound is given.
func NewRange(from, to *int) *Range {
	if from == nil && to == nil {
		return nil
	}
	r := &Range{}
	if from != nil {
		f := *from
		r.From = &f
	}
	if to != nil {
		t := *to
		r.To = &t
	}
	return r
}

// FromOrZero returns the lower bound, defaulting to 0.
func (r *Range) FromOrZero() int {
	if r == nil || r.From == nil {
		return 0
	}
	return *r.From
}

// Validate rejects negative bounds and a to that precedes from.
func (r *Range) Validate() error {
	if r == nil {
		return nil
	}
	if (r.From != nil && *r.From < 0) || (r.To != nil && *r.To < 0) {
		return ErrInvalidRange
	}
	if r.To != nil && *r.To < r.FromOrZero() {
		return ErrInvalidRange
	}
	return nil
}

func (r *Range) String() string {
	if r == nil {
		return ""
	}
	if r.To == nil {
		return fmt.Sprintf("%d", r.FromOrZero())
	}
	return fmt.Sprintf("%d %d", r.FromOrZero(), *r.To)
}

// Node is one element of a Document: either verbatim text or a marker that
// stands in for exactly one template expression.
type Node struct {
	// ID is stable for the lifetime of the document; NoID for text.
	ID   int
	Kind Kind
	// Helper is set for block markers only.
	Helper Helper
	// Raw is the verbatim expression for markers and the text itself for
	// text nodes. It is what the serializer writes back.
	Raw string
	// Content is what the canvas displays in place of the marker.
	Content string
	// Processed is set once a binding was applied. Cosmetic only.
	Processed bool
	// Pair is the ID of the matching open/close marker, NoID otherwise.
	Pair int

	source string
	rng    *Range
}

// NewText returns a text node.
func NewText(text string) *Node {
	return &Node{ID: NoID, Kind: KindText, Raw: text, Content: text, Pair: NoID}
}

// NewMarker classifies a raw expression and returns the matching marker.
// The ID is assigned when the node is added to a Document.
func NewMarker(raw string) *Node {
	kind, helper := classify(raw)
	return &Node{ID: NoID, Kind: kind, Helper: helper, Raw: raw, Content: raw, Pair: NoID}
}

// IsMarker reports whether the node stands for a template expression.
func (n *Node) IsMarker() bool {
	return n.Kind != KindText
}

// IsOpen reports whether the node opens a block of the given helper.
func (n *Node) IsOpen(h Helper) bool {
	return n.Kind == KindBlockOpen && n.Helper == h
}

// Source returns the bound source path, if any.
func (n *Node) Source() string {
	return n.source
}

// Range returns a copy of the bound range, or nil.
func (n *Node) Range() *Range {
	if n.rng == nil {
		return nil
	}
	return NewRange(n.rng.From, n.rng.To)
}

// SetSource records the data path a marker was bound to. Close markers and
// text never carry one.
func (n *Node) SetSource(path string) error {
	if n.Kind == KindText || n.Kind == KindBlockClose {
		return ErrSourceNotAllowed
	}
	n.source = path
	return nil
}

// SetRange binds an index window; only each block-open markers accept one.
// A nil range clears it.
func (n *Node) SetRange(r *Range) error {
	if r == nil {
		n.rng = nil
		return nil
	}
	if !n.IsOpen(HelperEach) {
		return ErrRangeNotAllowed
	}
	if err := r.Validate(); err != nil {
		return err
	}
	n.rng = NewRange(r.From, r.To)
	return nil
}

// clone copies the node including its private binding state.
func (n *Node) clone() *Node {
	c := *n
	c.rng = n.Range()
	return &c
}

func (n *Node) String() string {
	if n.Kind == KindText {
		return fmt.Sprintf("Text(%q)", n.Raw)
	}
	return fmt.Sprintf("%s#%d(%s)", n.Kind, n.ID, n.Raw)
}
