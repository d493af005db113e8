package hbs

// Document is the editable marker tree handed to a canvas. Markers are
// addressed by ID, which stays stable while nodes are inserted or removed.
type Document struct {
	Nodes []*Node

	nextID int
}

// NewDocument builds a document from nodes, assigning IDs to markers and
// pairing block markers.
func NewDocument(nodes ...*Node) *Document {
	d := &Document{}
	d.InsertAt(0, nodes...)
	return d
}

// Marker returns the marker with the given ID.
func (d *Document) Marker(id int) (*Node, bool) {
	if i := d.Index(id); i >= 0 {
		return d.Nodes[i], true
	}
	return nil, false
}

// Markers returns all marker nodes in document order.
func (d *Document) Markers() []*Node {
	var out []*Node
	for _, n := range d.Nodes {
		if n != nil && n.IsMarker() {
			out = append(out, n)
		}
	}
	return out
}

// Index returns the position of the marker with the given ID, or -1.
func (d *Document) Index(id int) int {
	if id == NoID {
		return -1
	}
	for i, n := range d.Nodes {
		if n != nil && n.IsMarker() && n.ID == id {
			return i
		}
	}
	return -1
}

// Pair returns the block marker paired with id.
func (d *Document) Pair(id int) (*Node, bool) {
	n, ok := d.Marker(id)
	if !ok || n.Pair == NoID {
		return nil, false
	}
	return d.Marker(n.Pair)
}

// InsertAt inserts nodes before position pos (clamped to the document
// bounds), assigns fresh IDs to the new markers and repairs pairing. It
// returns the IDs of the inserted markers in order.
func (d *Document) InsertAt(pos int, nodes ...*Node) []int {
	if pos < 0 {
		pos = 0
	}
	if pos > len(d.Nodes) {
		pos = len(d.Nodes)
	}

	var ids []int
	fresh := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if n.IsMarker() {
			n.ID = d.nextID
			d.nextID++
			ids = append(ids, n.ID)
		} else {
			n.ID = NoID
		}
		fresh = append(fresh, n)
	}

	out := make([]*Node, 0, len(d.Nodes)+len(fresh))
	out = append(out, d.Nodes[:pos]...)
	out = append(out, fresh...)
	out = append(out, d.Nodes[pos:]...)
	d.Nodes = out
	d.Repair()
	return ids
}

// Append adds nodes at the end of the document.
func (d *Document) Append(nodes ...*Node) []int {
	return d.InsertAt(len(d.Nodes), nodes...)
}

// Remove drops the markers with the given IDs and repairs pairing. Unknown
// IDs are ignored.
func (d *Document) Remove(ids ...int) {
	drop := make(map[int]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := d.Nodes[:0]
	for _, n := range d.Nodes {
		if n != nil && n.IsMarker() && drop[n.ID] {
			continue
		}
		kept = append(kept, n)
	}
	d.Nodes = kept
	d.Repair()
}

// Repair recomputes block pairing from scratch. A close pairs with the
// nearest open of the same helper on the stack; opens stacked above that one
// are left unpaired. A close with no open of its helper stays unpaired.
func (d *Document) Repair() {
	var stack []*Node
	for _, n := range d.Nodes {
		if n == nil || !n.IsMarker() {
			continue
		}
		n.Pair = NoID
		switch n.Kind {
		case KindBlockOpen:
			stack = append(stack, n)
		case KindBlockClose:
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].Helper != n.Helper {
					continue
				}
				stack[i].Pair = n.ID
				n.Pair = stack[i].ID
				stack = stack[:i]
				break
			}
		}
	}
}

// Clone returns a deep copy that keeps IDs, pairing and bindings.
func (d *Document) Clone() *Document {
	c := &Document{Nodes: make([]*Node, 0, len(d.Nodes)), nextID: d.nextID}
	for _, n := range d.Nodes {
		if n == nil {
			continue
		}
		c.Nodes = append(c.Nodes, n.clone())
	}
	return c
}

// NextID is the ID the next new marker will get.
func (d *Document) NextID() int {
	return d.nextID
}

// Restore rebuilds a document from nodes that may already carry IDs, such
// as markers read back from canvas markup. Existing unique IDs are kept;
// missing or duplicate ones get fresh IDs.
func Restore(nodes ...*Node) *Document {
	return RestoreFrom(0, nodes...)
}

// RestoreFrom is Restore with fresh IDs starting no lower than next, so
// IDs of markers deleted from an earlier version are never reused.
func RestoreFrom(next int, nodes ...*Node) *Document {
	d := &Document{nextID: max(next, 0)}
	seen := make(map[int]bool)
	for _, n := range nodes {
		if n == nil || !n.IsMarker() || n.ID < 0 || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		if n.ID >= d.nextID {
			d.nextID = n.ID + 1
		}
	}

	claimed := make(map[int]bool, len(seen))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		switch {
		case !n.IsMarker():
			n.ID = NoID
		case n.ID >= 0 && !claimed[n.ID]:
			claimed[n.ID] = true
		default:
			n.ID = d.nextID
			d.nextID++
		}
		d.Nodes = append(d.Nodes, n)
	}
	d.Repair()
	return d
}
