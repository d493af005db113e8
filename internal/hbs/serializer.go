package hbs

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/hbsbind/internal/ctxlog"
)

// Serialize writes the document back into template text. A failure while
// emitting one node is logged and that node falls back to its raw text; the
// remaining nodes are still written.
func Serialize(ctx context.Context, doc *Document) string {
	logger := ctxlog.FromContext(ctx)
	if doc == nil {
		return ""
	}

	var b strings.Builder
	for i, n := range doc.Nodes {
		b.WriteString(emitSafe(ctx, i, n))
	}
	logger.Debug("Serialized document.", "nodes", len(doc.Nodes), "bytes", b.Len())
	return b.String()
}

func emitSafe(ctx context.Context, pos int, n *Node) (out string) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.FromContext(ctx).Error("Failed to serialize node, keeping raw text.", "position", pos, "panic", r)
			out = ""
			if n != nil {
				out = n.Raw
			}
		}
	}()
	return Emit(n)
}

// Emit returns the template text for a single node. Only a bound each
// block-open with a range differs from the raw expression.
func Emit(n *Node) string {
	if n.IsOpen(HelperEach) && n.source != "" && n.rng != nil {
		return SliceExpression(n.source, n.rng)
	}
	return n.Raw
}

// SliceExpression builds the ranged iteration open. From defaults to 0; To
// is inclusive and omitted when absent.
func SliceExpression(path string, r *Range) string {
	if r == nil {
		return fmt.Sprintf("{{#each %s}}", path)
	}
	if r.To == nil {
		return fmt.Sprintf("{{#each (slice %s %d)}}", path, r.FromOrZero())
	}
	return fmt.Sprintf("{{#each (slice %s %d %d)}}", path, r.FromOrZero(), *r.To)
}
