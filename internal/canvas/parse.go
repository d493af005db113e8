package canvas

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vk/hbsbind/internal/ctxlog"
	"github.com/vk/hbsbind/internal/hbs"
	"golang.org/x/net/html"
)

// Parse reads editor HTML back into a document. Everything that is not a
// marker element is kept byte for byte; expressions typed directly into
// that text become new markers. A marker with malformed attributes is
// logged and kept as a fresh, unbound marker.
func Parse(ctx context.Context, markup string) (*hbs.Document, error) {
	return parse(ctx, markup, 0)
}

// Reparse parses markup edited from prev. Markers that lost their IDs get
// ones prev never handed out.
func Reparse(ctx context.Context, prev *hbs.Document, markup string) (*hbs.Document, error) {
	next := 0
	if prev != nil {
		next = prev.NextID()
	}
	return parse(ctx, markup, next)
}

func parse(ctx context.Context, markup string, next int) (*hbs.Document, error) {
	logger := ctxlog.FromContext(ctx)

	var (
		nodes []*hbs.Node
		text  strings.Builder
	)
	flush := func() {
		if text.Len() > 0 {
			nodes = append(nodes, hbs.Scan(text.String())...)
			text.Reset()
		}
	}

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read canvas markup: %w", z.Err())
		}

		// TagName and TagAttr rewrite the token buffer, so copy first.
		raw := string(z.Raw())
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			text.WriteString(raw)
			continue
		}

		name, hasAttr := z.TagName()
		if string(name) != "span" || !hasAttr {
			text.WriteString(raw)
			continue
		}
		attrs := readAttrs(z)
		if _, ok := attrs[AttrHBS]; !ok {
			text.WriteString(raw)
			continue
		}

		flush()
		content := ""
		if tt == html.StartTagToken {
			var complete bool
			content, complete = readContent(z)
			if !complete {
				logger.Warn("Marker element is not closed.", "raw", attrs[AttrHBS])
			}
		}
		nodes = append(nodes, markerFromAttrs(ctx, attrs, content))
	}
	flush()

	doc := hbs.RestoreFrom(next, nodes...)
	logger.Debug("Parsed canvas markup.", "nodes", len(doc.Nodes), "markers", len(doc.Markers()))
	return doc, nil
}

func readAttrs(z *html.Tokenizer) map[string]string {
	attrs := make(map[string]string)
	for {
		key, val, more := z.TagAttr()
		attrs[string(key)] = string(val)
		if !more {
			return attrs
		}
	}
}

// readContent collects the text of a marker element up to its matching
// close tag. It reports false when the input ends first.
func readContent(z *html.Tokenizer) (string, bool) {
	var b strings.Builder
	depth := 1
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String(), false
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken:
			if name, _ := z.TagName(); string(name) == "span" {
				depth++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "span" {
				depth--
				if depth == 0 {
					return b.String(), true
				}
			}
		}
	}
}

func markerFromAttrs(ctx context.Context, attrs map[string]string, content string) (n *hbs.Node) {
	raw := attrs[AttrHBS]
	defer func() {
		if r := recover(); r != nil {
			ctxlog.FromContext(ctx).Error("Failed to read marker element, keeping bare expression.", "raw", raw, "panic", r)
			n = hbs.NewMarker(raw)
		}
	}()

	n, err := decodeMarker(attrs, content)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Malformed marker attributes, keeping bare expression.", "raw", raw, "error", err)
		return hbs.NewMarker(raw)
	}
	return n
}

func decodeMarker(attrs map[string]string, content string) (*hbs.Node, error) {
	n := hbs.NewMarker(attrs[AttrHBS])
	if content != "" {
		n.Content = content
	}

	if v, ok := attrs[AttrID]; ok {
		id, err := strconv.Atoi(v)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("invalid %s %q", AttrID, v)
		}
		n.ID = id
	}
	n.Processed = attrs[AttrProcessed] == "true"

	if src := attrs[AttrSource]; src != "" {
		if err := n.SetSource(src); err != nil {
			return nil, err
		}
	}

	from, err := optionalInt(attrs, AttrRangeFrom)
	if err != nil {
		return nil, err
	}
	to, err := optionalInt(attrs, AttrRangeTo)
	if err != nil {
		return nil, err
	}
	if err := n.SetRange(hbs.NewRange(from, to)); err != nil {
		return nil, err
	}
	return n, nil
}

func optionalInt(attrs map[string]string, name string) (*int, error) {
	v, ok := attrs[name]
	if !ok || v == "" {
		return nil, nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	return &i, nil
}
