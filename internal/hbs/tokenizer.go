package hbs

import (
	"context"
	"regexp"
	"strings"

	"github.com/vk/hbsbind/internal/ctxlog"
)

// expressionRe matches one expression. Triple-stash is tried first so that
// {{{x}}} is consumed as a whole instead of leaving a stray brace behind.
var expressionRe = regexp.MustCompile(`\{\{\{[^}]*\}\}\}|\{\{[^}]*\}\}`)

// Tokenize converts a template into a Document in one left-to-right scan.
// Every match becomes exactly one marker and is consumed once; the text
// between matches is kept untouched.
func Tokenize(ctx context.Context, src string) *Document {
	logger := ctxlog.FromContext(ctx)

	doc := NewDocument(Scan(src)...)
	logger.Debug("Tokenized template.", "nodes", len(doc.Nodes), "markers", len(doc.Markers()))
	return doc
}

// Scan splits src into text and marker nodes without assigning IDs.
func Scan(src string) []*Node {
	var nodes []*Node
	last := 0
	for _, loc := range expressionRe.FindAllStringIndex(src, -1) {
		start, end := loc[0], loc[1]
		if start > last {
			nodes = append(nodes, NewText(src[last:start]))
		}
		nodes = append(nodes, NewMarker(src[start:end]))
		last = end
	}
	if last < len(src) {
		nodes = append(nodes, NewText(src[last:]))
	}
	return nodes
}

// Inner strips the delimiters and whitespace-control marks from a raw
// expression: "{{~#each items }}" becomes "#each items".
func Inner(raw string) string {
	s := raw
	switch {
	case strings.HasPrefix(s, "{{{") && strings.HasSuffix(s, "}}}") && len(s) >= 6:
		s = s[3 : len(s)-3]
	case strings.HasPrefix(s, "{{") && strings.HasSuffix(s, "}}") && len(s) >= 4:
		s = s[2 : len(s)-2]
	}
	s = strings.TrimPrefix(s, "~")
	s = strings.TrimSuffix(s, "~")
	return strings.TrimSpace(s)
}

// Argument returns what follows the helper name of a block open, or the
// whole inner expression of a token: "{{#each (slice a 0 1)}}" yields
// "(slice a 0 1)", "{{user.name}}" yields "user.name".
func Argument(raw string) string {
	inner := Inner(raw)
	if !strings.HasPrefix(inner, "#") {
		return inner
	}
	fields := strings.SplitN(inner[1:], " ", 2)
	if len(fields) < 2 {
		return ""
	}
	return strings.TrimSpace(fields[1])
}

func classify(raw string) (Kind, Helper) {
	inner := Inner(raw)
	if inner == "" || strings.HasPrefix(raw, "{{{") {
		return KindToken, HelperNone
	}

	var kind Kind
	switch inner[0] {
	case '#':
		kind = KindBlockOpen
	case '/':
		kind = KindBlockClose
	default:
		return KindToken, HelperNone
	}

	name := strings.Fields(inner[1:])
	if len(name) == 0 {
		return KindToken, HelperNone
	}
	switch Helper(name[0]) {
	case HelperIf:
		return kind, HelperIf
	case HelperEach:
		return kind, HelperEach
	}
	return KindToken, HelperNone
}
