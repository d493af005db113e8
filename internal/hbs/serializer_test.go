package hbs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/hbsbind/internal/ctxlog"
)

func intPtr(i int) *int { return &i }

func TestSerialize_RoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{name: "inline token", src: "<div>{{title}}</div>"},
		{name: "blocks", src: "{{#if a}}<b>{{a}}</b>{{else}}none{{/if}}{{#each xs}}{{this}}{{/each}}"},
		{name: "unbalanced", src: "{{/each}}{{#if x}}"},
		{name: "text only", src: "<p>plain</p>"},
		{name: "triple stash", src: "{{{html}}}"},
		{name: "stray braces", src: "a { b } {{}} c"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := ctxlog.Discard()
			assert.Equal(t, tc.src, Serialize(ctx, Tokenize(ctx, tc.src)))
		})
	}
}

func TestSerialize_PlaceholderRoundTrip(t *testing.T) {
	ctx := ctxlog.Discard()
	doc := Tokenize(ctx, "<p>x</p>{{}}")

	markers := doc.Markers()
	require.Len(t, markers, 1)
	assert.Equal(t, KindToken, markers[0].Kind)
	assert.Equal(t, "{{}}", markers[0].Raw)
	assert.Equal(t, "<p>x</p>{{}}", Serialize(ctx, doc))
}

func TestSerialize_BrochureRoundTrip(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("testdata", "brochure.hbs"))
	require.NoError(t, err)

	ctx := ctxlog.Discard()
	assert.Equal(t, string(src), Serialize(ctx, Tokenize(ctx, string(src))))
}

func TestSerialize_RangedEach(t *testing.T) {
	testCases := []struct {
		name     string
		rng      *Range
		expected string
	}{
		{name: "from and to", rng: &Range{From: intPtr(0), To: intPtr(1)}, expected: "{{#each (slice orders 0 1)}}{{id}}{{/each}}"},
		{name: "from only", rng: &Range{From: intPtr(2)}, expected: "{{#each (slice orders 2)}}{{id}}{{/each}}"},
		{name: "to only defaults from", rng: &Range{To: intPtr(3)}, expected: "{{#each (slice orders 0 3)}}{{id}}{{/each}}"},
		{name: "no range", rng: nil, expected: "{{#each orders}}{{id}}{{/each}}"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := ctxlog.Discard()
			doc := Tokenize(ctx, "{{#each items}}{{id}}{{/each}}")
			open := doc.Markers()[0]
			open.Raw = "{{#each orders}}"
			require.NoError(t, open.SetSource("orders"))
			require.NoError(t, open.SetRange(tc.rng))

			assert.Equal(t, tc.expected, Serialize(ctx, doc))
		})
	}
}

func TestSerialize_CloseIgnoresProcessed(t *testing.T) {
	ctx := ctxlog.Discard()
	doc := Tokenize(ctx, "{{#each a}}{{/each}}")
	closeNode := doc.Markers()[1]
	closeNode.Processed = true

	assert.Equal(t, "{{#each a}}{{/each}}", Serialize(ctx, doc))
	assert.ErrorIs(t, closeNode.SetSource("a"), ErrSourceNotAllowed)
	assert.ErrorIs(t, closeNode.SetRange(&Range{From: intPtr(1)}), ErrRangeNotAllowed)
}

func TestSetRange_OnlyOnEachOpen(t *testing.T) {
	ctx := ctxlog.Discard()
	doc := Tokenize(ctx, "{{#if a}}{{/if}}{{x}}")
	for _, n := range doc.Markers() {
		assert.ErrorIs(t, n.SetRange(&Range{To: intPtr(1)}), ErrRangeNotAllowed, n.Raw)
		assert.NoError(t, n.SetRange(nil))
	}
}

func TestSerialize_NilNodeIsSkipped(t *testing.T) {
	ctx := ctxlog.Discard()
	doc := Tokenize(ctx, "<a>{{x}}</a>")
	doc.Nodes = append(doc.Nodes[:1], append([]*Node{nil}, doc.Nodes[1:]...)...)

	assert.Equal(t, "<a>{{x}}</a>", Serialize(ctx, doc))
	assert.Equal(t, "", Serialize(ctx, nil))
}
