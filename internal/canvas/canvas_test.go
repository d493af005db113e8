package canvas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/hbsbind/internal/ctxlog"
	"github.com/vk/hbsbind/internal/hbs"
)

func intPtr(i int) *int { return &i }

func TestMarkup(t *testing.T) {
	ctx := ctxlog.Discard()
	doc := hbs.Tokenize(ctx, "<div>{{title}}</div>")
	n := doc.Markers()[0]
	n.Content = "Hello & bye"
	n.Processed = true
	require.NoError(t, n.SetSource("title"))

	expected := `<div><span data-hbs="{{title}}" data-hbs-id="0" class="hbs-token" data-hbs-processed="true" data-source="title">Hello &amp; bye</span></div>`
	assert.Equal(t, expected, Markup(doc))
}

func TestMarkup_MarkersInsideTagsStayBare(t *testing.T) {
	ctx := ctxlog.Discard()
	src := `<a href="{{url}}" title='{{t}}'>{{label}}</a><style>.x{color:red}{{css}}</style>{{after}}`
	out := Markup(hbs.Tokenize(ctx, src))

	assert.Contains(t, out, `<a href="{{url}}" title='{{t}}'>`)
	assert.Contains(t, out, `<style>.x{color:red}{{css}}</style>`)
	assert.Contains(t, out, `data-hbs="{{label}}"`)
	assert.Contains(t, out, `data-hbs="{{after}}"`)
}

func TestRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{name: "inline", src: "<div>{{title}}</div>"},
		{name: "blocks", src: "<ul>{{#each items}}<li>{{name}}</li>{{/each}}</ul>{{#if a}}x{{else}}y{{/if}}"},
		{name: "attributes", src: `<img src="{{src}}" alt="a > b">{{caption}}`},
		{name: "entities", src: "<p>&copy; {{year}} &amp; co</p>"},
		{name: "triple stash", src: "<div>{{{html}}}</div>"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := ctxlog.Discard()
			doc, err := Parse(ctx, Markup(hbs.Tokenize(ctx, tc.src)))
			require.NoError(t, err)
			assert.Equal(t, tc.src, hbs.Serialize(ctx, doc))
		})
	}
}

func TestRoundTrip_Brochure(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("..", "hbs", "testdata", "brochure.hbs"))
	require.NoError(t, err)

	ctx := ctxlog.Discard()
	original := hbs.Tokenize(ctx, string(src))
	doc, err := Parse(ctx, Markup(original))
	require.NoError(t, err)

	assert.Equal(t, string(src), hbs.Serialize(ctx, doc))
	require.Len(t, doc.Markers(), len(original.Markers()))
	for i, n := range doc.Markers() {
		assert.Equal(t, original.Markers()[i].ID, n.ID)
		assert.Equal(t, original.Markers()[i].Pair, n.Pair)
	}
}

func TestRoundTrip_KeepsBindings(t *testing.T) {
	ctx := ctxlog.Discard()
	doc := hbs.Tokenize(ctx, "{{#each orders}}{{id}}{{/each}}")
	open := doc.Markers()[0]
	require.NoError(t, open.SetSource("orders"))
	require.NoError(t, open.SetRange(&hbs.Range{From: intPtr(1), To: intPtr(2)}))
	open.Processed = true
	doc.Markers()[2].Processed = true

	back, err := Parse(ctx, Markup(doc))
	require.NoError(t, err)

	m := back.Markers()
	require.Len(t, m, 3)
	assert.Equal(t, "orders", m[0].Source())
	assert.Equal(t, "1 2", m[0].Range().String())
	assert.True(t, m[0].Processed)
	assert.True(t, m[2].Processed)
	assert.Equal(t, m[2].ID, m[0].Pair)
	assert.Equal(t, "{{#each (slice orders 1 2)}}{{id}}{{/each}}", hbs.Serialize(ctx, back))
}

func TestParse_EditorChanges(t *testing.T) {
	ctx := ctxlog.Discard()
	markup := `<p><span data-hbs="{{name}}" data-hbs-id="4" class="hbs-token">Ro<b>han</b></span> typed {{extra}}</p>`

	doc, err := Parse(ctx, markup)
	require.NoError(t, err)

	m := doc.Markers()
	require.Len(t, m, 2)
	assert.Equal(t, 4, m[0].ID)
	assert.Equal(t, "Rohan", m[0].Content)
	assert.Equal(t, "{{extra}}", m[1].Raw)
	assert.Equal(t, 5, m[1].ID)
	assert.Equal(t, "<p>{{name}} typed {{extra}}</p>", hbs.Serialize(ctx, doc))
}

func TestReparse_FreshIDsAfterPrevious(t *testing.T) {
	ctx := ctxlog.Discard()
	prev := hbs.Tokenize(ctx, "<p>{{a}}{{b}}</p>")

	doc, err := Reparse(ctx, prev, "<p>{{c}}</p>")
	require.NoError(t, err)

	m := doc.Markers()
	require.Len(t, m, 1)
	assert.Equal(t, 2, m[0].ID)
}

func TestParse_MalformedMarkerDegrades(t *testing.T) {
	testCases := []struct {
		name   string
		markup string
	}{
		{name: "bad id", markup: `<span data-hbs="{{#each xs}}" data-hbs-id="x">e</span>`},
		{name: "bad range", markup: `<span data-hbs="{{#each xs}}" data-hbs-id="1" data-range-from="one">e</span>`},
		{name: "inverted range", markup: `<span data-hbs="{{#each xs}}" data-range-from="3" data-range-to="1">e</span>`},
		{name: "range on token", markup: `<span data-hbs="{{#if xs}}" data-range-to="1">e</span>`},
		{name: "source on close", markup: `<span data-hbs="{{/each}}" data-source="xs">e</span>`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := ctxlog.Discard()
			doc, err := Parse(ctx, tc.markup+"<i>after</i>")
			require.NoError(t, err)

			m := doc.Markers()
			require.Len(t, m, 1)
			assert.Empty(t, m[0].Source())
			assert.Nil(t, m[0].Range())
			assert.Equal(t, m[0].Raw, m[0].Content)
			assert.Contains(t, hbs.Serialize(ctx, doc), "<i>after</i>")
		})
	}
}

func TestParse_UnclosedAndSelfClosing(t *testing.T) {
	ctx := ctxlog.Discard()

	doc, err := Parse(ctx, `<div><span data-hbs="{{a}}" />x</div>`)
	require.NoError(t, err)
	assert.Equal(t, "<div>{{a}}x</div>", hbs.Serialize(ctx, doc))

	doc, err = Parse(ctx, `<span data-hbs="{{b}}">open`)
	require.NoError(t, err)
	require.Len(t, doc.Markers(), 1)
	assert.Equal(t, "open", doc.Markers()[0].Content)
}

func TestParse_PlainSpansPassThrough(t *testing.T) {
	ctx := ctxlog.Discard()
	src := `<span class="x">a</span><span>b</span>`
	doc, err := Parse(ctx, src)
	require.NoError(t, err)
	assert.Empty(t, doc.Markers())
	assert.Equal(t, src, hbs.Serialize(ctx, doc))
}

func TestBlock(t *testing.T) {
	testCases := []struct {
		kind     BlockKind
		expected string
		markers  int
	}{
		{kind: BlockVariable, expected: "{{}}", markers: 1},
		{kind: BlockIf, expected: "{{#if condition}}<div>Conditional content</div>{{/if}}", markers: 2},
		{kind: BlockEach, expected: "{{#each items}}<div>Item content here</div>{{/each}}", markers: 2},
	}

	for _, tc := range testCases {
		t.Run(string(tc.kind), func(t *testing.T) {
			nodes, err := Block(tc.kind)
			require.NoError(t, err)
			doc := hbs.NewDocument(nodes...)
			assert.Len(t, doc.Markers(), tc.markers)
			assert.Equal(t, tc.expected, hbs.Serialize(ctxlog.Discard(), doc))
		})
	}

	_, err := Block("table")
	assert.Error(t, err)

	k, err := ParseBlockKind(" Each ")
	require.NoError(t, err)
	assert.Equal(t, BlockEach, k)
	assert.Equal(t, "Each Block", k.Label())
	_, err = ParseBlockKind("grid")
	assert.Error(t, err)
}
