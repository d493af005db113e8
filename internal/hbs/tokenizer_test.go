package hbs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/hbsbind/internal/ctxlog"
)

// shape is a comparable summary of a node for go-cmp.
type shape struct {
	Kind   Kind
	Helper Helper
	Raw    string
	Paired bool
}

func shapes(doc *Document) []shape {
	out := make([]shape, 0, len(doc.Nodes))
	for _, n := range doc.Nodes {
		out = append(out, shape{Kind: n.Kind, Helper: n.Helper, Raw: n.Raw, Paired: n.Pair != NoID})
	}
	return out
}

func TestTokenize(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		expected []shape
	}{
		{
			name: "single inline token",
			src:  "<div>{{title}}</div>",
			expected: []shape{
				{Kind: KindText, Raw: "<div>"},
				{Kind: KindToken, Raw: "{{title}}"},
				{Kind: KindText, Raw: "</div>"},
			},
		},
		{
			name: "each block",
			src:  "{{#each items}}<li>{{name}}</li>{{/each}}",
			expected: []shape{
				{Kind: KindBlockOpen, Helper: HelperEach, Raw: "{{#each items}}", Paired: true},
				{Kind: KindText, Raw: "<li>"},
				{Kind: KindToken, Raw: "{{name}}"},
				{Kind: KindText, Raw: "</li>"},
				{Kind: KindBlockClose, Helper: HelperEach, Raw: "{{/each}}", Paired: true},
			},
		},
		{
			name: "if with else",
			src:  "{{#if a}}x{{else}}y{{/if}}",
			expected: []shape{
				{Kind: KindBlockOpen, Helper: HelperIf, Raw: "{{#if a}}", Paired: true},
				{Kind: KindText, Raw: "x"},
				{Kind: KindToken, Raw: "{{else}}"},
				{Kind: KindText, Raw: "y"},
				{Kind: KindBlockClose, Helper: HelperIf, Raw: "{{/if}}", Paired: true},
			},
		},
		{
			name: "triple stash is one token",
			src:  "<p>{{{detail}}}</p>",
			expected: []shape{
				{Kind: KindText, Raw: "<p>"},
				{Kind: KindToken, Raw: "{{{detail}}}"},
				{Kind: KindText, Raw: "</p>"},
			},
		},
		{
			name: "unsupported block helper is an inline token",
			src:  "{{#with a}}{{/with}}",
			expected: []shape{
				{Kind: KindToken, Raw: "{{#with a}}"},
				{Kind: KindToken, Raw: "{{/with}}"},
			},
		},
		{
			name: "adjacent markers are consumed once",
			src:  "{{a}}{{b}}",
			expected: []shape{
				{Kind: KindToken, Raw: "{{a}}"},
				{Kind: KindToken, Raw: "{{b}}"},
			},
		},
		{
			name: "empty placeholder",
			src:  "a {{}} b",
			expected: []shape{
				{Kind: KindText, Raw: "a "},
				{Kind: KindToken, Raw: "{{}}"},
				{Kind: KindText, Raw: " b"},
			},
		},
		{
			name:     "empty template",
			src:      "",
			expected: []shape{},
		},
		{
			name: "whitespace control",
			src:  "{{~#each items~}}{{~/each}}",
			expected: []shape{
				{Kind: KindBlockOpen, Helper: HelperEach, Raw: "{{~#each items~}}", Paired: true},
				{Kind: KindBlockClose, Helper: HelperEach, Raw: "{{~/each}}", Paired: true},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc := Tokenize(ctxlog.Discard(), tc.src)
			if diff := cmp.Diff(tc.expected, shapes(doc)); diff != "" {
				t.Errorf("Tokenize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenize_NestedPairing(t *testing.T) {
	doc := Tokenize(ctxlog.Discard(), "{{#each a}}{{#if b}}{{#each c}}x{{/each}}{{/if}}{{/each}}")
	m := doc.Markers()
	require.Len(t, m, 6)

	assert.Equal(t, m[5].ID, m[0].Pair)
	assert.Equal(t, m[4].ID, m[1].Pair)
	assert.Equal(t, m[3].ID, m[2].Pair)
	assert.Equal(t, m[0].ID, m[5].Pair)

	pair, ok := doc.Pair(m[0].ID)
	require.True(t, ok)
	assert.Same(t, m[5], pair)
}

func TestTokenize_MismatchedCloseStaysUnpaired(t *testing.T) {
	doc := Tokenize(ctxlog.Discard(), "{{#if a}}{{/each}}{{/if}}")
	m := doc.Markers()
	require.Len(t, m, 3)

	assert.Equal(t, NoID, m[1].Pair)
	assert.Equal(t, m[2].ID, m[0].Pair)
}

func TestTokenize_CrossedBlocks(t *testing.T) {
	doc := Tokenize(ctxlog.Discard(), "{{#if a}}{{#each b}}{{/if}}{{/each}}")
	m := doc.Markers()
	require.Len(t, m, 4)

	// The if close pops the each open above it.
	assert.Equal(t, m[2].ID, m[0].Pair)
	assert.Equal(t, NoID, m[1].Pair)
	assert.Equal(t, NoID, m[3].Pair)
}

func TestTokenize_FreshMarkersAreUnbound(t *testing.T) {
	doc := Tokenize(ctxlog.Discard(), "{{#each orders}}{{/each}}")
	for _, n := range doc.Markers() {
		assert.Empty(t, n.Source())
		assert.Nil(t, n.Range())
		assert.False(t, n.Processed)
		assert.Equal(t, n.Raw, n.Content)
	}
}

func TestInnerAndArgument(t *testing.T) {
	assert.Equal(t, "#each items", Inner("{{~#each items }}"))
	assert.Equal(t, "detail", Inner("{{{detail}}}"))
	assert.Equal(t, "", Inner("{{}}"))
	assert.Equal(t, "items", Argument("{{#each items}}"))
	assert.Equal(t, "(slice a 0 1)", Argument("{{#each (slice a 0 1)}}"))
	assert.Equal(t, "user.name", Argument("{{user.name}}"))
	assert.Equal(t, "", Argument("{{#if}}"))
}

func TestTokenize_Brochure(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("testdata", "brochure.hbs"))
	require.NoError(t, err)

	doc := Tokenize(ctxlog.Discard(), string(src))
	markers := doc.Markers()
	require.Len(t, markers, 58)

	opens, closes := 0, 0
	for _, n := range markers {
		switch n.Kind {
		case KindBlockOpen:
			opens++
			assert.NotEqual(t, NoID, n.Pair, "open %s should be paired", n.Raw)
		case KindBlockClose:
			closes++
			assert.NotEqual(t, NoID, n.Pair, "close %s should be paired", n.Raw)
		}
	}
	assert.Equal(t, 13, opens)
	assert.Equal(t, 13, closes)
	assert.Empty(t, Check(doc))
}
