package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/hbsbind/internal/ctxlog"
)

func TestSlice(t *testing.T) {
	seq := []any{10, 20, 30, 40, 50}

	testCases := []struct {
		name     string
		items    any
		bounds   []any
		expected []any
	}{
		{name: "inclusive upper bound", items: seq, bounds: []any{1, 3}, expected: []any{20, 30, 40}},
		{name: "tail", items: seq, bounds: []any{2}, expected: []any{30, 40, 50}},
		{name: "to past end", items: seq, bounds: []any{3, 99}, expected: []any{40, 50}},
		{name: "negative from", items: seq, bounds: []any{-2}, expected: []any{40, 50}},
		{name: "to before from", items: seq, bounds: []any{3, 1}, expected: []any{}},
		{name: "string bounds", items: seq, bounds: []any{"0", "1"}, expected: []any{10, 20}},
		{name: "float bounds", items: seq, bounds: []any{1.0, 2.0}, expected: []any{20, 30}},
		{name: "typed slice", items: []string{"a", "b", "c"}, bounds: []any{1}, expected: []any{"b", "c"}},
		{name: "not a sequence", items: "Hello", bounds: []any{0}, expected: []any{}},
		{name: "nil", items: nil, bounds: []any{0, 1}, expected: []any{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Slice(tc.items, tc.bounds...))
		})
	}
}

func TestEngine_Render(t *testing.T) {
	data := map[string]any{
		"title":  "Hello",
		"orders": []any{map[string]any{"id": 1}, map[string]any{"id": 2}, map[string]any{"id": 3}},
		"flag":   false,
	}

	testCases := []struct {
		name     string
		src      string
		expected string
	}{
		{name: "inline", src: "<div>{{title}}</div>", expected: "<div>Hello</div>"},
		{name: "ranged each", src: "{{#each (slice orders 0 1)}}[{{id}}]{{/each}}", expected: "[1][2]"},
		{name: "tail each", src: "{{#each (slice orders 2)}}[{{id}}]{{/each}}", expected: "[3]"},
		{name: "if else", src: "{{#if flag}}y{{else}}n{{/if}}", expected: "n"},
		{name: "missing path is empty", src: "<{{nope.deeper}}>", expected: "<>"},
		{name: "escapes html", src: "{{v}}", expected: "&lt;b&gt;"},
	}
	data["v"] = "<b>"

	e := New()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := e.Render(ctxlog.Discard(), tc.src, data)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, out)
		})
	}
}

func TestEngine_RenderErrors(t *testing.T) {
	e := New()

	_, err := e.Render(ctxlog.Discard(), "{{#each items}}", nil)
	require.Error(t, err)
	var rerr *Error
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "parse", rerr.Op)
	assert.Equal(t, "{{#each items}}", rerr.Source)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestEngine_Evaluate(t *testing.T) {
	e := New()
	data := map[string]any{"user": map[string]any{"name": "Rohan"}, "n": 2.5}

	out, err := e.Evaluate(ctxlog.Discard(), "user.name", data)
	require.NoError(t, err)
	assert.Equal(t, "Rohan", out)

	out, err = e.Evaluate(ctxlog.Discard(), "n", data)
	require.NoError(t, err)
	assert.Equal(t, "2.5", out)

	_, err = e.Evaluate(ctxlog.Discard(), "#each user", data)
	var rerr *Error
	assert.ErrorAs(t, err, &rerr)
}
