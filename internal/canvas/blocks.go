package canvas

import (
	"fmt"
	"strings"

	"github.com/vk/hbsbind/internal/hbs"
)

// BlockKind names an insertable block template.
type BlockKind string

const (
	BlockVariable BlockKind = "variable"
	BlockIf       BlockKind = "if"
	BlockEach     BlockKind = "each"
)

// Placeholder is the expression of a freshly inserted variable.
const Placeholder = "{{}}"

var blockTemplates = map[BlockKind]string{
	BlockIf:   "{{#if condition}}<div>Conditional content</div>{{/if}}",
	BlockEach: "{{#each items}}<div>Item content here</div>{{/each}}",
}

// Label is the name shown in the block palette.
func (k BlockKind) Label() string {
	switch k {
	case BlockIf:
		return "If Block"
	case BlockEach:
		return "Each Block"
	default:
		return "Variable"
	}
}

// ParseBlockKind accepts the block names used on the command line.
func ParseBlockKind(s string) (BlockKind, error) {
	k := BlockKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case BlockVariable, BlockIf, BlockEach:
		return k, nil
	}
	return "", fmt.Errorf("unknown block %q (want variable, if or each)", s)
}

// Block returns fresh, unnumbered nodes for a block template.
func Block(kind BlockKind) ([]*hbs.Node, error) {
	if kind == BlockVariable {
		return []*hbs.Node{hbs.NewMarker(Placeholder)}, nil
	}
	src, ok := blockTemplates[kind]
	if !ok {
		return nil, fmt.Errorf("unknown block %q", kind)
	}
	return hbs.Scan(src), nil
}
