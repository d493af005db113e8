package hcl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/hbsbind/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	"gopkg.in/yaml.v3"
)

// ctyToNative converts a cty.Value into the plain shapes the rest of the
// program works with: map[string]any, []any, string, float64, bool, nil.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		var b bool
		if err := gocty.FromCtyValue(v, &b); err != nil {
			return nil, fmt.Errorf("could not convert bool: %w", err)
		}
		return b, nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, el := it.Element()
			native, err := ctyToNative(el)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, el := it.Element()
			k := key.AsString()
			native, err := ctyToNative(el)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", k, err)
			}
			out[k] = native
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
}

// readDataFile decodes a JSON or YAML file into plain Go values.
func readDataFile(ctx context.Context, path string) (any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file %s: %w", path, err)
	}

	var out any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(b, &out); err != nil {
			return nil, fmt.Errorf("failed to decode JSON data file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &out); err != nil {
			return nil, fmt.Errorf("failed to decode YAML data file %s: %w", path, err)
		}
		out = normalizeYAML(out)
	default:
		return nil, fmt.Errorf("unsupported data file %s: want .json, .yaml or .yml", path)
	}

	ctxlog.FromContext(ctx).Debug("Data file read.", "path", path, "bytes", len(b))
	return out, nil
}

// normalizeYAML rewrites maps with non-string keys so that paths can
// address every mapping by name.
func normalizeYAML(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, el := range x {
			x[k] = normalizeYAML(el)
		}
		return x
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, el := range x {
			out[fmt.Sprint(k)] = normalizeYAML(el)
		}
		return out
	case []any:
		for i, el := range x {
			x[i] = normalizeYAML(el)
		}
		return x
	}
	return v
}
