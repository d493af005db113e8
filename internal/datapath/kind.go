package datapath

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"unicode/utf8"
)

// Kind classifies a value the way the explorer badges it.
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindObject
	KindArray
	KindString
	KindNumber
	KindBoolean
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Badge is the short type label shown on a card.
func (k Kind) Badge() string {
	switch k {
	case KindObject:
		return "Object"
	case KindArray:
		return "Array"
	default:
		return "Value"
	}
}

// IsContainer reports whether values of this kind can be drilled into.
func (k Kind) IsContainer() bool {
	return k == KindObject || k == KindArray
}

// KindOf classifies a resolved value. Use KindUndefined for values that did
// not resolve at all; KindOf(nil) is KindNull.
func KindOf(v any) Kind {
	if v == nil {
		return KindNull
	}
	switch v.(type) {
	case string:
		return KindString
	case bool:
		return KindBoolean
	case map[string]any:
		return KindObject
	case []any:
		return KindArray
	}

	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return KindNull
	}
	switch rv.Kind() {
	case reflect.String:
		return KindString
	case reflect.Bool:
		return KindBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return KindNumber
	case reflect.Slice, reflect.Array:
		return KindArray
	case reflect.Map, reflect.Struct:
		return KindObject
	}
	return KindObject
}

// Truthy applies JavaScript truthiness to a raw value: nil, false, 0, NaN and
// the empty string are falsy; everything else, empty collections included,
// is truthy.
func Truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

// PreviewLimit is the maximum rune length of a preview string.
const PreviewLimit = 80

// Stringify renders a value for display: strings as-is, numbers without
// trailing zeros, composites as compact JSON.
func Stringify(v any) string {
	switch KindOf(v) {
	case KindNull:
		return "null"
	case KindString:
		return indirect(reflect.ValueOf(v)).String()
	case KindBoolean:
		return strconv.FormatBool(indirect(reflect.ValueOf(v)).Bool())
	case KindNumber:
		return formatNumber(indirect(reflect.ValueOf(v)))
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func formatNumber(rv reflect.Value) string {
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	default:
		return strconv.FormatInt(rv.Int(), 10)
	}
}

// Ellipsize cuts s to at most limit runes, ending in "…" when cut.
func Ellipsize(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	keep := limit - 3
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + "…"
}

// Preview is Stringify bounded to PreviewLimit.
func Preview(v any) string {
	return Ellipsize(Stringify(v), PreviewLimit)
}

// Child is one enumerable member of a container.
type Child struct {
	Label string
	Path  string
	Value any
	Kind  Kind
}

// Children enumerates the members of node: every key of an object, sorted,
// or the first limit elements of an array (limit <= 0 means all). base is
// the path of node itself.
func Children(node any, base string, limit int) []Child {
	rv := indirect(reflect.ValueOf(node))
	if !rv.IsValid() {
		return nil
	}

	var out []Child
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface()
			out = append(out, Child{Label: k, Path: Join(base, k), Value: v, Kind: KindOf(v)})
		}
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		if limit > 0 && n > limit {
			n = limit
		}
		for i := 0; i < n; i++ {
			v := rv.Index(i).Interface()
			idx := strconv.Itoa(i)
			out = append(out, Child{Label: "[" + idx + "]", Path: Join(base, idx), Value: v, Kind: KindOf(v)})
		}
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			f := rv.Type().Field(i)
			if !f.IsExported() {
				continue
			}
			v := rv.Field(i).Interface()
			out = append(out, Child{Label: f.Name, Path: Join(base, f.Name), Value: v, Kind: KindOf(v)})
		}
	}
	return out
}
