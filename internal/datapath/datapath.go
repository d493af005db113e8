package datapath

import (
	"reflect"
	"strconv"
	"strings"
)

// Separator splits a path into its segments.
const Separator = "."

// Split breaks a dotted path into segments. An empty path has no segments
// and addresses the root itself.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}

// Join builds a path from segments, skipping empty ones so that joining a
// child onto the root ("") yields just the child.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, Separator)
}

// First returns the leading segment of a path.
func First(path string) string {
	if i := strings.Index(path, Separator); i >= 0 {
		return path[:i]
	}
	return path
}

// Parent drops the last segment. The parent of a single segment is the root.
func Parent(path string) string {
	if i := strings.LastIndex(path, Separator); i >= 0 {
		return path[:i]
	}
	return ""
}

// Resolve walks root one segment at a time. It reports ok=false as soon as
// an intermediate value is nil or a segment cannot be followed, and it never
// panics: reflection failures on exotic values are turned into "no value".
func Resolve(root any, path string) (value any, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			value, ok = nil, false
		}
	}()

	current := root
	for _, segment := range Split(path) {
		if current == nil {
			return nil, false
		}
		next, found := step(current, segment)
		if !found {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Lookup is Resolve without the found flag; missing values come back as nil.
func Lookup(root any, path string) any {
	v, _ := Resolve(root, path)
	return v
}

func step(current any, segment string) (any, bool) {
	switch node := current.(type) {
	case map[string]any:
		v, ok := node[segment]
		return v, ok
	case []any:
		i, err := strconv.Atoi(segment)
		if err != nil || i < 0 || i >= len(node) {
			return nil, false
		}
		return node[i], true
	}

	rv := indirect(reflect.ValueOf(current))
	if !rv.IsValid() {
		return nil, false
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(segment).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(segment)
		if err != nil || i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	case reflect.Struct:
		f := rv.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, segment)
		})
		if !f.IsValid() || !f.CanInterface() {
			return nil, false
		}
		return f.Interface(), true
	}
	return nil, false
}

// indirect unwraps pointers and interfaces down to the concrete value.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// IsSequence reports whether v is a slice or array.
func IsSequence(v any) bool {
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return false
	}
	return rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array
}

// Len returns the element count of a sequence and 0 for anything else.
func Len(v any) int {
	if !IsSequence(v) {
		return 0
	}
	return indirect(reflect.ValueOf(v)).Len()
}
