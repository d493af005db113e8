package hbs

import (
	"fmt"
	"regexp"
	"strings"
)

// IssueCode identifies what Check found wrong with a marker.
type IssueCode string

const (
	IssueUnpairedOpen     IssueCode = "UNPAIRED_OPEN"
	IssueUnpairedClose    IssueCode = "UNPAIRED_CLOSE"
	IssueEmptyPlaceholder IssueCode = "EMPTY_PLACEHOLDER"
)

// Issue is one problem found in a document.
type Issue struct {
	ID      int
	Raw     string
	Code    IssueCode
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("marker %d %s: %s", i.ID, i.Raw, i.Message)
}

// Check reports block markers without a partner and placeholders that were
// inserted but never bound.
func Check(doc *Document) []Issue {
	var issues []Issue
	for _, n := range doc.Markers() {
		switch {
		case n.Kind == KindBlockOpen && n.Pair == NoID:
			issues = append(issues, Issue{ID: n.ID, Raw: n.Raw, Code: IssueUnpairedOpen,
				Message: fmt.Sprintf("missing {{/%s}} for this block", n.Helper)})
		case n.Kind == KindBlockClose && n.Pair == NoID:
			issues = append(issues, Issue{ID: n.ID, Raw: n.Raw, Code: IssueUnpairedClose,
				Message: fmt.Sprintf("no open {{#%s}} matches this close", n.Helper)})
		case n.Kind == KindToken && Inner(n.Raw) == "":
			issues = append(issues, Issue{ID: n.ID, Raw: n.Raw, Code: IssueEmptyPlaceholder,
				Message: "placeholder is not bound to a path"})
		}
	}
	return issues
}

// NeedsBinding reports whether a marker is a candidate for the explorer:
// tokens, if and each opens that have not been bound yet.
func NeedsBinding(n *Node) bool {
	if n == nil || n.Processed {
		return false
	}
	return n.Kind == KindToken || n.Kind == KindBlockOpen
}

var simplePathRe = regexp.MustCompile(`^[A-Za-z_$][\w$-]*(\.[\w$-]+)*$`)

// IsSimplePath reports whether expr is a plain dotted data path rather than
// a helper call, a literal or a keyword.
func IsSimplePath(expr string) bool {
	switch expr {
	case "this", "else", "true", "false", "null", "undefined":
		return false
	}
	return simplePathRe.MatchString(expr)
}

// Reference is a data path used by a marker.
type Reference struct {
	ID   int
	Path string
}

// References lists the simple paths used outside every each block. Paths
// inside an each resolve against the current element, so only the each's
// own argument is reported for it.
func References(doc *Document) []Reference {
	var refs []Reference
	depth := 0
	for _, n := range doc.Markers() {
		switch n.Kind {
		case KindBlockClose:
			if n.Helper == HelperEach && n.Pair != NoID && depth > 0 {
				depth--
			}
			continue
		case KindBlockOpen:
			if depth == 0 {
				if p := referencePath(Argument(n.Raw)); p != "" {
					refs = append(refs, Reference{ID: n.ID, Path: p})
				}
			}
			if n.Helper == HelperEach && n.Pair != NoID {
				depth++
			}
		case KindToken:
			if depth == 0 {
				if p := referencePath(Inner(n.Raw)); p != "" {
					refs = append(refs, Reference{ID: n.ID, Path: p})
				}
			}
		}
	}
	return refs
}

// referencePath extracts the data path of an argument, looking through the
// slice helper so "(slice orders 0 1)" refers to "orders".
func referencePath(arg string) string {
	if strings.HasPrefix(arg, "(") && strings.HasSuffix(arg, ")") {
		fields := strings.Fields(arg[1 : len(arg)-1])
		if len(fields) >= 2 && fields[0] == "slice" {
			arg = fields[1]
		}
	}
	if IsSimplePath(arg) {
		return arg
	}
	return ""
}

// Bindable reports whether a binding may replace the marker's expression:
// if and each opens, and tokens that are plain values or empty placeholders.
// Else, comments, partials and other helper calls are left alone.
func Bindable(n *Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case KindBlockOpen:
		return true
	case KindToken:
		inner := Inner(n.Raw)
		if inner == "" {
			return true
		}
		if inner == "else" || strings.ContainsAny(inner[:1], "#/!>^") {
			return false
		}
		return !strings.Contains(inner, " ")
	}
	return false
}
