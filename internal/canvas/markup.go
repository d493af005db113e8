package canvas

import (
	"html"
	"strconv"
	"strings"

	"github.com/vk/hbsbind/internal/hbs"
)

// Attribute names and classes of marker elements.
const (
	AttrHBS       = "data-hbs"
	AttrID        = "data-hbs-id"
	AttrProcessed = "data-hbs-processed"
	AttrSource    = "data-source"
	AttrRangeFrom = "data-range-from"
	AttrRangeTo   = "data-range-to"

	ClassToken      = "hbs-token"
	ClassBlockOpen  = "hbs-block-open"
	ClassBlockClose = "hbs-block-close"
)

// Markup renders the document as editor HTML.
func Markup(doc *hbs.Document) string {
	var b strings.Builder
	var st htmlState
	for _, n := range doc.Nodes {
		if n == nil {
			continue
		}
		if !n.IsMarker() {
			b.WriteString(n.Raw)
			st.feed(n.Raw)
			continue
		}
		if st.inTag || st.rawElem != "" {
			b.WriteString(n.Raw)
			continue
		}
		writeMarker(&b, n)
	}
	return b.String()
}

func writeMarker(b *strings.Builder, n *hbs.Node) {
	b.WriteString(`<span`)
	writeAttr(b, AttrHBS, n.Raw)
	writeAttr(b, AttrID, strconv.Itoa(n.ID))
	writeAttr(b, "class", className(n.Kind))
	if n.Processed {
		writeAttr(b, AttrProcessed, "true")
	}
	if src := n.Source(); src != "" {
		writeAttr(b, AttrSource, src)
	}
	if r := n.Range(); r != nil {
		if r.From != nil {
			writeAttr(b, AttrRangeFrom, strconv.Itoa(*r.From))
		}
		if r.To != nil {
			writeAttr(b, AttrRangeTo, strconv.Itoa(*r.To))
		}
	}
	b.WriteString(">")
	b.WriteString(html.EscapeString(n.Content))
	b.WriteString("</span>")
}

func writeAttr(b *strings.Builder, name, value string) {
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteString(`"`)
}

func className(k hbs.Kind) string {
	switch k {
	case hbs.KindBlockOpen:
		return ClassBlockOpen
	case hbs.KindBlockClose:
		return ClassBlockClose
	default:
		return ClassToken
	}
}

// rawTextElements hold text the HTML tokenizer never parses as tags.
var rawTextElements = map[string]bool{"style": true, "script": true, "textarea": true, "title": true}

// htmlState follows template text just far enough to know whether the
// next marker lands inside a tag or inside a raw-text element.
type htmlState struct {
	inTag   bool
	quote   byte
	tagName strings.Builder
	naming  bool
	closing bool
	rawElem string
}

func (s *htmlState) feed(text string) {
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case s.inTag && s.quote != 0:
			if c == s.quote {
				s.quote = 0
			}
		case s.inTag:
			s.inTagByte(c)
		case c == '<' && i+1 < len(text) && isTagStart(text[i+1]):
			s.inTag = true
			s.naming = true
			s.closing = text[i+1] == '/'
			s.tagName.Reset()
			if s.closing {
				i++
			}
		}
	}
}

func (s *htmlState) inTagByte(c byte) {
	switch {
	case c == '>':
		s.inTag = false
		name := strings.ToLower(s.tagName.String())
		switch {
		case s.rawElem != "" && s.closing && name == s.rawElem:
			s.rawElem = ""
		case s.rawElem == "" && !s.closing && rawTextElements[name]:
			s.rawElem = name
		}
	case s.rawElem != "" && !s.closing:
		// A '<' inside raw text that is not the closing tag.
		s.inTag = false
	case c == '"' || c == '\'':
		s.naming = false
		s.quote = c
	case s.naming && (isLetter(c) || (c >= '0' && c <= '9') || c == '-'):
		s.tagName.WriteByte(c)
	default:
		s.naming = false
	}
}

func isTagStart(c byte) bool {
	return isLetter(c) || c == '/' || c == '!'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
