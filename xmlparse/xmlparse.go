// Package xmlparse is the strict-XML collaborator: a namespaceless
// encoding/xml-decoder-driven parse into the same dom.Node model htmlparse
// produces, and a matching serializer. Comments, processing instructions
// and directives are dropped. Unlike htmlparse, it performs no
// HTML-specific repair (no style/span/font stripping, no list/table
// fixups) and requires well-formed input.
package xmlparse

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/christian-oudard/htmltreediff/dom"
	"github.com/christian-oudard/htmltreediff/herr"
)

// Parse strictly parses input as XML, returning a dom.Node tree rooted at
// a synthetic <body> element holding the parsed content, the same root
// convention htmlparse uses, so the rest of the pipeline never cares which
// parser produced a tree. Fragment input with several top-level elements
// is accepted. Namespace URIs are discarded; only the local name of each
// element and attribute is kept, per the "namespaceless" contract.
func Parse(input string) (*dom.Node, error) {
	dec := xml.NewDecoder(strings.NewReader(input))
	dec.Strict = true

	root := dom.NewElement("body")
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &herr.ParseError{Cause: err, Offset: int(dec.InputOffset())}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el, err := parseElement(dec, t)
			if err != nil {
				return nil, &herr.ParseError{Cause: err, Offset: int(dec.InputOffset())}
			}
			root.Append(el)
		case xml.CharData:
			root.Append(dom.NewText(string(t)))
		}
	}
	dom.CoalesceText(root)
	return root, nil
}

func parseElement(dec *xml.Decoder, start xml.StartElement) (*dom.Node, error) {
	el := dom.NewElement(start.Name.Local, convertAttrs(start.Attr)...)
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseElement(dec, t)
			if err != nil {
				return nil, err
			}
			el.Append(child)
		case xml.CharData:
			el.Append(dom.NewText(string(t)))
		case xml.EndElement:
			dom.CoalesceText(el)
			return el, nil
		}
	}
}

func convertAttrs(attrs []xml.Attr) []dom.Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]dom.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = dom.Attr{Name: a.Name.Local, Value: a.Value}
	}
	return out
}

// Serialize renders root's children (not root itself) back to an XML
// string. pretty selects two-space indentation with a newline between
// siblings; a childless element always self-closes.
func Serialize(root *dom.Node, pretty bool) string {
	var b strings.Builder
	for i, c := range root.Children {
		if pretty && i > 0 {
			b.WriteByte('\n')
		}
		writeNode(&b, c, 0, pretty)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n *dom.Node, depth int, pretty bool) {
	if pretty {
		b.WriteString(strings.Repeat("  ", depth))
	}
	if n.IsText() {
		b.WriteString(escapeText(n.Value))
		return
	}

	b.WriteByte('<')
	b.WriteString(n.Name)
	for _, a := range n.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(escapeAttr(a.Value))
		b.WriteByte('"')
	}
	if len(n.Children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')

	if pretty {
		for _, c := range n.Children {
			b.WriteByte('\n')
			writeNode(b, c, depth+1, pretty)
		}
		b.WriteByte('\n')
		b.WriteString(strings.Repeat("  ", depth))
	} else {
		for _, c := range n.Children {
			writeNode(b, c, depth+1, false)
		}
	}

	b.WriteString("</")
	b.WriteString(n.Name)
	b.WriteByte('>')
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func escapeAttr(s string) string {
	s = escapeText(s)
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
