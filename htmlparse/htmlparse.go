// Package htmlparse is the lenient HTML collaborator the core diff
// pipeline treats as external: it turns a string into the dom.Node model
// (parsing via golang.org/x/net/html, then normalizing), and turns a
// dom.Node back into a string, optionally pretty-printed.
package htmlparse

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/christian-oudard/htmltreediff/dom"
	"github.com/christian-oudard/htmltreediff/herr"
	"github.com/christian-oudard/htmltreediff/preprocess"
)

// bodyContext is the parse context passed to html.ParseFragment so that
// input is interpreted as the contents of <body>, matching the document
// model's rule that, after normalization, the root is always <body>.
var bodyContext = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

// Parse cleans and lenient-parses input HTML, returning a normalized
// dom.Node tree rooted at a synthetic <body> element. Comments, <style>
// elements, and <span>/<font> wrappers are stripped; consecutive text
// nodes are coalesced; whitespace-significance rules and Unicode NFC
// normalization are applied.
func Parse(input string) (*dom.Node, error) {
	clean := preprocess.Clean(input)

	nodes, err := html.ParseFragment(strings.NewReader(clean), bodyContext)
	if err != nil {
		return nil, &herr.ParseError{Cause: err, Offset: -1}
	}

	root := dom.NewElement("body")
	for _, n := range nodes {
		appendConverted(root, n)
	}

	stripWrappers(root)
	dom.CoalesceText(root)
	preprocess.EnforceWhitespace(root)
	preprocess.NormalizeUnicode(root)
	return root, nil
}

// appendConverted converts an html.Node (and its descendants) into dom.Node
// form and appends the result to parent. Comments and doctypes carry no
// meaning for the diff and are dropped.
func appendConverted(parent *dom.Node, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		parent.Append(dom.NewText(n.Data))
	case html.ElementNode:
		name := strings.ToLower(n.Data)
		el := dom.NewElement(name, convertAttrs(n.Attr)...)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			appendConverted(el, c)
		}
		parent.Append(el)
	default:
		// Comment, Doctype, Document fragments carry no diff-relevant
		// content; skip entirely.
	}
}

func convertAttrs(attrs []html.Attribute) []dom.Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]dom.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = dom.Attr{Name: a.Key, Value: a.Val}
	}
	return out
}

// stripWrappers removes <head> and <style> elements outright, and unwraps
// <html>, <font>, and <span> elements, leaving their children in their
// parent's place. It recurses first so that a dropped/unwrapped element's
// own wrapper descendants are already resolved.
func stripWrappers(n *dom.Node) {
	var kept []*dom.Node
	for _, c := range n.Children {
		if !c.IsElement() {
			kept = append(kept, c)
			continue
		}
		stripWrappers(c)
		switch c.Name {
		case "head", "style":
			continue
		case "html", "font", "span":
			for _, cc := range c.Children {
				cc.Parent = n
			}
			kept = append(kept, c.Children...)
		default:
			kept = append(kept, c)
		}
	}
	n.Children = kept
}

// voidElements never carry a closing tag or children in HTML serialization.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Serialize renders root's children (not root itself) back to an HTML
// string: the public contract returns the contents of <body>, never the
// wrapper. pretty selects two-space indentation with a newline between
// siblings; otherwise output is compact and single-line.
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
	b.WriteByte('>')

	if voidElements[n.Name] {
		return
	}

	if pretty && len(n.Children) > 0 {
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
