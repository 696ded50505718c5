// Package preprocess implements the text-level cleanup that runs before a
// document ever reaches a parser: comment stripping, newline collapsing,
// and HTML entity normalization, plus the post-parse Unicode normalization
// pass. These are the narrow "whitespace/entity normalization" collaborator
// the core spec treats as external.
package preprocess

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/christian-oudard/htmltreediff/dom"
)

var commentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)

// RemoveComments strips HTML/XML comments before parsing, since some
// lenient parsers choke on malformed ones.
func RemoveComments(s string) string {
	return commentPattern.ReplaceAllString(s, "")
}

// NormalizeEntities turns &nbsp; and its aliases into an ordinary space.
func NormalizeEntities(s string) string {
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&#160;", " ")
	s = strings.ReplaceAll(s, "&#xA0;", " ")
	s = strings.ReplaceAll(s, " ", " ")
	return s
}

// RemoveNewlines normalizes line endings to \n, then drops newlines that
// merely separate tag/whitespace boundaries (they carry no meaning beyond
// source formatting) while turning newlines that separate two text runs
// into a single space, so pretty-printed input diffs the same as its
// minified form.
func RemoveNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	runes := []rune(s)
	isBoundaryBefore := func(r rune) bool { return r == '>' || unicode.IsSpace(r) }
	isBoundaryAfter := func(r rune) bool { return r == '<' || unicode.IsSpace(r) }

	var out []rune
	for i, r := range runes {
		if r != '\n' {
			out = append(out, r)
			continue
		}
		prevOK := i > 0 && isBoundaryBefore(runes[i-1])
		nextOK := i+1 < len(runes) && isBoundaryAfter(runes[i+1])
		if prevOK && nextOK {
			continue
		}
		out = append(out, ' ')
	}
	return strings.TrimSpace(string(out))
}

// Clean applies the full text-level pass a parser expects its input to have
// already gone through: comment removal, newline collapsing, then entity
// normalization, trimmed of leading/trailing whitespace.
func Clean(s string) string {
	s = RemoveComments(s)
	s = RemoveNewlines(s)
	s = NormalizeEntities(s)
	return strings.TrimSpace(s)
}

// NormalizeUnicode walks root and rewrites every Text value to Unicode NFC,
// so that precomposed and decomposed forms of the same glyph never register
// as a tokenizer-level difference.
func NormalizeUnicode(root *dom.Node) {
	dom.Walk(root, func(n *dom.Node) {
		if n.IsText() {
			n.Value = norm.NFC.String(n.Value)
		}
	})
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// CollapseWhitespace collapses a run of whitespace to a single space, the
// rule applied inside text-bearing elements.
func CollapseWhitespace(s string) string {
	return whitespaceRun.ReplaceAllString(s, " ")
}

// NonTextContainers is the fixed set of tags whose direct whitespace-only
// text children carry no meaning and are removed outright during
// preprocessing, rather than collapsed.
var NonTextContainers = map[string]bool{
	"table": true, "thead": true, "tbody": true, "tfoot": true, "tr": true,
	"ul": true, "ol": true, "colgroup": true, "col": true, "dl": true,
	"select": true, "img": true, "br": true, "hr": true, "html": true, "head": true,
}

// EnforceWhitespace applies the whitespace-significance rule to an
// already-parsed tree: whitespace-only text directly inside a
// NonTextContainers element is dropped; text elsewhere has its whitespace
// runs collapsed.
func EnforceWhitespace(n *dom.Node) {
	var kept []*dom.Node
	for _, c := range n.Children {
		if c.IsText() {
			if NonTextContainers[n.Name] && strings.TrimSpace(c.Value) == "" {
				continue
			}
			c.Value = CollapseWhitespace(c.Value)
		} else {
			EnforceWhitespace(c)
		}
		kept = append(kept, c)
	}
	n.Children = kept
}
