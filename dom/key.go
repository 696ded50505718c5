package dom

import "strconv"

// NodeKey is a hashable identity for a single node: (type, name, value,
// attributes), ignoring children. Two nodes with equal NodeKey are
// considered structurally identical at the top level, without any claim
// about their subtrees.
type NodeKey string

// TreeKey is a hashable identity for a whole subtree: a NodeKey for the
// node itself plus the TreeKey of every child, in order. Two nodes with
// equal TreeKey are identical all the way down.
type TreeKey string

// Key returns n's NodeKey.
func (n *Node) Key() NodeKey {
	return NodeKey(encodeNode(n))
}

// TreeKey returns n's TreeKey, a canonical encoding of n and every
// descendant. It is computed fresh on every call; callers that need it
// repeatedly for the same node (e.g. the differ, comparing every sibling
// pair) should cache it themselves.
func (n *Node) TreeKey() TreeKey {
	var b []byte
	b = appendNode(b, n)
	for _, c := range n.Children {
		ck := c.TreeKey()
		b = appendField(b, string(ck))
	}
	return TreeKey(b)
}

// encodeNode returns a length-prefixed, injective encoding of n's own
// type/name/value/attributes, with no dependence on children. Length
// prefixing (rather than a delimiter) avoids ambiguity between e.g. an
// element named "a:b" and one named "a" with value "b".
func encodeNode(n *Node) string {
	return string(appendNode(nil, n))
}

func appendNode(b []byte, n *Node) []byte {
	b = strconv.AppendInt(b, int64(n.Type), 10)
	b = appendField(b, n.Name)
	b = appendField(b, n.Value)
	for _, a := range n.Attrs {
		b = appendField(b, a.Name)
		b = appendField(b, a.Value)
	}
	return b
}

func appendField(b []byte, s string) []byte {
	b = strconv.AppendInt(b, int64(len(s)), 10)
	b = append(b, ':')
	b = append(b, s...)
	return b
}

// TreeText concatenates all descendant text in document order, space
// joined, regardless of element boundaries. It is the text-extraction step
// behind tree-similarity scoring.
func TreeText(n *Node) string {
	var texts []string
	Walk(n, func(d *Node) {
		if d.IsText() {
			texts = append(texts, d.Value)
		}
	})
	out := ""
	for i, t := range texts {
		if i > 0 {
			out += " "
		}
		out += t
	}
	return out
}

// IsWhitespaceOnly reports whether n contains no non-whitespace text: used
// as the junk predicate for exact subtree matching (a run of whitespace-only
// siblings should never anchor a match).
func IsWhitespaceOnly(n *Node) bool {
	whitespace := true
	Walk(n, func(d *Node) {
		if !whitespace || !d.IsText() {
			return
		}
		for _, r := range d.Value {
			if r != ' ' && r != '\t' && r != '\n' && r != '\r' && r != '\f' && r != '\v' {
				whitespace = false
				return
			}
		}
	})
	return whitespace
}
