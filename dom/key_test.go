package dom

import "testing"

func tree(name string, children ...*Node) *Node {
	n := NewElement(name)
	for _, c := range children {
		n.Append(c)
	}
	return n
}

func TestTreeKeyEqualForIdenticalSubtrees(t *testing.T) {
	a := tree("div", NewText("hi"), tree("span", NewText("x")))
	b := tree("div", NewText("hi"), tree("span", NewText("x")))
	if a.TreeKey() != b.TreeKey() {
		t.Fatalf("expected equal TreeKeys for identical subtrees")
	}
}

func TestTreeKeyDiffersOnDescendant(t *testing.T) {
	a := tree("div", NewText("hi"), tree("span", NewText("x")))
	b := tree("div", NewText("hi"), tree("span", NewText("y")))
	if a.TreeKey() == b.TreeKey() {
		t.Fatalf("expected different TreeKeys when a descendant differs")
	}
}

func TestNodeKeyIgnoresChildren(t *testing.T) {
	a := tree("div", NewText("x"))
	b := tree("div", NewText("y"))
	if a.Key() != b.Key() {
		t.Fatalf("expected equal NodeKeys for same top-level node regardless of children")
	}
}

func TestNodeKeyDistinguishesAttrNameValueBoundary(t *testing.T) {
	a := NewElement("div", Attr{Name: "a", Value: "bc"})
	b := NewElement("div", Attr{Name: "ab", Value: "c"})
	if a.Key() == b.Key() {
		t.Fatalf("expected length-prefixed encoding to distinguish attr boundary ambiguity")
	}
}

func TestIsWhitespaceOnly(t *testing.T) {
	ws := tree("p", NewText("  \n\t"))
	if !IsWhitespaceOnly(ws) {
		t.Fatalf("expected whitespace-only node to be junk")
	}
	nonWs := tree("p", NewText(" x "))
	if IsWhitespaceOnly(nonWs) {
		t.Fatalf("expected non-whitespace node to not be junk")
	}
}

func TestTreeText(t *testing.T) {
	n := tree("div", NewText("one"), tree("em", NewText("two")))
	if got := TreeText(n); got != "one two" {
		t.Fatalf("TreeText = %q, want %q", got, "one two")
	}
}
