package differ

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/christian-oudard/htmltreediff/dom"
)

func el(name string, children ...*dom.Node) *dom.Node {
	n := dom.NewElement(name)
	for _, c := range children {
		n.Append(c)
	}
	return n
}

func txt(s string) *dom.Node { return dom.NewText(s) }

func TestDiffIdenticalTreesProduceEmptyScript(t *testing.T) {
	oldTree := el("div", el("p", txt("hello")))
	newTree := el("div", el("p", txt("hello")))
	script := Diff(oldTree, newTree)
	if len(script) != 0 {
		t.Fatalf("Diff(identical) = %v, want empty", script)
	}
}

func TestDiffIgnoresAttributeOnlyChanges(t *testing.T) {
	oldP := dom.NewElement("p", dom.Attr{Name: "class", Value: "a"})
	oldP.Append(txt("same"))
	newP := dom.NewElement("p", dom.Attr{Name: "class", Value: "b"})
	newP.Append(txt("same"))

	oldTree := el("div", oldP)
	newTree := el("div", newP)
	script := Diff(oldTree, newTree)
	if len(script) != 0 {
		t.Fatalf("Diff(attr-only change) = %v, want empty (attributes are never diffed)", script)
	}
}

func TestDiffAppendsNewSibling(t *testing.T) {
	old := el("div", el("p", txt("hello")))
	new := el("div", el("p", txt("hello")), el("p", txt("world")))

	script := Diff(old, new)
	if len(script) != 2 {
		t.Fatalf("Diff(append) = %v, want 2 ops", script)
	}
	if script[0].Action != ActionInsert || script[0].Loc.String() != "[1]" {
		t.Fatalf("script[0] = %+v, want insert at [1]", script[0])
	}
	if script[0].Props.NodeName != "p" {
		t.Fatalf("script[0].Props.NodeName = %q, want p", script[0].Props.NodeName)
	}
	if script[1].Action != ActionInsert || script[1].Loc.String() != "[1 0]" {
		t.Fatalf("script[1] = %+v, want insert at [1 0]", script[1])
	}
	if script[1].Props.NodeValue != "world" {
		t.Fatalf("script[1].Props.NodeValue = %q, want world", script[1].Props.NodeValue)
	}
}

func TestDiffRemovesDroppedSibling(t *testing.T) {
	old := el("div", el("p", txt("hello")), el("p", txt("world")))
	new := el("div", el("p", txt("hello")))

	script := Diff(old, new)
	if len(script) != 2 {
		t.Fatalf("Diff(remove) = %v, want 2 ops", script)
	}
	// Children are deleted before their parent.
	if script[0].Action != ActionDelete || script[0].Loc.String() != "[1 0]" {
		t.Fatalf("script[0] = %+v, want delete at [1 0]", script[0])
	}
	if script[1].Action != ActionDelete || script[1].Loc.String() != "[1]" {
		t.Fatalf("script[1] = %+v, want delete at [1]", script[1])
	}
}

func TestDiffRecursesIntoSimilarTextInPlace(t *testing.T) {
	old := el("div", el("p", txt("hello world")))
	new := el("div", el("p", txt("hello there")))

	script := Diff(old, new)
	// The <p> itself is judged the same node edited in place (fuzzy match),
	// so only its text child is replaced, not the whole paragraph.
	for _, op := range script {
		if op.Props.NodeName == "p" {
			t.Fatalf("script = %v, want no delete/insert of the <p> itself", script)
		}
	}
	if len(script) != 2 {
		t.Fatalf("Diff(similar text) = %v, want delete+insert of the text node only", script)
	}
	if script[0].Action != ActionDelete || script[0].Props.NodeValue != "hello world" {
		t.Fatalf("script[0] = %+v, want delete of old text", script[0])
	}
	if script[1].Action != ActionInsert || script[1].Props.NodeValue != "hello there" {
		t.Fatalf("script[1] = %+v, want insert of new text", script[1])
	}
}

func TestDiffUnrelatedChildrenReplaceWholesale(t *testing.T) {
	old := el("div", el("table"))
	new := el("div", el("span"))

	script := Diff(old, new)
	if len(script) != 2 {
		t.Fatalf("Diff(unrelated) = %v, want delete+insert", script)
	}
	if script[0].Action != ActionDelete || script[0].Props.NodeName != "table" {
		t.Fatalf("script[0] = %+v, want delete of table", script[0])
	}
	if script[1].Action != ActionInsert || script[1].Props.NodeName != "span" {
		t.Fatalf("script[1] = %+v, want insert of span", script[1])
	}
}

func TestDiffReplaceInMiddleShiftsSubsequentLocations(t *testing.T) {
	old := el("div", el("a"), el("b"), el("z"))
	new := el("div", el("a"), el("c"), el("z"))

	script := Diff(old, new)
	want := Script{
		{Action: ActionDelete, Loc: Location{1}, Props: Props{NodeType: dom.ElementNode, NodeName: "b"}},
		{Action: ActionInsert, Loc: Location{1}, Props: Props{NodeType: dom.ElementNode, NodeName: "c"}},
	}
	if diff := cmp.Diff(want, script); diff != "" {
		t.Fatalf("script mismatch (-want +got):\n%s", diff)
	}
}
