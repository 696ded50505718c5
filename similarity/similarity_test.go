package similarity

import (
	"testing"

	"github.com/christian-oudard/htmltreediff/dom"
)

func TestTreeTextRatioIdentical(t *testing.T) {
	a := dom.NewElement("div")
	a.Append(dom.NewText("one two three"))
	b := dom.NewElement("div")
	b.Append(dom.NewText("one two three"))
	if r := TreeTextRatio(a, b); r != 1.0 {
		t.Fatalf("TreeTextRatio = %v, want 1.0", r)
	}
}

func TestTreeTextRatioDisjoint(t *testing.T) {
	a := dom.NewElement("div")
	a.Append(dom.NewText("alpha beta gamma"))
	b := dom.NewElement("div")
	b.Append(dom.NewText("xylophone zenith wombat"))
	if r := TreeTextRatio(a, b); r > 0.1 {
		t.Fatalf("TreeTextRatio = %v, want near 0", r)
	}
}
