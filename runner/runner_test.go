package runner

import (
	"errors"
	"testing"

	"github.com/christian-oudard/htmltreediff/differ"
	"github.com/christian-oudard/htmltreediff/dom"
	"github.com/christian-oudard/htmltreediff/herr"
)

func el(name string, children ...*dom.Node) *dom.Node {
	n := dom.NewElement(name)
	for _, c := range children {
		n.Append(c)
	}
	return n
}

func TestRunAppliesDiffScript(t *testing.T) {
	oldTree := el("div", el("p", dom.NewText("hello")))
	newTree := el("div", el("p", dom.NewText("hello")), el("p", dom.NewText("world")))

	script := differ.Diff(oldTree, newTree)
	res, err := Run(oldTree, script)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.Root.Children) != 2 {
		t.Fatalf("Root.Children = %d, want 2", len(res.Root.Children))
	}
	if len(res.InsertedNodes) != 2 {
		t.Fatalf("InsertedNodes = %d, want 2 (the <p> and its text)", len(res.InsertedNodes))
	}
	if len(res.DeletedNodes) != 0 {
		t.Fatalf("DeletedNodes = %d, want 0", len(res.DeletedNodes))
	}

	inserted := res.InsertedNodes[0]
	origin, ok := res.Origins[inserted]
	if !ok {
		t.Fatalf("no Origin recorded for inserted node")
	}
	if origin.Parent != res.Root {
		t.Fatalf("Origin.Parent = %v, want root", origin.Parent)
	}
}

func TestRunRecordsDeleteOrigin(t *testing.T) {
	oldTree := el("div", el("a"), el("b"), el("c"))
	newTree := el("div", el("a"), el("c"))

	script := differ.Diff(oldTree, newTree)
	res, err := Run(oldTree, script)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.DeletedNodes) != 1 {
		t.Fatalf("DeletedNodes = %d, want 1", len(res.DeletedNodes))
	}
	deleted := res.DeletedNodes[0]
	if deleted.Name != "b" {
		t.Fatalf("deleted node name = %q, want b", deleted.Name)
	}
	origin := res.Origins[deleted]
	if origin.Parent != res.Root {
		t.Fatalf("Origin.Parent = %v, want root", origin.Parent)
	}
	if origin.NextSibling == nil || origin.NextSibling.Name != "c" {
		t.Fatalf("Origin.NextSibling = %v, want c", origin.NextSibling)
	}
	// The final tree has only a and c.
	if len(res.Root.Children) != 2 || res.Root.Children[0].Name != "a" || res.Root.Children[1].Name != "c" {
		t.Fatalf("Root.Children = %v, want [a c]", res.Root.Children)
	}
}

func TestRunLocationErrorOnBadScript(t *testing.T) {
	oldTree := el("div")
	badScript := differ.Script{
		{Action: differ.ActionDelete, Loc: differ.Location{5}},
	}
	_, err := Run(oldTree, badScript)
	var lerr *herr.LocationError
	if !errors.As(err, &lerr) {
		t.Fatalf("Run() with out-of-range location = %v, want a LocationError", err)
	}
}

func TestRunPropsErrorOnMalformedInsert(t *testing.T) {
	oldTree := el("div")
	badScript := differ.Script{
		{Action: differ.ActionInsert, Loc: differ.Location{0}, Props: differ.Props{NodeType: dom.ElementNode}},
	}
	_, err := Run(oldTree, badScript)
	var perr *herr.PropsError
	if !errors.As(err, &perr) {
		t.Fatalf("Run() with nameless element insert = %v, want a PropsError", err)
	}
}
