// Package runner applies a differ.Script to a parsed copy of the old
// document tree, mutating it into a structural copy of the new document,
// while recording which nodes were deleted and inserted and where they
// originally sat. That bookkeeping is the raw material the markup package
// turns into <ins>/<del> markup.
package runner

import (
	"errors"

	"github.com/christian-oudard/htmltreediff/differ"
	"github.com/christian-oudard/htmltreediff/dom"
	"github.com/christian-oudard/htmltreediff/herr"
)

var (
	errLocTooShort   = errors.New("location is empty; cannot address the document root itself")
	errLocOutOfRange = errors.New("child index out of range")
)

// Origin records where a node sat in its parent's child list at the moment
// the runner touched it: the parent itself, and the sibling that followed
// it (nil if it was the last child). For a deleted node this is captured
// immediately before detachment, so the markup builder can re-insert it at
// the same spot to wrap it in <del>. For an inserted node it is captured
// immediately after insertion, for symmetry with the deleted case.
type Origin struct {
	Parent      *dom.Node
	NextSibling *dom.Node
}

// Result is the outcome of running a script: the mutated tree (structurally
// equal to the new document, modulo attributes), and the deleted/inserted
// node lists in script order, each resolvable to its Origin.
type Result struct {
	Root          *dom.Node
	DeletedNodes  []*dom.Node
	InsertedNodes []*dom.Node
	Origins       map[*dom.Node]Origin
}

// Run clones oldRoot and applies script to the clone, returning the
// mutated clone plus the deleted/inserted node bookkeeping. oldRoot itself
// is never mutated.
func Run(oldRoot *dom.Node, script differ.Script) (*Result, error) {
	res := &Result{
		Root:    dom.Clone(oldRoot),
		Origins: make(map[*dom.Node]Origin),
	}

	for _, op := range script {
		switch op.Action {
		case differ.ActionDelete:
			if err := res.applyDelete(op); err != nil {
				return nil, err
			}
		case differ.ActionInsert:
			if err := res.applyInsert(op); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

func (r *Result) applyDelete(op differ.EditOp) error {
	parent, idx, err := resolveParentAndIndex(r.Root, op.Loc)
	if err != nil {
		return &herr.LocationError{Location: op.Loc, Action: "delete", Cause: err}
	}

	node := parent.Children[idx]
	var nextSibling *dom.Node
	if idx+1 < len(parent.Children) {
		nextSibling = parent.Children[idx+1]
	}
	r.Origins[node] = Origin{Parent: parent, NextSibling: nextSibling}

	parent.RemoveAt(idx)
	r.DeletedNodes = append(r.DeletedNodes, node)
	return nil
}

func (r *Result) applyInsert(op differ.EditOp) error {
	if err := validateProps(op.Props); err != nil {
		return err
	}
	parent, idx, err := resolveInsertParentAndIndex(r.Root, op.Loc)
	if err != nil {
		return &herr.LocationError{Location: op.Loc, Action: "insert", Cause: err}
	}

	node := op.Props.NewNode()
	parent.InsertAt(idx, node)

	var nextSibling *dom.Node
	if idx+1 < len(parent.Children) {
		nextSibling = parent.Children[idx+1]
	}
	r.Origins[node] = Origin{Parent: parent, NextSibling: nextSibling}
	r.InsertedNodes = append(r.InsertedNodes, node)
	return nil
}

// validateProps rejects a malformed insert payload before any mutation
// happens: an element entry must name its tag, a text entry must carry a
// value, and no other node type is ever scripted.
func validateProps(p differ.Props) error {
	switch p.NodeType {
	case dom.ElementNode:
		if p.NodeName == "" {
			return &herr.PropsError{NodeType: int(p.NodeType), Detail: "element properties lack a node name"}
		}
	case dom.TextNode:
		if p.NodeValue == "" {
			return &herr.PropsError{NodeType: int(p.NodeType), Detail: "text properties lack a node value"}
		}
	default:
		return &herr.PropsError{NodeType: int(p.NodeType), Detail: "unsupported node type"}
	}
	return nil
}

// resolveParentAndIndex resolves loc to the (parent, index-within-parent)
// addressing an existing node, for a delete.
func resolveParentAndIndex(root *dom.Node, loc differ.Location) (*dom.Node, int, error) {
	if len(loc) == 0 {
		return nil, 0, errLocTooShort
	}
	parent, err := resolve(root, loc[:len(loc)-1])
	if err != nil {
		return nil, 0, err
	}
	idx := loc[len(loc)-1]
	if idx < 0 || idx >= len(parent.Children) {
		return nil, 0, errLocOutOfRange
	}
	return parent, idx, nil
}

// resolveInsertParentAndIndex is the same resolution for an insert, where
// the target index is allowed to equal len(parent.Children) (append).
func resolveInsertParentAndIndex(root *dom.Node, loc differ.Location) (*dom.Node, int, error) {
	if len(loc) == 0 {
		return nil, 0, errLocTooShort
	}
	parent, err := resolve(root, loc[:len(loc)-1])
	if err != nil {
		return nil, 0, err
	}
	idx := loc[len(loc)-1]
	if idx < 0 || idx > len(parent.Children) {
		return nil, 0, errLocOutOfRange
	}
	return parent, idx, nil
}

// resolve walks loc from root, returning the node it addresses.
func resolve(root *dom.Node, loc differ.Location) (*dom.Node, error) {
	n := root
	for _, idx := range loc {
		if idx < 0 || idx >= len(n.Children) {
			return nil, errLocOutOfRange
		}
		n = n.Children[idx]
	}
	return n, nil
}
