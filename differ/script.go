// Package differ implements the hierarchical longest-common-subsequence
// tree-diff algorithm: given two dom.Node trees, it produces a positional
// edit script of deletes and inserts that transforms the old tree into the
// new one. This is the system's core and its most elaborate component; see
// Diff for the algorithm.
package differ

import (
	"fmt"

	"github.com/christian-oudard/htmltreediff/dom"
)

// Action classifies an EditOp.
type Action int

const (
	ActionDelete Action = iota
	ActionInsert
)

func (a Action) String() string {
	if a == ActionInsert {
		return "insert"
	}
	return "delete"
}

// Location addresses a node by the sequence of child indices from the
// document root; the empty Location is the root itself. Locations are
// resolved against the *current* state of a tree, which shifts as prior
// script entries are applied.
type Location []int

// Child returns a new Location extending l with one more index, without
// mutating l.
func (l Location) Child(idx int) Location {
	out := make(Location, len(l)+1)
	copy(out, l)
	out[len(l)] = idx
	return out
}

func (l Location) String() string {
	return fmt.Sprint([]int(l))
}

// Props is the wire-form description of a node carried alongside an
// EditOp: enough to reconstruct it (Insert) or to describe what is being
// removed (Delete). NodeName is only meaningful for elements, NodeValue
// only for text, and Attrs is only ever non-empty for elements.
type Props struct {
	NodeType  dom.NodeType
	NodeName  string
	NodeValue string
	Attrs     []dom.Attr
}

func propsFor(n *dom.Node) Props {
	p := Props{NodeType: n.Type}
	if n.IsElement() {
		p.NodeName = n.Name
		if len(n.Attrs) > 0 {
			p.Attrs = append([]dom.Attr(nil), n.Attrs...)
		}
	} else {
		p.NodeValue = n.Value
	}
	return p
}

// NewNode builds a fresh, childless dom.Node from Props, as the runner does
// for an insert entry.
func (p Props) NewNode() *dom.Node {
	if p.NodeType == dom.TextNode {
		return dom.NewText(p.NodeValue)
	}
	return dom.NewElement(p.NodeName, p.Attrs...)
}

// EditOp is a single delete or insert step.
type EditOp struct {
	Action Action
	Loc    Location
	Props  Props
}

// Script is an ordered sequence of edit operations. Applying a Script to a
// copy of the old tree, top to bottom, reproduces the new tree up to
// attribute changes (attributes are never diffed, so an unchanged node
// whose attributes differ between old and new produces no EditOp at all).
type Script []EditOp
