package differ

import (
	"sort"

	"github.com/christian-oudard/htmltreediff/dom"
	"github.com/christian-oudard/htmltreediff/match"
	"github.com/christian-oudard/htmltreediff/similarity"
)

const (
	// exactRatioGuard is the minimum overall match ratio (difflib-style,
	// unweighted by length) required before a sibling list's exact matching
	// blocks are trusted. Below it, the exact matches are discarded and the
	// whole range is handed to the fuzzy pass as a single gap, so unrelated
	// short runs of identical siblings don't anchor the alignment of an
	// otherwise completely rewritten section.
	exactRatioGuard = 0.3

	// fuzzyTextRatioCutoff is the minimum similarity.TreeTextRatio for two
	// subtrees with equal NodeKey but unequal TreeKey to still be considered
	// the same node edited in place, rather than a delete plus an insert.
	fuzzyTextRatioCutoff = 0.4
)

// Diff compares oldRoot against newRoot and returns the edit script that
// transforms the former into the latter. oldRoot itself is not mutated; the
// algorithm works against an internal deep copy so that Locations in the
// returned Script stay valid when replayed against a fresh copy of oldRoot
// (see package runner).
func Diff(oldRoot, newRoot *dom.Node) Script {
	d := &differ{}
	oldCopy := dom.Clone(oldRoot)
	d.align(oldCopy, newRoot, Location{})
	return d.script
}

type differ struct {
	script Script
}

// treeItem is the item type fed to match.Matcher for the exact-match pass:
// two children are equal exactly when their whole subtrees are identical.
type treeItem struct {
	key  dom.TreeKey
	junk bool
}

// align finds the edit steps that turn oldParent's children into
// newParent's children, appends them to d.script, and recurses into any
// child pair judged to be the same node edited in place. oldParent is
// mutated in place as deletes and inserts are applied, which is what lets
// Locations, addressed by live index, stay correct across the whole
// recursive walk.
func (d *differ) align(oldParent, newParent *dom.Node, loc Location) {
	oldChildren := oldParent.Children
	newChildren := newParent.Children

	aItems := make([]treeItem, len(oldChildren))
	for i, c := range oldChildren {
		aItems[i] = treeItem{key: c.TreeKey(), junk: dom.IsWhitespaceOnly(c)}
	}
	bItems := make([]treeItem, len(newChildren))
	for i, c := range newChildren {
		bItems[i] = treeItem{key: c.TreeKey(), junk: dom.IsWhitespaceOnly(c)}
	}

	isJunk := func(it treeItem) bool { return it.junk }
	exact := match.New(isJunk, aItems, bItems)

	var exactBlocks []match.Match
	if exact.Ratio() < exactRatioGuard {
		// Nothing in common worth anchoring on; treat the whole range as
		// one gap for the fuzzy pass to work over.
		exactBlocks = []match.Match{{AStart: len(oldChildren), BStart: len(newChildren), Size: 0}}
	} else {
		exactBlocks = exact.GetMatchingBlocks()
	}

	// Walk the exact blocks in order, fuzzy-matching the gap before each
	// one, to build the final merged, sorted block list and the list of
	// (old, new) index pairs that are the same node edited in place and so
	// need to be recursed into.
	var merged []match.Match
	var recursionPairs [][2]int
	i, j := 0, 0
	for _, blk := range exactBlocks {
		if i < blk.AStart && j < blk.BStart {
			for _, gb := range fuzzyMatch(oldChildren, newChildren, i, blk.AStart, j, blk.BStart) {
				merged = append(merged, gb)
				for k := 0; k < gb.Size; k++ {
					recursionPairs = append(recursionPairs, [2]int{gb.AStart + k, gb.BStart + k})
				}
			}
		}
		merged = append(merged, blk)
		i, j = blk.AStart+blk.Size, blk.BStart+blk.Size
	}

	// Exactly-matched blocks are also "recursed into", but recursion over
	// an unchanged subtree is a no-op (no exact-match pair ever differs),
	// so only fuzzy pairs are tracked above; exact pairs are skipped as an
	// optimization, not a correctness requirement.

	work := append([]match.Op(nil), match.MatchingBlocksFromSlice(merged)...)
	for len(work) > 0 {
		op := work[0]
		work = work[1:]

		if op.Tag == match.OpEqual {
			continue
		}
		if op.Tag == match.OpReplace {
			delOp := match.Op{Tag: match.OpDelete, I1: op.I1, I2: op.I2, J1: op.J1, J2: op.J1}
			insOp := match.Op{Tag: match.OpInsert, I1: op.I2, I2: op.I2, J1: op.J1, J2: op.J2}
			work = append([]match.Op{delOp, insOp}, work...)
			continue
		}

		var shift int
		switch op.Tag {
		case match.OpDelete:
			for p := op.I2 - 1; p >= op.I1; p-- {
				d.deleteSubtree(oldParent, p, loc)
			}
			width := op.I2 - op.I1
			shift = -width
			recursionPairs = adjustRecursion(recursionPairs, op.I2, shift)
		case match.OpInsert:
			for p := op.J1; p < op.J2; p++ {
				d.insertSubtree(newChildren[p], oldParent, op.I2+(p-op.J1), loc)
			}
			width := op.J2 - op.J1
			shift = width
			recursionPairs = adjustRecursion(recursionPairs, op.I2, shift)
		}

		// Every op still queued lies entirely after the one just applied
		// (matching blocks are non-overlapping and processed in order), so
		// shifting its old-side indices by the same amount keeps them
		// correct against the now-mutated oldParent.Children.
		for k := range work {
			work[k].I1 += shift
			work[k].I2 += shift
		}
	}

	for _, pair := range recursionPairs {
		d.align(oldParent.Children[pair[0]], newChildren[pair[1]], loc.Child(pair[0]))
	}
}

// adjustRecursion shifts recursion pairs addressing an old-child position
// at or past threshold by delta, the same way a still-queued opcode's own
// indices shift after an edit is applied.
func adjustRecursion(pairs [][2]int, threshold, delta int) [][2]int {
	for i := range pairs {
		if pairs[i][0] >= threshold {
			pairs[i][0] += delta
		}
	}
	return pairs
}

// deleteSubtree removes the child at idx from parent, recursively recording
// one delete EditOp per descendant node, innermost first, so that replaying
// the script never deletes a node whose parent has already been removed.
func (d *differ) deleteSubtree(parent *dom.Node, idx int, loc Location) {
	node := parent.Children[idx]
	childLoc := loc.Child(idx)
	for c := len(node.Children) - 1; c >= 0; c-- {
		d.deleteSubtree(node, c, childLoc)
	}
	d.script = append(d.script, EditOp{Action: ActionDelete, Loc: childLoc, Props: propsFor(node)})
	parent.RemoveAt(idx)
}

// insertSubtree inserts a copy of src as parent's idx'th child, recording
// one insert EditOp per node, outermost first, then recurses to insert its
// children into the freshly created copy.
func (d *differ) insertSubtree(src, parent *dom.Node, idx int, loc Location) {
	nodeLoc := loc.Child(idx)
	d.script = append(d.script, EditOp{Action: ActionInsert, Loc: nodeLoc, Props: propsFor(src)})

	clone := dom.CloneShallow(src)
	parent.InsertAt(idx, clone)
	for ci, c := range src.Children {
		d.insertSubtree(c, clone, ci, nodeLoc)
	}
}

// fuzzyEqual reports whether a and b should be treated as the same node
// edited in place: their own type/name/value/attrs must match exactly, and
// either their whole subtrees are identical or their text content is still
// similar enough to be worth diffing in place rather than replacing.
func fuzzyEqual(a, b *dom.Node) bool {
	if a.Key() != b.Key() {
		return false
	}
	if a.TreeKey() == b.TreeKey() {
		return true
	}
	return similarity.TreeTextRatio(a, b) >= fuzzyTextRatioCutoff
}

// fuzzyMatch finds matching blocks within oldChildren[alo:ahi] against
// newChildren[blo:bhi] using fuzzyEqual, via the same greedy
// divide-and-conquer recursion match.Matcher uses for exact matches. It
// can't reuse match.Matcher directly: fuzzyEqual is not a true equivalence
// relation usable as a comparable-keyed hash (two items can each fuzzy-match
// a third without fuzzy-matching each other), so the longest-match search is
// done directly by pairwise comparison instead of a b2j index.
func fuzzyMatch(oldChildren, newChildren []*dom.Node, alo, ahi, blo, bhi int) []match.Match {
	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{alo, ahi, blo, bhi}}

	var blocks []match.Match
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		best := findLongestFuzzyMatch(oldChildren, newChildren, s.alo, s.ahi, s.blo, s.bhi)
		if best.Size == 0 {
			continue
		}
		blocks = append(blocks, best)
		if s.alo < best.AStart && s.blo < best.BStart {
			queue = append(queue, span{s.alo, best.AStart, s.blo, best.BStart})
		}
		if best.AStart+best.Size < s.ahi && best.BStart+best.Size < s.bhi {
			queue = append(queue, span{best.AStart + best.Size, s.ahi, best.BStart + best.Size, s.bhi})
		}
	}

	sort.Slice(blocks, func(i, j int) bool { return blocks[i].AStart < blocks[j].AStart })
	return blocks
}

// findLongestFuzzyMatch scans every (i, j) pair in range for the longest
// run of consecutive fuzzyEqual siblings, preferring the earliest-starting
// such run on ties.
func findLongestFuzzyMatch(a, b []*dom.Node, alo, ahi, blo, bhi int) match.Match {
	besti, bestj, bestsize := alo, blo, 0
	for i := alo; i < ahi; i++ {
		for j := blo; j < bhi; j++ {
			if !fuzzyEqual(a[i], b[j]) {
				continue
			}
			size := 1
			for i+size < ahi && j+size < bhi && fuzzyEqual(a[i+size], b[j+size]) {
				size++
			}
			if size > bestsize {
				besti, bestj, bestsize = i, j, size
			}
		}
	}
	return match.Match{AStart: besti, BStart: bestj, Size: bestsize}
}
