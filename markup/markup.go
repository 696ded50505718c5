// Package markup implements the change-markup builder (the post-processor
// that turns a runner.Result into well-formed inline <ins>/<del> markup):
// re-attaching deleted nodes and wrapping inserted ones, de-nesting,
// ordering deletions before insertions, merging adjacent runs, and, in
// HTML mode, repairing lists and tables so the result never puts an
// <ins>/<del> somewhere the HTML grammar forbids it.
package markup

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/christian-oudard/htmltreediff/dom"
	"github.com/christian-oudard/htmltreediff/runner"
	"github.com/christian-oudard/htmltreediff/textdiff"
)

// Build turns a runner.Result into the final marked-up document: res.Root
// is mutated in place and also returned. html selects the HTML-only
// passes (text-only change detection, list/table repair); XML mode skips
// both.
func Build(res *runner.Result, html bool) *dom.Node {
	delNodes := append([]*dom.Node(nil), res.DeletedNodes...)
	insNodes := append([]*dom.Node(nil), res.InsertedNodes...)

	if html {
		delNodes, insNodes = textOnlyChanges(res, delNodes, insNodes)
	}

	// Re-attach deletions in reverse, undoing the right-to-left emit
	// order, then wrap insertions in place.
	for i := len(delNodes) - 1; i >= 0; i-- {
		n := delNodes[i]
		o := res.Origins[n]
		insertOrAppend(o.Parent, n, o.NextSibling)
		dom.Wrap(n, "del")
	}
	for _, n := range insNodes {
		dom.Wrap(n, "ins")
	}

	removeNesting(res.Root, "del")
	removeNesting(res.Root, "ins")
	sortDelBeforeIns(res.Root)
	mergeAdjacent(res.Root, "del")
	mergeAdjacent(res.Root, "ins")

	if html {
		fixLists(res.Root)
		fixTables(res.Root)
	}

	removeEmptyChanges(res.Root)
	return res.Root
}

// insertOrAppend inserts node under parent immediately before next, or
// appends it if next is nil.
func insertOrAppend(parent, node, next *dom.Node) {
	if next == nil {
		parent.Append(node)
		return
	}
	idx := parent.ChildIndex(next)
	if idx < 0 {
		parent.Append(node)
		return
	}
	parent.InsertAt(idx, node)
}

// removeNesting unwraps any element named tag that has an ancestor (before
// reaching root) also named tag: the output must never contain <ins>
// inside <ins> or <del> inside <del>.
func removeNesting(root *dom.Node, tag string) {
	for _, node := range dom.ElementsByTagName(root, tag) {
		for _, ancestor := range dom.Ancestors(node) {
			if ancestor == root {
				break
			}
			if ancestor.IsElement() && ancestor.Name == tag {
				node.Unwrap()
				break
			}
		}
	}
}

// sortDelBeforeIns normalizes the tree, then bubbles every element left
// across a preceding <ins> sibling it would otherwise sort after, so that
// wherever a <del> and an <ins> land adjacent, the <del> always comes
// first.
func sortDelBeforeIns(root *dom.Node) {
	dom.CoalesceText(root)

	var elems []*dom.Node
	dom.Walk(root, func(n *dom.Node) {
		if n.IsElement() {
			elems = append(elems, n)
		}
	})

	for _, node := range elems {
		for {
			p := node.Parent
			if p == nil {
				break
			}
			idx := p.ChildIndex(node)
			if idx <= 0 {
				break
			}
			prev := p.Children[idx-1]
			if !prev.IsElement() || prev.Name != "ins" || node.Name != "del" {
				break
			}
			p.Children[idx-1], p.Children[idx] = p.Children[idx], p.Children[idx-1]
		}
	}
}

// mergeAdjacent merges every element named tag into an immediately
// preceding sibling of the same tag, appending the absorbed node's
// children and discarding the duplicate wrapper.
func mergeAdjacent(root *dom.Node, tag string) {
	for _, node := range dom.ElementsByTagName(root, tag) {
		if node.Parent == nil {
			continue // already absorbed by an earlier merge in this pass
		}
		idx := node.Parent.ChildIndex(node)
		if idx <= 0 {
			continue
		}
		prev := node.Parent.Children[idx-1]
		if !prev.IsElement() || prev.Name != tag {
			continue
		}
		children := append([]*dom.Node(nil), node.Children...)
		node.Children = nil
		for _, c := range children {
			prev.Append(c)
		}
		node.Parent.RemoveAt(idx)
	}
}

// distribute replaces a wrapper element with copies of its own tag wrapped
// around the inner contents of each element-typed child: used by the list
// and table repair passes to push <ins>/<del> inside the nearest li/tr/td.
func distribute(node *dom.Node) {
	tag := node.Name
	var children []*dom.Node
	for _, c := range node.Children {
		if c.IsElement() {
			children = append(children, c)
		}
	}
	node.Unwrap()
	for _, c := range children {
		dom.WrapInner(c, tag)
	}
}

// fixLists enforces that <ins>/<del> never directly wraps <li>.
// An <ins> wrapping one or more <li> is distributed inward; a <del>
// wrapping <li> children is unwrapped and each former <li> is rewritten
// with class="del-li" around a <del> of its own contents.
func fixLists(root *dom.Node) {
	var delTags, insTags []*dom.Node
	seen := map[*dom.Node]bool{}
	for _, li := range dom.ElementsByTagName(root, "li") {
		p := li.Parent
		if p == nil || !p.IsElement() || seen[p] {
			continue
		}
		switch p.Name {
		case "del":
			seen[p] = true
			delTags = append(delTags, p)
		case "ins":
			seen[p] = true
			insTags = append(insTags, p)
		}
	}

	for _, insTag := range insTags {
		distribute(insTag)
	}
	for _, delTag := range delTags {
		children := append([]*dom.Node(nil), delTag.Children...)
		delTag.Unwrap()
		for _, c := range children {
			if c.IsElement() && c.Name == "li" {
				c.SetAttr("class", "del-li")
				dom.WrapInner(c, "del")
			}
		}
	}
}

// fixTables enforces that no <ins>/<del> is ever a direct child of
// table|thead|tbody|tfoot|tr. <tr> and <td>/<th> wrapped directly by
// <ins>/<del> are distributed inward; anything left over (an <ins>/<del>
// still a direct child of a table-family element, with nowhere sensible
// to push it) is simply removed.
func fixTables(root *dom.Node) {
	distributeWrappersOf(root, "tr")
	distributeWrappersOf(root, "td", "th")

	for _, tag := range []string{"ins", "del"} {
		for _, node := range dom.ElementsByTagName(root, tag) {
			p := node.Parent
			if p == nil || !p.IsElement() {
				continue
			}
			switch p.Name {
			case "table", "tbody", "thead", "tfoot", "tr":
				node.Detach()
			}
		}
	}
}

func distributeWrappersOf(root *dom.Node, names ...string) {
	var wrappers []*dom.Node
	seen := map[*dom.Node]bool{}
	for _, name := range names {
		for _, el := range dom.ElementsByTagName(root, name) {
			p := el.Parent
			if p == nil || !p.IsElement() || seen[p] {
				continue
			}
			if p.Name == "ins" || p.Name == "del" {
				seen[p] = true
				wrappers = append(wrappers, p)
			}
		}
	}
	for _, w := range wrappers {
		distribute(w)
	}
}

// removeEmptyChanges deletes any <ins>/<del> left with no children, the
// way distribute() produces one when it wraps the contents of an element
// child that has no children of its own. An empty wrap must never survive
// into the output.
func removeEmptyChanges(root *dom.Node) {
	for _, tag := range []string{"ins", "del"} {
		for _, node := range dom.ElementsByTagName(root, tag) {
			if node.Parent != nil && len(node.Children) == 0 {
				node.Detach()
			}
		}
	}
}

// textOnlyChanges handles the case where a deletion and an insertion land
// at the same original location and each side has at least one text node:
// re-run the word-level text differ across that location instead of
// wrapping the whole thing as one opaque replace. It returns the
// del/ins node lists with the consumed nodes removed, so the generic
// wrap/de-nest/sort/merge pipeline never sees them again.
func textOnlyChanges(res *runner.Result, delNodes, insNodes []*dom.Node) ([]*dom.Node, []*dom.Node) {
	type locKey struct{ parent, next *dom.Node }

	delByLoc := map[locKey][]*dom.Node{}
	insByLoc := map[locKey][]*dom.Node{}
	var order []locKey
	seen := map[locKey]bool{}

	keyOf := func(n *dom.Node) locKey {
		o := res.Origins[n]
		return locKey{o.Parent, o.NextSibling}
	}
	for _, n := range delNodes {
		k := keyOf(n)
		if !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
		delByLoc[k] = append(delByLoc[k], n)
	}
	for _, n := range insNodes {
		k := keyOf(n)
		insByLoc[k] = append(insByLoc[k], n)
	}

	consumedDel := map[*dom.Node]bool{}
	consumedIns := map[*dom.Node]bool{}

	for _, k := range order {
		delList := delByLoc[k]
		insList, ok := insByLoc[k]
		if !ok {
			continue
		}
		if !anyText(delList) || !anyText(insList) {
			continue
		}

		placeholders := map[string]*dom.Node{}
		var oldText strings.Builder
		for i := len(delList) - 1; i >= 0; i-- {
			oldText.WriteString(placeholderValue(delList[i], placeholders))
		}
		var newText strings.Builder
		for _, n := range insList {
			newText.WriteString(placeholderValue(n, placeholders))
		}

		diff := textdiff.DiffPlaceholder(oldText.String(), newText.String(), textdiff.DefaultCutoff)
		diffNodes := parseDiffFragment(diff)

		parent, next := k.parent, k.next
		for _, n := range insList {
			n.Detach()
		}
		for _, dn := range diffNodes {
			insertOrAppend(parent, dn, next)
			resolvePlaceholders(dn, placeholders)
		}

		for _, n := range delList {
			consumedDel[n] = true
		}
		for _, n := range insList {
			consumedIns[n] = true
		}
	}

	if len(consumedDel) == 0 && len(consumedIns) == 0 {
		return delNodes, insNodes
	}

	var outDel, outIns []*dom.Node
	for _, n := range delNodes {
		if !consumedDel[n] {
			outDel = append(outDel, n)
		}
	}
	for _, n := range insNodes {
		if !consumedIns[n] {
			outIns = append(outIns, n)
		}
	}
	return outDel, outIns
}

func anyText(nodes []*dom.Node) bool {
	for _, n := range nodes {
		if n.IsText() {
			return true
		}
	}
	return false
}

// placeholderValue returns n's text value verbatim if it is a Text node,
// or registers it under a fresh placeholder token (carried through the
// inner text diff as an opaque run) if it is an Element.
func placeholderValue(n *dom.Node, placeholders map[string]*dom.Node) string {
	if n.IsText() {
		return n.Value
	}
	id := strconv.Itoa(len(placeholders))
	placeholders[id] = n
	return "{{{" + id + "}}}"
}

var diffTagPattern = regexp.MustCompile(`(?s)<(ins|del)>(.*?)</(ins|del)>`)

// parseDiffFragment parses the closed, internally-produced output of
// textdiff.DiffPlaceholder: a flat (never-nested) run of plain text and
// <ins>/<del> elements, each wrapping plain text. Because this fragment's
// only producer is textdiff itself, a small dedicated scan suffices; it
// does not need (and does not attempt) general HTML parsing.
func parseDiffFragment(s string) []*dom.Node {
	var out []*dom.Node
	pos := 0
	for _, loc := range diffTagPattern.FindAllStringSubmatchIndex(s, -1) {
		if loc[0] > pos {
			out = append(out, dom.NewText(s[pos:loc[0]]))
		}
		tag := s[loc[2]:loc[3]]
		inner := s[loc[4]:loc[5]]
		el := dom.NewElement(tag)
		el.Append(dom.NewText(inner))
		out = append(out, el)
		pos = loc[1]
	}
	if pos < len(s) {
		out = append(out, dom.NewText(s[pos:]))
	}
	return out
}

var placeholderToken = regexp.MustCompile(`\{\{\{(\w+)\}\}\}`)

// resolvePlaceholders walks n's descendant text nodes, splicing the real
// node back in for each {{{id}}} placeholder token the inner text diff
// left behind.
func resolvePlaceholders(n *dom.Node, placeholders map[string]*dom.Node) {
	if n.IsText() {
		return
	}
	for _, c := range append([]*dom.Node(nil), n.Children...) {
		if c.IsText() {
			spliceAllPlaceholders(n, c, placeholders)
		} else {
			resolvePlaceholders(c, placeholders)
		}
	}
}

func spliceAllPlaceholders(parent, textNode *dom.Node, placeholders map[string]*dom.Node) {
	for {
		loc := placeholderToken.FindStringSubmatchIndex(textNode.Value)
		if loc == nil {
			return
		}
		id := textNode.Value[loc[2]:loc[3]]
		real, ok := placeholders[id]
		if !ok {
			return
		}
		after := spliceNode(parent, textNode, loc[0], loc[1], real)
		if after == nil {
			return
		}
		textNode = after
	}
}

// spliceNode replaces the [start:end) placeholder span of textNode with
// real, splitting off a leading Text node (if any text precedes the span)
// and a trailing Text node (if any text follows it). It returns the
// trailing node, so the caller can keep scanning it for further
// placeholders, or nil if there is no remaining text.
func spliceNode(parent, textNode *dom.Node, start, end int, real *dom.Node) *dom.Node {
	idx := parent.ChildIndex(textNode)
	before := textNode.Value[:start]
	after := textNode.Value[end:]
	parent.RemoveAt(idx)

	pos := idx
	if before != "" {
		parent.InsertAt(pos, dom.NewText(before))
		pos++
	}
	parent.InsertAt(pos, real)
	pos++

	if after == "" {
		return nil
	}
	afterNode := dom.NewText(after)
	parent.InsertAt(pos, afterNode)
	return afterNode
}
