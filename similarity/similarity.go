// Package similarity scores two subtrees (or two whole documents) for
// text-level resemblance, bridging the DOM model and the word-level text
// differ. It is the oracle the tree differ's fuzzy match tier and the
// top-level similarity gate both consult.
package similarity

import (
	"github.com/christian-oudard/htmltreediff/dom"
	"github.com/christian-oudard/htmltreediff/textdiff"
)

// TreeTextRatio compares two subtrees for text similarity, as a
// length-weighted word-match ratio over their concatenated descendant text.
func TreeTextRatio(a, b *dom.Node) float64 {
	return textdiff.NewWordMatcher(dom.TreeText(a), dom.TreeText(b)).TextRatio()
}
