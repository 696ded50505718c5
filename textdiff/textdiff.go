// Package textdiff produces inline <ins>/<del> markup over a pair of
// strings, word by word rather than character by character, so that a diff
// never splits a word in half. It wraps package match's generic sequence
// matcher with a word tokenizer (package token) and a length-weighted
// similarity ratio, and is used both directly (as the CLI's "text" mode)
// and internally as the fuzzy-match oracle for the tree differ.
package textdiff

import (
	"strings"
	"unicode/utf8"

	"github.com/christian-oudard/htmltreediff/match"
	"github.com/christian-oudard/htmltreediff/token"
)

// DefaultCutoff is the adjusted-text-ratio threshold below which Diff gives
// up on a word-level diff and reports the whole strings as replaced.
const DefaultCutoff = 0.3

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "by": true,
	"for": true, "if": true, "in": true, "it": true, "of": true, "or": true,
	"so": true, "the": true, "to": true,
}

// isJunk reports whether a token should be skipped when choosing anchor
// matches: either it is entirely whitespace, or it is, exactly as written,
// one of a fixed set of lowercase English stop words (so a capitalized
// "The" is not junk). Junk tokens are still emitted in the output; they are
// just never used to seed a match.
func isJunk(tok string) bool {
	if strings.TrimSpace(tok) == "" {
		return true
	}
	return stopWords[tok]
}

// WordMatcher wraps a match.Matcher over the token streams of two strings,
// adding the length-weighted similarity ratios word-level diffing needs.
// Weight is pluggable so that PlaceholderMatcher can make placeholder
// tokens invisible to the ratio calculation without duplicating the rest of
// the logic.
type WordMatcher struct {
	aTokens, bTokens []string
	m                *match.Matcher[string]
	weight           func(string) int
}

func defaultWeight(tok string) int {
	if isJunk(tok) {
		return 0
	}
	return utf8.RuneCountInString(tok)
}

// NewWordMatcher tokenizes a and b and builds a matcher over the resulting
// word sequences.
func NewWordMatcher(a, b string) *WordMatcher {
	return newWordMatcher(a, b, token.Tokenize, defaultWeight)
}

// NewPlaceholderMatcher is a WordMatcher variant that recognizes
// "{{{...}}}" placeholder tokens standing in for element nodes: each
// placeholder is tokenized as one atomic token and excluded from every
// ratio calculation, so that placeholders can never be split apart or
// skew similarity. Used by the markup builder's text-only-change
// detection.
func NewPlaceholderMatcher(a, b string) *WordMatcher {
	return newWordMatcher(a, b, token.TokenizePlaceholder, placeholderWeight)
}

func placeholderWeight(tok string) int {
	if isPlaceholder(tok) {
		return 0
	}
	return defaultWeight(tok)
}

func isPlaceholder(tok string) bool {
	return strings.HasPrefix(tok, "{{{") && strings.HasSuffix(tok, "}}}") && len(tok) > 6
}

func newWordMatcher(a, b string, split func(string) []string, weight func(string) int) *WordMatcher {
	wm := &WordMatcher{
		aTokens: split(a),
		bTokens: split(b),
		weight:  weight,
	}
	wm.m = match.New(isJunk, wm.aTokens, wm.bTokens)
	return wm
}

// MatchingBlocks delegates to the underlying matcher.
func (wm *WordMatcher) MatchingBlocks() []match.Match { return wm.m.GetMatchingBlocks() }

// Opcodes delegates to the underlying matcher.
func (wm *WordMatcher) Opcodes() []match.Op { return wm.m.GetOpcodes() }

func (wm *WordMatcher) textLength(tokens []string) int {
	total := 0
	for _, t := range tokens {
		total += wm.weight(t)
	}
	return total
}

// matchLength is the total weighted length of all tokens that fall inside a
// matching block (matched positions in a and b always carry the same
// tokens, so only a's side needs summing).
func (wm *WordMatcher) matchLength() int {
	length := 0
	for _, blk := range wm.MatchingBlocks() {
		length += wm.textLength(wm.aTokens[blk.AStart : blk.AStart+blk.Size])
	}
	return length
}

// TextRatio is 2*L / (|a|+|b|), the length-weighted analogue of
// match.Matcher.Ratio.
func (wm *WordMatcher) TextRatio() float64 {
	l := wm.matchLength()
	total := wm.textLength(wm.aTokens) + wm.textLength(wm.bTokens)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(l) / float64(total)
}

// AdjustedTextRatio is 2*L / (2*min(|a|,|b|)), which does not penalize a
// pair of strings purely for being different lengths; it is what the text
// differ uses to decide whether a word-level diff is worthwhile at all.
func (wm *WordMatcher) AdjustedTextRatio() float64 {
	l := wm.matchLength()
	la, lb := wm.textLength(wm.aTokens), wm.textLength(wm.bTokens)
	min := la
	if lb < min {
		min = lb
	}
	if min == 0 {
		if l == 0 {
			return 1.0
		}
		return 0.0
	}
	return float64(l) / float64(min)
}

// Diff produces inline <ins>/<del> markup transforming old into new, at
// word granularity. If the adjusted text ratio falls below cutoff, the
// whole strings are treated as replaced rather than picking out a
// misleading partial match. The output is raw string concatenation: old and
// new must already be diff-safe (e.g. HTML-escaped), since Diff never
// escapes or parses its input.
func Diff(old, new string, cutoff float64) string {
	wm := NewWordMatcher(old, new)
	if wm.AdjustedTextRatio() < cutoff {
		return wrap(old, "del") + wrap(new, "ins")
	}
	return render(wm, wm.Opcodes())
}

// DiffPlaceholder is Diff's placeholder-aware counterpart, used by the
// markup builder to re-diff a location where deletions and insertions of
// text nodes are interleaved with opaque element placeholders.
func DiffPlaceholder(old, new string, cutoff float64) string {
	wm := NewPlaceholderMatcher(old, new)
	if wm.AdjustedTextRatio() < cutoff {
		return wrap(old, "del") + wrap(new, "ins")
	}
	return render(wm, wm.Opcodes())
}

func render(wm *WordMatcher, ops []match.Op) string {
	var b strings.Builder
	for _, op := range ops {
		oldSection := strings.Join(wm.aTokens[op.I1:op.I2], "")
		newSection := strings.Join(wm.bTokens[op.J1:op.J2], "")
		switch op.Tag {
		case match.OpEqual:
			b.WriteString(oldSection)
		case match.OpDelete:
			b.WriteString(wrap(oldSection, "del"))
		case match.OpInsert:
			b.WriteString(wrap(newSection, "ins"))
		case match.OpReplace:
			b.WriteString(wrap(oldSection, "del"))
			b.WriteString(wrap(newSection, "ins"))
		}
	}
	return b.String()
}

func wrap(text, tag string) string {
	if text == "" {
		return ""
	}
	return "<" + tag + ">" + text + "</" + tag + ">"
}
