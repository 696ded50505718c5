// Package token splits text into a loss-free sequence of word-like
// tokens: HTML entities, contractions, digit groups, punctuation, and
// Unicode words. It underlies both the word-level text differ and the
// tree-similarity oracle, exactly as a lexer underlies a parser.
package token

import "regexp"

// contractions is a closed list of common English contractions that
// should never be split at the apostrophe.
var contractions = []string{
	"i'm", "i'll", "i'd", "i've", "you're", "you'll", "you'd", "you've",
	"he's", "he'll", "he'd", "she's", "she'll", "she'd", "it's", "it'll",
	"it'd", "we're", "we'll", "we'd", "we've", "they're", "they'll", "they'd",
	"they've", "there's", "there'll", "there'd", "that's", "that'll", "that'd",
	"ain't", "aren't", "can't", "couldn't", "didn't", "doesn't", "don't",
	"hadn't", "hasn't", "isn't", "mustn't", "needn't", "shouldn't", "wasn't",
	"weren't", "won't", "wouldn't",
}

var (
	placeholderPattern  = regexp.MustCompile(`\{\{\{[^{].*?\}\}\}`)
	entityPattern       = regexp.MustCompile(`(?i)&[^;]*?;`)
	contractionPattern  = regexp.MustCompile(`(?i)` + altEscaped(contractions))
	dashDigitPattern    = regexp.MustCompile(`\d+(?:-\d+)+`)
	slashDigitPattern   = regexp.MustCompile(`\d[\d/]*\d`)
	digitRunPattern     = regexp.MustCompile(`\d+`)
	asciiPunctPattern   = regexp.MustCompile(`[!-/:-@\[-` + "`" + `{-~]`)
	unicodeWordPattern  = regexp.MustCompile(`\p{L}+`)
)

// patterns is the ordered list of splitting passes. Order is semantically
// significant: earlier passes claim their matches before later passes run,
// so e.g. entities are never subsequently carved up by the punctuation
// pass, and phone-number-like dash runs are never split into lone digits.
var patterns = []*regexp.Regexp{
	entityPattern,
	contractionPattern,
	dashDigitPattern,
	slashDigitPattern,
	digitRunPattern,
	asciiPunctPattern,
	unicodeWordPattern,
}

// placeholderPatterns is the same pass list with a leading pass that
// claims a whole "{{{...}}}" placeholder as one atomic token, so the
// brace and digit passes can never carve one up.
var placeholderPatterns = append([]*regexp.Regexp{placeholderPattern}, patterns...)

func altEscaped(words []string) string {
	out := "("
	for i, w := range words {
		if i > 0 {
			out += "|"
		}
		out += regexp.QuoteMeta(w)
	}
	return out + ")"
}

type piece struct {
	text     string
	finished bool
}

// Tokenize splits s into a loss-free sequence of tokens: concatenating
// the result always reproduces s exactly. Whitespace and any other
// character not claimed by one of the ordered patterns is emitted
// verbatim as its own token (or merged into an adjacent unclaimed run).
func Tokenize(s string) []string {
	return tokenize(s, patterns)
}

// TokenizePlaceholder splits like Tokenize, but keeps every "{{{...}}}"
// placeholder intact as a single token. Used by the placeholder-aware
// word matcher, where a placeholder stands in for a whole element node.
func TokenizePlaceholder(s string) []string {
	return tokenize(s, placeholderPatterns)
}

func tokenize(s string, patterns []*regexp.Regexp) []string {
	if s == "" {
		return nil
	}
	pieces := []piece{{text: s}}
	for _, re := range patterns {
		pieces = applyPattern(re, pieces)
	}
	out := make([]string, 0, len(pieces))
	for _, p := range pieces {
		out = append(out, p.text)
	}
	return out
}

func applyPattern(re *regexp.Regexp, pieces []piece) []piece {
	var out []piece
	for _, p := range pieces {
		if p.finished {
			out = append(out, p)
			continue
		}
		out = append(out, splitPiece(re, p.text)...)
	}
	return out
}

// splitPiece splits text into alternating unmatched/matched runs
// according to re, marking matched runs as finished.
func splitPiece(re *regexp.Regexp, text string) []piece {
	locs := re.FindAllStringIndex(text, -1)
	if locs == nil {
		return []piece{{text: text}}
	}
	var out []piece
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			out = append(out, piece{text: text[prev:loc[0]]})
		}
		out = append(out, piece{text: text[loc[0]:loc[1]], finished: true})
		prev = loc[1]
	}
	if prev < len(text) {
		out = append(out, piece{text: text[prev:]})
	}
	return out
}
