package token

import (
	"strings"
	"testing"
)

func TestTokenizeIsLossFree(t *testing.T) {
	inputs := []string{
		"",
		"hello world",
		"it's a don't-miss event, 555-123-4567 or 12/31/2020!",
		"&nbsp;&amp;&#160;",
		"multiple   spaces\tand\nnewlines",
		"naïve café 日本語",
	}
	for _, s := range inputs {
		toks := Tokenize(s)
		if got := strings.Join(toks, ""); got != s {
			t.Fatalf("Tokenize(%q) lost data: got %q", s, got)
		}
	}
}

func TestTokenizeKeepsContractionsWhole(t *testing.T) {
	toks := Tokenize("don't")
	found := false
	for _, tok := range toks {
		if strings.EqualFold(tok, "don't") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected contraction kept whole, got %v", toks)
	}
}

func TestTokenizeEntityNotSplit(t *testing.T) {
	toks := Tokenize("a&amp;b")
	want := []string{"a", "&amp;", "b"}
	if len(toks) != len(want) {
		t.Fatalf("Tokenize = %v, want %v", toks, want)
	}
	for i := range want {
		if toks[i] != want[i] {
			t.Fatalf("Tokenize = %v, want %v", toks, want)
		}
	}
}

func TestTokenizeDashDigitsKeptTogether(t *testing.T) {
	toks := Tokenize("555-123-4567")
	if len(toks) != 1 || toks[0] != "555-123-4567" {
		t.Fatalf("Tokenize(phone) = %v, want single token", toks)
	}
}

func TestTokenizeSlashDigitsKeptTogether(t *testing.T) {
	toks := Tokenize("12/31/2020")
	if len(toks) != 1 || toks[0] != "12/31/2020" {
		t.Fatalf("Tokenize(date) = %v, want single token", toks)
	}
}

func TestTokenizePlaceholderKeptAtomic(t *testing.T) {
	toks := TokenizePlaceholder("one {{{0}}} two")
	want := []string{"one", " ", "{{{0}}}", " ", "two"}
	if len(toks) != len(want) {
		t.Fatalf("TokenizePlaceholder = %v, want %v", toks, want)
	}
	for i := range want {
		if toks[i] != want[i] {
			t.Fatalf("TokenizePlaceholder = %v, want %v", toks, want)
		}
	}
}

func TestTokenizePlaceholderIsLossFree(t *testing.T) {
	inputs := []string{
		"{{{0}}}",
		"a{{{12}}}b {{{3}}}",
		"unmatched {{ braces }} stay ordinary",
	}
	for _, s := range inputs {
		toks := TokenizePlaceholder(s)
		if got := strings.Join(toks, ""); got != s {
			t.Fatalf("TokenizePlaceholder(%q) lost data: got %q", s, got)
		}
	}
}
