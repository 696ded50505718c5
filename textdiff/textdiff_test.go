package textdiff

import "testing"

func TestDiffScenario(t *testing.T) {
	old := "The quick brown fox jumps over the lazy dog."
	new := "The very quick brown foxes jump over the dog."
	got := Diff(old, new, DefaultCutoff)
	want := "The <ins>very </ins>quick brown <del>fox jumps</del><ins>foxes jump</ins> over the<del> lazy</del> dog."
	if got != want {
		t.Fatalf("Diff() = %q, want %q", got, want)
	}
}

func TestDiffBelowCutoffReplacesWhole(t *testing.T) {
	old := "totally unrelated sentence here"
	new := "xyz zzz qqq www"
	got := Diff(old, new, 0.9)
	want := wrap(old, "del") + wrap(new, "ins")
	if got != want {
		t.Fatalf("Diff() = %q, want %q", got, want)
	}
}

func TestDiffIdentical(t *testing.T) {
	s := "no changes here"
	if got := Diff(s, s, DefaultCutoff); got != s {
		t.Fatalf("Diff() = %q, want %q", got, s)
	}
}

func TestTextRatioWeightsByLength(t *testing.T) {
	m := NewWordMatcher("abcdef12", "abcdef34")
	if r := m.TextRatio(); r < 0.74 || r > 0.76 {
		t.Fatalf("TextRatio() = %v, want ~0.75", r)
	}
}

func TestAdjustedTextRatioIgnoresLengthMismatch(t *testing.T) {
	m := NewWordMatcher("abcd", "abcd1234")
	if r := m.AdjustedTextRatio(); r != 1.0 {
		t.Fatalf("AdjustedTextRatio() = %v, want 1.0", r)
	}
}

func TestPlaceholderExcludedFromRatio(t *testing.T) {
	m := NewPlaceholderMatcher("one {{{0}}} two", "one {{{1}}} two")
	// Placeholders carry zero weight, so two texts differing only in which
	// element they embed still count as identical.
	if r := m.TextRatio(); r != 1.0 {
		t.Fatalf("TextRatio() = %v, want 1.0", r)
	}
}

func TestDiffPlaceholderKeepsPlaceholderWhole(t *testing.T) {
	got := DiffPlaceholder("a {{{0}}} b", "a {{{1}}} b", DefaultCutoff)
	want := "a <del>{{{0}}}</del><ins>{{{1}}}</ins> b"
	if got != want {
		t.Fatalf("DiffPlaceholder() = %q, want %q", got, want)
	}
}
