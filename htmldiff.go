// Package htmltreediff computes a structural diff between two HTML (or
// XML) documents and renders it as a single document with added subtrees
// wrapped in <ins> and removed subtrees wrapped in <del>. It orchestrates
// the lower-level packages in this module: parse (htmlparse/xmlparse) →
// similarity gate (similarity) → diff (differ) → apply (runner) → markup
// (markup) → serialize.
package htmltreediff

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/christian-oudard/htmltreediff/differ"
	"github.com/christian-oudard/htmltreediff/dom"
	"github.com/christian-oudard/htmltreediff/herr"
	"github.com/christian-oudard/htmltreediff/htmlparse"
	"github.com/christian-oudard/htmltreediff/markup"
	"github.com/christian-oudard/htmltreediff/runner"
	"github.com/christian-oudard/htmltreediff/similarity"
	"github.com/christian-oudard/htmltreediff/textdiff"
	"github.com/christian-oudard/htmltreediff/xmlparse"
)

// SentinelMessage is returned in place of a real diff when the two
// documents' tree text similarity falls below the configured cutoff: it
// is a valid, successful output, not an error.
const SentinelMessage = "<h2>The differences from the previous version are too large to show concisely.</h2>"

// DefaultTextCutoff is the adjusted-text-ratio threshold TextDiff callers
// use unless they have a reason to pick their own.
const DefaultTextCutoff = textdiff.DefaultCutoff

type options struct {
	cutoff float64
	html   bool
	pretty bool
}

// Option configures Diff and DiffAll.
type Option func(*options)

// WithCutoff sets the similarity-gate threshold (tree_text_ratio, see
// package similarity), in [0,1]. The default is 0.0, which never gates.
func WithCutoff(cutoff float64) Option {
	return func(o *options) { o.cutoff = cutoff }
}

// WithHTML selects HTML mode (the default): lenient parsing plus
// list/table repair and text-only change detection in the markup pass.
func WithHTML(html bool) Option {
	return func(o *options) { o.html = html }
}

// WithXML selects strict XML mode: namespaceless encoding/xml parsing,
// and the markup pass skips every HTML-specific repair.
func WithXML() Option {
	return func(o *options) { o.html = false }
}

// WithPretty selects indented output (two-space indent per depth level,
// newline between siblings) instead of the default compact single line.
func WithPretty(pretty bool) Option {
	return func(o *options) { o.pretty = pretty }
}

func resolveOptions(opts []Option) options {
	o := options{cutoff: 0.0, html: true, pretty: false}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Diff computes the structural diff between oldHTML and newHTML and
// returns the serialized contents of the document body (no <body>
// wrapper, no XML declaration), with changes wrapped in <ins>/<del>. If
// the documents' tree text similarity falls below the configured cutoff,
// it returns SentinelMessage with a nil error.
func Diff(oldHTML, newHTML string, opts ...Option) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &herr.InternalError{Cause: fmt.Errorf("%v", r)}
		}
	}()

	o := resolveOptions(opts)

	oldRoot, newRoot, err := parseBoth(oldHTML, newHTML, o.html)
	if err != nil {
		return "", err
	}

	if similarity.TreeTextRatio(oldRoot, newRoot) < o.cutoff {
		return SentinelMessage, nil
	}

	script := differ.Diff(oldRoot, newRoot)
	res, err := runner.Run(oldRoot, script)
	if err != nil {
		return "", err
	}
	changed := markup.Build(res, o.html)

	return serialize(changed, o.html, o.pretty), nil
}

func parseBoth(oldHTML, newHTML string, html bool) (*dom.Node, *dom.Node, error) {
	if html {
		oldRoot, err := htmlparse.Parse(oldHTML)
		if err != nil {
			return nil, nil, err
		}
		newRoot, err := htmlparse.Parse(newHTML)
		if err != nil {
			return nil, nil, err
		}
		return oldRoot, newRoot, nil
	}
	oldRoot, err := xmlparse.Parse(oldHTML)
	if err != nil {
		return nil, nil, err
	}
	newRoot, err := xmlparse.Parse(newHTML)
	if err != nil {
		return nil, nil, err
	}
	return oldRoot, newRoot, nil
}

func serialize(root *dom.Node, html, pretty bool) string {
	if html {
		return htmlparse.Serialize(root, pretty)
	}
	return xmlparse.Serialize(root, pretty)
}

// TextDiff exposes the word-granular text differ directly, for callers
// diffing plain text rather than markup.
func TextDiff(oldText, newText string, cutoff float64) string {
	return textdiff.Diff(oldText, newText, cutoff)
}

// Pair is one (old, new) document pair passed to DiffAll.
type Pair struct {
	Old string
	New string
}

// Result is one DiffAll outcome. It carries no index of its own: DiffAll
// stores each Result at the same index as its Pair in the input slice.
type Result struct {
	Output string
	Err    error
}

// DiffAll runs Diff over every pair concurrently, bounded by
// runtime.GOMAXPROCS(0) workers, preserving input order in the returned
// slice. It returns the first worker error (if any). Once ctx is done,
// pairs whose diff has not started yet are skipped and keep a zero Result;
// diffs already running are not interrupted and still record their Result.
func DiffAll(ctx context.Context, pairs []Pair, opts ...Option) ([]Result, error) {
	results := make([]Result, len(pairs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := Diff(pair.Old, pair.New, opts...)
			results[i] = Result{Output: out, Err: err}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
