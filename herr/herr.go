// Package herr defines the typed error hierarchy surfaced at the package's
// public boundary: small structs wrapping a cause plus positional context,
// with a custom Error() and an Unwrap() so callers can use
// errors.As/errors.Is. It is named herr, not error, so that
// package-qualified references (herr.ParseError) never shadow the builtin
// error interface for importers.
package herr

import "fmt"

// ParseError reports input the lenient HTML (or strict XML) parser could
// not interpret, even after the synthetic-body wrapping the HTML path
// applies. Offset is the byte offset of the offending input when the
// underlying parser supplies one, else -1.
type ParseError struct {
	Cause  error
	Offset int
}

func (e *ParseError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("parse error: %v", e.Cause)
	}
	return fmt.Sprintf("parse error at byte %d: %v", e.Offset, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// LocationError reports an edit-script entry whose Location addresses a
// child index that does not exist in the tree being walked. This always
// indicates a bug in the differ or a hand-authored script, never bad input.
type LocationError struct {
	Location []int
	Action   string // "delete" or "insert"
	Cause    error
}

func (e *LocationError) Error() string {
	return fmt.Sprintf("%s at location %v: %v", e.Action, e.Location, e.Cause)
}

func (e *LocationError) Unwrap() error { return e.Cause }

// PropsError reports a malformed NodeProperties payload: an Element entry
// missing NodeName, or a Text entry missing NodeValue.
type PropsError struct {
	NodeType int
	Detail   string
}

func (e *PropsError) Error() string {
	return fmt.Sprintf("invalid node properties (type %d): %s", e.NodeType, e.Detail)
}

// InternalError wraps a panic recovered at the façade boundary: an
// assertion inside the differ or markup builder failed (overlapping merged
// blocks, inconsistent node ownership, or similar). These are bugs, not
// caller mistakes, but the public API never panics, so they are converted
// here.
type InternalError struct {
	Cause error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %v", e.Cause)
}

func (e *InternalError) Unwrap() error { return e.Cause }
