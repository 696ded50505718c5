// Package golden is a file-fixture regression runner for Diff: a directory
// of "---"-delimited *.case files, each describing an (old, new, expected)
// triple, run through Diff and compared against the expected markup with
// path-annotated tree-diff diagnostics rather than a raw string compare,
// so that formatting differences that do not change tree structure never
// fail a case.
package golden

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	htmltreediff "github.com/christian-oudard/htmltreediff"
	"github.com/christian-oudard/htmltreediff/dom"
	"github.com/christian-oudard/htmltreediff/htmlparse"
)

// TestCase is one fixture: a description, an (old, new) document pair,
// and the expected change markup.
type TestCase struct {
	Description string
	Old         string
	New         string
	Expected    string
}

// TestCaseWithMetadata pairs a parsed TestCase with the file it came from
// and any error encountered while reading or parsing it.
type TestCaseWithMetadata struct {
	TestCase *TestCase
	FilePath string
	Error    error
}

// ListTestCases collects every *.case fixture under testPath (itself, if
// it is a single file; recursively, if it is a directory).
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{{FilePath: testPath, Error: err}}
	}
	if !fi.IsDir() {
		c, err := parseTestCaseFile(testPath)
		return []*TestCaseWithMetadata{{TestCase: c, FilePath: testPath, Error: err}}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{{FilePath: testPath, Error: err}}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		full := filepath.Join(testPath, e.Name())
		if e.IsDir() {
			cases = append(cases, ListTestCases(full)...)
			continue
		}
		if filepath.Ext(e.Name()) != ".case" {
			continue
		}
		cases = append(cases, ListTestCases(full)...)
	}
	return cases
}

func parseTestCaseFile(path string) (*TestCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTestCase(f)
}

// ParseTestCase reads a fixture of the form:
//
//	description
//	---
//	old document
//	---
//	new document
//	---
//	expected change markup
func ParseTestCase(r io.Reader) (*TestCase, error) {
	parts, err := splitIntoParts(r)
	if err != nil {
		return nil, err
	}
	if len(parts) != 4 {
		return nil, fmt.Errorf("too many or too few part delimiters: a case file consists of description/old/new/expected: %v parts found", len(parts))
	}
	return &TestCase{
		Description: string(parts[0]),
		Old:         string(parts[1]),
		New:         string(parts[2]),
		Expected:    string(parts[3]),
	}, nil
}

var reDelim = regexp.MustCompile(`^\s*---+\s*$`)

func splitIntoParts(r io.Reader) ([][]byte, error) {
	var parts [][]byte
	s := bufio.NewScanner(r)
	for {
		buf, err := readPart(s)
		if err != nil {
			return nil, err
		}
		if buf == nil {
			break
		}
		parts = append(parts, buf)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return parts, nil
}

func readPart(s *bufio.Scanner) ([]byte, error) {
	if !s.Scan() {
		return nil, s.Err()
	}
	buf := &bytes.Buffer{}
	line := s.Bytes()
	if reDelim.Match(line) {
		return []byte{}, nil
	}
	buf.Write(line)
	for s.Scan() {
		line := s.Bytes()
		if reDelim.Match(line) {
			return buf.Bytes(), nil
		}
		buf.WriteByte('\n')
		buf.Write(line)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TreeDiff is one point of structural disagreement between the expected
// and actual output, annotated with the child-index path to the node
// where the disagreement was found.
type TreeDiff struct {
	ExpectedPath string
	ActualPath   string
	Message      string
}

func newTreeDiff(path string, message string) *TreeDiff {
	return &TreeDiff{ExpectedPath: path, ActualPath: path, Message: message}
}

// DiffTree compares two already-parsed trees node by node, descending in
// document order, and reports every point of disagreement along with the
// location path at which it was found.
func DiffTree(expected, actual *dom.Node) []*TreeDiff {
	return diffTreeAt(expected, actual, "root")
}

func diffTreeAt(expected, actual *dom.Node, path string) []*TreeDiff {
	if expected == nil && actual == nil {
		return nil
	}
	if expected == nil || actual == nil {
		return []*TreeDiff{newTreeDiff(path, "one side is missing a node the other has")}
	}
	if expected.Type != actual.Type {
		return []*TreeDiff{newTreeDiff(path, fmt.Sprintf("unexpected node type: expected %v but got %v", expected.Type, actual.Type))}
	}
	if expected.IsText() {
		if strings.TrimSpace(expected.Value) != strings.TrimSpace(actual.Value) {
			return []*TreeDiff{newTreeDiff(path, fmt.Sprintf("unexpected text: expected %q but got %q", expected.Value, actual.Value))}
		}
		return nil
	}
	if expected.Name != actual.Name {
		return []*TreeDiff{newTreeDiff(path, fmt.Sprintf("unexpected tag: expected <%v> but got <%v>", expected.Name, actual.Name))}
	}
	if len(expected.Children) != len(actual.Children) {
		return []*TreeDiff{newTreeDiff(path, fmt.Sprintf("unexpected child count in <%v>: expected %v but got %v", expected.Name, len(expected.Children), len(actual.Children)))}
	}
	var diffs []*TreeDiff
	for i, exp := range expected.Children {
		childPath := fmt.Sprintf("%v.[%v]%v", path, i, describeNode(exp))
		diffs = append(diffs, diffTreeAt(exp, actual.Children[i], childPath)...)
	}
	return diffs
}

func describeNode(n *dom.Node) string {
	if n.IsText() {
		return "#text"
	}
	return n.Name
}

// TestResult is the outcome of running one TestCase.
type TestResult struct {
	TestCasePath string
	Error        error
	Diffs        []*TreeDiff
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", r.TestCasePath, indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		var diffLines []string
		for _, d := range r.Diffs {
			diffLines = append(diffLines, d.Message)
			diffLines = append(diffLines, fmt.Sprintf("%vpath: %v", indent1, d.ActualPath))
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v", r.TestCasePath)
}

// Tester runs a batch of fixture cases through Diff and reports per-case
// results.
type Tester struct {
	Cases []*TestCaseWithMetadata
	Opts  []htmltreediff.Option
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		rs = append(rs, t.runOne(c))
	}
	return rs
}

func (t *Tester) runOne(c *TestCaseWithMetadata) *TestResult {
	if c.Error != nil {
		return &TestResult{TestCasePath: c.FilePath, Error: c.Error}
	}

	got, err := htmltreediff.Diff(c.TestCase.Old, c.TestCase.New, t.Opts...)
	if err != nil {
		return &TestResult{TestCasePath: c.FilePath, Error: err}
	}

	expectedTree, err := htmlparse.Parse(c.TestCase.Expected)
	if err != nil {
		return &TestResult{TestCasePath: c.FilePath, Error: fmt.Errorf("expected output does not parse: %w", err)}
	}
	actualTree, err := htmlparse.Parse(got)
	if err != nil {
		return &TestResult{TestCasePath: c.FilePath, Error: fmt.Errorf("actual output does not parse: %w", err)}
	}

	diffs := DiffTree(expectedTree, actualTree)
	if len(diffs) > 0 {
		return &TestResult{TestCasePath: c.FilePath, Error: fmt.Errorf("output mismatch"), Diffs: diffs}
	}
	return &TestResult{TestCasePath: c.FilePath}
}
