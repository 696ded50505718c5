package golden

import (
	"strings"
	"testing"
)

func TestParseTestCase(t *testing.T) {
	src := strings.Join([]string{
		"appends a heading",
		"---",
		"<h1>one</h1>",
		"---",
		"<h1>one</h1><h2>two</h2>",
		"---",
		"<h1>one</h1><ins><h2>two</h2></ins>",
		"---",
	}, "\n")

	c, err := ParseTestCase(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseTestCase() error = %v", err)
	}
	if c.Description != "appends a heading" {
		t.Fatalf("Description = %q", c.Description)
	}
	if c.Old != "<h1>one</h1>" {
		t.Fatalf("Old = %q", c.Old)
	}
	if c.New != "<h1>one</h1><h2>two</h2>" {
		t.Fatalf("New = %q", c.New)
	}
	if c.Expected != "<h1>one</h1><ins><h2>two</h2></ins>" {
		t.Fatalf("Expected = %q", c.Expected)
	}
}

func TestTesterRunPass(t *testing.T) {
	src := strings.Join([]string{
		"appends a heading",
		"---",
		"<h1>one</h1>",
		"---",
		"<h1>one</h1><h2>two</h2>",
		"---",
		"<h1>one</h1><ins><h2>two</h2></ins>",
		"---",
	}, "\n")
	c, err := ParseTestCase(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseTestCase() error = %v", err)
	}

	tester := &Tester{
		Cases: []*TestCaseWithMetadata{{TestCase: c, FilePath: "inline"}},
	}
	results := tester.Run()
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].Error != nil {
		t.Fatalf("Run() result.Error = %v, want nil: %v", results[0].Error, results[0])
	}
}

func TestTesterRunReportsMismatch(t *testing.T) {
	src := strings.Join([]string{
		"wrong expectation on purpose",
		"---",
		"<h1>one</h1>",
		"---",
		"<h1>one</h1><h2>two</h2>",
		"---",
		"<h1>one</h1>",
		"---",
	}, "\n")
	c, err := ParseTestCase(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseTestCase() error = %v", err)
	}

	tester := &Tester{
		Cases: []*TestCaseWithMetadata{{TestCase: c, FilePath: "inline"}},
	}
	results := tester.Run()
	if results[0].Error == nil {
		t.Fatalf("Run() result.Error = nil, want a mismatch error")
	}
	if len(results[0].Diffs) == 0 {
		t.Fatalf("Run() result.Diffs is empty, want at least one tree diff")
	}
}
