package diff

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/pgsolve/paritydiff/internal/corpus"
)

// TestReport_Golden locks the per-case report format. Regenerate with:
//
//	go test ./internal/diff -run TestReport_Golden -update
func TestReport_Golden(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out)

	r.Case(Compare(corpus.TestCase{Path: "inputs/a.gm"},
		report("won by 0: 0 2\n"),
		report("won by 0: 0 2\n")))
	r.Case(Compare(corpus.TestCase{Path: "inputs/b.gm"},
		report("won by 1: 1 3\n"),
		report("won by 0: 0 2\n")))
	r.Case(Compare(corpus.TestCase{Path: "inputs/c.gm"},
		report(""),
		report("")))
	r.Summary(Summary{Total: 3, Passed: 2, Failed: 1})

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "report_mixed", out.Bytes())
}

func TestReport_EmptyVerdictRendering(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out)

	r.Case(Compare(corpus.TestCase{Path: "a.gm"},
		report("won by 0\n"),
		report("")))

	// An empty extraction is shown distinctly so a missing marker is
	// diagnosable as a harness artifact rather than a solver answer.
	assert.Contains(t, out.String(), "candidate: <no verdict>")
}

func TestReport_StatusSummaryAllMatched(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out)
	r.Summary(Summary{Total: 2, Passed: 2, Failed: 0})

	assert.Contains(t, out.String(), "Suite: 2 passed, 0 failed, 2 total")
	assert.Contains(t, out.String(), "✓ All cases matched")
}
