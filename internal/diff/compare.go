// Package diff compares reference and candidate solver verdicts over a
// corpus and aggregates per-case outcomes into a suite-level result.
//
// The comparison contract is deliberately strict: report-mode verdicts
// must agree byte-for-byte (no whitespace normalization beyond what
// extraction performs) and status-mode verdicts must be numerically
// identical. Mismatch reporting always includes both raw results so a
// human can tell a real solver divergence from an extraction artifact.
package diff

import (
	"github.com/pgsolve/paritydiff/internal/corpus"
	"github.com/pgsolve/paritydiff/internal/solver"
)

// Outcome is the comparison result for one test case. Exactly one Outcome
// exists per enumerated case.
type Outcome struct {
	Case    corpus.TestCase
	Matched bool

	// Ref and Cand are the raw solver results, kept for diagnostics.
	Ref  solver.Result
	Cand solver.Result

	// Err records a per-case invocation failure. A case that failed to
	// run is never confused with a passing case: Matched is false.
	Err error
}

// Compare normalizes both results into their canonical verdicts and
// checks them for exact equality under the protocol that produced them.
func Compare(tc corpus.TestCase, ref, cand solver.Result) Outcome {
	matched := false
	if ref.Protocol == cand.Protocol {
		switch ref.Protocol {
		case solver.ModeStatus:
			matched = ref.Status == cand.Status
		default:
			matched = ref.Verdict == cand.Verdict
		}
	}

	return Outcome{
		Case:    tc,
		Matched: matched,
		Ref:     ref,
		Cand:    cand,
	}
}
