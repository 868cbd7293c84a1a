package diff

import (
	"fmt"
	"io"
)

// Reporter emits exactly one human-readable line per test case, in
// enumeration order, plus a final summary. Mismatch lines include both
// raw results so the reader can tell a solver divergence from a harness
// artifact such as a missing marker.
type Reporter struct {
	W io.Writer
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{W: w}
}

// Case reports one comparison outcome.
func (r *Reporter) Case(o Outcome) {
	name := o.Case.Name()

	if o.Err != nil {
		fmt.Fprintf(r.W, "✗ %s\n", name)
		fmt.Fprintf(r.W, "  invocation failed: %v\n", o.Err)
		return
	}

	if o.Matched {
		fmt.Fprintf(r.W, "✓ %s\n", name)
		r.flagUnrecognized(o)
		return
	}

	fmt.Fprintf(r.W, "✗ %s\n", name)
	fmt.Fprintf(r.W, "  reference: %s\n", o.Ref)
	fmt.Fprintf(r.W, "  candidate: %s\n", o.Cand)
	r.flagUnrecognized(o)
}

func (r *Reporter) flagUnrecognized(o Outcome) {
	if o.Ref.Unrecognized {
		fmt.Fprintf(r.W, "  warning: reference exit status %d has no configured winner mapping\n", o.Ref.Status)
	}
	if o.Cand.Unrecognized {
		fmt.Fprintf(r.W, "  warning: candidate exit status %d has no configured winner mapping\n", o.Cand.Status)
	}
}

// Summary reports the suite-level tally.
func (r *Reporter) Summary(s Summary) {
	fmt.Fprintln(r.W)
	fmt.Fprintf(r.W, "Suite: %d passed, %d failed, %d total\n", s.Passed, s.Failed, s.Total)
	if s.AllMatched() {
		fmt.Fprintln(r.W, "✓ All cases matched")
	}
}
