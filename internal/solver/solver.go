// Package solver invokes external parity-game solvers and captures their
// observable outcome: a text verdict extracted from standard output, or a
// process exit status. The solvers themselves are opaque executables; this
// package owns only the invocation contract and verdict extraction.
package solver

import (
	"context"
	"fmt"

	"github.com/pgsolve/paritydiff/internal/corpus"
)

// Mode selects which invocation/extraction protocol is in effect.
type Mode string

const (
	// ModeReport requests verbose parity-reporting output and extracts the
	// verdict from the text after the winner-announcement marker.
	ModeReport Mode = "report"

	// ModeStatus requests solve-only behavior and reads the verdict from
	// the process exit status.
	ModeStatus Mode = "status"
)

// ParseMode validates a mode string from the CLI or manifest.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeReport, ModeStatus:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q: must be %q or %q", s, ModeReport, ModeStatus)
	}
}

// Spec describes how to invoke one solver. The test-case path is always
// appended as the final argument, per the collaborator contract.
type Spec struct {
	// Name identifies the solver in reports ("reference", "oink", "lmc").
	Name string `yaml:"name"`

	// Path is the executable to spawn.
	Path string `yaml:"path"`

	// ReportArgs are the arguments for report mode (verbose output with a
	// winner announcement on stdout).
	ReportArgs []string `yaml:"report_args"`

	// SolveArgs are the arguments for status mode (solve only, winner
	// encoded in the exit status).
	SolveArgs []string `yaml:"solve_args"`
}

// Args returns the full argument list for one invocation of tc under mode.
func (s Spec) Args(tc corpus.TestCase, mode Mode) []string {
	base := s.ReportArgs
	if mode == ModeStatus {
		base = s.SolveArgs
	}
	args := make([]string, 0, len(base)+1)
	args = append(args, base...)
	return append(args, tc.Path)
}

// Result is the observable outcome of one invocation, tagged with the
// protocol that produced it. Exactly one field group is meaningful:
// Verdict in report mode, Status in status mode.
type Result struct {
	Protocol Mode

	// Verdict is the extracted text verdict. Empty when the marker was
	// absent from the output; that is a comparable "no verdict" value,
	// not an error.
	Verdict string

	// Status is the process exit status.
	Status int

	// Unrecognized marks a status outside the configured winner map.
	// Flagged in the report but still compared numerically.
	Unrecognized bool
}

// String renders the result for mismatch diagnostics.
func (r Result) String() string {
	if r.Protocol == ModeStatus {
		if r.Unrecognized {
			return fmt.Sprintf("exit status %d (unrecognized)", r.Status)
		}
		return fmt.Sprintf("exit status %d", r.Status)
	}
	if r.Verdict == "" {
		return "<no verdict>"
	}
	return fmt.Sprintf("%q", r.Verdict)
}

// InvocationError reports that a solver process could not be started.
// When raised by the pre-run probe it is fatal for the whole suite:
// neither solver can be trusted to run.
type InvocationError struct {
	Solver string
	Path   string
	Err    error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invoke %s solver %q: %v", e.Solver, e.Path, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Invoker runs one solver over one test case. It is the narrow seam
// between the comparator and real child processes, so the comparator and
// reporter can be exercised with recorded results.
type Invoker interface {
	Invoke(ctx context.Context, spec Spec, tc corpus.TestCase, mode Mode) (Result, error)
}
