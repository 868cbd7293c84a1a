// Package testutil provides deterministic test doubles for the harness.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/pgsolve/paritydiff/internal/corpus"
	"github.com/pgsolve/paritydiff/internal/solver"
)

// FakeInvoker replays recorded solver results instead of spawning child
// processes. It lets the comparator, suite runner, and CLI be tested
// without real executables.
//
// Thread-safety: all methods are safe for concurrent use, so suites under
// a worker pool can share one fake.
type FakeInvoker struct {
	mu      sync.Mutex
	results map[string]solver.Result
	errs    map[string]error
	calls   []string
}

// NewFakeInvoker creates an empty fake. Unscripted invocations fail, so a
// test can't silently pass on a missing recording.
func NewFakeInvoker() *FakeInvoker {
	return &FakeInvoker{
		results: make(map[string]solver.Result),
		errs:    make(map[string]error),
	}
}

func key(solverName, casePath string, mode solver.Mode) string {
	return fmt.Sprintf("%s|%s|%s", solverName, casePath, mode)
}

// Record scripts the result for one (solver, case, mode) invocation.
func (f *FakeInvoker) Record(solverName, casePath string, mode solver.Mode, res solver.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[key(solverName, casePath, mode)] = res
}

// RecordVerdict scripts a report-mode text verdict.
func (f *FakeInvoker) RecordVerdict(solverName, casePath, verdict string) {
	f.Record(solverName, casePath, solver.ModeReport, solver.Result{
		Protocol: solver.ModeReport,
		Verdict:  verdict,
	})
}

// RecordStatus scripts a status-mode exit status.
func (f *FakeInvoker) RecordStatus(solverName, casePath string, status int, unrecognized bool) {
	f.Record(solverName, casePath, solver.ModeStatus, solver.Result{
		Protocol:     solver.ModeStatus,
		Status:       status,
		Unrecognized: unrecognized,
	})
}

// RecordError scripts an invocation failure.
func (f *FakeInvoker) RecordError(solverName, casePath string, mode solver.Mode, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[key(solverName, casePath, mode)] = err
}

// Invoke implements solver.Invoker by replaying the scripted outcome.
func (f *FakeInvoker) Invoke(_ context.Context, spec solver.Spec, tc corpus.TestCase, mode solver.Mode) (solver.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	k := key(spec.Name, tc.Path, mode)
	f.calls = append(f.calls, k)

	if err, ok := f.errs[k]; ok {
		return solver.Result{}, err
	}
	if res, ok := f.results[k]; ok {
		return res, nil
	}
	return solver.Result{}, fmt.Errorf("unscripted invocation: %s", k)
}

// Calls returns the invocation keys in call order.
func (f *FakeInvoker) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}
