package diff

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pgsolve/paritydiff/internal/corpus"
	"github.com/pgsolve/paritydiff/internal/solver"
)

// Summary is the aggregate result of one suite run.
type Summary struct {
	RunID     string
	Mode      solver.Mode
	Total     int
	Passed    int
	Failed    int
	StartedAt time.Time
	Duration  time.Duration
}

// AllMatched reports whether the run reached the terminal success state.
func (s Summary) AllMatched() bool {
	return s.Failed == 0
}

// Suite runs the differential comparison over an enumerated corpus.
type Suite struct {
	Manifest solver.Manifest
	Invoker  solver.Invoker
	Mode     solver.Mode

	// Jobs bounds the worker pool over test cases. Values below 1 run
	// sequentially. The two invocations within a case always run
	// concurrently; they are independent child processes.
	Jobs int

	// Reporter receives outcomes strictly in enumeration order.
	Reporter *Reporter

	Logger *slog.Logger
}

// Run executes the whole suite. Enumeration always runs to completion —
// there is no early abort on first mismatch, so every divergence is
// reported in one pass. Outcomes are returned in enumeration order.
//
// The returned error is non-nil only for run-level failures (context
// cancellation); per-case invocation failures are recorded in their
// outcome and counted as failed.
func (s *Suite) Run(ctx context.Context, cases []corpus.TestCase) (Summary, []Outcome, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	summary := Summary{
		RunID:     uuid.NewString(),
		Mode:      s.Mode,
		Total:     len(cases),
		StartedAt: time.Now(),
	}

	logger.Info("suite started",
		"run_id", summary.RunID,
		"mode", string(s.Mode),
		"cases", len(cases),
		"reference", s.Manifest.Reference.Path,
		"candidate", s.Manifest.Candidate.Path,
	)

	outcomes := make([]Outcome, len(cases))
	jobs := s.Jobs
	if jobs < 1 {
		jobs = 1
	}
	if jobs > len(cases) {
		jobs = len(cases)
	}

	indices := make(chan int)
	completed := make(chan int)

	var workers sync.WaitGroup
	for w := 0; w < jobs; w++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			for idx := range indices {
				outcomes[idx] = s.runCase(ctx, cases[idx])
				completed <- idx
			}
		}()
	}

	// Flush outcomes in enumeration order so diagnostics stay reproducible
	// regardless of worker scheduling.
	var flusher sync.WaitGroup
	flusher.Add(1)
	go func() {
		defer flusher.Done()
		next := 0
		pending := make(map[int]bool)
		for idx := range completed {
			pending[idx] = true
			for pending[next] {
				delete(pending, next)
				if s.Reporter != nil {
					s.Reporter.Case(outcomes[next])
				}
				next++
			}
		}
	}()

	var runErr error
dispatch:
	for idx := range cases {
		if err := ctx.Err(); err != nil {
			runErr = err
			// Undispatched cases are reported as cancelled failures so the
			// tally never mistakes an aborted run for a passing one.
			for rest := idx; rest < len(cases); rest++ {
				outcomes[rest] = Outcome{Case: cases[rest], Err: err}
				completed <- rest
			}
			break dispatch
		}
		indices <- idx
	}
	close(indices)
	workers.Wait()
	close(completed)
	flusher.Wait()

	for _, outcome := range outcomes {
		if outcome.Matched {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}
	summary.Duration = time.Since(summary.StartedAt)

	if s.Reporter != nil {
		s.Reporter.Summary(summary)
	}

	logger.Info("suite finished",
		"run_id", summary.RunID,
		"passed", summary.Passed,
		"failed", summary.Failed,
		"duration", summary.Duration,
	)

	return summary, outcomes, runErr
}

// runCase obtains exactly one result from each solver. The two
// invocations are independent and run concurrently.
func (s *Suite) runCase(ctx context.Context, tc corpus.TestCase) Outcome {
	var (
		ref, cand       solver.Result
		refErr, candErr error
		wg              sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		ref, refErr = s.Invoker.Invoke(ctx, s.Manifest.Reference, tc, s.Mode)
	}()
	go func() {
		defer wg.Done()
		cand, candErr = s.Invoker.Invoke(ctx, s.Manifest.Candidate, tc, s.Mode)
	}()
	wg.Wait()

	if refErr != nil {
		return Outcome{Case: tc, Cand: cand, Err: refErr}
	}
	if candErr != nil {
		return Outcome{Case: tc, Ref: ref, Err: candErr}
	}

	return Compare(tc, ref, cand)
}
