package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pgsolve/paritydiff/internal/diff"
)

// WriteRun records one suite run and all of its case outcomes in a single
// transaction. The run ID comes from the summary; writing the same run
// twice is silently ignored for idempotency.
func (s *Store) WriteRun(ctx context.Context, summary diff.Summary, outcomes []diff.Outcome) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, started_at, mode, total, passed, failed, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		summary.RunID,
		summary.StartedAt.UTC().Format(time.RFC3339Nano),
		string(summary.Mode),
		summary.Total,
		summary.Passed,
		summary.Failed,
		summary.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	for i, outcome := range outcomes {
		errText := ""
		if outcome.Err != nil {
			errText = outcome.Err.Error()
		}
		unrecognized := outcome.Ref.Unrecognized || outcome.Cand.Unrecognized

		_, err = tx.ExecContext(ctx, `
			INSERT INTO case_results
			(run_id, position, case_path, matched, ref_verdict, cand_verdict,
			 ref_status, cand_status, unrecognized, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(run_id, position) DO NOTHING
		`,
			summary.RunID,
			i,
			outcome.Case.Path,
			outcome.Matched,
			outcome.Ref.Verdict,
			outcome.Cand.Verdict,
			outcome.Ref.Status,
			outcome.Cand.Status,
			unrecognized,
			errText,
		)
		if err != nil {
			return fmt.Errorf("write case result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}
