package store

import (
	"context"
	"fmt"
	"time"
)

// RunRecord is one persisted suite run.
type RunRecord struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Mode      string        `json:"mode"`
	Total     int           `json:"total"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

// CaseRecord is one persisted case outcome.
type CaseRecord struct {
	Position     int    `json:"position"`
	CasePath     string `json:"case_path"`
	Matched      bool   `json:"matched"`
	RefVerdict   string `json:"ref_verdict,omitempty"`
	CandVerdict  string `json:"cand_verdict,omitempty"`
	RefStatus    int    `json:"ref_status"`
	CandStatus   int    `json:"cand_status"`
	Unrecognized bool   `json:"unrecognized,omitempty"`
	Error        string `json:"error,omitempty"`
}

// ListRuns returns all recorded runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, mode, total, passed, failed, duration_ms
		FROM runs
		ORDER BY started_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var (
			rec        RunRecord
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&rec.ID, &startedAt, &rec.Mode, &rec.Total, &rec.Passed, &rec.Failed, &durationMS); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("list runs: parse started_at: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// ReadCases returns the case outcomes of one run in enumeration order.
func (s *Store) ReadCases(ctx context.Context, runID string) ([]CaseRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, case_path, matched, ref_verdict, cand_verdict,
		       ref_status, cand_status, unrecognized, error
		FROM case_results
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read cases: %w", err)
	}
	defer rows.Close()

	var cases []CaseRecord
	for rows.Next() {
		var rec CaseRecord
		if err := rows.Scan(&rec.Position, &rec.CasePath, &rec.Matched,
			&rec.RefVerdict, &rec.CandVerdict,
			&rec.RefStatus, &rec.CandStatus,
			&rec.Unrecognized, &rec.Error); err != nil {
			return nil, fmt.Errorf("read cases: scan: %w", err)
		}
		cases = append(cases, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read cases: %w", err)
	}
	return cases, nil
}
