package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgsolve/paritydiff/internal/corpus"
	"github.com/pgsolve/paritydiff/internal/diff"
	"github.com/pgsolve/paritydiff/internal/solver"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleRun() (diff.Summary, []diff.Outcome) {
	summary := diff.Summary{
		RunID:     "run-001",
		Mode:      solver.ModeReport,
		Total:     2,
		Passed:    1,
		Failed:    1,
		StartedAt: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
	}
	outcomes := []diff.Outcome{
		{
			Case:    corpus.TestCase{Path: "inputs/a.gm"},
			Matched: true,
			Ref:     solver.Result{Protocol: solver.ModeReport, Verdict: "won by 0\n"},
			Cand:    solver.Result{Protocol: solver.ModeReport, Verdict: "won by 0\n"},
		},
		{
			Case: corpus.TestCase{Path: "inputs/b.gm"},
			Ref:  solver.Result{Protocol: solver.ModeReport, Verdict: "won by 1\n"},
			Cand: solver.Result{Protocol: solver.ModeReport, Verdict: "won by 0\n"},
		},
	}
	return summary, outcomes
}

func TestWriteRun_RoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	summary, outcomes := sampleRun()
	require.NoError(t, st.WriteRun(ctx, summary, outcomes))

	runs, err := st.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-001", runs[0].ID)
	assert.Equal(t, "report", runs[0].Mode)
	assert.Equal(t, 2, runs[0].Total)
	assert.Equal(t, 1, runs[0].Failed)
	assert.Equal(t, 1500*time.Millisecond, runs[0].Duration)
	assert.Equal(t, summary.StartedAt, runs[0].StartedAt)

	cases, err := st.ReadCases(ctx, "run-001")
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "inputs/a.gm", cases[0].CasePath)
	assert.True(t, cases[0].Matched)
	assert.Equal(t, "inputs/b.gm", cases[1].CasePath)
	assert.False(t, cases[1].Matched)
	assert.Equal(t, "won by 1\n", cases[1].RefVerdict)
	assert.Equal(t, "won by 0\n", cases[1].CandVerdict)
}

func TestWriteRun_Idempotent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	summary, outcomes := sampleRun()
	require.NoError(t, st.WriteRun(ctx, summary, outcomes))
	require.NoError(t, st.WriteRun(ctx, summary, outcomes))

	runs, err := st.ListRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	cases, err := st.ReadCases(ctx, "run-001")
	require.NoError(t, err)
	assert.Len(t, cases, 2)
}

func TestWriteRun_InvocationErrorPersisted(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	summary := diff.Summary{
		RunID:     "run-002",
		Mode:      solver.ModeStatus,
		Total:     1,
		Failed:    1,
		StartedAt: time.Now().UTC(),
	}
	outcomes := []diff.Outcome{
		{
			Case: corpus.TestCase{Path: "inputs/c.gm"},
			Err:  errors.New("signal: killed"),
		},
	}
	require.NoError(t, st.WriteRun(ctx, summary, outcomes))

	cases, err := st.ReadCases(ctx, "run-002")
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.False(t, cases[0].Matched)
	assert.Equal(t, "signal: killed", cases[0].Error)
}

func TestListRuns_MostRecentFirst(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	older := diff.Summary{RunID: "run-a", Mode: solver.ModeReport, StartedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := diff.Summary{RunID: "run-b", Mode: solver.ModeReport, StartedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, st.WriteRun(ctx, older, nil))
	require.NoError(t, st.WriteRun(ctx, newer, nil))

	runs, err := st.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-b", runs[0].ID)
	assert.Equal(t, "run-a", runs[1].ID)
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	st, err := Open(path)
	require.NoError(t, err)
	summary, outcomes := sampleRun()
	require.NoError(t, st.WriteRun(context.Background(), summary, outcomes))
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
