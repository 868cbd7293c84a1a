package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgsolve/paritydiff/internal/corpus"
	"github.com/pgsolve/paritydiff/internal/solver"
)

func TestFakeInvoker_ReplaysRecordings(t *testing.T) {
	fake := NewFakeInvoker()
	fake.RecordVerdict("reference", "a.gm", "won by 0\n")
	fake.RecordStatus("candidate", "a.gm", 1, false)

	res, err := fake.Invoke(context.Background(),
		solver.Spec{Name: "reference"}, corpus.TestCase{Path: "a.gm"}, solver.ModeReport)
	require.NoError(t, err)
	assert.Equal(t, "won by 0\n", res.Verdict)

	res, err = fake.Invoke(context.Background(),
		solver.Spec{Name: "candidate"}, corpus.TestCase{Path: "a.gm"}, solver.ModeStatus)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Status)
}

func TestFakeInvoker_UnscriptedInvocationFails(t *testing.T) {
	fake := NewFakeInvoker()

	_, err := fake.Invoke(context.Background(),
		solver.Spec{Name: "reference"}, corpus.TestCase{Path: "a.gm"}, solver.ModeReport)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unscripted invocation")
}

func TestFakeInvoker_ScriptedError(t *testing.T) {
	fake := NewFakeInvoker()
	scripted := errors.New("spawn failed")
	fake.RecordError("candidate", "b.gm", solver.ModeReport, scripted)

	_, err := fake.Invoke(context.Background(),
		solver.Spec{Name: "candidate"}, corpus.TestCase{Path: "b.gm"}, solver.ModeReport)
	assert.ErrorIs(t, err, scripted)
}

func TestFakeInvoker_RecordsCalls(t *testing.T) {
	fake := NewFakeInvoker()
	fake.RecordVerdict("reference", "a.gm", "won by 0\n")

	_, err := fake.Invoke(context.Background(),
		solver.Spec{Name: "reference"}, corpus.TestCase{Path: "a.gm"}, solver.ModeReport)
	require.NoError(t, err)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "reference|a.gm|report", calls[0])
}
