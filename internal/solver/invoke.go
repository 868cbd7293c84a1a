package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/pgsolve/paritydiff/internal/corpus"
)

// ExecInvoker runs solvers as real child processes, one per call. Calls
// share no mutable state and are safe to run concurrently.
type ExecInvoker struct {
	// Marker is the winner-announcement token for report-mode extraction.
	Marker string

	// StatusMap is the configured exit-status winner encoding.
	StatusMap map[int]string

	// Timeout bounds each invocation when non-zero. On expiry the whole
	// process group is killed so a hung solver is never orphaned.
	Timeout time.Duration

	Logger *slog.Logger
}

// NewExecInvoker builds an invoker from the manifest's conventions.
func NewExecInvoker(m Manifest, timeout time.Duration, logger *slog.Logger) *ExecInvoker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecInvoker{
		Marker:    m.Marker,
		StatusMap: m.StatusMap,
		Timeout:   timeout,
		Logger:    logger,
	}
}

// Probe verifies the solver executable can be started at all: the file
// exists and carries an execute bit (or resolves via PATH for bare names).
// Run before enumeration; a failure here is fatal for the whole suite.
func Probe(spec Spec) error {
	if !strings.ContainsRune(spec.Path, os.PathSeparator) {
		if _, err := exec.LookPath(spec.Path); err != nil {
			return &InvocationError{Solver: spec.Name, Path: spec.Path, Err: err}
		}
		return nil
	}

	info, err := os.Stat(spec.Path)
	if err != nil {
		return &InvocationError{Solver: spec.Name, Path: spec.Path, Err: err}
	}
	if info.IsDir() {
		return &InvocationError{Solver: spec.Name, Path: spec.Path, Err: fmt.Errorf("is a directory")}
	}
	if info.Mode().Perm()&0111 == 0 {
		return &InvocationError{Solver: spec.Name, Path: spec.Path, Err: fs.ErrPermission}
	}
	return nil
}

// Invoke spawns one solver process for tc and captures its outcome under
// the given protocol. In report mode a non-zero exit is not an error; in
// status mode the exit status is the verdict, with statuses outside the
// configured map tagged unrecognized.
func (i *ExecInvoker) Invoke(ctx context.Context, spec Spec, tc corpus.TestCase, mode Mode) (Result, error) {
	if i.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.Timeout)
		defer cancel()
	}

	args := spec.Args(tc, mode)
	cmd := exec.CommandContext(ctx, spec.Path, args...)

	// Set process group so the entire process tree dies on cancellation.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{}, &InvocationError{Solver: spec.Name, Path: spec.Path, Err: err}
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var waitErr error
	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			// Kill the process group (negative PID).
			syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		}
		<-done
		return Result{}, &InvocationError{Solver: spec.Name, Path: spec.Path, Err: ctx.Err()}
	case waitErr = <-done:
		// The context may have expired between the kill and the wait
		// returning; a timed-out invocation is never a verdict.
		if ctx.Err() != nil {
			return Result{}, &InvocationError{Solver: spec.Name, Path: spec.Path, Err: ctx.Err()}
		}
	}

	status := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return Result{}, &InvocationError{Solver: spec.Name, Path: spec.Path, Err: waitErr}
		}
		status = exitErr.ExitCode()
	}

	i.Logger.Debug("solver invoked",
		"solver", spec.Name,
		"case", tc.Name(),
		"mode", string(mode),
		"status", status,
		"duration", time.Since(start),
	)

	if mode == ModeStatus {
		_, known := i.StatusMap[status]
		return Result{
			Protocol:     ModeStatus,
			Status:       status,
			Unrecognized: !known,
		}, nil
	}

	return Result{
		Protocol: ModeReport,
		Verdict:  ExtractVerdict(stdout.String(), i.Marker),
		Status:   status,
	}, nil
}
