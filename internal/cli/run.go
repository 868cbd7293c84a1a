package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/pgsolve/paritydiff/internal/corpus"
	"github.com/pgsolve/paritydiff/internal/diff"
	"github.com/pgsolve/paritydiff/internal/solver"
	"github.com/pgsolve/paritydiff/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Mode      string        // comparison protocol: report | status
	Config    string        // solver manifest path
	Reference string        // reference executable override
	Candidate string        // candidate executable override
	Jobs      int           // worker pool size over test cases
	Timeout   time.Duration // per-invocation timeout (0 = none)
	Record    string        // history database path
}

// CaseResult holds one case outcome for JSON output.
type CaseResult struct {
	Case         string `json:"case"`
	Matched      bool   `json:"matched"`
	Reference    string `json:"reference"`
	Candidate    string `json:"candidate"`
	Unrecognized bool   `json:"unrecognized,omitempty"`
	Error        string `json:"error,omitempty"`
}

// RunResult holds the overall suite result for JSON output.
type RunResult struct {
	RunID  string       `json:"run_id"`
	Mode   string       `json:"mode"`
	Cases  []CaseResult `json:"cases"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Total  int          `json:"total"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <inputs>",
		Short: "Compare both solvers over an input corpus",
		Long: `Run the reference and candidate solvers over every game-description
file in the input corpus (a directory or glob pattern) and compare
their verdicts.

Two comparison protocols are supported:
  report - invoke each solver with its report arguments, capture stdout,
           and compare the text after the winner-announcement marker
  status - invoke each solver with its solve-only arguments and compare
           the process exit statuses

Exit codes:
  0 - All cases matched
  1 - One or more mismatches, or a fatal enumeration/invocation error
  2 - Usage error (invalid mode, missing solver paths)

Examples:
  paritydiff run ./inputs/tests --reference ../oink/build/oink --candidate ./target/release/lmc
  paritydiff run './inputs/*.gm' --mode status --config solvers.yaml
  paritydiff run ./inputs/tests --jobs 8 --timeout 30s --record history.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Mode, "mode", "report", "comparison protocol (report|status)")
	cmd.Flags().StringVar(&opts.Config, "config", "", "solver manifest file (YAML)")
	cmd.Flags().StringVar(&opts.Reference, "reference", "", "reference solver executable")
	cmd.Flags().StringVar(&opts.Candidate, "candidate", "", "candidate solver executable")
	cmd.Flags().IntVar(&opts.Jobs, "jobs", 1, "test cases compared in parallel")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "per-invocation timeout (0 = none)")
	cmd.Flags().StringVar(&opts.Record, "record", "", "record the run in a history database")

	return cmd
}

func runSuite(opts *RunOptions, location string, cmd *cobra.Command) error {
	mode, err := solver.ParseMode(opts.Mode)
	if err != nil {
		return WrapExitError(ExitUsage, "invalid --mode", err)
	}

	manifest, err := loadManifest(opts)
	if err != nil {
		return err
	}

	logger := newLogger(cmd, opts.Verbose)

	// Probe both executables before enumerating: if either solver cannot
	// be started at all, no comparison can be trusted.
	if err := solver.Probe(manifest.Reference); err != nil {
		return WrapExitError(ExitFailure, "reference solver cannot run", err)
	}
	if err := solver.Probe(manifest.Candidate); err != nil {
		return WrapExitError(ExitFailure, "candidate solver cannot run", err)
	}

	cases, err := corpus.Enumerate(location)
	if err != nil {
		return WrapExitError(ExitFailure, "input enumeration failed", err)
	}
	logger.Debug("corpus enumerated", "location", location, "cases", len(cases))

	suite := &diff.Suite{
		Manifest: manifest,
		Invoker:  solver.NewExecInvoker(manifest, opts.Timeout, logger),
		Mode:     mode,
		Jobs:     opts.Jobs,
		Logger:   logger,
	}
	if opts.Format != "json" {
		suite.Reporter = diff.NewReporter(cmd.OutOrStdout())
	}

	summary, outcomes, runErr := suite.Run(cmd.Context(), cases)

	if opts.Record != "" {
		if err := recordRun(cmd, opts.Record, summary, outcomes); err != nil {
			return WrapExitError(ExitFailure, "failed to record run", err)
		}
	}

	if opts.Format == "json" {
		return outputRunJSON(cmd, summary, outcomes)
	}

	if runErr != nil {
		return WrapExitError(ExitFailure, "suite aborted", runErr)
	}
	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", summary.Failed))
	}
	return nil
}

// loadManifest resolves the solver configuration: manifest file when
// given, built-in conventions otherwise, with paths overridable by flags.
func loadManifest(opts *RunOptions) (solver.Manifest, error) {
	var (
		manifest solver.Manifest
		err      error
	)
	if opts.Config != "" {
		manifest, err = solver.LoadManifest(opts.Config)
		if err != nil {
			return solver.Manifest{}, WrapExitError(ExitUsage, "invalid solver manifest", err)
		}
	} else {
		manifest = solver.DefaultManifest()
	}

	if opts.Reference != "" {
		manifest.Reference.Path = opts.Reference
	}
	if opts.Candidate != "" {
		manifest.Candidate.Path = opts.Candidate
	}

	if err := manifest.Validate(); err != nil {
		return solver.Manifest{}, WrapExitError(ExitUsage, "incomplete solver configuration", err)
	}
	return manifest, nil
}

func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func recordRun(cmd *cobra.Command, path string, summary diff.Summary, outcomes []diff.Outcome) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.WriteRun(cmd.Context(), summary, outcomes)
}

// outputRunJSON outputs the suite result as JSON.
func outputRunJSON(cmd *cobra.Command, summary diff.Summary, outcomes []diff.Outcome) error {
	result := RunResult{
		RunID:  summary.RunID,
		Mode:   string(summary.Mode),
		Cases:  make([]CaseResult, 0, len(outcomes)),
		Passed: summary.Passed,
		Failed: summary.Failed,
		Total:  summary.Total,
	}
	for _, o := range outcomes {
		cr := CaseResult{
			Case:         o.Case.Path,
			Matched:      o.Matched,
			Reference:    o.Ref.String(),
			Candidate:    o.Cand.String(),
			Unrecognized: o.Ref.Unrecognized || o.Cand.Unrecognized,
		}
		if o.Err != nil {
			cr.Error = o.Err.Error()
		}
		result.Cases = append(result.Cases, cr)
	}

	response := CLIResponse{Status: "ok", Data: result}
	if summary.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_MISMATCH",
			Message: fmt.Sprintf("%d case(s) failed", summary.Failed),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", summary.Failed))
	}
	return nil
}
