package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pgsolve/paritydiff/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB  string // history database path
	Run string // run ID to show cases for
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded suite runs",
		Long: `List suite runs recorded with 'run --record', or show the per-case
outcomes of one run.

Examples:
  paritydiff history --db history.db
  paritydiff history --db history.db --run 6f1c...
  paritydiff history --db history.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "history database path (required)")
	cmd.Flags().StringVar(&opts.Run, "run", "", "show case outcomes for one run ID")
	cmd.MarkFlagRequired("db")

	return cmd
}

func showHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.DB)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to open history database", err)
	}
	defer st.Close()

	if opts.Run != "" {
		return showRunCases(opts, cmd, st)
	}
	return showRunList(opts, cmd, st)
}

func showRunList(opts *HistoryOptions, cmd *cobra.Command, st *store.Store) error {
	runs, err := st.ListRuns(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list runs", err)
	}

	if opts.Format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: "ok", Data: runs})
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No recorded runs.")
		return nil
	}
	for _, run := range runs {
		verdict := "ok"
		if run.Failed > 0 {
			verdict = fmt.Sprintf("%d failed", run.Failed)
		}
		fmt.Fprintf(w, "%s  %s  mode=%s  %d/%d passed  %s\n",
			run.StartedAt.Format(time.RFC3339),
			run.ID,
			run.Mode,
			run.Passed,
			run.Total,
			verdict,
		)
	}
	return nil
}

func showRunCases(opts *HistoryOptions, cmd *cobra.Command, st *store.Store) error {
	cases, err := st.ReadCases(cmd.Context(), opts.Run)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read run cases", err)
	}
	if len(cases) == 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("no cases recorded for run %q", opts.Run))
	}

	if opts.Format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: "ok", Data: cases})
	}

	w := cmd.OutOrStdout()
	for _, c := range cases {
		if c.Matched {
			fmt.Fprintf(w, "✓ %s\n", c.CasePath)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", c.CasePath)
		if c.Error != "" {
			fmt.Fprintf(w, "  invocation failed: %s\n", c.Error)
			continue
		}
		fmt.Fprintf(w, "  reference: %q (status %d)\n", c.RefVerdict, c.RefStatus)
		fmt.Fprintf(w, "  candidate: %q (status %d)\n", c.CandVerdict, c.CandStatus)
	}
	return nil
}
