package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/climatevision/explorer/internal/diff"
	"github.com/climatevision/explorer/internal/glob"
	"github.com/climatevision/explorer/internal/run"
	"github.com/climatevision/explorer/internal/store"
	"github.com/climatevision/explorer/internal/tree"
	"github.com/climatevision/explorer/pkg/types"
)

func newDiffCmd(e *env) *cobra.Command {
	var withoutOverrides bool

	cmd := &cobra.Command{
		Use:   "diff <left> <right>",
		Short: "Show the values that differ between two runs",
		Long: `Each side is either a run file or the id of a stored run. Numbers are
compared with the configured relative tolerance (see --tolerance).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			left, err := e.resolveRun(cmd, args[0])
			if err != nil {
				return err
			}
			right, err := e.resolveRun(cmd, args[1])
			if err != nil {
				return err
			}

			handling := run.WithOverrides
			if withoutOverrides {
				handling = run.WithoutOverrides
			}
			d := diff.Runs(e.cfg.ToleranceFraction(), left, right, handling)

			out := cmd.OutOrStdout()
			diffs := diff.Flatten(d)
			for _, difference := range diffs {
				fmt.Fprintln(out, difference.String())
			}
			fmt.Fprintf(out, "%d differences (tolerance %g%%)\n", len(diffs), e.cfg.Diff.TolerancePercent)
			return nil
		},
	}
	cmd.Flags().BoolVar(&withoutOverrides, "without-overrides", false, "Compare the entries as calculated, ignoring overrides")
	return cmd
}

func newFilterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filter <run.json> <query>",
		Short: "Print the part of a run tree whose paths match every word of the query",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := readRunFile(args[0])
			if err != nil {
				return err
			}
			filtered := glob.Filter(args[1], r.GetTree(run.WithOverrides))
			data, err := json.MarshalIndent(filtered, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths <run.json>",
		Short: "List the paths of all values of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := readRunFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range tree.Expand(r.GetTree(run.WithOverrides)) {
				fmt.Fprintln(out, p.String())
			}
			return nil
		},
	}
}

func readRunFile(path string) (run.Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return run.Run{}, fmt.Errorf("failed to read run file: %w", err)
	}
	r, err := run.DecodeRun(data)
	if err != nil {
		return run.Run{}, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// resolveRun reads arg as a run file, or as the id of a stored run when no
// such file exists.
func (e *env) resolveRun(cmd *cobra.Command, arg string) (run.Run, error) {
	if _, err := os.Stat(arg); err == nil {
		return readRunFile(arg)
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return readRunFile(arg)
	}

	s, err := e.openStore()
	if err != nil {
		return run.Run{}, err
	}
	defer s.Close()
	return s.Get(cmd.Context(), types.RunID(n))
}

func (e *env) openStore() (*store.SQLiteStore, error) {
	if err := e.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return store.NewSQLiteStore(e.cfg.Store.Path)
}
