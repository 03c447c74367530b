package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/climatevision/explorer/internal/run"
	"github.com/climatevision/explorer/pkg/types"
)

func newRunsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Manage the stored runs",
	}
	cmd.AddCommand(
		newRunsImportCmd(e),
		newRunsListCmd(e),
		newRunsShowCmd(e),
		newRunsRemoveCmd(e),
	)
	return cmd
}

func newRunsImportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "import <run.json>...",
		Short: "Store run files and print the ids assigned to them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			for _, path := range args {
				r, err := readRunFile(path)
				if err != nil {
					return err
				}
				if id, ok, err := s.FindByFingerprint(ctx, run.FingerprintOf(r)); err != nil {
					return err
				} else if ok {
					log.Printf("%s is already stored as run %d", path, id)
					fmt.Fprintf(out, "%d\t%s\n", id, path)
					continue
				}
				id, err := s.Add(ctx, r)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d\t%s\n", id, path)
			}
			return nil
		},
	}
}

func newRunsListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the stored runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			records, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tAGS\tYEAR\tSIZE\tUPDATED\tFINGERPRINT")
			for _, rec := range records {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\t%s\n",
					rec.ID, rec.Inputs.AGS, rec.Inputs.Year, rec.SizeBytes,
					rec.UpdatedAt.Format("2006-01-02 15:04"), rec.Fingerprint)
			}
			return w.Flush()
		},
	}
}

func newRunsShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored run in its wire format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRunID(args[0])
			if err != nil {
				return err
			}
			s, err := e.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			r, err := s.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			data, err := run.EncodeRun(r)
			if err != nil {
				return err
			}
			var indented bytes.Buffer
			if err := json.Indent(&indented, data, "", "  "); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), indented.String())
			return nil
		},
	}
}

func newRunsRemoveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>...",
		Short: "Remove stored runs. Their ids are not handed out again",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			for _, arg := range args {
				id, err := parseRunID(arg)
				if err != nil {
					return err
				}
				if err := s.Remove(cmd.Context(), id); err != nil {
					return err
				}
				log.Printf("Removed run %d", id)
			}
			return nil
		},
	}
}

func parseRunID(s string) (types.RunID, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < int(types.FirstRunID) {
		return 0, fmt.Errorf("invalid run id %q", s)
	}
	return types.RunID(n), nil
}
