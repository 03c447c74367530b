package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/climatevision/explorer/internal/document"
	"github.com/climatevision/explorer/internal/lens"
	"github.com/climatevision/explorer/internal/storage"
	"github.com/climatevision/explorer/internal/valueset"
)

func newLensCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lens",
		Short: "Render and manage saved lenses",
	}
	cmd.AddCommand(
		newLensShowCmd(e),
		newLensSaveCmd(e),
		newLensListCmd(e),
		newLensDeleteCmd(e),
	)
	return cmd
}

func newLensShowCmd(e *env) *cobra.Command {
	var (
		label     string
		clipboard bool
		asTable   bool
	)

	cmd := &cobra.Command{
		Use:   "show <document>",
		Short: "Render the lenses of a document over the stored runs",
		Long: `The document is either a document file or the id of a saved document.
Values are formatted with the configured export locale.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := e.resolveDocument(ctx, args[0])
			if err != nil {
				return err
			}

			lenses := doc.Lenses
			if label != "" {
				l, ok := doc.Find(label)
				if !ok {
					return fmt.Errorf("no lens labelled %q", label)
				}
				lenses = []lens.Lens{l}
			}

			s, err := e.openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			runs, err := s.Load(ctx)
			if err != nil {
				return err
			}

			formatter, err := document.NewFormatter(e.cfg.Export.Locale, e.cfg.Export.MaxFractionDigits)
			if err != nil {
				return err
			}
			cache := valueset.NewCache(e.cfg.ValueSet.CacheEntries)

			out := cmd.OutOrStdout()
			for _, l := range lenses {
				if asTable && l.IsClassic() {
					l = l.ToTable(runs.IDs())
				}
				rows := document.Export(l, cache.Create(l, runs), formatter)

				if clipboard {
					data, err := document.ClipboardJSON(rows)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, string(data))
					continue
				}

				fmt.Fprintf(out, "# %s (%s)\n", l.Label(), l.Kind())
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				for _, row := range rows {
					for i, field := range row {
						if i > 0 {
							fmt.Fprint(w, "\t")
						}
						fmt.Fprint(w, field)
					}
					fmt.Fprintln(w)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&label, "lens", "", "Render only the lens with this label")
	cmd.Flags().BoolVar(&clipboard, "clipboard", false, "Print each lens as the JSON array of rows used for the clipboard")
	cmd.Flags().BoolVar(&asTable, "as-table", false, "Render classic lenses as tables")
	return cmd
}

func newLensSaveCmd(e *env) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "save <document.json>",
		Short: "Validate a document file and save it to the document storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := readDocumentFile(args[0])
			if err != nil {
				return err
			}
			repo, err := e.openRepository(ctx)
			if err != nil {
				return err
			}

			if id != "" {
				docID, err := uuid.Parse(id)
				if err != nil {
					return fmt.Errorf("invalid document id %q: %w", id, err)
				}
				if _, err := repo.Save(ctx, docID, doc); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), docID)
				return nil
			}

			docID, _, err := repo.Create(ctx, doc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), docID)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Overwrite the saved document with this id")
	return cmd
}

func newLensListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the saved documents and their lenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repo, err := e.openRepository(ctx)
			if err != nil {
				return err
			}
			ids, err := repo.List(ctx)
			if err != nil {
				return err
			}
			docs, failed, err := repo.LoadAll(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLENSES\tLABELS")
			for _, id := range ids {
				if err, ok := failed[id]; ok {
					fmt.Fprintf(w, "%s\t-\t%v\n", id, err)
					continue
				}
				doc := docs[id]
				labels := ""
				for i, l := range doc.Lenses {
					if i > 0 {
						labels += ", "
					}
					labels += l.Label()
				}
				fmt.Fprintf(w, "%s\t%d\t%s\n", id, len(doc.Lenses), labels)
			}
			return w.Flush()
		},
	}
}

func newLensDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid document id %q: %w", args[0], err)
			}
			repo, err := e.openRepository(ctx)
			if err != nil {
				return err
			}
			return repo.Delete(ctx, id)
		},
	}
}

func readDocumentFile(path string) (document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return document.Document{}, fmt.Errorf("failed to read document: %w", err)
	}
	doc, err := document.Decode(data)
	if err != nil {
		return document.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// resolveDocument reads arg as a document file, or as the id of a saved
// document when no such file exists.
func (e *env) resolveDocument(ctx context.Context, arg string) (document.Document, error) {
	if _, err := os.Stat(arg); err == nil {
		return readDocumentFile(arg)
	}
	id, err := uuid.Parse(arg)
	if err != nil {
		return readDocumentFile(arg)
	}
	repo, err := e.openRepository(ctx)
	if err != nil {
		return document.Document{}, err
	}
	return repo.Load(ctx, id)
}

func (e *env) openRepository(ctx context.Context) (*document.Repository, error) {
	if err := e.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	var objects storage.ObjectStorage
	switch e.cfg.Storage.Type {
	case "s3":
		s3cfg := storage.DefaultS3Config()
		if e.cfg.Storage.S3.Region != "" {
			s3cfg.Region = e.cfg.Storage.S3.Region
		}
		s3cfg.Endpoint = e.cfg.Storage.S3.Endpoint
		s3cfg.UsePathStyle = e.cfg.Storage.S3.UsePathStyle
		s3Storage, err := storage.NewS3Storage(ctx, e.cfg.Storage.S3.Bucket, s3cfg)
		if err != nil {
			return nil, err
		}
		objects = s3Storage
	default:
		local, err := storage.NewLocalStorage(e.cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		objects = local
	}
	return document.NewRepository(objects), nil
}
