package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/editor"
	"github.com/dgallion1/docoutline/internal/importer"
	"github.com/dgallion1/docoutline/internal/store"
	"github.com/spf13/cobra"
)

func newImportCmd(opts *options) *cobra.Command {
	var (
		save      string
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Convert a md, txt, html, docx, pdf or csv file to outline text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			imp, err := importer.ForFile(args[0], importer.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext})
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			res, err := imp.Import(f, filepath.Base(args[0]))
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}

			if save == "" {
				return opts.printer(cmd.OutOrStdout()).Print(res, res.Text)
			}
			expected := int64(0)
			if overwrite {
				expected = store.AnyVersion
			}
			return withEditor(cmd, opts, func(ctx context.Context, ed *editor.Editor) error {
				doc, err := ed.Put(ctx, save, res.Text, expected)
				if err != nil {
					return err
				}
				return opts.printer(cmd.OutOrStdout()).Print(docSummary(doc), fmt.Sprintf("saved %s version %d", doc.Key, doc.Version))
			})
		},
	}
	cmd.Flags().StringVar(&save, "save", "", "store the imported text under this document key")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing stored document")
	return cmd
}

func newDocsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Work with documents in the configured store",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(cmd, opts, func(ctx context.Context, ed *editor.Editor) error {
				docs, err := ed.List(ctx)
				if err != nil {
					return err
				}
				out := make([]map[string]any, 0, len(docs))
				var text strings.Builder
				for _, d := range docs {
					out = append(out, docSummary(d))
					fmt.Fprintf(&text, "%s\tv%d\t%d bytes\n", d.Key, d.Version, len(d.Content))
				}
				return opts.printer(cmd.OutOrStdout()).Print(out, text.String())
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get KEY",
		Short: "Print a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(cmd, opts, func(ctx context.Context, ed *editor.Editor) error {
				doc, err := ed.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return opts.printer(cmd.OutOrStdout()).Print(doc, doc.Content)
			})
		},
	})

	var version int64
	put := &cobra.Command{
		Use:   "put KEY FILE",
		Short: "Store FILE under KEY",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args[1], cmd.InOrStdin())
			if err != nil {
				return err
			}
			return withEditor(cmd, opts, func(ctx context.Context, ed *editor.Editor) error {
				doc, err := ed.Put(ctx, args[0], text, version)
				if err != nil {
					return err
				}
				return opts.printer(cmd.OutOrStdout()).Print(docSummary(doc), fmt.Sprintf("saved %s version %d", doc.Key, doc.Version))
			})
		},
	}
	put.Flags().Int64Var(&version, "version", store.AnyVersion, "expected stored version (0 creates, -1 overwrites)")
	cmd.AddCommand(put)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete KEY",
		Short: "Delete a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(cmd, opts, func(ctx context.Context, ed *editor.Editor) error {
				if err := ed.Delete(ctx, args[0]); err != nil {
					return err
				}
				return opts.printer(cmd.OutOrStdout()).Print(map[string]any{"key": args[0], "deleted": true}, "deleted "+args[0])
			})
		},
	})
	return cmd
}

// withEditor opens the configured store for the duration of fn.
func withEditor(cmd *cobra.Command, opts *options, fn func(context.Context, *editor.Editor) error) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateStore(); err != nil {
		return err
	}
	s, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, editor.New(s, nil, log))
}

func docSummary(d store.Document) map[string]any {
	return map[string]any{
		"key":        d.Key,
		"version":    d.Version,
		"bytes":      len(d.Content),
		"updated_at": d.UpdatedAt,
	}
}
