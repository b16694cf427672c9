package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
	diff "github.com/shogoki/gotextdiff"
	"github.com/spf13/cobra"
)

func newTreeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tree FILE",
		Short: "Print the heading outline of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := parseFile(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			return opts.printer(cmd.OutOrStdout()).PrintTree(tree)
		},
	}
}

type sectionOutput struct {
	ID      string `json:"id" yaml:"id"`
	Content string `json:"content" yaml:"content"`
}

func newSectionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "section FILE ID",
		Short: "Print the text of one section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := doctree.ParseID(args[1])
			if err != nil {
				return err
			}
			tree, err := parseFile(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			text, err := outline.SectionText(tree, id)
			if err != nil {
				return err
			}
			// Always terminated, so replace can strip exactly one separator.
			return opts.printer(cmd.OutOrStdout()).Print(sectionOutput{ID: id.String(), Content: text}, text+tree.Separator)
		},
	}
}

type replaceOutput struct {
	Content string          `json:"content" yaml:"content"`
	Outline outline.Element `json:"outline" yaml:"outline"`
}

func newReplaceCmd(opts *options) *cobra.Command {
	var (
		write    bool
		renumber bool
		showDiff bool
	)
	cmd := &cobra.Command{
		Use:   "replace FILE ID EDITED",
		Short: "Replace one section with the contents of EDITED",
		Long: `replace swaps the section ID of FILE, nested sections included, for
the text in EDITED ("-" reads standard input). Headings in EDITED are
numbered from the replaced section's position; later sections keep their
ids unless --renumber is given. One trailing newline in EDITED is ignored,
so the output of "section" splices back unchanged. An empty EDITED deletes
the section.

The updated document is printed, or written back to FILE with --write.
--diff prints a unified diff of the change instead.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := doctree.ParseID(args[1])
			if err != nil {
				return err
			}
			if args[0] == "-" && args[2] == "-" {
				return fmt.Errorf("FILE and EDITED cannot both be standard input")
			}
			if write && args[0] == "-" {
				return fmt.Errorf("--write needs a file, not standard input")
			}
			original, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			tree, err := outline.Parse(original)
			if err != nil {
				return err
			}
			edited, err := readInput(args[2], cmd.InOrStdin())
			if err != nil {
				return err
			}
			edited = trimSeparator(edited)

			tree, text, err := outline.ReplaceSection(tree, id, edited)
			if err != nil {
				return err
			}
			if renumber {
				if err := outline.Renumber(tree); err != nil {
					return err
				}
			}

			if write {
				if err := writeFileKeepMode(args[0], text); err != nil {
					return err
				}
			}

			switch {
			case showDiff:
				_, err := cmd.OutOrStdout().Write(diff.Diff(args[0], []byte(original), args[0], []byte(text)))
				return err
			case write:
				return opts.printer(cmd.OutOrStdout()).PrintTree(tree)
			}
			return opts.printer(cmd.OutOrStdout()).Print(replaceOutput{Content: text, Outline: outline.Markup(tree)}, text)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to FILE")
	cmd.Flags().BoolVar(&renumber, "renumber", false, "renumber every heading after the splice")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a unified diff instead of the result")
	return cmd
}

func parseFile(path string, stdin io.Reader) (*doctree.Tree, error) {
	text, err := readInput(path, stdin)
	if err != nil {
		return nil, err
	}
	return outline.Parse(text)
}

// readInput reads a file, or standard input for "-".
func readInput(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// trimSeparator drops one trailing line terminator. An edited file's final
// newline ends its last line; it does not start an empty paragraph.
func trimSeparator(s string) string {
	if strings.HasSuffix(s, "\r\n") {
		return s[:len(s)-2]
	}
	return strings.TrimSuffix(s, "\n")
}

func writeFileKeepMode(path, text string) error {
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(text), mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
