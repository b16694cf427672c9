// Package cli implements the outline command-line tool.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Version is set at build time.
var Version = "dev"

// options holds the global flags.
type options struct {
	configFile string
	format     string
	query      string
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "outline",
		Short: "Inspect and edit documents one section at a time",
		Long: `outline parses documents into a tree of '#' headings, prints the
outline with dotted section ids, and replaces single sections in place.

Environment Variables:
  STORE_BACKEND    sqlite, pathstore or memory (docs commands)
  SQLITE_PATH      sqlite database file`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") && !isTerminal(cmd.OutOrStdout()) {
				opts.format = string(FormatJSON)
			}
			if _, err := ParseFormat(opts.format); err != nil {
				return err
			}
			if opts.query != "" && opts.format != string(FormatJSON) {
				return fmt.Errorf("--query requires --format json")
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file (overrides environment settings)")
	root.PersistentFlags().StringVarP(&opts.format, "format", "o", string(FormatText), "output format: text|xml|json|yaml")
	root.PersistentFlags().StringVarP(&opts.query, "query", "q", "", "jq expression applied to JSON output")

	root.AddCommand(
		newTreeCmd(opts),
		newSectionCmd(opts),
		newReplaceCmd(opts),
		newImportCmd(opts),
		newDocsCmd(opts),
	)
	return root
}

func (o *options) printer(w io.Writer) *Printer {
	f, _ := ParseFormat(o.format)
	return NewPrinter(w, f, o.query)
}

// loadConfig reads the environment and, when --config is given, the
// YAML file on top of it.
func (o *options) loadConfig() (config.Config, error) {
	if o.configFile == "" {
		return config.Load(), nil
	}
	return config.LoadFile(o.configFile)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
