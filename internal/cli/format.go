package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/itchyny/gojq"
	"gopkg.in/yaml.v3"
)

// Format is an output format.
type Format string

const (
	FormatText Format = "text"
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a flag value to a Format. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatXML:
		return FormatXML, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	}
	return "", errors.New("invalid --format (expected text|xml|json|yaml)")
}

// Printer writes values in the selected format.
type Printer struct {
	w      io.Writer
	format Format
	query  string
}

func NewPrinter(w io.Writer, format Format, query string) *Printer {
	return &Printer{w: w, format: format, query: query}
}

// PrintTree writes a whole outline.
func (p *Printer) PrintTree(tree *doctree.Tree) error {
	switch p.format {
	case FormatText:
		_, err := io.WriteString(p.w, treeText(tree))
		return err
	case FormatXML:
		out, err := outline.RenderXML(tree, true)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(p.w, "%s\n", out)
		return err
	}
	return p.Print(outline.Markup(tree), "")
}

// Print writes v. text is used for the text and xml formats.
func (p *Printer) Print(v any, text string) error {
	switch p.format {
	case FormatJSON:
		return p.printJSON(v)
	case FormatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(p.w, text)
	return err
}

func (p *Printer) printJSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)
	if p.query == "" {
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	parsed, err := gojq.Parse(p.query)
	if err != nil {
		return fmt.Errorf("invalid --query: %w", err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return fmt.Errorf("invalid --query: %w", err)
	}

	// gojq only walks plain JSON values.
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return err
	}

	iter := code.Run(data)
	for {
		out, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, isErr := out.(error); isErr {
			return fmt.Errorf("query error: %w", err)
		}
		if err := enc.Encode(out); err != nil {
			return err
		}
	}
}

// treeText lists headings with their IDs, indented by depth.
func treeText(tree *doctree.Tree) string {
	var b strings.Builder
	tree.Walk(func(i int, n *doctree.Node) bool {
		if n.IsHeading() {
			fmt.Fprintf(&b, "%s%-*s %s\n", strings.Repeat("  ", n.Depth-1), 12, n.ID, n.Text)
		}
		return true
	})
	return b.String()
}
