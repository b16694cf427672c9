package importer

import (
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownImporter keeps Markdown as is, with line endings normalized.
// The title is the first level-1 heading, falling back to the filename.
type MarkdownImporter struct{}

func (p *MarkdownImporter) Import(r io.Reader, filename string) (*Result, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	body := strings.ReplaceAll(string(src), "\r\n", "\n")

	res := &Result{Title: stripExt(filename), Text: body}

	doc := goldmark.New().Parser().Parse(text.NewReader([]byte(body)))
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != 1 {
			continue
		}
		if title := strings.TrimSpace(inlineText(h, []byte(body))); title != "" {
			res.Title = title
		}
		break
	}
	return res, nil
}

// inlineText concatenates the text segments under n.
func inlineText(n ast.Node, src []byte) string {
	var buf strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			continue
		}
		buf.WriteString(inlineText(c, src))
	}
	return buf.String()
}
