package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer turns raw section text into HTML for previews. The outline
// never reads the result.
type Renderer interface {
	RenderHTML(text string) (string, error)
}

// Markdown renders with goldmark and the GitHub flavored extensions.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown returns a goldmark renderer. unsafe lets raw HTML in the
// source through to the output.
func NewMarkdown(unsafe bool) *Markdown {
	var rendererOpts []goldmark.Option
	if unsafe {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}
	opts := append([]goldmark.Option{
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}, rendererOpts...)
	return &Markdown{md: goldmark.New(opts...)}
}

func (m *Markdown) RenderHTML(text string) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
