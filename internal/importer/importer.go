// Package importer converts uploaded files into outline text: one "#"
// heading line per section heading and plain lines for everything else.
package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
)

// Result is an imported document.
type Result struct {
	Title string `json:"title" yaml:"title"`
	Text  string `json:"text" yaml:"text"`
}

// Importer converts raw file bytes into outline text.
type Importer interface {
	Import(r io.Reader, filename string) (*Result, error)
}

// SupportedExtensions lists file extensions this service can import.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// Options tunes importers that shell out or need limits.
type Options struct {
	PDFFallbackPdftotext bool
}

// ForFile returns the appropriate importer for a filename.
func ForFile(filename string, opts Options) (Importer, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextImporter{}, nil
	case ".md", ".markdown":
		return &MarkdownImporter{}, nil
	case ".csv":
		return &CSVImporter{}, nil
	case ".html", ".htm":
		return &HTMLImporter{}, nil
	case ".pdf":
		return &PDFImporter{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXImporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

func stripExt(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// writer accumulates outline lines, one blank line between blocks.
type writer struct {
	lines []string
}

func (w *writer) block() {
	if len(w.lines) > 0 && w.lines[len(w.lines)-1] != "" {
		w.lines = append(w.lines, "")
	}
}

// heading writes a heading line. Levels beyond the outline's range are
// clamped to the deepest level.
func (w *writer) heading(level int, title string) {
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return
	}
	level = max(1, min(level, doctree.MaxDepth))
	w.block()
	w.lines = append(w.lines, strings.Repeat("#", level)+" "+title)
}

// paragraph writes text line by line. Lines that would read as headings
// are escaped with a backslash.
func (w *writer) paragraph(text string) {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return
	}
	w.block()
	for _, line := range strings.Split(text, "\n") {
		w.raw(strings.TrimRight(line, " \t"))
	}
}

// raw appends one line verbatim, escaping it if it would read as a heading.
func (w *writer) raw(line string) {
	if outline.IsHeading(line) {
		line = "\\" + line
	}
	w.lines = append(w.lines, line)
}

func (w *writer) String() string {
	return strings.Join(w.lines, "\n")
}
