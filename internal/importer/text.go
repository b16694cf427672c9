package importer

import (
	"bufio"
	"io"
)

// TextImporter handles plain text files. Every line is kept; lines that
// happen to start with '#' are escaped so they stay paragraphs.
type TextImporter struct{}

func (p *TextImporter) Import(r io.Reader, filename string) (*Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var w writer
	for scanner.Scan() {
		w.raw(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &Result{Title: stripExt(filename), Text: w.String()}, nil
}
