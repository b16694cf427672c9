package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// csvBatchSize is the number of data rows per section.
const csvBatchSize = 20

// CSVImporter handles CSV files. The file becomes one top-level section
// with a "## Rows a-b" subsection per batch of rows; each row is a line of
// "header: value" pairs.
type CSVImporter struct{}

func (p *CSVImporter) Import(r io.Reader, filename string) (*Result, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	res := &Result{Title: stripExt(filename)}
	if len(records) == 0 {
		return res, nil
	}

	headers := records[0]
	dataRows := records[1:]

	var w writer
	w.heading(1, res.Title)
	w.paragraph("Columns: " + strings.Join(headers, ", "))

	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(dataRows))
		// Row numbers are 1-indexed and count the header row.
		w.heading(2, fmt.Sprintf("Rows %d-%d", i+2, end+1))
		var text strings.Builder
		for _, row := range dataRows[i:end] {
			cells := make([]string, len(row))
			for j, cell := range row {
				if j < len(headers) {
					cells[j] = headers[j] + ": " + cell
				} else {
					cells[j] = cell
				}
			}
			text.WriteString(strings.Join(cells, ", "))
			text.WriteString("\n")
		}
		w.paragraph(text.String())
	}

	res.Text = w.String()
	return res, nil
}
