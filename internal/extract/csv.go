package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"
)

// CSVExtractor renders CSV data as a column-aligned table so the model sees
// tabular structure instead of raw comma soup.
type CSVExtractor struct{}

func (CSVExtractor) Supports(mimeType string) bool {
	return mimeType == "text/csv" || mimeType == "application/csv"
}

func (CSVExtractor) Extract(name string, data []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	widths := columnWidths(records)

	var b strings.Builder
	for _, row := range records {
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			if pad := widths[i] - utf8.RuneCountInString(cell); pad > 0 && i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func columnWidths(records [][]string) []int {
	var widths []int
	for _, row := range records {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}
	return widths
}
