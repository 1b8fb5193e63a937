// Package spreadsheet reads and writes xlsx sheets as header-mapped rows.
// The rest of the system only deals in []map[string]string; the xlsx format
// is confined to this package.
package spreadsheet

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadRows reads the first sheet of an xlsx document. The first row is
// treated as the header; every following row becomes a map from header name
// to cell value. Header names are lower-cased and trimmed so that
// "Certificate Number" and "certificate_number" address the same column.
func ReadRows(data []byte) ([]map[string]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = NormalizeHeader(h)
	}

	var out []map[string]string
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		m := make(map[string]string, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(row) {
				m[col] = strings.TrimSpace(row[i])
			} else {
				m[col] = ""
			}
		}
		out = append(out, m)
	}

	return out, nil
}

// WriteRows produces an xlsx document with the given sheet name, header
// columns in order, and one row per map. Missing keys render as empty cells.
func WriteRows(sheet string, columns []string, rows []map[string]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	f.SetSheetName("Sheet1", sheet)

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		values := make([]interface{}, len(columns))
		for j, c := range columns {
			values[j] = row[NormalizeHeader(c)]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}

// NormalizeHeader lower-cases a header and replaces spaces with underscores
func NormalizeHeader(h string) string {
	h = strings.TrimSpace(strings.ToLower(h))
	return strings.ReplaceAll(h, " ", "_")
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
