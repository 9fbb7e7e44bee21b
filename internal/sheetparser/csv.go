// =============================================================================
// Store Back-Office Pipeline - Tabular Input Parser (CSV)
// =============================================================================
//
// This module parses raw spreadsheet bytes supplied by the caller into a
// RawTable: named columns over ordered rows. It handles the formats store
// staff and suppliers actually send:
//   - CSV with comma, semicolon, pipe or tab delimiters
//   - Quoted fields with lazy quoting
//   - Trailing empty rows and ragged column counts
//
// The caller owns all I/O: parsers here accept byte slices and never touch
// the filesystem, so the pipeline stays deterministic and testable.
//
// =============================================================================

package sheetparser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// =============================================================================
// RAW TABLE STRUCTURE
// =============================================================================

// RawTable represents a parsed input sheet before column mapping.
type RawTable struct {
	// Headers contains the column headers, in sheet order. The first
	// non-empty row of the sheet is always the header row.
	Headers []string

	// Rows contains the data rows as maps of header -> cell value.
	Rows []map[string]string

	// SourceFile is the name of the originating file, for traceability.
	SourceFile string
}

// HasColumn reports whether the table has a column with the given header.
func (t *RawTable) HasColumn(header string) bool {
	for _, h := range t.Headers {
		if h == header {
			return true
		}
	}
	return false
}

// =============================================================================
// CSV PARSING
// =============================================================================

// ParseCSV parses CSV bytes into a RawTable. The delimiter is detected
// from the header row; the first row is always treated as the header.
func ParseCSV(data []byte, sourceFile string) (*RawTable, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(allRows) == 0 {
		return nil, fmt.Errorf("sheet is empty")
	}

	return buildTable(allRows, sourceFile)
}

// detectDelimiter inspects the first line and picks the candidate
// delimiter that splits it into the most fields. Comma wins ties.
func detectDelimiter(data []byte) rune {
	line := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		line = data[:idx]
	}

	best := ','
	bestCount := bytes.Count(line, []byte{','})
	for _, candidate := range []byte{';', '\t', '|'} {
		if count := bytes.Count(line, []byte{candidate}); count > bestCount {
			best = rune(candidate)
			bestCount = count
		}
	}
	return best
}

// =============================================================================
// SHARED ROW ASSEMBLY
// =============================================================================

// buildTable assembles a RawTable from raw rows. The first non-empty row
// becomes the header; subsequent non-empty rows become data rows keyed by
// header. Cells beyond the header width are dropped; missing cells are
// empty strings.
func buildTable(allRows [][]string, sourceFile string) (*RawTable, error) {
	start := 0
	for start < len(allRows) && isRowEmpty(allRows[start]) {
		start++
	}
	if start >= len(allRows) {
		return nil, fmt.Errorf("sheet has no header row")
	}

	headers := cleanHeaders(allRows[start])

	table := &RawTable{
		Headers:    headers,
		Rows:       make([]map[string]string, 0, len(allRows)-start-1),
		SourceFile: sourceFile,
	}

	for _, row := range allRows[start+1:] {
		if isRowEmpty(row) {
			continue
		}
		rowMap := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(row) {
				rowMap[header] = strings.TrimSpace(row[i])
			} else {
				rowMap[header] = ""
			}
		}
		table.Rows = append(table.Rows, rowMap)
	}

	return table, nil
}

// cleanHeaders trims headers, names blank ones by position, and
// disambiguates repeats with an occurrence suffix so every column stays
// addressable (a repeated header must not overwrite the earlier column's
// cells).
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	seen := make(map[string]int, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		seen[header]++
		if n := seen[header]; n > 1 {
			header = fmt.Sprintf("%s_%d", header, n)
			seen[header]++
		}
		cleaned[i] = header
	}
	return cleaned
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
