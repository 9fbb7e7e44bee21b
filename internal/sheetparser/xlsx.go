// =============================================================================
// Store Back-Office Pipeline - Tabular Input Parser (XLSX)
// =============================================================================
//
// XLSX counterpart to the CSV parser. Only the first sheet is read: store
// order files and supplier price lists are single-sheet workbooks, and
// merged cells or multi-sheet layouts are out of contract.
//
// =============================================================================

package sheetparser

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX parses XLSX workbook bytes into a RawTable. Only the first
// sheet is read; the first non-empty row is the header.
func ParseXLSX(data []byte, sourceFile string) (*RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet is empty")
	}

	return buildTable(rows, sourceFile)
}

// Parse dispatches on the file extension: .csv goes to the CSV parser,
// .xlsx and .xls to the workbook parser.
func Parse(data []byte, sourceFile string) (*RawTable, error) {
	switch strings.ToLower(filepath.Ext(sourceFile)) {
	case ".csv":
		return ParseCSV(data, sourceFile)
	case ".xlsx", ".xls":
		return ParseXLSX(data, sourceFile)
	default:
		return nil, fmt.Errorf("unsupported sheet format: %s", filepath.Ext(sourceFile))
	}
}
