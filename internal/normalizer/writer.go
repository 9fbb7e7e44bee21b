// =============================================================================
// Store Back-Office Pipeline - Normalized Workbook Writer
// =============================================================================
//
// Serializes a normalized canonical table back to an XLSX workbook for
// caller-side download. One sheet, canonical headers in registry order,
// numeric cells written as numbers so spreadsheet tools treat them as
// such.
//
// =============================================================================

package normalizer

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/harborfresh/storeops/internal/schema"
	"github.com/harborfresh/storeops/internal/types"
)

// sheetName is the single sheet emitted in normalized workbooks.
const sheetName = "Processed"

// WriteWorkbook serializes the table to XLSX bytes. Unset optional fields
// become empty cells.
func WriteWorkbook(table *types.CanonicalTable) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	// Drop the default sheet excelize creates alongside ours.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	fields := schema.CanonicalFields()
	header := make([]interface{}, len(fields))
	for i, field := range fields {
		header[i] = string(field)
	}
	if err := writeRow(f, 1, header); err != nil {
		return nil, err
	}

	for i, row := range table.Rows {
		cells := make([]interface{}, len(fields))
		for j, field := range fields {
			cells[j] = cellValue(row, field)
		}
		if err := writeRow(f, i+2, cells); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// cellValue extracts the cell value for one canonical field. Numeric
// fields are emitted as float64 so excelize writes a numeric cell.
func cellValue(row types.CanonicalRow, field types.CanonicalField) interface{} {
	switch field {
	case types.FieldItemName:
		return row.ItemName
	case types.FieldQuantity:
		if row.HasQuantity {
			return row.Quantity.InexactFloat64()
		}
	case types.FieldPrice:
		if row.HasPrice {
			return row.Price.InexactFloat64()
		}
	case types.FieldSKU:
		return row.SKU
	case types.FieldUnit:
		return row.Unit
	}
	return ""
}

// writeRow writes one row of cells starting at column A.
func writeRow(f *excelize.File, rowNum int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to compute cell name: %w", err)
	}
	if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
