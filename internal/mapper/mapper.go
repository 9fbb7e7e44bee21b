// =============================================================================
// Store Back-Office Pipeline - Column Mapper
// =============================================================================
//
// This module projects an arbitrary supplier sheet into the canonical
// schema using a user-declared column -> canonical-field mapping. Supplier
// sheets name the same data dozens of different ways ("Qty", "Cases",
// "Order Amt"...), so the mapping is declared per conversion rather than
// guessed.
//
// ERROR HANDLING:
//   - Configuration errors (unknown column, duplicate target field) make
//     the whole operation ill-defined and abort before any row is
//     processed.
//   - Cell-level coercion failures are attached to their row and never
//     abort the table; downstream validation decides whether the row is
//     still usable.
//
// =============================================================================

package mapper

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/harborfresh/storeops/internal/sheetparser"
	"github.com/harborfresh/storeops/internal/types"
)

// =============================================================================
// VALIDATION ERRORS
// =============================================================================

// Validation error kinds. These identify mapping-configuration problems
// that are user-correctable and abort the conversion up front.
const (
	KindUnknownColumn    = "UnknownColumn"
	KindDuplicateMapping = "DuplicateMapping"
)

// ValidationError reports a mapping configuration that makes the entire
// conversion ill-defined.
type ValidationError struct {
	// Kind is one of the validation error kinds above.
	Kind string

	// Field is the canonical field involved (DuplicateMapping only).
	Field types.CanonicalField

	// Columns lists the offending source columns.
	Columns []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindUnknownColumn:
		return fmt.Sprintf("mapped column(s) not present in sheet: %s", strings.Join(e.Columns, ", "))
	case KindDuplicateMapping:
		return fmt.Sprintf("multiple columns mapped to %s: %s", e.Field, strings.Join(e.Columns, ", "))
	default:
		return fmt.Sprintf("invalid mapping (%s)", e.Kind)
	}
}

// =============================================================================
// MAPPING FUNCTION
// =============================================================================

// MapColumns projects a raw table into the canonical schema.
//
// The mapping is validated before any row is touched: every mapped column
// must exist in the sheet, and no two columns may target the same
// non-Ignore field. For valid mappings the output preserves the input row
// order and row count; cells that fail numeric coercion leave their field
// unset and attach a CoercionError to the row.
func MapColumns(raw *sheetparser.RawTable, mapping types.ColumnMapping) (*types.CanonicalTable, error) {
	if err := validateMapping(raw, mapping); err != nil {
		return nil, err
	}

	table := &types.CanonicalTable{
		SourceFile: raw.SourceFile,
		Rows:       make([]types.CanonicalRow, 0, len(raw.Rows)),
	}

	for _, rawRow := range raw.Rows {
		row := types.CanonicalRow{}
		for _, column := range sortedColumns(mapping) {
			applyCell(&row, column, mapping[column], rawRow[column])
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// validateMapping checks the mapping configuration against the sheet.
// Offending columns are reported sorted so error text is stable.
func validateMapping(raw *sheetparser.RawTable, mapping types.ColumnMapping) error {
	var unknown []string
	for column := range mapping {
		if !raw.HasColumn(column) {
			unknown = append(unknown, column)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &ValidationError{Kind: KindUnknownColumn, Columns: unknown}
	}

	byField := make(map[types.CanonicalField][]string)
	for column, field := range mapping {
		if field == types.FieldIgnore {
			continue
		}
		byField[field] = append(byField[field], column)
	}
	for _, field := range []types.CanonicalField{
		types.FieldItemName,
		types.FieldQuantity,
		types.FieldPrice,
		types.FieldSKU,
		types.FieldUnit,
	} {
		if columns := byField[field]; len(columns) > 1 {
			sort.Strings(columns)
			return &ValidationError{Kind: KindDuplicateMapping, Field: field, Columns: columns}
		}
	}

	return nil
}

// applyCell writes one source cell into its canonical field. Numeric
// fields attempt a decimal parse; a failed parse leaves the field unset
// and records the coercion failure on the row.
func applyCell(row *types.CanonicalRow, column string, field types.CanonicalField, value string) {
	value = strings.TrimSpace(value)

	switch field {
	case types.FieldItemName:
		row.ItemName = value
	case types.FieldSKU:
		row.SKU = value
	case types.FieldUnit:
		row.Unit = value
	case types.FieldQuantity, types.FieldPrice:
		if value == "" {
			return
		}
		parsed, err := parseNumericCell(value)
		if err != nil {
			row.Coercions = append(row.Coercions, types.CoercionError{
				Field:  field,
				Column: column,
				Value:  value,
			})
			return
		}
		if field == types.FieldQuantity {
			row.Quantity = parsed
			row.HasQuantity = true
		} else {
			row.Price = parsed
			row.HasPrice = true
		}
	case types.FieldIgnore:
		// Dropped by declaration.
	}
}

// parseNumericCell parses a spreadsheet cell as a decimal, tolerating the
// currency symbols and thousands separators suppliers leave in exported
// price columns.
func parseNumericCell(value string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(value)
	for _, symbol := range []string{"$", "€", "£"} {
		cleaned = strings.ReplaceAll(cleaned, symbol, "")
	}
	cleaned = strings.TrimSpace(cleaned)

	// "1,234.56" -> "1234.56"; a comma with no period is a decimal comma.
	if strings.Contains(cleaned, ",") {
		if strings.Contains(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		}
	}

	return decimal.NewFromString(cleaned)
}

// sortedColumns returns the mapping's source columns in stable order.
func sortedColumns(mapping types.ColumnMapping) []string {
	columns := make([]string, 0, len(mapping))
	for column := range mapping {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}
