// =============================================================================
// Store Back-Office Pipeline - Sheet Normalizer
// =============================================================================
//
// This module validates a canonical table against a target output format
// and produces a table containing only fully valid rows. Validation is
// collected, not thrown: every excluded row is reported exactly once with
// its index and the reason, and valid rows keep their original relative
// order.
//
// FORMAT RULES:
//   - Every format: rows must carry that format's required fields.
//   - Inventory Update: SKU must be non-empty and Quantity must be >= 0.
//     A negative quantity is a validation error, never clamped - a
//     negative on-hand adjustment sneaking through would corrupt counts.
//
// =============================================================================

package normalizer

import (
	"fmt"

	"github.com/harborfresh/storeops/internal/schema"
	"github.com/harborfresh/storeops/internal/types"
)

// Normalize checks each row of the table against the required fields for
// the chosen output format and applies format-specific rules. Rows that
// fail are excluded from the returned table and reported; they are never
// dropped silently.
func Normalize(table *types.CanonicalTable, format schema.OutputFormat) (*types.CanonicalTable, []types.RowValidationError) {
	required := schema.RequiredFieldsFor(format)

	out := &types.CanonicalTable{
		SourceFile: table.SourceFile,
		Rows:       make([]types.CanonicalRow, 0, len(table.Rows)),
	}
	var errs []types.RowValidationError

	for i, row := range table.Rows {
		if rowErr, ok := validateRow(row, i, required, format); !ok {
			errs = append(errs, rowErr)
			continue
		}
		out.Rows = append(out.Rows, row)
	}

	return out, errs
}

// validateRow checks one row. It returns the validation error and false
// when the row must be excluded.
func validateRow(row types.CanonicalRow, index int, required []types.CanonicalField, format schema.OutputFormat) (types.RowValidationError, bool) {
	var missing []types.CanonicalField
	for _, field := range required {
		if !row.Has(field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return types.RowValidationError{RowIndex: index, MissingFields: missing}, false
	}

	if format == schema.InventoryUpdate && row.Quantity.IsNegative() {
		return types.RowValidationError{
			RowIndex: index,
			Reason:   fmt.Sprintf("negative quantity %s not allowed for inventory update", row.Quantity.String()),
		}, false
	}

	return types.RowValidationError{}, true
}
