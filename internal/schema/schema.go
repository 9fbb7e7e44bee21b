// =============================================================================
// Store Back-Office Pipeline - Schema Registry
// =============================================================================
//
// This module defines the canonical target schema and the known output
// formats. It is a pure lookup layer: the column mapper and the sheet
// normalizer consult it to validate completeness, and it has no side
// effects and no failure modes.
//
// OUTPUT FORMATS:
//   - Standard Order Sheet : the house order layout sent to suppliers
//   - ECRS Import Format   : feeds the POS/inventory import pipeline
//   - Inventory Update     : on-hand adjustments keyed by SKU
//
// =============================================================================

package schema

import (
	"fmt"
	"strings"

	"github.com/harborfresh/storeops/internal/types"
)

// OutputFormat selects the target layout a canonical table is normalized
// for. Each format has its own required-field set.
type OutputFormat string

const (
	StandardOrderSheet OutputFormat = "Standard Order Sheet"
	ECRSImport         OutputFormat = "ECRS Import Format"
	InventoryUpdate    OutputFormat = "Inventory Update"
)

// CanonicalFields returns the closed set of mappable canonical fields,
// Ignore excluded, in display order.
func CanonicalFields() []types.CanonicalField {
	return []types.CanonicalField{
		types.FieldItemName,
		types.FieldQuantity,
		types.FieldPrice,
		types.FieldSKU,
		types.FieldUnit,
	}
}

// RequiredFieldsFor returns the canonical fields a row must carry to be
// valid for the given output format. Unknown formats require nothing;
// format validity is checked separately via ParseOutputFormat.
func RequiredFieldsFor(format OutputFormat) []types.CanonicalField {
	switch format {
	case StandardOrderSheet:
		return []types.CanonicalField{types.FieldItemName, types.FieldQuantity}
	case ECRSImport:
		return []types.CanonicalField{types.FieldItemName, types.FieldQuantity, types.FieldPrice}
	case InventoryUpdate:
		return []types.CanonicalField{types.FieldSKU, types.FieldQuantity}
	default:
		return nil
	}
}

// ParseOutputFormat resolves a user-supplied format name. Matching is
// case-insensitive and accepts the short aliases used on the command line.
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "standard order sheet", "standard", "order":
		return StandardOrderSheet, nil
	case "ecrs import format", "ecrs":
		return ECRSImport, nil
	case "inventory update", "inventory":
		return InventoryUpdate, nil
	default:
		return "", fmt.Errorf("unknown output format: %q", name)
	}
}

// ParseCanonicalField resolves a user-supplied field name from a mapping
// file. Matching is case-insensitive and tolerates underscores.
func ParseCanonicalField(name string) (types.CanonicalField, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", " "))
	switch normalized {
	case "item name", "itemname", "name":
		return types.FieldItemName, nil
	case "quantity", "qty":
		return types.FieldQuantity, nil
	case "price":
		return types.FieldPrice, nil
	case "sku":
		return types.FieldSKU, nil
	case "unit":
		return types.FieldUnit, nil
	case "ignore":
		return types.FieldIgnore, nil
	default:
		return "", fmt.Errorf("unknown canonical field: %q", name)
	}
}
