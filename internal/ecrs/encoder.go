// =============================================================================
// Store Back-Office Pipeline - ECRS Encoder
// =============================================================================
//
// Serializes line items into the fixed text format the ECRS point-of-sale
// import consumes. The output is a bit-exact contract: comma delimiter,
// exactly two decimal places, no currency symbols, no thousands
// separators, "\n" terminator. The POS import is format-sensitive, so any
// change here is a breaking change for the stores.
//
// VARIANTS:
//   Standard : <description>,<quantity>,<unitPrice>
//   WithTax  : <description>,<quantity>,<unitPrice>,<taxFlag:0|1>
//   Itemized : WithTax records grouped under #CATEGORY:<name> sub-headers
//              in first-seen category order
//
// Encoding is a pure, total function over well-formed line items: given a
// valid sequence it cannot fail, and identical input produces
// byte-identical output.
//
// =============================================================================

package ecrs

import (
	"fmt"
	"strings"

	"github.com/harborfresh/storeops/internal/types"
)

// Variant selects the ECRS encoding rules.
type Variant string

const (
	Standard Variant = "Standard"
	WithTax  Variant = "WithTax"
	Itemized Variant = "Itemized"
)

// CategoryMarker prefixes the category sub-header lines in the Itemized
// variant. Reserved by the ECRS import format.
const CategoryMarker = "#CATEGORY:"

// uncategorizedLabel is the sub-header used for items that carry no
// category in an Itemized export.
const uncategorizedLabel = "UNCATEGORIZED"

// ParseVariant resolves a user-supplied variant name, accepting both the
// short names and the "Format A/B/C" labels used on the invoice intake
// forms.
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "standard", "a", "format a", "format a (standard)":
		return Standard, nil
	case "withtax", "with tax", "with-tax", "b", "format b", "format b (with tax)":
		return WithTax, nil
	case "itemized", "c", "format c", "format c (itemized)":
		return Itemized, nil
	default:
		return "", fmt.Errorf("unknown ECRS format variant: %q", name)
	}
}

// Encode serializes the line items for the given variant. storeID and
// supplierName identify the conversion for callers that archive the
// output; the record lines themselves carry neither.
func Encode(items []types.LineItem, storeID, supplierName string, variant Variant) string {
	var sb strings.Builder

	switch variant {
	case Itemized:
		encodeItemized(&sb, items)
	default:
		for _, item := range items {
			writeRecord(&sb, item, variant == WithTax)
		}
	}

	return sb.String()
}

// encodeItemized writes category sub-headers in first-seen order, each
// followed by that category's items in input order. Items without a
// category fall under the reserved UNCATEGORIZED label.
func encodeItemized(sb *strings.Builder, items []types.LineItem) {
	var order []string
	grouped := make(map[string][]types.LineItem)
	for _, item := range items {
		category := item.Category
		if category == "" {
			category = uncategorizedLabel
		}
		if _, seen := grouped[category]; !seen {
			order = append(order, category)
		}
		grouped[category] = append(grouped[category], item)
	}

	for _, category := range order {
		sb.WriteString(CategoryMarker)
		sb.WriteString(category)
		sb.WriteByte('\n')
		for _, item := range grouped[category] {
			writeRecord(sb, item, true)
		}
	}
}

// writeRecord writes one item line. The description is emitted verbatim
// (minus line breaks); quantity and unit price are fixed to two decimals.
func writeRecord(sb *strings.Builder, item types.LineItem, withTax bool) {
	sb.WriteString(sanitizeDescription(item.Description))
	sb.WriteByte(',')
	sb.WriteString(item.Quantity.StringFixed(2))
	sb.WriteByte(',')
	sb.WriteString(item.UnitPrice.StringFixed(2))
	if withTax {
		sb.WriteByte(',')
		if item.TaxFlag {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	sb.WriteByte('\n')
}

// sanitizeDescription strips line breaks, which the one-record-per-line
// format cannot represent. Commas are kept: the import reads the numeric
// columns from the right.
func sanitizeDescription(description string) string {
	description = strings.ReplaceAll(description, "\n", " ")
	description = strings.ReplaceAll(description, "\r", " ")
	return description
}

// FromCanonicalTable projects canonical rows into line items so a
// normalized supplier sheet can feed the encoder directly. Quantity and
// price are required; rows missing either are reported and skipped, and
// the extended price is computed.
func FromCanonicalTable(table *types.CanonicalTable) ([]types.LineItem, []types.RowValidationError) {
	items := make([]types.LineItem, 0, len(table.Rows))
	var errs []types.RowValidationError

	for i, row := range table.Rows {
		var missing []types.CanonicalField
		if !row.HasQuantity {
			missing = append(missing, types.FieldQuantity)
		}
		if !row.HasPrice {
			missing = append(missing, types.FieldPrice)
		}
		if len(missing) > 0 {
			errs = append(errs, types.RowValidationError{RowIndex: i, MissingFields: missing})
			continue
		}

		items = append(items, types.LineItem{
			Description:   row.ItemName,
			SKU:           row.SKU,
			Quantity:      row.Quantity,
			UnitPrice:     row.Price,
			ExtendedPrice: row.Quantity.Mul(row.Price).Round(2),
		})
	}

	return items, errs
}
