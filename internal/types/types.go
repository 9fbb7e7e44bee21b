// =============================================================================
// Store Back-Office Pipeline - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - mapper
//   - normalizer
//   - invoice
//   - ecrs
//   - batch
//
// All types are value objects: they are constructed by one pipeline stage,
// consumed by the next, and never mutated after creation. No shared state
// crosses conversion requests.
//
// =============================================================================

package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CANONICAL SCHEMA TYPES
// =============================================================================

// CanonicalField identifies one of the fixed target fields every supplier
// sheet is normalized into. The set is closed; Ignore marks a source column
// that is intentionally dropped.
type CanonicalField string

const (
	FieldItemName CanonicalField = "Item Name"
	FieldQuantity CanonicalField = "Quantity"
	FieldPrice    CanonicalField = "Price"
	FieldSKU      CanonicalField = "SKU"
	FieldUnit     CanonicalField = "Unit"
	FieldIgnore   CanonicalField = "Ignore"
)

// ColumnMapping maps a source column header to a canonical field.
// At most one source column may map to each non-Ignore field per conversion;
// any number of columns may map to Ignore.
type ColumnMapping map[string]CanonicalField

// CanonicalRow is one normalized record. All fields are optional at this
// stage: whether a missing field is an error depends on the output format
// chosen downstream, so presence is tracked explicitly for the numeric
// fields rather than relying on zero values.
type CanonicalRow struct {
	// ItemName is the product description. Empty means unset.
	ItemName string

	// Quantity is the ordered/billed quantity. Valid only if HasQuantity.
	Quantity decimal.Decimal

	// HasQuantity reports whether Quantity was successfully parsed.
	HasQuantity bool

	// Price is the unit price. Valid only if HasPrice.
	Price decimal.Decimal

	// HasPrice reports whether Price was successfully parsed.
	HasPrice bool

	// SKU is the supplier or POS stock-keeping unit. Empty means unset.
	SKU string

	// Unit is the unit of measure (case, each, lb...). Empty means unset.
	Unit string

	// Coercions records cells that could not be parsed as their target
	// type. The row is retained with the field left unset; downstream
	// validation decides whether the row is still usable.
	Coercions []CoercionError
}

// Has reports whether the given canonical field is set on the row.
func (r CanonicalRow) Has(field CanonicalField) bool {
	switch field {
	case FieldItemName:
		return r.ItemName != ""
	case FieldQuantity:
		return r.HasQuantity
	case FieldPrice:
		return r.HasPrice
	case FieldSKU:
		return r.SKU != ""
	case FieldUnit:
		return r.Unit != ""
	default:
		return false
	}
}

// CanonicalTable is an ordered sequence of canonical rows. SourceFile
// carries the originating file name for traceability in error reports.
type CanonicalTable struct {
	SourceFile string
	Rows       []CanonicalRow
}

// =============================================================================
// INVOICE TYPES
// =============================================================================

// LineItem is one invoice row: a purchased/billed product with quantity
// and pricing. ExtendedPrice is what the supplier printed, not what we
// computed; see PriceMismatch.
type LineItem struct {
	// Description is the printed product description.
	Description string

	// SKU is the supplier item code, when the layout carries one.
	SKU string

	// Quantity is the billed quantity.
	Quantity decimal.Decimal

	// UnitPrice is the per-unit price.
	UnitPrice decimal.Decimal

	// ExtendedPrice is the line total as printed on the invoice.
	ExtendedPrice decimal.Decimal

	// TaxFlag indicates the line is taxable.
	TaxFlag bool

	// Category groups items for the Itemized ECRS variant. Empty when the
	// invoice does not carry category information.
	Category string

	// PriceMismatch is set when ExtendedPrice disagrees with
	// Quantity*UnitPrice beyond the rounding tolerance. The disagreement
	// may be a genuine supplier discount or surcharge, so the item is
	// flagged rather than corrected.
	PriceMismatch bool
}

// Invoice is the immutable result of extracting one source document.
// It is created by the invoice extractor and consumed once by the ECRS
// encoder; nothing mutates it after creation.
type Invoice struct {
	SupplierName  string
	StoreID       string
	InvoiceDate   string
	InvoiceNumber string
	LineItems     []LineItem

	// TotalsDeclared is the document's printed grand total, when one was
	// found. Valid only if HasTotals.
	TotalsDeclared decimal.Decimal
	HasTotals      bool
}

// =============================================================================
// BATCH TYPES
// =============================================================================

// BatchEntry is one successfully converted document.
type BatchEntry struct {
	SourceFileName string
	EncodedBytes   []byte
}

// BatchFailure records one document that could not be converted. The
// failure is scoped to its document and never affects the others.
type BatchFailure struct {
	SourceFileName string
	ErrorKind      string
	Message        string
}

// BatchResult aggregates the outcome of a batch conversion. Succeeded and
// Failed both preserve input order; one document's failure never discards
// another's success.
type BatchResult struct {
	Succeeded []BatchEntry
	Failed    []BatchFailure
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// CoercionError records a single cell whose value could not be parsed as
// the type its canonical field requires. It is attached to the row, not
// returned as a table-level failure.
type CoercionError struct {
	// Field is the canonical field the cell was mapped to.
	Field CanonicalField

	// Column is the source column header.
	Column string

	// Value is the raw cell content that failed to parse.
	Value string
}

// Error implements the error interface.
func (e CoercionError) Error() string {
	return fmt.Sprintf("cannot parse %q as %s (column %q)", e.Value, e.Field, e.Column)
}

// RowValidationError reports one row excluded during normalization,
// with enough context (index, missing fields) to act on.
type RowValidationError struct {
	// RowIndex is the 0-based index of the row in the canonical table.
	RowIndex int

	// MissingFields lists the required fields the row does not provide.
	MissingFields []CanonicalField

	// Reason carries format-specific failures that are not simple
	// missing fields (e.g. a negative quantity for an inventory update).
	Reason string
}

// Error implements the error interface.
func (e RowValidationError) Error() string {
	if len(e.MissingFields) > 0 {
		names := make([]string, len(e.MissingFields))
		for i, f := range e.MissingFields {
			names[i] = string(f)
		}
		return fmt.Sprintf("row %d: missing required field(s): %s", e.RowIndex, strings.Join(names, ", "))
	}
	return fmt.Sprintf("row %d: %s", e.RowIndex, e.Reason)
}
