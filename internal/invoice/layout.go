// =============================================================================
// Store Back-Office Pipeline - Supplier Invoice Layouts
// =============================================================================
//
// Suppliers place line-item columns in different positions and orders, so
// layout is data, not code: a Layout describes one supplier's column
// order plus the header keywords that locate the line-item region. The
// extractor selects a layout by supplier key and falls back to a generic
// header-keyword heuristic for suppliers we have not profiled.
//
// Layouts ship with built-in defaults for the regular suppliers and can
// be overridden per supplier from the configs directory (see the config
// module).
//
// =============================================================================

package invoice

import "strings"

// Column identifies one line-item column role within a layout.
type Column string

const (
	ColSKU           Column = "sku"
	ColDescription   Column = "description"
	ColQuantity      Column = "quantity"
	ColUnitPrice     Column = "unit_price"
	ColExtendedPrice Column = "extended_price"
	ColTaxFlag       Column = "tax_flag"
)

// Layout describes how one supplier prints its line-item table.
type Layout struct {
	// Supplier is the supplier key this layout belongs to. Empty for the
	// generic fallback.
	Supplier string

	// Columns is the left-to-right column order. Description must appear
	// exactly once; it absorbs every token not claimed by the fixed
	// columns around it.
	Columns []Column

	// DecimalComma is set for suppliers that print European-style
	// amounts (1.234,56).
	DecimalComma bool

	// CategoryPrefix, when non-empty, marks section lines that set the
	// category for the items that follow (e.g. "** DAIRY").
	CategoryPrefix string
}

// headerKeywords maps each column role to the header tokens that identify
// it, lowercase. Shared by region detection and the generic layout.
var headerKeywords = map[Column][]string{
	ColSKU:           {"sku", "item#", "item #", "code", "upc"},
	ColDescription:   {"description", "item", "product"},
	ColQuantity:      {"qty", "quantity", "cases", "units"},
	ColUnitPrice:     {"unit price", "price", "cost", "each"},
	ColExtendedPrice: {"ext", "extended", "amount", "total"},
	ColTaxFlag:       {"tax", "tx"},
}

// defaultLayouts profiles the regular suppliers. Column orders here were
// taken from sample invoices for each account.
var defaultLayouts = map[string]Layout{
	// Fresh produce: item code, description, then the numeric block.
	"supplier_a": {
		Supplier: "supplier_a",
		Columns:  []Column{ColSKU, ColDescription, ColQuantity, ColUnitPrice, ColExtendedPrice},
	},
	// Dairy: no item codes, taxable flag after the line total.
	"supplier_b": {
		Supplier: "supplier_b",
		Columns:  []Column{ColDescription, ColQuantity, ColUnitPrice, ColExtendedPrice, ColTaxFlag},
	},
	// Packaged goods: price precedes quantity, category section headers.
	"supplier_c": {
		Supplier:       "supplier_c",
		Columns:        []Column{ColSKU, ColDescription, ColUnitPrice, ColQuantity, ColExtendedPrice},
		CategoryPrefix: "**",
	},
	// Beverages: European importer, decimal-comma amounts.
	"supplier_d": {
		Supplier:     "supplier_d",
		Columns:      []Column{ColDescription, ColQuantity, ColUnitPrice, ColExtendedPrice},
		DecimalComma: true,
	},
}

// genericLayout is the fallback for unknown suppliers: column order is
// inferred from the header line by keyword position at extraction time.
var genericLayout = Layout{
	Columns: []Column{ColDescription, ColQuantity, ColUnitPrice, ColExtendedPrice},
}

// LayoutRegistry resolves supplier keys to layouts. The zero value is not
// usable; build one with NewLayoutRegistry.
type LayoutRegistry struct {
	layouts map[string]Layout
}

// NewLayoutRegistry returns a registry seeded with the built-in supplier
// layouts.
func NewLayoutRegistry() *LayoutRegistry {
	layouts := make(map[string]Layout, len(defaultLayouts))
	for key, layout := range defaultLayouts {
		layouts[key] = layout
	}
	return &LayoutRegistry{layouts: layouts}
}

// Register adds or replaces the layout for a supplier key. Used by the
// config loader to apply per-supplier overrides.
func (r *LayoutRegistry) Register(key string, layout Layout) {
	layout.Supplier = normalizeSupplierKey(key)
	r.layouts[layout.Supplier] = layout
}

// Resolve returns the layout for the supplier hint, or the generic
// fallback (and false) when the supplier is unknown or the hint is empty.
func (r *LayoutRegistry) Resolve(supplierHint string) (Layout, bool) {
	if layout, ok := r.layouts[normalizeSupplierKey(supplierHint)]; ok {
		return layout, true
	}
	return genericLayout, false
}

// normalizeSupplierKey folds a display name like "Supplier A" onto the
// config key "supplier_a".
func normalizeSupplierKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, " ", "_")
	return key
}

// has reports whether the layout carries the given column.
func (l Layout) has(column Column) bool {
	for _, c := range l.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// split returns the fixed columns before the description, and the fixed
// columns after it, in layout order.
func (l Layout) split() (pre, post []Column) {
	seenDescription := false
	for _, column := range l.Columns {
		if column == ColDescription {
			seenDescription = true
			continue
		}
		if seenDescription {
			post = append(post, column)
		} else {
			pre = append(pre, column)
		}
	}
	return pre, post
}
