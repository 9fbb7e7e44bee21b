// =============================================================================
// Store Back-Office Pipeline - Invoice Extractor
// =============================================================================
//
// This module turns one supplier invoice document into a structured
// Invoice. The pipeline is:
//   1. Decode the document bytes to text (PDF text layer, or plain text)
//   2. Scan the preamble for invoice number and date
//   3. Locate the line-item region via the supplier layout's header line
//   4. Parse each row into a LineItem using the layout's column order
//   5. Cross-check extended prices and capture the declared total
//
// Extraction is deterministic for a given document and supplier hint:
// no randomness, no network, no filesystem. Every failure is an
// ExtractionError scoped to the single document; batch processing decides
// what to do with it.
//
// =============================================================================

package invoice

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/harborfresh/storeops/internal/types"
)

// =============================================================================
// EXTRACTION ERRORS
// =============================================================================

// Extraction error kinds. All are terminal for the single document and
// never abort a batch.
const (
	KindNoLineItemsFound          = "NoLineItemsFound"
	KindUnsupportedDocumentFormat = "UnsupportedDocumentFormat"
	KindCorruptDocument           = "CorruptDocument"
)

// ExtractionError reports why a single document could not be extracted.
type ExtractionError struct {
	// Kind is one of the extraction error kinds above.
	Kind string

	// Message describes the failure in caller-renderable terms.
	Message string

	// Err is the underlying decode error, when there is one.
	Err error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying decode error.
func (e *ExtractionError) Unwrap() error { return e.Err }

// priceTolerance is the rounding slack allowed between the printed
// extended price and quantity*unitPrice before a line is flagged.
var priceTolerance = decimal.RequireFromString("0.01")

// =============================================================================
// EXTRACTOR
// =============================================================================

// Extractor parses invoice documents using a layout registry.
type Extractor struct {
	layouts *LayoutRegistry
}

// NewExtractor returns an extractor backed by the built-in supplier
// layouts.
func NewExtractor() *Extractor {
	return &Extractor{layouts: NewLayoutRegistry()}
}

// NewExtractorWithLayouts returns an extractor using a caller-provided
// registry (built-in defaults plus config overrides).
func NewExtractorWithLayouts(layouts *LayoutRegistry) *Extractor {
	return &Extractor{layouts: layouts}
}

// Extract parses one invoice document into an Invoice. supplierHint
// selects the supplier layout; an unknown or empty hint falls back to the
// generic header-keyword heuristic. storeID is carried through onto the
// resulting Invoice for traceability.
func (x *Extractor) Extract(document []byte, supplierHint, storeID string) (*types.Invoice, error) {
	text, err := decodeDocument(document)
	if err != nil {
		return nil, err
	}

	layout, known := x.layouts.Resolve(supplierHint)

	lines := splitLines(text)
	inv := &types.Invoice{
		SupplierName: supplierHint,
		StoreID:      storeID,
	}
	scanPreamble(lines, inv)

	headerIdx, rowLayout := findLineItemRegion(lines, layout, known)
	if headerIdx < 0 {
		return nil, &ExtractionError{
			Kind:    KindNoLineItemsFound,
			Message: "no line-item table header recognized",
		}
	}

	category := ""
	for _, line := range lines[headerIdx+1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if total, ok := matchTotalLine(trimmed, rowLayout); ok {
			inv.TotalsDeclared = total
			inv.HasTotals = true
			break
		}
		if rowLayout.CategoryPrefix != "" && strings.HasPrefix(trimmed, rowLayout.CategoryPrefix) {
			category = strings.TrimSpace(strings.TrimPrefix(trimmed, rowLayout.CategoryPrefix))
			continue
		}
		item, ok := parseLineItem(trimmed, rowLayout)
		if !ok {
			continue
		}
		item.Category = category
		inv.LineItems = append(inv.LineItems, item)
	}

	if len(inv.LineItems) == 0 {
		return nil, &ExtractionError{
			Kind:    KindNoLineItemsFound,
			Message: "line-item region contained no parseable rows",
		}
	}

	return inv, nil
}

// =============================================================================
// DOCUMENT DECODING
// =============================================================================

// decodeDocument turns document bytes into text. PDF bytes go through the
// PDF text layer; printable UTF-8 is accepted as a text invoice; anything
// else is unsupported.
func decodeDocument(document []byte) (string, error) {
	if len(document) == 0 {
		return "", &ExtractionError{
			Kind:    KindCorruptDocument,
			Message: "document is empty",
		}
	}

	if isPDF(document) {
		return extractPDFText(document)
	}

	if utf8.Valid(document) && isMostlyPrintable(document) {
		return string(document), nil
	}

	return "", &ExtractionError{
		Kind:    KindUnsupportedDocumentFormat,
		Message: "document is neither a PDF nor a text invoice",
	}
}

// isPDF checks the PDF magic header.
func isPDF(document []byte) bool {
	return len(document) >= 5 && string(document[:5]) == "%PDF-"
}

// isMostlyPrintable rejects binary blobs that happen to be valid UTF-8.
func isMostlyPrintable(document []byte) bool {
	control := 0
	for _, b := range document {
		if b < 0x09 || (b > 0x0d && b < 0x20) {
			control++
		}
	}
	return control*20 < len(document)
}

// splitLines normalizes line endings and splits the text into lines.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// =============================================================================
// PREAMBLE METADATA
// =============================================================================

var (
	invoiceNumberPattern = regexp.MustCompile(`(?i)invoice\s*(?:number|no\.?|#)?\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9-]*)`)
	invoiceDatePattern   = regexp.MustCompile(`(?i)date\s*[:]?\s*(\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{2,4})`)
)

// scanPreamble pulls invoice number and date out of the document header
// lines. Absence is not an error; the fields stay empty.
func scanPreamble(lines []string, inv *types.Invoice) {
	for _, line := range lines {
		if inv.InvoiceNumber == "" {
			if m := invoiceNumberPattern.FindStringSubmatch(line); m != nil {
				inv.InvoiceNumber = m[1]
			}
		}
		if inv.InvoiceDate == "" {
			if m := invoiceDatePattern.FindStringSubmatch(line); m != nil {
				inv.InvoiceDate = m[1]
			}
		}
		if inv.InvoiceNumber != "" && inv.InvoiceDate != "" {
			return
		}
	}
}

// =============================================================================
// LINE-ITEM REGION DETECTION
// =============================================================================

// findLineItemRegion locates the table header line. For a known supplier
// the layout's column order is trusted and the header only marks where
// the region starts; for unknown suppliers the column order is inferred
// from keyword positions in the header line itself.
func findLineItemRegion(lines []string, layout Layout, known bool) (int, Layout) {
	for i, line := range lines {
		roles := headerRoles(line)
		if len(roles) < 2 {
			continue
		}
		if known {
			return i, layout
		}
		if inferred, ok := inferLayout(line); ok {
			return i, inferred
		}
	}
	return -1, layout
}

// headerRoles counts the distinct column roles mentioned in a line.
func headerRoles(line string) map[Column]bool {
	lower := strings.ToLower(line)
	roles := make(map[Column]bool)
	for column, keywords := range headerKeywords {
		for _, keyword := range keywords {
			if strings.Contains(lower, keyword) {
				roles[column] = true
				break
			}
		}
	}
	return roles
}

// inferLayout builds a layout from keyword positions in a header line,
// for suppliers without a profiled layout. The header keyword order is
// taken as the column order.
func inferLayout(line string) (Layout, bool) {
	lower := strings.ToLower(line)

	type found struct {
		column Column
		index  int
	}
	var positions []found

	locate := func(column Column) int {
		best := -1
		for _, keyword := range headerKeywords[column] {
			if idx := strings.Index(lower, keyword); idx >= 0 && (best < 0 || idx < best) {
				best = idx
			}
		}
		return best
	}

	skuIdx := locate(ColSKU)
	for _, column := range []Column{ColSKU, ColDescription, ColQuantity, ColUnitPrice, ColExtendedPrice, ColTaxFlag} {
		idx := locate(column)
		if idx < 0 {
			continue
		}
		// "Item#" satisfies both the SKU and description keywords at the
		// same offset; the more specific role wins.
		if column == ColDescription && skuIdx == idx {
			idx = strings.Index(lower, "description")
			if idx < 0 {
				idx = strings.Index(lower, "product")
			}
			if idx < 0 {
				continue
			}
		}
		// "Unit Price" and "Ext Price" both contain "price"; anchor the
		// extended column on its own keywords only.
		positions = append(positions, found{column: column, index: idx})
	}

	// The inferred layout must at least carry the numeric core.
	has := func(c Column) bool {
		for _, p := range positions {
			if p.column == c {
				return true
			}
		}
		return false
	}
	if !has(ColDescription) || !has(ColQuantity) || !has(ColUnitPrice) {
		return Layout{}, false
	}

	// Order columns by their offset in the header line.
	for i := 1; i < len(positions); i++ {
		for j := i; j > 0 && positions[j].index < positions[j-1].index; j-- {
			positions[j], positions[j-1] = positions[j-1], positions[j]
		}
	}

	columns := make([]Column, len(positions))
	for i, p := range positions {
		columns[i] = p.column
	}
	return Layout{Columns: columns}, true
}

// =============================================================================
// ROW PARSING
// =============================================================================

// terminators end the line-item region when a line starts with one.
var terminators = []string{"total", "subtotal", "sub-total", "amount due", "balance", "---", "==="}

// matchTotalLine recognizes the declared-total line and parses its
// amount. A terminator word or rule without a parsable amount is not a
// trailer: dashed rules are printed under table headers too, and ending
// the region there would discard every row.
func matchTotalLine(line string, layout Layout) (decimal.Decimal, bool) {
	lower := strings.ToLower(line)
	matched := false
	for _, t := range terminators {
		if strings.HasPrefix(lower, t) {
			matched = true
			break
		}
	}
	if !matched {
		return decimal.Decimal{}, false
	}

	tokens := strings.Fields(line)
	for i := len(tokens) - 1; i >= 0; i-- {
		if amount, err := parseAmount(tokens[i], layout.DecimalComma); err == nil {
			return amount, true
		}
	}
	return decimal.Decimal{}, false
}

// parseLineItem parses one data row using the layout's column order.
// Fixed columns before the description are taken from the left, fixed
// columns after it from the right; the description absorbs the middle.
// Rows whose numeric cells do not parse are not data rows.
func parseLineItem(line string, layout Layout) (types.LineItem, bool) {
	tokens := strings.Fields(line)
	pre, post := layout.split()

	// A trailing tax-flag column may be absent on non-taxable lines.
	optionalTax := len(post) > 0 && post[len(post)-1] == ColTaxFlag
	required := len(pre) + len(post) + 1
	if optionalTax {
		required--
	}
	if len(tokens) < required {
		return types.LineItem{}, false
	}

	item := types.LineItem{}

	taxPresent := optionalTax && isTaxMarker(tokens[len(tokens)-1])
	end := len(tokens)
	if taxPresent {
		item.TaxFlag = true
		end--
	}

	postFixed := post
	if optionalTax {
		postFixed = post[:len(post)-1]
	}

	if len(tokens[:end]) < len(pre)+len(postFixed)+1 {
		return types.LineItem{}, false
	}

	for i, column := range pre {
		if !assignToken(&item, column, tokens[i], layout) {
			return types.LineItem{}, false
		}
	}
	for i, column := range postFixed {
		token := tokens[end-len(postFixed)+i]
		if !assignToken(&item, column, token, layout) {
			return types.LineItem{}, false
		}
	}

	descTokens := tokens[len(pre) : end-len(postFixed)]
	item.Description = strings.Join(descTokens, " ")
	if item.Description == "" {
		return types.LineItem{}, false
	}

	crossCheck(&item, layout.has(ColExtendedPrice))
	return item, true
}

// assignToken writes one token into its column. Numeric columns must
// parse; a parse failure means the line is not a data row.
func assignToken(item *types.LineItem, column Column, token string, layout Layout) bool {
	switch column {
	case ColSKU:
		item.SKU = token
		return true
	case ColQuantity:
		value, err := parseAmount(token, layout.DecimalComma)
		if err != nil {
			return false
		}
		item.Quantity = value
		return true
	case ColUnitPrice:
		value, err := parseAmount(token, layout.DecimalComma)
		if err != nil {
			return false
		}
		item.UnitPrice = value
		return true
	case ColExtendedPrice:
		value, err := parseAmount(token, layout.DecimalComma)
		if err != nil {
			return false
		}
		item.ExtendedPrice = value
		return true
	case ColTaxFlag:
		item.TaxFlag = isTaxMarker(token)
		return true
	default:
		return false
	}
}

// crossCheck recomputes the extended price. When the layout carries no
// extended column the computed value is filled in; when it does, the
// printed value is kept as-is and disagreement beyond the tolerance is
// flagged. A printed 0.00 still counts as a printed value: free-goods
// lines must be flagged, not overwritten.
func crossCheck(item *types.LineItem, hasExtended bool) {
	computed := item.Quantity.Mul(item.UnitPrice)
	if !hasExtended {
		item.ExtendedPrice = computed.Round(2)
		return
	}
	diff := computed.Sub(item.ExtendedPrice).Abs()
	if diff.GreaterThan(priceTolerance) {
		item.PriceMismatch = true
	}
}

// isTaxMarker recognizes the tax markers suppliers print after a line.
func isTaxMarker(token string) bool {
	switch strings.ToUpper(token) {
	case "T", "TX", "TAX", "*", "Y":
		return true
	default:
		return false
	}
}

// parseAmount parses an invoice amount with locale-aware decimal
// handling: currency symbols stripped, decimal comma honored when the
// layout declares it.
func parseAmount(token string, decimalComma bool) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(token)
	for _, symbol := range []string{"$", "€", "£", "USD", "EUR"} {
		cleaned = strings.ReplaceAll(cleaned, symbol, "")
	}
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}

	if decimalComma {
		// 1.234,56 -> 1234.56
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	} else {
		// 1,234.56 -> 1234.56
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", token, err)
	}
	return value, nil
}
