package ecrs

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborfresh/storeops/internal/types"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEncodeStandard(t *testing.T) {
	tests := []struct {
		name  string
		items []types.LineItem
		want  string
	}{
		{
			name: "single item",
			items: []types.LineItem{
				{Description: "Milk", Quantity: dec("2"), UnitPrice: dec("3.00")},
			},
			want: "Milk,2.00,3.00\n",
		},
		{
			name:  "empty input",
			items: nil,
			want:  "",
		},
		{
			name: "two decimals always",
			items: []types.LineItem{
				{Description: "Eggs", Quantity: dec("12"), UnitPrice: dec("0.5")},
				{Description: "Flour", Quantity: dec("1.5"), UnitPrice: dec("2.999")},
			},
			want: "Eggs,12.00,0.50\nFlour,1.50,3.00\n",
		},
		{
			name: "description commas kept",
			items: []types.LineItem{
				{Description: "Cheese, aged", Quantity: dec("1"), UnitPrice: dec("8.25")},
			},
			want: "Cheese, aged,1.00,8.25\n",
		},
		{
			name: "line breaks stripped from description",
			items: []types.LineItem{
				{Description: "Oat\nBars", Quantity: dec("3"), UnitPrice: dec("1.10")},
			},
			want: "Oat Bars,3.00,1.10\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.items, "STORE001", "supplier_a", Standard)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeWithTax(t *testing.T) {
	items := []types.LineItem{
		{Description: "Soda", Quantity: dec("6"), UnitPrice: dec("1.25"), TaxFlag: true},
		{Description: "Bread", Quantity: dec("2"), UnitPrice: dec("2.50")},
	}

	got := Encode(items, "STORE002", "supplier_b", WithTax)
	assert.Equal(t, "Soda,6.00,1.25,1\nBread,2.00,2.50,0\n", got)
}

func TestEncodeItemized(t *testing.T) {
	items := []types.LineItem{
		{Description: "Milk", Quantity: dec("2"), UnitPrice: dec("3.00"), Category: "DAIRY"},
		{Description: "Soda", Quantity: dec("6"), UnitPrice: dec("1.25"), Category: "BEVERAGES", TaxFlag: true},
		{Description: "Yogurt", Quantity: dec("4"), UnitPrice: dec("0.99"), Category: "DAIRY"},
		{Description: "Napkins", Quantity: dec("1"), UnitPrice: dec("3.49")},
	}

	got := Encode(items, "STORE001", "supplier_c", Itemized)

	want := strings.Join([]string{
		"#CATEGORY:DAIRY",
		"Milk,2.00,3.00,0",
		"Yogurt,4.00,0.99,0",
		"#CATEGORY:BEVERAGES",
		"Soda,6.00,1.25,1",
		"#CATEGORY:UNCATEGORIZED",
		"Napkins,1.00,3.49,0",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestEncodeItemizedFirstSeenOrder(t *testing.T) {
	// Category order follows first appearance in the input, not
	// alphabetical order.
	items := []types.LineItem{
		{Description: "B1", Quantity: dec("1"), UnitPrice: dec("1"), Category: "ZEBRA"},
		{Description: "A1", Quantity: dec("1"), UnitPrice: dec("1"), Category: "APPLE"},
		{Description: "B2", Quantity: dec("1"), UnitPrice: dec("1"), Category: "ZEBRA"},
	}

	got := Encode(items, "", "", Itemized)
	zebraIdx := strings.Index(got, "#CATEGORY:ZEBRA")
	appleIdx := strings.Index(got, "#CATEGORY:APPLE")
	require.GreaterOrEqual(t, zebraIdx, 0)
	require.GreaterOrEqual(t, appleIdx, 0)
	assert.Less(t, zebraIdx, appleIdx)
	assert.Equal(t, 1, strings.Count(got, "#CATEGORY:ZEBRA"))
}

func TestEncodeDeterministic(t *testing.T) {
	items := []types.LineItem{
		{Description: "Milk", Quantity: dec("2"), UnitPrice: dec("3.00"), Category: "DAIRY"},
		{Description: "Soda", Quantity: dec("6"), UnitPrice: dec("1.25"), TaxFlag: true},
	}

	for _, variant := range []Variant{Standard, WithTax, Itemized} {
		first := Encode(items, "STORE001", "supplier_a", variant)
		second := Encode(items, "STORE001", "supplier_a", variant)
		assert.Equal(t, first, second, "variant %s", variant)
	}
}

// decodeRecord splits an encoded line back into its fields, reading the
// numeric columns from the right so descriptions may contain commas.
func decodeRecord(t *testing.T, line string, withTax bool) (desc string, qty, price decimal.Decimal, tax bool) {
	t.Helper()
	parts := strings.Split(line, ",")
	numeric := 2
	if withTax {
		numeric = 3
	}
	require.GreaterOrEqual(t, len(parts), numeric+1)

	if withTax {
		tax = parts[len(parts)-1] == "1"
		parts = parts[:len(parts)-1]
	}
	price = decimal.RequireFromString(parts[len(parts)-1])
	qty = decimal.RequireFromString(parts[len(parts)-2])
	desc = strings.Join(parts[:len(parts)-2], ",")
	return desc, qty, price, tax
}

func TestEncodeRoundTrip(t *testing.T) {
	items := []types.LineItem{
		{Description: "Cheese, aged, 12mo", Quantity: dec("3"), UnitPrice: dec("10.50"), TaxFlag: true},
		{Description: "Butter", Quantity: dec("8"), UnitPrice: dec("4.25")},
	}

	encoded := Encode(items, "STORE001", "supplier_b", WithTax)
	lines := strings.Split(strings.TrimSuffix(encoded, "\n"), "\n")
	require.Len(t, lines, len(items))

	for i, line := range lines {
		desc, qty, price, tax := decodeRecord(t, line, true)
		assert.Equal(t, items[i].Description, desc)
		assert.True(t, items[i].Quantity.Equal(qty))
		assert.True(t, items[i].UnitPrice.Equal(price))
		assert.Equal(t, items[i].TaxFlag, tax)
	}
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		input   string
		want    Variant
		wantErr bool
	}{
		{input: "standard", want: Standard},
		{input: "Format A (Standard)", want: Standard},
		{input: "WithTax", want: WithTax},
		{input: "format b", want: WithTax},
		{input: "Itemized", want: Itemized},
		{input: "Format C (Itemized)", want: Itemized},
		{input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVariant(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromCanonicalTable(t *testing.T) {
	table := &types.CanonicalTable{
		SourceFile: "order.csv",
		Rows: []types.CanonicalRow{
			{ItemName: "Milk", Quantity: dec("2"), HasQuantity: true, Price: dec("3.00"), HasPrice: true},
			{ItemName: "No price", Quantity: dec("1"), HasQuantity: true},
			{ItemName: "Bread", Quantity: dec("4"), HasQuantity: true, Price: dec("2.25"), HasPrice: true, SKU: "BRD-1"},
		},
	}

	items, errs := FromCanonicalTable(table)

	require.Len(t, items, 2)
	assert.Equal(t, "Milk", items[0].Description)
	assert.True(t, items[0].ExtendedPrice.Equal(dec("6.00")))
	assert.Equal(t, "BRD-1", items[1].SKU)
	assert.True(t, items[1].ExtendedPrice.Equal(dec("9.00")))

	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].RowIndex)
	assert.Equal(t, []types.CanonicalField{types.FieldPrice}, errs[0].MissingFields)
}
