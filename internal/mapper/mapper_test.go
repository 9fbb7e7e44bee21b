package mapper

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborfresh/storeops/internal/sheetparser"
	"github.com/harborfresh/storeops/internal/types"
)

func rawTable(headers []string, rows ...[]string) *sheetparser.RawTable {
	table := &sheetparser.RawTable{Headers: headers, SourceFile: "test.csv"}
	for _, row := range rows {
		m := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				m[h] = row[i]
			} else {
				m[h] = ""
			}
		}
		table.Rows = append(table.Rows, m)
	}
	return table
}

func TestMapColumns(t *testing.T) {
	raw := rawTable(
		[]string{"Product", "Cases", "Cost", "Notes"},
		[]string{"Apple", "10", "$1.50", "crisp"},
		[]string{"Banana", "abc", "0.40", ""},
	)
	mapping := types.ColumnMapping{
		"Product": types.FieldItemName,
		"Cases":   types.FieldQuantity,
		"Cost":    types.FieldPrice,
		"Notes":   types.FieldIgnore,
	}

	table, err := MapColumns(raw, mapping)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2, "row count must be preserved")
	assert.Equal(t, "test.csv", table.SourceFile)

	apple := table.Rows[0]
	assert.Equal(t, "Apple", apple.ItemName)
	require.True(t, apple.HasQuantity)
	assert.True(t, apple.Quantity.Equal(decimal.RequireFromString("10")))
	require.True(t, apple.HasPrice, "currency symbol must be tolerated")
	assert.True(t, apple.Price.Equal(decimal.RequireFromString("1.50")))
	assert.Empty(t, apple.Coercions)

	// The unparseable quantity leaves the field unset and records the
	// coercion; the row itself survives.
	banana := table.Rows[1]
	assert.Equal(t, "Banana", banana.ItemName)
	assert.False(t, banana.HasQuantity)
	assert.True(t, banana.HasPrice)
	require.Len(t, banana.Coercions, 1)
	assert.Equal(t, types.FieldQuantity, banana.Coercions[0].Field)
	assert.Equal(t, "Cases", banana.Coercions[0].Column)
	assert.Equal(t, "abc", banana.Coercions[0].Value)
}

func TestMapColumnsUnknownColumn(t *testing.T) {
	raw := rawTable([]string{"Product", "Cases"}, []string{"Apple", "10"})
	mapping := types.ColumnMapping{
		"Product":   types.FieldItemName,
		"Order Amt": types.FieldQuantity,
	}

	table, err := MapColumns(raw, mapping)
	assert.Nil(t, table)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindUnknownColumn, verr.Kind)
	assert.Equal(t, []string{"Order Amt"}, verr.Columns)
}

func TestMapColumnsDuplicateMapping(t *testing.T) {
	raw := rawTable([]string{"Cases", "Units", "Product"}, []string{"10", "12", "Apple"})
	mapping := types.ColumnMapping{
		"Product": types.FieldItemName,
		"Cases":   types.FieldQuantity,
		"Units":   types.FieldQuantity,
	}

	_, err := MapColumns(raw, mapping)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindDuplicateMapping, verr.Kind)
	assert.Equal(t, types.FieldQuantity, verr.Field)
	assert.Equal(t, []string{"Cases", "Units"}, verr.Columns)
}

func TestMapColumnsMultipleIgnoreAllowed(t *testing.T) {
	raw := rawTable([]string{"Product", "Notes", "Internal"}, []string{"Apple", "x", "y"})
	mapping := types.ColumnMapping{
		"Product":  types.FieldItemName,
		"Notes":    types.FieldIgnore,
		"Internal": types.FieldIgnore,
	}

	table, err := MapColumns(raw, mapping)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Apple", table.Rows[0].ItemName)
}

func TestParseNumericCell(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "3.50", want: "3.50"},
		{input: "$1,234.56", want: "1234.56"},
		{input: "€2,5", want: "2.5"},
		{input: "  7 ", want: "7"},
		{input: "-4.25", want: "-4.25"},
		{input: "n/a", wantErr: true},
		{input: "twelve", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseNumericCell(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestMapColumnsEmptyCellNoCoercion(t *testing.T) {
	raw := rawTable([]string{"Product", "Cases"}, []string{"Apple", ""})
	mapping := types.ColumnMapping{
		"Product": types.FieldItemName,
		"Cases":   types.FieldQuantity,
	}

	table, err := MapColumns(raw, mapping)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.False(t, table.Rows[0].HasQuantity)
	assert.Empty(t, table.Rows[0].Coercions, "empty cell is absence, not a coercion failure")
}
