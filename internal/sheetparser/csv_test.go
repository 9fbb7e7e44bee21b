package sheetparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantHeaders []string
		wantRows    int
	}{
		{
			name:        "comma delimited",
			input:       "Product,Qty,Price\nApple,10,1.50\nBanana,5,0.40\n",
			wantHeaders: []string{"Product", "Qty", "Price"},
			wantRows:    2,
		},
		{
			name:        "semicolon delimited",
			input:       "Product;Qty;Price\nApple;10;1,50\n",
			wantHeaders: []string{"Product", "Qty", "Price"},
			wantRows:    1,
		},
		{
			name:        "tab delimited",
			input:       "Product\tQty\nApple\t10\n",
			wantHeaders: []string{"Product", "Qty"},
			wantRows:    1,
		},
		{
			name:        "pipe delimited",
			input:       "Product|Qty|Price\nApple|10|1.50\n",
			wantHeaders: []string{"Product", "Qty", "Price"},
			wantRows:    1,
		},
		{
			name:        "trailing empty rows dropped",
			input:       "Product,Qty\nApple,10\n,\n,\n",
			wantHeaders: []string{"Product", "Qty"},
			wantRows:    1,
		},
		{
			name:        "leading empty rows skipped before header",
			input:       ",\nProduct,Qty\nApple,10\n",
			wantHeaders: []string{"Product", "Qty"},
			wantRows:    1,
		},
		{
			name:        "blank header named by position",
			input:       "Product,,Price\nApple,x,1.50\n",
			wantHeaders: []string{"Product", "Column_2", "Price"},
			wantRows:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ParseCSV([]byte(tt.input), "test.csv")
			require.NoError(t, err)
			assert.Equal(t, tt.wantHeaders, table.Headers)
			assert.Len(t, table.Rows, tt.wantRows)
			assert.Equal(t, "test.csv", table.SourceFile)
		})
	}
}

func TestParseCSVCellAccess(t *testing.T) {
	table, err := ParseCSV([]byte("Product,Qty\nApple, 10 \nBanana\n"), "test.csv")
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	// Cells are trimmed; short rows backfill empty strings.
	assert.Equal(t, "10", table.Rows[0]["Qty"])
	assert.Equal(t, "Banana", table.Rows[1]["Product"])
	assert.Equal(t, "", table.Rows[1]["Qty"])

	assert.True(t, table.HasColumn("Product"))
	assert.False(t, table.HasColumn("Price"))
}

func TestParseCSVDuplicateHeaders(t *testing.T) {
	// Repeated headers must not collapse into one column.
	table, err := ParseCSV([]byte("Product,Price,Price\nApple,1.50,1.25\n"), "test.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"Product", "Price", "Price_2"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "1.50", table.Rows[0]["Price"])
	assert.Equal(t, "1.25", table.Rows[0]["Price_2"])
}

func TestParseCSVQuotedFields(t *testing.T) {
	table, err := ParseCSV([]byte("Product,Qty\n\"Cheese, aged\",3\n"), "test.csv")
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Cheese, aged", table.Rows[0]["Product"])
}

func TestParseCSVEmpty(t *testing.T) {
	_, err := ParseCSV(nil, "empty.csv")
	assert.Error(t, err)

	_, err = ParseCSV([]byte(",,\n,,\n"), "blank.csv")
	assert.Error(t, err)
}

func TestParseUnsupportedExtension(t *testing.T) {
	_, err := Parse([]byte("x"), "notes.pdf")
	assert.Error(t, err)
}
