package orderfill

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborfresh/storeops/internal/types"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func withMockNow(t *testing.T, mock time.Time) {
	t.Helper()
	original := now
	now = func() time.Time { return mock }
	t.Cleanup(func() { now = original })
}

func TestBuildPayload(t *testing.T) {
	mockNow := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	withMockNow(t, mockNow)

	table := &types.CanonicalTable{
		SourceFile: "order.xlsx",
		Rows: []types.CanonicalRow{
			{ItemName: "Milk", Quantity: dec("2"), HasQuantity: true, Unit: "case", SKU: "MLK-1"},
			{ItemName: "No quantity"},
			{ItemName: "Bread", Quantity: dec("4"), HasQuantity: true},
		},
	}

	payload, errs := BuildPayload(table, "Supplier A", "STORE001")

	_, err := uuid.Parse(payload.ID)
	assert.NoError(t, err, "payload ID must be a UUID")
	assert.Equal(t, "Supplier A", payload.SupplierName)
	assert.Equal(t, "STORE001", payload.StoreID)
	assert.Equal(t, mockNow, payload.CreatedAt)

	require.Len(t, payload.Items, 2)
	assert.Equal(t, PayloadItem{ItemName: "Milk", Quantity: dec("2"), Unit: "case", SKU: "MLK-1"}, payload.Items[0])
	assert.Equal(t, "Bread", payload.Items[1].ItemName)

	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].RowIndex)
	assert.Equal(t, []types.CanonicalField{types.FieldQuantity}, errs[0].MissingFields)
}

func TestBuildPayloadDistinctIDs(t *testing.T) {
	table := &types.CanonicalTable{
		Rows: []types.CanonicalRow{{ItemName: "Milk", Quantity: dec("1"), HasQuantity: true}},
	}

	first, _ := BuildPayload(table, "supplier_a", "STORE001")
	second, _ := BuildPayload(table, "supplier_a", "STORE001")
	assert.NotEqual(t, first.ID, second.ID)
}

func TestBuildConfirmation(t *testing.T) {
	mockNow := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	withMockNow(t, mockNow)

	payload := Payload{
		ID:           "11111111-2222-3333-4444-555555555555",
		SupplierName: "Supplier B",
		StoreID:      "STORE002",
		Items:        []PayloadItem{{ItemName: "Milk"}, {ItemName: "Bread"}},
	}
	outcome := Outcome{Submitted: true, ConfirmationNumber: "CONF-789"}

	conf := BuildConfirmation(payload, outcome)

	assert.Equal(t, payload.ID, conf.PayloadID)
	assert.Equal(t, "Supplier B", conf.SupplierName)
	assert.Equal(t, "STORE002", conf.StoreID)
	assert.Equal(t, 2, conf.ItemCount)
	assert.True(t, conf.Submitted)
	assert.Equal(t, "CONF-789", conf.ConfirmationNumber)
	assert.Equal(t, mockNow, conf.Timestamp)
}

func TestConfirmationText(t *testing.T) {
	conf := Confirmation{
		PayloadID:          "11111111-2222-3333-4444-555555555555",
		SupplierName:       "Supplier B",
		StoreID:            "STORE002",
		ItemCount:          2,
		Submitted:          true,
		ConfirmationNumber: "CONF-789",
		Timestamp:          time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	}

	text := conf.Text()
	assert.Contains(t, text, "Order confirmation for Supplier B")
	assert.Contains(t, text, "Store: STORE002")
	assert.Contains(t, text, "Items: 2")
	assert.Contains(t, text, "Status: submitted")
	assert.Contains(t, text, "Confirmation number: CONF-789")
	assert.Contains(t, text, "2024-06-01T10:00:00Z")
}

func TestConfirmationTextNotSubmitted(t *testing.T) {
	conf := Confirmation{SupplierName: "Supplier C", StoreID: "STORE001"}

	text := conf.Text()
	assert.Contains(t, text, "Status: not submitted")
	assert.NotContains(t, text, "Confirmation number:")
}
