// =============================================================================
// Store Back-Office Pipeline - Order Filler
// =============================================================================
//
// Builds a supplier order submission payload from a store's order sheet,
// and the confirmation record for the store's files once the submission
// outcome is known. Actually driving the supplier-facing ordering system
// is an external collaborator behind the Submitter interface: this module
// produces and records data, it never touches a network or browser, so
// the pipeline stays testable offline.
//
// =============================================================================

package orderfill

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harborfresh/storeops/internal/types"
)

// now is swappable for tests.
var now = time.Now

// =============================================================================
// PAYLOAD
// =============================================================================

// PayloadItem is one order line ready for submission.
type PayloadItem struct {
	ItemName string
	Quantity decimal.Decimal
	Unit     string
	SKU      string
}

// Payload is a complete supplier order submission. It is handed to an
// external Submitter; this package never submits anything itself.
type Payload struct {
	// ID uniquely identifies this submission attempt.
	ID string

	SupplierName string
	StoreID      string
	Items        []PayloadItem
	CreatedAt    time.Time
}

// BuildPayload assembles a submission payload from an order sheet. Rows
// need an item name and a quantity; rows missing either are reported and
// skipped, never silently dropped.
func BuildPayload(table *types.CanonicalTable, supplierName, storeID string) (Payload, []types.RowValidationError) {
	payload := Payload{
		ID:           uuid.New().String(),
		SupplierName: supplierName,
		StoreID:      storeID,
		CreatedAt:    now(),
	}
	var errs []types.RowValidationError

	for i, row := range table.Rows {
		var missing []types.CanonicalField
		if row.ItemName == "" {
			missing = append(missing, types.FieldItemName)
		}
		if !row.HasQuantity {
			missing = append(missing, types.FieldQuantity)
		}
		if len(missing) > 0 {
			errs = append(errs, types.RowValidationError{RowIndex: i, MissingFields: missing})
			continue
		}

		payload.Items = append(payload.Items, PayloadItem{
			ItemName: row.ItemName,
			Quantity: row.Quantity,
			Unit:     row.Unit,
			SKU:      row.SKU,
		})
	}

	return payload, errs
}

// =============================================================================
// SUBMISSION COLLABORATOR
// =============================================================================

// Outcome is what the external submission system reports back.
type Outcome struct {
	// Submitted is true when the supplier system accepted the order.
	Submitted bool

	// ConfirmationNumber is the supplier's reference, when one was
	// issued.
	ConfirmationNumber string

	// Detail carries the supplier system's message, e.g. a rejection
	// reason.
	Detail string
}

// Submitter delivers a payload to the supplier-facing ordering system.
// Implementations live outside the core pipeline.
type Submitter interface {
	Submit(ctx context.Context, payload Payload) (Outcome, error)
}

// =============================================================================
// CONFIRMATION RECORD
// =============================================================================

// Confirmation is the record kept by the store after a submission
// attempt.
type Confirmation struct {
	PayloadID          string
	SupplierName       string
	StoreID            string
	ItemCount          int
	Submitted          bool
	ConfirmationNumber string
	Timestamp          time.Time
}

// BuildConfirmation records a submission outcome against its payload.
func BuildConfirmation(payload Payload, outcome Outcome) Confirmation {
	return Confirmation{
		PayloadID:          payload.ID,
		SupplierName:       payload.SupplierName,
		StoreID:            payload.StoreID,
		ItemCount:          len(payload.Items),
		Submitted:          outcome.Submitted,
		ConfirmationNumber: outcome.ConfirmationNumber,
		Timestamp:          now(),
	}
}

// Text renders the confirmation as the plain-text artifact returned for
// caller-side download.
func (c Confirmation) Text() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Order confirmation for %s\n", c.SupplierName)
	fmt.Fprintf(&sb, "Store: %s\n", c.StoreID)
	fmt.Fprintf(&sb, "Items: %d\n", c.ItemCount)
	if c.Submitted {
		sb.WriteString("Status: submitted\n")
	} else {
		sb.WriteString("Status: not submitted\n")
	}
	if c.ConfirmationNumber != "" {
		fmt.Fprintf(&sb, "Confirmation number: %s\n", c.ConfirmationNumber)
	}
	fmt.Fprintf(&sb, "Reference: %s\n", c.PayloadID)
	fmt.Fprintf(&sb, "Timestamp: %s\n", c.Timestamp.Format(time.RFC3339))
	return sb.String()
}
