// =============================================================================
// Store Back-Office Pipeline - Activity Report Export
// =============================================================================
//
// Passive serialization of caller-tracked activity history to CSV. The
// pipeline itself holds no cross-call state; whoever drives it (the UI
// layer, a wrapper script) accumulates Records and hands them here for
// export.
//
// =============================================================================

package activity

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"
)

// Record is one back-office action as tracked by the caller.
type Record struct {
	Timestamp time.Time
	Action    string
	Supplier  string
	User      string
	Status    string
}

// WriteReport serializes records to CSV with a header row, for the
// activity report download.
func WriteReport(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"timestamp", "action", "supplier", "user", "status"}); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for i, record := range records {
		row := []string{
			record.Timestamp.Format(time.RFC3339),
			record.Action,
			record.Supplier,
			record.User,
			record.Status,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush report: %w", err)
	}
	return buf.Bytes(), nil
}
