package activity

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReport(t *testing.T) {
	records := []Record{
		{
			Timestamp: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
			Action:    "convert",
			Supplier:  "supplier_a",
			User:      "mgr01",
			Status:    "success",
		},
		{
			Timestamp: time.Date(2024, 6, 1, 9, 5, 0, 0, time.UTC),
			Action:    "order",
			Supplier:  "supplier_b",
			User:      "mgr01",
			Status:    "failed",
		},
	}

	data, err := WriteReport(records)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"timestamp", "action", "supplier", "user", "status"}, rows[0])
	assert.Equal(t, []string{"2024-06-01T09:00:00Z", "convert", "supplier_a", "mgr01", "success"}, rows[1])
	assert.Equal(t, []string{"2024-06-01T09:05:00Z", "order", "supplier_b", "mgr01", "failed"}, rows[2])
}

func TestWriteReportEmpty(t *testing.T) {
	data, err := WriteReport(nil)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1, "header row only")
}
