// =============================================================================
// Store Back-Office Pipeline - Order Command
// =============================================================================
//
// This file defines the 'order' command: a store's order sheet in, a
// supplier submission payload plus confirmation record out.
//
// COMMAND USAGE:
//   storeops order [flags] <order-sheet>
//
// FLAGS:
//   --store        : Store identifier (default from config)
//   --supplier     : Supplier the order goes to (required)
//   --confirmation : Confirmation number reported by the supplier system
//   --out          : Output directory (default from config)
//
// Submission itself happens in the supplier-facing system outside this
// tool; when it has run, re-invoke with --confirmation to record the
// supplier's reference on the confirmation artifact.
//
// =============================================================================

package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harborfresh/storeops/internal/mapper"
	"github.com/harborfresh/storeops/internal/orderfill"
	"github.com/harborfresh/storeops/internal/schema"
	"github.com/harborfresh/storeops/internal/sheetparser"
	"github.com/harborfresh/storeops/internal/types"
	"github.com/harborfresh/storeops/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	orderStore        string
	orderSupplier     string
	orderConfirmation string
	orderOut          string
)

// =============================================================================
// ORDER COMMAND DEFINITION
// =============================================================================

var orderCmd = &cobra.Command{
	Use:   "order [flags] <order-sheet>",
	Short: "Build a supplier order payload from a store's order sheet",
	Long: `The order command reads a store's order spreadsheet (canonical headers:
Item Name, Quantity, and optionally Unit and SKU), assembles the supplier
submission payload, and writes the payload preview plus a confirmation
record for the store's files.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOrder(args[0])
	},
}

func init() {
	rootCmd.AddCommand(orderCmd)

	orderCmd.Flags().StringVar(&orderStore, "store", "", "Store identifier")
	orderCmd.Flags().StringVar(&orderSupplier, "supplier", "", "Supplier the order goes to (required)")
	orderCmd.Flags().StringVar(&orderConfirmation, "confirmation", "", "Confirmation number from the supplier system, if already submitted")
	orderCmd.Flags().StringVar(&orderOut, "out", "", "Output directory (defaults to the configured output_dir)")
	orderCmd.MarkFlagRequired("supplier")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runOrder(inputPath string) error {
	storeID, err := resolveStore(orderStore)
	if err != nil {
		return err
	}
	outputDir := orderOut
	if outputDir == "" {
		outputDir = mainConfig.OutputDir
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inputPath, err)
	}
	raw, err := sheetparser.Parse(data, filepath.Base(inputPath))
	if err != nil {
		return fmt.Errorf("failed to parse order sheet: %w", err)
	}

	// Order sheets already use canonical headers; map them by name and
	// ignore anything unrecognized.
	table, err := mapper.MapColumns(raw, canonicalHeaderMapping(raw))
	if err != nil {
		return fmt.Errorf("invalid order sheet: %w", err)
	}

	payload, rowErrs := orderfill.BuildPayload(table, orderSupplier, storeID)
	for _, rowErr := range rowErrs {
		log.Warnw("order row skipped", "file", table.SourceFile, "error", rowErr.Error())
	}
	if len(payload.Items) == 0 {
		return fmt.Errorf("order sheet contains no usable rows")
	}
	log.Infow("built order payload",
		"supplier", orderSupplier,
		"store", storeID,
		"items", len(payload.Items),
		"skipped", len(rowErrs),
	)

	outcome := orderfill.Outcome{}
	if orderConfirmation != "" {
		outcome = orderfill.Outcome{Submitted: true, ConfirmationNumber: orderConfirmation}
	}
	confirmation := orderfill.BuildConfirmation(payload, outcome)

	payloadCSV, err := renderPayloadCSV(payload)
	if err != nil {
		return err
	}
	payloadPath, err := utils.WriteOutput(outputDir, fmt.Sprintf("order_payload_%s.csv", payload.ID), payloadCSV)
	if err != nil {
		return err
	}
	confirmationPath, err := utils.WriteOutput(outputDir,
		fmt.Sprintf("order_confirmation_%s.txt", confirmation.Timestamp.Format("20060102_150405")),
		[]byte(confirmation.Text()))
	if err != nil {
		return err
	}

	log.Infow("wrote order artifacts", "payload", payloadPath, "confirmation", confirmationPath)
	return nil
}

// canonicalHeaderMapping maps the sheet's own headers onto canonical
// fields by name; unrecognized columns are ignored.
func canonicalHeaderMapping(raw *sheetparser.RawTable) types.ColumnMapping {
	mapping := make(types.ColumnMapping, len(raw.Headers))
	for _, header := range raw.Headers {
		field, err := schema.ParseCanonicalField(header)
		if err != nil {
			field = types.FieldIgnore
		}
		mapping[header] = field
	}
	return mapping
}

// renderPayloadCSV serializes the payload preview for review before
// submission.
func renderPayloadCSV(payload orderfill.Payload) ([]byte, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write([]string{"item_name", "quantity", "unit", "sku"}); err != nil {
		return nil, fmt.Errorf("failed to render payload: %w", err)
	}
	for _, item := range payload.Items {
		if err := w.Write([]string{item.ItemName, item.Quantity.String(), item.Unit, item.SKU}); err != nil {
			return nil, fmt.Errorf("failed to render payload: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to render payload: %w", err)
	}
	return []byte(sb.String()), nil
}
