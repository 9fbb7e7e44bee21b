// =============================================================================
// Store Back-Office Pipeline - Convert Command
// =============================================================================
//
// This file defines the 'convert' command: supplier invoice documents in,
// ECRS import text out.
//
// COMMAND USAGE:
//   storeops convert [flags] <invoice>...
//
// FLAGS:
//   --store     : Store identifier (default from config)
//   --supplier  : Supplier key selecting the invoice layout
//   --format    : ECRS variant: standard, withtax, itemized
//   --out       : Output directory (default from config)
//
// A single input produces one .txt file. Multiple inputs run as a batch:
// successes are bundled into a zip (entries renamed .txt), failures are
// reported per document and written to a failure manifest, and one bad
// document never stops the others.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/harborfresh/storeops/internal/batch"
	"github.com/harborfresh/storeops/internal/config"
	"github.com/harborfresh/storeops/internal/ecrs"
	"github.com/harborfresh/storeops/internal/invoice"
	"github.com/harborfresh/storeops/internal/types"
	"github.com/harborfresh/storeops/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	convertStore    string
	convertSupplier string
	convertFormat   string
	convertOut      string
)

// =============================================================================
// CONVERT COMMAND DEFINITION
// =============================================================================

var convertCmd = &cobra.Command{
	Use:   "convert [flags] <invoice>...",
	Short: "Convert supplier invoice documents to ECRS import text",
	Long: `The convert command extracts line items from supplier invoice documents
(PDF or text) and serializes them into ECRS import files.

The supplier key selects the invoice layout: column order differs per
supplier, and unknown suppliers fall back to a generic header-matching
heuristic. With multiple inputs the command runs as a batch: each
document is converted independently, failures are recorded in a manifest,
and the successful outputs are bundled into a single zip archive.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(args)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&convertStore, "store", "", "Store identifier")
	convertCmd.Flags().StringVar(&convertSupplier, "supplier", "", "Supplier key (e.g. supplier_a)")
	convertCmd.Flags().StringVar(&convertFormat, "format", "standard", "ECRS variant: standard, withtax, itemized")
	convertCmd.Flags().StringVar(&convertOut, "out", "", "Output directory (defaults to the configured output_dir)")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runConvert(paths []string) error {
	storeID, err := resolveStore(convertStore)
	if err != nil {
		return err
	}
	variant, err := ecrs.ParseVariant(convertFormat)
	if err != nil {
		return err
	}

	outputDir := convertOut
	if outputDir == "" {
		outputDir = mainConfig.OutputDir
	}

	orchestrator, err := buildOrchestrator()
	if err != nil {
		return err
	}

	// The caller owns all I/O: read every document up front, then hand
	// bytes to the pipeline.
	docs := make([]batch.Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		docs = append(docs, batch.Document{Name: filepath.Base(path), Bytes: data})
	}

	log.Infow("converting invoices",
		"documents", len(docs),
		"store", storeID,
		"supplier", convertSupplier,
		"variant", string(variant),
	)

	result := orchestrator.Run(docs, storeID, convertSupplier, variant, func(processed int) {
		log.Debugf("processed %d/%d document(s)", processed, len(docs))
	})

	for _, failure := range result.Failed {
		log.Warnw("document failed",
			"file", failure.SourceFileName,
			"kind", failure.ErrorKind,
			"error", failure.Message,
		)
	}

	if len(docs) == 1 {
		return writeSingle(result, outputDir, storeID)
	}
	return writeBatch(result, outputDir)
}

// writeSingle writes the one converted document as a plain .txt file.
func writeSingle(result types.BatchResult, outputDir, storeID string) error {
	if len(result.Succeeded) == 0 {
		return fmt.Errorf("conversion failed: %s", result.Failed[0].Message)
	}

	entry := result.Succeeded[0]
	fileName := utils.GenerateOutputFileName(mainConfig.OutputNameFormat, map[string]string{
		"store":    storeID,
		"supplier": convertSupplier,
	})
	outputPath, err := utils.WriteOutput(outputDir, fileName, entry.EncodedBytes)
	if err != nil {
		return err
	}

	log.Infow("wrote ECRS import file", "path", outputPath)
	return nil
}

// writeBatch writes the batch zip and, when needed, the failure manifest.
func writeBatch(result types.BatchResult, outputDir string) error {
	archive, err := batch.Archive(result)
	if err != nil {
		return fmt.Errorf("failed to package archive: %w", err)
	}

	stamp := time.Now().Format("20060102")
	archivePath, err := utils.WriteOutput(outputDir, fmt.Sprintf("ecrs_batch_%s.zip", stamp), archive)
	if err != nil {
		return err
	}
	log.Infow("wrote batch archive",
		"path", archivePath,
		"succeeded", len(result.Succeeded),
		"failed", len(result.Failed),
	)

	if len(result.Failed) > 0 {
		manifestPath, err := utils.WriteOutput(outputDir, fmt.Sprintf("ecrs_batch_%s_failures.txt", stamp), []byte(batch.FailureManifest(result)))
		if err != nil {
			return err
		}
		log.Warnw("some documents failed", "manifest", manifestPath)
	}
	return nil
}

// buildOrchestrator assembles the extractor from built-in layouts plus
// any supplier overrides in the configs directory.
func buildOrchestrator() (*batch.Orchestrator, error) {
	supplierConfigs, err := config.LoadSupplierConfigs(mainConfig.ConfigsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load supplier configs: %w", err)
	}
	layouts, err := config.BuildLayoutRegistry(supplierConfigs)
	if err != nil {
		return nil, err
	}
	return batch.New(invoice.NewExtractorWithLayouts(layouts)), nil
}
