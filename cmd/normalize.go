// =============================================================================
// Store Back-Office Pipeline - Normalize Command
// =============================================================================
//
// This file defines the 'normalize' command: a supplier's spreadsheet in,
// a canonical-schema workbook out.
//
// COMMAND USAGE:
//   storeops normalize [flags] <sheet>
//
// FLAGS:
//   --mapping : YAML file declaring column -> canonical field
//   --format  : Target output format: standard, ecrs, inventory
//   --out     : Output file path (default converted_<input>.xlsx)
//
// The mapping file maps each source column header to one of: Item Name,
// Quantity, Price, SKU, Unit, Ignore. Example:
//
//   "Product": Item Name
//   "Cases Ordered": Quantity
//   "Case Cost": Price
//   "Vendor Code": Ignore
//
// Rows that fail validation for the chosen format are excluded from the
// output and reported individually; they never abort the conversion.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harborfresh/storeops/internal/mapper"
	"github.com/harborfresh/storeops/internal/normalizer"
	"github.com/harborfresh/storeops/internal/schema"
	"github.com/harborfresh/storeops/internal/sheetparser"
	"github.com/harborfresh/storeops/internal/types"
	"github.com/harborfresh/storeops/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	normalizeMapping string
	normalizeFormat  string
	normalizeOut     string
)

// =============================================================================
// NORMALIZE COMMAND DEFINITION
// =============================================================================

var normalizeCmd = &cobra.Command{
	Use:   "normalize [flags] <sheet>",
	Short: "Normalize a supplier spreadsheet into the canonical schema",
	Long: `The normalize command standardizes a supplier's spreadsheet (CSV or XLSX)
into the canonical order schema using a declared column mapping, validates
it for the chosen target format, and writes the result as a workbook.

Unparseable cells and rows missing required fields are reported per row
with their index and reason; valid rows are kept in their original order.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNormalize(args[0])
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)

	normalizeCmd.Flags().StringVar(&normalizeMapping, "mapping", "", "YAML file mapping source columns to canonical fields (required)")
	normalizeCmd.Flags().StringVar(&normalizeFormat, "format", "standard", "Target format: standard, ecrs, inventory")
	normalizeCmd.Flags().StringVar(&normalizeOut, "out", "", "Output file path (default converted_<input>.xlsx)")
	normalizeCmd.MarkFlagRequired("mapping")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runNormalize(inputPath string) error {
	format, err := schema.ParseOutputFormat(normalizeFormat)
	if err != nil {
		return err
	}
	mapping, err := loadMappingFile(normalizeMapping)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inputPath, err)
	}
	raw, err := sheetparser.Parse(data, filepath.Base(inputPath))
	if err != nil {
		return fmt.Errorf("failed to parse sheet: %w", err)
	}
	log.Debugw("parsed sheet", "file", raw.SourceFile, "columns", len(raw.Headers), "rows", len(raw.Rows))

	table, err := mapper.MapColumns(raw, mapping)
	if err != nil {
		return fmt.Errorf("invalid column mapping: %w", err)
	}
	for i, row := range table.Rows {
		for _, coercion := range row.Coercions {
			log.Warnw("cell failed to parse", "row", i, "error", coercion.Error())
		}
	}

	normalized, rowErrs := normalizer.Normalize(table, format)
	for _, rowErr := range rowErrs {
		log.Warnw("row excluded", "file", table.SourceFile, "error", rowErr.Error())
	}
	log.Infow("normalized sheet",
		"format", string(format),
		"rows", len(normalized.Rows),
		"excluded", len(rowErrs),
	)

	workbook, err := normalizer.WriteWorkbook(normalized)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}

	outPath := normalizeOut
	if outPath == "" {
		base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		outPath = filepath.Join(mainConfig.OutputDir, "converted_"+base+".xlsx")
	}
	if err := utils.EnsureDirectory(filepath.Dir(outPath)); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, workbook, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	log.Infow("wrote normalized workbook", "path", outPath)
	return nil
}

// loadMappingFile reads the column mapping declaration.
func loadMappingFile(path string) (types.ColumnMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}

	var declared map[string]string
	if err := yaml.Unmarshal(data, &declared); err != nil {
		return nil, fmt.Errorf("failed to parse mapping file: %w", err)
	}

	mapping := make(types.ColumnMapping, len(declared))
	for column, fieldName := range declared {
		field, err := schema.ParseCanonicalField(fieldName)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", column, err)
		}
		mapping[column] = field
	}
	return mapping, nil
}
