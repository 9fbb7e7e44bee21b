// =============================================================================
// Store Back-Office Pipeline - Main Entry Point
// =============================================================================
//
// This is the main entry point for the storeops CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   storeops convert        - Extract supplier invoices and encode ECRS import files
//   storeops normalize      - Normalize a raw spreadsheet into a canonical workbook
//   storeops order          - Build an order payload from a normalized sheet
//   storeops version        - Display the application version
//
// ARCHITECTURE:
//   This application follows a modular design where:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//   - configs/       : Contains supplier-specific YAML layout configurations
//
// =============================================================================

package main

import (
	"github.com/harborfresh/storeops/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
