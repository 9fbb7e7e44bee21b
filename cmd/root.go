// =============================================================================
// Store Back-Office Pipeline - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command
// is the base that all subcommands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (storeops)
//   ├── convertCmd   (storeops convert)   - invoice PDFs -> ECRS text
//   ├── normalizeCmd (storeops normalize) - supplier sheet -> canonical
//   ├── orderCmd     (storeops order)     - order sheet -> payload
//   └── versionCmd   (storeops version)
//
// The root command owns the configuration load and the logger: the
// pipeline packages return errors and data, and only this layer decides
// what to print and where.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/harborfresh/storeops/internal/config"
)

// =============================================================================
// GLOBAL STATE
// =============================================================================

// cfgFile holds the path to the main configuration file; overridable
// with --config.
var cfgFile string

// verbose enables debug logging when set.
var verbose bool

// mainConfig is loaded once before any subcommand runs.
var mainConfig *config.MainConfig

// log is the application logger, built alongside the config.
var log *zap.SugaredLogger

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "storeops",
	Short: "Store back-office automation - supplier sheets, orders, and ECRS invoice conversion",
	Long: `storeops automates the recurring document chores of a multi-store retail
operation:

  - Normalize heterogeneous supplier spreadsheets into the canonical
    order schema (Item Name, Quantity, Price, SKU, Unit)
  - Build supplier order payloads and confirmation records from a
    store's order sheet
  - Extract line items from supplier invoice PDFs and convert them to
    ECRS import text, one file or a whole batch at a time

Example Usage:
  storeops convert --store STORE001 --supplier supplier_a invoice.pdf
  storeops normalize --mapping map.yaml --format ecrs supplier_sheet.xlsx
  storeops order --store STORE002 --supplier supplier_b order.xlsx`,

	// Loading config and logging here keeps every subcommand consistent.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		mainConfig, err = config.LoadMainConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load main config: %w", err)
		}

		log, err = newLogger(mainConfig.LogLevel, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once from main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// newLogger builds the console logger. --verbose wins over the
// configured level.
func newLogger(level string, verbose bool) (*zap.SugaredLogger, error) {
	zapLevel := zapcore.InfoLevel
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	}
	if verbose {
		zapLevel = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// resolveStore validates a store identifier against the configured
// stores, falling back to the configured default when none is given.
func resolveStore(storeID string) (string, error) {
	if storeID == "" {
		storeID = mainConfig.DefaultStore
	}
	if _, ok := mainConfig.Stores[storeID]; !ok {
		return "", fmt.Errorf("unknown store %q (configured: %d stores)", storeID, len(mainConfig.Stores))
	}
	return storeID, nil
}
