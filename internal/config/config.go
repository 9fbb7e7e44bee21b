// =============================================================================
// Store Back-Office Pipeline - Configuration Module
// =============================================================================
//
// This module loads and manages the configuration files:
//   1. Main Config (config.yaml): stores, output settings, logging
//   2. Supplier Configs (configs/*.yaml): per-supplier invoice layout
//      overrides and display names
//
// The supplier files exist so a new supplier's invoice layout can be
// profiled without a code change: drop a YAML file in the configs
// directory and the extractor picks it up.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/harborfresh/storeops/internal/invoice"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration, loaded from the
// main config.yaml file. A missing file yields the defaults.
type MainConfig struct {
	// OutputDir is where converted files are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// ConfigsDir is the directory containing supplier-specific YAML
	// configurations.
	// Default: "./configs"
	ConfigsDir string `yaml:"configs_dir"`

	// LogLevel controls logging verbosity: "debug", "info", "warn",
	// "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// OutputNameFormat names converted files. Placeholders:
	//   {uuid}      - a random UUID
	//   {timestamp} - current timestamp (YYYYMMDD_HHMMSS)
	//   {store}     - store identifier
	//   {supplier}  - supplier key
	// Default: "ecrs_import_{timestamp}.txt"
	OutputNameFormat string `yaml:"output_name_format"`

	// Stores maps store identifiers to display names.
	Stores map[string]string `yaml:"stores"`

	// DefaultStore is used when no --store flag is given.
	DefaultStore string `yaml:"default_store"`
}

// =============================================================================
// SUPPLIER CONFIGURATION STRUCTURE
// =============================================================================

// SupplierConfig holds the configuration for a single supplier account.
type SupplierConfig struct {
	// SupplierKey is the short key used on the command line and in
	// output names (e.g. "supplier_a").
	SupplierKey string `yaml:"supplier_key"`

	// SupplierName is the human-readable account name.
	SupplierName string `yaml:"supplier_name"`

	// InvoiceLayout overrides the built-in invoice layout for this
	// supplier. Nil keeps the built-in (or generic) layout.
	InvoiceLayout *LayoutConfig `yaml:"invoice_layout"`
}

// LayoutConfig is the YAML form of an invoice layout.
type LayoutConfig struct {
	// Columns is the left-to-right line-item column order. Valid values:
	// sku, description, quantity, unit_price, extended_price, tax_flag.
	Columns []string `yaml:"columns"`

	// DecimalComma marks suppliers that print European-style amounts.
	DecimalComma bool `yaml:"decimal_comma"`

	// CategoryPrefix marks category section lines, e.g. "**".
	CategoryPrefix string `yaml:"category_prefix"`
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// LoadMainConfig loads the main configuration. A missing file is not an
// error: the defaults describe a working single-directory setup.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyMainConfigDefaults(&config)
	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.ConfigsDir == "" {
		config.ConfigsDir = "./configs"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "ecrs_import_{timestamp}.txt"
	}
	if len(config.Stores) == 0 {
		config.Stores = map[string]string{
			"STORE001": "Main Store",
			"STORE002": "North Branch",
			"STORE003": "South Branch",
			"STORE004": "East Branch",
			"STORE005": "West Branch",
			"STORE006": "Central Branch",
		}
	}
	if config.DefaultStore == "" {
		config.DefaultStore = "STORE001"
	}
}

// LoadSupplierConfigs loads all supplier configurations from a directory.
// A missing directory yields an empty map: the built-in layouts still
// apply.
func LoadSupplierConfigs(configsDir string) (map[string]*SupplierConfig, error) {
	configs := make(map[string]*SupplierConfig)

	if _, err := os.Stat(configsDir); os.IsNotExist(err) {
		return configs, nil
	}

	files, err := filepath.Glob(filepath.Join(configsDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list config files: %w", err)
	}
	ymlFiles, err := filepath.Glob(filepath.Join(configsDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list config files: %w", err)
	}
	files = append(files, ymlFiles...)

	for _, file := range files {
		config, err := loadSupplierConfig(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}

		key := config.SupplierKey
		if key == "" {
			key = filepath.Base(file)
		}
		configs[key] = config
	}

	return configs, nil
}

// loadSupplierConfig loads and validates a single supplier file.
func loadSupplierConfig(filePath string) (*SupplierConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config SupplierConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse file: %w", err)
	}

	if config.InvoiceLayout != nil {
		if _, err := config.InvoiceLayout.toLayout(); err != nil {
			return nil, err
		}
	}

	return &config, nil
}

// =============================================================================
// LAYOUT REGISTRY ASSEMBLY
// =============================================================================

// BuildLayoutRegistry assembles the extractor's layout registry: built-in
// supplier layouts with config overrides applied on top.
func BuildLayoutRegistry(configs map[string]*SupplierConfig) (*invoice.LayoutRegistry, error) {
	registry := invoice.NewLayoutRegistry()

	for key, config := range configs {
		if config.InvoiceLayout == nil {
			continue
		}
		layout, err := config.InvoiceLayout.toLayout()
		if err != nil {
			return nil, fmt.Errorf("supplier %s: %w", key, err)
		}
		registry.Register(key, layout)
	}

	return registry, nil
}

// toLayout converts the YAML form to an invoice.Layout, validating the
// column names.
func (lc *LayoutConfig) toLayout() (invoice.Layout, error) {
	layout := invoice.Layout{
		DecimalComma:   lc.DecimalComma,
		CategoryPrefix: lc.CategoryPrefix,
	}

	descriptions := 0
	for _, name := range lc.Columns {
		column := invoice.Column(name)
		switch column {
		case invoice.ColSKU, invoice.ColDescription, invoice.ColQuantity,
			invoice.ColUnitPrice, invoice.ColExtendedPrice, invoice.ColTaxFlag:
			if column == invoice.ColDescription {
				descriptions++
			}
			layout.Columns = append(layout.Columns, column)
		default:
			return invoice.Layout{}, fmt.Errorf("invalid layout column: %q", name)
		}
	}
	if descriptions != 1 {
		return invoice.Layout{}, fmt.Errorf("layout must contain exactly one description column")
	}

	return layout, nil
}
