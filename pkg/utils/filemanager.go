// =============================================================================
// Store Back-Office Pipeline - File Manager Utility
// =============================================================================
//
// File-side concerns for the CLI layer: output directory scaffolding,
// output file naming, and writing the artifacts the pipeline returns as
// values. The pipeline core never touches the filesystem; everything
// here belongs to the caller side of that boundary.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// OUTPUT NAMING
// =============================================================================

// GenerateOutputFileName fills an output-name format with its
// placeholders:
//   {uuid}      - a random UUID
//   {timestamp} - current timestamp (YYYYMMDD_HHMMSS)
//   {store}     - params["store"]
//   {supplier}  - params["supplier"]
func GenerateOutputFileName(format string, params map[string]string) string {
	fileName := format
	fileName = strings.ReplaceAll(fileName, "{uuid}", uuid.New().String())
	fileName = strings.ReplaceAll(fileName, "{timestamp}", time.Now().Format("20060102_150405"))
	for key, value := range params {
		fileName = strings.ReplaceAll(fileName, "{"+key+"}", value)
	}
	return fileName
}

// =============================================================================
// DIRECTORY AND FILE OPERATIONS
// =============================================================================

// EnsureDirectory creates a directory (and parents) if it does not exist.
func EnsureDirectory(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// WriteOutput writes artifact bytes into the output directory under the
// given name, creating the directory if needed, and returns the full
// path.
func WriteOutput(outputDir, fileName string, data []byte) (string, error) {
	if err := EnsureDirectory(outputDir); err != nil {
		return "", err
	}
	outputPath := filepath.Join(outputDir, fileName)
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return outputPath, nil
}

// FileExists reports whether a path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DiscoverFiles returns the files in dir whose extension (lowercase,
// with dot) is in extensions, sorted by name for deterministic batch
// order.
func DiscoverFiles(dir string, extensions ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = true
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if allowed[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}
