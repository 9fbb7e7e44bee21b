// =============================================================================
// Store Back-Office Pipeline - Batch Archive Packaging
// =============================================================================
//
// Bundles a batch's successful outputs into a single zip for caller-side
// download. Entry names are the source document's base name with its
// extension replaced by ".txt", matching what the stores expect to feed
// into the ECRS import one file at a time.
//
// =============================================================================

package batch

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/harborfresh/storeops/internal/types"
)

// Archive packages the succeeded entries of a batch result into zip
// bytes, preserving input order. Failures are not included; render them
// with FailureManifest.
func Archive(result types.BatchResult) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, entry := range result.Succeeded {
		w, err := zw.Create(TargetName(entry.SourceFileName))
		if err != nil {
			return nil, fmt.Errorf("failed to create archive entry for %s: %w", entry.SourceFileName, err)
		}
		if _, err := w.Write(entry.EncodedBytes); err != nil {
			return nil, fmt.Errorf("failed to write archive entry for %s: %w", entry.SourceFileName, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// TargetName maps a source document name to its archive entry name:
// base name with the extension replaced by ".txt".
func TargetName(sourceFileName string) string {
	base := filepath.Base(sourceFileName)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".txt"
}

// FailureManifest renders the failed entries as a plain-text manifest,
// one line per document, for logging or download next to the archive.
func FailureManifest(result types.BatchResult) string {
	var sb strings.Builder
	for _, failure := range result.Failed {
		sb.WriteString(failure.SourceFileName)
		sb.WriteString("\t")
		sb.WriteString(failure.ErrorKind)
		sb.WriteString("\t")
		sb.WriteString(failure.Message)
		sb.WriteByte('\n')
	}
	return sb.String()
}
