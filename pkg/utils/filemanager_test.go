package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOutputFileName(t *testing.T) {
	name := GenerateOutputFileName("ecrs_import_{timestamp}.txt", nil)
	assert.Regexp(t, regexp.MustCompile(`^ecrs_import_\d{8}_\d{6}\.txt$`), name)

	name = GenerateOutputFileName("{store}_{supplier}.txt", map[string]string{
		"store":    "STORE001",
		"supplier": "supplier_a",
	})
	assert.Equal(t, "STORE001_supplier_a.txt", name)

	first := GenerateOutputFileName("{uuid}.txt", nil)
	second := GenerateOutputFileName("{uuid}.txt", nil)
	assert.NotEqual(t, first, second)
}

func TestWriteOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")

	path, err := WriteOutput(dir, "result.txt", []byte("Milk,2.00,3.00\n"))
	require.NoError(t, err)

	assert.True(t, FileExists(path))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Milk,2.00,3.00\n", string(content))
}

func TestDiscoverFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.PDF", "notes.txt", "sheet.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755))

	files, err := DiscoverFiles(dir, ".pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.PDF"),
		filepath.Join(dir, "b.pdf"),
	}, files, "extension match is case-insensitive, directories skipped, name order")
}
