// =============================================================================
// Store Back-Office Pipeline - PDF Text Extraction
// =============================================================================
//
// Thin wrapper around the PDF text layer. Row grouping is done by the
// library's per-page row extraction so the line-item table keeps its line
// structure; a PDF whose pages carry no text layer (pure scans) yields no
// lines and surfaces downstream as NoLineItemsFound.
//
// The pdf library panics on some malformed cross-reference tables, so
// extraction runs behind a recover and reports those documents as
// corrupt.
//
// =============================================================================

package invoice

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDFText decodes the text layer of PDF bytes into newline-joined
// lines, page by page.
func extractPDFText(document []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{
				Kind:    KindCorruptDocument,
				Message: "PDF stream cannot be decoded",
				Err:     fmt.Errorf("pdf reader panic: %v", r),
			}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(document), int64(len(document)))
	if err != nil {
		return "", &ExtractionError{
			Kind:    KindCorruptDocument,
			Message: "PDF stream cannot be opened",
			Err:     err,
		}
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", &ExtractionError{
				Kind:    KindCorruptDocument,
				Message: fmt.Sprintf("page %d cannot be decoded", pageNum),
				Err:     err,
			}
		}
		for _, row := range rows {
			for i, word := range row.Content {
				if i > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(word.S)
			}
			sb.WriteByte('\n')
		}
	}

	return sb.String(), nil
}
