// =============================================================================
// Store Back-Office Pipeline - Batch Orchestrator
// =============================================================================
//
// Runs the invoice extractor and ECRS encoder over a set of documents with
// per-document failure isolation: each document is processed independently
// and in input order, and one document's failure is recorded without
// stopping or affecting the rest. Documents are independent units of work,
// so this loop could be parallelized, but sequential processing keeps
// result ordering trivial and extraction per document is fast.
//
// =============================================================================

package batch

import (
	"errors"

	"github.com/harborfresh/storeops/internal/ecrs"
	"github.com/harborfresh/storeops/internal/invoice"
	"github.com/harborfresh/storeops/internal/types"
)

// Document is one named input: the caller has already read the bytes.
type Document struct {
	Name  string
	Bytes []byte
}

// ProgressFunc receives the monotonically increasing count of documents
// processed so far. Advisory telemetry only; it never affects the result.
type ProgressFunc func(processed int)

// Orchestrator runs batches against a configured extractor.
type Orchestrator struct {
	extractor *invoice.Extractor
}

// New returns an orchestrator using the given extractor.
func New(extractor *invoice.Extractor) *Orchestrator {
	return &Orchestrator{extractor: extractor}
}

// Run converts each document to ECRS text. Successes land in
// Result.Succeeded and failures in Result.Failed, both in input order.
// progress may be nil.
func (o *Orchestrator) Run(docs []Document, storeID, supplierHint string, variant ecrs.Variant, progress ProgressFunc) types.BatchResult {
	result := types.BatchResult{}

	for i, doc := range docs {
		inv, err := o.extractor.Extract(doc.Bytes, supplierHint, storeID)
		if err != nil {
			result.Failed = append(result.Failed, types.BatchFailure{
				SourceFileName: doc.Name,
				ErrorKind:      errorKind(err),
				Message:        err.Error(),
			})
		} else {
			encoded := ecrs.Encode(inv.LineItems, storeID, supplierHint, variant)
			result.Succeeded = append(result.Succeeded, types.BatchEntry{
				SourceFileName: doc.Name,
				EncodedBytes:   []byte(encoded),
			})
		}

		if progress != nil {
			progress(i + 1)
		}
	}

	return result
}

// errorKind classifies a document failure for the batch manifest.
func errorKind(err error) string {
	var extractionErr *invoice.ExtractionError
	if errors.As(err, &extractionErr) {
		return extractionErr.Kind
	}
	return "ExtractionError"
}
