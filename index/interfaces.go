package index

import (
	"context"

	"github.com/sericalabs/serica/core"
)

// Client provides the index operations required by the ingestion pipeline.
// Implementations must be thread-safe; one client instance is shared by all
// concurrent ingestion workers.
type Client interface {
	// IndexExists reports whether the named index exists.
	IndexExists(ctx context.Context, name string) (bool, error)

	// CreateSentenceIndex creates the named index with the sentence record
	// mapping. The embedding feature field is named "<modelName>_features"
	// and typed dense_vector with the given dimensionality.
	CreateSentenceIndex(ctx context.Context, name, modelName string, dimensions int) error

	// DocumentExists reports whether any sentence records for the document
	// are present in the named index (exact term match on document_id).
	DocumentExists(ctx context.Context, name string, documentID int64) (bool, error)

	// DeleteDocument removes all sentence records for the document from the
	// named index and returns the number of records removed. The deletion is
	// visible to subsequent operations when the call returns. Deleting a
	// document with no records is not an error.
	DeleteDocument(ctx context.Context, name string, documentID int64) (int64, error)

	// BulkInsert writes the records to the named index in one bulk call,
	// using deterministic per-record identifiers so that retries overwrite
	// rather than duplicate.
	BulkInsert(ctx context.Context, name string, records []core.SentenceRecord) error
}

// FeatureField returns the index field name holding embedding vectors for
// the given model, e.g. "LaBSE_features".
func FeatureField(modelName string) string {
	return modelName + "_features"
}
