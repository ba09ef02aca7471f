package storage

import (
	"context"

	"github.com/sericalabs/serica/core"
)

// JobRepository provides operations for managing ingestion job records.
// Implementations must be thread-safe and support concurrent access.
type JobRepository interface {
	// PutJob stores the job record, replacing any existing record for the
	// same DocumentID. The record for a document always reflects its most
	// recent ingestion run.
	PutJob(ctx context.Context, job *core.IngestionJob) error

	// GetJob retrieves the job record for a document.
	// Returns ErrNotFound if no run was recorded for the document.
	GetJob(ctx context.Context, documentID int64) (*core.IngestionJob, error)

	// ListJobs retrieves up to limit job records ordered by document
	// identifier. A non-positive limit returns all records.
	ListJobs(ctx context.Context, limit int) ([]*core.IngestionJob, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
