package index

import "errors"

var (
	// ErrIndexNotFound indicates the target index does not exist.
	// It is fatal for an ingestion run and surfaced to the caller.
	ErrIndexNotFound = errors.New("index not found")

	// ErrBulkFailed indicates a bulk write was rejected, in whole or in part.
	ErrBulkFailed = errors.New("bulk insert failed")
)
