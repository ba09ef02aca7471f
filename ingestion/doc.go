// Package ingestion implements the document indexing pipeline: sentence
// segmentation, batched embedding, and bounded bulk writes to the search
// index, with idempotent replacement of a document's prior records.
//
// The Pipeline is the entry point. Ingest validates the document, verifies
// the target index, deletes prior records (delete-before-write), and then
// runs segmentation, embedding, and indexing on a bounded worker pool.
// Callers observe the background phase through persisted job records.
//
// Batch size bounds three things at once: the sentence count per embedder
// call, the record count per bulk write, and peak memory per run.
package ingestion
