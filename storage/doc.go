// Package storage defines persistence interfaces for ingestion job records.
//
// Ingestion runs off the request path; the job record is the only way a
// caller can learn that a run failed after their request was acknowledged.
// Records are therefore persisted, keyed by document identifier, and survive
// process restarts.
//
// Implementations:
//
//   - storage/badger: BadgerDB-backed repository, the production store
//   - storage/memory: in-process repository for tests
package storage
