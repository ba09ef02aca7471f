package badger

import "fmt"

// Key prefixes for different data types
const (
	jobRecordPrefix = "ingjob"
)

// makeJobKey generates a key for an ingestion job record by document ID.
// Document IDs are rendered zero-padded so the prefix scan in ListJobs
// yields records in document-ID order.
func makeJobKey(documentID int64) []byte {
	return []byte(fmt.Sprintf("%s:%020d", jobRecordPrefix, documentID))
}
