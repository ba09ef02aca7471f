// Copyright 2025 Serica Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

//go:generate go run ../cmd/musgen

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Document is the ingestion input: a unit of authored text identified by a
// numeric DocumentID. It carries either flat Text or an ordered list of
// Sections. The pipeline treats it as read-only for the duration of a run.
type Document struct {
	DocumentID int64
	Title      string
	Slug       string
	Text       string
	Sections   []Section
}

// Section is an ordered sub-unit of a Document. Path is a stable label used
// for traceability in the index; the text may carry markup, which the
// segmenter is responsible for handling.
type Section struct {
	Path string
	Text string
}

// EffectiveSections returns the document's sections, or a single implicit
// section wrapping the flat text when none are present.
func (d *Document) EffectiveSections() []Section {
	if len(d.Sections) > 0 {
		return d.Sections
	}
	return []Section{{Text: d.Text}}
}

// SentenceRecord is one indexed sentence of a document, paired with its
// embedding vector. Position is globally monotonic across all sections of a
// document within one ingestion run, starting at 0. Chunk is the 0-based
// ordinal of the embedding batch the sentence was processed in.
type SentenceRecord struct {
	DocumentID  int64
	Title       string
	Slug        string
	SectionPath string
	Position    int
	Chunk       int
	Sentence    string
	Vector      []float32
}

// SentenceRecordID derives a deterministic index identifier for a sentence
// record from its document and position using BLAKE2b hashing. Bulk writes
// issued with these IDs overwrite on retry instead of duplicating.
func SentenceRecordID(documentID int64, position int) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	fmt.Fprintf(h, "%d:%d", documentID, position)
	return hex.EncodeToString(h.Sum(nil))
}

// IngestOutcome reports how an accepted ingestion affected prior index state.
type IngestOutcome int

const (
	// OutcomeCreated means no prior records existed for the document.
	OutcomeCreated IngestOutcome = iota + 1
	// OutcomeReplaced means prior records were deleted before reindexing.
	OutcomeReplaced
)

// Message returns the response message exposed to callers.
func (o IngestOutcome) Message() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeReplaced:
		return "deleted and re-created"
	default:
		return "unknown"
	}
}

// JobStatus is the lifecycle state of an ingestion job.
type JobStatus int

const (
	// JobStatusPending means the job was accepted but not yet started.
	JobStatusPending JobStatus = iota + 1
	// JobStatusRunning means the background run is in progress.
	JobStatusRunning
	// JobStatusSucceeded means the run completed and the index reflects the
	// document's most recent ingestion.
	JobStatusSucceeded
	// JobStatusFailed means the run aborted; the index may hold a partial set
	// of records from already-flushed batches.
	JobStatusFailed
)

// String returns the lowercase status name.
func (s JobStatus) String() string {
	switch s {
	case JobStatusPending:
		return "pending"
	case JobStatusRunning:
		return "running"
	case JobStatusSucceeded:
		return "succeeded"
	case JobStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IngestionJob is the persisted status record for one ingestion run, keyed by
// DocumentID. It is how callers observe the outcome of work that happens off
// the request path.
type IngestionJob struct {
	DocumentID int64
	Status     JobStatus
	Outcome    IngestOutcome
	Sentences  int
	Batches    int
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}
