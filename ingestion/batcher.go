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


package ingestion

import (
	"context"
	"fmt"

	"github.com/sericalabs/serica/ai"
	"github.com/sericalabs/serica/core"
)

// FlushFunc receives an accumulated batch of records for writing to the
// index. The slice is reused between flushes; implementations must not
// retain it.
type FlushFunc func(ctx context.Context, records []core.SentenceRecord) error

// Batcher drives the embedder over a document's sentence stream in bounded
// batches and hands accumulated records to a flush function. Positions are
// assigned globally across all Add calls, starting at 0; each embedder call
// gets the next chunk ordinal. Not safe for concurrent use; a Batcher serves
// exactly one ingestion run.
type Batcher struct {
	embedder ai.Embedder
	capacity int
	flush    FlushFunc

	buffer   []core.SentenceRecord
	position int
	chunk    int
	flushes  int
}

// NewBatcher creates a Batcher that embeds and flushes in batches of at most
// capacity sentences. The buffer is flushed whenever it reaches capacity and
// must be drained with Finish after the last Add.
func NewBatcher(embedder ai.Embedder, capacity int, flush FlushFunc) (*Batcher, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if capacity < 1 {
		return nil, ErrInvalidBatchSize
	}

	return &Batcher{
		embedder: embedder,
		capacity: capacity,
		flush:    flush,
		buffer:   make([]core.SentenceRecord, 0, capacity),
	}, nil
}

// Add embeds the sentences of one section and appends the resulting records
// to the buffer, flushing whenever the buffer reaches capacity. Sections may
// be added in any number of calls; positions continue across them.
func (b *Batcher) Add(ctx context.Context, doc *core.Document, sectionPath string, sentences []string) error {
	for start := 0; start < len(sentences); start += b.capacity {
		end := min(start+b.capacity, len(sentences))
		batch := sentences[start:end]

		vectors, err := b.embedder.EmbedTexts(ctx, batch)
		if err != nil {
			return fmt.Errorf("embedding chunk %d: %w", b.chunk, err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedding chunk %d: got %d vectors for %d sentences", b.chunk, len(vectors), len(batch))
		}

		for i, sentence := range batch {
			b.buffer = append(b.buffer, core.SentenceRecord{
				DocumentID:  doc.DocumentID,
				Title:       doc.Title,
				Slug:        doc.Slug,
				SectionPath: sectionPath,
				Position:    b.position,
				Chunk:       b.chunk,
				Sentence:    sentence,
				Vector:      vectors[i],
			})
			b.position++
		}
		b.chunk++

		if len(b.buffer) >= b.capacity {
			if err := b.flushBuffer(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// Finish flushes any buffered records. Must be called once after the last
// Add; the Batcher is done afterwards.
func (b *Batcher) Finish(ctx context.Context) error {
	if len(b.buffer) == 0 {
		return nil
	}
	return b.flushBuffer(ctx)
}

// Sentences returns the number of sentences embedded so far.
func (b *Batcher) Sentences() int {
	return b.position
}

// Flushes returns the number of flushes performed so far.
func (b *Batcher) Flushes() int {
	return b.flushes
}

func (b *Batcher) flushBuffer(ctx context.Context) error {
	if err := b.flush(ctx, b.buffer); err != nil {
		return fmt.Errorf("flushing %d records: %w", len(b.buffer), err)
	}
	b.flushes++
	b.buffer = b.buffer[:0]
	return nil
}
