package ingestion

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sericalabs/serica/ai/mock"
	"github.com/sericalabs/serica/core"
)

// flushRecorder captures flushed batches. The batcher reuses its buffer, so
// each batch is cloned.
type flushRecorder struct {
	batches [][]core.SentenceRecord
	err     error
}

func (f *flushRecorder) flush(ctx context.Context, records []core.SentenceRecord) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, slices.Clone(records))
	return nil
}

func (f *flushRecorder) all() []core.SentenceRecord {
	var out []core.SentenceRecord
	for _, b := range f.batches {
		out = append(out, b...)
	}
	return out
}

func TestNewBatcherValidation(t *testing.T) {
	rec := &flushRecorder{}

	_, err := NewBatcher(nil, 10, rec.flush)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewBatcher(mock.NewMockEmbedder(8), 0, rec.flush)
	assert.ErrorIs(t, err, ErrInvalidBatchSize)
}

func TestBatcherPositionsAndChunks(t *testing.T) {
	embedder := mock.NewMockEmbedder(8)
	rec := &flushRecorder{}
	b, err := NewBatcher(embedder, 2, rec.flush)
	require.NoError(t, err)

	doc := &core.Document{DocumentID: 42, Title: "De Bello Gallico", Slug: "dbg"}
	sentences := []string{"s0.", "s1.", "s2.", "s3.", "s4."}

	ctx := context.Background()
	require.NoError(t, b.Add(ctx, doc, "liber-1", sentences))
	require.NoError(t, b.Finish(ctx))

	// 5 sentences at capacity 2: three embedding calls, three flushes.
	assert.Equal(t, 3, embedder.CallCount())
	assert.Equal(t, 3, b.Flushes())
	assert.Equal(t, 5, b.Sentences())

	records := rec.all()
	require.Len(t, records, 5)
	for i, r := range records {
		assert.Equal(t, int64(42), r.DocumentID)
		assert.Equal(t, "De Bello Gallico", r.Title)
		assert.Equal(t, "dbg", r.Slug)
		assert.Equal(t, "liber-1", r.SectionPath)
		assert.Equal(t, i, r.Position)
		assert.Equal(t, sentences[i], r.Sentence)
		assert.Len(t, r.Vector, 8)
	}
	chunks := []int{records[0].Chunk, records[1].Chunk, records[2].Chunk, records[3].Chunk, records[4].Chunk}
	assert.Equal(t, []int{0, 0, 1, 1, 2}, chunks)
}

func TestBatcherAccumulatesAcrossSections(t *testing.T) {
	embedder := mock.NewMockEmbedder(8)
	rec := &flushRecorder{}
	b, err := NewBatcher(embedder, 3, rec.flush)
	require.NoError(t, err)

	doc := &core.Document{DocumentID: 7}
	ctx := context.Background()

	// Two sentences stay buffered below capacity.
	require.NoError(t, b.Add(ctx, doc, "a", []string{"a0.", "a1."}))
	assert.Zero(t, b.Flushes())

	// Two more cross the threshold: one flush carrying all four.
	require.NoError(t, b.Add(ctx, doc, "b", []string{"b0.", "b1."}))
	assert.Equal(t, 1, b.Flushes())
	require.NoError(t, b.Finish(ctx))
	assert.Equal(t, 1, b.Flushes())

	records := rec.all()
	require.Len(t, records, 4)
	// Positions run across section boundaries without resetting.
	for i, r := range records {
		assert.Equal(t, i, r.Position)
	}
	assert.Equal(t, "a", records[0].SectionPath)
	assert.Equal(t, "b", records[2].SectionPath)
}

func TestBatcherEmptyInput(t *testing.T) {
	rec := &flushRecorder{}
	b, err := NewBatcher(mock.NewMockEmbedder(8), 10, rec.flush)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, b.Add(ctx, &core.Document{DocumentID: 1}, "", nil))
	require.NoError(t, b.Finish(ctx))

	assert.Zero(t, b.Flushes())
	assert.Zero(t, b.Sentences())
	assert.Empty(t, rec.batches)
}

func TestBatcherEmbedderError(t *testing.T) {
	embedder := mock.NewMockEmbedder(8)
	wantErr := errors.New("embedding service unavailable")
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, wantErr
	}

	rec := &flushRecorder{}
	b, err := NewBatcher(embedder, 10, rec.flush)
	require.NoError(t, err)

	err = b.Add(context.Background(), &core.Document{DocumentID: 1}, "", []string{"s."})
	assert.ErrorIs(t, err, wantErr)
	assert.Empty(t, rec.batches)
}

func TestBatcherFlushError(t *testing.T) {
	rec := &flushRecorder{err: errors.New("bulk write failed")}
	b, err := NewBatcher(mock.NewMockEmbedder(8), 1, rec.flush)
	require.NoError(t, err)

	err = b.Add(context.Background(), &core.Document{DocumentID: 1}, "", []string{"s."})
	assert.ErrorIs(t, err, rec.err)
}
