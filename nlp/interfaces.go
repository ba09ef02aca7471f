package nlp

import "context"

// Segmenter splits raw document or section text into an ordered sequence of
// sentences. Implementations must be thread-safe for concurrent use.
//
// The returned sentences are non-empty and appear in document order. Empty or
// whitespace-only input yields an empty result, not an error. Callers must
// not assume segmentation is stable across runs; sentence positions are
// assigned fresh on every ingestion.
type Segmenter interface {
	SegmentText(ctx context.Context, text string) ([]string, error)
}
