package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use and must
// return L2-normalized vectors of a fixed, declared dimension.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in the same order as the
	// input texts, one per input. Callers are responsible for bounding batch
	// sizes; the embedder processes whatever it is given in one call.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the dimensionality of the vectors this embedder
	// produces. It is constant for the lifetime of the embedder and defines
	// the dense_vector dims of the search index mapping.
	Dimensions() int
}
