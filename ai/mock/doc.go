// Package mock provides a test double implementation of ai.Embedder.
//
// The mock allows tests to run without an external embedding service and
// enables controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	embedder := mock.NewMockEmbedder(768)
//	vectors, err := embedder.EmbedTexts(ctx, []string{"odi et amo"})
//
//	// Custom behavior injection
//	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
//	    return nil, errors.New("model unavailable")
//	}
//
//	// Check call counts
//	count := embedder.CallCount()
//
// By default the mock returns deterministic unit-length vectors derived from
// a hash of the input text, so identical sentences embed identically.
package mock
