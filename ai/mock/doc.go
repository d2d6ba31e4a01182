// Package mock provides test double implementations of the ai interfaces.
//
// # Usage in Tests
//
//	// Default deterministic behavior
//	provider := mock.NewMockProvider()
//	vector, err := provider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
//
//	// Check call counts
//	count := embedder.CallCount()
//
// The default MockEmbedder returns unit-length vectors derived from an FNV
// hash of the text, so identical texts always embed identically.
package mock
