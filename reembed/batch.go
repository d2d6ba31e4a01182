package reembed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/similarity"
	"github.com/poiesic/sift/storage"
)

// BatchProcessor handles embedding generation for batches of items.
type BatchProcessor struct {
	vectors        storage.VectorRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
	logger         *slog.Logger
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(vectors storage.VectorRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		vectors:        vectors,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
		logger:         slog.Default().With("component", "reembed"),
	}
}

// Process generates embeddings for a batch of items and stores them.
// Vectors are normalized after embedding to ensure compatibility with cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, items []*core.Item) error {
	if len(items) == 0 {
		return nil
	}

	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Text()
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, bp.logger, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return err
		}
		if len(embeddings) != len(items) {
			return Permanent(fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCountMismatch, len(items), len(embeddings)))
		}
		return nil
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}

	for i, item := range items {
		if err := bp.vectors.PutVector(ctx, item.ID, similarity.Normalize(embeddings[i])); err != nil {
			return fmt.Errorf("failed to store vector for %q: %w", item.ID, err)
		}
	}

	return nil
}
