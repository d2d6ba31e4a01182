package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/similarity"
	"github.com/poiesic/sift/storage"
)

// embeddingProcessor generates and caches unit-length embeddings for items.
type embeddingProcessor struct {
	itemRepository   storage.ItemRepository
	vectorRepository storage.VectorRepository
	embedder         ai.Embedder
	logger           *slog.Logger
}

var _ processor = (*embeddingProcessor)(nil)

// newEmbeddingProcessor creates a new embedding processor.
func newEmbeddingProcessor(itemRepository storage.ItemRepository, vectorRepository storage.VectorRepository, embedder ai.Embedder, logger *slog.Logger) (processor, error) {
	if itemRepository == nil {
		return nil, ErrItemRepositoryRequired
	}
	if vectorRepository == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingProcessor{
		itemRepository:   itemRepository,
		vectorRepository: vectorRepository,
		embedder:         embedder,
		logger:           logger.With("processor", "embeddings"),
	}, nil
}

// process generates embeddings for the specified items.
// Items deleted since ingestion are skipped.
func (ep *embeddingProcessor) process(ctx context.Context, ids ...string) error {
	ep.logger.Info("processing items for embeddings", "items", len(ids))

	items, err := ep.itemRepository.GetItems(ctx, ids...)
	if err != nil {
		ep.logger.Error("error retrieving items", "err", err)
		return err
	}
	if len(items) == 0 {
		return nil
	}

	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Text()
	}

	ep.logger.Debug("generating embeddings for items", "items", len(texts))
	embeddings, err := ep.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		ep.logger.Error("error generating embeddings", "err", err)
		return err
	}

	if len(embeddings) != len(items) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(items), len(embeddings))
	}

	for i, item := range items {
		if err := ep.vectorRepository.PutVector(ctx, item.ID, similarity.Normalize(embeddings[i])); err != nil {
			return fmt.Errorf("storing vector for %q: %w", item.ID, err)
		}
	}

	return nil
}
