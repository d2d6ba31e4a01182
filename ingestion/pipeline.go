package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/storage"
)

// Pipeline orchestrates the ingestion of items.
// It stores items synchronously and embeds them on a worker pool.
type Pipeline struct {
	itemRepository   storage.ItemRepository
	vectorRepository storage.VectorRepository
	embeddingPool    *ants.Pool
	embeddingProc    processor
	pending          sync.WaitGroup
	logger           *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}

		embeddingPool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.embeddingPool = embeddingPool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	itemRepository storage.ItemRepository,
	vectorRepository storage.VectorRepository,
	provider ai.Provider,
	opts ...Option,
) (*Pipeline, error) {
	if itemRepository == nil {
		return nil, ErrItemRepositoryRequired
	}
	if vectorRepository == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	embeddingPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		itemRepository:   itemRepository,
		vectorRepository: vectorRepository,
		embeddingPool:    embeddingPool,
		logger:           slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	p.logger = p.logger.With("component", "ingestion")

	// Create processor after options are applied (so it gets final config)
	embeddingProc, err := newEmbeddingProcessor(itemRepository, vectorRepository, provider.Embedder(), p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.embeddingProc = embeddingProc

	return p, nil
}

// Ingest validates and stores items, then embeds them asynchronously.
// Every invalid item is reported; nothing is stored unless all are valid.
// Items without an ID or timestamp have them assigned by storage.
// Embedding errors are logged and do not fail the ingestion.
func (p *Pipeline) Ingest(ctx context.Context, items ...*core.Item) ([]*core.Item, error) {
	var errs []error
	for i, item := range items {
		if err := core.ValidateItem(item); err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	added, err := p.itemRepository.AddItems(ctx, items...)
	if err != nil {
		return nil, err
	}
	if len(added) == 0 {
		return added, nil
	}

	ids := make([]string, len(added))
	for i, item := range added {
		ids[i] = item.ID
	}

	p.pending.Add(1)
	err = p.embeddingPool.Submit(func() {
		defer p.pending.Done()
		if err := p.embeddingProc.process(context.Background(), ids...); err != nil {
			p.logger.Error("error processing embeddings", "err", err)
		}
	})
	if err != nil {
		p.pending.Done()
		p.logger.Error("error submitting embedding job", "err", err, "items", len(ids))
	}

	return added, nil
}

// Wait blocks until all submitted embedding jobs have finished.
func (p *Pipeline) Wait() {
	p.pending.Wait()
}

// Release waits for pending work and releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	p.pending.Wait()
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}
