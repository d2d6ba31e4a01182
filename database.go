// Copyright 2025 Poiesic Systems
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


package sift

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/ai/openai"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/ingestion"
	"github.com/poiesic/sift/reembed"
	"github.com/poiesic/sift/similarity"
	"github.com/poiesic/sift/storage"
	"github.com/poiesic/sift/storage/badger"
)

// SemanticMatch is a stored item scored against a text by embedding similarity.
type SemanticMatch struct {
	Item  *core.Item
	Score float32
}

type Database struct {
	backend        *badger.Backend
	itemRepo       storage.ItemRepository
	vectorRepo     storage.VectorRepository
	checkpointRepo storage.CheckpointRepository
	provider       ai.Provider
	logger         *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
}

// WithAIConfig sets the embedding service configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithProvider uses provider instead of building an OpenAI-compatible one.
// The database takes ownership and closes it.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// InMemory keeps all data in memory; the path is ignored.
func InMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	itemRepo, err := badger.NewItemRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	vectorRepo, err := badger.NewVectorRepository(backend)
	if err != nil {
		itemRepo.Close()
		backend.Close()
		return nil, err
	}

	checkpointRepo := badger.NewCheckpointRepository(backend)

	// Create AI provider with configured settings
	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			vectorRepo.Close()
			itemRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:        backend,
		itemRepo:       itemRepo,
		vectorRepo:     vectorRepo,
		checkpointRepo: checkpointRepo,
		provider:       provider,
		logger:         slog.Default().With("component", "database"),
	}, nil
}

func (db *Database) Close() error {
	// Close AI provider first
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	// Close repositories
	if err := db.vectorRepo.Close(); err != nil {
		db.logger.Error("error closing vector repository", "err", err)
		return err
	}
	if err := db.itemRepo.Close(); err != nil {
		db.logger.Error("error closing item repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) ItemRepository() storage.ItemRepository {
	return db.itemRepo
}

func (db *Database) VectorRepository() storage.VectorRepository {
	return db.vectorRepo
}

func (db *Database) CheckpointRepository() storage.CheckpointRepository {
	return db.checkpointRepo
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.itemRepo, db.vectorRepo, db.provider, opts...)
}

func (db *Database) NewReembedder(config *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(db.itemRepo, db.vectorRepo, db.checkpointRepo, db.provider.Embedder(), config, progress)
}

// NewEngine creates an engine whose similarity signals use stored vectors
// and the database's embedder. Options given later override these defaults.
func (db *Database) NewEngine(opts ...EngineOption) (*Engine, error) {
	defaults := []EngineOption{
		WithEmbedder(db.provider.Embedder()),
		WithVectorSource(db.vectorRepo),
	}
	return NewEngine(append(defaults, opts...)...)
}

// SimilarByText embeds text and returns stored items whose vectors score at
// least minSimilarity, best first, up to limit.
func (db *Database) SimilarByText(ctx context.Context, text string, minSimilarity float32, limit int) ([]SemanticMatch, error) {
	vector, err := db.provider.Embedder().EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	matches, err := db.vectorRepo.FindSimilar(ctx, similarity.Normalize(vector), minSimilarity, limit)
	if err != nil {
		return nil, err
	}

	results := make([]SemanticMatch, 0, len(matches))
	var errs []error
	for _, m := range matches {
		item, err := db.itemRepo.GetItem(ctx, m.ID)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				errs = append(errs, err)
			}
			continue
		}
		results = append(results, SemanticMatch{Item: item, Score: m.Score})
	}
	return results, errors.Join(errs...)
}
