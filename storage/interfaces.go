package storage

import (
	"context"
	"time"

	"github.com/poiesic/sift/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close releases resources held by the repository.
	Close() error
}

// ItemRepository provides operations for managing saved items.
type ItemRepository interface {
	Repository

	// AddItems adds one or more items to storage.
	// Items with an empty ID are assigned a random UUID; items with a zero
	// CreatedAt are stamped with the current time. Every item is validated.
	// Returns ErrDuplicateKey if an item with the same ID already exists.
	AddItems(ctx context.Context, items ...*core.Item) ([]*core.Item, error)

	// UpdateItems replaces existing items.
	// Returns ErrNotFound if any item doesn't exist.
	UpdateItems(ctx context.Context, items ...*core.Item) ([]*core.Item, error)

	// DeleteItems removes items and their cached vectors.
	// Returns ErrNotFound if any item doesn't exist.
	DeleteItems(ctx context.Context, ids ...string) error

	// GetItem retrieves a single item by ID.
	// Returns ErrNotFound if the item doesn't exist.
	GetItem(ctx context.Context, id string) (*core.Item, error)

	// GetItems retrieves multiple items by their IDs.
	// Returns only the items that exist (no error for missing items).
	GetItems(ctx context.Context, ids ...string) ([]*core.Item, error)

	// ListItems returns every item ordered by creation time, oldest first.
	ListItems(ctx context.Context) ([]*core.Item, error)

	// GetItemsByDateRange retrieves items where start <= CreatedAt < end,
	// ordered by creation time.
	GetItemsByDateRange(ctx context.Context, start, end time.Time) ([]*core.Item, error)

	// GetRecentItems retrieves up to limit items, newest first.
	GetRecentItems(ctx context.Context, limit int) ([]*core.Item, error)
}

// VectorMatch is an item ID scored against a query vector.
type VectorMatch struct {
	ID    string
	Score float32
}

// VectorRepository caches item embeddings.
type VectorRepository interface {
	Repository

	// PutVector stores the embedding for an existing item.
	// Returns ErrNotFound if the item doesn't exist.
	PutVector(ctx context.Context, id string, vector []float32) error

	// GetVector returns the stored embedding for an item.
	// Returns ErrNotFound if no vector is stored.
	GetVector(ctx context.Context, id string) ([]float32, error)

	// DeleteVectors removes stored embeddings. Missing vectors are ignored.
	DeleteVectors(ctx context.Context, ids ...string) error

	// FindSimilar scores every stored vector against vector by dot product.
	// Returns matches with score >= minSimilarity, highest first, up to limit.
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]VectorMatch, error)
}

// CheckpointRepository persists progress markers for resumable jobs.
type CheckpointRepository interface {
	// SaveCheckpoint stores checkpoint under its name, stamping UpdatedAt.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint returns the named checkpoint, or nil if none exists.
	LoadCheckpoint(ctx context.Context, name string) (*core.Checkpoint, error)

	// DeleteCheckpoint removes the named checkpoint. Missing names are ignored.
	DeleteCheckpoint(ctx context.Context, name string) error
}
