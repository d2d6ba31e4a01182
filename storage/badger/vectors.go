package badger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/sift/storage"
)

// VectorRepository implements storage.VectorRepository for BadgerDB.
type VectorRepository struct {
	backend *Backend
}

var _ storage.VectorRepository = (*VectorRepository)(nil)

// NewVectorRepository creates a new VectorRepository.
func NewVectorRepository(backend *Backend) (storage.VectorRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &VectorRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database.
func (r *VectorRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *VectorRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutVector stores the embedding for an existing item.
func (r *VectorRepository) PutVector(ctx context.Context, id string, vector []float32) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if _, err := tx.Get(makeItemKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: item %q", storage.ErrNotFound, id)
			}
			return err
		}
		if err := tx.Set(makeVectorKey(id), storage.MarshalVector(vector)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetVector returns the stored embedding for an item.
func (r *VectorRepository) GetVector(ctx context.Context, id string) ([]float32, error) {
	var vector []float32
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		entry, err := tx.Get(makeVectorKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: vector %q", storage.ErrNotFound, id)
			}
			return err
		}
		return entry.Value(func(val []byte) error {
			var unmarshalErr error
			vector, unmarshalErr = storage.UnmarshalVector(val)
			return unmarshalErr
		})
	}, false)
	return vector, err
}

// DeleteVectors removes stored embeddings.
func (r *VectorRepository) DeleteVectors(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := tx.Delete(makeVectorKey(id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// FindSimilar finds items whose stored vector is similar to the given vector.
func (r *VectorRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]storage.VectorMatch, error) {
	var results []storage.VectorMatch

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(itemVectorPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			entry := iter.Item()

			var stored []float32
			err := entry.Value(func(val []byte) error {
				var err error
				stored, err = storage.UnmarshalVector(val)
				return err
			})
			if err != nil {
				return err
			}
			if len(stored) == 0 {
				continue
			}

			// Cosine similarity (dot product for normalized vectors)
			similarity := dotProduct(vector, stored)
			if similarity >= minSimilarity {
				results = append(results, storage.VectorMatch{
					ID:    strings.TrimPrefix(string(entry.Key()), itemVectorPrefix),
					Score: similarity,
				})
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortStableFunc(results, func(a, b storage.VectorMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
