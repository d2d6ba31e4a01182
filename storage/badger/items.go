package badger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/storage"
)

// ItemRepository implements storage.ItemRepository for BadgerDB.
type ItemRepository struct {
	backend *Backend
}

var _ storage.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(backend *Backend) (storage.ItemRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &ItemRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database.
func (r *ItemRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ItemRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddItems adds one or more items to storage.
func (r *ItemRepository) AddItems(ctx context.Context, items ...*core.Item) ([]*core.Item, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, item := range items {
			if item == nil {
				return fmt.Errorf("%w: item is nil", core.ErrInvalidItem)
			}
			if item.ID == "" {
				item.ID = uuid.NewString()
			}
			if item.CreatedAt.IsZero() {
				item.CreatedAt = time.Now().UTC()
			}
			if err := core.ValidateStoredItem(item); err != nil {
				return err
			}

			key := makeItemKey(item.ID)
			existing, err := readItem(tx, key)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("%w: item %q", storage.ErrDuplicateKey, item.ID)
			}

			if err := tx.Set(key, storage.MarshalItem(item)); err != nil {
				return err
			}
			if err := tx.Set(makeItemDateKey(item.CreatedAt, item.ID), []byte(item.ID)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	r.backend.logger.Debug("added items", "count", len(items))
	return items, nil
}

// UpdateItems replaces existing items.
func (r *ItemRepository) UpdateItems(ctx context.Context, items ...*core.Item) ([]*core.Item, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, item := range items {
			if err := core.ValidateStoredItem(item); err != nil {
				return err
			}

			key := makeItemKey(item.ID)
			old, err := readItem(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return fmt.Errorf("%w: item %q", storage.ErrNotFound, item.ID)
			}

			if err := tx.Set(key, storage.MarshalItem(item)); err != nil {
				return err
			}

			// Update date index if timestamp changed
			if !old.CreatedAt.Equal(item.CreatedAt) {
				if err := tx.Delete(makeItemDateKey(old.CreatedAt, old.ID)); err != nil {
					return err
				}
				if err := tx.Set(makeItemDateKey(item.CreatedAt, item.ID), []byte(item.ID)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteItems removes items, their index entries and cached vectors.
func (r *ItemRepository) DeleteItems(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeItemKey(id)

			item, err := readItem(tx, key)
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("%w: item %q", storage.ErrNotFound, id)
			}

			if err := tx.Delete(makeItemDateKey(item.CreatedAt, item.ID)); err != nil {
				return err
			}
			if err := tx.Delete(makeVectorKey(item.ID)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetItem retrieves a single item by ID.
func (r *ItemRepository) GetItem(ctx context.Context, id string) (*core.Item, error) {
	var result *core.Item
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readItem(tx, makeItemKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("%w: item %q", storage.ErrNotFound, id)
		}
		return nil
	}, false)
	return result, err
}

// GetItems retrieves multiple items by their IDs.
func (r *ItemRepository) GetItems(ctx context.Context, ids ...string) ([]*core.Item, error) {
	var result []*core.Item
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			item, err := readItem(tx, makeItemKey(id))
			if err != nil {
				return err
			}
			if item != nil {
				result = append(result, item)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListItems returns every item ordered by creation time.
func (r *ItemRepository) ListItems(ctx context.Context) ([]*core.Item, error) {
	var results []*core.Item
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(itemDatePrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := readIndexedItem(tx, iter.Item())
			if err != nil {
				return err
			}
			if item != nil {
				results = append(results, item)
			}
		}
		return nil
	}, false)
	return results, err
}

// GetItemsByDateRange retrieves items where start <= CreatedAt < end.
func (r *ItemRepository) GetItemsByDateRange(ctx context.Context, start, end time.Time) ([]*core.Item, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %s before start %s", storage.ErrInvalidQuery, end, start)
	}

	var results []*core.Item
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialItemDateKey(start)
		endKey := makePartialItemDateKey(end)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(itemDatePrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			if bytes.Compare(iter.Item().Key(), endKey) >= 0 {
				break
			}
			item, err := readIndexedItem(tx, iter.Item())
			if err != nil {
				return err
			}
			if item != nil {
				results = append(results, item)
			}
		}
		return nil
	}, false)

	return results, err
}

// GetRecentItems retrieves up to limit items, newest first.
func (r *ItemRepository) GetRecentItems(ctx context.Context, limit int) ([]*core.Item, error) {
	var results []*core.Item
	if limit <= 0 {
		return results, nil
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent items first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(itemDatePrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past the last possible key with this prefix
		seek := append([]byte(itemDatePrefix), bytes.Repeat([]byte{0xff}, 9)...)
		for iter.Seek(seek); iter.Valid() && len(results) < limit; iter.Next() {
			item, err := readIndexedItem(tx, iter.Item())
			if err != nil {
				return err
			}
			if item != nil {
				results = append(results, item)
			}
		}
		return nil
	}, false)

	return results, err
}

// readItem reads an item from the transaction.
// Returns nil, nil if the key does not exist.
func readItem(tx *badger.Txn, key []byte) (*core.Item, error) {
	entry, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var item *core.Item
	err = entry.Value(func(val []byte) error {
		var unmarshalErr error
		item, unmarshalErr = storage.UnmarshalItem(val)
		return unmarshalErr
	})
	return item, err
}

// readIndexedItem follows a date index entry to its item.
func readIndexedItem(tx *badger.Txn, entry *badger.Item) (*core.Item, error) {
	var id string
	if err := entry.Value(func(val []byte) error {
		id = string(val)
		return nil
	}); err != nil {
		return nil, err
	}
	return readItem(tx, makeItemKey(id))
}
