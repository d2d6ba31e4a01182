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


package reembed

import (
	"context"

	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/storage"
)

const (
	// DefaultBatchSize is the default number of items to fetch in each batch
	DefaultBatchSize = 100
)

// ItemIterator iterates over all items in creation order, in batches.
type ItemIterator struct {
	repo      storage.ItemRepository
	batchSize int
	after     *core.Checkpoint
}

// NewItemIterator creates a new item iterator.
// batchSize: number of items to hand to fn at once (<= 0 uses DefaultBatchSize)
func NewItemIterator(repo storage.ItemRepository, batchSize int) *ItemIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &ItemIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// StartAfter skips every item at or before the checkpoint's position.
// A nil checkpoint iterates from the beginning.
func (it *ItemIterator) StartAfter(cp *core.Checkpoint) {
	it.after = cp
}

// Items returns the items the iterator will visit.
func (it *ItemIterator) Items(ctx context.Context) ([]*core.Item, error) {
	items, err := it.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	if it.after == nil {
		return items, nil
	}

	for i, item := range items {
		if afterCheckpoint(item, it.after) {
			return items[i:], nil
		}
	}
	return nil, nil
}

// ForEach iterates over the items, calling fn for each batch.
// Iteration stops on first error from fn or when all items are processed.
// Context cancellation is checked between batches.
func (it *ItemIterator) ForEach(ctx context.Context, fn func([]*core.Item) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	items, err := it.Items(ctx)
	if err != nil {
		return err
	}
	return it.Batches(ctx, items, fn)
}

// Batches calls fn for consecutive batchSize slices of items without
// going back to the repository. Use it with the result of Items.
func (it *ItemIterator) Batches(ctx context.Context, items []*core.Item, fn func([]*core.Item) error) error {
	for i := 0; i < len(items); i += it.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(i+it.batchSize, len(items))
		if err := fn(items[i:end]); err != nil {
			return err
		}
	}

	return ctx.Err()
}

// afterCheckpoint reports whether item sorts after the checkpoint position.
// Positions compare by creation time at storage precision, then by ID.
func afterCheckpoint(item *core.Item, cp *core.Checkpoint) bool {
	a, b := item.CreatedAt.UnixMicro(), cp.LastCreatedAt.UnixMicro()
	if a != b {
		return a > b
	}
	return item.ID > cp.LastID
}
