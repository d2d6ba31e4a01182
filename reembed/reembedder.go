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
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/storage"
)

// CheckpointName identifies reembedding progress in a CheckpointRepository.
const CheckpointName = "reembed"

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of items to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of items)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Resume continues from the last saved checkpoint instead of starting over
	Resume bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder orchestrates the reembedding of all items in a database.
type Reembedder struct {
	items       storage.ItemRepository
	checkpoints storage.CheckpointRepository
	config      *Config
	progress    io.Writer
	processor   *BatchProcessor
	iterator    *ItemIterator
	logger      *slog.Logger
}

// NewReembedder creates a new reembedder.
// checkpoints may be nil, in which case progress is not persisted.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(
	items storage.ItemRepository,
	vectors storage.VectorRepository,
	checkpoints storage.CheckpointRepository,
	embedder ai.Embedder,
	config *Config,
	progress io.Writer,
) (*Reembedder, error) {
	if items == nil {
		return nil, ErrItemRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		items:       items,
		checkpoints: checkpoints,
		config:      config,
		progress:    progress,
		processor:   NewBatchProcessor(vectors, embedder, config.MaxRetries, config.RetryDelay),
		iterator:    NewItemIterator(items, config.BatchSize),
		logger:      slog.Default().With("component", "reembed"),
	}, nil
}

// Run executes the reembedding operation.
// Every item (or every item after the saved checkpoint when resuming) gets
// a fresh vector from the configured embedder. The checkpoint is cleared
// once the run completes.
func (r *Reembedder) Run(ctx context.Context) error {
	start, err := r.startingPoint(ctx)
	if err != nil {
		return err
	}
	r.iterator.StartAfter(start)

	pending, err := r.iterator.Items(ctx)
	if err != nil {
		return fmt.Errorf("failed to query items: %w", err)
	}

	alreadyDone := 0
	if start != nil {
		alreadyDone = start.Processed
	}

	total := len(pending)
	if total == 0 {
		fmt.Fprintf(r.progress, "No items to reembed (0 items)\n")
		return r.clearCheckpoint(ctx)
	}

	if start != nil {
		fmt.Fprintf(r.progress, "Resuming reembedding after %d items: %d remaining (batch size: %d)\n",
			alreadyDone, total, r.config.BatchSize)
	} else {
		fmt.Fprintf(r.progress, "Starting reembedding of %d items (batch size: %d)\n",
			total, r.config.BatchSize)
	}

	tracker := NewProgressTracker(r.progress, alreadyDone+total, r.config.ReportInterval)
	tracker.StartFrom(alreadyDone)

	processed := 0
	err = r.iterator.Batches(ctx, pending, func(batch []*core.Item) error {
		if err := r.processor.Process(ctx, batch); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(batch)
		tracker.Add(len(batch))

		last := batch[len(batch)-1]
		return r.saveCheckpoint(ctx, &core.Checkpoint{
			Name:          CheckpointName,
			LastCreatedAt: last.CreatedAt,
			LastID:        last.ID,
			Processed:     alreadyDone + processed,
		})
	})
	if err != nil {
		r.logger.Warn("reembedding stopped", "processed", processed, "err", err)
		return err
	}

	tracker.Finish()

	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d items in %v (%.1f items/sec)\n",
		total, tracker.Elapsed().Round(time.Second), tracker.Rate())

	return r.clearCheckpoint(ctx)
}

func (r *Reembedder) startingPoint(ctx context.Context) (*core.Checkpoint, error) {
	if !r.config.Resume || r.checkpoints == nil {
		return nil, nil
	}
	cp, err := r.checkpoints.LoadCheckpoint(ctx, CheckpointName)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if cp != nil {
		r.logger.Info("resuming from checkpoint", "lastID", cp.LastID, "processed", cp.Processed)
	}
	return cp, nil
}

func (r *Reembedder) saveCheckpoint(ctx context.Context, cp *core.Checkpoint) error {
	if r.checkpoints == nil {
		return nil
	}
	if err := r.checkpoints.SaveCheckpoint(ctx, cp); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

func (r *Reembedder) clearCheckpoint(ctx context.Context) error {
	if r.checkpoints == nil {
		return nil
	}
	return r.checkpoints.DeleteCheckpoint(ctx, CheckpointName)
}
