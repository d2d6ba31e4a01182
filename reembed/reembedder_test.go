package reembed

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(batchSize int) *Config {
	return &Config{
		BatchSize:      batchSize,
		ReportInterval: batchSize,
		MaxRetries:     3,
		RetryDelay:     10 * time.Millisecond,
	}
}

func TestNewReembedder_Validation(t *testing.T) {
	db := setupTestDB(t)

	_, err := NewReembedder(nil, db.vectors, nil, &mockEmbedder{}, nil, nil)
	assert.ErrorIs(t, err, ErrItemRepositoryRequired)

	_, err = NewReembedder(db.items, nil, nil, &mockEmbedder{}, nil, nil)
	assert.ErrorIs(t, err, ErrVectorRepositoryRequired)

	_, err = NewReembedder(db.items, db.vectors, nil, nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	r, err := NewReembedder(db.items, db.vectors, nil, &mockEmbedder{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), r.config)
}

func TestReembedder_Run(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	added := seedItems(t, db, 10)

	var buf bytes.Buffer
	reembedder, err := NewReembedder(db.items, db.vectors, db.checkpoints, &mockEmbedder{}, testConfig(3), &buf)
	require.NoError(t, err)

	require.NoError(t, reembedder.Run(ctx))

	for _, item := range added {
		vec, err := db.vectors.GetVector(ctx, item.ID)
		require.NoError(t, err, "item %s should have embedding", item.ID)
		assert.InDelta(t, 1.0, magnitude(vec), 0.01, "vector should be normalized")
	}

	output := buf.String()
	assert.Contains(t, output, "10/10", "should show completion")

	// Completed runs leave no checkpoint behind
	cp, err := db.checkpoints.LoadCheckpoint(ctx, CheckpointName)
	require.NoError(t, err)
	assert.Nil(t, cp)
}

// countingItems counts full scans of the item store.
type countingItems struct {
	storage.ItemRepository
	lists int
}

func (c *countingItems) ListItems(ctx context.Context) ([]*core.Item, error) {
	c.lists++
	return c.ItemRepository.ListItems(ctx)
}

func TestReembedder_ListsItemsOnce(t *testing.T) {
	db := setupTestDB(t)
	seedItems(t, db, 7)
	items := &countingItems{ItemRepository: db.items}

	reembedder, err := NewReembedder(items, db.vectors, db.checkpoints, &mockEmbedder{}, testConfig(2), nil)
	require.NoError(t, err)

	require.NoError(t, reembedder.Run(context.Background()))
	assert.Equal(t, 1, items.lists)
}

func TestReembedder_EmptyDatabase(t *testing.T) {
	db := setupTestDB(t)

	var buf bytes.Buffer
	reembedder, err := NewReembedder(db.items, db.vectors, db.checkpoints, &mockEmbedder{}, DefaultConfig(), &buf)
	require.NoError(t, err)

	require.NoError(t, reembedder.Run(context.Background()))
	assert.Contains(t, buf.String(), "0 items", "should report zero items")
}

func TestReembedder_ContextCancellation(t *testing.T) {
	db := setupTestDB(t)
	seedItems(t, db, 10)

	ctx, cancel := context.WithCancel(context.Background())

	callCount := 0
	embedder := &mockEmbedder{
		embedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			callCount++
			if callCount == 2 {
				cancel()
			}
			result := make([][]float32, len(texts))
			for i := range result {
				result[i] = []float32{1.0, 0.0, 0.0}
			}
			return result, nil
		},
	}

	var buf bytes.Buffer
	reembedder, err := NewReembedder(db.items, db.vectors, db.checkpoints, embedder, testConfig(3), &buf)
	require.NoError(t, err)

	err = reembedder.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	// Two batches completed before cancellation
	cp, err := db.checkpoints.LoadCheckpoint(context.Background(), CheckpointName)
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Equal(t, 6, cp.Processed)
	assert.Equal(t, "item-005", cp.LastID)
}

func TestReembedder_Resume(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedItems(t, db, 10)

	// First run fails on the third batch
	calls := 0
	failing := &mockEmbedder{
		embedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			calls++
			if calls >= 3 {
				return nil, errors.New("service down")
			}
			result := make([][]float32, len(texts))
			for i := range result {
				result[i] = []float32{1, 0}
			}
			return result, nil
		},
	}
	config := testConfig(3)
	config.MaxRetries = 1

	first, err := NewReembedder(db.items, db.vectors, db.checkpoints, failing, config, nil)
	require.NoError(t, err)
	require.Error(t, first.Run(ctx))

	cp, err := db.checkpoints.LoadCheckpoint(ctx, CheckpointName)
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Equal(t, 6, cp.Processed)

	// Resumed run only embeds the remaining four items
	var seen []string
	recording := &mockEmbedder{
		embedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			seen = append(seen, texts...)
			result := make([][]float32, len(texts))
			for i := range result {
				result[i] = []float32{0, 1}
			}
			return result, nil
		},
	}
	config.Resume = true

	var buf bytes.Buffer
	second, err := NewReembedder(db.items, db.vectors, db.checkpoints, recording, config, &buf)
	require.NoError(t, err)
	require.NoError(t, second.Run(ctx))

	assert.Len(t, seen, 4)
	assert.Contains(t, buf.String(), "Resuming")
	assert.Contains(t, buf.String(), "10/10 (100.0%)")

	early, err := db.vectors.GetVector(ctx, "item-000")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, early)

	late, err := db.vectors.GetVector(ctx, "item-009")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, late)

	cp, err = db.checkpoints.LoadCheckpoint(ctx, CheckpointName)
	require.NoError(t, err)
	assert.Nil(t, cp)
}

func TestReembedder_ResumeWithoutCheckpoint(t *testing.T) {
	db := setupTestDB(t)
	seedItems(t, db, 4)

	config := testConfig(2)
	config.Resume = true

	var buf bytes.Buffer
	reembedder, err := NewReembedder(db.items, db.vectors, db.checkpoints, &mockEmbedder{}, config, &buf)
	require.NoError(t, err)
	require.NoError(t, reembedder.Run(context.Background()))

	assert.Contains(t, buf.String(), "Starting reembedding of 4 items")
}

func TestReembedder_EmbeddingError(t *testing.T) {
	db := setupTestDB(t)
	seedItems(t, db, 1)

	embedder := &mockEmbedder{
		embedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("persistent error")
		},
	}

	config := testConfig(1)
	config.MaxRetries = 2

	var buf bytes.Buffer
	reembedder, err := NewReembedder(db.items, db.vectors, nil, embedder, config, &buf)
	require.NoError(t, err)

	err = reembedder.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persistent error")
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Greater(t, config.BatchSize, 0, "batch size should be positive")
	assert.Greater(t, config.ReportInterval, 0, "report interval should be positive")
	assert.Greater(t, config.MaxRetries, 0, "max retries should be positive")
	assert.Greater(t, config.RetryDelay, time.Duration(0), "retry delay should be positive")
	assert.False(t, config.Resume)
}

func TestReembedder_ProgressTracking(t *testing.T) {
	db := setupTestDB(t)
	seedItems(t, db, 25)

	config := testConfig(5)
	config.ReportInterval = 10

	var buf bytes.Buffer
	reembedder, err := NewReembedder(db.items, db.vectors, db.checkpoints, &mockEmbedder{}, config, &buf)
	require.NoError(t, err)
	require.NoError(t, reembedder.Run(context.Background()))

	output := buf.String()
	assert.Contains(t, output, "Progress:", "should show progress")
	assert.Contains(t, output, "25/25", "should show final count")
}
