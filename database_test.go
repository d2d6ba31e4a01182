package sift

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/ai/mock"
	"github.com/poiesic/sift/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) (*Database, *mock.MockEmbedder) {
	t.Helper()
	embedder := mock.NewMockEmbedder()
	db, err := NewDatabase("", InMemory(), WithProvider(mock.NewMockProviderWithEmbedder(embedder)))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, embedder
}

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir, WithAIConfig(ai.NewConfig(ai.WithEmbeddingHost("http://localhost:1"))))
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		// Verify components are initialized
		assert.NotNil(t, db.ItemRepository())
		assert.NotNil(t, db.VectorRepository())
		assert.NotNil(t, db.CheckpointRepository())
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to create a database at a file path instead of directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		db, err := NewDatabase(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("error with invalid ai config", func(t *testing.T) {
		db, err := NewDatabase(t.TempDir(), WithAIConfig(ai.NewConfig(ai.WithEmbeddingModel(""))))
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDatabase_Close(t *testing.T) {
	provider := mock.NewMockProvider()
	db, err := NewDatabase(t.TempDir(), WithProvider(provider))
	require.NoError(t, err)

	require.NoError(t, db.Close())
	assert.True(t, provider.(*mock.MockProvider).Closed())
	assert.True(t, db.backend.IsClosed())
}

func TestDatabase_FactoryMethods(t *testing.T) {
	db, _ := newTestDatabase(t)

	t.Run("can create ingestion pipeline", func(t *testing.T) {
		pipeline, err := db.NewIngestionPipeline()
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		pipeline.Release()
	})

	t.Run("can create engine", func(t *testing.T) {
		engine, err := db.NewEngine()
		require.NoError(t, err)
		require.NotNil(t, engine)
	})

	t.Run("can create reembedder", func(t *testing.T) {
		r, err := db.NewReembedder(nil, io.Discard)
		require.NoError(t, err)
		require.NotNil(t, r)
	})
}

func TestDatabase_IngestAndSearch(t *testing.T) {
	db, embedder := newTestDatabase(t)
	ctx := context.Background()

	pipeline, err := db.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	now := time.Now().UTC()
	_, err = pipeline.Ingest(ctx,
		&core.Item{ID: "a", Title: "React Hooks Guide", Tags: []core.Tag{{Name: "react"}}, CreatedAt: now.Add(-time.Hour)},
		&core.Item{ID: "b", Title: "Concurrency in Go", Tags: []core.Tag{{Name: "go"}}, CreatedAt: now.Add(-2 * time.Hour)},
	)
	require.NoError(t, err)
	pipeline.Wait()

	items, err := db.ItemRepository().ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	engine, err := db.NewEngine()
	require.NoError(t, err)

	results := engine.Search("react", items)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Item.ID)

	// Cached vectors are used, so comparing stored items embeds nothing new
	embedder.Reset()
	engine.RelatedContent(ctx, items[0], items)
	assert.Equal(t, 0, embedder.CallCount())
}

func TestDatabase_SimilarByText(t *testing.T) {
	db, _ := newTestDatabase(t)
	ctx := context.Background()

	pipeline, err := db.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	item := &core.Item{ID: "a", Title: "Exact text", CreatedAt: time.Now().UTC().Add(-time.Minute)}
	_, err = pipeline.Ingest(ctx, item)
	require.NoError(t, err)
	pipeline.Wait()

	// The mock embedder is deterministic, so the item's own text matches itself
	matches, err := db.SimilarByText(ctx, item.Text(), 0.99, 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].Item.ID)
	assert.InDelta(t, 1.0, matches[0].Score, 0.001)
}
