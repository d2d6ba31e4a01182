package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/sift/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutVector_RequiresItem(t *testing.T) {
	_, vectors := newTestItemRepo(t)

	err := vectors.PutVector(context.Background(), "missing", []float32{1})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPutGetVector(t *testing.T) {
	items, vectors := newTestItemRepo(t)
	ctx := context.Background()

	_, err := items.AddItems(ctx, testItem("a", "A", time.Now().UTC()))
	require.NoError(t, err)

	vec := []float32{0.25, -0.5, 0.75}
	require.NoError(t, vectors.PutVector(ctx, "a", vec))

	got, err := vectors.GetVector(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, vec, got)

	// Overwrite
	require.NoError(t, vectors.PutVector(ctx, "a", []float32{1}))
	got, err = vectors.GetVector(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, got)
}

func TestDeleteVectors(t *testing.T) {
	items, vectors := newTestItemRepo(t)
	ctx := context.Background()

	_, err := items.AddItems(ctx, testItem("a", "A", time.Now().UTC()))
	require.NoError(t, err)
	require.NoError(t, vectors.PutVector(ctx, "a", []float32{1}))

	require.NoError(t, vectors.DeleteVectors(ctx, "a", "never-stored"))
	_, err = vectors.GetVector(ctx, "a")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// The item itself survives
	_, err = items.GetItem(ctx, "a")
	assert.NoError(t, err)
}

func TestFindSimilar_NoVectors(t *testing.T) {
	_, vectors := newTestItemRepo(t)

	results, err := vectors.FindSimilar(context.Background(), []float32{0.1, 0.2, 0.3}, 0.5, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindSimilar(t *testing.T) {
	items, vectors := newTestItemRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := items.AddItems(ctx,
		testItem("x", "Along x", now),
		testItem("xy", "Between", now),
		testItem("y", "Along y", now),
		testItem("novec", "No vector", now),
	)
	require.NoError(t, err)
	require.NoError(t, vectors.PutVector(ctx, "x", []float32{1, 0}))
	require.NoError(t, vectors.PutVector(ctx, "xy", []float32{0.6, 0.8}))
	require.NoError(t, vectors.PutVector(ctx, "y", []float32{0, 1}))

	t.Run("threshold filtering", func(t *testing.T) {
		results, err := vectors.FindSimilar(ctx, []float32{1, 0}, 0.5, 10)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "x", results[0].ID)
		assert.InDelta(t, 1.0, results[0].Score, 0.0001)
		assert.Equal(t, "xy", results[1].ID)
		assert.InDelta(t, 0.6, results[1].Score, 0.0001)
	})

	t.Run("limit results", func(t *testing.T) {
		results, err := vectors.FindSimilar(ctx, []float32{0, 1}, -1, 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "y", results[0].ID)
	})

	t.Run("no limit", func(t *testing.T) {
		results, err := vectors.FindSimilar(ctx, []float32{0, 1}, -1, 0)
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})
}

func TestDotProduct(t *testing.T) {
	tests := []struct {
		name     string
		a        []float32
		b        []float32
		expected float32
	}{
		{
			name:     "identical vectors",
			a:        []float32{1.0, 0.0, 0.0},
			b:        []float32{1.0, 0.0, 0.0},
			expected: 1.0,
		},
		{
			name:     "orthogonal vectors",
			a:        []float32{1.0, 0.0, 0.0},
			b:        []float32{0.0, 1.0, 0.0},
			expected: 0.0,
		},
		{
			name:     "opposite vectors",
			a:        []float32{1.0, 0.0, 0.0},
			b:        []float32{-1.0, 0.0, 0.0},
			expected: -1.0,
		},
		{
			name:     "general case",
			a:        []float32{0.6, 0.8},
			b:        []float32{0.8, 0.6},
			expected: 0.96,
		},
		{
			name:     "different lengths - use min",
			a:        []float32{1.0, 2.0, 3.0},
			b:        []float32{1.0, 2.0},
			expected: 5.0,
		},
		{
			name:     "empty vectors",
			a:        []float32{},
			b:        []float32{},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := dotProduct(tt.a, tt.b)
			assert.InDelta(t, tt.expected, result, 0.0001)
		})
	}
}
