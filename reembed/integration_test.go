package reembed

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/ai/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIntegration_OpenAICompatibleEmbedder runs a full reembedding against
// an OpenAI-compatible HTTP endpoint served locally.
func TestIntegration_OpenAICompatibleEmbedder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data := make([]map[string]any, len(req.Input))
		for i, text := range req.Input {
			data[i] = map[string]any{
				"object":    "embedding",
				"embedding": []float32{float32(len(text)), 0, 0},
				"index":     i,
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  "test-embed",
			"usage":  map[string]int{"prompt_tokens": 1, "total_tokens": 1},
		})
	}))
	defer server.Close()

	embedder, err := openai.NewEmbedder(ai.NewConfig(
		ai.WithEmbeddingHost(server.URL+"/v1"),
		ai.WithEmbeddingModel("test-embed"),
	))
	require.NoError(t, err)

	db := setupTestDB(t)
	ctx := context.Background()
	added := seedItems(t, db, 12)

	var buf bytes.Buffer
	reembedder, err := NewReembedder(db.items, db.vectors, db.checkpoints, embedder, testConfig(5), &buf)
	require.NoError(t, err)
	require.NoError(t, reembedder.Run(ctx))

	for _, item := range added {
		vec, err := db.vectors.GetVector(ctx, item.ID)
		require.NoError(t, err)
		require.Len(t, vec, 3)
		assert.InDelta(t, 1.0, vec[0], 0.0001)
	}

	output := buf.String()
	assert.Contains(t, output, "100.0%")
	assert.Contains(t, output, "Reembedding complete")
}

// TestIntegration_IdempotentReembedding tests that reembedding can be run multiple times
func TestIntegration_IdempotentReembedding(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	ctx := context.Background()
	added := seedItems(t, db, 10)

	run := func() []float32 {
		reembedder, err := NewReembedder(db.items, db.vectors, db.checkpoints, &mockEmbedder{}, testConfig(5), nil)
		require.NoError(t, err)
		require.NoError(t, reembedder.Run(ctx))
		vec, err := db.vectors.GetVector(ctx, added[0].ID)
		require.NoError(t, err)
		return vec
	}

	vec1 := run()
	vec2 := run()

	require.Equal(t, len(vec1), len(vec2))
	for i := range vec1 {
		assert.InDelta(t, vec1[i], vec2[i], 0.001, "vectors should be identical after re-embedding")
	}
}
