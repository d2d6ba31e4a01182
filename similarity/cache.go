package similarity

import (
	"context"
	"sync"

	"github.com/poiesic/sift/core"
)

type cacheKey struct{}

// vectorCache memoizes item vectors for the lifetime of one context.
type vectorCache struct {
	mu      sync.Mutex
	vectors map[string][]float32
}

// WithVectorCache returns a context under which Engine.Compare embeds each
// item at most once. Use it around a batch of comparisons over the same
// items; ctx is returned unchanged if it already carries a cache.
func WithVectorCache(ctx context.Context) context.Context {
	if cacheFrom(ctx) != nil {
		return ctx
	}
	return context.WithValue(ctx, cacheKey{}, &vectorCache{vectors: make(map[string][]float32)})
}

func cacheFrom(ctx context.Context) *vectorCache {
	c, _ := ctx.Value(cacheKey{}).(*vectorCache)
	return c
}

func vectorKey(item *core.Item) string {
	if item.ID != "" {
		return "id:" + item.ID
	}
	return "text:" + item.Text()
}

// get and put are no-ops on a nil cache.
func (c *vectorCache) get(item *core.Item) ([]float32, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.vectors[vectorKey(item)]
	return v, ok
}

func (c *vectorCache) put(item *core.Item, v []float32) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vectors[vectorKey(item)] = v
}
