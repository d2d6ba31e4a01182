package similarity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/core"
	"github.com/sony/gobreaker"
)

const (
	// DefaultTimeout bounds each embedding-backed comparison.
	DefaultTimeout = 2 * time.Second

	// DefaultFailureThreshold is the number of consecutive embedder
	// failures that opens the breaker.
	DefaultFailureThreshold = 3

	// DefaultCooldown is how long an open breaker rejects embedder calls
	// before letting a trial request through.
	DefaultCooldown = 30 * time.Second
)

// VectorSource supplies cached item embeddings.
// Implementations return an error when no vector is stored for id.
type VectorSource interface {
	GetVector(ctx context.Context, id string) ([]float32, error)
}

// Engine compares items. Without an embedder it is equivalent to Compare.
// Engine is safe for concurrent use.
type Engine struct {
	embedder  ai.Embedder
	vectors   VectorSource
	timeout   time.Duration
	threshold uint32
	cooldown  time.Duration
	breaker   *gobreaker.CircuitBreaker
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithEmbedder enables the embedding-backed semantic signal.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(e *Engine) error {
		e.embedder = embedder
		return nil
	}
}

// WithVectorSource sets where cached item vectors are looked up before
// falling back to the embedder.
func WithVectorSource(vectors VectorSource) Option {
	return func(e *Engine) error {
		e.vectors = vectors
		return nil
	}
}

// WithTimeout bounds each embedding-backed comparison.
// Default is DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Engine) error {
		if timeout <= 0 {
			return ErrInvalidTimeout
		}
		e.timeout = timeout
		return nil
	}
}

// WithFailureThreshold sets how many consecutive embedder failures open the
// breaker. While open, comparisons use the lexical score without calling
// the embedder. Default is DefaultFailureThreshold.
func WithFailureThreshold(n uint32) Option {
	return func(e *Engine) error {
		if n == 0 {
			return ErrInvalidThreshold
		}
		e.threshold = n
		return nil
	}
}

// WithCooldown sets how long the breaker stays open.
// Default is DefaultCooldown.
func WithCooldown(cooldown time.Duration) Option {
	return func(e *Engine) error {
		if cooldown <= 0 {
			return ErrInvalidCooldown
		}
		e.cooldown = cooldown
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a similarity engine.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		timeout:   DefaultTimeout,
		threshold: DefaultFailureThreshold,
		cooldown:  DefaultCooldown,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	e.logger = e.logger.With("component", "similarity")
	if e.embedder != nil {
		e.breaker = e.newBreaker()
	}
	return e, nil
}

func (e *Engine) newBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "embedder",
		MaxRequests: 1,
		Timeout:     e.cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= e.threshold
		},
		IsSuccessful: func(err error) bool {
			// The caller giving up says nothing about the embedder.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.logger.Warn("embedding breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

// Compare computes all signals for a pair of items. When an embedder is
// configured the semantic signal is the cosine similarity of the items'
// embeddings; if that cannot be computed in time the lexical score is kept.
func (e *Engine) Compare(ctx context.Context, a, b *core.Item) Scores {
	s := Compare(a, b)
	if e.embedder == nil {
		return s
	}

	semantic, err := e.embeddingScore(ctx, a, b)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			e.logger.Debug("embedding breaker open, using lexical score", "a", a.ID, "b", b.ID)
		} else {
			e.logger.Warn("embedding similarity unavailable, using lexical score",
				"a", a.ID, "b", b.ID, "error", err)
		}
		return s
	}
	s.Semantic = semantic
	s.Overall = Overall(a, b, s)
	return s
}

func (e *Engine) embeddingScore(ctx context.Context, a, b *core.Item) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	va, err := e.vectorFor(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := e.vectorFor(ctx, b)
	if err != nil {
		return 0, err
	}
	cos, err := Cosine(va, vb)
	if err != nil {
		return 0, err
	}
	return clamp(cos), nil
}

func (e *Engine) vectorFor(ctx context.Context, item *core.Item) ([]float32, error) {
	cache := cacheFrom(ctx)
	if v, ok := cache.get(item); ok {
		return v, nil
	}
	if e.vectors != nil && item.ID != "" {
		if v, err := e.vectors.GetVector(ctx, item.ID); err == nil && len(v) > 0 {
			cache.put(item, v)
			return v, nil
		}
	}

	result, err := e.breaker.Execute(func() (interface{}, error) {
		v, err := e.embedder.EmbedText(ctx, item.Text())
		if err != nil {
			return nil, err
		}
		// Embedders do not always honor cancellation.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return v, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to embed item %q: %w", item.ID, err)
	}
	v := result.([]float32)
	cache.put(item, v)
	return v, nil
}
