package sift

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/analysis"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/search"
	"github.com/poiesic/sift/similarity"
	"github.com/poiesic/sift/summary"
)

// Engine bundles the query, search, relationship and summary components.
// It is safe for concurrent use.
type Engine struct {
	searcher   *search.Searcher
	analyzer   *analysis.Analyzer
	summarizer *summary.Summarizer
	logger     *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	now      func() time.Time
	logger   *slog.Logger
	embedder ai.Embedder
	vectors  similarity.VectorSource
	timeout  time.Duration
}

// WithClock sets the function every component uses for "now".
// Default is time.Now.
func WithClock(now func() time.Time) EngineOption {
	return func(o *engineOptions) {
		o.now = now
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithEmbedder enables embedding-backed semantic similarity for related
// content and duplicate detection.
func WithEmbedder(embedder ai.Embedder) EngineOption {
	return func(o *engineOptions) {
		o.embedder = embedder
	}
}

// WithVectorSource supplies cached item vectors to the similarity engine.
func WithVectorSource(vectors similarity.VectorSource) EngineOption {
	return func(o *engineOptions) {
		o.vectors = vectors
	}
}

// WithEmbeddingTimeout bounds each embedding-backed comparison.
// Default is similarity.DefaultTimeout.
func WithEmbeddingTimeout(timeout time.Duration) EngineOption {
	return func(o *engineOptions) {
		o.timeout = timeout
	}
}

// NewEngine creates an engine.
func NewEngine(opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		now:     time.Now,
		logger:  slog.Default(),
		timeout: similarity.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	searcher, err := search.NewSearcher(
		search.WithClock(options.now),
		search.WithLogger(options.logger),
	)
	if err != nil {
		return nil, err
	}

	comparer, err := similarity.NewEngine(
		similarity.WithEmbedder(options.embedder),
		similarity.WithVectorSource(options.vectors),
		similarity.WithTimeout(options.timeout),
		similarity.WithLogger(options.logger),
	)
	if err != nil {
		return nil, err
	}

	analyzer, err := analysis.NewAnalyzer(
		analysis.WithComparer(comparer),
		analysis.WithClock(options.now),
		analysis.WithLogger(options.logger),
	)
	if err != nil {
		return nil, err
	}

	summarizer, err := summary.NewSummarizer(summary.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	return &Engine{
		searcher:   searcher,
		analyzer:   analyzer,
		summarizer: summarizer,
		logger:     options.logger.With("component", "engine"),
	}, nil
}

// AnalyzeQuery classifies a free-text query.
func (e *Engine) AnalyzeQuery(text string) core.QueryDescriptor {
	return e.searcher.Analyze(text)
}

// Search ranks items against the query, best first. Items scoring zero are
// left out.
func (e *Engine) Search(text string, items []*core.Item) []*core.SearchResult {
	return e.searcher.Search(text, items)
}

// SearchN is Search truncated to maxHits results; maxHits <= 0 means no limit.
func (e *Engine) SearchN(text string, items []*core.Item, maxHits int) []*core.SearchResult {
	return e.searcher.SearchN(text, items, maxHits)
}

// SearchWithMonitor is SearchN with callbacks at each stage.
func (e *Engine) SearchWithMonitor(text string, items []*core.Item, maxHits int, monitor search.SearchMonitor) []*core.SearchResult {
	return e.searcher.SearchWithMonitor(text, items, maxHits, monitor)
}

// RelatedContent returns up to analysis.MaxLinks links from item to others
// in items, strongest first.
func (e *Engine) RelatedContent(ctx context.Context, item *core.Item, items []*core.Item) []core.SimilarityLink {
	return e.analyzer.RelatedTo(ctx, item, items)
}

// DuplicateClusters groups near-duplicates of anchor found in items.
func (e *Engine) DuplicateClusters(ctx context.Context, anchor *core.Item, items []*core.Item) []*core.DuplicateCluster {
	return e.analyzer.FindDuplicates(ctx, anchor, items)
}

// Summarize builds an extractive summary of item. Unknown modes are
// treated as core.LengthMedium.
func (e *Engine) Summarize(item *core.Item, mode core.LengthMode, focus string) core.SummaryResult {
	return e.summarizer.Summarize(item, mode, focus)
}

// SuggestedQueries returns up to search.MaxSuggestions example queries
// built from the collection's most common tags.
func (e *Engine) SuggestedQueries(items []*core.Item) []string {
	return e.searcher.SuggestedQueries(items)
}
