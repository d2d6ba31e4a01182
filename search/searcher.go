package search

import (
	"log/slog"
	"sort"
	"time"

	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/query"
)

// Searcher ranks item collections against free-text queries.
// It holds no per-call state and is safe for concurrent use.
type Searcher struct {
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithClock sets the function used to resolve relative timeframes.
// Default is time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Searcher) error {
		if now == nil {
			return ErrClockRequired
		}
		s.now = now
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(opts ...Option) (*Searcher, error) {
	s := &Searcher{
		now:    time.Now,
		logger: slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Analyze exposes the query analyzer used by the searcher.
func (s *Searcher) Analyze(text string) core.QueryDescriptor {
	return query.Analyze(text)
}

// Search ranks items against the query. Items scoring zero are excluded and
// results are ordered by descending score; ties keep collection order.
func (s *Searcher) Search(text string, items []*core.Item) []*core.SearchResult {
	return s.SearchWithMonitor(text, items, 0, nil)
}

// SearchN is Search truncated to at most maxHits results. maxHits <= 0 means no limit.
func (s *Searcher) SearchN(text string, items []*core.Item, maxHits int) []*core.SearchResult {
	return s.SearchWithMonitor(text, items, maxHits, nil)
}

// SearchWithMonitor ranks items against the query with monitoring.
// The monitor receives callbacks at each stage of the search process.
func (s *Searcher) SearchWithMonitor(text string, items []*core.Item, maxHits int, monitor SearchMonitor) []*core.SearchResult {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(text)

	desc := query.Analyze(text)
	monitor.AfterAnalysis(desc)
	s.logger.Debug("analyzed query",
		"query", desc.Query,
		"intent", desc.Intent,
		"keywords", desc.Keywords,
		"timeframe", desc.Timeframe,
		"contentType", desc.ContentType,
		"confidence", desc.Confidence)

	now := s.now()
	results := make([]*core.SearchResult, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}

		score, reason := Score(item, &desc, now)
		if score == 0 {
			monitor.ItemExcluded(item)
			continue
		}
		monitor.ItemScored(item, score, reason)

		results = append(results, &core.SearchResult{
			Item:                   item,
			Score:                  score,
			Reason:                 reason,
			HighlightedTitle:       Highlight(item.Title, desc.Keywords),
			HighlightedDescription: Highlight(item.Description, desc.Keywords),
		})
	}

	// Sort by score descending
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if maxHits > 0 && len(results) > maxHits {
		results = results[:maxHits]
	}
	monitor.Finish(results)

	s.logger.Debug("search complete", "items", len(items), "results", len(results))
	return results
}
