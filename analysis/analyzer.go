package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/similarity"
)

// Comparer computes pairwise similarity. *similarity.Engine satisfies it.
type Comparer interface {
	Compare(ctx context.Context, a, b *core.Item) similarity.Scores
}

type lexicalComparer struct{}

func (lexicalComparer) Compare(_ context.Context, a, b *core.Item) similarity.Scores {
	return similarity.Compare(a, b)
}

// Analyzer links and clusters items. It holds no per-call state.
type Analyzer struct {
	comparer Comparer
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer) error

// WithComparer sets the similarity source.
// Default is the lexical similarity.Compare.
func WithComparer(comparer Comparer) Option {
	return func(a *Analyzer) error {
		if comparer == nil {
			return ErrComparerRequired
		}
		a.comparer = comparer
		return nil
	}
}

// WithClock sets the function used for recency calculations.
// Default is time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) error {
		if now == nil {
			return ErrClockRequired
		}
		a.now = now
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		comparer: lexicalComparer{},
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	a.logger = a.logger.With("component", "analysis")
	return a, nil
}

// sameItem reports whether a and b are the same record.
func sameItem(a, b *core.Item) bool {
	return a == b || (a.ID != "" && a.ID == b.ID)
}

// itemKey identifies an item within one run. Items without an ID are keyed
// by address.
func itemKey(item *core.Item) string {
	if item.ID != "" {
		return item.ID
	}
	return fmt.Sprintf("%p", item)
}
