package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/similarity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newTestAnalyzer(t *testing.T, opts ...Option) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(append([]Option{WithClock(fixedClock)}, opts...)...)
	require.NoError(t, err)
	return a
}

func newItem(id, title, url string, age time.Duration, tags ...string) *core.Item {
	it := &core.Item{ID: id, Title: title, URL: url, CreatedAt: testNow.Add(-age)}
	for _, tag := range tags {
		it.Tags = append(it.Tags, core.Tag{Name: tag})
	}
	return it
}

// pairComparer returns fixed overall scores keyed by unordered ID pairs.
type pairComparer map[[2]string]float64

func (p pairComparer) set(a, b string, v float64) {
	p[[2]string{a, b}] = v
	p[[2]string{b, a}] = v
}

func (p pairComparer) Compare(_ context.Context, a, b *core.Item) similarity.Scores {
	return similarity.Scores{Overall: p[[2]string{a.ID, b.ID}]}
}

func TestNewAnalyzer(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		a, err := NewAnalyzer()
		require.NoError(t, err)
		assert.NotNil(t, a.comparer)
	})

	t.Run("nil comparer", func(t *testing.T) {
		_, err := NewAnalyzer(WithComparer(nil))
		assert.ErrorIs(t, err, ErrComparerRequired)
	})

	t.Run("nil clock", func(t *testing.T) {
		_, err := NewAnalyzer(WithClock(nil))
		assert.ErrorIs(t, err, ErrClockRequired)
	})

	t.Run("similarity engine as comparer", func(t *testing.T) {
		engine, err := similarity.NewEngine()
		require.NoError(t, err)
		_, err = NewAnalyzer(WithComparer(engine))
		require.NoError(t, err)
	})
}
