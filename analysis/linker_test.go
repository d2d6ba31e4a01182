package analysis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/poiesic/sift/ai/mock"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/similarity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = 24 * time.Hour

func TestRelatedTo_AllSignals(t *testing.T) {
	a := newTestAnalyzer(t)
	source := newItem("a", "React Hooks Guide", "https://blog.x.com/a", 0, "react", "hooks")
	target := newItem("b", "React hooks tutorial", "https://www.x.com/b", 2*day, "hooks", "react")

	links := a.RelatedTo(context.Background(), source, []*core.Item{source, target})
	require.Len(t, links, 4)

	assert.Equal(t, core.LinkTypeTagBased, links[0].Type)
	assert.Equal(t, 1.0, links[0].Score)
	assert.Equal(t, "Shares 2 tags: react, hooks", links[0].Reason)

	assert.Equal(t, core.LinkTypeURLDomain, links[1].Type)
	assert.Equal(t, 0.8, links[1].Score)
	assert.Equal(t, "Same domain (x.com)", links[1].Reason)

	assert.Equal(t, core.LinkTypeTemporal, links[2].Type)
	assert.Equal(t, 0.7, links[2].Score)

	assert.Equal(t, core.LinkTypeSemantic, links[3].Type)
	assert.InDelta(t, 0.5, links[3].Score, 1e-9)
	assert.Equal(t, "Similar content (50% overlap)", links[3].Reason)

	for _, l := range links {
		assert.Equal(t, "a", l.SourceID)
		assert.Equal(t, "b", l.TargetID)
	}
}

func TestRelatedTo_NoLinks(t *testing.T) {
	a := newTestAnalyzer(t)
	source := newItem("a", "React Hooks Guide", "https://x.com/a", 0, "react")
	unrelated := newItem("b", "Sourdough starter", "https://bread.org/", 60*day, "baking")

	assert.Empty(t, a.RelatedTo(context.Background(), source, []*core.Item{unrelated}))
	assert.Empty(t, a.RelatedTo(context.Background(), source, nil))
	assert.Nil(t, a.RelatedTo(context.Background(), nil, []*core.Item{unrelated}))
}

func TestRelatedTo_SameHost(t *testing.T) {
	a := newTestAnalyzer(t)
	source := newItem("a", "One", "https://x.com/a", 0)
	target := newItem("b", "Two", "https://x.com/b", 90*day)

	links := a.RelatedTo(context.Background(), source, []*core.Item{target})
	require.Len(t, links, 1)
	assert.Equal(t, core.LinkTypeURLDomain, links[0].Type)
	assert.Equal(t, "Same website (x.com)", links[0].Reason)
}

func TestRelatedTo_OrderedAndCapped(t *testing.T) {
	a := newTestAnalyzer(t)
	source := newItem("src", "React Hooks Guide", "https://blog.x.com/a", 0, "react", "hooks")

	var items []*core.Item
	for i := 0; i < 6; i++ {
		items = append(items, newItem(fmt.Sprint(i), "React hooks tutorial", "https://www.x.com/b", time.Duration(i)*day, "react"))
	}

	links := a.RelatedTo(context.Background(), source, items)
	require.Len(t, links, MaxLinks)
	for i := 1; i < len(links); i++ {
		assert.GreaterOrEqual(t, links[i-1].Score, links[i].Score)
	}
}

func TestRelatedTo_MirroredPair(t *testing.T) {
	a := newTestAnalyzer(t)
	x := newItem("x", "React hooks", "", 0, "react", "hooks")
	y := newItem("y", "React hooks", "", 40*day, "react")

	xy := a.RelatedTo(context.Background(), x, []*core.Item{y})
	yx := a.RelatedTo(context.Background(), y, []*core.Item{x})
	assert.Equal(t, len(xy), len(yx))
	for i := range xy {
		assert.Equal(t, xy[i].Score, yx[i].Score)
		assert.Equal(t, xy[i].Type, yx[i].Type)
	}
}

func engineAnalyzer(t *testing.T, embedder *mock.MockEmbedder, opts ...similarity.Option) *Analyzer {
	t.Helper()
	engine, err := similarity.NewEngine(append([]similarity.Option{similarity.WithEmbedder(embedder)}, opts...)...)
	require.NoError(t, err)
	return newTestAnalyzer(t, WithComparer(engine))
}

func candidates(n int) []*core.Item {
	items := make([]*core.Item, n)
	for i := range items {
		items[i] = newItem(fmt.Sprintf("c%d", i), fmt.Sprintf("React hooks note %d", i), "", day, "react")
	}
	return items
}

func TestRelatedTo_EmbedsEachItemOnce(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	a := engineAnalyzer(t, embedder)
	source := newItem("src", "React hooks guide", "", 0, "react")

	links := a.RelatedTo(context.Background(), source, candidates(20))
	assert.NotEmpty(t, links)
	assert.Equal(t, 21, embedder.CallCount())
}

func TestRelatedTo_HangingEmbedderCostsAboutOneTimeout(t *testing.T) {
	const timeout = 50 * time.Millisecond
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, _ string) ([]float32, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	a := engineAnalyzer(t, embedder, similarity.WithTimeout(timeout))
	source := newItem("src", "React hooks guide", "", 0, "react")
	items := candidates(20)

	start := time.Now()
	links := a.RelatedTo(context.Background(), source, items)
	elapsed := time.Since(start)

	assert.LessOrEqual(t, embedder.CallCount(), similarity.DefaultFailureThreshold)
	assert.Less(t, elapsed, time.Duration(similarity.DefaultFailureThreshold+2)*timeout)
	// Tag overlap still links every candidate.
	assert.Len(t, links, MaxLinks)
}
