package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/similarity"
)

// MaxLinks caps the number of links returned by RelatedTo.
const MaxLinks = 10

// Per-signal thresholds. A signal must exceed its threshold to emit a link.
const (
	TagLinkThreshold      = 0.3
	SemanticLinkThreshold = 0.4
	TemporalLinkThreshold = 0.5
	URLLinkThreshold      = 0.7
)

// RelatedTo returns up to MaxLinks links from item to the other items,
// highest score first. Each signal is thresholded independently, so one
// pair may produce several links of different types.
func (a *Analyzer) RelatedTo(ctx context.Context, item *core.Item, items []*core.Item) []core.SimilarityLink {
	if item == nil {
		return nil
	}

	ctx = similarity.WithVectorCache(ctx)
	var links []core.SimilarityLink
	for _, other := range items {
		if other == nil || sameItem(item, other) {
			continue
		}
		s := a.comparer.Compare(ctx, item, other)
		links = append(links, pairLinks(item, other, s)...)
	}

	sort.SliceStable(links, func(i, j int) bool {
		return links[i].Score > links[j].Score
	})
	if len(links) > MaxLinks {
		links = links[:MaxLinks]
	}

	a.logger.Debug("related content", "item", item.ID, "candidates", len(items), "links", len(links))
	return links
}

func pairLinks(source, target *core.Item, s similarity.Scores) []core.SimilarityLink {
	link := func(score float64, t core.LinkType, reason string) core.SimilarityLink {
		return core.SimilarityLink{
			SourceID: source.ID,
			TargetID: target.ID,
			Score:    score,
			Reason:   reason,
			Type:     t,
		}
	}

	var links []core.SimilarityLink
	if s.Tag > TagLinkThreshold {
		links = append(links, link(s.Tag, core.LinkTypeTagBased, sharedTagsReason(source, target)))
	}
	if s.Semantic > SemanticLinkThreshold {
		links = append(links, link(s.Semantic, core.LinkTypeSemantic,
			fmt.Sprintf("Similar content (%.0f%% overlap)", s.Semantic*100)))
	}
	if s.Temporal > TemporalLinkThreshold {
		links = append(links, link(s.Temporal, core.LinkTypeTemporal, temporalReason(s.Temporal)))
	}
	if s.URL > URLLinkThreshold {
		links = append(links, link(s.URL, core.LinkTypeURLDomain, urlReason(source, s.URL)))
	}
	return links
}

func sharedTagsReason(a, b *core.Item) string {
	theirs := make(map[string]bool, len(b.Tags))
	for _, name := range b.TagNames() {
		theirs[name] = true
	}
	var shared []string
	for _, name := range a.TagNames() {
		if theirs[name] {
			shared = append(shared, name)
			delete(theirs, name)
		}
	}
	noun := "tags"
	if len(shared) == 1 {
		noun = "tag"
	}
	return fmt.Sprintf("Shares %d %s: %s", len(shared), noun, strings.Join(shared, ", "))
}

func temporalReason(score float64) string {
	if score >= 0.9 {
		return "Saved within a day of each other"
	}
	return "Saved within a week of each other"
}

func urlReason(source *core.Item, score float64) string {
	host := similarity.Hostname(source.URL)
	if score >= similarity.SameHostScore {
		return fmt.Sprintf("Same website (%s)", host)
	}
	return fmt.Sprintf("Same domain (%s)", similarity.RootDomain(host))
}
