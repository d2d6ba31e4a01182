package analysis

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/similarity"
)

// DuplicateThreshold is the overall similarity an item must exceed to be
// treated as a duplicate.
const DuplicateThreshold = 0.8

const nearlyIdenticalThreshold = 0.9

// Cluster reasons.
const (
	ReasonIdenticalTitles = "Identical titles"
	ReasonSameURL         = "Same URL"
	ReasonNearlyIdentical = "Nearly identical content"
	ReasonSimilar         = "Very similar content and tags"
)

// FindDuplicates groups near-duplicates of anchor found in items.
//
// Each candidate above DuplicateThreshold against the anchor starts a
// cluster. The remaining items are then absorbed if they exceed the
// threshold against the anchor or the most recently added member. Absorption
// is one hop only: earlier members are not revisited. An item appears in at
// most one cluster and every cluster contains the anchor.
func (a *Analyzer) FindDuplicates(ctx context.Context, anchor *core.Item, items []*core.Item) []*core.DuplicateCluster {
	if anchor == nil {
		return nil
	}

	ctx = similarity.WithVectorCache(ctx)
	now := a.now()
	processed := map[string]bool{itemKey(anchor): true}
	var clusters []*core.DuplicateCluster

	for _, candidate := range items {
		if candidate == nil || processed[itemKey(candidate)] || sameItem(anchor, candidate) {
			continue
		}
		first := a.comparer.Compare(ctx, anchor, candidate)
		if first.Overall <= DuplicateThreshold {
			continue
		}

		processed[itemKey(candidate)] = true
		members := []*core.Item{anchor, candidate}
		scores := []float64{first.Overall}
		last := candidate

		for _, other := range items {
			if other == nil || processed[itemKey(other)] || sameItem(anchor, other) {
				continue
			}
			toAnchor := a.comparer.Compare(ctx, anchor, other).Overall
			if toAnchor <= DuplicateThreshold && a.comparer.Compare(ctx, last, other).Overall <= DuplicateThreshold {
				continue
			}
			processed[itemKey(other)] = true
			members = append(members, other)
			scores = append(scores, toAnchor)
			last = other
		}

		clusters = append(clusters, &core.DuplicateCluster{
			ID:         clusterID(members),
			Items:      members,
			Similarity: mean(scores),
			Reason:     clusterReason(anchor, candidate, first.Overall),
			Primary:    primary(members, now),
		})
	}

	a.logger.Debug("duplicate detection", "anchor", anchor.ID, "candidates", len(items), "clusters", len(clusters))
	return clusters
}

func clusterReason(a, b *core.Item, overall float64) string {
	switch {
	case a.Title != "" && strings.EqualFold(a.Title, b.Title):
		return ReasonIdenticalTitles
	case a.URL != "" && a.URL == b.URL:
		return ReasonSameURL
	case overall > nearlyIdenticalThreshold:
		return ReasonNearlyIdentical
	}
	return ReasonSimilar
}

// PrimaryScore rates how good a representative item is: newer items, longer
// descriptions and more tags score higher.
func PrimaryScore(item *core.Item, now time.Time) float64 {
	days := math.Max(0, now.Sub(item.CreatedAt).Hours()/24)
	recency := math.Max(0, 10-days/10)
	detail := math.Min(10, float64(len(item.Description))/100)
	tags := math.Min(5, float64(len(item.Tags)))
	return recency + detail + tags
}

// primary returns the highest-scoring member; ties go to the earliest.
func primary(members []*core.Item, now time.Time) *core.Item {
	best := members[0]
	bestScore := PrimaryScore(best, now)
	for _, m := range members[1:] {
		if s := PrimaryScore(m, now); s > bestScore {
			best, bestScore = m, s
		}
	}
	return best
}

func clusterID(members []*core.Item) string {
	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = itemKey(m)
	}
	return fmt.Sprintf("dup-%016x", uint64(core.IDFromContent(strings.Join(keys, "\x00"))))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
