package search

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/poiesic/sift/core"
)

const (
	// MaxSuggestions caps the number of suggested queries.
	MaxSuggestions = 8

	topTagCount  = 5
	recentWindow = 7 * 24 * time.Hour
	recentQuery  = "What did I save this week?"
)

// One template per top-tag rank.
var tagTemplates = [topTagCount]string{
	"Show me everything about %s",
	"Latest %s articles",
	"What have I saved about %s?",
	"%s videos",
	"%s notes from this month",
}

var generalSuggestions = []string{
	"Show only videos",
	"Recent articles",
	"Documents from last month",
}

// TagCount is a tag name with the number of items carrying it.
type TagCount struct {
	Name  string
	Count int
}

// TopTags returns up to limit tag names ordered by frequency, ties broken
// alphabetically. Names are compared case-insensitively.
func TopTags(items []*core.Item, limit int) []TagCount {
	counts := make(map[string]int)
	for _, item := range items {
		if item == nil {
			continue
		}
		for _, name := range item.TagNames() {
			name = strings.TrimSpace(name)
			if name != "" {
				counts[name]++
			}
		}
	}

	tags := make([]TagCount, 0, len(counts))
	for name, count := range counts {
		tags = append(tags, TagCount{Name: name, Count: count})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Name < tags[j].Name
	})
	if limit >= 0 && len(tags) > limit {
		tags = tags[:limit]
	}
	return tags
}

// SuggestQueries builds up to MaxSuggestions example queries from the
// collection's most frequent tags and whether anything was saved recently.
// The output depends only on the tag histogram and item timestamps.
func SuggestQueries(items []*core.Item, now time.Time) []string {
	suggestions := make([]string, 0, MaxSuggestions)
	for i, tag := range TopTags(items, topTagCount) {
		suggestions = append(suggestions, fmt.Sprintf(tagTemplates[i], tag.Name))
	}
	if hasRecent(items, now) {
		suggestions = append(suggestions, recentQuery)
	}
	for _, s := range generalSuggestions {
		if len(suggestions) == MaxSuggestions {
			break
		}
		suggestions = append(suggestions, s)
	}
	return suggestions
}

// SuggestedQueries is SuggestQueries evaluated against the searcher's clock.
func (s *Searcher) SuggestedQueries(items []*core.Item) []string {
	return SuggestQueries(items, s.now())
}

func hasRecent(items []*core.Item, now time.Time) bool {
	cutoff := now.Add(-recentWindow)
	for _, item := range items {
		if item != nil && item.CreatedAt.After(cutoff) {
			return true
		}
	}
	return false
}
