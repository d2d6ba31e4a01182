package similarity

import (
	"math"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/poiesic/sift/core"
)

// Blend weights and short-circuit scores for Overall.
const (
	SemanticWeight = 0.5
	TagWeight      = 0.3
	URLWeight      = 0.2

	IdenticalTitleScore = 0.95
	IdenticalURLScore   = 0.9

	SameHostScore   = 1.0
	SameDomainScore = 0.8

	minWordLength = 4
)

// Scores holds every similarity signal for one pair of items.
type Scores struct {
	Tag      float64
	Semantic float64
	Temporal float64
	URL      float64
	Overall  float64
}

// Compare computes all lexical signals for a pair of items.
// It is symmetric in a and b.
func Compare(a, b *core.Item) Scores {
	s := Scores{
		Tag:      TagScore(a, b),
		Semantic: SemanticScore(a, b),
		Temporal: TemporalScore(a.CreatedAt, b.CreatedAt),
		URL:      URLScore(a.URL, b.URL),
	}
	s.Overall = Overall(a, b, s)
	return s
}

// TagScore is the Jaccard index of the items' lowercase tag names.
func TagScore(a, b *core.Item) float64 {
	return Jaccard(toSet(a.TagNames()), toSet(b.TagNames()))
}

// SemanticScore is the Jaccard index of the items' content words.
func SemanticScore(a, b *core.Item) float64 {
	return Jaccard(Words(a.Text()), Words(b.Text()))
}

// TemporalScore maps the day difference between two timestamps onto
// 0.9 (a day or less), 0.7 (a week), 0.5 (a month) or 0.1.
func TemporalScore(a, b time.Time) float64 {
	days := math.Abs(a.Sub(b).Hours()) / 24
	switch {
	case days <= 1:
		return 0.9
	case days <= 7:
		return 0.7
	case days <= 30:
		return 0.5
	}
	return 0.1
}

// URLScore compares hostnames. Missing or unparsable URLs score 0.
func URLScore(a, b string) float64 {
	hostA, hostB := Hostname(a), Hostname(b)
	if hostA == "" || hostB == "" {
		return 0
	}
	if hostA == hostB {
		return SameHostScore
	}
	rootA, rootB := RootDomain(hostA), RootDomain(hostB)
	if rootA != "" && rootA == rootB {
		return SameDomainScore
	}
	return 0
}

// Overall blends the semantic, tag and URL signals. Identical titles and
// identical URLs override the blend.
func Overall(a, b *core.Item, s Scores) float64 {
	if a.Title != "" && strings.EqualFold(a.Title, b.Title) {
		return IdenticalTitleScore
	}
	if a.URL != "" && a.URL == b.URL {
		return IdenticalURLScore
	}
	return clamp(SemanticWeight*s.Semantic + TagWeight*s.Tag + URLWeight*s.URL)
}

// Jaccard returns |a∩b| / |a∪b|, or 0 when the union is empty.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for word := range a {
		if _, ok := b[word]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Words returns the set of lowercase words longer than three characters.
// Words are split on anything that is not a letter or digit.
func Words(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if len([]rune(f)) >= minWordLength {
			set[f] = struct{}{}
		}
	}
	return set
}

// Hostname returns the lowercase host of rawURL, or "" if it has none.
func Hostname(rawURL string) string {
	if strings.TrimSpace(rawURL) == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// RootDomain returns the last two labels of host.
func RootDomain(host string) string {
	labels := strings.Split(strings.Trim(host, "."), ".")
	if len(labels) < 2 {
		return ""
	}
	return strings.Join(labels[len(labels)-2:], ".")
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
