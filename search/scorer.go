package search

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/query"
)

// Signal weights.
const (
	TitleMatchScore       = 40
	DescriptionMatchScore = 25
	TagMatchScore         = 30
	URLMatchScore         = 10
	TimeframeMatchScore   = 20
	TemporalMissPenalty   = 30
	ContentTypeMatchScore = 15
	QuestionDetailScore   = 10
	MaxScore              = 100

	// Descriptions longer than this are assumed to answer questions.
	detailedDescriptionLength = 100

	generalMatchReason = "General content match"
)

// Contribution is one signal's effect on an item's running score.
// Reason is empty for contributions that should not be reported.
type Contribution struct {
	Delta  float64
	Reason string
}

// KeywordSignals evaluates every keyword against the item's title,
// description, tags and URL. A keyword may trigger several signals.
func KeywordSignals(item *core.Item, q *core.QueryDescriptor) []Contribution {
	title := strings.ToLower(item.Title)
	description := strings.ToLower(item.Description)
	url := strings.ToLower(item.URL)
	tags := item.TagNames()

	var out []Contribution
	for _, kw := range q.Keywords {
		if strings.Contains(title, kw) {
			out = append(out, Contribution{TitleMatchScore, fmt.Sprintf("Title matches %q", kw)})
		}
		if description != "" && strings.Contains(description, kw) {
			out = append(out, Contribution{DescriptionMatchScore, fmt.Sprintf("Description mentions %q", kw)})
		}
		for _, tag := range tags {
			if strings.Contains(tag, kw) {
				out = append(out, Contribution{TagMatchScore, fmt.Sprintf("Tagged with %q", tag)})
				break
			}
		}
		if url != "" && strings.Contains(url, kw) {
			out = append(out, Contribution{URLMatchScore, fmt.Sprintf("URL contains %q", kw)})
		}
	}
	return out
}

// TimeframeSignal rewards items inside the query's time window. Temporal
// queries penalize items outside it instead of merely not rewarding them.
func TimeframeSignal(item *core.Item, q *core.QueryDescriptor, now time.Time) (Contribution, bool) {
	window, ok := query.Window(q.Timeframe, now)
	if !ok {
		return Contribution{}, false
	}
	if window.Contains(item.CreatedAt) {
		return Contribution{TimeframeMatchScore, timeframeReason(q.Timeframe)}, true
	}
	if q.Intent == core.IntentTemporal {
		return Contribution{Delta: -TemporalMissPenalty}, true
	}
	return Contribution{}, false
}

// ContentTypeSignal rewards items whose classifier equals the query's content type.
func ContentTypeSignal(item *core.Item, q *core.QueryDescriptor) (Contribution, bool) {
	if !q.HasContentType() || item.ContentType != q.ContentType {
		return Contribution{}, false
	}
	return Contribution{ContentTypeMatchScore, fmt.Sprintf("Matches content type %q", string(q.ContentType))}, true
}

// QuestionSignal rewards detailed items when the query is a question.
func QuestionSignal(item *core.Item, q *core.QueryDescriptor) (Contribution, bool) {
	if q.Intent != core.IntentQuestion || len(item.Description) <= detailedDescriptionLength {
		return Contribution{}, false
	}
	return Contribution{QuestionDetailScore, "Detailed description may answer the question"}, true
}

// Score folds all signals for one item and applies the confidence
// adjustment. The result lies in [0, MaxScore].
func Score(item *core.Item, q *core.QueryDescriptor, now time.Time) (float64, string) {
	contributions := KeywordSignals(item, q)
	if c, ok := TimeframeSignal(item, q, now); ok {
		contributions = append(contributions, c)
	}
	if c, ok := ContentTypeSignal(item, q); ok {
		contributions = append(contributions, c)
	}
	if c, ok := QuestionSignal(item, q); ok {
		contributions = append(contributions, c)
	}

	var raw float64
	reasons := make([]string, 0, len(contributions))
	for _, c := range contributions {
		raw = math.Max(0, raw+c.Delta)
		if c.Reason != "" {
			reasons = append(reasons, c.Reason)
		}
	}

	score := math.Min(MaxScore, raw*q.Confidence)
	if score <= 0 {
		return 0, ""
	}
	if len(reasons) == 0 {
		return score, generalMatchReason
	}
	return score, strings.Join(reasons, ", ")
}

func timeframeReason(tf core.Timeframe) string {
	switch tf {
	case core.TimeframeToday:
		return "Saved today"
	case core.TimeframeYesterday:
		return "Saved yesterday"
	case core.TimeframeRecent:
		return "Saved recently"
	}
	return "Saved within the last " + string(tf)
}
