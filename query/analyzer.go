package query

import (
	"strings"
	"unicode/utf8"

	"github.com/poiesic/sift/core"
)

// Confidence weights, in tenths so the sum stays exact.
const (
	keywordWeight       = 3
	timeframeWeight     = 2
	contentTypeWeight   = 2
	intentWeight        = 3
	defaultIntentWeight = 1
)

// Analyze parses free text into a query descriptor. It never fails.
func Analyze(text string) core.QueryDescriptor {
	q := strings.ToLower(strings.TrimSpace(text))

	desc := core.QueryDescriptor{
		Query:       q,
		Timeframe:   detectTimeframe(q),
		ContentType: detectContentType(q),
		Keywords:    ExtractKeywords(q),
		Sentiment:   detectSentiment(q),
	}
	desc.Intent = resolveIntent(q, desc.Timeframe, desc.ContentType)
	desc.Confidence = confidence(&desc)
	return desc
}

// IsQuestion reports whether the normalized query asks a question.
func IsQuestion(q string) bool {
	return questionPattern.MatchString(q) || strings.Contains(q, "?")
}

func detectTimeframe(q string) core.Timeframe {
	for _, p := range timeframePatterns {
		if p.re.MatchString(q) {
			return p.timeframe
		}
	}
	return core.TimeframeNone
}

func detectContentType(q string) core.ContentType {
	for _, p := range contentTypePatterns {
		if p.re.MatchString(q) {
			return p.contentType
		}
	}
	return core.ContentTypeNone
}

// ExtractKeywords strips punctuation, lowercases, and keeps up to MaxKeywords
// tokens longer than two characters that are not stop words, in query order.
func ExtractKeywords(text string) []string {
	cleaned := punctuationPattern.ReplaceAllString(strings.ToLower(text), "")
	keywords := make([]string, 0, MaxKeywords)
	for _, token := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(token) <= 2 || stopWords[token] {
			continue
		}
		keywords = append(keywords, token)
		if len(keywords) == MaxKeywords {
			break
		}
	}
	return keywords
}

// resolveIntent applies the priority question > temporal > categorical > filter > search.
func resolveIntent(q string, tf core.Timeframe, ct core.ContentType) core.Intent {
	switch {
	case IsQuestion(q):
		return core.IntentQuestion
	case tf != core.TimeframeNone:
		return core.IntentTemporal
	case ct != core.ContentTypeNone:
		return core.IntentCategorical
	case filterPattern.MatchString(q):
		return core.IntentFilter
	}
	return core.IntentSearch
}

func detectSentiment(q string) core.Sentiment {
	var positive, negative int
	for _, token := range strings.Fields(punctuationPattern.ReplaceAllString(q, " ")) {
		if positiveCues[token] {
			positive++
		}
		if negativeCues[token] {
			negative++
		}
	}
	switch {
	case positive > negative:
		return core.SentimentPositive
	case negative > positive:
		return core.SentimentNegative
	}
	return core.SentimentNeutral
}

func confidence(desc *core.QueryDescriptor) float64 {
	tenths := 0
	if len(desc.Keywords) > 0 {
		tenths += keywordWeight
	}
	if desc.HasTimeframe() {
		tenths += timeframeWeight
	}
	if desc.HasContentType() {
		tenths += contentTypeWeight
	}
	if desc.Intent != core.IntentSearch {
		tenths += intentWeight
	} else {
		tenths += defaultIntentWeight
	}
	if tenths > 10 {
		tenths = 10
	}
	return float64(tenths) / 10
}
