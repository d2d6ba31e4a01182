package search

import (
	"regexp"
	"sort"
	"strings"
)

// Markers wrapped around highlighted keyword occurrences.
const (
	MarkOpen  = "<mark>"
	MarkClose = "</mark>"
)

var markedSpan = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(MarkOpen) + `.*?` + regexp.QuoteMeta(MarkClose))

// Highlight wraps every case-insensitive keyword occurrence in text with
// MarkOpen/MarkClose. Text already inside a marked span is left alone, so
// highlighting is idempotent for a given keyword set.
func Highlight(text string, keywords []string) string {
	re := keywordPattern(keywords)
	if re == nil || text == "" {
		return text
	}

	var sb strings.Builder
	last := 0
	for _, span := range markedSpan.FindAllStringIndex(text, -1) {
		sb.WriteString(wrapMatches(re, text[last:span[0]]))
		sb.WriteString(text[span[0]:span[1]])
		last = span[1]
	}
	sb.WriteString(wrapMatches(re, text[last:]))
	return sb.String()
}

func wrapMatches(re *regexp.Regexp, s string) string {
	if s == "" {
		return s
	}
	return re.ReplaceAllString(s, MarkOpen+"$0"+MarkClose)
}

// keywordPattern builds a single alternation, longest keyword first, so
// overlapping keywords never produce nested markers.
func keywordPattern(keywords []string) *regexp.Regexp {
	terms := make([]string, 0, len(keywords))
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		terms = append(terms, kw)
	}
	if len(terms) == 0 {
		return nil
	}
	sort.SliceStable(terms, func(i, j int) bool {
		return len(terms[i]) > len(terms[j])
	})
	for i, term := range terms {
		terms[i] = regexp.QuoteMeta(term)
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(terms, "|") + `)`)
}
