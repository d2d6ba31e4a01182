package query

import (
	"regexp"

	"github.com/poiesic/sift/core"
)

// MaxKeywords caps the number of keywords kept from a query.
const MaxKeywords = 10

type timeframePattern struct {
	timeframe core.Timeframe
	re        *regexp.Regexp
}

type contentTypePattern struct {
	contentType core.ContentType
	re          *regexp.Regexp
}

// Checked in order; the first match wins.
var timeframePatterns = []timeframePattern{
	{core.TimeframeToday, regexp.MustCompile(`\b(today|tonight|this morning)\b`)},
	{core.TimeframeYesterday, regexp.MustCompile(`\byesterday\b`)},
	{core.TimeframeWeek, regexp.MustCompile(`\b(this|last|past) week\b|\bweeks?\b`)},
	{core.TimeframeMonth, regexp.MustCompile(`\b(this|last|past) month\b|\bmonths?\b`)},
	{core.TimeframeYear, regexp.MustCompile(`\b(this|last|past) year\b|\byears?\b`)},
	{core.TimeframeRecent, regexp.MustCompile(`\b(recent|recently|lately|latest|newest)\b`)},
}

// Checked in order; the first match wins.
var contentTypePatterns = []contentTypePattern{
	{core.ContentTypeArticle, regexp.MustCompile(`\b(articles?|posts?|blogs?|blog posts?)\b`)},
	{core.ContentTypeVideo, regexp.MustCompile(`\b(videos?|clips?|youtube|recordings?)\b`)},
	{core.ContentTypeDocument, regexp.MustCompile(`\b(documents?|docs?|pdfs?|files?|papers?)\b`)},
	{core.ContentTypeImage, regexp.MustCompile(`\b(images?|photos?|pictures?|screenshots?)\b`)},
	{core.ContentTypeNote, regexp.MustCompile(`\bnotes?\b`)},
}

var (
	questionPattern    = regexp.MustCompile(`^(what|how|when|where|why|which|who)\b`)
	filterPattern      = regexp.MustCompile(`\bfilter|\bshow only\b`)
	punctuationPattern = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
)

// Stop words dropped during keyword extraction: interrogatives, articles,
// prepositions, pronouns and verbs people use to ask for things.
var stopWords = map[string]bool{
	// interrogatives
	"what": true, "how": true, "when": true, "where": true, "why": true,
	"which": true, "who": true, "whom": true, "whose": true,
	// articles and determiners
	"the": true, "an": true, "this": true, "that": true, "these": true,
	"those": true, "some": true, "any": true, "all": true,
	// prepositions and conjunctions
	"about": true, "for": true, "from": true, "with": true, "into": true,
	"onto": true, "over": true, "under": true, "between": true, "and": true,
	"but": true, "not": true, "out": true, "off": true, "than": true,
	// pronouns and auxiliaries
	"you": true, "your": true, "our": true, "mine": true, "his": true,
	"her": true, "its": true, "they": true, "them": true, "their": true,
	"did": true, "does": true, "was": true, "were": true, "are": true,
	"have": true, "has": true, "had": true, "can": true, "could": true,
	"would": true, "should": true, "will": true, "been": true,
	// query verbs
	"show": true, "find": true, "search": true, "get": true, "give": true,
	"list": true, "look": true, "looking": true, "display": true,
	"fetch": true, "save": true, "saved": true, "tell": true, "want": true,
	"need": true, "only": true, "filter": true,
}

var positiveCues = map[string]bool{
	"good": true, "great": true, "best": true, "love": true, "loved": true,
	"favorite": true, "favourite": true, "useful": true, "helpful": true,
	"awesome": true, "excellent": true, "amazing": true, "nice": true,
	"interesting": true, "inspiring": true,
}

var negativeCues = map[string]bool{
	"bad": true, "worst": true, "hate": true, "hated": true, "broken": true,
	"wrong": true, "useless": true, "boring": true, "terrible": true,
	"awful": true, "problem": true, "problems": true, "issue": true,
	"issues": true, "bug": true, "bugs": true, "error": true, "errors": true,
}
