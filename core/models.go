package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a 64-bit content fingerprint.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ContentType classifies what kind of thing an item is.
type ContentType string

const (
	ContentTypeNone     ContentType = ""
	ContentTypeArticle  ContentType = "article"
	ContentTypeVideo    ContentType = "video"
	ContentTypeDocument ContentType = "document"
	ContentTypeImage    ContentType = "image"
	ContentTypeNote     ContentType = "note"
)

// Tag is a label attached to an item. Names are unique within an item.
type Tag struct {
	Name string
}

// Item is a saved content record. Items are never mutated by the engine.
type Item struct {
	ID          string
	Title       string
	Description string
	URL         string // Optional source URL
	Tags        []Tag
	CreatedAt   time.Time
	ContentType ContentType // Optional classifier
}

// TagNames returns the item's tag names lowercased, in tag order.
func (i *Item) TagNames() []string {
	names := make([]string, 0, len(i.Tags))
	for _, tag := range i.Tags {
		names = append(names, strings.ToLower(tag.Name))
	}
	return names
}

// Text returns title and description joined by a single space.
func (i *Item) Text() string {
	if i.Description == "" {
		return i.Title
	}
	return i.Title + " " + i.Description
}

// Intent is the coarse classification of what a query is trying to do.
type Intent string

const (
	IntentSearch      Intent = "search"
	IntentQuestion    Intent = "question"
	IntentFilter      Intent = "filter"
	IntentTemporal    Intent = "temporal"
	IntentCategorical Intent = "categorical"
)

// Timeframe names a relative time window mentioned by a query.
type Timeframe string

const (
	TimeframeNone      Timeframe = ""
	TimeframeToday     Timeframe = "today"
	TimeframeYesterday Timeframe = "yesterday"
	TimeframeWeek      Timeframe = "week"
	TimeframeMonth     Timeframe = "month"
	TimeframeYear      Timeframe = "year"
	TimeframeRecent    Timeframe = "recent"
)

// Sentiment is the overall tone of a query.
type Sentiment string

const (
	SentimentNeutral  Sentiment = "neutral"
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
)

// QueryDescriptor is the structured interpretation of a free-text query.
// Descriptors are produced by the query analyzer, which guarantees that
// IntentTemporal implies a Timeframe and IntentCategorical implies a ContentType.
type QueryDescriptor struct {
	Query       string // Normalized (lowercased, trimmed) query text
	Intent      Intent
	Keywords    []string
	Timeframe   Timeframe
	ContentType ContentType
	Sentiment   Sentiment
	Confidence  float64 // In [0,1]
}

// HasTimeframe reports whether the query named a time window.
func (q *QueryDescriptor) HasTimeframe() bool {
	return q.Timeframe != TimeframeNone
}

// HasContentType reports whether the query named a content type.
func (q *QueryDescriptor) HasContentType() bool {
	return q.ContentType != ContentTypeNone
}

// SearchResult is a ranked search hit.
type SearchResult struct {
	Item                   *Item
	Score                  float64 // In (0,100]
	Reason                 string
	HighlightedTitle       string
	HighlightedDescription string
}

// LinkType identifies which similarity signal produced a link.
type LinkType string

const (
	LinkTypeSemantic  LinkType = "semantic"
	LinkTypeTemporal  LinkType = "temporal"
	LinkTypeTagBased  LinkType = "tag-based"
	LinkTypeURLDomain LinkType = "url-domain"
)

// SimilarityLink is a directed, typed relationship between two items.
type SimilarityLink struct {
	SourceID string
	TargetID string
	Score    float64 // In [0,1]
	Reason   string
	Type     LinkType
}

// DuplicateCluster groups items that are near-duplicates of each other.
type DuplicateCluster struct {
	ID         string
	Items      []*Item // At least two members
	Similarity float64
	Reason     string
	Primary    *Item // Canonical member
}

// LengthMode selects how much text a summary keeps.
type LengthMode string

const (
	LengthShort   LengthMode = "short"
	LengthMedium  LengthMode = "medium"
	LengthLong    LengthMode = "long"
	LengthBullets LengthMode = "bullets"
)

// SummaryResult is an extractive summary of one item.
type SummaryResult struct {
	Summary         string
	KeyPoints       []string
	ActionableItems []string
	Confidence      float64 // In [0,0.95]
	WordCount       int
}

// Checkpoint records how far a resumable batch job has progressed through
// the creation-date ordered item list.
type Checkpoint struct {
	Name          string
	LastCreatedAt time.Time
	LastID        string
	Processed     int
	UpdatedAt     time.Time
}
