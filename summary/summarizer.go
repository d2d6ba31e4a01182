package summary

import (
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/sift/core"
)

const (
	// MaxConfidence is the ceiling of SummaryResult.Confidence.
	MaxConfidence = 0.95
	// BaseConfidence is the confidence of an empty summary.
	BaseConfidence = 0.6

	minSentenceLength = 10
	bulletPrefix      = "• "
)

var (
	sentencePattern   = regexp.MustCompile(`[^.!?]+[.!?]*`)
	actionablePattern = regexp.MustCompile(`(?i)\b(should|must|need to|important to|consider|implement|use|try)\b`)
)

// plan is how much each length mode keeps.
type plan struct {
	sentences  int
	keyPoints  int
	actionable int
}

var plans = map[core.LengthMode]plan{
	core.LengthShort:   {sentences: 1, keyPoints: 3, actionable: 0},
	core.LengthMedium:  {sentences: 3, keyPoints: 5, actionable: 3},
	core.LengthLong:    {sentences: 6, keyPoints: 8, actionable: 5},
	core.LengthBullets: {sentences: 5, keyPoints: 6, actionable: 5},
}

// Summarizer builds extractive summaries. It holds no per-call state.
type Summarizer struct {
	logger *slog.Logger
}

// Option configures a Summarizer.
type Option func(*Summarizer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Summarizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSummarizer creates a summarizer.
func NewSummarizer(opts ...Option) (*Summarizer, error) {
	s := &Summarizer{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Summarize summarizes item. Unknown length modes are treated as medium.
// A non-empty focus moves sentences mentioning any of its words to the
// front of the summary; key points keep source order.
func (s *Summarizer) Summarize(item *core.Item, mode core.LengthMode, focus string) core.SummaryResult {
	if _, ok := plans[mode]; !ok {
		s.logger.Debug("unknown length mode, using medium", "mode", mode)
		mode = core.LengthMedium
	}
	return Summarize(item, mode, focus)
}

// Summarize is the stateless form of Summarizer.Summarize.
func Summarize(item *core.Item, mode core.LengthMode, focus string) core.SummaryResult {
	p, ok := plans[mode]
	if !ok {
		p = plans[core.LengthMedium]
		mode = core.LengthMedium
	}
	if item == nil {
		return core.SummaryResult{KeyPoints: []string{}, ActionableItems: []string{}, Confidence: BaseConfidence}
	}

	sentences := SourceSentences(item)
	wordCount := len(strings.Fields(SourceText(item)))

	chosen := take(prioritize(sentences, focus), p.sentences)
	var summary string
	if mode == core.LengthBullets {
		lines := make([]string, len(chosen))
		for i, sentence := range chosen {
			lines[i] = bulletPrefix + sentence
		}
		summary = strings.Join(lines, "\n")
	} else {
		summary = strings.Join(chosen, " ")
	}

	return core.SummaryResult{
		Summary:         summary,
		KeyPoints:       take(sentences, p.keyPoints),
		ActionableItems: take(Actionable(sentences), p.actionable),
		Confidence:      Confidence(wordCount),
		WordCount:       wordCount,
	}
}

// SourceText joins title and description with a single space.
func SourceText(item *core.Item) string {
	title := strings.TrimSpace(item.Title)
	description := strings.TrimSpace(item.Description)
	switch {
	case title == "":
		return description
	case description == "":
		return title
	}
	return title + " " + description
}

// SourceSentences returns the sentences of title followed by those of
// description. The title is split on its own so it never runs into the
// description, and its text is kept as written.
func SourceSentences(item *core.Item) []string {
	return append(Sentences(item.Title), Sentences(item.Description)...)
}

// Sentences splits text on '.', '!' and '?', keeping the terminators.
// Fragments of ten characters or fewer are dropped.
func Sentences(text string) []string {
	var sentences []string
	for _, match := range sentencePattern.FindAllString(text, -1) {
		sentence := strings.TrimSpace(match)
		body := strings.TrimSpace(strings.TrimRight(sentence, ".!?"))
		if utf8.RuneCountInString(body) <= minSentenceLength {
			continue
		}
		sentences = append(sentences, sentence)
	}
	return sentences
}

// Actionable returns the sentences containing an action cue.
func Actionable(sentences []string) []string {
	var out []string
	for _, sentence := range sentences {
		if actionablePattern.MatchString(sentence) {
			out = append(out, sentence)
		}
	}
	return out
}

// Confidence grows with input length and saturates at MaxConfidence.
func Confidence(wordCount int) float64 {
	return math.Min(MaxConfidence, BaseConfidence+float64(wordCount)/1000*0.3)
}

// prioritize stably moves sentences mentioning a focus word to the front.
func prioritize(sentences []string, focus string) []string {
	words := strings.Fields(strings.ToLower(focus))
	if len(words) == 0 {
		return sentences
	}
	matches := func(sentence string) bool {
		lower := strings.ToLower(sentence)
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	out := make([]string, len(sentences))
	copy(out, sentences)
	sort.SliceStable(out, func(i, j int) bool {
		return matches(out[i]) && !matches(out[j])
	})
	return out
}

func take(values []string, n int) []string {
	if len(values) > n {
		values = values[:n]
	}
	if values == nil {
		return []string{}
	}
	return values
}
