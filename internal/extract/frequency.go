package extract

import (
	"math"
	"regexp"
	"strings"
)

// wordPattern matches word tokens for frequency counting.
var wordPattern = regexp.MustCompile(`\w+`)

// defaultStopwords is the minimal English stopword set used when no
// override is configured.
var defaultStopwords = []string{
	"the", "and", "is", "in", "it", "of", "to", "a", "for", "on", "that",
	"this", "with", "as", "are", "was", "be", "by", "or", "an", "from",
	"at", "has", "have", "which", "we", "can", "not", "but", "will",
	"their", "they", "its", "these", "such", "also",
}

// Summarizer is the extractive summarizer. The zero value is not usable;
// construct one with NewSummarizer.
type Summarizer struct {
	stopwords map[string]struct{}
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithStopwords replaces the default stopword set. Words are lowercased
// before matching. An empty slice disables stopword filtering entirely.
func WithStopwords(words []string) Option {
	return func(s *Summarizer) {
		s.stopwords = make(map[string]struct{}, len(words))
		for _, w := range words {
			s.stopwords[strings.ToLower(w)] = struct{}{}
		}
	}
}

// NewSummarizer creates an extractive summarizer with the default
// stopword set unless overridden via options.
func NewSummarizer(opts ...Option) *Summarizer {
	s := &Summarizer{}
	WithStopwords(defaultStopwords)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildFrequencyTable builds a normalized term-weight table for text.
// Tokens are lowercased; stopwords and tokens of length <= 2 are
// excluded. Raw counts are divided by the maximum count observed, so
// every weight falls in (0, 1]. An empty table (no qualifying tokens)
// is a valid result, not an error.
func (s *Summarizer) BuildFrequencyTable(text string) map[string]float64 {
	counts := make(map[string]int)
	maxCount := 0
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if len(w) <= 2 {
			continue
		}
		if _, stop := s.stopwords[w]; stop {
			continue
		}
		counts[w]++
		if counts[w] > maxCount {
			maxCount = counts[w]
		}
	}

	table := make(map[string]float64, len(counts))
	for w, c := range counts {
		table[w] = float64(c) / float64(maxCount)
	}
	return table
}

// ScoreSentences scores every sentence of text by the sum of its words'
// frequency weights, discounted by log(wordCount+1)+1 to reduce
// long-sentence bias. Sentences with no scoring words score 0 and stay
// in the map. Returns nil when the document has no qualifying tokens.
func (s *Summarizer) ScoreSentences(text string) map[string]float64 {
	table := s.BuildFrequencyTable(text)
	if len(table) == 0 {
		return nil
	}

	scores := make(map[string]float64)
	for _, sentence := range Tokenize(text) {
		words := wordPattern.FindAllString(strings.ToLower(sentence), -1)
		sum := 0.0
		for _, w := range words {
			sum += table[w]
		}
		scores[sentence] = sum / (math.Log(float64(len(words))+1) + 1)
	}
	return scores
}
