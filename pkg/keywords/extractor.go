// Package keywords ranks the salient words of free text by frequency.
package keywords

import (
	"sort"
	"strings"
)

const (
	// MaxKeywords caps the number of keywords returned by Extract.
	MaxKeywords = 20
	// MinLength is the exclusive lower bound on keyword length.
	MinLength = 3
)

//nolint:gochecknoglobals // Fixed vocabulary
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "this": true,
	"that": true, "are": true, "you": true, "your": true, "will": true,
	"have": true, "has": true, "had": true, "can": true, "could": true,
	"should": true, "we're": true, "were": true, "required": true,
	"looking": true,
}

// Extractor turns text into a ranked list of keywords.
type Extractor struct {
	limit int
}

// NewExtractor creates a keyword extractor returning at most MaxKeywords words.
func NewExtractor() (extractor *Extractor) {
	extractor = &Extractor{limit: MaxKeywords}
	return extractor
}

// IsStopWord reports whether a lower-cased word is filtered out as filler.
func IsStopWord(word string) (stop bool) {
	stop = stopWords[word]
	return stop
}

// Extract returns the most frequent words of text, most frequent first.
// Words of equal frequency keep the order in which they first appear.
func (e *Extractor) Extract(text string) (keywords []string) {
	keywords = []string{}
	if text == "" {
		return keywords
	}

	counts := make(map[string]int)
	var order []string
	for _, word := range strings.Fields(normalize(text)) {
		if len(word) <= MinLength || stopWords[word] {
			continue
		}
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	sort.SliceStable(order, func(i, j int) (less bool) {
		less = counts[order[i]] > counts[order[j]]
		return less
	})

	if len(order) > e.limit {
		order = order[:e.limit]
	}

	keywords = append(keywords, order...)
	return keywords
}

// normalize drops everything but ASCII letters, digits and whitespace, then lower-cases.
func normalize(text string) (cleaned string) {
	cleaned = strings.Map(func(r rune) (out rune) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = r
		case r >= 'A' && r <= 'Z':
			out = r + ('a' - 'A')
		case r == ' ', r == '\t', r == '\n', r == '\r', r == '\f', r == '\v':
			out = r
		default:
			out = -1
		}
		return out
	}, text)
	return cleaned
}
