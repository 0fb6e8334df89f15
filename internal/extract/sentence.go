// Package extract implements the offline summarization tier: sentence
// tokenization, word-frequency scoring, extractive sentence selection,
// and character-budgeted chunking. Everything in this package is pure,
// deterministic, and dependency-free so it keeps working when the
// abstractive engine is absent or unreachable.
package extract

import "strings"

// Tokenize splits text into an ordered sequence of sentences using
// punctuation heuristics: a sentence ends at '.', '?' or '!' that is
// immediately followed by whitespace. Results are trimmed and empty
// entries are dropped. The function is total and has no failure mode.
func Tokenize(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		if !isTerminator(text[i]) {
			continue
		}
		if i+1 >= len(text) || !isSpace(text[i+1]) {
			continue
		}
		if s := strings.TrimSpace(text[start : i+1]); s != "" {
			sentences = append(sentences, s)
		}
		j := i + 1
		for j < len(text) && isSpace(text[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isTerminator(c byte) bool {
	return c == '.' || c == '?' || c == '!'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
