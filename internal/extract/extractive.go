package extract

import (
	"sort"
	"strings"
)

// Summarize returns an extractive summary of text containing at most
// maxSentences sentences, each reproduced verbatim in original document
// order. The algorithm:
//
//   - empty or whitespace-only input returns ""
//   - when the document has maxSentences sentences or fewer, all of them
//     are joined in order without scoring
//   - otherwise sentences are ranked by frequency score; ties break in
//     first-seen document order so the selection is deterministic
//   - when the document has no scorable words at all, the first
//     maxSentences sentences are returned instead
//   - duplicate sentences collapse to one selection slot; the result is
//     padded with the earliest unselected sentences until maxSentences
//     is reached or the input is exhausted
//
// Summarize never fails and never blocks.
func (s *Summarizer) Summarize(text string, maxSentences int) string {
	if maxSentences <= 0 || strings.TrimSpace(text) == "" {
		return ""
	}

	sentences := Tokenize(text)
	if len(sentences) <= maxSentences {
		return strings.Join(sentences, " ")
	}

	scores := s.ScoreSentences(text)
	if len(scores) == 0 {
		// Degenerate document: nothing scorable, keep the opening.
		return strings.Join(sentences[:maxSentences], " ")
	}

	type candidate struct {
		sentence string
		score    float64
	}

	seen := make(map[string]struct{}, len(sentences))
	candidates := make([]candidate, 0, len(sentences))
	for _, sentence := range sentences {
		if _, dup := seen[sentence]; dup {
			continue
		}
		seen[sentence] = struct{}{}
		candidates = append(candidates, candidate{sentence, scores[sentence]})
	}

	// Stable sort over first-seen order gives deterministic tie-breaking.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	selected := make(map[string]struct{}, maxSentences)
	for i := 0; i < maxSentences && i < len(candidates); i++ {
		selected[candidates[i].sentence] = struct{}{}
	}

	ordered := make([]string, 0, maxSentences)
	used := make(map[string]struct{}, maxSentences)
	for _, sentence := range sentences {
		if _, ok := selected[sentence]; !ok {
			continue
		}
		if _, dup := used[sentence]; dup {
			continue
		}
		used[sentence] = struct{}{}
		ordered = append(ordered, sentence)
	}

	// Duplicate removal can leave fewer than maxSentences; pad with the
	// earliest sentences not yet in the result.
	for _, sentence := range sentences {
		if len(ordered) >= maxSentences {
			break
		}
		if _, dup := used[sentence]; dup {
			continue
		}
		used[sentence] = struct{}{}
		ordered = append(ordered, sentence)
	}

	if len(ordered) > maxSentences {
		ordered = ordered[:maxSentences]
	}
	return strings.Join(ordered, " ")
}
