package extract

// SplitChunks partitions sentences into ordered chunks whose joined
// length (single-space separators) stays within maxChunkChars. Sentences
// are accumulated greedily; when the next sentence would overflow the
// budget the current chunk is closed and a new one starts. A sentence
// that alone exceeds the budget becomes its own chunk: sentences are
// never dropped and never split. Concatenating the chunks' sentences in
// order reproduces the input sequence exactly.
func SplitChunks(sentences []string, maxChunkChars int) []string {
	var chunks []string
	current := ""
	for _, sentence := range sentences {
		switch {
		case current == "":
			current = sentence
		case len(current)+1+len(sentence) <= maxChunkChars:
			current += " " + sentence
		default:
			chunks = append(chunks, current)
			current = sentence
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}
