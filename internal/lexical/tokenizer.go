package lexical

import "strings"

const minWordLen = 3

// Tokenize splits text into lowercase words, strips surrounding punctuation,
// and drops words shorter than three characters.
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.Trim(f, ".,;:!?\"'()[]{}<>-_/\\")
		if len(w) >= minWordLen {
			words = append(words, w)
		}
	}
	return words
}

// uniqueWords returns the set of distinct tokens in text.
func uniqueWords(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range Tokenize(text) {
		set[w] = struct{}{}
	}
	return set
}
