package timeline

import "strings"

// mirrors the ASCII punctuation set transcripts carry on word boundaries
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// NormalizeWord prepares a transcribed word for vocabulary matching: trim
// surrounding whitespace, strip trailing punctuation, lowercase.
func NormalizeWord(w string) string {
	w = strings.TrimSpace(w)
	w = strings.TrimRight(w, punctuation)
	return strings.ToLower(w)
}

// FilterEvents keeps the words whose normalized form is in the vocabulary,
// preserving input order. Unknown words are dropped, not errors.
func FilterEvents(words []RawWord, vocab map[string]string) []KeywordEvent {
	var out []KeywordEvent
	for _, w := range words {
		n := NormalizeWord(w.Text)
		if _, ok := vocab[n]; ok {
			out = append(out, KeywordEvent{Keyword: n, Start: w.Start})
		}
	}
	return out
}
