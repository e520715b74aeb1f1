package audio

import (
	"regexp"
	"strings"
)

// sentencePattern matches one sentence including its terminal punctuation.
var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)

// ChunkText splits text into pieces of at most maxChars, breaking on
// sentence ends so no text is dropped at the provider's character limit.
// Text at or under the limit passes through as a single chunk. A single
// sentence longer than the limit is split at the limit.
func ChunkText(text string, maxChars int) []string {
	if maxChars <= 0 || len(text) <= maxChars {
		return []string{text}
	}

	sentences := sentencePattern.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{text}
	} else if consumed := len(strings.Join(sentences, "")); consumed < len(text) {
		// Trailing text without terminal punctuation.
		sentences = append(sentences, text[consumed:])
	}

	var chunks []string
	var chunk string
	flush := func() {
		if trimmed := strings.TrimSpace(chunk); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
		chunk = ""
	}

	for _, sentence := range sentences {
		for len(sentence) > maxChars {
			flush()
			chunks = append(chunks, strings.TrimSpace(sentence[:maxChars]))
			sentence = sentence[maxChars:]
		}
		if len(chunk)+len(sentence) > maxChars && len(chunk) > 0 {
			flush()
		}
		chunk += sentence
	}
	flush()

	if len(chunks) == 0 {
		return []string{text}
	}
	return chunks
}
