// Package textrank implements graph-based extractive summarization:
// sentences become nodes, token overlap becomes edge weight, and a
// power-iteration ranking picks the most central sentences.
package textrank

import (
	"strings"
	"unicode"
)

// Sentence is one sentence of the source text with its normalized token set.
// Index is the 0-based position in the original document and never changes.
type Sentence struct {
	Index  int
	Text   string
	Tokens map[string]struct{}
}

// Common words that carry no topical signal for sentence similarity.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"if": true, "of": true, "at": true, "by": true, "for": true, "with": true,
	"about": true, "against": true, "to": true, "from": true, "in": true,
	"into": true, "on": true, "off": true, "out": true, "over": true,
	"under": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "have": true, "has": true,
	"had": true, "do": true, "does": true, "did": true, "it": true,
	"its": true, "this": true, "that": true, "these": true, "those": true,
	"as": true, "he": true, "she": true, "they": true, "we": true,
	"you": true, "his": true, "her": true, "their": true, "our": true,
	"your": true, "not": true, "no": true, "so": true, "than": true,
	"then": true, "there": true, "here": true, "what": true, "which": true,
	"who": true, "whom": true, "will": true, "would": true, "can": true,
	"could": true, "should": true, "may": true, "might": true, "must": true,
}

// SplitSentences splits body into sentences in original order. A sentence
// ends at '.', '!' or '?' followed by whitespace and an uppercase letter or
// digit, or at a line break. Empty or whitespace-only input yields nil.
func SplitSentences(body string) []Sentence {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}

	runes := []rune(body)
	var sentences []Sentence
	start := 0

	flush := func(end int) {
		text := strings.TrimSpace(string(runes[start:end]))
		if text != "" {
			sentences = append(sentences, Sentence{
				Index:  len(sentences),
				Text:   text,
				Tokens: Tokenize(text),
			})
		}
		start = end
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == '\n' {
			flush(i)
			start = i + 1
			continue
		}

		if r != '.' && r != '!' && r != '?' {
			continue
		}

		// Consume runs of terminators and closing quotes/brackets.
		j := i + 1
		for j < len(runes) && isTrailing(runes[j]) {
			j++
		}
		if j >= len(runes) {
			flush(len(runes))
			i = j
			continue
		}
		if !unicode.IsSpace(runes[j]) {
			continue // mid-token dot: "3.5", "example.com"
		}

		// Look at the first rune of the next candidate sentence. A
		// lowercase continuation usually means an abbreviation.
		k := j
		for k < len(runes) && unicode.IsSpace(runes[k]) {
			k++
		}
		if k >= len(runes) || unicode.IsUpper(runes[k]) || unicode.IsDigit(runes[k]) || runes[k] == '"' || runes[k] == '\'' {
			flush(j)
			i = j - 1
		}
	}

	if start < len(runes) {
		flush(len(runes))
	}

	return sentences
}

func isTrailing(r rune) bool {
	switch r {
	case '.', '!', '?', '"', '\'', ')', ']', '”', '’':
		return true
	}
	return false
}

// Tokenize produces the normalized token set of a sentence: lowercase,
// punctuation stripped, single-character tokens and stop words dropped.
func Tokenize(text string) map[string]struct{} {
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	tokens := make(map[string]struct{})
	for _, w := range strings.Fields(b.String()) {
		if len([]rune(w)) < 2 {
			continue
		}
		if stopWords[w] {
			continue
		}
		tokens[w] = struct{}{}
	}
	return tokens
}
