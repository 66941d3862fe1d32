// Package relevance decides whether article text matches a category's
// configured tag set.
package relevance

import "strings"

// Verdict is the relevance outcome for one article. MatchedTags keeps the
// tag set's original order and casing; every matching tag is listed, not
// just the first, so callers can display or audit the full match.
type Verdict struct {
	IsRelevant  bool     `json:"is_relevant"`
	MatchedTags []string `json:"matched_tags"`
}

// Check tests case-insensitive substring containment of each tag in body.
// The tag set (category -> tags) is supplied by the caller and never
// mutated. An unknown category is not an error: it simply matches nothing.
func Check(body, category string, tagSet map[string][]string) Verdict {
	tags := tagSet[category]
	if len(tags) == 0 || body == "" {
		return Verdict{MatchedTags: []string{}}
	}

	lower := strings.ToLower(body)

	matched := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		norm := strings.ToLower(strings.TrimSpace(tag))
		if norm == "" {
			continue
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		if strings.Contains(lower, norm) {
			matched = append(matched, tag)
			seen[norm] = struct{}{}
		}
	}

	return Verdict{
		IsRelevant:  len(matched) > 0,
		MatchedTags: matched,
	}
}
