package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selector cascade for article bodies, most specific first. Stops at the
// first selector that yields enough paragraphs.
var contentSelectors = []string{
	"article p",
	".article-body p",
	".article-content p",
	".post-content p",
	".entry-content p",
	".content p",
	"main p",
	"#content p",
	"p",
}

var titleSelectors = []string{
	"h1",
	".article-title",
	".headline",
	".entry-title",
	"title",
}

// Lines containing these are navigation/consent junk, not article text.
var junkIndicators = []string{
	"cookie", "gdpr", "subscribe", "newsletter", "sign up", "sign in",
	"log in", "advertisement", "read more", "share this", "follow us",
	"click here", "privacy policy", "terms of service",
}

// parseGeneric extracts visible paragraph text from raw HTML. It is the
// fallback when structured extraction comes up short.
func parseGeneric(html string) (title, body string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", err
	}

	doc.Find("script, style, nav, header, footer, aside").Remove()

	var paragraphs []string
	for _, selector := range contentSelectors {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if len(text) > 20 && !isJunkLine(text) {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) >= 3 {
			break
		}
		paragraphs = paragraphs[:0]
	}

	// A thin page may still have one or two real paragraphs; rescan with
	// the broadest selector before giving up.
	if len(paragraphs) == 0 {
		doc.Find("p").Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if len(text) > 20 && !isJunkLine(text) {
				paragraphs = append(paragraphs, text)
			}
		})
	}

	return extractTitle(doc), cleanBody(strings.Join(paragraphs, "\n\n")), nil
}

func extractTitle(doc *goquery.Document) string {
	for _, selector := range titleSelectors {
		title := strings.TrimSpace(doc.Find(selector).First().Text())
		if title != "" {
			return title
		}
	}
	return ""
}

func isJunkLine(line string) bool {
	lower := strings.ToLower(line)
	for _, indicator := range junkIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// cleanBody collapses whitespace runs left over from markup.
func cleanBody(body string) string {
	lines := strings.Split(body, "\n")
	var kept []string
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n\n")
}
