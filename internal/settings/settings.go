// Package settings holds the crawler settings file: for each category the
// relevance tags and the known publishers with their site or feed URLs.
package settings

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is one entry of the settings file.
//
// categories:
//
//	AI News:
//	  tags: ["ai governance", "ai policy"]
//	  publishers:
//	    BBC: https://www.bbc.com/news/technology
type Category struct {
	Tags       []string          `yaml:"tags"`
	Publishers map[string]string `yaml:"publishers"`
}

// Settings is the full settings file structure.
type Settings struct {
	Categories map[string]Category `yaml:"categories"`
}

// PublisherFeed is one publisher URL with its settings context attached.
type PublisherFeed struct {
	Publisher string
	Category  string
	URL       string
}

// Load reads settings from a YAML file. A missing file is not an error:
// it yields empty settings, same as an unknown category.
func Load(path string) (*Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{Categories: map[string]Category{}}, nil
		}
		return nil, err
	}
	defer f.Close()

	var s Settings
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if s.Categories == nil {
		s.Categories = map[string]Category{}
	}
	return &s, nil
}

// Tags returns the category -> tag list mapping consumed by the relevance
// checker. The returned map shares the underlying slices; callers treat it
// as read-only.
func (s *Settings) Tags() map[string][]string {
	out := make(map[string][]string, len(s.Categories))
	for name, cat := range s.Categories {
		out[name] = cat.Tags
	}
	return out
}

// PublisherFeeds lists every configured publisher URL in deterministic
// order (category, then publisher).
func (s *Settings) PublisherFeeds() []PublisherFeed {
	categories := make([]string, 0, len(s.Categories))
	for name := range s.Categories {
		categories = append(categories, name)
	}
	sort.Strings(categories)

	var feeds []PublisherFeed
	for _, catName := range categories {
		cat := s.Categories[catName]
		publishers := make([]string, 0, len(cat.Publishers))
		for name := range cat.Publishers {
			publishers = append(publishers, name)
		}
		sort.Strings(publishers)
		for _, pubName := range publishers {
			feeds = append(feeds, PublisherFeed{
				Publisher: pubName,
				Category:  catName,
				URL:       cat.Publishers[pubName],
			})
		}
	}
	return feeds
}

// IdentifyPublisher matches an article URL against the configured
// publishers by domain, then falls back to a lenient check for the
// publisher name appearing in the host. No match is not an error.
func (s *Settings) IdentifyPublisher(rawURL string) (publisher, category string, ok bool) {
	domain := hostOf(rawURL)
	if domain == "" {
		return "", "", false
	}

	for _, pf := range s.PublisherFeeds() {
		pubDomain := hostOf(pf.URL)
		if pubDomain == "" {
			continue
		}
		if domain == pubDomain ||
			strings.HasSuffix(domain, "."+pubDomain) ||
			strings.HasSuffix(pubDomain, "."+domain) {
			return pf.Publisher, pf.Category, true
		}
	}

	// Lenient pass: publisher name (or any of its words) inside the host.
	for _, pf := range s.PublisherFeeds() {
		name := strings.ToLower(pf.Publisher)
		if name != "" && strings.Contains(domain, name) {
			return pf.Publisher, pf.Category, true
		}
		for _, part := range strings.Fields(name) {
			if len(part) > 2 && strings.Contains(domain, part) {
				return pf.Publisher, pf.Category, true
			}
		}
	}

	return "", "", false
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	return host
}
