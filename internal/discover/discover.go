// Package discover collects candidate article links from publisher feeds.
// It replaces interactive link collection with the feed-based approach:
// each configured publisher URL is fetched as RSS/Atom and its entries
// become pipeline requests.
package discover

import (
	"context"
	"sort"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/Noice75/GoogleSheetAutomation/internal/logger"
	"github.com/Noice75/GoogleSheetAutomation/internal/settings"
)

// Candidate is one discovered article link with its settings context.
type Candidate struct {
	URL       string
	Title     string
	Category  string
	Publisher string
	Published time.Time
}

// Options bounds a discovery run.
type Options struct {
	MaxAge     time.Duration // drop entries older than this (0 = no limit)
	MaxPerFeed int           // cap per publisher feed (0 = no limit)
	MaxTotal   int           // cap across all feeds (0 = no limit)
}

// FromFeeds fetches every publisher feed and returns deduplicated
// candidates, newest first. A failing feed is logged and skipped, never
// fatal for the run.
func FromFeeds(ctx context.Context, feeds []settings.PublisherFeed, opts Options) []Candidate {
	parser := gofeed.NewParser()

	var all []Candidate
	okCount := 0
	for _, pf := range feeds {
		feed, err := parser.ParseURLWithContext(pf.URL, ctx)
		if err != nil {
			logger.Warn("feed fetch failed", "publisher", pf.Publisher, "url", pf.URL, "error", err)
			continue
		}
		okCount++
		all = append(all, candidatesFrom(feed, pf, opts)...)
	}
	logger.Info("feed discovery finished", "feeds_ok", okCount, "feeds_total", len(feeds), "candidates", len(all))

	return finalize(all, opts)
}

func candidatesFrom(feed *gofeed.Feed, pf settings.PublisherFeed, opts Options) []Candidate {
	var out []Candidate
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}

		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		if opts.MaxAge > 0 && !published.IsZero() && time.Since(published) > opts.MaxAge {
			continue
		}

		out = append(out, Candidate{
			URL:       item.Link,
			Title:     item.Title,
			Category:  pf.Category,
			Publisher: pf.Publisher,
			Published: published,
		})
		if opts.MaxPerFeed > 0 && len(out) >= opts.MaxPerFeed {
			break
		}
	}
	return out
}

// finalize deduplicates by URL (first occurrence wins), orders newest
// first with URL as the tiebreaker, and applies the total cap.
func finalize(all []Candidate, opts Options) []Candidate {
	seen := make(map[string]struct{}, len(all))
	deduped := all[:0]
	for _, c := range all {
		if _, dup := seen[c.URL]; dup {
			continue
		}
		seen[c.URL] = struct{}{}
		deduped = append(deduped, c)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		if !deduped[i].Published.Equal(deduped[j].Published) {
			return deduped[i].Published.After(deduped[j].Published)
		}
		return deduped[i].URL < deduped[j].URL
	})

	if opts.MaxTotal > 0 && len(deduped) > opts.MaxTotal {
		deduped = deduped[:opts.MaxTotal]
	}
	return deduped
}
