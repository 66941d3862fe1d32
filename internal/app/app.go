// Package app wires the crawler together: config, settings, link store,
// discovery and the processing pipeline. The cmd binary just calls Run.
package app

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Noice75/GoogleSheetAutomation/internal/config"
	"github.com/Noice75/GoogleSheetAutomation/internal/discover"
	"github.com/Noice75/GoogleSheetAutomation/internal/extractor"
	"github.com/Noice75/GoogleSheetAutomation/internal/logger"
	"github.com/Noice75/GoogleSheetAutomation/internal/metrics"
	"github.com/Noice75/GoogleSheetAutomation/internal/pipeline"
	"github.com/Noice75/GoogleSheetAutomation/internal/settings"
	"github.com/Noice75/GoogleSheetAutomation/internal/storage"
	"github.com/Noice75/GoogleSheetAutomation/internal/textrank"
)

// Run executes one crawl: collect URLs (flags or feed discovery), process
// them through the pipeline and report the results. Returns the process
// exit code.
func Run(args []string) int {
	fs := flag.NewFlagSet("newscrawler", flag.ContinueOnError)
	settingsPath := fs.String("settings", "", "path to the settings YAML (overrides SETTINGS_PATH)")
	category := fs.String("category", "", "category to check articles against")
	doDiscover := fs.Bool("discover", false, "discover article URLs from the configured publisher feeds")
	asJSON := fs.Bool("json", false, "print results as a JSON array instead of log lines")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return 1
	}
	if *settingsPath != "" {
		cfg.SettingsPath = *settingsPath
	}

	sets, err := settings.Load(cfg.SettingsPath)
	if err != nil {
		logger.Error("failed to load settings", "path", cfg.SettingsPath, "error", err)
		return 1
	}

	store := storage.NewLinkStore(cfg.ProcessedLinksPath, cfg.CacheTTLHours)
	if err := store.Load(); err != nil {
		logger.Warn("could not load processed links, starting empty", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reqs := collectRequests(ctx, fs.Args(), *category, *doDiscover, sets, store)
	if len(reqs) == 0 {
		logger.Info("nothing to process")
		return 0
	}

	ex := extractor.New(extractor.Config{
		MaxRetries:     cfg.MaxRetries,
		RequestTimeout: cfg.RequestTimeout,
		TotalBudget:    cfg.TotalBudget,
		MinBodyChars:   cfg.MinBodyChars,
	})
	proc := pipeline.New(ex, pipeline.Options{
		Concurrency:         cfg.CrawlConcurrency,
		SummaryRatio:        cfg.SummaryRatio,
		MinSummarySentences: cfg.MinSummarySentences,
		Rank: textrank.Options{
			Damping:       cfg.DampingFactor,
			Epsilon:       textrank.DefaultOptions().Epsilon,
			MaxIterations: textrank.DefaultOptions().MaxIterations,
		},
	})

	start := time.Now()
	results, batchErr := proc.ProcessBatch(ctx, reqs, sets.Tags())
	if batchErr != nil {
		logger.Warn("batch interrupted", "error", batchErr)
		metrics.Global.SetError(batchErr.Error())
	}

	for i, r := range results {
		if r.URL == "" {
			continue // never claimed before cancellation
		}
		store.MarkProcessed(r.URL, r.Category, reqs[i].Publisher, r.Verdict.IsRelevant)
	}
	if err := store.Save(); err != nil {
		logger.Error("failed to save processed links", "error", err)
	}

	if *asJSON {
		if err := printJSON(results); err != nil {
			logger.Error("failed to encode results", "error", err)
			return 1
		}
	} else {
		printSummary(results)
	}

	logRunSummary(results, time.Since(start))
	if batchErr != nil {
		return 1
	}
	return 0
}

// collectRequests builds the work list. Explicit URLs on the command line
// win; otherwise -discover pulls candidates from the publisher feeds.
// Already-processed links are skipped either way.
func collectRequests(ctx context.Context, urls []string, category string, doDiscover bool, sets *settings.Settings, store *storage.LinkStore) []pipeline.Request {
	var reqs []pipeline.Request

	if len(urls) > 0 {
		for _, u := range urls {
			if store.Seen(u) {
				logger.Debug("skipping already-processed url", "url", u)
				continue
			}
			cat := category
			publisher := ""
			if p, c, ok := sets.IdentifyPublisher(u); ok {
				publisher = p
				if cat == "" {
					cat = c
				}
			}
			reqs = append(reqs, pipeline.Request{URL: u, Category: cat, Publisher: publisher})
		}
		return reqs
	}

	if !doDiscover {
		return nil
	}

	feeds := sets.PublisherFeeds()
	if category != "" {
		filtered := feeds[:0]
		for _, f := range feeds {
			if f.Category == category {
				filtered = append(filtered, f)
			}
		}
		feeds = filtered
	}

	candidates := discover.FromFeeds(ctx, feeds, discover.Options{})
	for _, c := range candidates {
		if store.Seen(c.URL) {
			continue
		}
		reqs = append(reqs, pipeline.Request{URL: c.URL, Category: c.Category, Publisher: c.Publisher})
	}
	logger.Info("discovered articles", "feeds", len(feeds), "candidates", len(candidates), "new", len(reqs))
	return reqs
}

// printJSON emits one JSON object per line, so the output pipes cleanly
// into jq or line-oriented tooling.
func printJSON(results []pipeline.Result) error {
	enc := json.NewEncoder(os.Stdout)
	for _, r := range results {
		if r.URL == "" {
			continue
		}
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(results []pipeline.Result) {
	for _, r := range results {
		if r.URL == "" {
			continue
		}
		if r.Error != extractor.ErrNone {
			fmt.Printf("FAIL  %-10s %s (%s)\n", r.Error, r.URL, r.Category)
			continue
		}
		mark := " "
		if r.Verdict.IsRelevant {
			mark = "*"
		}
		fmt.Printf("%s %-40.40q %s\n", mark, r.Title, r.URL)
		if r.Summary != "" {
			fmt.Printf("      %s\n", r.Summary)
		}
	}
}

func logRunSummary(results []pipeline.Result, elapsed time.Duration) {
	var processed, failed, relevant int
	for _, r := range results {
		if r.URL == "" {
			continue
		}
		processed++
		if r.Error != extractor.ErrNone {
			failed++
		}
		if r.Verdict.IsRelevant {
			relevant++
		}
	}
	logger.Info("run complete",
		"processed", processed,
		"failed", failed,
		"relevant", relevant,
		"elapsed", elapsed.Round(time.Millisecond).String(),
	)
}
