// Package pipeline composes extraction, summarization and relevance
// checking into the per-article and batch operations callers consume.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/Noice75/GoogleSheetAutomation/internal/cache"
	"github.com/Noice75/GoogleSheetAutomation/internal/extractor"
	"github.com/Noice75/GoogleSheetAutomation/internal/logger"
	"github.com/Noice75/GoogleSheetAutomation/internal/metrics"
	"github.com/Noice75/GoogleSheetAutomation/internal/relevance"
	"github.com/Noice75/GoogleSheetAutomation/internal/textrank"
)

// Extractor is the extraction dependency; tests substitute a fake.
type Extractor interface {
	Extract(ctx context.Context, url string) extractor.Result
}

// Request identifies one article to process.
type Request struct {
	URL       string `json:"url"`
	Category  string `json:"category"`
	Publisher string `json:"publisher,omitempty"`
}

// Result is the structured outcome for one article. Extraction failures
// land here as an error kind with empty summary and a false verdict; they
// never abort a batch.
type Result struct {
	URL              string              `json:"url"`
	Category         string              `json:"category"`
	Publisher        string              `json:"publisher,omitempty"`
	Title            string              `json:"title"`
	Summary          string              `json:"summary"`
	Verdict          relevance.Verdict   `json:"verdict"`
	ExtractionMethod extractor.Method    `json:"extraction_method,omitempty"`
	RankConverged    bool                `json:"rank_converged"`
	Error            extractor.ErrorKind `json:"error,omitempty"`
}

// Options tunes one processor instance.
type Options struct {
	Concurrency         int
	SummaryRatio        float64
	MinSummarySentences int
	Rank                textrank.Options
	CacheTTL            time.Duration
}

// Processor runs article pipelines. It holds no per-article state, so one
// instance serves concurrent batches.
type Processor struct {
	ex    Extractor
	opts  Options
	cache *cache.Cache
}

// New creates a processor around the given extractor.
func New(ex Extractor, opts Options) *Processor {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.SummaryRatio <= 0 || opts.SummaryRatio > 1 {
		opts.SummaryRatio = 0.2
	}
	if opts.MinSummarySentences < 1 {
		opts.MinSummarySentences = 3
	}
	if opts.Rank == (textrank.Options{}) {
		opts.Rank = textrank.DefaultOptions()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 24 * time.Hour
	}
	return &Processor{
		ex:    ex,
		opts:  opts,
		cache: cache.New(),
	}
}

// ProcessArticle runs the full pipeline for one URL: extract, summarize,
// check relevance against the category's tags.
func (p *Processor) ProcessArticle(ctx context.Context, url, category string, tagSet map[string][]string) Result {
	start := time.Now()
	defer func() {
		metrics.Global.RecordProcessingTime(time.Since(start))
	}()
	metrics.Global.IncrementArticlesProcessed()

	res := Result{URL: url, Category: category, RankConverged: true}

	ext := p.cachedExtract(ctx, url)
	res.ExtractionMethod = ext.Method
	if !ext.Success {
		res.Error = ext.Error
		res.Verdict = relevance.Verdict{MatchedTags: []string{}}
		metrics.Global.IncrementFailedExtractions()
		logger.Warn("extraction failed", "url", url, "error", string(ext.Error))
		return res
	}

	switch ext.Method {
	case extractor.MethodPrimary:
		metrics.Global.IncrementPrimaryExtractions()
	case extractor.MethodFallback:
		metrics.Global.IncrementFallbackExtractions()
	}

	res.Title = ext.Title

	sentences := textrank.SplitSentences(ext.Body)
	if len(sentences) == 0 {
		// Extraction nominally succeeded but the text is unusable.
		res.Error = extractor.ErrEmptyBody
		res.Verdict = relevance.Verdict{MatchedTags: []string{}}
		return res
	}

	rank := textrank.Rank(textrank.BuildGraph(sentences), p.opts.Rank)
	if !rank.Converged {
		res.RankConverged = false
		logger.Warn("ranking hit iteration cap", "url", url, "iterations", rank.Iterations)
	}
	target := textrank.TargetCount(len(sentences), p.opts.SummaryRatio, p.opts.MinSummarySentences)
	res.Summary = textrank.Summarize(sentences, rank.Scores, target)

	res.Verdict = relevance.Check(ext.Body, category, tagSet)
	if res.Verdict.IsRelevant {
		metrics.Global.IncrementRelevantArticles()
	} else {
		metrics.Global.IncrementIrrelevantArticles()
	}

	return res
}

// ProcessBatch processes requests on a bounded worker pool. Results come
// back in input order regardless of completion order. On cancellation the
// partial results and the context error are returned; items not yet
// claimed stay unprocessed.
func (p *Processor) ProcessBatch(ctx context.Context, reqs []Request, tagSet map[string][]string) ([]Result, error) {
	results := make([]Result, len(reqs))
	if len(reqs) == 0 {
		return results, nil
	}

	workers := p.opts.Concurrency
	if workers > len(reqs) {
		workers = len(reqs)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				req := reqs[idx]
				r := p.ProcessArticle(ctx, req.URL, req.Category, tagSet)
				r.Publisher = req.Publisher
				results[idx] = r
			}
		}()
	}

	var batchErr error
feed:
	for i := range reqs {
		select {
		case <-ctx.Done():
			// Cooperative cancellation between articles, never
			// mid-extraction.
			batchErr = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	metrics.Global.SetLastRun()
	return results, batchErr
}

// cachedExtract reuses a successful extraction for repeated URLs within
// the cache TTL, so one batch hits each page at most once.
func (p *Processor) cachedExtract(ctx context.Context, url string) extractor.Result {
	key := p.cache.KeyForURL(url)
	if v, ok := p.cache.Get(key); ok {
		if cached, ok := v.(extractor.Result); ok {
			logger.Debug("extraction cache hit", "url", url)
			return cached
		}
	}

	res := p.ex.Extract(ctx, url)
	if res.Success {
		p.cache.Set(key, res, p.opts.CacheTTL)
	}
	return res
}
