// Package extractor fetches article pages and extracts title and body
// text. A structured readability parse is tried first; a generic
// paragraph harvest over the raw HTML is the fallback.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/Noice75/GoogleSheetAutomation/internal/logger"
	"github.com/Noice75/GoogleSheetAutomation/internal/retry"
)

// Method identifies which extraction strategy produced the result.
type Method string

const (
	MethodPrimary  Method = "primary"
	MethodFallback Method = "fallback"
)

// ErrorKind classifies extraction failures for callers that persist
// per-item outcomes.
type ErrorKind string

const (
	ErrNone              ErrorKind = ""
	ErrExtractionFailed  ErrorKind = "EXTRACTION_FAILED"
	ErrExtractionTimeout ErrorKind = "EXTRACTION_TIMEOUT"
	ErrMalformedURL      ErrorKind = "MALFORMED_URL"
	ErrEmptyBody         ErrorKind = "EMPTY_BODY"
)

// Result is the outcome of one extraction attempt. Failures are results,
// not panics or bare errors, so batch callers can continue past bad URLs.
type Result struct {
	Title   string
	Body    string
	Method  Method
	Success bool
	Error   ErrorKind
}

// Config carries the network and threshold knobs.
type Config struct {
	MaxRetries     int           // transient-failure retries per fetch
	RequestTimeout time.Duration // per-request limit
	TotalBudget    time.Duration // hard wall-clock cap per URL
	MinBodyChars   int           // bodies below this are unusable
	RetryDelay     time.Duration // initial backoff step
}

// Extractor is safe for concurrent use; the only mutable state is the
// rotating user-agent cursor behind its own lock.
type Extractor struct {
	client *http.Client
	cfg    Config
	agents *agentPool
}

// New creates an extractor with a default HTTP client.
func New(cfg Config) *Extractor {
	applyDefaults(&cfg)
	return NewWithClient(cfg, &http.Client{Timeout: cfg.RequestTimeout})
}

// NewWithClient creates an extractor with an injected HTTP client, which
// lets tests drive the state machine through a fake transport.
func NewWithClient(cfg Config, client *http.Client) *Extractor {
	applyDefaults(&cfg)
	return &Extractor{
		client: client,
		cfg:    cfg,
		agents: newAgentPool(),
	}
}

func applyDefaults(cfg *Config) {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.TotalBudget <= 0 {
		cfg.TotalBudget = 30 * time.Second
	}
	if cfg.MinBodyChars <= 0 {
		cfg.MinBodyChars = 200
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
}

// Extract runs the two-strategy state machine for one URL.
func (e *Extractor) Extract(ctx context.Context, rawURL string) Result {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return Result{Error: ErrMalformedURL}
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.TotalBudget)
	defer cancel()

	// PRIMARY: fetch with retry, then structured readability parse.
	html, fetchErr := e.fetch(ctx, rawURL)
	if fetchErr == nil {
		if article, err := readability.FromReader(strings.NewReader(html), parsed); err == nil {
			title := strings.TrimSpace(article.Title)
			body := strings.TrimSpace(article.TextContent)
			if title != "" && len(body) >= e.cfg.MinBodyChars {
				return Result{Title: title, Body: body, Method: MethodPrimary, Success: true}
			}
			logger.Debug("primary extraction below threshold", "url", rawURL, "body_chars", len(body))
		} else {
			logger.Debug("readability parse failed", "url", rawURL, "error", err)
		}
	} else {
		logger.Debug("primary fetch failed", "url", rawURL, "error", fetchErr)
	}

	if kind, timedOut := timeoutKind(ctx); timedOut {
		return Result{Error: kind}
	}

	// FALLBACK: one more fetch with a fresh request identity, generic
	// paragraph harvest.
	title, body, fbErr := e.fallback(ctx, rawURL, html)
	if fbErr == nil && len(body) >= e.cfg.MinBodyChars {
		return Result{Title: title, Body: body, Method: MethodFallback, Success: true}
	}

	if kind, timedOut := timeoutKind(ctx); timedOut {
		return Result{Error: kind}
	}

	return Result{Method: MethodFallback, Error: ErrExtractionFailed}
}

// fetch downloads the page HTML, retrying transient failures with backoff.
// 4xx statuses and bad requests are permanent and fail immediately.
func (e *Extractor) fetch(ctx context.Context, rawURL string) (string, error) {
	var html string

	cfg := retry.RetryConfig{
		MaxAttempts: e.cfg.MaxRetries + 1,
		Delay:       e.cfg.RetryDelay,
		Backoff:     true,
	}

	err := retry.WithRetry(ctx, cfg, func() error {
		reqCtx, cancel := context.WithTimeout(ctx, e.cfg.RequestTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("User-Agent", e.agents.next())
		req.Header.Set("Accept", "text/html,application/xhtml+xml")

		resp, err := e.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				// Budget exhausted, further attempts are pointless.
				return retry.Permanent(ctx.Err())
			}
			return err // timeout, connection reset: transient
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("HTTP error: %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return retry.Permanent(fmt.Errorf("HTTP error: %d", resp.StatusCode))
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
		if err != nil {
			return err
		}
		html = string(data)
		return nil
	})

	return html, err
}

// fallback fetches the page once more with a rotated identity and parses
// visible paragraph text. When the extra fetch fails but the primary fetch
// already produced HTML, that HTML is reused.
func (e *Extractor) fallback(ctx context.Context, rawURL, primaryHTML string) (title, body string, err error) {
	html, fetchErr := e.fetchOnce(ctx, rawURL)
	if fetchErr != nil {
		if primaryHTML == "" {
			return "", "", fetchErr
		}
		html = primaryHTML
	}
	return parseGeneric(html)
}

func (e *Extractor) fetchOnce(ctx context.Context, rawURL string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, e.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", e.agents.next())
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func timeoutKind(ctx context.Context) (ErrorKind, bool) {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrExtractionTimeout, true
	}
	return ErrNone, false
}
