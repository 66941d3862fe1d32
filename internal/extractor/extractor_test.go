package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeTransport scripts HTTP responses per call so the primary/fallback
// state machine can be driven without network access.
type fakeTransport struct {
	mu      sync.Mutex
	calls   int
	handler func(call int, req *http.Request) (*http.Response, error)
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()
	return f.handler(call, req)
}

func (f *fakeTransport) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func htmlResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
	}
}

var richArticle = `<!DOCTYPE html>
<html><head><title>Council Approves New Transit Plan</title></head>
<body>
<article>
<h1>Council Approves New Transit Plan</h1>
<p>The city council voted on Tuesday to approve a sweeping new transit plan, committing funds to bus corridors, cycling infrastructure, and station upgrades over the coming decade.</p>
<p>Supporters argued that the plan, debated for more than two years, would finally connect underserved neighborhoods to the city center and reduce commute times for thousands of residents.</p>
<p>Opponents raised concerns about the projected costs, noting that similar programs in neighboring regions had overrun their budgets and delivered fewer improvements than promised.</p>
<p>The transportation department said construction on the first corridor would begin next spring, with community consultations scheduled throughout the winter months.</p>
<p>Local business associations offered cautious support, asking for guarantees that street closures would be staggered to limit disruption during the construction period.</p>
<p>An independent review of the plan, commissioned by the council, estimated that ridership could grow by a third within five years if the schedule holds.</p>
</article>
</body></html>`

const thinPage = `<html><head><title>Stub</title></head><body><p>Too short.</p></body></html>`

func testConfig() Config {
	return Config{
		MaxRetries:     2,
		RequestTimeout: time.Second,
		TotalBudget:    5 * time.Second,
		MinBodyChars:   200,
		RetryDelay:     time.Millisecond,
	}
}

func newTestExtractor(cfg Config, ft *fakeTransport) *Extractor {
	return NewWithClient(cfg, &http.Client{Transport: ft})
}

func TestExtract_PrimarySuccess(t *testing.T) {
	ft := &fakeTransport{handler: func(call int, req *http.Request) (*http.Response, error) {
		return htmlResponse(200, richArticle), nil
	}}
	e := newTestExtractor(testConfig(), ft)

	res := e.Extract(context.Background(), "https://example.com/story")
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.Method != MethodPrimary {
		t.Errorf("expected primary method, got %q", res.Method)
	}
	if res.Title == "" {
		t.Error("expected a title")
	}
	if len(res.Body) < 200 {
		t.Errorf("expected substantial body, got %d chars", len(res.Body))
	}
	if ft.callCount() != 1 {
		t.Errorf("expected a single fetch, got %d", ft.callCount())
	}
}

func TestExtract_ThinPrimaryFallsBack(t *testing.T) {
	ft := &fakeTransport{handler: func(call int, req *http.Request) (*http.Response, error) {
		if call == 1 {
			return htmlResponse(200, thinPage), nil
		}
		return htmlResponse(200, richArticle), nil
	}}
	e := newTestExtractor(testConfig(), ft)

	res := e.Extract(context.Background(), "https://example.com/story")
	if !res.Success {
		t.Fatalf("expected fallback success, got error %q", res.Error)
	}
	if res.Method != MethodFallback {
		t.Errorf("expected fallback method, got %q", res.Method)
	}
	if len(res.Body) < 200 {
		t.Errorf("fallback body too short: %d chars", len(res.Body))
	}
}

func TestExtract_BothStrategiesThin(t *testing.T) {
	ft := &fakeTransport{handler: func(call int, req *http.Request) (*http.Response, error) {
		return htmlResponse(200, thinPage), nil
	}}
	e := newTestExtractor(testConfig(), ft)

	res := e.Extract(context.Background(), "https://example.com/story")
	if res.Success {
		t.Fatal("expected failure when both strategies yield thin text")
	}
	if res.Error != ErrExtractionFailed {
		t.Errorf("expected %q, got %q", ErrExtractionFailed, res.Error)
	}
}

func TestExtract_NotFoundIsNotRetried(t *testing.T) {
	ft := &fakeTransport{handler: func(call int, req *http.Request) (*http.Response, error) {
		return htmlResponse(404, "not found"), nil
	}}
	e := newTestExtractor(testConfig(), ft)

	res := e.Extract(context.Background(), "https://example.com/gone")
	if res.Success {
		t.Fatal("expected failure for 404")
	}
	// One primary fetch (no retries on a permanent status) plus the single
	// fallback fetch.
	if ft.callCount() != 2 {
		t.Errorf("404 must not be retried: expected 2 fetches, got %d", ft.callCount())
	}
}

func TestExtract_ServerErrorsAreRetried(t *testing.T) {
	ft := &fakeTransport{handler: func(call int, req *http.Request) (*http.Response, error) {
		if call <= 2 {
			return htmlResponse(503, "unavailable"), nil
		}
		return htmlResponse(200, richArticle), nil
	}}
	e := newTestExtractor(testConfig(), ft)

	res := e.Extract(context.Background(), "https://example.com/flaky")
	if !res.Success {
		t.Fatalf("expected success after retries, got error %q", res.Error)
	}
	if res.Method != MethodPrimary {
		t.Errorf("expected primary method after retry, got %q", res.Method)
	}
	if ft.callCount() != 3 {
		t.Errorf("expected 3 fetch attempts, got %d", ft.callCount())
	}
}

func TestExtract_MalformedURL(t *testing.T) {
	ft := &fakeTransport{handler: func(call int, req *http.Request) (*http.Response, error) {
		t.Fatal("no request should be made for a malformed URL")
		return nil, nil
	}}
	e := newTestExtractor(testConfig(), ft)

	for _, bad := range []string{"not a url", "ftp://example.com/x", ""} {
		res := e.Extract(context.Background(), bad)
		if res.Error != ErrMalformedURL {
			t.Errorf("Extract(%q): expected %q, got %q", bad, ErrMalformedURL, res.Error)
		}
	}
}

func TestExtract_BudgetExceeded(t *testing.T) {
	cfg := testConfig()
	cfg.TotalBudget = 30 * time.Millisecond
	cfg.RequestTimeout = 30 * time.Millisecond
	ft := &fakeTransport{handler: func(call int, req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	}}
	e := newTestExtractor(cfg, ft)

	res := e.Extract(context.Background(), "https://example.com/slow")
	if res.Success {
		t.Fatal("expected timeout failure")
	}
	if res.Error != ErrExtractionTimeout {
		t.Errorf("expected %q, got %q", ErrExtractionTimeout, res.Error)
	}
}

func TestExtract_RotatesUserAgents(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}
	ft := &fakeTransport{handler: func(call int, req *http.Request) (*http.Response, error) {
		mu.Lock()
		seen[req.Header.Get("User-Agent")] = true
		mu.Unlock()
		return htmlResponse(500, "nope"), nil
	}}
	cfg := testConfig()
	cfg.MaxRetries = 9
	e := newTestExtractor(cfg, ft)

	e.Extract(context.Background(), "https://example.com/blocked")
	if len(seen) < 2 {
		t.Errorf("expected rotation across the identity pool, saw %d distinct agents", len(seen))
	}
	for ua := range seen {
		if ua == "" {
			t.Error("request went out without a User-Agent")
		}
	}
}

func TestParseGeneric(t *testing.T) {
	title, body, err := parseGeneric(richArticle)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if title != "Council Approves New Transit Plan" {
		t.Errorf("unexpected title %q", title)
	}
	if !strings.Contains(body, "transit plan") {
		t.Errorf("body missing article text: %q", body)
	}
}

func TestParseGeneric_SkipsJunk(t *testing.T) {
	page := fmt.Sprintf(`<html><body>
<p>This site uses cookie banners everywhere you look, accept to continue reading.</p>
<p>%s</p>
</body></html>`, strings.Repeat("Real reporting with substance. ", 10))

	_, body, err := parseGeneric(page)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if strings.Contains(strings.ToLower(body), "cookie") {
		t.Errorf("junk line survived: %q", body)
	}
	if !strings.Contains(body, "Real reporting") {
		t.Error("content paragraph was dropped")
	}
}
