package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	ArticlesProcessed   int64
	PrimaryExtractions  int64
	FallbackExtractions int64
	FailedExtractions   int64
	RelevantArticles    int64
	IrrelevantArticles  int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementArticlesProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesProcessed++
}

func (m *Metrics) IncrementPrimaryExtractions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PrimaryExtractions++
}

func (m *Metrics) IncrementFallbackExtractions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FallbackExtractions++
}

func (m *Metrics) IncrementFailedExtractions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailedExtractions++
}

func (m *Metrics) IncrementRelevantArticles() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RelevantArticles++
}

func (m *Metrics) IncrementIrrelevantArticles() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IrrelevantArticles++
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"articles_processed":         m.ArticlesProcessed,
		"primary_extractions":        m.PrimaryExtractions,
		"fallback_extractions":       m.FallbackExtractions,
		"failed_extractions":         m.FailedExtractions,
		"relevant_articles":          m.RelevantArticles,
		"irrelevant_articles":        m.IrrelevantArticles,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}
