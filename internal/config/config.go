package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Extractor settings
	MaxRetries     int           // retries per strategy on transient failures
	RequestTimeout time.Duration // per-request connect+read timeout
	TotalBudget    time.Duration // hard wall-clock cap per URL across retries
	MinBodyChars   int           // below this the extracted body is unusable

	// Summarizer settings
	DampingFactor       float64
	SummaryRatio        float64
	MinSummarySentences int

	// Batch settings
	CrawlConcurrency int // parallel article pipelines

	// Settings file (category -> tags/publishers)
	SettingsPath string

	// Cache/storage settings
	CacheTTLHours      int
	ProcessedLinksPath string

	// App settings
	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		MaxRetries:          2,
		RequestTimeout:      15 * time.Second,
		TotalBudget:         30 * time.Second,
		MinBodyChars:        200,
		DampingFactor:       0.85,
		SummaryRatio:        0.2,
		MinSummarySentences: 3,
		CrawlConcurrency:    4,
		SettingsPath:        "configs/settings.yaml",
		CacheTTLHours:       24,
		ProcessedLinksPath:  "crawled_links.json",
	}

	if v := os.Getenv("MAX_RETRIES"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 0 {
			cfg.MaxRetries = val
		}
	}
	if v := os.Getenv("TIMEOUT_MS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.RequestTimeout = time.Duration(val) * time.Millisecond
		}
	}
	if v := os.Getenv("TOTAL_BUDGET_MS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.TotalBudget = time.Duration(val) * time.Millisecond
		}
	}
	if v := os.Getenv("MIN_BODY_CHARS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.MinBodyChars = val
		}
	}
	if v := os.Getenv("DAMPING_FACTOR"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil && val > 0 && val < 1 {
			cfg.DampingFactor = val
		}
	}
	if v := os.Getenv("SUMMARY_RATIO"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil && val > 0 && val <= 1 {
			cfg.SummaryRatio = val
		}
	}
	if v := os.Getenv("MIN_SUMMARY_SENTENCES"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 1 {
			cfg.MinSummarySentences = val
		}
	}
	if v := os.Getenv("CRAWL_CONCURRENCY"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.CrawlConcurrency = val
		}
	}

	cfg.SettingsPath = getEnvOrDefault("SETTINGS_PATH", cfg.SettingsPath)
	cfg.ProcessedLinksPath = getEnvOrDefault("PROCESSED_LINKS_PATH", cfg.ProcessedLinksPath)
	cfg.CacheTTLHours = getEnvIntOrDefault("CACHE_TTL_HOURS", cfg.CacheTTLHours)

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.RequestTimeout > c.TotalBudget {
		return fmt.Errorf("TIMEOUT_MS must not exceed TOTAL_BUDGET_MS")
	}
	if c.DampingFactor <= 0 || c.DampingFactor >= 1 {
		return fmt.Errorf("DAMPING_FACTOR must be in (0, 1)")
	}
	if c.SummaryRatio <= 0 || c.SummaryRatio > 1 {
		return fmt.Errorf("SUMMARY_RATIO must be in (0, 1]")
	}
	if c.MinSummarySentences < 1 {
		return fmt.Errorf("MIN_SUMMARY_SENTENCES must be at least 1")
	}
	return nil
}
