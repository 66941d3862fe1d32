package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// ProcessedLink records a URL that already went through the pipeline, so
// repeated crawler runs skip it.
type ProcessedLink struct {
	Hash        string    `json:"hash"`
	URL         string    `json:"url"`
	Category    string    `json:"category"`
	Publisher   string    `json:"publisher"`
	Relevant    bool      `json:"relevant"`
	ProcessedAt time.Time `json:"processed_at"`
}

// LinkStore manages processed links in a JSON file
type LinkStore struct {
	filePath string
	ttlHours int
	items    map[string]ProcessedLink
	mu       sync.RWMutex
}

// NewLinkStore creates a new link store instance
func NewLinkStore(filePath string, ttlHours int) *LinkStore {
	return &LinkStore{
		filePath: filePath,
		ttlHours: ttlHours,
		items:    make(map[string]ProcessedLink),
	}
}

// Load loads existing links from file
func (ls *LinkStore) Load() error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if _, err := os.Stat(ls.filePath); os.IsNotExist(err) {
		// File doesn't exist, start with empty store
		return nil
	}

	data, err := os.ReadFile(ls.filePath)
	if err != nil {
		return fmt.Errorf("failed to read links file: %v", err)
	}

	if len(data) == 0 {
		return nil // Empty file
	}

	var items []ProcessedLink
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to unmarshal links: %v", err)
	}

	// Load items into memory, filtering expired ones
	cutoffTime := time.Now().Add(-time.Duration(ls.ttlHours) * time.Hour)
	for _, item := range items {
		if ls.ttlHours <= 0 || item.ProcessedAt.After(cutoffTime) {
			ls.items[item.Hash] = item
		}
	}

	return nil
}

// Save saves current links to file
func (ls *LinkStore) Save() error {
	ls.mu.RLock()
	items := make([]ProcessedLink, 0, len(ls.items))
	for _, item := range ls.items {
		items = append(items, item)
	}
	ls.mu.RUnlock()

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal links: %v", err)
	}

	if err := os.WriteFile(ls.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write links file: %v", err)
	}

	return nil
}

// Seen reports whether the URL was processed within the TTL window.
func (ls *LinkStore) Seen(url string) bool {
	ls.mu.RLock()
	defer ls.mu.RUnlock()

	item, ok := ls.items[hashURL(url)]
	if !ok {
		return false
	}
	if ls.ttlHours > 0 {
		cutoff := time.Now().Add(-time.Duration(ls.ttlHours) * time.Hour)
		if item.ProcessedAt.Before(cutoff) {
			return false
		}
	}
	return true
}

// MarkProcessed records the URL as processed now.
func (ls *LinkStore) MarkProcessed(url, category, publisher string, relevant bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	hash := hashURL(url)
	ls.items[hash] = ProcessedLink{
		Hash:        hash,
		URL:         url,
		Category:    category,
		Publisher:   publisher,
		Relevant:    relevant,
		ProcessedAt: time.Now(),
	}
}

// Size returns the number of tracked links.
func (ls *LinkStore) Size() int {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return len(ls.items)
}

func hashURL(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:])
}
