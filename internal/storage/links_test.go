package storage

import (
	"path/filepath"
	"testing"
)

func TestLinkStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawled_links.json")

	ls := NewLinkStore(path, 24)
	if err := ls.Load(); err != nil {
		t.Fatalf("load on missing file should succeed, got %v", err)
	}

	ls.MarkProcessed("https://example.com/a", "AI News", "BBC", true)
	ls.MarkProcessed("https://example.com/b", "AI News", "BBC", false)
	if err := ls.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	reloaded := NewLinkStore(path, 24)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Size() != 2 {
		t.Fatalf("expected 2 links after reload, got %d", reloaded.Size())
	}
	if !reloaded.Seen("https://example.com/a") {
		t.Error("expected first link to be seen")
	}
	if reloaded.Seen("https://example.com/other") {
		t.Error("unknown link reported as seen")
	}
}

func TestLinkStore_DuplicateMarkKeepsOneEntry(t *testing.T) {
	ls := NewLinkStore(filepath.Join(t.TempDir(), "links.json"), 0)
	ls.MarkProcessed("https://example.com/a", "AI News", "", true)
	ls.MarkProcessed("https://example.com/a", "AI News", "", true)
	if ls.Size() != 1 {
		t.Errorf("expected 1 entry, got %d", ls.Size())
	}
}
