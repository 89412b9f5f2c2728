package tracker

import (
	"os"
	"path/filepath"
	"testing"
)

func TestQuoteStoreLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.txt")
	content := "First quote\nSecond quote\n\nThird quote\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write quotes file: %v", err)
	}

	store := QuoteStore{Path: path}
	if err := store.Load(); err != nil {
		t.Errorf("Failed to load quotes: %v", err)
	}
	if len(store.Quotes) != 3 {
		t.Errorf("Expected 3 quotes, got %d", len(store.Quotes))
	}
}

func TestGetQuoteEmptyStore(t *testing.T) {
	store := QuoteStore{}
	if q := store.GetQuote(); q.Text != "" {
		t.Errorf("expected empty quote from empty store, got %q", q.Text)
	}
}

func TestGetQuoteReturnsLoadedLine(t *testing.T) {
	store := QuoteStore{Quotes: []Quote{{Text: "Keep going."}}}
	if q := store.GetQuote(); q.Text != "Keep going." {
		t.Errorf("expected the only quote, got %q", q.Text)
	}
}
