package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalPageFetcher_Success(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page1.png")
	if err := os.WriteFile(path, pagePNG(t), 0o644); err != nil {
		t.Fatalf("Failed to write test page: %v", err)
	}

	fetcher := NewLocalPageFetcher()
	img, err := fetcher.FetchPage(context.Background(), path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 80 {
		t.Errorf("Unexpected width: %d", img.Bounds().Dx())
	}
}

func TestLocalPageFetcher_MissingFile(t *testing.T) {
	fetcher := NewLocalPageFetcher()
	if _, err := fetcher.FetchPage(context.Background(), "/does/not/exist.png"); err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestLocalPageFetcher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewLocalPageFetcher()
	if _, err := fetcher.FetchPage(ctx, "anything.png"); err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}
