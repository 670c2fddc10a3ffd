package storage

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"time"
)

// PageFetcher retrieves one decoded page image by reference. The
// reference format depends on the backend: URL, blob locator or file
// path.
type PageFetcher interface {
	FetchPage(ctx context.Context, ref string) (image.Image, error)
}

// HTTPPageFetcher fetches page images over HTTP(S).
type HTTPPageFetcher struct {
	client *http.Client
}

// NewHTTPPageFetcher creates an HTTP page fetcher with pooling tuned
// for one-shot image downloads.
func NewHTTPPageFetcher(timeout time.Duration) *HTTPPageFetcher {
	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &HTTPPageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
	}
}

// FetchPage downloads and decodes a page image. Transient failures
// (network errors, 5xx) retry up to 3 attempts with linear backoff;
// 4xx responses fail immediately.
func (h *HTTPPageFetcher) FetchPage(ctx context.Context, ref string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}
	req.Header.Set("Accept", "image/jpeg, image/png, */*")
	req.Header.Set("User-Agent", "doc-forensics/1.0")

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		resp, err := h.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusOK {
			defer resp.Body.Close()
			img, _, err := image.Decode(resp.Body)
			if err != nil {
				return nil, fmt.Errorf("decode page image: %w", err)
			}
			return img, nil
		}

		resp.Body.Close()
		lastErr = fmt.Errorf("status code %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			break
		}
	}

	return nil, fmt.Errorf("failed to fetch page after retries: %w", lastErr)
}
