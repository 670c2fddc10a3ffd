package storage

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// LocalPageFetcher reads page images from the local filesystem, used
// by the CLI and by tests.
type LocalPageFetcher struct{}

func NewLocalPageFetcher() *LocalPageFetcher {
	return &LocalPageFetcher{}
}

func (l *LocalPageFetcher) FetchPage(ctx context.Context, ref string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(ref)
	if err != nil {
		return nil, fmt.Errorf("open page file: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode page image: %w", err)
	}
	return img, nil
}
