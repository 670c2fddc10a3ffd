package repository

import (
	"context"
	"errors"
	"image"
	"testing"
)

type stubFetcher struct {
	img image.Image
	err error
	ref string
}

func (s *stubFetcher) FetchPage(_ context.Context, ref string) (image.Image, error) {
	s.ref = ref
	return s.img, s.err
}

func testPage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	return img
}

func TestFetchRaster_ResizesToWorkingWidth(t *testing.T) {
	fetcher := &stubFetcher{img: testPage(800, 400)}
	repo := NewPageRepository(fetcher, 200)

	page, err := repo.FetchRaster(context.Background(), "http://pages/p1.png")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if page.Width != 200 || page.Height != 100 {
		t.Errorf("Expected 200x100 raster, got %dx%d", page.Width, page.Height)
	}
	if fetcher.ref != "http://pages/p1.png" {
		t.Errorf("Unexpected ref passed to fetcher: %s", fetcher.ref)
	}
}

func TestFetchRaster_ZeroWidthSkipsResample(t *testing.T) {
	repo := NewPageRepository(&stubFetcher{img: testPage(300, 200)}, 0)

	page, err := repo.FetchRaster(context.Background(), "http://pages/p1.png")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if page.Width != 300 || page.Height != 200 {
		t.Errorf("Expected untouched dimensions, got %dx%d", page.Width, page.Height)
	}
}

func TestFetchRaster_FetchError(t *testing.T) {
	repo := NewPageRepository(&stubFetcher{err: errors.New("boom")}, 200)

	if _, err := repo.FetchRaster(context.Background(), "http://pages/p1.png"); err == nil {
		t.Error("Expected fetch error to propagate")
	}
}

func TestFetchRaster_RejectsTinyPage(t *testing.T) {
	// 800x20 resamples to 200x5, below the analyzable minimum.
	repo := NewPageRepository(&stubFetcher{img: testPage(800, 20)}, 200)

	if _, err := repo.FetchRaster(context.Background(), "http://pages/p1.png"); err == nil {
		t.Error("Expected raster validation to reject a degenerate page")
	}
}

func TestValidatePageRef(t *testing.T) {
	repo := NewPageRepository(&stubFetcher{}, 200)

	if err := repo.ValidatePageRef(""); !errors.Is(err, ErrInvalidPageRef) {
		t.Errorf("Expected ErrInvalidPageRef for empty ref, got %v", err)
	}
	if err := repo.ValidatePageRef("http://pages/p1.png"); err != nil {
		t.Errorf("Unexpected error for valid ref: %v", err)
	}
	if err := repo.ValidatePageRef("ftp://pages/p1.png"); err == nil {
		t.Error("Expected error for unsupported scheme")
	}
}
