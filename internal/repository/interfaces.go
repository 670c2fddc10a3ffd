package repository

import (
	"context"

	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/raster"
)

// PageRepository is the RasterSource boundary: it supplies one decoded
// RGB raster per document page at the working resolution.
type PageRepository interface {
	// FetchRaster retrieves and decodes a page, resampled to the
	// working width.
	FetchRaster(ctx context.Context, ref string) (*raster.Raster, error)

	// ValidatePageRef checks a page reference before any fetch.
	ValidatePageRef(ref string) error
}
