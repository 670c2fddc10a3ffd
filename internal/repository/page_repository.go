package repository

import (
	"context"

	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/raster"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/storage"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/pkg/validation"
)

// pageRepository adapts a storage fetcher into the raster source used
// by the analysis pipeline.
type pageRepository struct {
	fetcher      storage.PageFetcher
	workingWidth int
	validator    *validation.PageRefValidator
}

// NewPageRepository wraps a fetcher. workingWidth bounds the raster
// resolution handed to the analyzer; 0 disables resampling.
func NewPageRepository(fetcher storage.PageFetcher, workingWidth int) PageRepository {
	return &pageRepository{
		fetcher:      fetcher,
		workingWidth: workingWidth,
		validator:    validation.NewPageRefValidator(),
	}
}

func (r *pageRepository) FetchRaster(ctx context.Context, ref string) (*raster.Raster, error) {
	img, err := r.fetcher.FetchPage(ctx, ref)
	if err != nil {
		return nil, err
	}
	page := raster.FromImage(img)
	if r.workingWidth > 0 {
		page = page.ResizeToWidth(r.workingWidth)
	}
	if err := validation.ValidateRaster(page); err != nil {
		return nil, err
	}
	return page, nil
}

func (r *pageRepository) ValidatePageRef(ref string) error {
	if ref == "" {
		return ErrInvalidPageRef
	}
	return r.validator.Validate(ref)
}
