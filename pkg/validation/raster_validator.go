package validation

import (
	"fmt"

	apperrors "github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/errors"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/raster"
)

// Minimum page dimensions below which the forensic signal chain has
// nothing meaningful to measure (region filters alone need a 10px
// interior).
const (
	MinPageWidth  = 64
	MinPageHeight = 64
)

// ValidateRaster rejects rasters the analyzer cannot produce sound
// metrics for. A failed page proceeds in degraded mode, it is never
// analyzed anyway.
func ValidateRaster(r *raster.Raster) error {
	if r == nil {
		return apperrors.NewValidationError("nil raster", nil)
	}
	if r.Width < MinPageWidth || r.Height < MinPageHeight {
		return apperrors.NewValidationError(
			fmt.Sprintf("page too small for analysis: %dx%d (minimum %dx%d)",
				r.Width, r.Height, MinPageWidth, MinPageHeight), nil)
	}
	if len(r.Pix) != r.Width*r.Height*3 {
		return apperrors.NewValidationError(
			fmt.Sprintf("raster buffer size %d does not match %dx%d RGB",
				len(r.Pix), r.Width, r.Height), nil)
	}
	return nil
}
