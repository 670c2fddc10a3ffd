package forensics

import (
	"bytes"
	"image/jpeg"

	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/raster"
)

// errorLevel runs error-level analysis: re-encode the page through
// JPEG at a fixed moderate quality, amplify the per-pixel difference
// and clip to byte range. Content recompressed at a different quality
// than its surroundings shows an elevated response. Returns the
// grayscale ELA map (max over channels) and the hot-pixel fraction.
func errorLevel(r *raster.Raster, opts Options) ([]uint8, float64, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, r.ToImage(), &jpeg.Options{Quality: opts.ELAQuality}); err != nil {
		return nil, 0, err
	}
	recompressed, err := raster.Decode(&buf)
	if err != nil {
		return nil, 0, err
	}

	elaMap := make([]uint8, r.Width*r.Height)
	hot := 0
	total := len(r.Pix)
	for i := 0; i < total; i += 3 {
		var maxDiff float64
		for c := 0; c < 3; c++ {
			d := (float64(r.Pix[i+c]) - float64(recompressed.Pix[i+c])) * opts.ELAGain
			if d < 0 {
				d = -d
			}
			if d > 255 {
				d = 255
			}
			if uint8(d) > opts.ELAHotCutoff {
				hot++
			}
			if d > maxDiff {
				maxDiff = d
			}
		}
		elaMap[i/3] = uint8(maxDiff)
	}

	return elaMap, float64(hot) / float64(total), nil
}
