package forensics

import (
	"testing"

	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/raster"
)

func uniformRaster(w, h int, rv, gv, bv uint8) *raster.Raster {
	r := &raster.Raster{Width: w, Height: h, Pix: make([]uint8, w*h*3)}
	for i := 0; i < len(r.Pix); i += 3 {
		r.Pix[i] = rv
		r.Pix[i+1] = gv
		r.Pix[i+2] = bv
	}
	return r
}

func TestErrorLevel_UniformPage(t *testing.T) {
	r := uniformRaster(200, 150, 180, 180, 180)

	elaMap, hotRatio, err := errorLevel(r, DefaultOptions())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(elaMap) != r.Width*r.Height {
		t.Fatalf("Expected map of %d pixels, got %d", r.Width*r.Height, len(elaMap))
	}
	// a uniform page recompresses almost losslessly
	if hotRatio > DefaultOptions().ELAHotRatio {
		t.Errorf("Expected uniform page below the hot-pixel cut, got ratio %f", hotRatio)
	}
}

func TestErrorLevel_HotRatioBounds(t *testing.T) {
	r := uniformRaster(64, 64, 10, 200, 90)
	_, hotRatio, err := errorLevel(r, DefaultOptions())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if hotRatio < 0 || hotRatio > 1 {
		t.Errorf("Expected hot ratio in [0,1], got %f", hotRatio)
	}
}
