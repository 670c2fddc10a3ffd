package forensics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/raster"
)

// ssimVsBlur scores the structural similarity between the page and a
// 7×7 Gaussian-smoothed copy of itself. Pages with very uniform
// texture barely change under smoothing; heavily edited areas pull the
// global score down. Supporting signal only.
func ssimVsBlur(gray []float64, w, h int) float64 {
	blurred := gaussianBlur(gray, w, h)

	const (
		c1 = 6.5025  // (0.01 * 255)²
		c2 = 58.5225 // (0.03 * 255)²
	)

	muX := stat.Mean(gray, nil)
	muY := stat.Mean(blurred, nil)

	var varX, varY, cov float64
	for i := range gray {
		dx := gray[i] - muX
		dy := blurred[i] - muY
		varX += dx * dx
		varY += dy * dy
		cov += dx * dy
	}
	n := float64(len(gray))
	varX /= n
	varY /= n
	cov /= n

	return ((2*muX*muY + c1) * (2*cov + c2)) / ((muX*muX + muY*muY + c1) * (varX + varY + c2))
}

// channelVarianceMap computes the per-pixel standard deviation across
// the RGB channels. Grayscale scans sit near zero; pasted colored
// content stands out. Supporting signal only.
func channelVarianceMap(r *raster.Raster) ([]uint8, float64) {
	out := make([]uint8, r.Width*r.Height)
	var sum float64
	for i := 0; i < len(out); i++ {
		p := r.Pix[i*3:]
		rf, gf, bf := float64(p[0]), float64(p[1]), float64(p[2])
		mean := (rf + gf + bf) / 3
		variance := ((rf-mean)*(rf-mean) + (gf-mean)*(gf-mean) + (bf-mean)*(bf-mean)) / 3
		std := math.Sqrt(variance)
		sum += std
		if std > 255 {
			std = 255
		}
		out[i] = uint8(std)
	}
	return out, sum / float64(len(out))
}
