package forensics

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// extractTamperedRegions segments the noise-inconsistency map into
// candidate tampered regions. The threshold adapts to the page's own
// noise statistics rather than a fixed global cut: a big intensity gap
// against the page's own mean travels better across document types
// than any absolute level.
func extractTamperedRegions(noise []uint8, w, h int, opts Options) ([]Region, []uint8, NoiseStats) {
	plane := make([]float64, len(noise))
	for i, v := range noise {
		plane[i] = float64(v)
	}
	globalMean := stat.Mean(plane, nil)
	globalStd := stat.StdDev(plane, nil)

	threshold := 120
	if globalMean > 5 {
		threshold += int((globalMean - 5) * 5)
	}
	if threshold > 160 {
		threshold = 160
	}

	mask := make([]uint8, len(noise))
	for i, v := range noise {
		if int(v) > threshold {
			mask[i] = 255
		}
	}
	mask = morphClose(mask, w, h, 10)

	labels, numFeatures := labelComponents(mask, w, h)

	var regions []Region
	maxArea := int(float64(w*h) * opts.MaxAreaFraction)
	for id := 1; id <= numFeatures; id++ {
		comp := componentStats(labels, noise, w, h, id)
		if comp.area < opts.MinRegionArea {
			continue
		}

		m := opts.BorderMargin
		if comp.x0 < m || comp.y0 < m || comp.x1+1 > w-m || comp.y1+1 > h-m {
			continue
		}
		if comp.area > maxArea {
			continue
		}

		ratio := comp.mean / (globalMean + 1e-8)
		highRatio := ratio >= opts.HighIntensityRatio
		mediumRatioLarge := ratio >= opts.MedIntensityRatio && comp.area >= opts.MedRatioMinArea
		if !highRatio && !mediumRatioLarge {
			continue
		}

		confidence := (comp.mean - globalMean) / (255 - globalMean + 1e-8)
		if confidence > 1 {
			confidence = 1
		}
		if confidence < 0.7 {
			confidence = 0.7
		}

		bw := comp.x1 - comp.x0 + 1
		bh := comp.y1 - comp.y0 + 1
		regions = append(regions, Region{
			X: comp.x0, Y: comp.y0, Width: bw, Height: bh,
			Area:           comp.area,
			CenterX:        comp.x0 + bw/2,
			CenterY:        comp.y0 + bh/2,
			Intensity:      comp.mean,
			IntensityRatio: ratio,
			Confidence:     confidence,
			Reasons:        []string{"High noise variance (tampering indicator)"},
		})
	}

	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Intensity > regions[j].Intensity
	})

	return regions, mask, NoiseStats{
		GlobalMean:  globalMean,
		GlobalStd:   globalStd,
		Threshold:   threshold,
		NumFeatures: numFeatures,
	}
}

// labelComponents assigns 4-connected component ids to the foreground
// of a binary mask, flood-filling with an explicit stack.
func labelComponents(mask []uint8, w, h int) ([]int32, int) {
	labels := make([]int32, len(mask))
	next := int32(0)
	var stack []int32

	for start := range mask {
		if mask[start] == 0 || labels[start] != 0 {
			continue
		}
		next++
		labels[start] = next
		stack = append(stack[:0], int32(start))
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x := int(i) % w
			y := int(i) / w

			visit := func(n int) {
				if mask[n] != 0 && labels[n] == 0 {
					labels[n] = next
					stack = append(stack, int32(n))
				}
			}
			if x > 0 {
				visit(int(i) - 1)
			}
			if x < w-1 {
				visit(int(i) + 1)
			}
			if y > 0 {
				visit(int(i) - w)
			}
			if y < h-1 {
				visit(int(i) + w)
			}
		}
	}
	return labels, int(next)
}

type component struct {
	area           int
	x0, y0, x1, y1 int
	mean           float64
}

func componentStats(labels []int32, noise []uint8, w, h, id int) component {
	c := component{x0: w, y0: h, x1: -1, y1: -1}
	var sum float64
	for i, l := range labels {
		if int(l) != id {
			continue
		}
		x, y := i%w, i/w
		if x < c.x0 {
			c.x0 = x
		}
		if x > c.x1 {
			c.x1 = x
		}
		if y < c.y0 {
			c.y0 = y
		}
		if y > c.y1 {
			c.y1 = y
		}
		sum += float64(noise[i])
		c.area++
	}
	if c.area > 0 {
		c.mean = sum / float64(c.area)
	}
	return c
}
