package forensics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	scanNoiseStdLow   = 5.0
	scanNoiseStdHigh  = 30.0
	scanMinSegments   = 10
	scanBrightFrac    = 0.3
	segmentMinLength  = 100
	segmentMaxGap     = 10
	edgeGradThreshold = 50.0
)

// classifyScan decides whether the page looks like a scanned or
// photocopied document. Three independent indicators each contribute
// one point; two points make a scan. The result tunes analysis
// thresholds downstream but never decides the verdict by itself.
func classifyScan(gray []float64, w, h int) ScanClassification {
	sc := ScanClassification{}
	score := 0

	lap := laplacian(gray, w, h)
	noiseStd := stat.StdDev(lap, nil)
	if noiseStd > scanNoiseStdLow && noiseStd < scanNoiseStdHigh {
		score++
		sc.Reasons = append(sc.Reasons, "Uniform noise pattern consistent with scanning")
	}

	if countLineSegments(gray, w, h) > scanMinSegments {
		score++
		sc.Reasons = append(sc.Reasons, "Document structure detected")
	}

	otsu := otsuThreshold(gray)
	bright := 0
	for _, v := range gray {
		if v > otsu {
			bright++
		}
	}
	if float64(bright)/float64(len(gray)) > scanBrightFrac {
		score++
		sc.Reasons = append(sc.Reasons, "Paper-like background detected")
	}

	sc.Confidence = math.Min(float64(score)/3.0, 1.0)
	sc.IsScanned = score >= 2
	return sc
}

// countLineSegments counts long straight horizontal and vertical edge
// runs, the ruled-line and table structure typical of documents. Runs
// may bridge small gaps.
func countLineSegments(gray []float64, w, h int) int {
	edges := make([]bool, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := gray[y*w+x+1] - gray[y*w+x-1]
			gy := gray[(y+1)*w+x] - gray[(y-1)*w+x]
			if math.Hypot(gx, gy) > edgeGradThreshold {
				edges[y*w+x] = true
			}
		}
	}

	segments := 0
	// horizontal sweeps
	for y := 0; y < h; y++ {
		run, gap := 0, 0
		for x := 0; x < w; x++ {
			if edges[y*w+x] {
				run++
				gap = 0
			} else if run > 0 {
				gap++
				if gap > segmentMaxGap {
					if run >= segmentMinLength {
						segments++
					}
					run, gap = 0, 0
				}
			}
		}
		if run >= segmentMinLength {
			segments++
		}
	}
	// vertical sweeps
	for x := 0; x < w; x++ {
		run, gap := 0, 0
		for y := 0; y < h; y++ {
			if edges[y*w+x] {
				run++
				gap = 0
			} else if run > 0 {
				gap++
				if gap > segmentMaxGap {
					if run >= segmentMinLength {
						segments++
					}
					run, gap = 0, 0
				}
			}
		}
		if run >= segmentMinLength {
			segments++
		}
	}
	return segments
}
