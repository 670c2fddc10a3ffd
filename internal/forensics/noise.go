package forensics

import "math"

// noiseMap computes the noise-inconsistency map: the local variance of
// the second-derivative response, min-max normalized to bytes. Pasted
// or inpainted content disrupts the page's natural noise floor, which
// shows up as bright islands here; this is the primary discriminant
// for the region extractor.
func noiseMap(gray []float64, w, h int) []uint8 {
	lap := laplacian(gray, w, h)
	variance := localVariance(lap, w, h, 5)
	return normalizeToBytes(variance)
}

// localNoiseAnomaly flags areas whose local noise deviates strongly
// from the page's global standard deviation in either direction:
// suspiciously flat (255) or suspiciously busy (200). Diagnostic only.
func localNoiseAnomaly(gray []float64, w, h int) []uint8 {
	variance := localVariance(gray, w, h, 15)

	var sum, sumSq float64
	for _, v := range gray {
		sum += v
		sumSq += v * v
	}
	n := float64(len(gray))
	globalVar := sumSq/n - (sum/n)*(sum/n)
	if globalVar < 0 {
		globalVar = 0
	}
	globalStd := math.Sqrt(globalVar)

	lowCut := globalStd * 0.3
	highCut := globalStd * 2.0
	out := make([]uint8, len(gray))
	for i, v := range variance {
		std := math.Sqrt(v)
		switch {
		case std < lowCut:
			out[i] = 255
		case std > highCut:
			out[i] = 200
		}
	}
	return out
}
