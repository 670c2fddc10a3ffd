package forensics

import "testing"

// fillNoise paints a rectangle of the given value into a noise map.
func fillNoise(noise []uint8, w, x0, y0, rw, rh int, value uint8) {
	for y := y0; y < y0+rh; y++ {
		for x := x0; x < x0+rw; x++ {
			noise[y*w+x] = value
		}
	}
}

func TestExtractTamperedRegions_AcceptsAnomalousBlob(t *testing.T) {
	w, h := 200, 200
	noise := make([]uint8, w*h)
	fillNoise(noise, w, 50, 50, 8, 10, 255)

	regions, _, stats := extractTamperedRegions(noise, w, h, DefaultOptions())

	if len(regions) != 1 {
		t.Fatalf("Expected one region, got %d", len(regions))
	}
	r := regions[0]
	if r.Area != 80 {
		t.Errorf("Expected component area 80, got %d", r.Area)
	}
	if r.IntensityRatio < 17 {
		t.Errorf("Expected intensity ratio above the high cut, got %f", r.IntensityRatio)
	}
	if r.Confidence < 0.7 || r.Confidence > 1.0 {
		t.Errorf("Expected confidence clamped to [0.7, 1.0], got %f", r.Confidence)
	}
	if stats.Threshold < 120 || stats.Threshold > 160 {
		t.Errorf("Expected adaptive threshold within [120, 160], got %d", stats.Threshold)
	}
}

func TestExtractTamperedRegions_MinimumAreaBoundary(t *testing.T) {
	w, h := 200, 200

	// exactly at the minimum survives
	noise := make([]uint8, w*h)
	fillNoise(noise, w, 50, 50, 8, 10, 255)
	regions, _, _ := extractTamperedRegions(noise, w, h, DefaultOptions())
	if len(regions) != 1 {
		t.Fatalf("Expected 80px component to survive, got %d regions", len(regions))
	}

	// one pixel short is dropped
	noise = make([]uint8, w*h)
	fillNoise(noise, w, 50, 50, 79, 1, 255)
	regions, _, _ = extractTamperedRegions(noise, w, h, DefaultOptions())
	if len(regions) != 0 {
		t.Fatalf("Expected 79px component to be dropped, got %d regions", len(regions))
	}
}

func TestExtractTamperedRegions_BorderMargin(t *testing.T) {
	w, h := 200, 200

	// a blob hugging the border is scanner noise, not evidence
	noise := make([]uint8, w*h)
	fillNoise(noise, w, 2, 50, 8, 10, 255)
	regions, _, _ := extractTamperedRegions(noise, w, h, DefaultOptions())
	if len(regions) != 0 {
		t.Fatalf("Expected border-hugging blob to be dropped, got %d regions", len(regions))
	}

	// the same blob inside the margin survives
	noise = make([]uint8, w*h)
	fillNoise(noise, w, 20, 50, 8, 10, 255)
	regions, _, _ = extractTamperedRegions(noise, w, h, DefaultOptions())
	if len(regions) != 1 {
		t.Fatalf("Expected interior blob to survive, got %d regions", len(regions))
	}
}

func TestExtractTamperedRegions_MaxAreaFraction(t *testing.T) {
	w, h := 100, 100
	noise := make([]uint8, w*h)
	// 2000px is over 15% of a 100x100 page
	fillNoise(noise, w, 20, 20, 50, 40, 255)

	regions, _, _ := extractTamperedRegions(noise, w, h, DefaultOptions())
	if len(regions) != 0 {
		t.Fatalf("Expected oversized component to be dropped, got %d regions", len(regions))
	}
}

func TestExtractTamperedRegions_MediumRatioNeedsArea(t *testing.T) {
	w, h := 200, 200

	// elevated background pulls the ratio into the medium band; a
	// small component there is rejected
	noise := make([]uint8, w*h)
	for i := range noise {
		noise[i] = 20
	}
	fillNoise(noise, w, 50, 50, 8, 10, 255)
	regions, _, _ := extractTamperedRegions(noise, w, h, DefaultOptions())
	if len(regions) != 0 {
		t.Fatalf("Expected small medium-ratio component to be dropped, got %d regions", len(regions))
	}

	// the same ratio over a large component is accepted
	noise = make([]uint8, w*h)
	for i := range noise {
		noise[i] = 15
	}
	fillNoise(noise, w, 50, 50, 25, 25, 255)
	regions, _, _ = extractTamperedRegions(noise, w, h, DefaultOptions())
	if len(regions) != 1 {
		t.Fatalf("Expected large medium-ratio component to survive, got %d regions", len(regions))
	}
	if regions[0].IntensityRatio >= 17 {
		t.Errorf("Test setup should exercise the medium band, got ratio %f", regions[0].IntensityRatio)
	}
}

func TestExtractTamperedRegions_SortedByIntensity(t *testing.T) {
	w, h := 200, 200
	noise := make([]uint8, w*h)
	fillNoise(noise, w, 20, 20, 10, 10, 200)
	fillNoise(noise, w, 120, 120, 10, 10, 255)

	regions, _, _ := extractTamperedRegions(noise, w, h, DefaultOptions())
	if len(regions) != 2 {
		t.Fatalf("Expected two regions, got %d", len(regions))
	}
	if regions[0].Intensity < regions[1].Intensity {
		t.Errorf("Expected regions sorted by descending intensity, got %f before %f",
			regions[0].Intensity, regions[1].Intensity)
	}
}

func TestLabelComponents_FourConnectivity(t *testing.T) {
	w, h := 4, 4
	mask := make([]uint8, w*h)
	// diagonal neighbours only; 4-connectivity keeps them apart
	mask[0*w+0] = 255
	mask[1*w+1] = 255

	labels, numFeatures := labelComponents(mask, w, h)
	if numFeatures != 2 {
		t.Fatalf("Expected two components under 4-connectivity, got %d", numFeatures)
	}
	if labels[0] == labels[1*w+1] {
		t.Error("Expected diagonal pixels to carry different labels")
	}
}

func TestLabelComponents_EmptyMask(t *testing.T) {
	mask := make([]uint8, 16)
	_, numFeatures := labelComponents(mask, 4, 4)
	if numFeatures != 0 {
		t.Errorf("Expected no components in empty mask, got %d", numFeatures)
	}
}
