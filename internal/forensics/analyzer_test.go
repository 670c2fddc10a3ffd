package forensics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/artifacts"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/raster"
)

// pasteChecker overwrites a square of the raster with a 1px
// checkerboard, a texture whose noise statistics clash hard with a
// smooth page.
func pasteChecker(r *raster.Raster, x0, y0, size int) {
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			v := uint8(0)
			if (dx+dy)%2 == 0 {
				v = 255
			}
			i := ((y0+dy)*r.Width + x0 + dx) * 3
			r.Pix[i] = v
			r.Pix[i+1] = v
			r.Pix[i+2] = v
		}
	}
}

func TestAnalyze_SplicedPage(t *testing.T) {
	page := uniformRaster(512, 512, 200, 200, 200)
	pasteChecker(page, 60, 60, 48)
	pasteChecker(page, 300, 300, 48)

	analyzer := NewAnalyzer(artifacts.NopSink{}, 2)
	defer analyzer.Close()

	metrics, verdict := analyzer.Analyze(page, DefaultOptions())

	if len(metrics.TamperedRegions) < 2 {
		t.Fatalf("Expected both spliced patches as regions, got %d", len(metrics.TamperedRegions))
	}
	for _, r := range metrics.TamperedRegions {
		if r.IntensityRatio < DefaultOptions().MedIntensityRatio {
			t.Errorf("Expected spliced region well above the page noise floor, got ratio %f", r.IntensityRatio)
		}
	}
	if verdict.Label != LabelLikelyTampered {
		t.Errorf("Expected tampered verdict, got %q (score %f)", verdict.Label, verdict.Score)
	}
	if verdict.Score < 0.6 {
		t.Errorf("Expected score of at least 0.6 from two regions, got %f", verdict.Score)
	}
	if len(verdict.Reasons) == 0 {
		t.Error("Expected verdict reasons")
	}
	if verdict.Metrics != metrics {
		t.Error("Expected verdict to back-reference its metrics")
	}
}

func TestAnalyze_CleanPage(t *testing.T) {
	page := uniformRaster(512, 512, 200, 200, 200)

	analyzer := NewAnalyzer(artifacts.NopSink{}, 2)
	defer analyzer.Close()

	metrics, verdict := analyzer.Analyze(page, DefaultOptions())

	if len(metrics.TamperedRegions) != 0 {
		t.Errorf("Expected no regions on clean page, got %d", len(metrics.TamperedRegions))
	}
	if metrics.CopyMoveMatches != 0 {
		t.Errorf("Expected no copy-move matches on clean page, got %d", metrics.CopyMoveMatches)
	}
	if verdict.Label != LabelLikelyOriginal {
		t.Errorf("Expected original verdict, got %q (score %f)", verdict.Label, verdict.Score)
	}
	if verdict.Score >= 0.45 {
		t.Errorf("Expected score below the tampering threshold, got %f", verdict.Score)
	}
	if metrics.SSIMScore < 0.99 {
		t.Errorf("Expected near-perfect self-similarity on uniform page, got %f", metrics.SSIMScore)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	page := uniformRaster(400, 400, 200, 200, 200)
	pasteChecker(page, 60, 60, 48)

	analyzer := NewAnalyzer(artifacts.NopSink{}, 4)
	defer analyzer.Close()

	m1, v1 := analyzer.Analyze(page, DefaultOptions())
	m2, v2 := analyzer.Analyze(page, DefaultOptions())

	if diff := cmp.Diff(m1, m2); diff != "" {
		t.Errorf("Metrics differ across runs (-first +second):\n%s", diff)
	}
	if v1.Score != v2.Score || v1.Label != v2.Label {
		t.Errorf("Verdict differs across runs: %f/%q vs %f/%q", v1.Score, v1.Label, v2.Score, v2.Label)
	}
}

func TestAnalyze_SkipSupporting(t *testing.T) {
	page := uniformRaster(256, 256, 180, 180, 180)

	analyzer := NewAnalyzer(artifacts.NopSink{}, 1)
	defer analyzer.Close()

	metrics, _ := analyzer.Analyze(page, FastOptions())
	if metrics.SSIMScore != 0 || metrics.ChannelVarianceAvg != 0 {
		t.Errorf("Expected supporting signals skipped, got ssim=%f chanvar=%f",
			metrics.SSIMScore, metrics.ChannelVarianceAvg)
	}
}

func TestAnalyze_EmitsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	sink, err := artifacts.NewDirSink(dir)
	if err != nil {
		t.Fatalf("Failed to create sink: %v", err)
	}

	analyzer := NewAnalyzer(sink, 2)
	defer analyzer.Close()

	page := uniformRaster(256, 256, 200, 200, 200)
	pasteChecker(page, 60, 60, 48)
	opts := DefaultOptions()
	opts.ArtifactPrefix = "page_1"
	analyzer.Analyze(page, opts)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read artifact dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	for _, want := range []string{"page_1_noise_analysis", "page_1_noise_regions", "page_1_ela"} {
		found := false
		for _, name := range names {
			if strings.HasPrefix(name, want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected artifact %q, have %v", want, names)
		}
	}
	for _, name := range names {
		if filepath.Ext(name) != ".png" {
			t.Errorf("Expected PNG artifacts, got %q", name)
		}
	}
}

func TestScore_RegionContribution(t *testing.T) {
	opts := DefaultOptions()

	v := Score(&Metrics{}, opts)
	if v.Score != 0 || v.Label != LabelLikelyOriginal {
		t.Errorf("Expected zero score on empty metrics, got %f/%q", v.Score, v.Label)
	}

	one := &Metrics{TamperedRegions: make([]Region, 1)}
	if v := Score(one, opts); v.Score != 0.3 || v.Label != LabelLikelyOriginal {
		t.Errorf("Expected one region to stay below threshold, got %f/%q", v.Score, v.Label)
	}

	two := &Metrics{TamperedRegions: make([]Region, 2)}
	if v := Score(two, opts); v.Score != 0.6 || v.Label != LabelLikelyTampered {
		t.Errorf("Expected two regions to cross threshold, got %f/%q", v.Score, v.Label)
	}

	// the region contribution saturates
	five := &Metrics{TamperedRegions: make([]Region, 5)}
	if v := Score(five, opts); v.Score != 0.6 {
		t.Errorf("Expected region contribution capped at 0.6, got %f", v.Score)
	}
}

func TestScore_CorroboratingSignals(t *testing.T) {
	opts := DefaultOptions()

	m := &Metrics{
		TamperedRegions:  make([]Region, 2),
		CopyMoveMatches:  11,
		ELAHotPixelRatio: 0.03,
	}
	v := Score(m, opts)
	if !nearlyEqual(v.Score, 0.95, 1e-9) {
		t.Errorf("Expected 0.6+0.2+0.15, got %f", v.Score)
	}
	if v.Score > 1.0 {
		t.Errorf("Expected score capped at 1.0, got %f", v.Score)
	}

	// at, not above, the cutoffs: no bump
	m = &Metrics{CopyMoveMatches: 10, ELAHotPixelRatio: 0.02}
	if v := Score(m, opts); v.Score != 0 {
		t.Errorf("Expected no bump at exact cutoffs, got %f", v.Score)
	}
}

func TestScore_ScannedPresetRaisesCutoffs(t *testing.T) {
	m := &Metrics{CopyMoveMatches: 12, ELAHotPixelRatio: 0.03}

	if v := Score(m, DefaultOptions()); !nearlyEqual(v.Score, 0.35, 1e-9) {
		t.Errorf("Expected both bumps under default preset, got %f", v.Score)
	}
	// the scanned preset tolerates recompression noise
	if v := Score(m, ScannedOptions()); v.Score != 0 {
		t.Errorf("Expected no bumps under scanned preset, got %f", v.Score)
	}
}

func TestScore_ReasonsListTopRegions(t *testing.T) {
	m := &Metrics{TamperedRegions: make([]Region, 5)}
	v := Score(m, DefaultOptions())
	// headline plus at most three region lines
	if len(v.Reasons) != 4 {
		t.Errorf("Expected 4 reason lines, got %d: %v", len(v.Reasons), v.Reasons)
	}
}

func TestDegraded(t *testing.T) {
	v := Degraded("fetch failed")
	if v.Score != 0 {
		t.Errorf("Expected zero score, got %f", v.Score)
	}
	if v.Label != LabelLikelyOriginal {
		t.Errorf("Expected original label, got %q", v.Label)
	}
	if len(v.Reasons) != 1 || !strings.HasPrefix(v.Reasons[0], "analysis unavailable") {
		t.Errorf("Expected explicit degradation reason, got %v", v.Reasons)
	}
	if v.Metrics != nil {
		t.Error("Expected no metrics on degraded verdict")
	}
}
