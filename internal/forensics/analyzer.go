package forensics

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/artifacts"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/logger"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/raster"
)

// Analyzer computes the quantitative tampering signals for one page
// raster and reduces them to a forensic verdict. Implementations are
// deterministic: the same raster always yields identical metrics.
type Analyzer interface {
	Analyze(r *raster.Raster, opts Options) (*Metrics, Verdict)
	Close() error
}

// coreAnalyzer implements Analyzer and orchestrates the signal chain.
type coreAnalyzer struct {
	pool *WorkerPool
	sink artifacts.Sink
}

// NewAnalyzer creates an analyzer emitting diagnostics to the given
// sink. Pass artifacts.NopSink{} to disable the side channel; verdicts
// are identical either way.
func NewAnalyzer(sink artifacts.Sink, workers int) Analyzer {
	if sink == nil {
		sink = artifacts.NopSink{}
	}
	pool := NewWorkerPool(workers)
	pool.Start()
	return &coreAnalyzer{pool: pool, sink: sink}
}

// Analyze runs the full signal chain. Independent signals run
// concurrently on the worker pool and join before scoring, so the
// output ordering is deterministic.
func (ca *coreAnalyzer) Analyze(r *raster.Raster, opts Options) (*Metrics, Verdict) {
	gray := r.Gray()
	w, h := r.Width, r.Height

	metrics := &Metrics{}
	var (
		noise    []uint8
		mask     []uint8
		stats    NoiseStats
		elaMap   []uint8
		elaErr   error
		matches  []CopyMoveMatch
		wg       sync.WaitGroup
	)

	ca.pool.Run(&wg, func() {
		noise = noiseMap(gray, w, h)
		metrics.TamperedRegions, mask, stats = extractTamperedRegions(noise, w, h, opts)
	})
	ca.pool.Run(&wg, func() {
		elaMap, metrics.ELAHotPixelRatio, elaErr = errorLevel(r, opts)
	})
	ca.pool.Run(&wg, func() {
		metrics.Scan = classifyScan(gray, w, h)
	})
	if !opts.SkipCopyMove {
		ca.pool.Run(&wg, func() {
			matches = detectCopyMove(gray, w, h, opts)
		})
	}
	wg.Wait()

	if elaErr != nil {
		// keep the remaining signals; ELA simply contributes nothing
		logger.WithError(elaErr).Warn("error-level analysis failed")
		metrics.ELAHotPixelRatio = 0
	}

	metrics.CopyMoveMatches = len(matches)
	metrics.NoiseThreshold = stats.Threshold
	metrics.NoiseGlobalMean = stats.GlobalMean

	var chanVar []uint8
	if !opts.SkipSupporting {
		metrics.SSIMScore = ssimVsBlur(gray, w, h)
		chanVar, metrics.ChannelVarianceAvg = channelVarianceMap(r)
	}

	ca.emitDiagnostics(r, opts, gray, noise, mask, elaMap, chanVar, matches)

	return metrics, Score(metrics, opts)
}

// Score reduces metrics to the forensic verdict. Tampered regions
// dominate; copy-move and ELA are corroborating bumps. Exposed so a
// strategy can rescore existing metrics under a different threshold
// preset without re-running the signal chain.
func Score(m *Metrics, opts Options) Verdict {
	score := 0.0
	var reasons []string

	if n := len(m.TamperedRegions); n > 0 {
		score += math.Min(float64(n)*0.3, 0.6)
		reasons = append(reasons, fmt.Sprintf("Detected %d tampered regions via noise analysis", n))
		for i, region := range m.TamperedRegions {
			if i >= 3 {
				break
			}
			reasons = append(reasons, fmt.Sprintf("  Region at (%d,%d) - intensity ratio: %.1f",
				region.X, region.Y, region.IntensityRatio))
		}
	}

	if m.CopyMoveMatches > opts.CopyMoveMinCount {
		score += 0.2
		reasons = append(reasons, fmt.Sprintf("Copy-move indicators: %d suspicious matches", m.CopyMoveMatches))
	}

	if m.ELAHotPixelRatio > opts.ELAHotRatio {
		score += 0.15
		reasons = append(reasons, fmt.Sprintf("ELA hot pixels: %.2f%%", m.ELAHotPixelRatio*100))
	}

	score = math.Min(score, 1.0)
	label := LabelLikelyOriginal
	if score > opts.ScoreThreshold {
		label = LabelLikelyTampered
	}
	return Verdict{Score: score, Label: label, Reasons: reasons, Metrics: m}
}

// emitDiagnostics pushes the signal maps through the artifact sink.
// Failures are logged and swallowed: diagnostics never affect the
// verdict.
func (ca *coreAnalyzer) emitDiagnostics(r *raster.Raster, opts Options, gray []float64, noise, mask, elaMap, chanVar []uint8, matches []CopyMoveMatch) {
	if _, isNop := ca.sink.(artifacts.NopSink); isNop {
		return
	}
	w, h := r.Width, r.Height
	emitGray := func(name string, plane []uint8) {
		if plane == nil {
			return
		}
		if err := ca.sink.Write(opts.artifactName(name), artifacts.GrayImage(plane, w, h)); err != nil {
			logger.WithError(err).WithField("artifact", name).Warn("artifact emission failed")
		}
	}
	emitGray("noise_analysis", noise)
	emitGray("noise_regions", mask)
	emitGray("ela", elaMap)
	emitGray("channel_variance", chanVar)
	emitGray("noise_anomaly", localNoiseAnomaly(gray, w, h))

	if len(matches) > 0 {
		overlay := copyMoveOverlay(r, matches)
		if err := ca.sink.Write(opts.artifactName("copy_move"), overlay); err != nil {
			logger.WithError(err).WithField("artifact", "copy_move").Warn("artifact emission failed")
		}
	}
}

// Close releases the worker pool.
func (ca *coreAnalyzer) Close() error {
	ca.pool.Close()
	return nil
}

// copyMoveOverlay marks up the page image with the first 20 match
// pairs: source point red, twin point green, connecting line blue.
func copyMoveOverlay(r *raster.Raster, matches []CopyMoveMatch) *image.RGBA {
	img := r.ToImage()
	red := color.RGBA{R: 255, A: 255}
	green := color.RGBA{G: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}

	for i, m := range matches {
		if i >= 20 {
			break
		}
		drawDisc(img, m.X1, m.Y1, 5, red)
		drawDisc(img, m.X2, m.Y2, 5, green)
		drawLine(img, m.X1, m.Y1, m.X2, m.Y2, blue)
	}
	return img
}

func drawDisc(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	bounds := img.Bounds()
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			p := image.Pt(cx+dx, cy+dy)
			if p.In(bounds) {
				img.SetRGBA(p.X, p.Y, c)
			}
		}
	}
}

func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	steps := maxInt(absInt(x2-x1), absInt(y2-y1))
	if steps == 0 {
		return
	}
	bounds := img.Bounds()
	for i := 0; i <= steps; i++ {
		x := x1 + (x2-x1)*i/steps
		y := y1 + (y2-y1)*i/steps
		if (image.Point{X: x, Y: y}).In(bounds) {
			img.SetRGBA(x, y, c)
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
