package forensics

// VerdictLabel is the page-level forensic call before fusion with the
// visual assessor.
type VerdictLabel string

const (
	LabelLikelyTampered VerdictLabel = "LIKELY TAMPERED"
	LabelLikelyOriginal VerdictLabel = "LIKELY ORIGINAL"
)

// Region is a connected component of the noise-inconsistency map that
// survived the area, margin and intensity-ratio filters.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
	// Area is the component pixel count, not the bounding-box area.
	Area    int `json:"area"`
	CenterX int `json:"center_x"`
	CenterY int `json:"center_y"`
	// Intensity is the mean noise-map value inside the component.
	Intensity float64 `json:"intensity"`
	// IntensityRatio is Intensity over the noise map's global mean;
	// the primary anomaly signal.
	IntensityRatio float64  `json:"intensity_ratio"`
	Confidence     float64  `json:"confidence"`
	Reasons        []string `json:"reasons"`
}

// ScanClassification reports whether the page looks like a scanned or
// photocopied document rather than a born-digital image. The flag tunes
// downstream thresholds but is never binding on the verdict.
type ScanClassification struct {
	IsScanned  bool     `json:"is_scanned"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons"`
}

// NoiseStats carries the global statistics of the noise-inconsistency
// map against which regions were judged.
type NoiseStats struct {
	GlobalMean  float64 `json:"global_mean"`
	GlobalStd   float64 `json:"global_std"`
	Threshold   int     `json:"threshold"`
	NumFeatures int     `json:"num_features"`
}

// CopyMoveMatch is one surviving feature-pair candidate for duplicated
// content within the page.
type CopyMoveMatch struct {
	X1, Y1     int
	X2, Y2     int
	Confidence float64
}

// Metrics is the full quantitative output of one page analysis.
// Produced once per page and read-only thereafter.
type Metrics struct {
	ELAHotPixelRatio float64            `json:"ela_hot_pixels_ratio"`
	TamperedRegions  []Region           `json:"tampered_regions"`
	CopyMoveMatches  int                `json:"copy_move_matches"`
	NoiseThreshold   int                `json:"noise_threshold"`
	NoiseGlobalMean  float64            `json:"noise_global_mean"`
	Scan             ScanClassification `json:"scan_classification"`

	// Supporting signals, diagnostics only.
	SSIMScore          float64 `json:"ssim_score"`
	ChannelVarianceAvg float64 `json:"channel_variance_avg"`
}

// Verdict reduces Metrics to a single forensic score with reasons.
// Metrics back-references the metrics that produced the verdict; nil
// when the page could not be analyzed.
type Verdict struct {
	Score   float64      `json:"score"`
	Label   VerdictLabel `json:"label"`
	Reasons []string     `json:"reasons"`
	Metrics *Metrics     `json:"-"`
}

// Degraded builds the verdict for a page whose raster could not be
// decoded or analyzed. The zero score plus the explicit reason pushes
// fusion into its disagreement path instead of a silent "clean".
func Degraded(reason string) Verdict {
	return Verdict{
		Score:   0,
		Label:   LabelLikelyOriginal,
		Reasons: []string{"analysis unavailable: " + reason},
	}
}
