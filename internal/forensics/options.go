package forensics

// Options provides flexible configuration for page forensics. The
// defaults are the calibrated values; presets exist for the scanned
// document case where recompression noise runs hotter.
type Options struct {
	// Region extraction
	MinRegionArea      int     // connected component pixel minimum
	BorderMargin       int     // interior margin regions must respect
	MaxAreaFraction    float64 // component ceiling relative to page area
	HighIntensityRatio float64 // accept outright at this ratio
	MedIntensityRatio  float64 // accept at this ratio when the area is large
	MedRatioMinArea    int

	// Error-level analysis
	ELAQuality   int
	ELAGain      float64
	ELAHotCutoff uint8
	ELAHotRatio  float64

	// Copy-move detection
	MaxFeatures      int
	MatchRatio       float64
	MinMatchDistance float64
	CopyMoveMinCount int

	// Scoring
	ScoreThreshold float64

	// Feature toggles
	SkipCopyMove   bool
	SkipSupporting bool // SSIM + channel variance diagnostics

	// ArtifactPrefix namespaces diagnostic artifacts for this page,
	// e.g. "page_3". Required for collision-free parallel runs.
	ArtifactPrefix string
}

func (o Options) artifactName(name string) string {
	if o.ArtifactPrefix == "" {
		return name
	}
	return o.ArtifactPrefix + "_" + name
}

// DefaultOptions returns the calibrated analysis configuration.
func DefaultOptions() Options {
	return Options{
		MinRegionArea:      80,
		BorderMargin:       5,
		MaxAreaFraction:    0.15,
		HighIntensityRatio: 17,
		MedIntensityRatio:  12,
		MedRatioMinArea:    500,
		ELAQuality:         90,
		ELAGain:            15,
		ELAHotCutoff:       30,
		ELAHotRatio:        0.02,
		MaxFeatures:        1000,
		MatchRatio:         0.75,
		MinMatchDistance:   50,
		CopyMoveMinCount:   10,
		ScoreThreshold:     0.45,
	}
}

// ScannedOptions relaxes the compression-sensitive thresholds for
// pages classified as scans: rescanned paper recompresses the whole
// page, so ELA and repeated-texture signals run hotter on clean input.
func ScannedOptions() Options {
	opts := DefaultOptions()
	opts.ELAHotRatio = 0.04
	opts.CopyMoveMinCount = 15
	return opts
}

// FastOptions skips the non-load-bearing signals.
func FastOptions() Options {
	opts := DefaultOptions()
	opts.SkipSupporting = true
	return opts
}
