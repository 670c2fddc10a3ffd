package strategy

import (
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/forensics"
)

// AnalysisStrategy selects the forensic threshold preset for a page.
// The scan classification tunes thresholds but never decides the
// verdict, so strategies only shape Options.
type AnalysisStrategy interface {
	Options() forensics.Options
	GetStrategyName() string
}

// DigitalStrategy uses the calibrated defaults for born-digital pages.
type DigitalStrategy struct{}

func NewDigitalStrategy() AnalysisStrategy { return &DigitalStrategy{} }

func (s *DigitalStrategy) Options() forensics.Options { return forensics.DefaultOptions() }

func (s *DigitalStrategy) GetStrategyName() string { return "digital_analysis" }

// ScannedStrategy relaxes compression-sensitive thresholds for pages
// classified as scans or photocopies.
type ScannedStrategy struct{}

func NewScannedStrategy() AnalysisStrategy { return &ScannedStrategy{} }

func (s *ScannedStrategy) Options() forensics.Options { return forensics.ScannedOptions() }

func (s *ScannedStrategy) GetStrategyName() string { return "scanned_analysis" }

// ForClassification picks the strategy matching a completed scan
// classification.
func ForClassification(sc forensics.ScanClassification) AnalysisStrategy {
	if sc.IsScanned {
		return NewScannedStrategy()
	}
	return NewDigitalStrategy()
}

// AnalysisContext manages the active strategy.
type AnalysisContext struct {
	strategy AnalysisStrategy
}

// NewAnalysisContext creates a new analysis context
func NewAnalysisContext(strategy AnalysisStrategy) *AnalysisContext {
	return &AnalysisContext{strategy: strategy}
}

// SetStrategy changes the analysis strategy
func (c *AnalysisContext) SetStrategy(strategy AnalysisStrategy) {
	c.strategy = strategy
}

// Options returns the current strategy's analysis options.
func (c *AnalysisContext) Options() forensics.Options {
	return c.strategy.Options()
}

// GetCurrentStrategy returns the current strategy name
func (c *AnalysisContext) GetCurrentStrategy() string {
	return c.strategy.GetStrategyName()
}
