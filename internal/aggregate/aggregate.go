// Package aggregate rolls per-page integrated verdicts up into one
// document-level summary. It is a join point: every page must have its
// verdict before aggregation runs.
package aggregate

import (
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/errors"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/fusion"
)

const (
	pageIssueScore          = 0.5
	assessorIssueConfidence = 60
)

// Summary is the document-level report. Created once after all pages
// are processed; immutable.
type Summary struct {
	TamperingDetected bool        `json:"tampering_detected"`
	StatusText        string      `json:"status_text"`
	HighestRisk       fusion.Risk `json:"highest_risk_level"`
	PagesAnalyzed     int         `json:"pages_analyzed"`
	TotalAnomalies    int         `json:"total_anomalies_found"`
	AvgForensicScore  float64     `json:"average_forensic_score"`
	AvgAssessorConf   float64     `json:"average_assessor_confidence"`
}

// pageHasIssues flags a page when the fused score is high, fusion
// punted to manual review, or the assessor independently reported
// tampering with solid confidence.
func pageHasIssues(page fusion.Integrated) bool {
	if page.CombinedScore > pageIssueScore || page.Label == fusion.Inconclusive {
		return true
	}
	a := page.Assessment
	return a != nil && a.TamperingDetected != nil && *a.TamperingDetected &&
		a.ConfidenceScore >= assessorIssueConfidence
}

// Aggregate produces the document summary from the ordered page
// verdicts. A document with zero analyzed pages is a fatal error, not
// an empty summary: the worst case must never be averaged away or
// silently suppressed.
func Aggregate(pages []fusion.Integrated) (*Summary, error) {
	if len(pages) == 0 {
		return nil, errors.NewAggregationError("no pages produced a verdict", nil)
	}

	summary := &Summary{
		HighestRisk:   fusion.RiskLow,
		PagesAnalyzed: len(pages),
	}

	anyInconclusive := false
	var forensicSum, confidenceSum float64
	for _, page := range pages {
		if pageHasIssues(page) {
			summary.TamperingDetected = true
		}
		if page.Label == fusion.Inconclusive {
			anyInconclusive = true
		}
		summary.HighestRisk = fusion.MaxRisk(summary.HighestRisk, page.Risk)

		forensicSum += page.ForensicScore
		if page.Assessment != nil {
			confidenceSum += float64(page.Assessment.ConfidenceScore)
			summary.TotalAnomalies += len(page.Assessment.DetectedAnomalies)
		}
	}

	switch {
	case anyInconclusive:
		summary.StatusText = "INCONCLUSIVE - MANUAL REVIEW REQUIRED"
	case summary.TamperingDetected:
		summary.StatusText = "TAMPERING DETECTED"
	default:
		summary.StatusText = "NO TAMPERING DETECTED"
	}

	n := float64(len(pages))
	summary.AvgForensicScore = forensicSum / n
	summary.AvgAssessorConf = confidenceSum / n
	return summary, nil
}
