package models

import (
	"fmt"
	"strings"
)

const reportRule = 85

// RenderReport produces the human-readable tampering report for a
// completed document analysis.
func RenderReport(resp *DocumentAnalysisResponse) string {
	var b strings.Builder
	rule := strings.Repeat("=", reportRule)

	b.WriteString(rule + "\n")
	b.WriteString("DOCUMENT TAMPERING DETECTION REPORT\n")
	b.WriteString(rule + "\n")
	if resp.DocumentName != "" {
		fmt.Fprintf(&b, "Document: %s\n", resp.DocumentName)
	}
	fmt.Fprintf(&b, "Analyzed: %s\n", resp.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Pages: %d\n\n", resp.Summary.PagesAnalyzed)

	fmt.Fprintf(&b, "STATUS: %s\n", resp.Summary.StatusText)
	fmt.Fprintf(&b, "Highest Risk: %s\n", resp.Summary.HighestRisk)
	fmt.Fprintf(&b, "Anomalies Found: %d\n", resp.Summary.TotalAnomalies)
	fmt.Fprintf(&b, "Avg Forensic Score: %.3f\n", resp.Summary.AvgForensicScore)
	fmt.Fprintf(&b, "Avg Assessor Confidence: %.0f%%\n", resp.Summary.AvgAssessorConf)

	for _, page := range resp.Pages {
		b.WriteString("\n" + strings.Repeat("-", reportRule) + "\n")
		fmt.Fprintf(&b, "PAGE %d (%s)\n", page.PageNumber, page.PageRef)
		if page.Degraded {
			b.WriteString("  [degraded: incomplete collaborator data]\n")
		}
		fmt.Fprintf(&b, "  Verdict: %s\n", page.Integrated.Label)
		fmt.Fprintf(&b, "  Risk: %s  Agreement: %s  Combined Score: %.3f\n",
			page.Integrated.Risk, page.Integrated.Agreement, page.Integrated.CombinedScore)
		fmt.Fprintf(&b, "  Forensic: %s (%.3f)\n", page.Forensic.Label, page.Forensic.Score)
		for _, reason := range page.Forensic.Reasons {
			fmt.Fprintf(&b, "    %s\n", reason)
		}
		if a := page.Assessment; a != nil {
			fmt.Fprintf(&b, "  Assessor confidence: %d%%  Risk: %s\n", a.ConfidenceScore, a.RiskLevel)
			if a.OverallAssessment != "" {
				fmt.Fprintf(&b, "  Assessor: %s\n", a.OverallAssessment)
			}
			for _, anomaly := range a.DetectedAnomalies {
				fmt.Fprintf(&b, "    - [%s] %s\n", anomaly.Severity, anomaly.Description)
			}
		}
	}

	b.WriteString("\n" + rule + "\n")
	return b.String()
}
