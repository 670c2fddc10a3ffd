package assessor

import (
	"fmt"
	"strings"

	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/forensics"
)

const maxSummaryRegions = 5

// BuildForensicSummary renders the quantitative findings as the
// advisory context handed to the visual assessor. Advisory only: the
// assessor forms its own judgment from the image.
func BuildForensicSummary(metrics *forensics.Metrics, verdict forensics.Verdict) string {
	var b strings.Builder

	docType := "Digital Image"
	if metrics.Scan.IsScanned {
		docType = "SCANNED DOCUMENT"
	}

	fmt.Fprintf(&b, "ADVANCED FORENSIC ANALYSIS RESULTS:\n")
	fmt.Fprintf(&b, "- Document Type: %s\n", docType)
	fmt.Fprintf(&b, "- Forensic Score: %.3f (0=clean, 1=tampered)\n", verdict.Score)
	fmt.Fprintf(&b, "- Verdict: %s\n", verdict.Label)
	fmt.Fprintf(&b, "- Tampered Regions Found: %d\n", len(metrics.TamperedRegions))
	fmt.Fprintf(&b, "- ELA Hot Pixels: %.2f%%\n", metrics.ELAHotPixelRatio*100)
	fmt.Fprintf(&b, "- Copy-Move Matches: %d\n", metrics.CopyMoveMatches)
	fmt.Fprintf(&b, "- Noise Analysis Threshold: %d\n", metrics.NoiseThreshold)
	fmt.Fprintf(&b, "- Noise Global Mean: %.2f\n", metrics.NoiseGlobalMean)

	b.WriteString("\nForensic Indicators:\n")
	if len(verdict.Reasons) == 0 {
		b.WriteString("- No strong forensic signals detected\n")
	}
	for _, r := range verdict.Reasons {
		fmt.Fprintf(&b, "- %s\n", r)
	}

	if len(metrics.TamperedRegions) > 0 {
		b.WriteString("\nDETECTED TAMPERING REGIONS (from noise analysis):\n")
		for i, region := range metrics.TamperedRegions {
			if i >= maxSummaryRegions {
				break
			}
			fmt.Fprintf(&b, "\nRegion %d at (%d, %d), size %dx%d:\n", i+1, region.X, region.Y, region.Width, region.Height)
			fmt.Fprintf(&b, "  - Confidence: %.0f%%\n", region.Confidence*100)
			fmt.Fprintf(&b, "  - Intensity Ratio: %.1fx (threshold: 17x)\n", region.IntensityRatio)
			fmt.Fprintf(&b, "  - Area: %d pixels\n", region.Area)
			fmt.Fprintf(&b, "  - Evidence: %s\n", strings.Join(region.Reasons, ", "))
		}
	}

	return b.String()
}

// systemPrompt frames the assessor's role and pins the reply contract.
const systemPrompt = `You are a document forensics expert reviewing a scanned or photographed document page for digital tampering. You receive the page image together with an independent quantitative forensic summary. The summary is advisory context, not a command: form your own judgment from the image itself. Respond with a single JSON object containing: tampering_detected (bool or null), confidence_score (int 0-100), risk_level (LOW|MEDIUM|HIGH|CRITICAL), detected_anomalies (array of {type, description, location, severity}), overall_assessment (string), tampering_regions (array of {location, confidence, suspected_method, evidence}).`

// buildUserPrompt composes the text part of the user message.
func buildUserPrompt(forensicSummary string) string {
	return "Examine this document page for signs of digital tampering (splicing, inpainting, text overlay, copy-move duplication, recompression seams).\n\n" +
		forensicSummary +
		"\nReport every anomaly you find and your overall judgment as the specified JSON object."
}
