// Package fusion reconciles the quantitative forensic verdict with the
// visual assessor's judgment for one page. Neither signal alone is
// trustworthy: forensic math has false positives on heavily compressed
// or rescanned documents, and the assessor can hallucinate or miss
// subtle edits. The fusion rewards concordance and caps disagreement
// conservatively so no single confident-but-wrong signal produces a
// high-stakes verdict.
package fusion

import (
	"math"

	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/assessor"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/forensics"
)

// Agreement records whether the two signals reached the same call.
type Agreement string

const (
	Agree    Agreement = "AGREE"
	Disagree Agreement = "DISAGREE"
)

// Label is the page-level integrated verdict.
type Label string

const (
	TamperingHighConfidence Label = "TAMPERING DETECTED - HIGH CONFIDENCE"
	LikelyTampered          Label = "LIKELY TAMPERED"
	PossibleTampering       Label = "POSSIBLE TAMPERING - REQUIRES REVIEW"
	Inconclusive            Label = "INCONCLUSIVE - REQUIRES MANUAL REVIEW"
	NoSignificantTampering  Label = "NO SIGNIFICANT TAMPERING DETECTED"
)

// Risk levels, ordered LOW < MEDIUM < HIGH < CRITICAL.
type Risk string

const (
	RiskLow      Risk = "LOW"
	RiskMedium   Risk = "MEDIUM"
	RiskHigh     Risk = "HIGH"
	RiskCritical Risk = "CRITICAL"
)

var riskOrder = map[Risk]int{RiskLow: 0, RiskMedium: 1, RiskHigh: 2, RiskCritical: 3}

// Rank returns the risk's position in the severity ordering; unknown
// values rank lowest.
func (r Risk) Rank() int { return riskOrder[r] }

// MaxRisk returns the more severe of two risks.
func MaxRisk(a, b Risk) Risk {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

const (
	forensicTamperedThreshold = 0.45
	disagreementCap           = 0.6
	highConfidenceThreshold   = 0.7
	reviewThreshold           = 0.35
)

// Integrated is the fused page-level verdict. It references, but does
// not own, the forensic verdict and the assessment it merged.
type Integrated struct {
	CombinedScore      float64              `json:"combined_score"`
	Label              Label                `json:"verdict"`
	Risk               Risk                 `json:"risk_level"`
	Agreement          Agreement            `json:"agreement"`
	ForensicScore      float64              `json:"forensic_contribution"`
	AssessorConfidence float64              `json:"assessor_contribution"`
	Forensic           *forensics.Verdict   `json:"-"`
	Assessment         *assessor.Assessment `json:"-"`
}

// Fuse combines one forensic verdict and one visual assessment into
// the integrated page verdict. Pure function: no I/O, no suspension.
// A nil assessment is the degraded mode: the assessor side counts as
// "clean with zero confidence", which forces the disagreement path
// whenever the forensic score alone crosses the tampering threshold,
// surfacing review instead of a false clean.
func Fuse(forensic forensics.Verdict, assessment *assessor.Assessment) Integrated {
	forensicScore := forensic.Score
	assessorConfidence := assessment.Confidence()

	forensicSaysTampered := forensicScore > forensicTamperedThreshold
	assessorSaysTampered := assessment.SaysTampered()

	var combined float64
	agreement := Agree
	if forensicSaysTampered == assessorSaysTampered {
		if assessorSaysTampered {
			combined = forensicScore*0.5 + assessorConfidence*0.5
		} else {
			// halved to reflect compounded confidence in "clean"
			combined = (forensicScore*0.5 + (1-assessorConfidence)*0.5) * 0.5
		}
	} else {
		agreement = Disagree
		combined = math.Min((forensicScore+assessorConfidence)/2, disagreementCap)
	}

	var label Label
	var risk Risk
	switch {
	case agreement == Agree && forensicSaysTampered && assessorSaysTampered && combined > highConfidenceThreshold:
		label, risk = TamperingHighConfidence, RiskCritical
	case agreement == Agree && forensicSaysTampered && assessorSaysTampered:
		label, risk = LikelyTampered, RiskHigh
	case agreement == Disagree:
		// disagreement is never silently resolved
		label, risk = Inconclusive, RiskMedium
	case combined > reviewThreshold:
		label, risk = PossibleTampering, RiskMedium
	default:
		label, risk = NoSignificantTampering, RiskLow
	}

	return Integrated{
		CombinedScore:      combined,
		Label:              label,
		Risk:               risk,
		Agreement:          agreement,
		ForensicScore:      forensicScore,
		AssessorConfidence: assessorConfidence,
		Forensic:           &forensic,
		Assessment:         assessment,
	}
}
