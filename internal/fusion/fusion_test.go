package fusion

import (
	"math"
	"testing"

	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/assessor"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/forensics"
)

func assessment(detected bool, confidence int) *assessor.Assessment {
	return &assessor.Assessment{TamperingDetected: &detected, ConfidenceScore: confidence}
}

func forensicVerdict(score float64) forensics.Verdict {
	label := forensics.LabelLikelyOriginal
	if score > 0.45 {
		label = forensics.LabelLikelyTampered
	}
	return forensics.Verdict{Score: score, Label: label}
}

func TestFuse_AgreementOnTamperingHighConfidence(t *testing.T) {
	result := Fuse(forensicVerdict(0.8), assessment(true, 90))

	if result.Agreement != Agree {
		t.Errorf("Expected AGREE, got %s", result.Agreement)
	}
	if !nearlyEqual(result.CombinedScore, 0.85) {
		t.Errorf("Expected equal-weight average 0.85, got %f", result.CombinedScore)
	}
	if result.Label != TamperingHighConfidence {
		t.Errorf("Expected high-confidence verdict, got %q", result.Label)
	}
	if result.Risk != RiskCritical {
		t.Errorf("Expected CRITICAL risk, got %s", result.Risk)
	}
}

func TestFuse_AgreementOnTamperingModerate(t *testing.T) {
	result := Fuse(forensicVerdict(0.5), assessment(true, 60))

	if !nearlyEqual(result.CombinedScore, 0.55) {
		t.Errorf("Expected 0.55, got %f", result.CombinedScore)
	}
	if result.Label != LikelyTampered {
		t.Errorf("Expected likely-tampered verdict, got %q", result.Label)
	}
	if result.Risk != RiskHigh {
		t.Errorf("Expected HIGH risk, got %s", result.Risk)
	}
}

func TestFuse_AgreementOnClean(t *testing.T) {
	result := Fuse(forensicVerdict(0.2), assessment(false, 80))

	if result.Agreement != Agree {
		t.Errorf("Expected AGREE, got %s", result.Agreement)
	}
	// concordant clean halves the blended score
	want := (0.2*0.5 + (1-0.8)*0.5) * 0.5
	if !nearlyEqual(result.CombinedScore, want) {
		t.Errorf("Expected %f, got %f", want, result.CombinedScore)
	}
	if result.Label != NoSignificantTampering {
		t.Errorf("Expected clean verdict, got %q", result.Label)
	}
	if result.Risk != RiskLow {
		t.Errorf("Expected LOW risk, got %s", result.Risk)
	}
}

func TestFuse_DisagreementIsCapped(t *testing.T) {
	// forensics screams, assessor denies: the average would be 0.8
	result := Fuse(forensicVerdict(0.8), assessment(false, 80))

	if result.Agreement != Disagree {
		t.Errorf("Expected DISAGREE, got %s", result.Agreement)
	}
	if !nearlyEqual(result.CombinedScore, 0.6) {
		t.Errorf("Expected disagreement cap 0.6, got %f", result.CombinedScore)
	}
	if result.Label != Inconclusive {
		t.Errorf("Expected inconclusive verdict, got %q", result.Label)
	}
	if result.Risk != RiskMedium {
		t.Errorf("Expected MEDIUM risk, got %s", result.Risk)
	}
}

func TestFuse_DisagreementAssessorOnly(t *testing.T) {
	result := Fuse(forensicVerdict(0.1), assessment(true, 90))

	if result.Agreement != Disagree {
		t.Errorf("Expected DISAGREE, got %s", result.Agreement)
	}
	if !nearlyEqual(result.CombinedScore, 0.5) {
		t.Errorf("Expected 0.5, got %f", result.CombinedScore)
	}
	if result.Label != Inconclusive {
		t.Errorf("Expected inconclusive verdict, got %q", result.Label)
	}
}

func TestFuse_NilAssessmentForcesDisagreementOnTamperedPage(t *testing.T) {
	// a missing assessment must never convert a hot forensic score
	// into a clean verdict
	result := Fuse(forensicVerdict(0.8), nil)

	if result.Agreement != Disagree {
		t.Errorf("Expected DISAGREE on degraded page, got %s", result.Agreement)
	}
	if !nearlyEqual(result.CombinedScore, 0.4) {
		t.Errorf("Expected 0.4, got %f", result.CombinedScore)
	}
	if result.Label != Inconclusive {
		t.Errorf("Expected inconclusive verdict, got %q", result.Label)
	}
	if result.AssessorConfidence != 0 {
		t.Errorf("Expected zero assessor contribution, got %f", result.AssessorConfidence)
	}
}

func TestFuse_NilAssessmentCleanPage(t *testing.T) {
	result := Fuse(forensicVerdict(0.1), nil)

	if result.Agreement != Agree {
		t.Errorf("Expected AGREE, got %s", result.Agreement)
	}
	if result.Label != NoSignificantTampering {
		t.Errorf("Expected clean verdict, got %q", result.Label)
	}
}

func TestFuse_PossibleTamperingBand(t *testing.T) {
	// agree-clean but the blended score still lands over the review cut
	result := Fuse(forensicVerdict(0.45), nil)

	want := (0.45*0.5 + 0.5) * 0.5
	if !nearlyEqual(result.CombinedScore, want) {
		t.Errorf("Expected %f, got %f", want, result.CombinedScore)
	}
	if result.Label != PossibleTampering {
		t.Errorf("Expected review verdict, got %q", result.Label)
	}
	if result.Risk != RiskMedium {
		t.Errorf("Expected MEDIUM risk, got %s", result.Risk)
	}
}

func TestFuse_ForensicThresholdBoundary(t *testing.T) {
	// exactly at the threshold counts as not tampered
	result := Fuse(forensicVerdict(0.45), assessment(false, 70))
	if result.Agreement != Agree {
		t.Errorf("Expected score at threshold to side with clean, got %s", result.Agreement)
	}

	result = Fuse(forensicVerdict(0.46), assessment(false, 70))
	if result.Agreement != Disagree {
		t.Errorf("Expected score above threshold to disagree, got %s", result.Agreement)
	}
}

func TestFuse_AssessorConfidenceBoundary(t *testing.T) {
	// a positive judgment at exactly 50% confidence does not count
	result := Fuse(forensicVerdict(0.8), assessment(true, 50))
	if result.Agreement != Disagree {
		t.Errorf("Expected 50%% confidence to read as not-tampered, got %s", result.Agreement)
	}

	result = Fuse(forensicVerdict(0.8), assessment(true, 51))
	if result.Agreement != Agree {
		t.Errorf("Expected 51%% confidence to read as tampered, got %s", result.Agreement)
	}
}

func TestFuse_CarriesInputs(t *testing.T) {
	a := assessment(true, 90)
	result := Fuse(forensicVerdict(0.8), a)

	if result.Assessment != a {
		t.Error("Expected assessment to be carried on the integrated verdict")
	}
	if result.Forensic == nil || result.Forensic.Score != 0.8 {
		t.Error("Expected forensic verdict to be carried on the integrated verdict")
	}
	if result.ForensicScore != 0.8 || result.AssessorConfidence != 0.9 {
		t.Errorf("Expected contribution fields 0.8/0.9, got %f/%f",
			result.ForensicScore, result.AssessorConfidence)
	}
}

func TestMaxRisk(t *testing.T) {
	tests := []struct {
		a, b, want Risk
	}{
		{RiskLow, RiskMedium, RiskMedium},
		{RiskCritical, RiskHigh, RiskCritical},
		{RiskLow, RiskLow, RiskLow},
		{RiskMedium, RiskCritical, RiskCritical},
	}
	for _, tt := range tests {
		if got := MaxRisk(tt.a, tt.b); got != tt.want {
			t.Errorf("MaxRisk(%s, %s) = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRiskRank_Ordering(t *testing.T) {
	order := []Risk{RiskLow, RiskMedium, RiskHigh, RiskCritical}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Errorf("Expected %s to rank above %s", order[i], order[i-1])
		}
	}
	if Risk("UNKNOWN").Rank() != 0 {
		t.Errorf("Expected unknown risk to rank lowest, got %d", Risk("UNKNOWN").Rank())
	}
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}
