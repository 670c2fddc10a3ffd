package assessor

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Assessment is the structured tampering judgment returned by the
// visual-reasoning service. It is treated as opaque input downstream
// and never mutated. The service's JSON cannot be trusted field by
// field, so decoding is lenient: anything missing or mistyped defaults
// to false/0/empty instead of failing the page.
type Assessment struct {
	// TamperingDetected is nil when the assessor could not commit to
	// a judgment.
	TamperingDetected *bool
	ConfidenceScore   int // 0..100
	RiskLevel         string
	DetectedAnomalies []Anomaly
	OverallAssessment string
	TamperingRegions  []RegionFinding
}

// Anomaly is one finding reported by the assessor.
type Anomaly struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Severity    string `json:"severity"`
}

// RegionFinding is an assessor-reported suspicious region.
type RegionFinding struct {
	Location        string `json:"location"`
	Confidence      int    `json:"confidence"`
	SuspectedMethod string `json:"suspected_method"`
	Evidence        string `json:"evidence"`
}

// SaysTampered applies the assessor-side decision rule: an explicit
// positive judgment backed by more than 50% confidence.
func (a *Assessment) SaysTampered() bool {
	if a == nil || a.TamperingDetected == nil {
		return false
	}
	return *a.TamperingDetected && float64(a.ConfidenceScore)/100.0 > 0.5
}

// Confidence returns the confidence score as a fraction, 0 for a nil
// (absent/errored) assessment.
func (a *Assessment) Confidence() float64 {
	if a == nil {
		return 0
	}
	return float64(a.ConfidenceScore) / 100.0
}

// decodeAssessment parses the assessor's reply body. A reported error
// field or an unparseable body yields (nil, false); individual bad
// fields only zero themselves.
func decodeAssessment(body []byte) (*Assessment, bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, false
	}
	if msg, ok := raw["error"]; ok {
		var errText string
		if json.Unmarshal(msg, &errText) == nil && errText != "" {
			return nil, false
		}
	}

	a := &Assessment{}
	if v, ok := raw["tampering_detected"]; ok {
		var b bool
		if json.Unmarshal(v, &b) == nil {
			a.TamperingDetected = &b
		}
	}
	a.ConfidenceScore = decodeScore(raw["confidence_score"])
	if v, ok := raw["risk_level"]; ok {
		var s string
		if json.Unmarshal(v, &s) == nil {
			a.RiskLevel = strings.ToUpper(strings.TrimSpace(s))
		}
	}
	if v, ok := raw["detected_anomalies"]; ok {
		var anomalies []Anomaly
		if json.Unmarshal(v, &anomalies) == nil {
			a.DetectedAnomalies = anomalies
		}
	}
	if v, ok := raw["overall_assessment"]; ok {
		var s string
		if json.Unmarshal(v, &s) == nil {
			a.OverallAssessment = s
		}
	}
	if v, ok := raw["tampering_regions"]; ok {
		var regions []RegionFinding
		if json.Unmarshal(v, &regions) == nil {
			a.TamperingRegions = regions
		}
	}
	return a, true
}

// decodeScore accepts a number or a numeric string and clamps into
// [0,100].
func decodeScore(v json.RawMessage) int {
	if v == nil {
		return 0
	}
	var f float64
	if json.Unmarshal(v, &f) != nil {
		var s string
		if json.Unmarshal(v, &s) != nil {
			return 0
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		f = parsed
	}
	if f < 0 {
		return 0
	}
	if f > 100 {
		return 100
	}
	return int(f)
}
