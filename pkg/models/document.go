package models

import (
	"time"

	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/aggregate"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/assessor"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/forensics"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/fusion"
)

// DocumentAnalysisRequest asks for tampering analysis over the ordered
// pages of one document.
type DocumentAnalysisRequest struct {
	// Pages holds one reference per page, in page order.
	Pages []string `json:"pages" binding:"required"`
	// Storage selects the page backend: http (default), azure, local.
	Storage string `json:"storage,omitempty"`
	// DocumentName labels the report.
	DocumentName string `json:"document_name,omitempty"`
	// IncludePages controls whether per-page detail is returned.
	IncludePages bool `json:"include_pages,omitempty"`
}

// PageVerdict is one page's complete integrated result.
type PageVerdict struct {
	PageNumber int               `json:"page_number"`
	PageRef    string            `json:"page_ref"`
	Forensic   forensics.Verdict `json:"forensic_verdict"`
	// Metrics is nil when the page ran in degraded mode.
	Metrics *forensics.Metrics `json:"forensic_metrics,omitempty"`
	// Assessment is nil when the visual assessor was unavailable or
	// returned an unusable reply.
	Assessment *assessor.Assessment `json:"visual_assessment,omitempty"`
	Integrated fusion.Integrated    `json:"integrated_verdict"`
	Degraded   bool                 `json:"degraded,omitempty"`
}

// DocumentAnalysisResponse carries the document summary plus the full
// ordered page verdicts, sufficient to render a report without
// recomputation.
type DocumentAnalysisResponse struct {
	DocumentName      string             `json:"document_name,omitempty"`
	Timestamp         time.Time          `json:"timestamp"`
	ProcessingTimeSec float64            `json:"processing_time_sec"`
	Summary           *aggregate.Summary `json:"summary"`
	Pages             []PageVerdict      `json:"pages,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
