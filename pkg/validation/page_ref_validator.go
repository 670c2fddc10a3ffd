package validation

import (
	"net/url"
	"strings"

	apperrors "github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/errors"
)

// PageRefValidator validates page references before a fetch is issued.
type PageRefValidator struct {
	allowedSchemes []string
	allowedHosts   []string
}

// NewPageRefValidator creates a validator with default settings:
// http(s) plus schemeless local paths, any host.
func NewPageRefValidator() *PageRefValidator {
	return &PageRefValidator{
		allowedSchemes: []string{"http", "https", ""},
		allowedHosts:   []string{}, // empty means all hosts allowed
	}
}

// NewPageRefValidatorWithOptions creates a validator with custom
// scheme and host allow-lists.
func NewPageRefValidatorWithOptions(schemes []string, hosts []string) *PageRefValidator {
	return &PageRefValidator{
		allowedSchemes: schemes,
		allowedHosts:   hosts,
	}
}

// Validate checks whether a page reference is acceptable.
func (v *PageRefValidator) Validate(ref string) error {
	if strings.TrimSpace(ref) == "" {
		return apperrors.NewValidationError("page reference cannot be empty", nil)
	}

	parsed, err := url.Parse(ref)
	if err != nil {
		return apperrors.NewValidationError("invalid page reference format", err)
	}

	if !v.isSchemeAllowed(parsed.Scheme) {
		return apperrors.NewValidationError("page reference scheme not allowed", nil)
	}

	if parsed.Scheme != "" && parsed.Host == "" {
		return apperrors.NewValidationError("page URL must have a valid host", nil)
	}

	if len(v.allowedHosts) > 0 && !v.isHostAllowed(parsed.Host) {
		return apperrors.NewValidationError("page URL host not allowed", nil)
	}

	return nil
}

func (v *PageRefValidator) isSchemeAllowed(scheme string) bool {
	for _, allowed := range v.allowedSchemes {
		if scheme == allowed {
			return true
		}
	}
	return false
}

// isHostAllowed returns true if no host restrictions are set.
func (v *PageRefValidator) isHostAllowed(host string) bool {
	if len(v.allowedHosts) == 0 {
		return true
	}
	for _, allowed := range v.allowedHosts {
		if host == allowed {
			return true
		}
	}
	return false
}
