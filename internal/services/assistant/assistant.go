// Package assistant provides the optional AI capabilities: extracting
// profile fields from free-form text and rewriting eligibility
// explanations. Both capabilities are advisory; the dialog controller
// treats any failure, timeout or absence as a signal to use its
// deterministic path, and nothing here may influence an eligibility
// verdict.
package assistant

import (
	"context"

	"scheme-assistant/internal/models"
)

// Extractor turns a free-form user message into a partial profile with a
// self-reported confidence in [0, 1]. Implementations must enforce the
// configured capability timeout themselves; callers treat an error, a
// timeout and an unavailable capability identically.
type Extractor interface {
	Available() bool
	ExtractProfile(ctx context.Context, text, language string) (*models.PartialProfile, float64, error)
}

// Explainer rewrites a deterministic eligibility result into friendlier
// prose. The returned text replaces only the explanation string; the
// verdict and reason lists are never derived from it.
type Explainer interface {
	Available() bool
	GenerateExplanation(ctx context.Context, req *ExplanationRequest) (string, error)
}

// ExplanationRequest carries the deterministic facts an explanation must
// be grounded on.
type ExplanationRequest struct {
	SchemeName       string
	Eligible         bool
	MatchingCriteria []string
	MissingCriteria  []string
	Profile          *models.UserProfile
	Language         string
}

// Status describes capability availability for the diagnostics endpoint.
// It is informational only and never consulted by eligibility logic.
type Status struct {
	Enabled  bool            `json:"enabled"`
	Model    string          `json:"model,omitempty"`
	Features map[string]bool `json:"features"`
}
