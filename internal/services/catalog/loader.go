// Package catalog loads the scheme catalog at startup. The catalog is
// loaded exactly once, validated entry by entry, and treated as immutable
// for the process lifetime; a catalog that fails to load is fatal.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"scheme-assistant/internal/models"
)

// LoadFromFile reads and validates the scheme catalog from a JSON file.
// Any malformed scheme rejects the whole catalog so that impossible
// criteria are caught at load time, never mid-evaluation.
func LoadFromFile(path string) ([]*models.Scheme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scheme data file: %w", err)
	}

	var schemes []*models.Scheme
	if err := json.Unmarshal(data, &schemes); err != nil {
		return nil, fmt.Errorf("failed to parse scheme data: %w", err)
	}

	return validate(schemes)
}

// validate checks every scheme and rejects the catalog on the first
// malformed entry.
func validate(schemes []*models.Scheme) ([]*models.Scheme, error) {
	seen := make(map[string]bool, len(schemes))
	for i, scheme := range schemes {
		if scheme.ID == "" {
			return nil, fmt.Errorf("invalid scheme at index %d: missing id", i)
		}
		if seen[scheme.ID] {
			return nil, fmt.Errorf("invalid scheme at index %d: duplicate id %q", i, scheme.ID)
		}
		seen[scheme.ID] = true
		if scheme.Name == "" {
			return nil, fmt.Errorf("invalid scheme %q: missing name", scheme.ID)
		}
		if err := scheme.Eligibility.Validate(); err != nil {
			return nil, fmt.Errorf("invalid scheme %q: %w", scheme.ID, err)
		}
	}
	return schemes, nil
}

// Stats summarizes a loaded catalog for startup logging.
type Stats struct {
	TotalSchemes          int `json:"total_schemes"`
	WithTranslations      int `json:"schemes_with_translations"`
	WithAgeRestriction    int `json:"schemes_with_age_restrictions"`
	WithIncomeRestriction int `json:"schemes_with_income_restrictions"`
	WithStateRestriction  int `json:"schemes_with_state_restrictions"`
}

// Summarize computes catalog statistics.
func Summarize(schemes []*models.Scheme) Stats {
	stats := Stats{TotalSchemes: len(schemes)}
	for _, scheme := range schemes {
		if len(scheme.NameTranslations) > 0 || len(scheme.DescriptionTranslations) > 0 {
			stats.WithTranslations++
		}
		if scheme.Eligibility.MinAge != nil || scheme.Eligibility.MaxAge != nil {
			stats.WithAgeRestriction++
		}
		if scheme.Eligibility.IncomeMax != nil {
			stats.WithIncomeRestriction++
		}
		if len(scheme.Eligibility.States) > 0 {
			stats.WithStateRestriction++
		}
	}
	return stats
}
