// Package eligibility implements the rule-based eligibility engine.
//
// The engine is pure: identical (profile, scheme) inputs always produce an
// identical result apart from the explanation string, which callers may
// later replace with AI-generated prose. The eligible flag, the criteria
// lists and the confidence score are never derived from anything but the
// scheme's constraints and the profile.
package eligibility

import (
	"fmt"
	"sort"
	"strings"

	"scheme-assistant/internal/models"
)

// Engine performs rule-based eligibility determination.
type Engine struct{}

// NewEngine creates a new eligibility engine.
func NewEngine() *Engine {
	return &Engine{}
}

// CheckScheme evaluates a user profile against a single scheme.
//
// Each constrained attribute contributes exactly one entry to either the
// matching or the missing list. An unconstrained attribute contributes to
// neither. A constrained attribute whose profile field is unset is a
// missing reason, not an error.
func (e *Engine) CheckScheme(profile *models.UserProfile, scheme *models.Scheme) *models.EligibilityResult {
	criteria := scheme.Eligibility
	matching := make([]string, 0)
	missing := make([]string, 0)

	// Age
	if criteria.MinAge != nil || criteria.MaxAge != nil {
		switch {
		case profile.Age == nil:
			missing = append(missing, "Age information required")
		case criteria.MinAge != nil && *profile.Age < *criteria.MinAge:
			missing = append(missing, fmt.Sprintf("Minimum age requirement: %d years", *criteria.MinAge))
		case criteria.MaxAge != nil && *profile.Age > *criteria.MaxAge:
			missing = append(missing, fmt.Sprintf("Maximum age requirement: %d years", *criteria.MaxAge))
		default:
			matching = append(matching, fmt.Sprintf("Age is within range (%s years)", formatAgeRange(criteria.MinAge, criteria.MaxAge)))
		}
	}

	// State
	if len(criteria.States) > 0 {
		switch {
		case profile.State == nil:
			missing = append(missing, "State information required")
		case !containsFold(criteria.States, *profile.State):
			missing = append(missing, fmt.Sprintf("Scheme only available in: %s", strings.Join(criteria.States, ", ")))
		default:
			matching = append(matching, fmt.Sprintf("State matches (%s)", *profile.State))
		}
	}

	// Education level
	if len(criteria.EducationLevels) > 0 {
		switch {
		case profile.EducationLevel == nil:
			missing = append(missing, "Education level information required")
		case !containsFold(educationStrings(criteria.EducationLevels), string(*profile.EducationLevel)):
			missing = append(missing, fmt.Sprintf("Required education: %s", strings.Join(educationStrings(criteria.EducationLevels), ", ")))
		default:
			matching = append(matching, fmt.Sprintf("Education level matches (%s)", *profile.EducationLevel))
		}
	}

	// Income
	if criteria.IncomeMax != nil {
		switch {
		case profile.IncomeRange == nil:
			missing = append(missing, "Income information required")
		case exceedsIncomeCap(*profile.IncomeRange, *criteria.IncomeMax):
			missing = append(missing, fmt.Sprintf("Maximum income requirement: Rs. %d per year", *criteria.IncomeMax))
		default:
			matching = append(matching, fmt.Sprintf("Income is within limit (Rs. %d per year)", *criteria.IncomeMax))
		}
	}

	// Category
	if len(criteria.Categories) > 0 {
		switch {
		case profile.Category == nil:
			missing = append(missing, "Category information required")
		case !containsFold(categoryStrings(criteria.Categories), string(*profile.Category)):
			missing = append(missing, fmt.Sprintf("Scheme only for: %s", strings.ToUpper(strings.Join(categoryStrings(criteria.Categories), ", "))))
		default:
			matching = append(matching, fmt.Sprintf("Category matches (%s)", strings.ToUpper(string(*profile.Category))))
		}
	}

	// Gender
	if len(criteria.Genders) > 0 {
		switch {
		case profile.Gender == nil:
			missing = append(missing, "Gender information required")
		case !containsFold(genderStrings(criteria.Genders), string(*profile.Gender)):
			missing = append(missing, fmt.Sprintf("Scheme only for: %s", strings.Join(genderStrings(criteria.Genders), ", ")))
		default:
			matching = append(matching, fmt.Sprintf("Gender matches (%s)", *profile.Gender))
		}
	}

	// Occupation
	if len(criteria.Occupations) > 0 {
		switch {
		case profile.Occupation == nil:
			missing = append(missing, "Occupation information required")
		case !containsFold(occupationStrings(criteria.Occupations), string(*profile.Occupation)):
			missing = append(missing, fmt.Sprintf("Scheme only for: %s", strings.Join(occupationStrings(criteria.Occupations), ", ")))
		default:
			matching = append(matching, fmt.Sprintf("Occupation matches (%s)", *profile.Occupation))
		}
	}

	eligible := len(missing) == 0

	// Confidence stays computable for ineligible results; a scheme with no
	// constrained attributes is always a confident match.
	confidence := 1.0
	if total := len(matching) + len(missing); total > 0 {
		confidence = float64(len(matching)) / float64(total)
	}

	result := &models.EligibilityResult{
		Scheme:           scheme,
		Eligible:         eligible,
		Confidence:       confidence,
		MatchingCriteria: matching,
		MissingCriteria:  missing,
	}
	result.Explanation = e.BuildExplanation(result)
	return result
}

// DetermineEligibility evaluates the profile against every scheme and
// returns the eligible ones, ranked by number of matching criteria with
// catalog order as the stable tie-break.
func (e *Engine) DetermineEligibility(profile *models.UserProfile, schemes []*models.Scheme) []*models.EligibilityResult {
	results := make([]*models.EligibilityResult, 0)

	for _, scheme := range schemes {
		result := e.CheckScheme(profile, scheme)
		if result.Eligible {
			results = append(results, result)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return len(results[i].MatchingCriteria) > len(results[j].MatchingCriteria)
	})

	return results
}

// BuildExplanation renders the templated explanation for a result. This is
// the deterministic fallback text and never depends on any AI capability.
func (e *Engine) BuildExplanation(result *models.EligibilityResult) string {
	var b strings.Builder

	if result.Eligible {
		fmt.Fprintf(&b, "You are eligible for %s!\n\n", result.Scheme.Name)
		b.WriteString("You meet the following requirements:\n")
		for _, criterion := range result.MatchingCriteria {
			fmt.Fprintf(&b, "  - %s\n", criterion)
		}
	} else {
		fmt.Fprintf(&b, "You are not eligible for %s.\n\n", result.Scheme.Name)
		if len(result.MissingCriteria) > 0 {
			b.WriteString("Reasons:\n")
			for _, criterion := range result.MissingCriteria {
				fmt.Fprintf(&b, "  - %s\n", criterion)
			}
			b.WriteString("Providing the missing information may change this result.\n")
		}
	}

	return strings.TrimSpace(b.String())
}

// formatAgeRange renders a human-readable age range for explanation text.
func formatAgeRange(min, max *int) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("%d-%d", *min, *max)
	case min != nil:
		return fmt.Sprintf("%d and above", *min)
	case max != nil:
		return fmt.Sprintf("up to %d", *max)
	default:
		return "any"
	}
}

// exceedsIncomeCap reports whether the profile's income range lies above
// the scheme's annual income cap. The open-ended top bracket exceeds any
// finite cap.
func exceedsIncomeCap(r models.IncomeRange, maxRupees int) bool {
	upper := r.UpperBoundRupees()
	if upper < 0 {
		return true
	}
	return upper > maxRupees
}

// containsFold performs a case-insensitive membership test.
func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

func educationStrings(levels []models.EducationLevel) []string {
	out := make([]string, len(levels))
	for i, l := range levels {
		out[i] = string(l)
	}
	return out
}

func categoryStrings(categories []models.Category) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = string(c)
	}
	return out
}

func genderStrings(genders []models.Gender) []string {
	out := make([]string, len(genders))
	for i, g := range genders {
		out[i] = string(g)
	}
	return out
}

func occupationStrings(occupations []models.Occupation) []string {
	out := make([]string, len(occupations))
	for i, o := range occupations {
		out[i] = string(o)
	}
	return out
}
