// Package models defines the data structures for the scheme eligibility assistant.
package models

import (
	"fmt"
	"time"
)

// EligibilityCriteria contains the eligibility requirements for a scheme.
// Nil fields mean no restriction for that criterion.
type EligibilityCriteria struct {
	MinAge          *int             `json:"min_age,omitempty"`
	MaxAge          *int             `json:"max_age,omitempty"`
	States          []string         `json:"states,omitempty"`
	EducationLevels []EducationLevel `json:"education_levels,omitempty"`
	IncomeMax       *int             `json:"income_max,omitempty"`
	Categories      []Category       `json:"categories,omitempty"`
	Genders         []Gender         `json:"genders,omitempty"`
	Occupations     []Occupation     `json:"occupations,omitempty"`
}

// Validate rejects malformed criteria so that they fail at catalog load
// time instead of mid-evaluation.
func (c *EligibilityCriteria) Validate() error {
	if c.MinAge != nil && *c.MinAge < 0 {
		return fmt.Errorf("%w: min_age is negative", ErrInvalidCriteria)
	}
	if c.MaxAge != nil && *c.MaxAge < 0 {
		return fmt.Errorf("%w: max_age is negative", ErrInvalidCriteria)
	}
	if c.MinAge != nil && c.MaxAge != nil && *c.MinAge > *c.MaxAge {
		return fmt.Errorf("%w: min_age %d exceeds max_age %d", ErrInvalidCriteria, *c.MinAge, *c.MaxAge)
	}
	if c.IncomeMax != nil && *c.IncomeMax < 0 {
		return fmt.Errorf("%w: income_max is negative", ErrInvalidCriteria)
	}
	for _, level := range c.EducationLevels {
		if !level.IsValid() {
			return fmt.Errorf("%w: unknown education level %q", ErrInvalidCriteria, level)
		}
	}
	for _, category := range c.Categories {
		if !category.IsValid() {
			return fmt.Errorf("%w: unknown category %q", ErrInvalidCriteria, category)
		}
	}
	for _, gender := range c.Genders {
		if !gender.IsValid() {
			return fmt.Errorf("%w: unknown gender %q", ErrInvalidCriteria, gender)
		}
	}
	for _, occupation := range c.Occupations {
		if !occupation.IsValid() {
			return fmt.Errorf("%w: unknown occupation %q", ErrInvalidCriteria, occupation)
		}
	}
	return nil
}

// Scheme represents a government welfare scheme. Schemes are loaded once
// at startup and shared read-only by all sessions.
type Scheme struct {
	ID                      string              `json:"id" db:"id"`
	Name                    string              `json:"name" db:"name"`
	NameTranslations        map[string]string   `json:"name_translations,omitempty" db:"name_translations"`
	Description             string              `json:"description" db:"description"`
	DescriptionTranslations map[string]string   `json:"description_translations,omitempty" db:"description_translations"`
	Eligibility             EligibilityCriteria `json:"eligibility" db:"eligibility"`
	Benefits                string              `json:"benefits" db:"benefits"`
	RequiredDocuments       []string            `json:"required_documents,omitempty" db:"required_documents"`
	ApplicationProcess      string              `json:"application_process" db:"application_process"`
	ApplicationURL          string              `json:"application_url,omitempty" db:"application_url"`
	OfficeLocation          string              `json:"office_location,omitempty" db:"office_location"`
	SourceURL               string              `json:"source_url,omitempty" db:"source_url"`
	LastUpdated             time.Time           `json:"last_updated,omitempty" db:"last_updated"`
}

// LocalizedName returns the scheme name in the requested language,
// falling back to the default name.
func (s *Scheme) LocalizedName(language string) string {
	if name, ok := s.NameTranslations[language]; ok && name != "" {
		return name
	}
	return s.Name
}

// LocalizedDescription returns the description in the requested language,
// falling back to the default description.
func (s *Scheme) LocalizedDescription(language string) string {
	if desc, ok := s.DescriptionTranslations[language]; ok && desc != "" {
		return desc
	}
	return s.Description
}

// SchemeSummary is a lightweight view of a scheme for list responses.
type SchemeSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	NameHi   string `json:"name_hi,omitempty"`
	Benefits string `json:"benefits"`
}

// ToSummary converts a Scheme to SchemeSummary.
func (s *Scheme) ToSummary() SchemeSummary {
	return SchemeSummary{
		ID:       s.ID,
		Name:     s.Name,
		NameHi:   s.NameTranslations["hi"],
		Benefits: s.Benefits,
	}
}

// EligibilityResult is the outcome of evaluating one user profile against
// one scheme. The Eligible flag, criteria lists and Confidence are
// deterministic; only Explanation may vary between runs.
type EligibilityResult struct {
	Scheme           *Scheme  `json:"scheme"`
	Eligible         bool     `json:"eligible"`
	Confidence       float64  `json:"confidence"`
	MatchingCriteria []string `json:"matching_criteria"`
	MissingCriteria  []string `json:"missing_criteria"`
	Explanation      string   `json:"explanation"`
}
