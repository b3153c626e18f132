// Package models defines the data structures for the scheme eligibility assistant.
package models

import (
	"errors"
	"strings"
)

// Common errors
var (
	ErrInvalidAge            = errors.New("age must be between 1 and 120")
	ErrInvalidEducationLevel = errors.New("invalid education level")
	ErrInvalidIncomeRange    = errors.New("invalid income range")
	ErrInvalidCategory       = errors.New("invalid category")
	ErrInvalidGender         = errors.New("invalid gender")
	ErrInvalidOccupation     = errors.New("invalid occupation")
	ErrInvalidCriteria       = errors.New("invalid eligibility criteria")
	ErrSessionNotFound       = errors.New("session not found")
)

// ValidateAge checks that an age is within the accepted range.
func ValidateAge(age int) error {
	if age < 1 || age > 120 {
		return ErrInvalidAge
	}
	return nil
}

// NormalizeEducationLevel converts common education level spellings to
// standard values.
func NormalizeEducationLevel(level string) EducationLevel {
	normalized := normalizeToken(level)

	levelMap := map[string]EducationLevel{
		"below_10th":     EducationBelow10th,
		"primary":        EducationBelow10th,
		"10th":           Education10thPass,
		"10th_pass":      Education10thPass,
		"matriculation":  Education10thPass,
		"12th":           Education12thPass,
		"12th_pass":      Education12thPass,
		"intermediate":   Education12thPass,
		"graduate":       EducationGraduate,
		"graduation":     EducationGraduate,
		"bachelor":       EducationGraduate,
		"bachelors":      EducationGraduate,
		"degree":         EducationGraduate,
		"postgraduate":   EducationPostgraduate,
		"post_graduate":  EducationPostgraduate,
		"masters":        EducationPostgraduate,
		"master":         EducationPostgraduate,
		"postgraduation": EducationPostgraduate,
	}

	if mapped, ok := levelMap[normalized]; ok {
		return mapped
	}
	return EducationLevel(normalized)
}

// NormalizeIncomeRange converts common income phrasings to standard values.
func NormalizeIncomeRange(r string) IncomeRange {
	normalized := normalizeToken(r)

	rangeMap := map[string]IncomeRange{
		"below_1lakh":  IncomeBelow1Lakh,
		"below_1_lakh": IncomeBelow1Lakh,
		"under_1_lakh": IncomeBelow1Lakh,
		"1_3lakh":      Income1To3Lakh,
		"1_3_lakh":     Income1To3Lakh,
		"1_to_3_lakh":  Income1To3Lakh,
		"3_5lakh":      Income3To5Lakh,
		"3_5_lakh":     Income3To5Lakh,
		"3_to_5_lakh":  Income3To5Lakh,
		"5_8lakh":      Income5To8Lakh,
		"5_8_lakh":     Income5To8Lakh,
		"5_to_8_lakh":  Income5To8Lakh,
		"above_8lakh":  IncomeAbove8Lakh,
		"above_8_lakh": IncomeAbove8Lakh,
		"over_8_lakh":  IncomeAbove8Lakh,
	}

	if mapped, ok := rangeMap[normalized]; ok {
		return mapped
	}
	// The canonical bracket names contain a hyphen, which normalizeToken
	// folds into an underscore; accept them directly as well.
	if ir := IncomeRange(strings.ToLower(strings.TrimSpace(r))); ir.IsValid() {
		return ir
	}
	return IncomeRange(normalized)
}

// NormalizeCategory converts common category spellings to standard values.
func NormalizeCategory(category string) Category {
	normalized := normalizeToken(category)

	categoryMap := map[string]Category{
		"general":              CategoryGeneral,
		"gen":                  CategoryGeneral,
		"obc":                  CategoryOBC,
		"other_backward_class": CategoryOBC,
		"sc":                   CategorySC,
		"scheduled_caste":      CategorySC,
		"st":                   CategoryST,
		"scheduled_tribe":      CategoryST,
	}

	if mapped, ok := categoryMap[normalized]; ok {
		return mapped
	}
	return Category(normalized)
}

// NormalizeGender converts common gender spellings to standard values.
func NormalizeGender(gender string) Gender {
	normalized := normalizeToken(gender)

	genderMap := map[string]Gender{
		"male":   GenderMale,
		"man":    GenderMale,
		"m":      GenderMale,
		"female": GenderFemale,
		"woman":  GenderFemale,
		"f":      GenderFemale,
		"other":  GenderOther,
	}

	if mapped, ok := genderMap[normalized]; ok {
		return mapped
	}
	return Gender(normalized)
}

// NormalizeOccupation converts common occupation spellings to standard values.
func NormalizeOccupation(occupation string) Occupation {
	normalized := normalizeToken(occupation)

	occupationMap := map[string]Occupation{
		"student":        OccupationStudent,
		"studying":       OccupationStudent,
		"farmer":         OccupationFarmer,
		"farming":        OccupationFarmer,
		"agriculture":    OccupationFarmer,
		"employed":       OccupationEmployed,
		"salaried":       OccupationEmployed,
		"job":            OccupationEmployed,
		"self_employed":  OccupationSelfEmployed,
		"selfemployed":   OccupationSelfEmployed,
		"business":       OccupationSelfEmployed,
		"business_owner": OccupationSelfEmployed,
		"entrepreneur":   OccupationSelfEmployed,
		"freelancer":     OccupationSelfEmployed,
		"unemployed":     OccupationUnemployed,
		"jobless":        OccupationUnemployed,
		"not_employed":   OccupationUnemployed,
		"other":          OccupationOther,
	}

	if mapped, ok := occupationMap[normalized]; ok {
		return mapped
	}
	return Occupation(normalized)
}

// normalizeToken lowercases a value and folds separators to underscores.
func normalizeToken(s string) string {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	return normalized
}
