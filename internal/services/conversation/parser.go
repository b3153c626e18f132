package conversation

import (
	"regexp"
	"strconv"
	"strings"

	"scheme-assistant/internal/models"
)

// Deterministic fallback parsing of user messages. Used whenever the AI
// extraction capability is absent, fails, or reports low confidence.

var agePattern = regexp.MustCompile(`\b(\d{1,3})\b`)

// Indian states and union territories recognized by the keyword matcher,
// keyed by their lowercase form.
var knownStates = map[string]string{
	"andhra pradesh":    "Andhra Pradesh",
	"arunachal pradesh": "Arunachal Pradesh",
	"assam":             "Assam",
	"bihar":             "Bihar",
	"chhattisgarh":      "Chhattisgarh",
	"delhi":             "Delhi",
	"goa":               "Goa",
	"gujarat":           "Gujarat",
	"haryana":           "Haryana",
	"himachal pradesh":  "Himachal Pradesh",
	"jammu and kashmir": "Jammu and Kashmir",
	"jharkhand":         "Jharkhand",
	"karnataka":         "Karnataka",
	"kerala":            "Kerala",
	"madhya pradesh":    "Madhya Pradesh",
	"maharashtra":       "Maharashtra",
	"manipur":           "Manipur",
	"meghalaya":         "Meghalaya",
	"mizoram":           "Mizoram",
	"nagaland":          "Nagaland",
	"odisha":            "Odisha",
	"punjab":            "Punjab",
	"rajasthan":         "Rajasthan",
	"sikkim":            "Sikkim",
	"tamil nadu":        "Tamil Nadu",
	"telangana":         "Telangana",
	"tripura":           "Tripura",
	"uttar pradesh":     "Uttar Pradesh",
	"uttarakhand":       "Uttarakhand",
	"west bengal":       "West Bengal",
}

// ParseFieldAnswer interprets a message as the answer to one guided
// question. It returns a partial profile carrying at most that single
// field; an empty partial means parsing failed and the question should be
// re-asked.
func ParseFieldAnswer(field, message string) *models.PartialProfile {
	partial := &models.PartialProfile{}
	lower := strings.ToLower(message)

	switch field {
	case models.FieldAge:
		partial.Age = parseAge(lower)
	case models.FieldState:
		partial.State = parseState(lower)
	case models.FieldEducationLevel:
		partial.EducationLevel = parseEducation(lower)
	case models.FieldIncomeRange:
		partial.IncomeRange = parseIncome(lower)
	case models.FieldCategory:
		partial.Category = parseCategory(lower)
	case models.FieldGender:
		partial.Gender = parseGender(lower)
	case models.FieldOccupation:
		partial.Occupation = parseOccupation(lower)
	}

	return partial
}

// ScanMessage runs every field matcher over the message. Used when no
// guided question is pending, so a volunteered answer still lands.
func ScanMessage(message string) *models.PartialProfile {
	lower := strings.ToLower(message)
	return &models.PartialProfile{
		Age:            parseAge(lower),
		State:          parseState(lower),
		EducationLevel: parseEducation(lower),
		IncomeRange:    parseIncome(lower),
		Category:       parseCategory(lower),
		Gender:         parseGender(lower),
		Occupation:     parseOccupation(lower),
	}
}

func parseAge(lower string) *int {
	match := agePattern.FindStringSubmatch(lower)
	if match == nil {
		return nil
	}
	age, err := strconv.Atoi(match[1])
	if err != nil || models.ValidateAge(age) != nil {
		return nil
	}
	return &age
}

func parseState(lower string) *string {
	for key, name := range knownStates {
		if strings.Contains(lower, key) {
			state := name
			return &state
		}
	}
	return nil
}

func parseEducation(lower string) *models.EducationLevel {
	var level models.EducationLevel
	switch {
	case containsAny(lower, "postgraduate", "post graduate", "masters", "master's", "pg"):
		level = models.EducationPostgraduate
	case containsAny(lower, "graduate", "degree", "bachelor"):
		level = models.EducationGraduate
	case containsAny(lower, "12th", "intermediate", "higher secondary"):
		level = models.Education12thPass
	case containsAny(lower, "10th", "matriculation", "matric"):
		level = models.Education10thPass
	case containsAny(lower, "below 10", "primary", "no schooling"):
		level = models.EducationBelow10th
	default:
		return nil
	}
	return &level
}

func parseIncome(lower string) *models.IncomeRange {
	var r models.IncomeRange
	switch {
	case containsAny(lower, "below 1 lakh", "less than 1 lakh", "under 1 lakh"):
		r = models.IncomeBelow1Lakh
	case containsAny(lower, "1-3 lakh", "1 to 3 lakh", "1-3lakh"):
		r = models.Income1To3Lakh
	case containsAny(lower, "3-5 lakh", "3 to 5 lakh", "3-5lakh"):
		r = models.Income3To5Lakh
	case containsAny(lower, "5-8 lakh", "5 to 8 lakh", "5-8lakh"):
		r = models.Income5To8Lakh
	case containsAny(lower, "above 8 lakh", "more than 8 lakh", "over 8 lakh"):
		r = models.IncomeAbove8Lakh
	default:
		return nil
	}
	return &r
}

func parseCategory(lower string) *models.Category {
	tokens := tokenize(lower)
	var category models.Category
	switch {
	case containsAny(lower, "scheduled caste") || tokens["sc"]:
		category = models.CategorySC
	case containsAny(lower, "scheduled tribe") || tokens["st"]:
		category = models.CategoryST
	case containsAny(lower, "other backward") || tokens["obc"]:
		category = models.CategoryOBC
	case tokens["general"] || tokens["gen"]:
		category = models.CategoryGeneral
	default:
		return nil
	}
	return &category
}

func parseGender(lower string) *models.Gender {
	tokens := tokenize(lower)
	var gender models.Gender
	switch {
	// "female" contains "male", so token matching is required here.
	case tokens["female"] || tokens["woman"] || tokens["girl"]:
		gender = models.GenderFemale
	case tokens["male"] || tokens["man"] || tokens["boy"]:
		gender = models.GenderMale
	case tokens["other"]:
		gender = models.GenderOther
	default:
		return nil
	}
	return &gender
}

func parseOccupation(lower string) *models.Occupation {
	var occupation models.Occupation
	switch {
	case containsAny(lower, "student", "studying"):
		occupation = models.OccupationStudent
	case containsAny(lower, "farmer", "farming", "agriculture"):
		occupation = models.OccupationFarmer
	case containsAny(lower, "self-employed", "self employed", "business", "entrepreneur", "freelancer"):
		occupation = models.OccupationSelfEmployed
	case containsAny(lower, "unemployed", "jobless", "no job"):
		occupation = models.OccupationUnemployed
	case containsAny(lower, "employed", "salaried", "working"):
		occupation = models.OccupationEmployed
	default:
		return nil
	}
	return &occupation
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func tokenize(lower string) map[string]bool {
	tokens := make(map[string]bool)
	for _, token := range strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		tokens[token] = true
	}
	return tokens
}
