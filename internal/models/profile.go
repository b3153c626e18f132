// Package models defines the data structures for the scheme eligibility assistant.
package models

// EducationLevel represents a user's highest completed education level.
type EducationLevel string

const (
	EducationBelow10th    EducationLevel = "below_10th"
	Education10thPass     EducationLevel = "10th_pass"
	Education12thPass     EducationLevel = "12th_pass"
	EducationGraduate     EducationLevel = "graduate"
	EducationPostgraduate EducationLevel = "postgraduate"
)

// ValidEducationLevels returns all valid education level values.
func ValidEducationLevels() []EducationLevel {
	return []EducationLevel{
		EducationBelow10th,
		Education10thPass,
		Education12thPass,
		EducationGraduate,
		EducationPostgraduate,
	}
}

// IsValid checks if the education level is valid.
func (e EducationLevel) IsValid() bool {
	for _, valid := range ValidEducationLevels() {
		if e == valid {
			return true
		}
	}
	return false
}

// IncomeRange represents a user's annual household income bracket.
type IncomeRange string

const (
	IncomeBelow1Lakh IncomeRange = "below_1lakh"
	Income1To3Lakh   IncomeRange = "1-3lakh"
	Income3To5Lakh   IncomeRange = "3-5lakh"
	Income5To8Lakh   IncomeRange = "5-8lakh"
	IncomeAbove8Lakh IncomeRange = "above_8lakh"
)

// ValidIncomeRanges returns all valid income range values.
func ValidIncomeRanges() []IncomeRange {
	return []IncomeRange{
		IncomeBelow1Lakh,
		Income1To3Lakh,
		Income3To5Lakh,
		Income5To8Lakh,
		IncomeAbove8Lakh,
	}
}

// IsValid checks if the income range is valid.
func (i IncomeRange) IsValid() bool {
	for _, valid := range ValidIncomeRanges() {
		if i == valid {
			return true
		}
	}
	return false
}

// UpperBoundRupees returns the upper bound of the income range in rupees
// per year. The open-ended top bracket has no finite bound and returns -1.
func (i IncomeRange) UpperBoundRupees() int {
	switch i {
	case IncomeBelow1Lakh:
		return 100000
	case Income1To3Lakh:
		return 300000
	case Income3To5Lakh:
		return 500000
	case Income5To8Lakh:
		return 800000
	default:
		return -1
	}
}

// Category represents a user's social category.
type Category string

const (
	CategoryGeneral Category = "general"
	CategoryOBC     Category = "obc"
	CategorySC      Category = "sc"
	CategoryST      Category = "st"
)

// ValidCategories returns all valid category values.
func ValidCategories() []Category {
	return []Category{CategoryGeneral, CategoryOBC, CategorySC, CategoryST}
}

// IsValid checks if the category is valid.
func (c Category) IsValid() bool {
	for _, valid := range ValidCategories() {
		if c == valid {
			return true
		}
	}
	return false
}

// Gender represents a user's gender.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ValidGenders returns all valid gender values.
func ValidGenders() []Gender {
	return []Gender{GenderMale, GenderFemale, GenderOther}
}

// IsValid checks if the gender is valid.
func (g Gender) IsValid() bool {
	for _, valid := range ValidGenders() {
		if g == valid {
			return true
		}
	}
	return false
}

// Occupation represents a user's occupation.
type Occupation string

const (
	OccupationStudent      Occupation = "student"
	OccupationFarmer       Occupation = "farmer"
	OccupationEmployed     Occupation = "employed"
	OccupationSelfEmployed Occupation = "self_employed"
	OccupationUnemployed   Occupation = "unemployed"
	OccupationOther        Occupation = "other"
)

// ValidOccupations returns all valid occupation values.
func ValidOccupations() []Occupation {
	return []Occupation{
		OccupationStudent,
		OccupationFarmer,
		OccupationEmployed,
		OccupationSelfEmployed,
		OccupationUnemployed,
		OccupationOther,
	}
}

// IsValid checks if the occupation is valid.
func (o Occupation) IsValid() bool {
	for _, valid := range ValidOccupations() {
		if o == valid {
			return true
		}
	}
	return false
}

// Profile field name constants, in guided question priority order.
const (
	FieldAge            = "age"
	FieldState          = "state"
	FieldEducationLevel = "education_level"
	FieldIncomeRange    = "income_range"
	FieldCategory       = "category"
	FieldGender         = "gender"
	FieldOccupation     = "occupation"
)

// FieldOrder is the fixed priority order used when picking the next
// guided question.
func FieldOrder() []string {
	return []string{
		FieldAge,
		FieldState,
		FieldEducationLevel,
		FieldIncomeRange,
		FieldCategory,
		FieldGender,
		FieldOccupation,
	}
}

// UserProfile holds the information collected from a user during a
// conversation. All fields are optional; nil means not yet provided.
// Profiles are session-only and never persisted.
type UserProfile struct {
	Age            *int            `json:"age,omitempty"`
	State          *string         `json:"state,omitempty"`
	EducationLevel *EducationLevel `json:"education_level,omitempty"`
	IncomeRange    *IncomeRange    `json:"income_range,omitempty"`
	Category       *Category       `json:"category,omitempty"`
	Gender         *Gender         `json:"gender,omitempty"`
	Occupation     *Occupation     `json:"occupation,omitempty"`
}

// IsCompleteForEligibility reports whether the minimum information
// needed to run eligibility determination is present (age and state).
func (p *UserProfile) IsCompleteForEligibility() bool {
	return p.Age != nil && p.State != nil
}

// Clone returns a copy of the profile that shares no pointers with the
// original.
func (p *UserProfile) Clone() UserProfile {
	out := UserProfile{}
	if p.Age != nil {
		v := *p.Age
		out.Age = &v
	}
	if p.State != nil {
		v := *p.State
		out.State = &v
	}
	if p.EducationLevel != nil {
		v := *p.EducationLevel
		out.EducationLevel = &v
	}
	if p.IncomeRange != nil {
		v := *p.IncomeRange
		out.IncomeRange = &v
	}
	if p.Category != nil {
		v := *p.Category
		out.Category = &v
	}
	if p.Gender != nil {
		v := *p.Gender
		out.Gender = &v
	}
	if p.Occupation != nil {
		v := *p.Occupation
		out.Occupation = &v
	}
	return out
}

// MissingFields returns the names of all unset fields in priority order.
func (p *UserProfile) MissingFields() []string {
	missing := make([]string, 0)
	for _, field := range FieldOrder() {
		if !p.HasField(field) {
			missing = append(missing, field)
		}
	}
	return missing
}

// HasField reports whether the named field has been set.
func (p *UserProfile) HasField(field string) bool {
	switch field {
	case FieldAge:
		return p.Age != nil
	case FieldState:
		return p.State != nil
	case FieldEducationLevel:
		return p.EducationLevel != nil
	case FieldIncomeRange:
		return p.IncomeRange != nil
	case FieldCategory:
		return p.Category != nil
	case FieldGender:
		return p.Gender != nil
	case FieldOccupation:
		return p.Occupation != nil
	}
	return false
}

// PartialProfile is the typed result of extracting profile fields from a
// single message. Fields mirror UserProfile; nil means the message did not
// mention that field.
type PartialProfile struct {
	Age            *int            `json:"age,omitempty"`
	State          *string         `json:"state,omitempty"`
	EducationLevel *EducationLevel `json:"education_level,omitempty"`
	IncomeRange    *IncomeRange    `json:"income_range,omitempty"`
	Category       *Category       `json:"category,omitempty"`
	Gender         *Gender         `json:"gender,omitempty"`
	Occupation     *Occupation     `json:"occupation,omitempty"`
}

// IsEmpty reports whether the partial profile carries no fields at all.
func (p *PartialProfile) IsEmpty() bool {
	return p.Age == nil && p.State == nil && p.EducationLevel == nil &&
		p.IncomeRange == nil && p.Category == nil && p.Gender == nil &&
		p.Occupation == nil
}

// Merge applies every populated field of the partial profile onto the
// target. Later extractions overwrite earlier values (last-write-wins).
// It returns true if any field of the target changed.
func (p *PartialProfile) Merge(target *UserProfile) bool {
	changed := false
	if p.Age != nil {
		if target.Age == nil || *target.Age != *p.Age {
			changed = true
		}
		v := *p.Age
		target.Age = &v
	}
	if p.State != nil {
		if target.State == nil || *target.State != *p.State {
			changed = true
		}
		v := *p.State
		target.State = &v
	}
	if p.EducationLevel != nil {
		if target.EducationLevel == nil || *target.EducationLevel != *p.EducationLevel {
			changed = true
		}
		v := *p.EducationLevel
		target.EducationLevel = &v
	}
	if p.IncomeRange != nil {
		if target.IncomeRange == nil || *target.IncomeRange != *p.IncomeRange {
			changed = true
		}
		v := *p.IncomeRange
		target.IncomeRange = &v
	}
	if p.Category != nil {
		if target.Category == nil || *target.Category != *p.Category {
			changed = true
		}
		v := *p.Category
		target.Category = &v
	}
	if p.Gender != nil {
		if target.Gender == nil || *target.Gender != *p.Gender {
			changed = true
		}
		v := *p.Gender
		target.Gender = &v
	}
	if p.Occupation != nil {
		if target.Occupation == nil || *target.Occupation != *p.Occupation {
			changed = true
		}
		v := *p.Occupation
		target.Occupation = &v
	}
	return changed
}
