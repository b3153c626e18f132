package handlers

import (
	"encoding/json"
	"net/http"

	"scheme-assistant/internal/models"
)

// SchemesListResponse lists the loaded catalog.
type SchemesListResponse struct {
	Total   int                    `json:"total"`
	Schemes []models.SchemeSummary `json:"schemes"`
}

// CheckEligibilityRequest is a direct, sessionless eligibility check.
// Field values use the same enumerations as the conversational profile.
type CheckEligibilityRequest struct {
	Age            *int    `json:"age"`
	State          *string `json:"state"`
	EducationLevel *string `json:"education_level"`
	IncomeRange    *string `json:"income_range"`
	Category       *string `json:"category"`
	Gender         *string `json:"gender"`
	Occupation     *string `json:"occupation"`
}

// CheckEligibilityResponse carries the ranked eligible results.
type CheckEligibilityResponse struct {
	TotalEligible int                         `json:"total_eligible"`
	Results       []*models.EligibilityResult `json:"results"`
}

func (s *Server) listSchemesHandler(w http.ResponseWriter, r *http.Request) {
	summaries := make([]models.SchemeSummary, 0, len(s.schemes))
	for _, scheme := range s.schemes {
		summaries = append(summaries, scheme.ToSummary())
	}
	writeJSON(w, http.StatusOK, SchemesListResponse{
		Total:   len(summaries),
		Schemes: summaries,
	})
}

func (s *Server) getSchemeHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	for _, scheme := range s.schemes {
		if scheme.ID == id {
			writeJSON(w, http.StatusOK, Response{Success: true, Data: scheme})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Scheme not found")
}

func (s *Server) checkEligibilityHandler(w http.ResponseWriter, r *http.Request) {
	var req CheckEligibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := req.toProfile()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results := s.engine.DetermineEligibility(profile, s.schemes)
	writeJSON(w, http.StatusOK, CheckEligibilityResponse{
		TotalEligible: len(results),
		Results:       results,
	})
}

// toProfile normalizes and validates the request into a user profile.
func (r *CheckEligibilityRequest) toProfile() (*models.UserProfile, error) {
	profile := &models.UserProfile{}

	if r.Age != nil {
		if err := models.ValidateAge(*r.Age); err != nil {
			return nil, err
		}
		profile.Age = r.Age
	}
	profile.State = r.State
	if r.EducationLevel != nil {
		level := models.NormalizeEducationLevel(*r.EducationLevel)
		if !level.IsValid() {
			return nil, models.ErrInvalidEducationLevel
		}
		profile.EducationLevel = &level
	}
	if r.IncomeRange != nil {
		incomeRange := models.NormalizeIncomeRange(*r.IncomeRange)
		if !incomeRange.IsValid() {
			return nil, models.ErrInvalidIncomeRange
		}
		profile.IncomeRange = &incomeRange
	}
	if r.Category != nil {
		category := models.NormalizeCategory(*r.Category)
		if !category.IsValid() {
			return nil, models.ErrInvalidCategory
		}
		profile.Category = &category
	}
	if r.Gender != nil {
		gender := models.NormalizeGender(*r.Gender)
		if !gender.IsValid() {
			return nil, models.ErrInvalidGender
		}
		profile.Gender = &gender
	}
	if r.Occupation != nil {
		occupation := models.NormalizeOccupation(*r.Occupation)
		if !occupation.IsValid() {
			return nil, models.ErrInvalidOccupation
		}
		profile.Occupation = &occupation
	}

	return profile, nil
}
