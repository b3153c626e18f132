package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"scheme-assistant/internal/config"
	"scheme-assistant/internal/models"
	"scheme-assistant/internal/utils"
)

// GeminiClient implements both capabilities against the Gemini API.
// Without an API key the client reports itself unavailable and every call
// fails fast.
type GeminiClient struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// NewGeminiClient creates a Gemini-backed capability client. The HTTP
// client timeout is the hard capability bound: no call may outlive it.
func NewGeminiClient(cfg *config.Config) *GeminiClient {
	return &GeminiClient{
		apiKey: cfg.GeminiAPIKey,
		apiURL: fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent", cfg.GeminiModel),
		model:  cfg.GeminiModel,
		client: &http.Client{Timeout: config.CapabilityTimeout},
	}
}

// Available reports whether the client is configured.
func (c *GeminiClient) Available() bool {
	return c.apiKey != ""
}

// Status returns capability availability for diagnostics.
func (c *GeminiClient) Status() *Status {
	s := &Status{
		Enabled: c.Available(),
		Features: map[string]bool{
			"entity_extraction":      c.Available(),
			"explanation_generation": c.Available(),
		},
	}
	if c.Available() {
		s.Model = c.model
	}
	return s
}

// extractionResponse is the JSON shape the extraction prompt requests.
type extractionResponse struct {
	Age            *int     `json:"age"`
	State          *string  `json:"state"`
	EducationLevel *string  `json:"education_level"`
	IncomeRange    *string  `json:"income_range"`
	Category       *string  `json:"category"`
	Gender         *string  `json:"gender"`
	Occupation     *string  `json:"occupation"`
	Confidence     *float64 `json:"confidence"`
}

// ExtractProfile extracts profile fields from a free-form message.
// Extracted values are normalized against the profile enumerations;
// anything that fails validation is dropped rather than reported.
func (c *GeminiClient) ExtractProfile(ctx context.Context, text, language string) (*models.PartialProfile, float64, error) {
	if !c.Available() {
		return nil, 0, fmt.Errorf("extraction capability not configured")
	}

	raw, err := c.generate(ctx, c.buildExtractionPrompt(text, language))
	if err != nil {
		return nil, 0, err
	}

	var resp extractionResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, 0, fmt.Errorf("failed to parse extraction JSON: %w", err)
	}

	partial := c.normalizeExtraction(&resp)
	confidence := 0.5
	if resp.Confidence != nil {
		confidence = *resp.Confidence
	}

	utils.GetLogger().Debug("AI extraction succeeded",
		zap.Float64("confidence", confidence),
	)
	return partial, confidence, nil
}

// normalizeExtraction validates extracted values against the profile
// enumerations and drops anything invalid.
func (c *GeminiClient) normalizeExtraction(resp *extractionResponse) *models.PartialProfile {
	partial := &models.PartialProfile{}

	if resp.Age != nil && models.ValidateAge(*resp.Age) == nil {
		age := *resp.Age
		partial.Age = &age
	}
	if resp.State != nil {
		if state := strings.TrimSpace(*resp.State); state != "" {
			partial.State = &state
		}
	}
	if resp.EducationLevel != nil {
		if level := models.NormalizeEducationLevel(*resp.EducationLevel); level.IsValid() {
			partial.EducationLevel = &level
		}
	}
	if resp.IncomeRange != nil {
		if r := models.NormalizeIncomeRange(*resp.IncomeRange); r.IsValid() {
			partial.IncomeRange = &r
		}
	}
	if resp.Category != nil {
		if category := models.NormalizeCategory(*resp.Category); category.IsValid() {
			partial.Category = &category
		}
	}
	if resp.Gender != nil {
		if gender := models.NormalizeGender(*resp.Gender); gender.IsValid() {
			partial.Gender = &gender
		}
	}
	if resp.Occupation != nil {
		if occupation := models.NormalizeOccupation(*resp.Occupation); occupation.IsValid() {
			partial.Occupation = &occupation
		}
	}

	return partial
}

// GenerateExplanation rewrites a deterministic result into conversational
// prose. The prompt forbids inventing facts; the caller still keeps the
// templated explanation as the source of truth.
func (c *GeminiClient) GenerateExplanation(ctx context.Context, req *ExplanationRequest) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("explanation capability not configured")
	}

	text, err := c.generate(ctx, c.buildExplanationPrompt(req))
	if err != nil {
		return "", err
	}

	explanation := strings.TrimSpace(text)
	if explanation == "" {
		return "", fmt.Errorf("empty explanation from model")
	}
	return explanation, nil
}

// generate calls the Gemini API with a prompt and returns the first
// candidate's text. The context is additionally bounded so that a caller
// without a deadline still gets the hard capability timeout.
func (c *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.CapabilityTimeout)
	defer cancel()

	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     0.2,
			"topK":            1,
			"topP":            1,
			"maxOutputTokens": 500,
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s?key=%s", c.apiURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(jsonBody)))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return extractCandidateText(result)
}

// extractCandidateText pulls the generated text out of the API response.
// Models wrap JSON answers in prose or code fences, so extraction prompts
// get the substring between the first '{' and the last '}'.
func extractCandidateText(result map[string]interface{}) (string, error) {
	candidates, ok := result["candidates"].([]interface{})
	if !ok || len(candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate, ok := candidates[0].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("malformed candidate in response")
	}
	content, ok := candidate["content"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("no content in response")
	}
	parts, ok := content["parts"].([]interface{})
	if !ok || len(parts) == 0 {
		return "", fmt.Errorf("no parts in response")
	}
	part, ok := parts[0].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("malformed part in response")
	}
	text, ok := part["text"].(string)
	if !ok {
		return "", fmt.Errorf("no text in response")
	}

	// For JSON answers, strip any surrounding prose.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1], nil
	}
	return text, nil
}

// buildExtractionPrompt creates the entity extraction prompt.
func (c *GeminiClient) buildExtractionPrompt(text, language string) string {
	return fmt.Sprintf(`Extract user profile information from this message: %q

Language: %s

Extract these fields if present:
- age: integer (1-120)
- state: string (Indian state name in English)
- education_level: one of ["below_10th", "10th_pass", "12th_pass", "graduate", "postgraduate"]
- income_range: one of ["below_1lakh", "1-3lakh", "3-5lakh", "5-8lakh", "above_8lakh"]
- category: one of ["general", "sc", "st", "obc"]
- gender: one of ["male", "female", "other"]
- occupation: one of ["student", "farmer", "self_employed", "unemployed", "employed", "other"]

Respond ONLY with valid JSON in this exact format:
{
  "age": <integer or null>,
  "state": "<state name or null>",
  "education_level": "<value or null>",
  "income_range": "<value or null>",
  "category": "<value or null>",
  "gender": "<value or null>",
  "occupation": "<value or null>",
  "confidence": <0.0 to 1.0>
}

If a field is not mentioned, use null. Set confidence based on clarity of information.`, text, language)
}

// buildExplanationPrompt creates the explanation rewriting prompt.
func (c *GeminiClient) buildExplanationPrompt(req *ExplanationRequest) string {
	status := "not eligible"
	if req.Eligible {
		status = "eligible"
	}

	profileJSON, _ := json.Marshal(req.Profile)
	matchingJSON, _ := json.Marshal(req.MatchingCriteria)
	missingJSON, _ := json.Marshal(req.MissingCriteria)

	return fmt.Sprintf(`Generate a clear, friendly explanation for why a user is %s for the %q government scheme.

User Profile:
%s

Matching Criteria:
%s

Missing Criteria:
%s

Language: %s

Requirements:
1. Use simple, conversational language
2. Be encouraging and helpful
3. Explain WHY they qualify or don't qualify
4. If not eligible, suggest what they could do
5. Keep it under 150 words
6. Respond in the requested language
7. DO NOT invent facts or schemes
8. Base the explanation ONLY on the provided criteria

Generate the explanation:`, status, req.SchemeName, profileJSON, matchingJSON, missingJSON, req.Language)
}
