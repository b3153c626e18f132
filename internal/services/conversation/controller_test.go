package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scheme-assistant/internal/models"
	"scheme-assistant/internal/services/assistant"
	"scheme-assistant/internal/services/eligibility"
)

// fakeExtractor is a scriptable stand-in for the AI extraction capability.
type fakeExtractor struct {
	available  bool
	partial    *models.PartialProfile
	confidence float64
	err        error
	calls      int
}

func (f *fakeExtractor) Available() bool { return f.available }

func (f *fakeExtractor) ExtractProfile(ctx context.Context, text, language string) (*models.PartialProfile, float64, error) {
	f.calls++
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.partial, f.confidence, nil
}

// fakeExplainer is a scriptable stand-in for the AI explanation capability.
type fakeExplainer struct {
	available bool
	text      string
	err       error
	calls     int
}

func (f *fakeExplainer) Available() bool { return f.available }

func (f *fakeExplainer) GenerateExplanation(ctx context.Context, req *assistant.ExplanationRequest) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func newTestSession() *models.Session {
	return &models.Session{
		ID:             "test-session",
		Language:       "en",
		Stage:          models.StageCollecting,
		AskedQuestions: make([]string, 0),
		History:        make([]models.Message, 0),
	}
}

func testSchemes() []*models.Scheme {
	minAge := 18
	return []*models.Scheme{
		{
			ID:          "open-scheme",
			Name:        "Open Scheme",
			Eligibility: models.EligibilityCriteria{MinAge: &minAge},
		},
		{
			ID:   "sc-scholarship",
			Name: "SC Scholarship",
			Eligibility: models.EligibilityCriteria{
				MinAge:     &minAge,
				Categories: []models.Category{models.CategorySC},
			},
		},
	}
}

func newTestController(schemes []*models.Scheme, extractor assistant.Extractor, explainer assistant.Explainer) *Controller {
	return NewController(schemes, eligibility.NewEngine(), extractor, explainer)
}

func TestGreet_MovesSessionToCollecting(t *testing.T) {
	c := newTestController(testSchemes(), nil, nil)
	sess := newTestSession()
	sess.Stage = models.StageGreeting

	greeting := c.Greet(sess)

	assert.Equal(t, Greeting("en"), greeting)
	assert.Equal(t, models.StageCollecting, sess.Stage)
	require.Len(t, sess.History, 1)
	assert.Equal(t, models.RoleAssistant, sess.History[0].Role)
}

func TestProcessTurn_AsksAgeFirst(t *testing.T) {
	c := newTestController(testSchemes(), nil, nil)
	sess := newTestSession()

	result := c.ProcessTurn(context.Background(), sess, "hello there")

	require.NotNil(t, result.NextQuestion)
	assert.Equal(t, Question(models.FieldAge, "en"), *result.NextQuestion)
	assert.True(t, sess.WasAsked(models.FieldAge))
	assert.False(t, result.InformationComplete)
	assert.Equal(t, models.StageCollecting, result.Stage)
}

func TestProcessTurn_GuidedAnswerFillsPendingField(t *testing.T) {
	c := newTestController(testSchemes(), nil, nil)
	sess := newTestSession()
	sess.MarkAsked(models.FieldAge)

	result := c.ProcessTurn(context.Background(), sess, "I am 25")

	require.NotNil(t, sess.Profile.Age)
	assert.Equal(t, 25, *sess.Profile.Age)
	require.NotNil(t, result.NextQuestion)
	assert.Equal(t, Question(models.FieldState, "en"), *result.NextQuestion,
		"The next unresolved field in priority order comes next")
}

func TestProcessTurn_NeverRepeatsQuestionUntilAllAsked(t *testing.T) {
	c := newTestController(testSchemes(), nil, nil)
	sess := newTestSession()

	seen := make(map[string]int)
	for i := 0; i < len(models.FieldOrder()); i++ {
		result := c.ProcessTurn(context.Background(), sess, "hmm, skip that please")
		require.NotNil(t, result.NextQuestion)
		seen[*result.NextQuestion]++
	}

	assert.Len(t, seen, len(models.FieldOrder()), "Each field's question asked exactly once")
	for question, count := range seen {
		assert.Equal(t, 1, count, "question %q repeated", question)
	}

	// Every question has been asked and the minimum is still unmet, so the
	// oldest unresolved required field is re-asked.
	result := c.ProcessTurn(context.Background(), sess, "still not answering")
	require.NotNil(t, result.NextQuestion)
	assert.Equal(t, Question(models.FieldAge, "en"), *result.NextQuestion)
	assert.Len(t, sess.AskedQuestions, len(models.FieldOrder()), "Re-asking does not grow the asked list")
}

func TestProcessTurn_LowConfidenceExtractionFallsBackToGuidedParsing(t *testing.T) {
	wrongAge := 99
	extractor := &fakeExtractor{
		available:  true,
		partial:    &models.PartialProfile{Age: &wrongAge},
		confidence: 0.4,
	}
	c := newTestController(testSchemes(), extractor, nil)
	sess := newTestSession()
	sess.MarkAsked(models.FieldAge)

	c.ProcessTurn(context.Background(), sess, "I am 25")

	assert.Equal(t, 1, extractor.calls, "Extraction was attempted")
	require.NotNil(t, sess.Profile.Age)
	assert.Equal(t, 25, *sess.Profile.Age, "Low-confidence extraction must be discarded")
}

func TestProcessTurn_EmptyExtractionFallsBackToGuidedParsing(t *testing.T) {
	extractor := &fakeExtractor{
		available:  true,
		partial:    &models.PartialProfile{},
		confidence: 0.95,
	}
	c := newTestController(testSchemes(), extractor, nil)
	sess := newTestSession()
	sess.MarkAsked(models.FieldAge)

	c.ProcessTurn(context.Background(), sess, "I am 25")

	require.NotNil(t, sess.Profile.Age)
	assert.Equal(t, 25, *sess.Profile.Age, "A confident but empty extraction is still a fallback")
}

func TestProcessTurn_AcceptedExtractionTriggersEvaluation(t *testing.T) {
	age := 30
	state := "Kerala"
	extractor := &fakeExtractor{
		available:  true,
		partial:    &models.PartialProfile{Age: &age, State: &state},
		confidence: 0.9,
	}
	c := newTestController(testSchemes(), extractor, nil)
	sess := newTestSession()

	result := c.ProcessTurn(context.Background(), sess, "I'm a 30 year old from Kerala")

	assert.True(t, result.InformationComplete)
	assert.Equal(t, models.StageGuidance, result.Stage)
	require.NotEmpty(t, result.EligibleResults)
	assert.Equal(t, "open-scheme", result.EligibleResults[0].Scheme.ID)
	assert.Contains(t, result.Response, "I found 1 scheme(s) you're eligible for")
}

func TestProcessTurn_ExtractionFailureIndistinguishableFromAbsence(t *testing.T) {
	runTurn := func(extractor assistant.Extractor) (*TurnResult, *models.Session) {
		c := newTestController(testSchemes(), extractor, nil)
		sess := newTestSession()
		sess.MarkAsked(models.FieldAge)
		return c.ProcessTurn(context.Background(), sess, "I am 25"), sess
	}

	failing := &fakeExtractor{available: true, err: context.DeadlineExceeded}
	withFailure, sessFailure := runTurn(failing)
	withoutCapability, sessAbsent := runTurn(nil)

	assert.Equal(t, withoutCapability.Response, withFailure.Response)
	assert.Equal(t, withoutCapability.NextQuestion, withFailure.NextQuestion)
	assert.Equal(t, withoutCapability.Stage, withFailure.Stage)
	assert.Equal(t, withoutCapability.InformationComplete, withFailure.InformationComplete)
	assert.Equal(t, sessAbsent.Profile, sessFailure.Profile)
}

func TestProcessTurn_ExplainerFailureKeepsTemplatedText(t *testing.T) {
	explainer := &fakeExplainer{available: true, err: errors.New("upstream unavailable")}
	c := newTestController(testSchemes(), nil, explainer)
	sess := newTestSession()
	age := 30
	state := "Kerala"
	sess.Profile.Age = &age
	sess.Profile.State = &state

	result := c.ProcessTurn(context.Background(), sess, "that's all my details")

	require.NotEmpty(t, result.EligibleResults)
	assert.Equal(t, 1, explainer.calls)
	assert.Contains(t, result.EligibleResults[0].Explanation, "You are eligible for Open Scheme!",
		"Failed explanation leaves the deterministic text in place")
	assert.True(t, result.EligibleResults[0].Eligible, "Explainer failure never touches the verdict")
}

func TestProcessTurn_ExplainerSuccessReplacesOnlyExplanation(t *testing.T) {
	explainer := &fakeExplainer{available: true, text: "Good news, this scheme fits you."}
	c := newTestController(testSchemes(), nil, explainer)
	sess := newTestSession()
	age := 30
	state := "Kerala"
	sess.Profile.Age = &age
	sess.Profile.State = &state

	result := c.ProcessTurn(context.Background(), sess, "that's all my details")

	require.NotEmpty(t, result.EligibleResults)
	r := result.EligibleResults[0]
	assert.Equal(t, "Good news, this scheme fits you.", r.Explanation)
	assert.True(t, r.Eligible)
	assert.NotEmpty(t, r.MatchingCriteria, "Reason lists stay deterministic")
}

func TestProcessTurn_GuidanceRefinementReevaluates(t *testing.T) {
	c := newTestController(testSchemes(), nil, nil)
	sess := newTestSession()
	age := 30
	state := "Kerala"
	sess.Profile.Age = &age
	sess.Profile.State = &state
	sess.Stage = models.StageGuidance

	result := c.ProcessTurn(context.Background(), sess, "my category is sc")

	assert.Equal(t, models.StageGuidance, result.Stage)
	require.Len(t, result.EligibleResults, 2, "New category unlocks the second scheme")
	assert.Equal(t, "sc-scholarship", result.EligibleResults[0].Scheme.ID,
		"Two matching criteria outrank one")
}

func TestProcessTurn_GuidanceSmallTalkStaysInGuidance(t *testing.T) {
	c := newTestController(testSchemes(), nil, nil)
	sess := newTestSession()
	age := 30
	state := "Kerala"
	sess.Profile.Age = &age
	sess.Profile.State = &state
	sess.Stage = models.StageGuidance

	result := c.ProcessTurn(context.Background(), sess, "thanks!")

	assert.Equal(t, models.StageGuidance, result.Stage)
	assert.Empty(t, result.EligibleResults, "Nothing changed, so nothing is re-evaluated")
	assert.Contains(t, result.Response, "anything else")
}

func TestProcessTurn_NoMatchesResumesCollecting(t *testing.T) {
	minAge := 60
	seniorOnly := []*models.Scheme{{
		ID:          "seniors",
		Name:        "Senior Pension",
		Eligibility: models.EligibilityCriteria{MinAge: &minAge},
	}}
	c := newTestController(seniorOnly, nil, nil)
	sess := newTestSession()
	age := 30
	state := "Kerala"
	sess.Profile.Age = &age
	sess.Profile.State = &state

	result := c.ProcessTurn(context.Background(), sess, "that's everything")

	assert.Empty(t, result.EligibleResults)
	assert.Equal(t, models.StageCollecting, result.Stage)
	assert.Contains(t, result.Response, "couldn't find any schemes")
	require.NotNil(t, result.NextQuestion, "Collection resumes with another question")
}

func TestProcessTurn_NoMatchesWithNothingLeftToAsk(t *testing.T) {
	minAge := 60
	seniorOnly := []*models.Scheme{{
		ID:          "seniors",
		Name:        "Senior Pension",
		Eligibility: models.EligibilityCriteria{MinAge: &minAge},
	}}
	c := newTestController(seniorOnly, nil, nil)
	sess := newTestSession()

	age := 30
	state := "Kerala"
	education := models.EducationGraduate
	income := models.Income1To3Lakh
	category := models.CategoryGeneral
	gender := models.GenderFemale
	occupation := models.OccupationStudent
	sess.Profile = models.UserProfile{
		Age:            &age,
		State:          &state,
		EducationLevel: &education,
		IncomeRange:    &income,
		Category:       &category,
		Gender:         &gender,
		Occupation:     &occupation,
	}

	result := c.ProcessTurn(context.Background(), sess, "that's everything about me")

	assert.Nil(t, result.NextQuestion, "A fully populated profile leaves nothing to ask")
	assert.Contains(t, result.Response, "couldn't find any schemes",
		"The no-match message is kept even with no follow-up question")
	assert.Empty(t, result.EligibleResults)
}

func TestProcessTurn_RecordsHistory(t *testing.T) {
	c := newTestController(testSchemes(), nil, nil)
	sess := newTestSession()

	c.ProcessTurn(context.Background(), sess, "hello")

	require.Len(t, sess.History, 2)
	assert.Equal(t, models.RoleUser, sess.History[0].Role)
	assert.Equal(t, "hello", sess.History[0].Content)
	assert.Equal(t, models.RoleAssistant, sess.History[1].Role)
}
