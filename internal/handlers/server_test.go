package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scheme-assistant/internal/models"
	"scheme-assistant/internal/services/assistant"
	"scheme-assistant/internal/services/conversation"
	"scheme-assistant/internal/services/eligibility"
	"scheme-assistant/internal/services/session"
)

func testCatalog() []*models.Scheme {
	minAge := 18
	maxIncome := 300000
	return []*models.Scheme{
		{
			ID:          "open-scheme",
			Name:        "Open Scheme",
			Description: "Available to all adults",
			Eligibility: models.EligibilityCriteria{MinAge: &minAge},
			Benefits:    "General support",
		},
		{
			ID:          "low-income-aid",
			Name:        "Low Income Aid",
			Description: "Support for low-income households",
			Eligibility: models.EligibilityCriteria{MinAge: &minAge, IncomeMax: &maxIncome},
			Benefits:    "Monthly assistance",
		},
	}
}

func newTestServer() (*Server, *session.Store) {
	schemes := testCatalog()
	engine := eligibility.NewEngine()
	controller := conversation.NewController(schemes, engine, nil, nil)
	store := session.NewStore(30 * time.Minute)
	aiStatus := func() *assistant.Status {
		return &assistant.Status{
			Enabled:  false,
			Features: map[string]bool{"extraction": false, "explanation": false},
		}
	}
	return NewServer(store, controller, engine, schemes, aiStatus), store
}

func doRequest(t *testing.T, server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, req)
	return rec
}

func startSession(t *testing.T, server *Server) string {
	t.Helper()
	rec := doRequest(t, server, http.MethodPost, "/api/conversation/start", StartConversationRequest{Language: "en"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp StartConversationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	require.NotEmpty(t, resp.Greeting)
	return resp.SessionID
}

func TestStartConversation(t *testing.T) {
	server, store := newTestServer()

	id := startSession(t, server)

	sess, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.StageCollecting, sess.Stage)
}

func TestStartConversation_DefaultsToEnglish(t *testing.T) {
	server, _ := newTestServer()

	rec := doRequest(t, server, http.MethodPost, "/api/conversation/start", StartConversationRequest{})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp StartConversationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "en", resp.Language)
}

func TestSendMessage_FullDialogFlow(t *testing.T) {
	server, _ := newTestServer()
	id := startSession(t, server)

	rec := doRequest(t, server, http.MethodPost, "/api/conversation/"+id+"/message",
		SendMessageRequest{Message: "hello"})
	require.Equal(t, http.StatusOK, rec.Code)

	var turn SendMessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &turn))
	require.NotNil(t, turn.NextQuestion)
	assert.False(t, turn.InformationComplete)

	rec = doRequest(t, server, http.MethodPost, "/api/conversation/"+id+"/message",
		SendMessageRequest{Message: "I am 25"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &turn))
	assert.False(t, turn.InformationComplete)

	rec = doRequest(t, server, http.MethodPost, "/api/conversation/"+id+"/message",
		SendMessageRequest{Message: "I live in Maharashtra"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &turn))
	assert.True(t, turn.InformationComplete)
	assert.Equal(t, models.StageGuidance, turn.Stage)
	require.NotEmpty(t, turn.EligibleSchemes)
	assert.Equal(t, "open-scheme", turn.EligibleSchemes[0].ID)
	assert.NotEmpty(t, turn.EligibleSchemes[0].Explanation)
}

func TestSendMessage_EmptyMessage(t *testing.T) {
	server, _ := newTestServer()
	id := startSession(t, server)

	rec := doRequest(t, server, http.MethodPost, "/api/conversation/"+id+"/message",
		SendMessageRequest{Message: "   "})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMessage_UnknownSession(t *testing.T) {
	server, _ := newTestServer()

	rec := doRequest(t, server, http.MethodPost, "/api/conversation/ghost/message",
		SendMessageRequest{Message: "hello"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetConversation(t *testing.T) {
	server, _ := newTestServer()
	id := startSession(t, server)

	rec := doRequest(t, server, http.MethodGet, "/api/conversation/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary models.SessionSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, id, summary.SessionID)
	assert.Equal(t, models.StageCollecting, summary.CurrentStage)
	assert.Contains(t, summary.MissingFields, models.FieldAge)
}

func TestDeleteConversation_Idempotent(t *testing.T) {
	server, _ := newTestServer()
	id := startSession(t, server)

	rec := doRequest(t, server, http.MethodDelete, "/api/conversation/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, server, http.MethodDelete, "/api/conversation/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code, "Deleting an already-deleted session is still a success")

	rec = doRequest(t, server, http.MethodGet, "/api/conversation/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAIStatus(t *testing.T) {
	server, _ := newTestServer()

	rec := doRequest(t, server, http.MethodGet, "/api/conversation/ai/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status assistant.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.Enabled)
	assert.Contains(t, status.Features, "extraction")
}

func TestListSchemes(t *testing.T) {
	server, _ := newTestServer()

	rec := doRequest(t, server, http.MethodGet, "/api/schemes", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SchemesListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Schemes, 2)
	assert.Equal(t, "open-scheme", resp.Schemes[0].ID)
}

func TestGetScheme(t *testing.T) {
	server, _ := newTestServer()

	rec := doRequest(t, server, http.MethodGet, "/api/schemes/open-scheme", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/schemes/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckEligibility_Direct(t *testing.T) {
	server, _ := newTestServer()
	age := 30
	state := "Kerala"
	income := "1-3lakh"

	rec := doRequest(t, server, http.MethodPost, "/api/schemes/check-eligibility",
		CheckEligibilityRequest{Age: &age, State: &state, IncomeRange: &income})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CheckEligibilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalEligible)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "low-income-aid", resp.Results[0].Scheme.ID, "Two matching criteria rank first")
}

func TestCheckEligibility_InvalidAge(t *testing.T) {
	server, _ := newTestServer()
	age := 200

	rec := doRequest(t, server, http.MethodPost, "/api/schemes/check-eligibility",
		CheckEligibilityRequest{Age: &age})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckEligibility_InvalidEnum(t *testing.T) {
	server, _ := newTestServer()
	occupation := "astronaut"

	rec := doRequest(t, server, http.MethodPost, "/api/schemes/check-eligibility",
		CheckEligibilityRequest{Occupation: &occupation})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer()

	rec := doRequest(t, server, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}
