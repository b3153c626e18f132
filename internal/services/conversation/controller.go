// Package conversation implements the slot-filling dialog controller.
//
// The controller drives a session through its stages, merges extracted or
// guided answers into the profile, decides when enough information exists
// to evaluate eligibility, and orchestrates the confidence-gated AI
// fallback. AI capabilities are advisory only: every capability failure is
// swallowed here and converted into the deterministic path, and the output
// shape of a degraded turn is identical to an enhanced one.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"scheme-assistant/internal/config"
	"scheme-assistant/internal/metrics"
	"scheme-assistant/internal/models"
	"scheme-assistant/internal/services/assistant"
	"scheme-assistant/internal/services/eligibility"
	"scheme-assistant/internal/utils"
)

// Required fields: the minimum profile needed to run evaluation.
var requiredFields = []string{models.FieldAge, models.FieldState}

// TurnResult is the outcome of processing one user turn, shaped for the
// transport boundary.
type TurnResult struct {
	Response            string                      `json:"response"`
	NextQuestion        *string                     `json:"next_question"`
	Stage               models.Stage                `json:"stage"`
	InformationComplete bool                        `json:"information_complete"`
	EligibleResults     []*models.EligibilityResult `json:"eligible_results"`
}

// Controller drives conversation turns over a fixed scheme catalog.
type Controller struct {
	schemes   []*models.Scheme
	engine    *eligibility.Engine
	extractor assistant.Extractor
	explainer assistant.Explainer
}

// NewController creates a controller. Either capability may be nil, in
// which case the deterministic path is always used for it.
func NewController(schemes []*models.Scheme, engine *eligibility.Engine, extractor assistant.Extractor, explainer assistant.Explainer) *Controller {
	return &Controller{
		schemes:   schemes,
		engine:    engine,
		extractor: extractor,
		explainer: explainer,
	}
}

// Greet emits the greeting message on a fresh session and moves it to the
// collecting stage.
func (c *Controller) Greet(session *models.Session) string {
	greeting := Greeting(session.Language)
	session.AddMessage(models.RoleAssistant, greeting)
	session.Stage = models.StageCollecting
	return greeting
}

// ProcessTurn handles one user message on a session. The caller must hold
// the session's store lock; the session is mutated in place.
func (c *Controller) ProcessTurn(ctx context.Context, session *models.Session, message string) *TurnResult {
	start := time.Now()
	defer func() {
		metrics.TurnsProcessed.Inc()
		metrics.TurnDuration.Observe(time.Since(start).Seconds())
	}()

	session.AddMessage(models.RoleUser, message)

	changed := c.absorbMessage(ctx, session, message)

	result := &TurnResult{
		InformationComplete: session.Profile.IsCompleteForEligibility(),
	}

	switch {
	case !session.Profile.IsCompleteForEligibility():
		c.askNext(session, result)

	case session.Stage == models.StageGuidance && !changed:
		// Refinement turn that changed nothing: stay in guidance.
		result.Response = "Is there anything else you'd like to know about these schemes?"
		result.Stage = models.StageGuidance

	default:
		// Ready: evaluate the whole catalog. A refinement that changed a
		// field re-runs everything, explanations included.
		c.evaluate(ctx, session, result)
	}

	session.AddMessage(models.RoleAssistant, result.Response)
	result.Stage = session.Stage
	return result
}

// absorbMessage merges whatever the message tells us into the profile,
// via AI extraction when it clears the confidence gate, else via guided
// parsing. Returns true if any profile field changed.
func (c *Controller) absorbMessage(ctx context.Context, session *models.Session, message string) bool {
	if c.extractor != nil && c.extractor.Available() {
		metrics.CapabilityCalls.WithLabelValues("extraction").Inc()
		partial, confidence, err := c.extractor.ExtractProfile(ctx, message, session.Language)
		switch {
		case err != nil:
			metrics.CapabilityFailures.WithLabelValues("extraction", failureReason(err)).Inc()
			utils.GetLogger().Warn("AI extraction failed, using guided parsing",
				zap.String("session_id", session.ID),
				zap.Error(err),
			)
		case confidence < config.ExtractionConfidenceThreshold || partial.IsEmpty():
			metrics.CapabilityFailures.WithLabelValues("extraction", "low_confidence").Inc()
			utils.GetLogger().Debug("AI extraction below threshold, using guided parsing",
				zap.String("session_id", session.ID),
				zap.Float64("confidence", confidence),
			)
		default:
			// Accepted: every populated field merges, overwriting earlier
			// values without reconciliation.
			return partial.Merge(&session.Profile)
		}
	}

	metrics.FallbacksTaken.WithLabelValues("extraction").Inc()
	return c.guidedParse(session, message)
}

// guidedParse interprets the message as an answer to the pending guided
// question, or scans all fields when no question is pending. A parse
// failure changes nothing; the same question is re-asked without penalty.
func (c *Controller) guidedParse(session *models.Session, message string) bool {
	if field := session.LastAskedField(); field != "" {
		partial := ParseFieldAnswer(field, message)
		if !partial.IsEmpty() {
			return partial.Merge(&session.Profile)
		}
		// The user may have answered a different question instead.
	}
	return ScanMessage(message).Merge(&session.Profile)
}

// askNext picks the next unresolved field in priority order that has not
// been asked yet and emits its question. If every field has been asked but
// the minimum is still unmet, the oldest unresolved required field is
// re-asked.
func (c *Controller) askNext(session *models.Session, result *TurnResult) {
	field := c.nextUnaskedField(session)
	if field == "" {
		field = c.oldestUnresolvedRequired(session)
	}
	if field == "" {
		// Minimum unmet implies an unresolved required field, so this is
		// unreachable; keep a sane response regardless.
		result.Response = "Thank you for providing that information."
		return
	}

	session.MarkAsked(field)
	question := Question(field, session.Language)
	result.Response = question
	result.NextQuestion = &question
}

func (c *Controller) nextUnaskedField(session *models.Session) string {
	for _, field := range models.FieldOrder() {
		if !session.Profile.HasField(field) && !session.WasAsked(field) {
			return field
		}
	}
	return ""
}

func (c *Controller) oldestUnresolvedRequired(session *models.Session) string {
	for _, asked := range session.AskedQuestions {
		if isRequiredField(asked) && !session.Profile.HasField(asked) {
			return asked
		}
	}
	for _, field := range requiredFields {
		if !session.Profile.HasField(field) {
			return field
		}
	}
	return ""
}

func isRequiredField(field string) bool {
	for _, required := range requiredFields {
		if field == required {
			return true
		}
	}
	return false
}

// evaluate runs the eligibility engine over the full catalog, stores the
// results on the session, and attempts AI explanations per result. A
// failed explanation leaves the templated text untouched and never
// changes the verdict or reason lists.
func (c *Controller) evaluate(ctx context.Context, session *models.Session, result *TurnResult) {
	session.Stage = models.StageEvaluated
	results := c.engine.DetermineEligibility(&session.Profile, c.schemes)
	session.LastResults = results

	if len(results) == 0 {
		session.Stage = models.StageCollecting
		c.askNext(session, result)
		// The no-match message survives whether or not a question is left
		// to ask.
		response := "I couldn't find any schemes matching your profile at the moment."
		if result.NextQuestion != nil {
			response += " " + *result.NextQuestion
		}
		result.Response = response
		return
	}

	c.enhanceExplanations(ctx, session, results)

	var b strings.Builder
	fmt.Fprintf(&b, "Great! I found %d scheme(s) you're eligible for:\n\n", len(results))
	for i, r := range results {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&b, "%s\n%s\n\n", r.Scheme.LocalizedName(session.Language), r.Explanation)
	}

	result.Response = strings.TrimSpace(b.String())
	result.EligibleResults = results
	session.Stage = models.StageGuidance
}

// enhanceExplanations swaps templated explanations for AI-generated ones
// where the capability cooperates. Failures are logged and swallowed.
func (c *Controller) enhanceExplanations(ctx context.Context, session *models.Session, results []*models.EligibilityResult) {
	if c.explainer == nil || !c.explainer.Available() {
		metrics.FallbacksTaken.WithLabelValues("explanation").Inc()
		return
	}

	for _, r := range results {
		metrics.CapabilityCalls.WithLabelValues("explanation").Inc()
		text, err := c.explainer.GenerateExplanation(ctx, &assistant.ExplanationRequest{
			SchemeName:       r.Scheme.Name,
			Eligible:         r.Eligible,
			MatchingCriteria: r.MatchingCriteria,
			MissingCriteria:  r.MissingCriteria,
			Profile:          &session.Profile,
			Language:         session.Language,
		})
		if err != nil {
			metrics.CapabilityFailures.WithLabelValues("explanation", failureReason(err)).Inc()
			utils.GetLogger().Warn("AI explanation failed, keeping templated text",
				zap.String("session_id", session.ID),
				zap.String("scheme_id", r.Scheme.ID),
				zap.Error(err),
			)
			continue
		}
		r.Explanation = text
	}
}

// failureReason buckets capability errors for metrics.
func failureReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
		return "timeout"
	}
	return "error"
}
