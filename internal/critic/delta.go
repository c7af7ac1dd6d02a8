package critic

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
	"github.com/inder1991/cluster-incident-agent/internal/evidence"
	"github.com/inder1991/cluster-incident-agent/internal/llm"
)

// DeltaTimeout mirrors ValidateTimeout: both Critic operations share the
// same hard 30s budget (SPEC_FULL §4.11).
const DeltaTimeout = ValidateTimeout

var allowedCausalRoles = map[evidence.CausalRole]bool{
	evidence.CausalRoleRootCause:        true,
	evidence.CausalRoleCascadingSymptom: true,
	evidence.CausalRoleCorrelated:       true,
	evidence.CausalRoleInformational:    true,
}

type deltaResponse struct {
	ValidationStatus string   `json:"validation_status"`
	CausalRole       string   `json:"causal_role"`
	Confidence       float64  `json:"confidence"`
	Reasoning        string   `json:"reasoning"`
	Contradictions   []string `json:"contradictions"`
}

// ValidateDelta revalidates a single new EvidencePin against the pins and
// causal chains already on the graph. Timeout yields
// validation_status=pending_critic, causal_role=informational
// (SPEC_FULL §4.11); the same fallback is used on parse failure for
// consistency with every other LLM call site in this module.
func ValidateDelta(ctx context.Context, provider llm.Provider, newPin evidence.EvidencePin, existingPins []evidence.EvidencePin, causalChains []clustermodel.CausalChain) DeltaResult {
	timeoutCtx, cancel := context.WithTimeout(ctx, DeltaTimeout)
	defer cancel()

	response, err := llm.SimpleChat(timeoutCtx, provider, deltaSystemPrompt(), deltaUserPrompt(newPin, existingPins, causalChains))
	if err != nil {
		logger.Warn("critic validate_delta LLM call failed for pin %s: %v", newPin.ID, err)
		return deltaFallback()
	}

	jsonText, found := llm.ExtractJSONObject(response.Content)
	if !found {
		logger.Warn("critic validate_delta response for pin %s was not JSON", newPin.ID)
		return deltaFallback()
	}

	var parsed deltaResponse
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		logger.Warn("failed to parse critic validate_delta response for pin %s: %v", newPin.ID, err)
		return deltaFallback()
	}

	status := evidence.ValidationStatus(parsed.ValidationStatus)
	if status != evidence.ValidationValidated && status != evidence.ValidationRejected && status != evidence.ValidationPendingCritic {
		status = evidence.ValidationPendingCritic
	}

	return DeltaResult{
		ValidationStatus: status,
		CausalRole:       normalizeCausalRole(parsed.CausalRole, newPin, existingPins),
		Confidence:       parsed.Confidence,
		Reasoning:        parsed.Reasoning,
		Contradictions:   parsed.Contradictions,
	}
}

// deltaFallback is the literal timeout/parse-failure shape.
func deltaFallback() DeltaResult {
	return DeltaResult{
		ValidationStatus: evidence.ValidationPendingCritic,
		CausalRole:        evidence.CausalRoleInformational,
		Reasoning:         "validation timed out",
	}
}

// ApplyDelta updates the pin in place with a ValidateDelta result, per
// SPEC_FULL §4.11 ("Critic output updates the pin in place").
func ApplyDelta(pin *evidence.EvidencePin, result DeltaResult) {
	pin.ValidationStatus = result.ValidationStatus
	pin.CausalRole = result.CausalRole
}

// normalizeCausalRole accepts the LLM's raw causal_role string when it is
// one of the four allowed values. Otherwise it tries the documented
// correlated/cascading_symptom tie-break (classifyRole) using temporal
// order against the existing pins; when no temporal order can be
// established it falls back to "informational" per the spec's literal
// fallback for values outside the allowed set.
func normalizeCausalRole(raw string, newPin evidence.EvidencePin, existingPins []evidence.EvidencePin) evidence.CausalRole {
	role := evidence.CausalRole(raw)
	if allowedCausalRoles[role] {
		return role
	}
	if role, ok := classifyRole(newPin, existingPins); ok {
		return role
	}
	return evidence.CausalRoleInformational
}

// classifyRole implements the Open Question tie-break: favor
// cascading_symptom when temporal order between the new pin and the
// most recent existing pin is established (the existing pin strictly
// precedes the new one), correlated otherwise. ok=false means no
// existing pins exist to compare against, so no tie-break is possible.
func classifyRole(newPin evidence.EvidencePin, existingPins []evidence.EvidencePin) (evidence.CausalRole, bool) {
	if len(existingPins) == 0 {
		return "", false
	}

	var latest time.Time
	for _, p := range existingPins {
		if p.Timestamp.After(latest) {
			latest = p.Timestamp
		}
	}

	if latest.Before(newPin.Timestamp) {
		return evidence.CausalRoleCascadingSymptom, true
	}
	return evidence.CausalRoleCorrelated, true
}

func deltaSystemPrompt() string {
	return `You are a Critic Agent revalidating one new piece of manually-added evidence against the diagnostic session's existing evidence pins and causal chains.

Respond with JSON:
{"validation_status": "validated|rejected|pending_critic", "causal_role": "root_cause|cascading_symptom|correlated|informational", "confidence": 0.0, "reasoning": "...", "contradictions": []}`
}

func deltaUserPrompt(newPin evidence.EvidencePin, existingPins []evidence.EvidencePin, causalChains []clustermodel.CausalChain) string {
	newPinJSON, _ := json.MarshalIndent(newPin, "", "  ")
	existingJSON, _ := json.MarshalIndent(existingPins, "", "  ")
	chainsJSON, _ := json.MarshalIndent(causalChains, "", "  ")

	return fmt.Sprintf(`## New Evidence Pin
%s

## Existing Evidence Pins
%s

## Causal Chains
%s`, string(newPinJSON), string(existingJSON), string(chainsJSON))
}
