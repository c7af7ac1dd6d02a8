package critic

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/inder1991/cluster-incident-agent/internal/llm"
	"github.com/inder1991/cluster-incident-agent/internal/logging"
)

var logger = logging.GetLogger("critic")

// ValidateTimeout is the hard timeout on a single validate() call
// (SPEC_FULL §4.11).
const ValidateTimeout = 30 * time.Second

type validateResponse struct {
	Verdict             string `json:"verdict"`
	Reasoning           string `json:"reasoning"`
	Recommendation      string `json:"recommendation"`
	ConfidenceInVerdict int    `json:"confidence_in_verdict"`
}

// Validate cross-checks a Finding against the rest of the session's
// evidence. It first tries the static rule-based fallback (§4.11); when
// that doesn't apply, it calls the LLM under a hard 30s timeout. On
// timeout or parse failure it returns the spec's literal fallback
// verdict, NOT the original Python's confidence_in_verdict=30 fallback
// (DESIGN.md Open Question resolution 3).
func Validate(ctx context.Context, provider llm.Provider, finding Finding, avail DomainAvailability) CriticVerdict {
	if verdict, ok := staticEvaluate(finding, avail); ok {
		return verdict
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, ValidateTimeout)
	defer cancel()

	response, err := llm.SimpleChat(timeoutCtx, provider, validateSystemPrompt(), validateUserPrompt(finding, avail))
	if err != nil {
		reason := "parse error"
		if timeoutCtx.Err() != nil {
			reason = "validation timed out"
		}
		logger.Warn("critic validate LLM call failed for finding %s: %v", finding.FindingID, err)
		return fallbackVerdict(finding, reason)
	}

	jsonText, found := llm.ExtractJSONObject(response.Content)
	if !found {
		logger.Warn("critic validate response for finding %s was not JSON", finding.FindingID)
		return fallbackVerdict(finding, "parse error")
	}

	var parsed validateResponse
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		logger.Warn("failed to parse critic validate response for finding %s: %v", finding.FindingID, err)
		return fallbackVerdict(finding, "parse error")
	}

	verdict := Verdict(parsed.Verdict)
	if verdict != VerdictValidated && verdict != VerdictChallenged && verdict != VerdictInsufficientData {
		verdict = VerdictInsufficientData
	}

	confidence := parsed.ConfidenceInVerdict
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	return CriticVerdict{
		FindingID:           finding.FindingID,
		AgentSource:         finding.AgentName,
		Verdict:             verdict,
		Reasoning:           parsed.Reasoning,
		Recommendation:      parsed.Recommendation,
		ConfidenceInVerdict: confidence,
	}
}

// fallbackVerdict is the literal timeout/parse-failure shape: reasoning
// is exactly "validation timed out" or "parse error" per SPEC_FULL §4.11.
func fallbackVerdict(finding Finding, reason string) CriticVerdict {
	return CriticVerdict{
		FindingID:           finding.FindingID,
		AgentSource:         finding.AgentName,
		Verdict:             VerdictInsufficientData,
		Reasoning:           reason,
		ConfidenceInVerdict: 0,
	}
}

func validateSystemPrompt() string {
	return `You are a Critic Agent. Your ONLY job is to validate or challenge findings from other agents.

Rules:
1. You have NO write access - you can only read and analyze existing data
2. Check the finding against data from ALL other agents
3. Look for contradictions, inconsistencies, or unsupported claims
4. If evidence supports the finding, verdict is "validated"
5. If evidence contradicts the finding, verdict is "challenged"
6. If there's not enough evidence either way, verdict is "insufficient_data"

Respond with JSON:
{"verdict": "validated|challenged|insufficient_data", "reasoning": "...", "recommendation": "...", "confidence_in_verdict": 0}`
}

func validateUserPrompt(finding Finding, avail DomainAvailability) string {
	prompt := fmt.Sprintf(`## Finding to Validate
Agent: %s
Category: %s
Summary: %s
Confidence: %d
Severity: %s
`, finding.AgentName, finding.Category, finding.Summary, finding.ConfidenceScore, finding.Severity)

	if len(finding.Breadcrumbs) > 0 {
		prompt += "\n## Evidence from this finding:\n"
		for i, b := range finding.Breadcrumbs {
			if i >= 5 {
				break
			}
			prompt += fmt.Sprintf("- [%s] %s: %s (Source: %s)\n", b.SourceType, b.Action, b.RawEvidence, b.SourceReference)
		}
	}

	if avail.LogSummary != "" && finding.AgentName != "log_agent" {
		prompt += "\n## Log Analysis Data:\n" + avail.LogSummary + "\n"
	}
	if avail.MetricsSummary != "" && finding.AgentName != "metrics_agent" {
		prompt += "\n## Metrics Data:\n" + avail.MetricsSummary + "\n"
	}
	if avail.K8sSummary != "" && finding.AgentName != "k8s_agent" {
		prompt += "\n## K8s Data:\n" + avail.K8sSummary + "\n"
	}
	if avail.TraceSummary != "" && finding.AgentName != "tracing_agent" {
		prompt += "\n## Tracing Data:\n" + avail.TraceSummary + "\n"
	}

	if len(avail.OtherNegativeFindings) > 0 {
		prompt += "\n## Negative Findings from Other Agents:\n"
		for i, nf := range avail.OtherNegativeFindings {
			if i >= 5 {
				break
			}
			prompt += fmt.Sprintf("- [%s] %s: %s -> %s\n", nf.AgentName, nf.WhatWasChecked, nf.Result, nf.Implication)
		}
	}

	return prompt
}
