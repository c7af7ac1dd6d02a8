package domainagents

import (
	"encoding/json"
	"fmt"
	"time"

	"context"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
	"github.com/inder1991/cluster-incident-agent/internal/llm"
	"github.com/inder1991/cluster-incident-agent/internal/logging"
)

const platformCapabilitiesOpenShift = "Full access: MachineSets, MachineConfigPools, plus standard K8s."
const platformCapabilitiesVanilla = "Standard K8s only. No MachineSets or MachineConfigPools."

func platformCapabilities(platform string) string {
	if platform == "openshift" {
		return platformCapabilitiesOpenShift
	}
	return platformCapabilitiesVanilla
}

// analysisResponse is the JSON shape the LLM is asked to return.
type analysisResponse struct {
	Anomalies  []anomalyJSON `json:"anomalies"`
	RuledOut   []string      `json:"ruled_out"`
	Confidence int           `json:"confidence"`
}

type anomalyJSON struct {
	Domain      string `json:"domain"`
	AnomalyID   string `json:"anomaly_id"`
	Description string `json:"description"`
	EvidenceRef string `json:"evidence_ref"`
	Severity    string `json:"severity"`
}

// GatherFunc collects one domain's raw data payload plus truncation flags.
type GatherFunc func(ctx context.Context, client ClusterDataClient, scope clustermodel.DiagnosticScope) (payload map[string]interface{}, flags clustermodel.TruncationFlags, err error)

// Agent is one of the four cluster diagnostic domain agents.
type Agent struct {
	Domain           clustermodel.DomainName
	SystemPromptBody string // the domain-specific middle paragraph (what it analyzes)
	AnomalyIDPrefix  string
	Gather           GatherFunc

	logger *logging.Logger
}

// NewAgent builds a generic domain agent; the four constructors below wire
// domain-specific prompt text and gather functions.
func NewAgent(domain clustermodel.DomainName, systemPromptBody, anomalyIDPrefix string, gather GatherFunc) *Agent {
	return &Agent{
		Domain: domain, SystemPromptBody: systemPromptBody, AnomalyIDPrefix: anomalyIDPrefix,
		Gather: gather, logger: logging.GetLogger("domainagents." + string(domain)),
	}
}

// Run gathers this domain's data, calls the LLM once with a system prompt
// and an analysis prompt, and produces a DomainReport. It never returns an
// error: failures are converted into a FAILED DomainReport, matching
// SPEC_FULL §7's "a component never raises past a bounded boundary".
func (a *Agent) Run(ctx context.Context, provider llm.Provider, client ClusterDataClient, platform, platformVersion string, scope clustermodel.DiagnosticScope) clustermodel.DomainReport {
	start := time.Now()

	if client == nil {
		return clustermodel.DomainReport{Domain: a.Domain, Status: clustermodel.DomainStatusFailed, FailureReason: clustermodel.FailureReasonException}
	}

	payload, flags, err := a.Gather(ctx, client, scope)
	if err != nil {
		a.logger.Warn("%s agent data gathering failed: %v", a.Domain, err)
		return clustermodel.DomainReport{Domain: a.Domain, Status: clustermodel.DomainStatusFailed, FailureReason: clustermodel.FailureReasonAPIUnreachable}
	}

	system := a.systemPrompt(platform, platformVersion)
	prompt := a.analysisPrompt(payload)

	response, err := llm.SimpleChat(ctx, provider, system, prompt)
	if err != nil {
		a.logger.Warn("%s agent LLM call failed: %v", a.Domain, err)
		return clustermodel.DomainReport{Domain: a.Domain, Status: clustermodel.DomainStatusFailed, FailureReason: clustermodel.FailureReasonException, DurationMs: int(time.Since(start).Milliseconds())}
	}

	analysis := a.parseAnalysis(response.Content)

	var anomalies []clustermodel.DomainAnomaly
	var evidenceRefs []string
	for _, a2 := range analysis.Anomalies {
		if a2.Domain == "" {
			continue
		}
		anomalies = append(anomalies, clustermodel.DomainAnomaly{
			Domain: clustermodel.DomainName(a2.Domain), AnomalyID: a2.AnomalyID,
			Description: a2.Description, EvidenceRef: a2.EvidenceRef, Severity: a2.Severity,
		})
		if a2.EvidenceRef != "" {
			evidenceRefs = append(evidenceRefs, a2.EvidenceRef)
		}
	}

	return clustermodel.DomainReport{
		Domain:          a.Domain,
		Status:          clustermodel.DomainStatusSuccess,
		Confidence:      analysis.Confidence,
		Anomalies:       anomalies,
		RuledOut:        analysis.RuledOut,
		EvidenceRefs:    evidenceRefs,
		TruncationFlags: flags,
		DurationMs:      int(time.Since(start).Milliseconds()),
	}
}

func (a *Agent) systemPrompt(platform, platformVersion string) string {
	return fmt.Sprintf(
		"You are the %s diagnostic agent.\n%s\n\nPlatform: %s %s\n%s\n\nAnalyze the provided data and produce a structured assessment.",
		a.Domain, a.SystemPromptBody, platform, platformVersion, platformCapabilities(platform),
	)
}

func (a *Agent) analysisPrompt(payload map[string]interface{}) string {
	dataJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		dataJSON = []byte("{}")
	}
	return fmt.Sprintf(`Analyze this data and produce a JSON response:

## Data Collected
%s

## Required JSON Response Format
{
  "anomalies": [
    {"domain": "%s", "anomaly_id": "%s-NNN", "description": "...", "evidence_ref": "ev-%s-NNN", "severity": "high|medium|low"}
  ],
  "ruled_out": ["list of things checked and found healthy"],
  "confidence": 0-100
}

Rules:
- Only report anomalies you have evidence for
- Include severity (high/medium/low)
- Confidence reflects data quality and coverage
- ruled_out is important -- shows thoroughness`, string(dataJSON), a.Domain, a.AnomalyIDPrefix, a.AnomalyIDPrefix)
}

// parseAnalysis parses the LLM's JSON response via brace extraction,
// falling back to an empty result on any parse failure (SPEC_FULL §4.9/§7,
// scenario S3).
func (a *Agent) parseAnalysis(text string) analysisResponse {
	empty := analysisResponse{Confidence: 0}
	jsonText, found := llm.ExtractJSONObject(text)
	if !found {
		a.logger.Warn("%s agent: LLM response was not JSON", a.Domain)
		return empty
	}
	var out analysisResponse
	if err := json.Unmarshal([]byte(jsonText), &out); err != nil {
		a.logger.Warn("%s agent: failed to parse LLM response: %v", a.Domain, err)
		return empty
	}
	return out
}
