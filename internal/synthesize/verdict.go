package synthesize

import (
	"encoding/json"
	"fmt"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
	"github.com/inder1991/cluster-incident-agent/internal/llm"
	"github.com/inder1991/cluster-incident-agent/internal/logging"
)

type verdictResponse struct {
	PlatformHealth string            `json:"platform_health"`
	BlastRadius    blastRadiusJSON   `json:"blast_radius"`
	Remediation    remediationJSON   `json:"remediation"`
	ReDispatch     reDispatchJSON    `json:"re_dispatch"`
}

type blastRadiusJSON struct {
	Namespaces int    `json:"namespaces"`
	Pods       int    `json:"pods"`
	Nodes      int    `json:"nodes"`
	Summary    string `json:"summary"`
}

type remediationJSON struct {
	Immediate []remediationStepJSON `json:"immediate"`
	LongTerm  []remediationStepJSON `json:"long_term"`
}

type remediationStepJSON struct {
	Description string `json:"description"`
	Domain      string `json:"domain"`
}

type reDispatchJSON struct {
	Needed  bool     `json:"needed"`
	Domains []string `json:"domains"`
}

var verdictLogger = logging.GetLogger("synthesize.verdict")

// verdictFallback is the literal fallback shape on timeout or parse
// failure, per SPEC_FULL §4.8/§7: UNKNOWN health, an "unable to determine"
// blast radius, no remediation, and no re-dispatch.
func verdictFallback() verdictResponse {
	return verdictResponse{
		PlatformHealth: string(clustermodel.PlatformHealthUnknown),
		BlastRadius:    blastRadiusJSON{Summary: "Unable to determine"},
	}
}

// renderVerdict runs Stage 3: always executes (unlike Stage 2, it is never
// skipped for an empty anomaly set), producing the platform health
// classification, blast radius, remediation steps, and re-dispatch
// decision.
func renderVerdict(ctx llmContext, anomalies []mergedAnomaly, chains []clustermodel.CausalChain, reports []clustermodel.DomainReport, ruledOut []string) verdictResponse {
	response, err := llm.SimpleChat(ctx.ctx, ctx.provider, verdictSystemPrompt(), verdictUserPrompt(anomalies, chains, reports, ruledOut))
	if err != nil {
		verdictLogger.Warn("verdict LLM call failed: %v", err)
		return verdictFallback()
	}

	jsonText, found := llm.ExtractJSONObject(response.Content)
	if !found {
		verdictLogger.Warn("verdict response was not JSON")
		return verdictFallback()
	}
	var out verdictResponse
	if err := json.Unmarshal([]byte(jsonText), &out); err != nil {
		verdictLogger.Warn("failed to parse verdict response: %v", err)
		return verdictFallback()
	}
	if out.PlatformHealth == "" {
		out.PlatformHealth = string(clustermodel.PlatformHealthUnknown)
	}
	return out
}

func verdictSystemPrompt() string {
	return `You are the verdict stage of a cluster incident synthesizer.
Given the merged anomalies and causal chains, classify overall platform health,
estimate blast radius, recommend remediation steps, and decide whether the
domain agents need to be re-dispatched with a refined scope.`
}

func verdictUserPrompt(anomalies []mergedAnomaly, chains []clustermodel.CausalChain, reports []clustermodel.DomainReport, ruledOut []string) string {
	anomaliesJSON, _ := json.MarshalIndent(anomaliesToDomainAnomalies(anomalies), "", "  ")
	chainsJSON, _ := json.MarshalIndent(chains, "", "  ")
	reportsJSON, _ := json.MarshalIndent(reports, "", "  ")
	ruledOutJSON, _ := json.MarshalIndent(ruledOut, "", "  ")

	return fmt.Sprintf(`## Merged Anomalies
%s

## Causal Chains
%s

## Domain Reports
%s

## Ruled Out (checked and found healthy)
%s

## Required JSON Response Format
{
  "platform_health": "HEALTHY|DEGRADED|CRITICAL|UNKNOWN",
  "blast_radius": {"namespaces": 0, "pods": 0, "nodes": 0, "summary": "..."},
  "remediation": {"immediate": [{"description": "...", "domain": "..."}], "long_term": [{"description": "...", "domain": "..."}]},
  "re_dispatch": {"needed": false, "domains": []}
}`, string(anomaliesJSON), string(chainsJSON), string(reportsJSON), string(ruledOutJSON))
}
