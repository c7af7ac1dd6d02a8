package synthesize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
	"github.com/inder1991/cluster-incident-agent/internal/llm"
	"github.com/inder1991/cluster-incident-agent/internal/logging"
)

// causalRulesText is the six causal reasoning rules the LLM prompt
// enforces verbatim, per SPEC_FULL §4.8.
const causalRulesText = `1. Temporal: the cause's first evidence must precede the effect's.
2. Mechanism: each edge must name a link type from the allowed list -- "same time" is not a mechanism.
3. Domain boundary: cross-domain edges must name the infrastructure mechanism connecting them.
4. Single root per chain; two independent roots produce two separate chains.
5. Weakest-link: a chain's confidence is the minimum of its link confidences.
6. Observability confirmation: cross-domain causality requires evidence in the effect domain that references the cause resource.`

// causalChainJSON/causalLinkJSON are the LLM's Stage 2 JSON response shape.
type causalChainJSON struct {
	RootDescription string          `json:"root_description"`
	Links           []causalLinkJSON `json:"links"`
	Confidence      float64         `json:"confidence"`
}

type causalLinkJSON struct {
	FromDescription string  `json:"from_description"`
	ToDescription   string  `json:"to_description"`
	LinkType        string  `json:"link_type"`
	Confidence      float64 `json:"confidence"`
	Reasoning       string  `json:"reasoning"`
}

type causalReasoningResponse struct {
	CausalChains         []causalChainJSON          `json:"causal_chains"`
	UncorrelatedFindings []map[string]interface{} `json:"uncorrelated_findings"`
}

var causalLogger = logging.GetLogger("synthesize.causal")

// reasonCausally runs Stage 2: given the merged anomalies and the causal
// firewall's search space, asks the LLM to propose causal_chains and
// uncorrelated_findings, constrained to the closed link-type vocabulary.
// Skipped entirely (not an LLM call) if there are no merged anomalies,
// matching the original's early-return when anomalies is empty.
func reasonCausally(ctx llmContext, anomalies []mergedAnomaly, space clustermodel.CausalSearchSpace) ([]clustermodel.CausalChain, []clustermodel.DomainAnomaly) {
	if len(anomalies) == 0 {
		return nil, nil
	}

	response, err := llm.SimpleChat(ctx.ctx, ctx.provider, causalSystemPrompt(), causalUserPrompt(anomalies, space))
	if err != nil {
		causalLogger.Warn("causal reasoning LLM call failed: %v", err)
		return nil, anomaliesToDomainAnomalies(anomalies)
	}

	parsed, ok := parseCausalResponse(response.Content)
	if !ok {
		return nil, anomaliesToDomainAnomalies(anomalies)
	}

	chains := make([]clustermodel.CausalChain, 0, len(parsed.CausalChains))
	for _, chainJSON := range parsed.CausalChains {
		links := make([]clustermodel.CausalChainLink, 0, len(chainJSON.Links))
		for _, linkJSON := range chainJSON.Links {
			links = append(links, clustermodel.CausalChainLink{
				FromDescription: linkJSON.FromDescription,
				ToDescription:   linkJSON.ToDescription,
				LinkType:        normalizeLinkType(linkJSON.LinkType),
				Confidence:      linkJSON.Confidence,
				Reasoning:       linkJSON.Reasoning,
			})
		}
		chains = append(chains, clustermodel.CausalChain{
			RootDescription: chainJSON.RootDescription,
			Links:           links,
			Confidence:      weakestLinkConfidence(links, chainJSON.Confidence),
		})
	}

	uncorrelated := anomaliesNotInChains(anomalies, chains)
	return chains, uncorrelated
}

// weakestLinkConfidence enforces causal rule 5: a chain's confidence is the
// minimum of its link confidences, falling back to the LLM-reported value
// when the chain has no links.
func weakestLinkConfidence(links []clustermodel.CausalChainLink, reported float64) float64 {
	if len(links) == 0 {
		return reported
	}
	min := links[0].Confidence
	for _, link := range links[1:] {
		if link.Confidence < min {
			min = link.Confidence
		}
	}
	return min
}

// normalizeLinkType maps free-form LLM link type text onto the closed
// vocabulary, falling back to LinkUnknown for anything it does not
// recognize -- the prompt constrains the LLM but the parse stays defensive.
func normalizeLinkType(raw string) clustermodel.CausalChainLinkType {
	candidate := clustermodel.CausalChainLinkType(strings.TrimSpace(raw))
	for _, known := range clustermodel.CausalChainLinkTypes {
		if known == candidate {
			return known
		}
	}
	return clustermodel.LinkUnknown
}

func anomaliesToDomainAnomalies(merged []mergedAnomaly) []clustermodel.DomainAnomaly {
	out := make([]clustermodel.DomainAnomaly, 0, len(merged))
	for _, m := range merged {
		out = append(out, m.DomainAnomaly)
	}
	return out
}

// anomaliesNotInChains returns every merged anomaly whose description does
// not appear as a from/to description in any proposed chain link.
func anomaliesNotInChains(merged []mergedAnomaly, chains []clustermodel.CausalChain) []clustermodel.DomainAnomaly {
	referenced := map[string]bool{}
	for _, chain := range chains {
		for _, link := range chain.Links {
			referenced[normalizeDescription(link.FromDescription)] = true
			referenced[normalizeDescription(link.ToDescription)] = true
		}
	}
	var out []clustermodel.DomainAnomaly
	for _, m := range merged {
		if !referenced[normalizeDescription(m.Description)] {
			out = append(out, m.DomainAnomaly)
		}
	}
	return out
}

func causalSystemPrompt() string {
	var allowed []string
	for _, t := range clustermodel.CausalChainLinkTypes {
		allowed = append(allowed, string(t))
	}
	return fmt.Sprintf(`You are the causal reasoning stage of a cluster incident synthesizer.
Propose causal chains linking anomalies across domains using ONLY these link types:
%s

Enforce these rules:
%s`, strings.Join(allowed, ", "), causalRulesText)
}

func causalUserPrompt(anomalies []mergedAnomaly, space clustermodel.CausalSearchSpace) string {
	anomaliesJSON, _ := json.MarshalIndent(anomaliesToDomainAnomalies(anomalies), "", "  ")
	annotatedJSON, _ := json.MarshalIndent(space.AnnotatedLinks, "", "  ")

	return fmt.Sprintf(`## Merged Anomalies
%s

## Annotated Links (soft-rule confidence hints)
%s

## Blocked Links
%d links were blocked by hard invariants -- do NOT propose these.

## Required JSON Response Format
{
  "causal_chains": [
    {"root_description": "...", "links": [{"from_description": "...", "to_description": "...", "link_type": "...", "confidence": 0.0-1.0, "reasoning": "..."}], "confidence": 0.0-1.0}
  ],
  "uncorrelated_findings": []
}`, string(anomaliesJSON), string(annotatedJSON), space.TotalBlocked)
}

// parseCausalResponse parses the LLM's JSON via brace extraction, matching
// the fallback shape {"causal_chains": [], "uncorrelated_findings": []} on
// any parse failure (SPEC_FULL §4.8/§7).
func parseCausalResponse(text string) (causalReasoningResponse, bool) {
	jsonText, found := llm.ExtractJSONObject(text)
	if !found {
		causalLogger.Warn("causal reasoning response was not JSON")
		return causalReasoningResponse{}, false
	}
	var out causalReasoningResponse
	if err := json.Unmarshal([]byte(jsonText), &out); err != nil {
		causalLogger.Warn("failed to parse causal reasoning response: %v", err)
		return causalReasoningResponse{}, false
	}
	return out, true
}
