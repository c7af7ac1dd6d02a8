package synthesize

import (
	"context"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
	"github.com/inder1991/cluster-incident-agent/internal/llm"
)

// llmContext bundles the context and provider threaded through the two LLM
// stages, avoiding a long parallel parameter list on every stage function.
type llmContext struct {
	ctx      context.Context
	provider llm.Provider
}

// Synthesize runs the full three-stage pipeline (merge, causal reasoning,
// verdict) over a set of domain reports and the causal firewall's search
// space, producing the graph's ClusterHealthReport.
func Synthesize(ctx context.Context, provider llm.Provider, reports []clustermodel.DomainReport, space clustermodel.CausalSearchSpace) clustermodel.ClusterHealthReport {
	llmCtx := llmContext{ctx: ctx, provider: provider}

	merged := mergeAnomalies(reports)
	ruledOut := mergeRuledOut(reports)

	chains, uncorrelated := reasonCausally(llmCtx, merged, space)
	verdict := renderVerdict(llmCtx, merged, chains, reports, ruledOut)

	immediate := make([]clustermodel.RemediationStep, 0, len(verdict.Remediation.Immediate))
	for _, step := range verdict.Remediation.Immediate {
		immediate = append(immediate, clustermodel.RemediationStep{Description: step.Description, Domain: clustermodel.DomainName(step.Domain)})
	}
	longTerm := make([]clustermodel.RemediationStep, 0, len(verdict.Remediation.LongTerm))
	for _, step := range verdict.Remediation.LongTerm {
		longTerm = append(longTerm, clustermodel.RemediationStep{Description: step.Description, Domain: clustermodel.DomainName(step.Domain)})
	}

	redispatchDomains := make([]clustermodel.DomainName, 0, len(verdict.ReDispatch.Domains))
	for _, d := range verdict.ReDispatch.Domains {
		redispatchDomains = append(redispatchDomains, clustermodel.DomainName(d))
	}

	return clustermodel.ClusterHealthReport{
		PlatformHealth:       clustermodel.PlatformHealth(verdict.PlatformHealth),
		CausalChains:         chains,
		UncorrelatedFindings: uncorrelated,
		BlastRadius: clustermodel.BlastRadius{
			Namespaces: verdict.BlastRadius.Namespaces,
			Pods:       verdict.BlastRadius.Pods,
			Nodes:      verdict.BlastRadius.Nodes,
			Summary:    verdict.BlastRadius.Summary,
		},
		ImmediateSteps:    immediate,
		LongTermSteps:     longTerm,
		ReDispatchNeeded:  verdict.ReDispatch.Needed,
		ReDispatchDomains: redispatchDomains,
		DataCompleteness:  DataCompleteness(reports),
	}
}
