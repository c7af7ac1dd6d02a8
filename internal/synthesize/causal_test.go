package synthesize

import (
	"context"
	"testing"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
	"github.com/inder1991/cluster-incident-agent/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReasonCausally_EmptyAnomalies_SkipsLLMCall(t *testing.T) {
	provider := llm.NewMockProvider(&llm.Response{Content: "should not be used"})
	chains, uncorrelated := reasonCausally(llmContext{ctx: context.Background(), provider: provider}, nil, clustermodel.CausalSearchSpace{})

	assert.Empty(t, chains)
	assert.Empty(t, uncorrelated)
	assert.Empty(t, provider.Calls())
}

func TestReasonCausally_ParsesChainsAndComputesWeakestLink(t *testing.T) {
	provider := llm.NewMockProvider(&llm.Response{Content: `{
		"causal_chains": [
			{"root_description": "node worker-1 notready", "confidence": 0.9, "links": [
				{"from_description": "node worker-1 notready", "to_description": "pod evicted", "link_type": "node_failure_to_workload_rescheduling", "confidence": 0.9, "reasoning": "node failed"},
				{"from_description": "pod evicted", "to_description": "service degraded", "link_type": "pod_eviction_to_service_degradation", "confidence": 0.4, "reasoning": "capacity drop"}
			]}
		],
		"uncorrelated_findings": []
	}`})
	anomalies := []mergedAnomaly{
		{DomainAnomaly: clustermodel.DomainAnomaly{Description: "node worker-1 notready"}},
		{DomainAnomaly: clustermodel.DomainAnomaly{Description: "pod evicted"}},
		{DomainAnomaly: clustermodel.DomainAnomaly{Description: "service degraded"}},
		{DomainAnomaly: clustermodel.DomainAnomaly{Description: "unrelated finding"}},
	}

	chains, uncorrelated := reasonCausally(llmContext{ctx: context.Background(), provider: provider}, anomalies, clustermodel.CausalSearchSpace{})

	require.Len(t, chains, 1)
	assert.Equal(t, 0.4, chains[0].Confidence, "chain confidence must be the minimum of its link confidences")
	require.Len(t, chains[0].Links, 2)
	assert.Equal(t, clustermodel.LinkNodeFailureToWorkloadRescheduling, chains[0].Links[0].LinkType)

	require.Len(t, uncorrelated, 1)
	assert.Equal(t, "unrelated finding", uncorrelated[0].Description)
}

func TestReasonCausally_NonJSONResponse_FallsBackToAllUncorrelated(t *testing.T) {
	provider := llm.NewMockProvider(&llm.Response{Content: "not json"})
	anomalies := []mergedAnomaly{{DomainAnomaly: clustermodel.DomainAnomaly{Description: "a"}}}

	chains, uncorrelated := reasonCausally(llmContext{ctx: context.Background(), provider: provider}, anomalies, clustermodel.CausalSearchSpace{})

	assert.Empty(t, chains)
	assert.Len(t, uncorrelated, 1)
}

func TestNormalizeLinkType_UnknownFallsBackToLinkUnknown(t *testing.T) {
	assert.Equal(t, clustermodel.LinkUnknown, normalizeLinkType("something_made_up"))
	assert.Equal(t, clustermodel.LinkDNSFailureToAPIUnreachable, normalizeLinkType("dns_failure_to_api_unreachable"))
}
