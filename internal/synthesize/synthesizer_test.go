package synthesize

import (
	"context"
	"errors"
	"testing"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
	"github.com/inder1991/cluster-incident-agent/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// erroringProvider is a Provider that always fails Chat, for exercising the
// synthesizer's fallback paths.
type erroringProvider struct{}

func (e *erroringProvider) Chat(_ context.Context, _ string, _ []llm.Message, _ []llm.ToolDefinition) (*llm.Response, error) {
	return nil, errors.New("provider unavailable")
}
func (e *erroringProvider) Name() string  { return "erroring" }
func (e *erroringProvider) Model() string { return "erroring-model" }

func TestSynthesize_EndToEnd_WithAnomalies(t *testing.T) {
	provider := llm.NewMockProvider(
		&llm.Response{Content: `{"causal_chains": [{"root_description": "node worker-1 notready", "confidence": 0.7, "links": [
			{"from_description": "node worker-1 notready", "to_description": "pod evicted", "link_type": "node_failure_to_workload_rescheduling", "confidence": 0.7, "reasoning": "node failed"}
		]}], "uncorrelated_findings": []}`},
		&llm.Response{Content: `{"platform_health": "DEGRADED", "blast_radius": {"namespaces": 1, "pods": 2, "nodes": 1, "summary": "node outage"},
			"remediation": {"immediate": [{"description": "drain node", "domain": "node"}], "long_term": []},
			"re_dispatch": {"needed": false, "domains": []}}`},
	)

	reports := []clustermodel.DomainReport{
		{Domain: clustermodel.DomainNode, Status: clustermodel.DomainStatusSuccess, Anomalies: []clustermodel.DomainAnomaly{
			{Domain: clustermodel.DomainNode, Description: "node worker-1 notready"},
		}},
		{Domain: clustermodel.DomainNetwork, Status: clustermodel.DomainStatusSuccess, Anomalies: []clustermodel.DomainAnomaly{
			{Domain: clustermodel.DomainNetwork, Description: "pod evicted"},
		}},
		{Domain: clustermodel.DomainControlPlane, Status: clustermodel.DomainStatusSkipped},
	}

	report := Synthesize(context.Background(), provider, reports, clustermodel.CausalSearchSpace{})

	assert.Equal(t, clustermodel.PlatformHealthDegraded, report.PlatformHealth)
	require.Len(t, report.CausalChains, 1)
	assert.Equal(t, 2, report.BlastRadius.Pods)
	require.Len(t, report.ImmediateSteps, 1)
	assert.Equal(t, "drain node", report.ImmediateSteps[0].Description)
	assert.False(t, report.ReDispatchNeeded)
	assert.Equal(t, 1.0, report.DataCompleteness, "both non-skipped reports succeeded")
}

func TestSynthesize_NoAnomalies_SkipsCausalStageButStillRendersVerdict(t *testing.T) {
	provider := llm.NewMockProvider(&llm.Response{Content: `{"platform_health": "HEALTHY", "blast_radius": {"summary": "no issues"},
		"remediation": {"immediate": [], "long_term": []}, "re_dispatch": {"needed": false, "domains": []}}`})

	reports := []clustermodel.DomainReport{
		{Domain: clustermodel.DomainNode, Status: clustermodel.DomainStatusSuccess},
		{Domain: clustermodel.DomainStorage, Status: clustermodel.DomainStatusSuccess},
	}

	report := Synthesize(context.Background(), provider, reports, clustermodel.CausalSearchSpace{})

	assert.Equal(t, clustermodel.PlatformHealthHealthy, report.PlatformHealth)
	assert.Empty(t, report.CausalChains)
	assert.Len(t, provider.Calls(), 1, "causal reasoning stage must be skipped with no anomalies")
}

func TestSynthesize_ProviderErrors_YieldsUnknownHealthAndEmptyChains(t *testing.T) {
	reports := []clustermodel.DomainReport{
		{Domain: clustermodel.DomainNode, Status: clustermodel.DomainStatusSuccess, Anomalies: []clustermodel.DomainAnomaly{
			{Domain: clustermodel.DomainNode, Description: "disk full"},
		}},
	}

	report := Synthesize(context.Background(), &erroringProvider{}, reports, clustermodel.CausalSearchSpace{})

	assert.Equal(t, clustermodel.PlatformHealthUnknown, report.PlatformHealth)
	assert.Empty(t, report.CausalChains)
	require.Len(t, report.UncorrelatedFindings, 1)
}
