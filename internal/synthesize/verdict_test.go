package synthesize

import (
	"context"
	"testing"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
	"github.com/inder1991/cluster-incident-agent/internal/llm"
	"github.com/stretchr/testify/assert"
)

func TestRenderVerdict_ParsesFullResponse(t *testing.T) {
	provider := llm.NewMockProvider(&llm.Response{Content: `{
		"platform_health": "DEGRADED",
		"blast_radius": {"namespaces": 1, "pods": 3, "nodes": 1, "summary": "one node affecting prod"},
		"remediation": {"immediate": [{"description": "drain node", "domain": "node"}], "long_term": [{"description": "add capacity", "domain": "node"}]},
		"re_dispatch": {"needed": true, "domains": ["node"]}
	}`})

	verdict := renderVerdict(llmContext{ctx: context.Background(), provider: provider}, nil, nil, nil, nil)

	assert.Equal(t, "DEGRADED", verdict.PlatformHealth)
	assert.Equal(t, 3, verdict.BlastRadius.Pods)
	assert.True(t, verdict.ReDispatch.Needed)
	assert.Equal(t, []string{"node"}, verdict.ReDispatch.Domains)
}

func TestRenderVerdict_NonJSONResponse_YieldsFallback(t *testing.T) {
	provider := llm.NewMockProvider(&llm.Response{Content: "not json"})
	verdict := renderVerdict(llmContext{ctx: context.Background(), provider: provider}, nil, nil, nil, nil)

	assert.Equal(t, string(clustermodel.PlatformHealthUnknown), verdict.PlatformHealth)
	assert.Equal(t, "Unable to determine", verdict.BlastRadius.Summary)
	assert.False(t, verdict.ReDispatch.Needed)
}

func TestRenderVerdict_LLMError_YieldsFallback(t *testing.T) {
	verdict := renderVerdict(llmContext{ctx: context.Background(), provider: &erroringProvider{}}, nil, nil, nil, nil)
	assert.Equal(t, string(clustermodel.PlatformHealthUnknown), verdict.PlatformHealth)
}
