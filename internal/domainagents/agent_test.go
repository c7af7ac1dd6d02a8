package domainagents

import (
	"context"
	"testing"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
	"github.com/inder1991/cluster-incident-agent/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeAgent_Run_SuccessWithAnomalies(t *testing.T) {
	client := &FakeClusterDataClient{
		Nodes:  QueryResult{Data: []interface{}{map[string]interface{}{"name": "worker-1", "status": "NotReady"}}},
		Events: QueryResult{},
		Pods:   QueryResult{},
	}
	provider := llm.NewMockProvider(&llm.Response{
		Content: `{"anomalies":[{"domain":"node","anomaly_id":"node-001","description":"node NotReady","evidence_ref":"ev-node-001","severity":"high"}],"ruled_out":["disk pressure"],"confidence":80}`,
	})

	agent := NewNodeAgent()
	report := agent.Run(context.Background(), provider, client, "kubernetes", "1.29", clustermodel.DiagnosticScope{Level: clustermodel.ScopeCluster})

	assert.Equal(t, clustermodel.DomainStatusSuccess, report.Status)
	assert.Equal(t, 80, report.Confidence)
	require.Len(t, report.Anomalies, 1)
	assert.Equal(t, "node-001", report.Anomalies[0].AnomalyID)
	assert.Equal(t, []string{"ev-node-001"}, report.EvidenceRefs)
}

func TestAgent_Run_NonJSONResponse_YieldsSuccessWithEmptyAnalysis(t *testing.T) {
	client := &FakeClusterDataClient{}
	provider := llm.NewMockProvider(&llm.Response{Content: "Not JSON"})

	agent := NewControlPlaneAgent()
	report := agent.Run(context.Background(), provider, client, "kubernetes", "1.29", clustermodel.DiagnosticScope{})

	assert.Equal(t, clustermodel.DomainStatusSuccess, report.Status, "parse failure must still be SUCCESS per scenario S3")
	assert.Equal(t, 0, report.Confidence)
	assert.Empty(t, report.Anomalies)
}

func TestAgent_Run_NilClient_YieldsFailedException(t *testing.T) {
	provider := llm.NewMockProvider(&llm.Response{Content: "{}"})
	agent := NewStorageAgent()
	report := agent.Run(context.Background(), provider, nil, "kubernetes", "1.29", clustermodel.DiagnosticScope{})

	assert.Equal(t, clustermodel.DomainStatusFailed, report.Status)
	assert.Equal(t, clustermodel.FailureReasonException, report.FailureReason)
}

func TestNetworkAgent_Gather_NamespaceScopedEvents(t *testing.T) {
	client := &FakeClusterDataClient{
		Events: QueryResult{Data: []interface{}{"evt-1"}},
	}
	provider := llm.NewMockProvider(&llm.Response{Content: `{"anomalies":[],"ruled_out":[],"confidence":50}`})

	agent := NewNetworkAgent()
	report := agent.Run(context.Background(), provider, client, "openshift", "4.16", clustermodel.DiagnosticScope{Level: clustermodel.ScopeNamespace, Namespaces: []string{"prod"}})

	assert.Equal(t, clustermodel.DomainStatusSuccess, report.Status)
}

func TestQueryResult_Cap_SetsTruncatedAndCounts(t *testing.T) {
	result := QueryResult{Data: []interface{}{1, 2, 3, 4, 5}}
	capped := result.Cap(3)
	assert.True(t, capped.Truncated)
	assert.Len(t, capped.Data, 3)
	assert.Equal(t, 5, capped.TotalAvailable)
}

func TestQueryResult_Cap_UnderLimitNotTruncated(t *testing.T) {
	result := QueryResult{Data: []interface{}{1, 2}}
	capped := result.Cap(10)
	assert.False(t, capped.Truncated)
	assert.Equal(t, 2, capped.Returned)
}

func TestPlatformCapabilities_Openshift(t *testing.T) {
	assert.Contains(t, platformCapabilities("openshift"), "MachineSets")
	assert.Contains(t, platformCapabilities("kubernetes"), "Standard K8s only")
}
