package correlate

import (
	"testing"
	"time"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
	"github.com/stretchr/testify/assert"
)

func snapshotS1() clustermodel.TopologySnapshot {
	return clustermodel.TopologySnapshot{
		Nodes: map[string]clustermodel.TopologyNode{
			"pod/payments/auth-5b6q": {Kind: "pod", Namespace: "payments", Name: "auth-5b6q", Status: "CrashLoopBackOff"},
			"node/worker-1":          {Kind: "node", Name: "worker-1", Status: "NotReady"},
		},
		Edges: []clustermodel.TopologyEdge{
			{FromKey: "node/worker-1", ToKey: "pod/payments/auth-5b6q", Relation: clustermodel.RelationHosts},
		},
		BuiltAt: time.Now(),
	}
}

func TestExtractAlerts(t *testing.T) {
	alerts := ExtractAlerts(snapshotS1())
	assert.Len(t, alerts, 2)
}

func TestCorrelate_Scenario_S1(t *testing.T) {
	snap := snapshotS1()
	alerts := ExtractAlerts(snap)
	clusters := Correlate(alerts, snap)

	assert.Len(t, clusters, 1, "connected alerts must join one IssueCluster")
	assert.NotEmpty(t, clusters[0].RootCandidates)
	assert.Equal(t, "node/worker-1", clusters[0].RootCandidates[0].ResourceKey, "node/worker-1 must be the top root candidate")
}

func TestCorrelate_IsolatedAlertsFormSingletons(t *testing.T) {
	snap := clustermodel.TopologySnapshot{
		Nodes: map[string]clustermodel.TopologyNode{
			"pod/a/one": {Kind: "pod", Namespace: "a", Name: "one", Status: "CrashLoopBackOff"},
			"pod/b/two": {Kind: "pod", Namespace: "b", Name: "two", Status: "Evicted"},
		},
	}
	alerts := ExtractAlerts(snap)
	clusters := Correlate(alerts, snap)
	assert.Len(t, clusters, 2)
}

func TestCorrelate_EmptyAlerts_YieldsEmptyClusterList(t *testing.T) {
	clusters := Correlate(nil, clustermodel.TopologySnapshot{})
	assert.Empty(t, clusters)
}

func TestCorrelationBasis_Namespace(t *testing.T) {
	snap := clustermodel.TopologySnapshot{
		Nodes: map[string]clustermodel.TopologyNode{
			"pod/a/one": {Kind: "pod", Namespace: "a", Name: "one", Status: "CrashLoopBackOff"},
			"pod/a/two": {Kind: "pod", Namespace: "a", Name: "two", Status: "Evicted"},
		},
		Edges: []clustermodel.TopologyEdge{
			{FromKey: "pod/a/one", ToKey: "pod/a/two", Relation: clustermodel.RelationDependsOn},
		},
	}
	alerts := ExtractAlerts(snap)
	clusters := Correlate(alerts, snap)
	assert.Len(t, clusters, 1)
	assert.Equal(t, []string{"topology", "namespace"}, clusters[0].CorrelationBasis)
}

func TestTopRootCandidates_CapsAtTwo(t *testing.T) {
	component := []clustermodel.ClusterAlert{
		{ResourceKey: "pod/a/one", AlertType: "Failed"},
		{ResourceKey: "pod/a/two", AlertType: "Failed"},
		{ResourceKey: "pod/a/three", AlertType: "Failed"},
	}
	candidates := topRootCandidates(component)
	assert.Len(t, candidates, 2)
}
