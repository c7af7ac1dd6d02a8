package topology

import (
	"testing"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
	"github.com/stretchr/testify/assert"
)

func sampleSnapshot() clustermodel.TopologySnapshot {
	return clustermodel.TopologySnapshot{
		Nodes: map[string]clustermodel.TopologyNode{
			"node/worker-1":         {Kind: "node", Name: "worker-1", Status: "NotReady"},
			"pod/prod/auth-5b6q":    {Kind: "pod", Namespace: "prod", Name: "auth-5b6q", Status: "CrashLoopBackOff", HostNode: "worker-1"},
			"pod/staging/api-9f2d":  {Kind: "pod", Namespace: "staging", Name: "api-9f2d", Status: "Running"},
			"pvc/prod/data":         {Kind: "pvc", Namespace: "prod", Name: "data", Status: "Bound"},
			"deployment/prod/auth":  {Kind: "deployment", Namespace: "prod", Name: "auth", Status: "Ready"},
		},
		Edges: []clustermodel.TopologyEdge{
			{FromKey: "node/worker-1", ToKey: "pod/prod/auth-5b6q", Relation: clustermodel.RelationHosts},
			{FromKey: "deployment/prod/auth", ToKey: "pod/prod/auth-5b6q", Relation: clustermodel.RelationOwns},
			{FromKey: "pod/prod/auth-5b6q", ToKey: "pvc/prod/data", Relation: clustermodel.RelationMountedBy},
		},
	}
}

func TestPrune_Cluster_IsIdentity(t *testing.T) {
	snap := sampleSnapshot()
	pruned := Prune(snap, clustermodel.DiagnosticScope{Level: clustermodel.ScopeCluster})
	assert.Len(t, pruned.Nodes, len(snap.Nodes))
	assert.Len(t, pruned.Edges, len(snap.Edges))
}

func TestPrune_Namespace_KeepsNamespaceAndTransitiveClusterScopedNodes(t *testing.T) {
	snap := sampleSnapshot()
	pruned := Prune(snap, clustermodel.DiagnosticScope{Level: clustermodel.ScopeNamespace, Namespaces: []string{"prod"}})

	assert.Contains(t, pruned.Nodes, "pod/prod/auth-5b6q")
	assert.Contains(t, pruned.Nodes, "deployment/prod/auth")
	assert.Contains(t, pruned.Nodes, "pvc/prod/data")
	assert.Contains(t, pruned.Nodes, "node/worker-1", "hosting node must be pulled in transitively")
	assert.NotContains(t, pruned.Nodes, "pod/staging/api-9f2d")
}

func TestPrune_Workload_BFSWithinDepth(t *testing.T) {
	snap := sampleSnapshot()
	pruned := Prune(snap, clustermodel.DiagnosticScope{Level: clustermodel.ScopeWorkload, WorkloadKey: "deployment/prod/auth"})

	assert.Contains(t, pruned.Nodes, "deployment/prod/auth")
	assert.Contains(t, pruned.Nodes, "pod/prod/auth-5b6q")
	assert.Contains(t, pruned.Nodes, "node/worker-1")
	assert.Contains(t, pruned.Nodes, "pvc/prod/data")
	assert.NotContains(t, pruned.Nodes, "pod/staging/api-9f2d")
}

func TestPrune_Component_KeepsImmediateNeighborsOnly(t *testing.T) {
	snap := sampleSnapshot()
	pruned := Prune(snap, clustermodel.DiagnosticScope{Level: clustermodel.ScopeComponent, ComponentKey: "pod/prod/auth-5b6q"})

	assert.Contains(t, pruned.Nodes, "pod/prod/auth-5b6q")
	assert.Contains(t, pruned.Nodes, "node/worker-1")
	assert.Contains(t, pruned.Nodes, "deployment/prod/auth")
	assert.Contains(t, pruned.Nodes, "pvc/prod/data")
	assert.NotContains(t, pruned.Nodes, "pod/staging/api-9f2d")
}

func TestPrune_UnknownWorkloadKey_YieldsEmptySnapshot(t *testing.T) {
	snap := sampleSnapshot()
	pruned := Prune(snap, clustermodel.DiagnosticScope{Level: clustermodel.ScopeWorkload, WorkloadKey: "deployment/prod/missing"})
	assert.Empty(t, pruned.Nodes)
}

func TestCoverage_FullRetentionIsOne(t *testing.T) {
	snap := sampleSnapshot()
	problems := map[string]bool{"NotReady": true, "CrashLoopBackOff": true}
	coverage := Coverage(snap, snap, problems)
	assert.Equal(t, 1.0, coverage)
}

func TestCoverage_PartialRetention(t *testing.T) {
	snap := sampleSnapshot()
	problems := map[string]bool{"NotReady": true, "CrashLoopBackOff": true}
	scoped := Prune(snap, clustermodel.DiagnosticScope{Level: clustermodel.ScopeComponent, ComponentKey: "pod/staging/api-9f2d"})
	coverage := Coverage(snap, scoped, problems)
	assert.Equal(t, 0.0, coverage, "scoping away from the only alert-bearing nodes must yield zero coverage")
}

func TestCoverage_NoAlertBearingNodes_YieldsOne(t *testing.T) {
	snap := clustermodel.TopologySnapshot{Nodes: map[string]clustermodel.TopologyNode{
		"pod/a/one": {Kind: "pod", Namespace: "a", Name: "one", Status: "Running"},
	}}
	coverage := Coverage(snap, clustermodel.TopologySnapshot{}, map[string]bool{"NotReady": true})
	assert.Equal(t, 1.0, coverage)
}
