package clusterdiag

import (
	"testing"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
	"github.com/stretchr/testify/assert"
)

func sampleSnapshot() clustermodel.TopologySnapshot {
	return clustermodel.TopologySnapshot{
		Nodes: map[string]clustermodel.TopologyNode{
			"node/worker-1":            {Kind: "node", Name: "worker-1", Status: "DiskPressure"},
			"pod/prod/auth-5b6q":       {Kind: "pod", Namespace: "prod", Name: "auth-5b6q", Status: "CrashLoopBackOff"},
			"deployment/prod/auth":     {Kind: "deployment", Namespace: "prod", Name: "auth", Status: "Available"},
		},
		Edges: []clustermodel.TopologyEdge{
			{FromKey: "deployment/prod/auth", ToKey: "pod/prod/auth-5b6q", Relation: clustermodel.RelationOwns},
			{FromKey: "deployment/prod/auth", ToKey: "pod/prod/other", Relation: clustermodel.RelationOwns},
		},
	}
}

func TestBuildSoftContextResolver_SharedOwnerTrue(t *testing.T) {
	resolver := buildSoftContextResolver(sampleSnapshot())
	ctx := resolver("pod/prod/auth-5b6q", "pod/prod/other")
	assert.True(t, ctx.SharedOwner)
}

func TestBuildSoftContextResolver_NoSharedOwner(t *testing.T) {
	resolver := buildSoftContextResolver(sampleSnapshot())
	ctx := resolver("node/worker-1", "pod/prod/auth-5b6q")
	assert.False(t, ctx.SharedOwner)
}

func TestBuildSoftContextResolver_TransientNodeWithNoHostedAlerts(t *testing.T) {
	resolver := buildSoftContextResolver(sampleSnapshot())
	ctx := resolver("node/worker-1", "pod/prod/auth-5b6q")
	assert.True(t, ctx.FromIsTransientNode)
}

func TestBuildSoftContextResolver_TransientNodeSuppressedByHostedAlert(t *testing.T) {
	snapshot := sampleSnapshot()
	snapshot.Edges = append(snapshot.Edges, clustermodel.TopologyEdge{
		FromKey: "node/worker-1", ToKey: "pod/prod/auth-5b6q", Relation: clustermodel.RelationHosts,
	})
	resolver := buildSoftContextResolver(snapshot)
	ctx := resolver("node/worker-1", "pod/prod/auth-5b6q")
	assert.False(t, ctx.FromIsTransientNode, "a node hosting an alerting pod looks like a real cascade, not a transient blip")
}

func TestBuildSoftContextResolver_NamespacesPopulated(t *testing.T) {
	resolver := buildSoftContextResolver(sampleSnapshot())
	ctx := resolver("pod/prod/auth-5b6q", "deployment/prod/auth")
	assert.Equal(t, "prod", ctx.FromNamespace)
	assert.Equal(t, "prod", ctx.ToNamespace)
}
