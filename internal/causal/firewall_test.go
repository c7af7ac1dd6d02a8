package causal

import (
	"testing"
	"time"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
	"github.com/stretchr/testify/assert"
)

// TestFirewall_Scenario_S1 reproduces SPEC_FULL §8 scenario S1: pod->node is
// blocked by INV-CP-006, node->pod passes.
func TestFirewall_Scenario_S1(t *testing.T) {
	cluster := clustermodel.IssueCluster{
		ID: "cluster-1",
		Alerts: []clustermodel.ClusterAlert{
			{ResourceKey: "pod/payments/auth-5b6q", AlertType: "CrashLoopBackOff", Timestamp: time.Now()},
			{ResourceKey: "node/worker-1", AlertType: "NotReady", Timestamp: time.Now()},
		},
	}

	space := EvaluateClusters([]clustermodel.IssueCluster{cluster}, nil)

	var sawBlockedPodToNode, sawValidNodeToPod bool
	for _, b := range space.BlockedLinks {
		if b.FromKey == "pod/payments/auth-5b6q" && b.ToKey == "node/worker-1" {
			assert.Equal(t, "INV-CP-006", b.InvariantID)
			sawBlockedPodToNode = true
		}
	}
	for _, v := range space.ValidLinks {
		if v.FromKey == "node/worker-1" && v.ToKey == "pod/payments/auth-5b6q" {
			sawValidNodeToPod = true
		}
	}

	assert.True(t, sawBlockedPodToNode, "pod->node must be blocked")
	assert.True(t, sawValidNodeToPod, "node->pod must pass the firewall")
}

// TestFirewall_BucketCountsSumToTotalEvaluated is Testable Property 4.
func TestFirewall_BucketCountsSumToTotalEvaluated(t *testing.T) {
	cluster := clustermodel.IssueCluster{
		Alerts: []clustermodel.ClusterAlert{
			{ResourceKey: "pod/ns/a"},
			{ResourceKey: "node/worker-1"},
			{ResourceKey: "service/ns/svc"},
		},
	}
	space := EvaluateClusters([]clustermodel.IssueCluster{cluster}, nil)
	assert.Equal(t, space.TotalEvaluated, len(space.ValidLinks)+len(space.AnnotatedLinks)+len(space.BlockedLinks))
	assert.Equal(t, space.TotalBlocked, len(space.BlockedLinks))
	assert.Equal(t, space.TotalAnnotated, len(space.AnnotatedLinks))
}

// TestFirewall_NoHardBlockedLinkEverPasses is Testable Property 3.
func TestFirewall_NoHardBlockedLinkEverPasses(t *testing.T) {
	cluster := clustermodel.IssueCluster{
		Alerts: []clustermodel.ClusterAlert{
			{ResourceKey: "pod/ns/a"},
			{ResourceKey: "etcd/etcd-0"},
			{ResourceKey: "service/ns/svc"},
			{ResourceKey: "node/worker-1"},
		},
	}
	space := EvaluateClusters([]clustermodel.IssueCluster{cluster}, nil)

	for _, v := range space.ValidLinks {
		_, blocked := LookupHardBlock(kindOf(v.FromKey), kindOf(v.ToKey))
		assert.False(t, blocked)
	}
	for _, a := range space.AnnotatedLinks {
		_, blocked := LookupHardBlock(kindOf(a.FromKey), kindOf(a.ToKey))
		assert.False(t, blocked)
	}
}

func TestFirewall_EmptyClusters_YieldsEmptySearchSpace(t *testing.T) {
	space := EvaluateClusters(nil, nil)
	assert.Equal(t, 0, space.TotalEvaluated)
	assert.Empty(t, space.ValidLinks)
	assert.Empty(t, space.AnnotatedLinks)
	assert.Empty(t, space.BlockedLinks)
}

func TestSoftRules_NodeTransientAnnotation(t *testing.T) {
	cluster := clustermodel.IssueCluster{
		Alerts: []clustermodel.ClusterAlert{
			{ResourceKey: "node/worker-2"},
			{ResourceKey: "deployment/ns/api"},
		},
	}
	resolver := func(from, to string) SoftRuleContext {
		if from == "node/worker-2" {
			return SoftRuleContext{FromIsTransientNode: true}
		}
		return SoftRuleContext{}
	}
	space := EvaluateClusters([]clustermodel.IssueCluster{cluster}, resolver)

	var found bool
	for _, a := range space.AnnotatedLinks {
		if a.FromKey == "node/worker-2" && a.ToKey == "deployment/ns/api" {
			assert.Equal(t, SoftNodeTransient, a.RuleID)
			assert.InDelta(t, 0.2, a.ConfidenceHint, 1e-9)
			found = true
		}
	}
	assert.True(t, found)
}
