package causal

import (
	"strings"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
)

// kindOf extracts the resource kind from a "kind/[ns/]name" resource key.
func kindOf(resourceKey string) string {
	idx := strings.IndexByte(resourceKey, '/')
	if idx < 0 {
		return resourceKey
	}
	return resourceKey[:idx]
}

// SoftRuleContext is the topology context for one candidate link that
// matchSoftRules evaluates the soft-rule table against. It carries just
// enough to evaluate the four rules without requiring the full snapshot.
type SoftRuleContext struct {
	// FromNamespace/ToNamespace are the namespaces of the two endpoints (may be empty for cluster-scoped kinds).
	FromNamespace string
	ToNamespace   string
	// FromIsTransientNode is true if the "from" alert is a node condition observed exactly once with no cascade.
	FromIsTransientNode bool
	// PVCPendingStorageHealthy is true if the link concerns a PVC stuck Pending while the storage backend is healthy.
	PVCPendingStorageHealthy bool
	// SharedOwner is true if both endpoints share a controller/owner reference.
	SharedOwner bool
	// HasDownstreamWorkloadAlerts is true if a control-plane alert has corroborating workload-level alerts in its cluster.
	HasDownstreamWorkloadAlerts bool
}

func matchSoftRules(fromKind, toKind string, ctx SoftRuleContext) (clustermodel.CausalAnnotation, bool) {
	rules := SoftRules()

	if fromKind == "node" && ctx.FromIsTransientNode {
		r := rules[SoftNodeTransient]
		return clustermodel.CausalAnnotation{RuleID: r.ID, ConfidenceHint: r.ConfidenceHint, Reason: r.Description}, true
	}
	if fromKind == "pvc" && ctx.PVCPendingStorageHealthy {
		r := rules[SoftPVCPendingHealthy]
		return clustermodel.CausalAnnotation{RuleID: r.ID, ConfidenceHint: r.ConfidenceHint, Reason: r.Description}, true
	}
	if ctx.FromNamespace != "" && ctx.ToNamespace != "" && ctx.FromNamespace != ctx.ToNamespace && !ctx.SharedOwner {
		r := rules[SoftCrossNamespaceNoOwner]
		return clustermodel.CausalAnnotation{RuleID: r.ID, ConfidenceHint: r.ConfidenceHint, Reason: r.Description}, true
	}
	if toKind == "control_plane" && !ctx.HasDownstreamWorkloadAlerts {
		r := rules[SoftIsolatedControlPlane]
		return clustermodel.CausalAnnotation{RuleID: r.ID, ConfidenceHint: r.ConfidenceHint, Reason: r.Description}, true
	}
	return clustermodel.CausalAnnotation{}, false
}

// SoftContextResolver supplies the per-link SoftRuleContext the firewall
// needs to evaluate soft rules; callers (the cluster diagnostic graph)
// implement this against the live topology snapshot.
type SoftContextResolver func(fromKey, toKey string) SoftRuleContext

// EvaluateClusters runs the firewall operation (SPEC_FULL §4.4) over a set
// of issue clusters: enumerate ordered alert pairs within each cluster as
// candidate links (both directions), classify each against the hard-block
// table and the soft rules, and publish the resulting CausalSearchSpace.
func EvaluateClusters(clusters []clustermodel.IssueCluster, resolveContext SoftContextResolver) clustermodel.CausalSearchSpace {
	var space clustermodel.CausalSearchSpace

	for _, cluster := range clusters {
		for i := range cluster.Alerts {
			for j := range cluster.Alerts {
				if i == j {
					continue
				}
				from := cluster.Alerts[i].ResourceKey
				to := cluster.Alerts[j].ResourceKey
				fromKind := kindOf(from)
				toKind := kindOf(to)

				space.TotalEvaluated++

				if inv, blocked := LookupHardBlock(fromKind, toKind); blocked {
					space.BlockedLinks = append(space.BlockedLinks, clustermodel.BlockedLink{
						FromKey:     from,
						ToKey:       to,
						InvariantID: inv.ID,
						Description: inv.Description,
						ReasonCode:  "violates_topology_direction",
					})
					space.TotalBlocked++
					continue
				}

				var ctx SoftRuleContext
				if resolveContext != nil {
					ctx = resolveContext(from, to)
				}
				if ann, matched := matchSoftRules(fromKind, toKind, ctx); matched {
					ann.FromKey = from
					ann.ToKey = to
					space.AnnotatedLinks = append(space.AnnotatedLinks, ann)
					space.TotalAnnotated++
					continue
				}

				space.ValidLinks = append(space.ValidLinks, clustermodel.TopologyEdge{
					FromKey: from, ToKey: to, Relation: clustermodel.RelationDependsOn,
				})
			}
		}
	}

	return space
}
