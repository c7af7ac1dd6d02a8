package clusterdiag

import (
	"strings"

	"github.com/inder1991/cluster-incident-agent/internal/causal"
	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
)

// buildSoftContextResolver derives a causal.SoftContextResolver from a
// topology snapshot. The firewall's soft rules only need a handful of
// yes/no signals per candidate link; this approximates them from what
// TopologySnapshot actually models today:
//
//   - FromNamespace/ToNamespace: the endpoint nodes' namespaces.
//   - SharedOwner: both endpoints are the "to" side of the same "owns" edge.
//   - FromIsTransientNode: the "from" node is a node-kind resource under one
//     of the self-recovering pressure conditions, with no "hosts" edge to a
//     currently-alerting pod (a cascading node failure looks different).
//   - PVCPendingStorageHealthy: always false -- TopologySnapshot has no
//     PV/storage-class health signal to evaluate this against, so the rule
//     stays inert until that data is modeled.
//   - HasDownstreamWorkloadAlerts: true if any pod or deployment node in the
//     whole snapshot is in a problem status, approximating "this cluster has
//     corroborating workload-level alerts" without per-cluster bookkeeping.
func buildSoftContextResolver(snapshot clustermodel.TopologySnapshot) causal.SoftContextResolver {
	ownersByTarget := map[string][]string{}
	hostedAlertingPods := map[string]bool{}
	for _, edge := range snapshot.Edges {
		if edge.Relation == clustermodel.RelationOwns {
			ownersByTarget[edge.ToKey] = append(ownersByTarget[edge.ToKey], edge.FromKey)
		}
	}
	for _, edge := range snapshot.Edges {
		if edge.Relation != clustermodel.RelationHosts {
			continue
		}
		if node, ok := snapshot.Nodes[edge.ToKey]; ok && isProblemStatus(node.Status) {
			hostedAlertingPods[edge.FromKey] = true
		}
	}

	anyWorkloadAlerting := false
	for _, node := range snapshot.Nodes {
		kind := kindOf(node.Key())
		if (kind == "pod" || kind == "deployment") && isProblemStatus(node.Status) {
			anyWorkloadAlerting = true
			break
		}
	}

	return func(fromKey, toKey string) causal.SoftRuleContext {
		fromNode, fromOK := snapshot.Nodes[fromKey]
		toNode, toOK := snapshot.Nodes[toKey]

		ctx := causal.SoftRuleContext{HasDownstreamWorkloadAlerts: anyWorkloadAlerting}
		if fromOK {
			ctx.FromNamespace = fromNode.Namespace
		}
		if toOK {
			ctx.ToNamespace = toNode.Namespace
		}
		if fromOK && kindOf(fromKey) == "node" && isSelfRecoveringCondition(fromNode.Status) && !hostedAlertingPods[fromKey] {
			ctx.FromIsTransientNode = true
		}
		ctx.SharedOwner = sharesOwner(ownersByTarget, fromKey, toKey)
		return ctx
	}
}

func sharesOwner(ownersByTarget map[string][]string, fromKey, toKey string) bool {
	fromOwners := ownersByTarget[fromKey]
	toOwners := ownersByTarget[toKey]
	for _, fo := range fromOwners {
		for _, to := range toOwners {
			if fo == to {
				return true
			}
		}
	}
	return false
}

// isProblemStatus mirrors internal/correlate's unexported problemStatuses
// table; duplicated here since that table isn't exported across packages.
func isProblemStatus(status string) bool {
	switch status {
	case "NotReady", "CrashLoopBackOff", "Evicted", "OOMKilled", "Pending",
		"Degraded", "Unavailable", "ImagePullBackOff", "Error", "Failed",
		"DiskPressure", "MemoryPressure", "PIDPressure":
		return true
	}
	return false
}

func isSelfRecoveringCondition(status string) bool {
	switch status {
	case "DiskPressure", "MemoryPressure", "PIDPressure":
		return true
	}
	return false
}

func kindOf(resourceKey string) string {
	idx := strings.IndexByte(resourceKey, '/')
	if idx < 0 {
		return resourceKey
	}
	return resourceKey[:idx]
}
