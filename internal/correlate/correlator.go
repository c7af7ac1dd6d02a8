// Package correlate implements the Alert Correlator: it extracts problem
// nodes from a scoped topology, groups them into issue clusters by
// connectivity, and proposes root candidates.
// Grounded on original_source/backend/src/agents/cluster/alert_correlator.py.
package correlate

import (
	"fmt"
	"sort"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
)

// problemStatuses is the closed set of node statuses that make a topology
// node a ClusterAlert.
var problemStatuses = map[string]bool{
	"NotReady":          true,
	"CrashLoopBackOff":  true,
	"Evicted":           true,
	"OOMKilled":         true,
	"Pending":           true,
	"Degraded":          true,
	"Unavailable":       true,
	"ImagePullBackOff":  true,
	"Error":             true,
	"Failed":            true,
	"DiskPressure":      true,
	"MemoryPressure":    true,
	"PIDPressure":       true,
}

// ExtractAlerts walks a topology snapshot and returns every node whose
// status is a known problem status, sorted by resource key for
// deterministic downstream processing.
func ExtractAlerts(snapshot clustermodel.TopologySnapshot) []clustermodel.ClusterAlert {
	var alerts []clustermodel.ClusterAlert
	for key, node := range snapshot.Nodes {
		if problemStatuses[node.Status] {
			alerts = append(alerts, clustermodel.ClusterAlert{
				ResourceKey: key,
				AlertType:   node.Status,
				Severity:    severityForStatus(node.Status),
				Timestamp:   snapshot.BuiltAt,
			})
		}
	}
	sort.Slice(alerts, func(i, j int) bool { return alerts[i].ResourceKey < alerts[j].ResourceKey })
	return alerts
}

func severityForStatus(status string) string {
	switch status {
	case "DiskPressure", "MemoryPressure", "NotReady":
		return "critical"
	case "CrashLoopBackOff", "Evicted", "OOMKilled", "Failed":
		return "high"
	default:
		return "medium"
	}
}

// Correlate groups alerts into IssueClusters via BFS over the undirected
// projection of the topology's edges: any two alerts reachable from one
// another join the same cluster; isolated alerts form singleton clusters.
func Correlate(alerts []clustermodel.ClusterAlert, snapshot clustermodel.TopologySnapshot) []clustermodel.IssueCluster {
	adjacency := buildUndirectedAdjacency(snapshot)
	alertKeys := make(map[string]clustermodel.ClusterAlert, len(alerts))
	for _, a := range alerts {
		alertKeys[a.ResourceKey] = a
	}

	visited := make(map[string]bool, len(alerts))
	var clusters []clustermodel.IssueCluster
	clusterSeq := 0

	for _, a := range alerts {
		if visited[a.ResourceKey] {
			continue
		}
		component := bfsComponent(a.ResourceKey, adjacency, alertKeys, visited)
		sort.Slice(component, func(i, j int) bool { return component[i].ResourceKey < component[j].ResourceKey })

		clusterSeq++
		cluster := clustermodel.IssueCluster{
			ID:     fmt.Sprintf("issue-cluster-%d", clusterSeq),
			Alerts: component,
		}
		cluster.CorrelationBasis = correlationBasis(component, snapshot)
		cluster.RootCandidates = topRootCandidates(component)
		if len(cluster.RootCandidates) > 0 {
			cluster.Confidence = cluster.RootCandidates[0].Confidence
		}
		for _, al := range component {
			cluster.AffectedResources = append(cluster.AffectedResources, al.ResourceKey)
		}
		clusters = append(clusters, cluster)
	}

	return clusters
}

func buildUndirectedAdjacency(snapshot clustermodel.TopologySnapshot) map[string][]string {
	adj := make(map[string][]string)
	for _, e := range snapshot.Edges {
		adj[e.FromKey] = append(adj[e.FromKey], e.ToKey)
		adj[e.ToKey] = append(adj[e.ToKey], e.FromKey)
	}
	return adj
}

func bfsComponent(start string, adjacency map[string][]string, alertKeys map[string]clustermodel.ClusterAlert, visited map[string]bool) []clustermodel.ClusterAlert {
	queue := []string{start}
	visited[start] = true
	var component []clustermodel.ClusterAlert

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if a, ok := alertKeys[cur]; ok {
			component = append(component, a)
		}
		for _, neighbor := range adjacency[cur] {
			if visited[neighbor] {
				continue
			}
			// Only traverse into/through alert-bearing nodes or connector nodes;
			// a neighbor is always enqueued so the BFS can pass through non-alert
			// nodes (e.g. a healthy node) to reach a further alert.
			visited[neighbor] = true
			queue = append(queue, neighbor)
		}
	}
	return component
}

func kindOf(resourceKey string) string {
	for i, r := range resourceKey {
		if r == '/' {
			return resourceKey[:i]
		}
	}
	return resourceKey
}

func namespaceOf(resourceKey string) string {
	parts := 0
	start := -1
	for i, r := range resourceKey {
		if r == '/' {
			parts++
			if parts == 1 {
				start = i + 1
			} else if parts == 2 {
				return resourceKey[start:i]
			}
		}
	}
	return ""
}

func componentHasMultipleNodes(component []clustermodel.ClusterAlert, snapshot clustermodel.TopologySnapshot) bool {
	adjacency := buildUndirectedAdjacency(snapshot)
	if len(component) == 0 {
		return false
	}
	seen := map[string]bool{component[0].ResourceKey: true}
	queue := []string{component[0].ResourceKey}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range adjacency[cur] {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return len(seen) > 1
}

// correlationBasis computes the correlation_basis list for one cluster:
// every basis whose condition holds, in the order below, or "temporal"
// when none does.
func correlationBasis(component []clustermodel.ClusterAlert, snapshot clustermodel.TopologySnapshot) []string {
	var basis []string
	if componentHasMultipleNodes(component, snapshot) {
		basis = append(basis, "topology")
	}

	if len(component) > 1 {
		ns := namespaceOf(component[0].ResourceKey)
		sameNamespace := ns != ""
		for _, a := range component {
			if namespaceOf(a.ResourceKey) != ns {
				sameNamespace = false
				break
			}
		}
		if sameNamespace {
			basis = append(basis, "namespace")
		}
	}

	for _, a := range component {
		if kindOf(a.ResourceKey) == "node" {
			basis = append(basis, "node_affinity")
			break
		}
	}
	for _, a := range component {
		if kindOf(a.ResourceKey) == "operator" {
			basis = append(basis, "control_plane_fan_out")
			break
		}
	}
	if len(basis) == 0 {
		return []string{"temporal"}
	}
	return basis
}

func kindWeight(kind string) float64 {
	switch kind {
	case "node":
		return 0.3
	case "operator":
		return 0.25
	case "deployment", "service":
		return 0.1
	default:
		return 0
	}
}

// topRootCandidates returns the top 2 root candidates for a cluster
// (SPEC_FULL §4.6): confidence = min(1.0, 0.4 + 0.15*connectedAlertCount + kindWeight).
func topRootCandidates(component []clustermodel.ClusterAlert) []clustermodel.RootCandidate {
	var candidates []clustermodel.RootCandidate
	n := len(component)

	var signals []string
	for _, a := range component {
		signals = append(signals, a.AlertType)
	}

	for _, a := range component {
		confidence := 0.4 + 0.15*float64(n) + kindWeight(kindOf(a.ResourceKey))
		if confidence > 1.0 {
			confidence = 1.0
		}
		candidates = append(candidates, clustermodel.RootCandidate{
			ResourceKey:       a.ResourceKey,
			Hypothesis:        fmt.Sprintf("%s may be the root cause (%s)", a.ResourceKey, a.AlertType),
			SupportingSignals: append([]string(nil), signals...),
			Confidence:        confidence,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Confidence > candidates[j].Confidence })
	if len(candidates) > 2 {
		candidates = candidates[:2]
	}
	return candidates
}
