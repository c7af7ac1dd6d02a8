package topology

import "github.com/inder1991/cluster-incident-agent/internal/clustermodel"

const defaultWorkloadBFSDepth = 3

// transitiveEdgeRelations are the edge relations a namespace-scoped prune
// follows to pull in cluster-scoped nodes the scope references (SPEC_FULL
// §4.5): hosting nodes and mounted-by storage backends survive pruning even
// though they carry no namespace of their own.
var transitiveEdgeRelations = map[clustermodel.EdgeRelation]bool{
	clustermodel.RelationHosts:     true,
	clustermodel.RelationMountedBy: true,
}

// workloadBFSRelations are the edge relations a workload-scoped prune
// follows outward from the root.
var workloadBFSRelations = map[clustermodel.EdgeRelation]bool{
	clustermodel.RelationOwns:      true,
	clustermodel.RelationRoutesTo:  true,
	clustermodel.RelationHosts:     true,
	clustermodel.RelationMountedBy: true,
}

// Prune produces the scoped_topology_graph for a DiagnosticScope (SPEC_FULL
// §4.5). cluster scope is the identity transform; namespace, workload, and
// component scopes retain progressively smaller subgraphs.
func Prune(snapshot clustermodel.TopologySnapshot, scope clustermodel.DiagnosticScope) clustermodel.TopologySnapshot {
	switch scope.Level {
	case clustermodel.ScopeNamespace:
		return pruneNamespace(snapshot, scope.Namespaces)
	case clustermodel.ScopeWorkload:
		return pruneWorkload(snapshot, scope.WorkloadKey, defaultWorkloadBFSDepth)
	case clustermodel.ScopeComponent:
		return pruneComponent(snapshot, scope.ComponentKey)
	default:
		return snapshot
	}
}

func pruneNamespace(snapshot clustermodel.TopologySnapshot, namespaces []string) clustermodel.TopologySnapshot {
	allowed := make(map[string]bool, len(namespaces))
	for _, ns := range namespaces {
		allowed[ns] = true
	}

	keep := make(map[string]bool)
	for key, node := range snapshot.Nodes {
		if node.Namespace != "" && allowed[node.Namespace] {
			keep[key] = true
		}
	}

	// Pull in cluster-scoped nodes transitively referenced via hosts/mounted_by.
	changed := true
	for changed {
		changed = false
		for _, e := range snapshot.Edges {
			if !transitiveEdgeRelations[e.Relation] {
				continue
			}
			if keep[e.ToKey] && !keep[e.FromKey] {
				keep[e.FromKey] = true
				changed = true
			}
			if keep[e.FromKey] && !keep[e.ToKey] {
				keep[e.ToKey] = true
				changed = true
			}
		}
	}

	return filterSnapshot(snapshot, keep)
}

func pruneWorkload(snapshot clustermodel.TopologySnapshot, workloadKey string, depth int) clustermodel.TopologySnapshot {
	if _, ok := snapshot.Nodes[workloadKey]; !ok {
		return clustermodel.TopologySnapshot{Nodes: map[string]clustermodel.TopologyNode{}, BuiltAt: snapshot.BuiltAt}
	}

	adj := make(map[string][]string)
	for _, e := range snapshot.Edges {
		if !workloadBFSRelations[e.Relation] {
			continue
		}
		adj[e.FromKey] = append(adj[e.FromKey], e.ToKey)
		adj[e.ToKey] = append(adj[e.ToKey], e.FromKey)
	}

	keep := map[string]bool{workloadKey: true}
	frontier := []string{workloadKey}
	for d := 0; d < depth && len(frontier) > 0; d++ {
		var next []string
		for _, cur := range frontier {
			for _, n := range adj[cur] {
				if !keep[n] {
					keep[n] = true
					next = append(next, n)
				}
			}
		}
		frontier = next
	}

	return filterSnapshot(snapshot, keep)
}

func pruneComponent(snapshot clustermodel.TopologySnapshot, componentKey string) clustermodel.TopologySnapshot {
	if _, ok := snapshot.Nodes[componentKey]; !ok {
		return clustermodel.TopologySnapshot{Nodes: map[string]clustermodel.TopologyNode{}, BuiltAt: snapshot.BuiltAt}
	}

	keep := map[string]bool{componentKey: true}
	for _, e := range snapshot.Edges {
		if e.FromKey == componentKey {
			keep[e.ToKey] = true
		}
		if e.ToKey == componentKey {
			keep[e.FromKey] = true
		}
	}

	return filterSnapshot(snapshot, keep)
}

func filterSnapshot(snapshot clustermodel.TopologySnapshot, keep map[string]bool) clustermodel.TopologySnapshot {
	out := clustermodel.TopologySnapshot{
		Nodes:           make(map[string]clustermodel.TopologyNode, len(keep)),
		BuiltAt:         snapshot.BuiltAt,
		Stale:           snapshot.Stale,
		ResourceVersion: snapshot.ResourceVersion,
	}
	for key := range keep {
		if node, ok := snapshot.Nodes[key]; ok {
			out.Nodes[key] = node
		}
	}
	for _, e := range snapshot.Edges {
		if keep[e.FromKey] && keep[e.ToKey] {
			out.Edges = append(out.Edges, e)
		}
	}
	return out
}

// Coverage returns the fraction of original alert-bearing nodes retained
// after pruning (SPEC_FULL §4.5's coverage metric). problemStatuses is the
// closed set of statuses the alert correlator treats as a problem.
func Coverage(original, scoped clustermodel.TopologySnapshot, problemStatuses map[string]bool) float64 {
	total := 0
	retained := 0
	for key, node := range original.Nodes {
		if !problemStatuses[node.Status] {
			continue
		}
		total++
		if _, ok := scoped.Nodes[key]; ok {
			retained++
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(retained) / float64(total)
}
