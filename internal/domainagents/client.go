// Package domainagents implements the four cluster diagnostic domain
// agents (control_plane, node, network, storage). Each follows the same
// gather-data → call LLM → parse JSON pattern; only the system/analysis
// prompt text, the gather function, and the domain name differ.
// Grounded on original_source/backend/src/agents/cluster/{node,
// ctrl_plane, network, storage}_agent.py, which are structurally
// identical aside from prompt text.
package domainagents

import "context"

// ObjectCaps bounds how many objects of each kind a gather step may include
// in its LLM payload, matching the original's OBJECT_CAPS.
var ObjectCaps = map[string]int{
	"events":       500,
	"pods":         1000,
	"log_lines":    2000,
	"metric_points": 500,
	"nodes":        500,
	"pvcs":         500,
}

// QueryResult wraps a list of opaque, JSON-marshalable objects with
// truncation tracking, matching the original's QueryResult.
type QueryResult struct {
	Data           []interface{}
	TotalAvailable int
	Returned       int
	Truncated      bool
}

// Cap truncates Data to at most n items, setting Truncated and the
// accounting fields.
func (r QueryResult) Cap(n int) QueryResult {
	if len(r.Data) <= n {
		r.Returned = len(r.Data)
		if r.TotalAvailable == 0 {
			r.TotalAvailable = len(r.Data)
		}
		return r
	}
	total := r.TotalAvailable
	if total == 0 {
		total = len(r.Data)
	}
	return QueryResult{Data: r.Data[:n], TotalAvailable: total, Returned: n, Truncated: true}
}

// ClusterDataClient is the read-only platform adapter domain agents gather
// data from; specified only at this interface boundary (SPEC_FULL §6.1 —
// the concrete cluster client is out of scope beyond internal/topology's
// live implementation).
type ClusterDataClient interface {
	DetectPlatform(ctx context.Context) (platform, version string, err error)
	ListNodes(ctx context.Context) (QueryResult, error)
	ListPods(ctx context.Context, namespace string) (QueryResult, error)
	ListEvents(ctx context.Context, namespace string) (QueryResult, error)
	ListPVCs(ctx context.Context, namespace string) (QueryResult, error)
	ListServices(ctx context.Context, namespace string) (QueryResult, error)
	ListIngresses(ctx context.Context, namespace string) (QueryResult, error)
	GetClusterOperators(ctx context.Context) (QueryResult, error)
	GetAPIHealth(ctx context.Context) (map[string]interface{}, error)
	QueryPrometheus(ctx context.Context, query, timeRange string) (QueryResult, error)
}

// gatherScopedEvents fetches events per-namespace when the scope names
// namespaces (avoiding a cluster-wide leak), else cluster-wide, capping to
// ObjectCaps["events"] — mirrors node_agent.py's namespace-scoped event
// fetching.
func gatherScopedEvents(ctx context.Context, client ClusterDataClient, namespaces []string) (QueryResult, error) {
	if len(namespaces) == 0 {
		result, err := client.ListEvents(ctx, "")
		if err != nil {
			return QueryResult{}, err
		}
		return result.Cap(ObjectCaps["events"]), nil
	}

	var all []interface{}
	for _, ns := range namespaces {
		result, err := client.ListEvents(ctx, ns)
		if err != nil {
			return QueryResult{}, err
		}
		all = append(all, result.Data...)
	}
	return QueryResult{Data: all, TotalAvailable: len(all)}.Cap(ObjectCaps["events"]), nil
}
