package domainagents

import (
	"context"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
)

const nodeSystemPromptBody = `You analyze: node conditions (DiskPressure, MemoryPressure, PIDPressure, NotReady), resource utilization,
pod evictions, scheduling failures, resource quotas, and capacity planning.`

// NewNodeAgent builds the Node & Capacity diagnostic agent.
// Grounded on original_source/.../node_agent.py.
func NewNodeAgent() *Agent {
	return NewAgent(clustermodel.DomainNode, nodeSystemPromptBody, "node", gatherNodeData)
}

func gatherNodeData(ctx context.Context, client ClusterDataClient, scope clustermodel.DiagnosticScope) (map[string]interface{}, clustermodel.TruncationFlags, error) {
	nodes, err := client.ListNodes(ctx)
	if err != nil {
		return nil, clustermodel.TruncationFlags{}, err
	}
	nodes = nodes.Cap(ObjectCaps["nodes"])

	events, err := gatherScopedEvents(ctx, client, scope.Namespaces)
	if err != nil {
		return nil, clustermodel.TruncationFlags{}, err
	}

	pods, err := client.ListPods(ctx, "")
	if err != nil {
		return nil, clustermodel.TruncationFlags{}, err
	}
	pods = pods.Cap(50)

	payload := map[string]interface{}{
		"nodes":    nodes.Data,
		"events":   events.Data,
		"top_pods": pods.Data,
	}
	flags := clustermodel.TruncationFlags{Events: events.Truncated, Nodes: nodes.Truncated, Pods: pods.Truncated}
	return payload, flags, nil
}
