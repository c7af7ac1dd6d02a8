package domainagents

import (
	"context"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
)

const controlPlaneSystemPromptBody = `You analyze: degraded operators, API server latency, etcd sync/health, certificate expiry, leader election.`

// NewControlPlaneAgent builds the Control Plane & Etcd diagnostic agent.
// Grounded on original_source/.../ctrl_plane_agent.py.
func NewControlPlaneAgent() *Agent {
	return NewAgent(clustermodel.DomainControlPlane, controlPlaneSystemPromptBody, "cp", gatherControlPlaneData)
}

func gatherControlPlaneData(ctx context.Context, client ClusterDataClient, scope clustermodel.DiagnosticScope) (map[string]interface{}, clustermodel.TruncationFlags, error) {
	operators, err := client.GetClusterOperators(ctx)
	if err != nil {
		return nil, clustermodel.TruncationFlags{}, err
	}

	health, err := client.GetAPIHealth(ctx)
	if err != nil {
		return nil, clustermodel.TruncationFlags{}, err
	}

	events, err := gatherScopedEvents(ctx, client, scope.Namespaces)
	if err != nil {
		return nil, clustermodel.TruncationFlags{}, err
	}

	payload := map[string]interface{}{
		"cluster_operators": operators.Data,
		"api_health":        health,
		"events":            events.Data,
	}
	flags := clustermodel.TruncationFlags{Events: events.Truncated}
	return payload, flags, nil
}
