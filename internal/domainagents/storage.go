package domainagents

import (
	"context"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
)

const storageSystemPromptBody = `You analyze: PVC capacity and usage, CSI driver health, storage class configuration,
volume attach/detach latency, IOPS throttling, and stuck volumes.`

// NewStorageAgent builds the Storage & Persistence diagnostic agent.
// Grounded on original_source/.../storage_agent.py.
func NewStorageAgent() *Agent {
	return NewAgent(clustermodel.DomainStorage, storageSystemPromptBody, "stor", gatherStorageData)
}

func gatherStorageData(ctx context.Context, client ClusterDataClient, scope clustermodel.DiagnosticScope) (map[string]interface{}, clustermodel.TruncationFlags, error) {
	namespace := ""
	if len(scope.Namespaces) == 1 {
		namespace = scope.Namespaces[0]
	}

	pvcs, err := client.ListPVCs(ctx, namespace)
	if err != nil {
		return nil, clustermodel.TruncationFlags{}, err
	}
	pvcs = pvcs.Cap(ObjectCaps["pvcs"])

	events, err := gatherScopedEvents(ctx, client, scope.Namespaces)
	if err != nil {
		return nil, clustermodel.TruncationFlags{}, err
	}

	payload := map[string]interface{}{
		"pvcs":   pvcs.Data,
		"events": events.Data,
	}
	flags := clustermodel.TruncationFlags{Events: events.Truncated, PVCs: pvcs.Truncated}
	return payload, flags, nil
}
