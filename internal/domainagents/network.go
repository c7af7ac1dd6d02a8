package domainagents

import (
	"context"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
)

const networkSystemPromptBody = `You analyze: DNS resolution failures, ingress controller health, network policies,
service mesh connectivity, CoreDNS pod status, and ingress 5xx rates.`

// NewNetworkAgent builds the Network & Ingress diagnostic agent.
// Grounded on original_source/.../network_agent.py.
func NewNetworkAgent() *Agent {
	return NewAgent(clustermodel.DomainNetwork, networkSystemPromptBody, "net", gatherNetworkData)
}

func gatherNetworkData(ctx context.Context, client ClusterDataClient, scope clustermodel.DiagnosticScope) (map[string]interface{}, clustermodel.TruncationFlags, error) {
	namespace := ""
	if len(scope.Namespaces) == 1 {
		namespace = scope.Namespaces[0]
	}

	services, err := client.ListServices(ctx, namespace)
	if err != nil {
		return nil, clustermodel.TruncationFlags{}, err
	}
	ingresses, err := client.ListIngresses(ctx, namespace)
	if err != nil {
		return nil, clustermodel.TruncationFlags{}, err
	}
	dnsMetrics, err := client.QueryPrometheus(ctx, "coredns_dns_request_count_total", "1h")
	if err != nil {
		return nil, clustermodel.TruncationFlags{}, err
	}
	dnsMetrics = dnsMetrics.Cap(ObjectCaps["metric_points"])

	events, err := gatherScopedEvents(ctx, client, scope.Namespaces)
	if err != nil {
		return nil, clustermodel.TruncationFlags{}, err
	}

	payload := map[string]interface{}{
		"services":    services.Data,
		"ingresses":   ingresses.Data,
		"dns_metrics": dnsMetrics.Data,
		"events":      events.Data,
	}
	flags := clustermodel.TruncationFlags{Events: events.Truncated, Metrics: dnsMetrics.Truncated}
	return payload, flags, nil
}
