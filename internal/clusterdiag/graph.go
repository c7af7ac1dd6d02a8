package clusterdiag

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/inder1991/cluster-incident-agent/internal/causal"
	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
	"github.com/inder1991/cluster-incident-agent/internal/correlate"
	"github.com/inder1991/cluster-incident-agent/internal/domainagents"
	"github.com/inder1991/cluster-incident-agent/internal/llm"
	"github.com/inder1991/cluster-incident-agent/internal/synthesize"
	"github.com/inder1991/cluster-incident-agent/internal/topology"
)

// Deps bundles the graph's external dependencies.
type Deps struct {
	Resolver   *topology.Resolver
	Provider   llm.Provider
	DataClient domainagents.ClusterDataClient
}

// ErrGuardModeRequiresClusterScope is returned by Run when scan_mode is
// "guard" and the requested scope's level is not cluster, per SPEC_FULL
// §4.9: "Guard mode rejects any DiagnosticScope whose level != cluster."
var ErrGuardModeRequiresClusterScope = errors.New("guard mode requires a cluster-level diagnostic scope")

var domainAgents = map[clustermodel.DomainName]*domainagents.Agent{
	clustermodel.DomainControlPlane: domainagents.NewControlPlaneAgent(),
	clustermodel.DomainNode:         domainagents.NewNodeAgent(),
	clustermodel.DomainNetwork:      domainagents.NewNetworkAgent(),
	clustermodel.DomainStorage:      domainagents.NewStorageAgent(),
}

func timeoutFor(domain clustermodel.DomainName) time.Duration {
	switch domain {
	case clustermodel.DomainControlPlane:
		return timeoutCtrlPlane
	case clustermodel.DomainNode:
		return timeoutNode
	case clustermodel.DomainNetwork:
		return timeoutNetwork
	case clustermodel.DomainStorage:
		return timeoutStorage
	default:
		return timeoutNode
	}
}

// Run executes the full cluster diagnostic graph: topology resolution,
// correlation, causal firewall, domain agent fan-out/fan-in, synthesis,
// and (for scan_mode="guard") the guard formatter. It enforces the
// 180s graph deadline and the single re-dispatch cap.
func Run(ctx context.Context, deps Deps, diagnosticID, platform, platformVersion, scanMode string, scope clustermodel.DiagnosticScope, previousScan *clustermodel.GuardScanResult) (*GraphState, error) {
	if scanMode == "guard" && scope.Level != clustermodel.ScopeCluster {
		return nil, ErrGuardModeRequiresClusterScope
	}

	graphCtx, cancel := context.WithTimeout(ctx, GraphDeadline)
	defer cancel()

	state := newGraphState(diagnosticID, platform, platformVersion, scanMode, scope, previousScan)

	_ = tracedNode("topology_snapshot_resolver", timeoutTopology, topologyNode(deps))(graphCtx, state)
	_ = tracedNode("alert_correlator", timeoutCorrelator, correlatorNode)(graphCtx, state)
	_ = tracedNode("causal_firewall", timeoutFirewall, firewallNode)(graphCtx, state)

	if err := dispatchDomainAgents(graphCtx, deps, state, allDomains()); err != nil && graphCtx.Err() != nil {
		return state, graphCtx.Err()
	}

	if err := tracedNode("synthesize", timeoutSynthesize, synthesizeNode(deps))(graphCtx, state); err != nil && graphCtx.Err() != nil {
		return state, graphCtx.Err()
	}

	if state.HealthReport.ReDispatchNeeded && state.ReDispatchCount < 1 {
		state.ReDispatchCount++
		redispatchDomains := state.HealthReport.ReDispatchDomains
		if len(redispatchDomains) == 0 {
			redispatchDomains = allDomains()
		}
		if err := dispatchDomainAgents(graphCtx, deps, state, redispatchDomains); err != nil && graphCtx.Err() != nil {
			return state, graphCtx.Err()
		}
		if err := tracedNode("synthesize", timeoutSynthesize, synthesizeNode(deps))(graphCtx, state); err != nil && graphCtx.Err() != nil {
			return state, graphCtx.Err()
		}
	}

	if scanMode == "guard" {
		_ = tracedNode("guard_formatter", timeoutGuardFormat, guardFormatterNode)(graphCtx, state)
	}

	return state, nil
}

func allDomains() []clustermodel.DomainName {
	return []clustermodel.DomainName{
		clustermodel.DomainControlPlane, clustermodel.DomainNode,
		clustermodel.DomainNetwork, clustermodel.DomainStorage,
	}
}

func topologyNode(deps Deps) NodeFunc {
	return func(ctx context.Context, state *GraphState) error {
		if deps.Resolver == nil {
			state.Topology = clustermodel.TopologySnapshot{Stale: true}
			return nil
		}
		snapshot, freshness, err := deps.Resolver.Resolve(ctx, state.DiagnosticID)
		if err != nil {
			return err
		}
		state.Topology = topology.Prune(snapshot, state.Scope)
		state.TopologyFreshness = freshness
		return nil
	}
}

func correlatorNode(ctx context.Context, state *GraphState) error {
	alerts := correlate.ExtractAlerts(state.Topology)
	state.IssueClusters = correlate.Correlate(alerts, state.Topology)
	return nil
}

func firewallNode(ctx context.Context, state *GraphState) error {
	resolver := buildSoftContextResolver(state.Topology)
	state.SearchSpace = causal.EvaluateClusters(state.IssueClusters, resolver)
	return nil
}

// dispatchDomainAgents fans the given domains out to their agents
// concurrently, each wrapped in its own traced node with its own
// independent timeout, and fans their reports back in to
// state.DomainReports. Using a plain errgroup.Group (not WithContext)
// means one domain timing out never cancels its siblings. A domain
// outside scope.Domains (when scope.Domains is non-empty) is recorded
// SKIPPED without invoking its agent or the LLM.
func dispatchDomainAgents(ctx context.Context, deps Deps, state *GraphState, domains []clustermodel.DomainName) error {
	var group errgroup.Group

	for _, domain := range domains {
		domain := domain
		if !domainInScope(domain, state.Scope) {
			state.setDomainReport(clustermodel.DomainReport{Domain: domain, Status: clustermodel.DomainStatusSkipped})
			continue
		}
		agent, ok := domainAgents[domain]
		if !ok {
			continue
		}
		group.Go(func() error {
			fn := tracedNode(string(domain)+"_agent", timeoutFor(domain), func(nodeCtx context.Context, s *GraphState) error {
				report := agent.Run(nodeCtx, deps.Provider, deps.DataClient, s.Platform, s.PlatformVersion, s.Scope)
				s.setDomainReport(report)
				return nil
			})
			return fn(ctx, state)
		})
	}

	return group.Wait()
}

func domainInScope(domain clustermodel.DomainName, scope clustermodel.DiagnosticScope) bool {
	if len(scope.Domains) == 0 {
		return true
	}
	for _, d := range scope.Domains {
		if d == domain {
			return true
		}
	}
	return false
}

func synthesizeNode(deps Deps) NodeFunc {
	return func(ctx context.Context, state *GraphState) error {
		state.HealthReport = synthesize.Synthesize(ctx, deps.Provider, state.domainReportsSlice(), state.SearchSpace)
		return nil
	}
}

func guardFormatterNode(ctx context.Context, state *GraphState) error {
	state.GuardScan = formatGuardScan(state.domainReportsSlice(), state.IssueClusters, state.HealthReport, state.PreviousScan)
	return nil
}
