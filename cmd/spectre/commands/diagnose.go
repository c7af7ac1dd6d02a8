package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/inder1991/cluster-incident-agent/internal/clusterdiag"
	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
	"github.com/inder1991/cluster-incident-agent/internal/domainagents"
	"github.com/inder1991/cluster-incident-agent/internal/llm"
	"github.com/inder1991/cluster-incident-agent/internal/logging"
	"github.com/inder1991/cluster-incident-agent/internal/topology"
	"github.com/spf13/cobra"
)

var (
	diagnoseNamespace string
	diagnoseWorkload  string
	diagnoseComponent string
	diagnoseDomains   []string
	diagnosePlatform  string
	diagnoseMock      bool
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Run one diagnostic session against a target namespace/service",
	Long: `Runs a single pass of the Cluster Diagnostic Graph (topology resolve ->
alert correlate -> causal firewall -> domain agent fan-out -> synthesize)
scoped to the given namespace/workload/component, and prints the resulting
ClusterHealthReport to stdout as JSON.`,
	RunE: runDiagnose,
}

func init() {
	diagnoseCmd.Flags().StringVar(&diagnoseNamespace, "namespace", "", "Namespace to scope the diagnostic scan to")
	diagnoseCmd.Flags().StringVar(&diagnoseWorkload, "workload", "", "Workload key to scope the diagnostic scan to (e.g. deployment/checkout)")
	diagnoseCmd.Flags().StringVar(&diagnoseComponent, "component", "", "Component key to scope the diagnostic scan to")
	diagnoseCmd.Flags().StringSliceVar(&diagnoseDomains, "domains", nil, "Restrict to specific domains (control_plane,node,network,storage); default all")
	diagnoseCmd.Flags().StringVar(&diagnosePlatform, "platform", "kubernetes", "Platform name reported to domain agents")
	diagnoseCmd.Flags().BoolVar(&diagnoseMock, "mock", false, "Use an in-memory fake cluster client and LLM provider instead of live ones")

	rootCmd.AddCommand(diagnoseCmd)
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	if err := setupLog(logLevelFlags); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	logger := logging.GetLogger("cmd.diagnose")

	scope, err := buildDiagnosticScope(diagnoseNamespace, diagnoseWorkload, diagnoseComponent, diagnoseDomains)
	if err != nil {
		return err
	}

	deps, err := buildClusterDiagDeps(diagnoseMock)
	if err != nil {
		return err
	}

	logger.Info("starting diagnostic scan: namespace=%s workload=%s component=%s", diagnoseNamespace, diagnoseWorkload, diagnoseComponent)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	state, err := clusterdiag.Run(ctx, deps, uuid.NewString(), diagnosePlatform, "", "diagnostic", scope, nil)
	if err != nil {
		return fmt.Errorf("diagnostic scan failed: %w", err)
	}

	return printJSON(state.HealthReport)
}

// buildDiagnosticScope builds a DiagnosticScope from CLI flags, narrowing
// to the most specific level a flag names: component > workload >
// namespace > cluster. Used by diagnose only - guard's scope is always
// cluster-level and built separately so it can never be narrowed by
// these flags (SPEC_FULL §3.2: "Scope=guard admits only level=cluster
// DiagnosticScopes").
func buildDiagnosticScope(namespace, workload, component string, domainNames []string) (clustermodel.DiagnosticScope, error) {
	domains, err := parseDomainNames(domainNames)
	if err != nil {
		return clustermodel.DiagnosticScope{}, err
	}

	scope := clustermodel.DiagnosticScope{Domains: domains, IncludeControlPlane: true}

	switch {
	case component != "":
		scope.Level = clustermodel.ScopeComponent
		scope.ComponentKey = component
	case workload != "":
		scope.Level = clustermodel.ScopeWorkload
		scope.WorkloadKey = workload
	case namespace != "":
		scope.Level = clustermodel.ScopeNamespace
		scope.Namespaces = []string{namespace}
	default:
		scope.Level = clustermodel.ScopeCluster
	}

	return scope, nil
}

func parseDomainNames(names []string) ([]clustermodel.DomainName, error) {
	if len(names) == 0 {
		return nil, nil
	}
	domains := make([]clustermodel.DomainName, 0, len(names))
	for _, name := range names {
		switch clustermodel.DomainName(name) {
		case clustermodel.DomainControlPlane, clustermodel.DomainNode, clustermodel.DomainNetwork, clustermodel.DomainStorage:
			domains = append(domains, clustermodel.DomainName(name))
		default:
			return nil, fmt.Errorf("unknown domain %q (want one of control_plane, node, network, storage)", name)
		}
	}
	return domains, nil
}

// buildClusterDiagDeps wires a live client-go-backed topology resolver and
// Anthropic-backed LLM provider, falling back to in-memory fakes under
// --mock. The domain agents' ClusterDataClient stays fake either way: no
// concrete implementation exists in this core (SPEC_FULL §6.1 leaves it at
// the interface boundary, same as Tool Executor's collectors).
func buildClusterDiagDeps(mock bool) (clusterdiag.Deps, error) {
	dataClient := &domainagents.FakeClusterDataClient{Platform: diagnosePlatform}

	if mock {
		return clusterdiag.Deps{
			Resolver:   topology.NewResolver(&topology.FakeClusterClient{}),
			Provider:   llm.NewMockProvider(),
			DataClient: dataClient,
		}, nil
	}

	liveClient, err := topology.NewLiveClusterClient()
	if err != nil {
		return clusterdiag.Deps{}, fmt.Errorf("failed to build live cluster client: %w", err)
	}

	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return clusterdiag.Deps{}, fmt.Errorf("ANTHROPIC_API_KEY must be set (or pass --mock)")
	}

	return clusterdiag.Deps{
		Resolver:   topology.NewResolver(liveClient),
		Provider:   llm.NewAnthropicProviderWithKey(apiKey, llm.DefaultConfig()),
		DataClient: dataClient,
	}, nil
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
