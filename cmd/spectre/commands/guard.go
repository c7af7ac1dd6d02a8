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
	"github.com/inder1991/cluster-incident-agent/internal/logging"
	"github.com/spf13/cobra"
)

var (
	guardPlatform     string
	guardMock         bool
	guardPreviousPath string
)

var guardCmd = &cobra.Command{
	Use:   "guard",
	Short: "Run a guard-mode cluster scan",
	Long: `Runs the Cluster Diagnostic Graph in guard mode: always scoped to the
whole cluster (SPEC_FULL: "Scope=guard admits only level=cluster
DiagnosticScopes" - unlike diagnose, guard has no --namespace/--workload/
--component flags), and prints the resulting GuardScanResult (current
risks, predictive risks, delta against a previous scan, overall health)
to stdout as JSON.`,
	RunE: runGuard,
}

func init() {
	guardCmd.Flags().StringVar(&guardPlatform, "platform", "kubernetes", "Platform name reported to domain agents")
	guardCmd.Flags().BoolVar(&guardMock, "mock", false, "Use an in-memory fake cluster client and LLM provider instead of live ones")
	guardCmd.Flags().StringVar(&guardPreviousPath, "previous-scan", "", "Path to a JSON-encoded GuardScanResult from the prior scan, to compute the risk delta against")

	rootCmd.AddCommand(guardCmd)
}

func runGuard(cmd *cobra.Command, args []string) error {
	if err := setupLog(logLevelFlags); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	logger := logging.GetLogger("cmd.guard")

	previous, err := loadPreviousGuardScan(guardPreviousPath)
	if err != nil {
		return err
	}

	deps, err := buildClusterDiagDeps(guardMock)
	if err != nil {
		return err
	}

	scope := clustermodel.DiagnosticScope{Level: clustermodel.ScopeCluster, IncludeControlPlane: true}

	logger.Info("starting guard-mode cluster scan")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	state, err := clusterdiag.Run(ctx, deps, uuid.NewString(), guardPlatform, "", "guard", scope, previous)
	if err != nil {
		return fmt.Errorf("guard scan failed: %w", err)
	}

	return printJSON(state.GuardScan)
}

func loadPreviousGuardScan(path string) (*clustermodel.GuardScanResult, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read previous scan %q: %w", path, err)
	}

	var previous clustermodel.GuardScanResult
	if err := json.Unmarshal(data, &previous); err != nil {
		return nil, fmt.Errorf("failed to parse previous scan %q: %w", path, err)
	}
	return &previous, nil
}
