// Package clusterdiag implements the Cluster Diagnostic Graph runtime: the
// directed sequence topology_resolver -> alert_correlator -> causal_firewall
// -> {fan-out to the four domain agents} -> synthesize -> (re-dispatch |
// guard_formatter), with per-node tracing and a graph-level deadline.
// Grounded on original_source/backend/src/agents/cluster/graph.py and
// traced_node.py.
package clusterdiag

import (
	"sync"
	"time"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
	"github.com/inder1991/cluster-incident-agent/internal/topology"
)

// TraceRecord is one node's execution trace, mirroring traced_node.py's
// NodeExecution.
type TraceRecord struct {
	NodeName      string
	Status        string // RUNNING, SUCCESS, FAILED
	DurationMs    int
	FailureReason clustermodel.FailureReason
	FailureDetail string
}

// GraphState is the shared, mutable state threaded through every node in a
// single diagnostic graph run. Concurrent node execution (the fan-out to
// domain agents) writes to it through the mutex-guarded helpers below.
type GraphState struct {
	DiagnosticID    string
	Platform        string
	PlatformVersion string
	ScanMode        string // "diagnostic" | "guard"
	Scope           clustermodel.DiagnosticScope

	Topology          clustermodel.TopologySnapshot
	TopologyFreshness topology.Freshness
	IssueClusters     []clustermodel.IssueCluster
	SearchSpace       clustermodel.CausalSearchSpace

	DomainReports map[clustermodel.DomainName]clustermodel.DomainReport
	HealthReport  clustermodel.ClusterHealthReport

	ReDispatchCount int
	PreviousScan    *clustermodel.GuardScanResult
	GuardScan       clustermodel.GuardScanResult

	mu    sync.Mutex
	Trace []TraceRecord
}

func newGraphState(diagnosticID, platform, platformVersion, scanMode string, scope clustermodel.DiagnosticScope, previousScan *clustermodel.GuardScanResult) *GraphState {
	return &GraphState{
		DiagnosticID:    diagnosticID,
		Platform:        platform,
		PlatformVersion: platformVersion,
		ScanMode:        scanMode,
		Scope:           scope,
		DomainReports:   map[clustermodel.DomainName]clustermodel.DomainReport{},
		PreviousScan:    previousScan,
	}
}

func (s *GraphState) appendTrace(record TraceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Trace = append(s.Trace, record)
}

func (s *GraphState) setDomainReport(report clustermodel.DomainReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DomainReports[report.Domain] = report
}

// domainReportsSlice returns a stable-ordered snapshot of the reports
// collected so far, for handoff to the synthesizer.
func (s *GraphState) domainReportsSlice() []clustermodel.DomainReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	order := []clustermodel.DomainName{
		clustermodel.DomainControlPlane, clustermodel.DomainNode,
		clustermodel.DomainNetwork, clustermodel.DomainStorage,
	}
	out := make([]clustermodel.DomainReport, 0, len(order))
	for _, d := range order {
		if report, ok := s.DomainReports[d]; ok {
			out = append(out, report)
		}
	}
	return out
}

func durationMs(start time.Time) int {
	return int(time.Since(start).Milliseconds())
}
