// Package clustermodel holds the data types shared across the
// cluster-diagnostic-graph components (topology, alert correlator, causal
// firewall, domain agents, synthesizer, and the graph runtime itself), so
// those packages can depend on a common vocabulary without import cycles.
// Grounded on original_source/backend/src/agents/cluster/state.py.
package clustermodel

import "time"

// TopologyNode is one resource in the cluster dependency graph.
type TopologyNode struct {
	Kind      string
	Name      string
	Namespace string
	Status    string
	Labels    map[string]string
	HostNode  string
}

// Key returns the canonical "kind/[ns/]name" resource key.
func (n TopologyNode) Key() string {
	if n.Namespace != "" {
		return n.Kind + "/" + n.Namespace + "/" + n.Name
	}
	return n.Kind + "/" + n.Name
}

// EdgeRelation is the closed vocabulary of topology edge semantics.
type EdgeRelation string

const (
	RelationHosts     EdgeRelation = "hosts"
	RelationOwns      EdgeRelation = "owns"
	RelationRoutesTo  EdgeRelation = "routes_to"
	RelationMountedBy EdgeRelation = "mounted_by"
	RelationManages   EdgeRelation = "manages"
	RelationDependsOn EdgeRelation = "depends_on"
)

// TopologyEdge is a directed edge between two resource keys.
type TopologyEdge struct {
	FromKey  string
	ToKey    string
	Relation EdgeRelation
}

// TopologySnapshot is a point-in-time resource + edge graph.
type TopologySnapshot struct {
	Nodes           map[string]TopologyNode
	Edges           []TopologyEdge
	BuiltAt         time.Time
	Stale           bool
	ResourceVersion string
}

// ClusterAlert is a topology node observed in a known problem status.
type ClusterAlert struct {
	ResourceKey string
	AlertType   string
	Severity    string
	Timestamp   time.Time
}

// RootCandidate is one hypothesis about which alert is the root of an issue cluster.
type RootCandidate struct {
	ResourceKey       string
	Hypothesis        string
	SupportingSignals []string
	Confidence        float64
}

// IssueCluster is a topologically connected set of problem alerts.
type IssueCluster struct {
	ID                string
	Alerts            []ClusterAlert
	RootCandidates    []RootCandidate
	Confidence        float64
	CorrelationBasis  []string
	AffectedResources []string
}

// BlockedLink is a candidate causal link rejected by a hard invariant.
type BlockedLink struct {
	FromKey     string
	ToKey       string
	InvariantID string
	Description string
	ReasonCode  string
}

// CausalAnnotation is a candidate causal link annotated by a soft rule.
type CausalAnnotation struct {
	FromKey        string
	ToKey          string
	RuleID         string
	ConfidenceHint float64
	Reason         string
}

// CausalSearchSpace is the firewall's published output.
type CausalSearchSpace struct {
	ValidLinks        []TopologyEdge
	AnnotatedLinks    []CausalAnnotation
	BlockedLinks      []BlockedLink
	TotalEvaluated    int
	TotalBlocked      int
	TotalAnnotated    int
}

// DomainName is the closed set of cluster diagnostic domains.
type DomainName string

const (
	DomainControlPlane DomainName = "control_plane"
	DomainNode         DomainName = "node"
	DomainNetwork      DomainName = "network"
	DomainStorage      DomainName = "storage"
)

// DomainStatus is the lifecycle status of one domain agent's report.
// SKIPPED is included as a first-class value per SPEC_FULL §3.1/§3.2
// (see DESIGN.md Open Question resolution 1).
type DomainStatus string

const (
	DomainStatusPending DomainStatus = "PENDING"
	DomainStatusRunning DomainStatus = "RUNNING"
	DomainStatusSuccess DomainStatus = "SUCCESS"
	DomainStatusPartial DomainStatus = "PARTIAL"
	DomainStatusFailed  DomainStatus = "FAILED"
	DomainStatusSkipped DomainStatus = "SKIPPED"
)

// FailureReason classifies why a DomainReport did not succeed.
type FailureReason string

const (
	FailureReasonTimeout        FailureReason = "TIMEOUT"
	FailureReasonRBACDenied     FailureReason = "RBAC_DENIED"
	FailureReasonAPIUnreachable FailureReason = "API_UNREACHABLE"
	FailureReasonLLMParseError  FailureReason = "LLM_PARSE_ERROR"
	FailureReasonException      FailureReason = "EXCEPTION"
)

// DomainAnomaly is one finding from a domain agent.
type DomainAnomaly struct {
	Domain      DomainName
	AnomalyID   string
	Description string
	EvidenceRef string
	Severity    string
}

// TruncationFlags records which of a domain agent's data fetches hit their cap.
type TruncationFlags struct {
	Events  bool
	Nodes   bool
	Pods    bool
	Logs    bool
	Metrics bool
	PVCs    bool
}

// DomainReport is one domain agent's structured output.
type DomainReport struct {
	Domain          DomainName
	Status          DomainStatus
	FailureReason   FailureReason
	Confidence      int
	Anomalies       []DomainAnomaly
	RuledOut        []string
	EvidenceRefs    []string
	TruncationFlags TruncationFlags
	DurationMs      int
}

// DiagnosticScopeLevel is the closed set of scope granularities.
type DiagnosticScopeLevel string

const (
	ScopeCluster   DiagnosticScopeLevel = "cluster"
	ScopeNamespace DiagnosticScopeLevel = "namespace"
	ScopeWorkload  DiagnosticScopeLevel = "workload"
	ScopeComponent DiagnosticScopeLevel = "component"
)

// DiagnosticScope selects the portion of the cluster topology visible to
// domain agents and the alert correlator.
type DiagnosticScope struct {
	Level                DiagnosticScopeLevel
	Namespaces           []string
	WorkloadKey          string
	ComponentKey         string
	Domains              []DomainName
	IncludeControlPlane  bool
}

// CausalChainLinkType is the closed vocabulary of causal edge mechanisms the
// synthesizer's LLM stage may use.
type CausalChainLinkType string

const (
	LinkResourceExhaustionToPodEviction      CausalChainLinkType = "resource_exhaustion_to_pod_eviction"
	LinkResourceExhaustionToThrottling       CausalChainLinkType = "resource_exhaustion_to_throttling"
	LinkPodEvictionToServiceDegradation      CausalChainLinkType = "pod_eviction_to_service_degradation"
	LinkNodeFailureToWorkloadRescheduling    CausalChainLinkType = "node_failure_to_workload_rescheduling"
	LinkDNSFailureToAPIUnreachable           CausalChainLinkType = "dns_failure_to_api_unreachable"
	LinkCertificateExpiryToTLSHandshakeFail  CausalChainLinkType = "certificate_expiry_to_tls_handshake_failure"
	LinkConfigDriftToUnexpectedBehavior      CausalChainLinkType = "config_drift_to_unexpected_behavior"
	LinkStorageDetachToContainerStuck        CausalChainLinkType = "storage_detach_to_container_stuck"
	LinkNetworkPartitionToSplitBrain         CausalChainLinkType = "network_partition_to_split_brain"
	LinkAPILatencyToTimeoutCascade           CausalChainLinkType = "api_latency_to_timeout_cascade"
	LinkQuotaExceededToSchedulingFailure     CausalChainLinkType = "quota_exceeded_to_scheduling_failure"
	LinkImagePullFailureToPodPending         CausalChainLinkType = "image_pull_failure_to_pod_pending"
	LinkUnknown                              CausalChainLinkType = "unknown"
)

// CausalChainLinkTypes lists the full closed vocabulary in the order the
// synthesizer's causal-reasoning prompt declares it, mirroring the
// original's CONSTRAINED_LINK_TYPES.
var CausalChainLinkTypes = []CausalChainLinkType{
	LinkResourceExhaustionToPodEviction,
	LinkResourceExhaustionToThrottling,
	LinkPodEvictionToServiceDegradation,
	LinkNodeFailureToWorkloadRescheduling,
	LinkDNSFailureToAPIUnreachable,
	LinkCertificateExpiryToTLSHandshakeFail,
	LinkConfigDriftToUnexpectedBehavior,
	LinkStorageDetachToContainerStuck,
	LinkNetworkPartitionToSplitBrain,
	LinkAPILatencyToTimeoutCascade,
	LinkQuotaExceededToSchedulingFailure,
	LinkImagePullFailureToPodPending,
	LinkUnknown,
}

// CausalChainLink is one edge in a causal chain produced by the synthesizer.
type CausalChainLink struct {
	FromDescription string
	ToDescription   string
	LinkType        CausalChainLinkType
	Confidence      float64
	Reasoning       string
}

// CausalChain is a sequence of causal links rooted at one candidate cause.
type CausalChain struct {
	RootDescription string
	Links           []CausalChainLink
	Confidence      float64
}

// BlastRadius summarizes the scope of impact.
type BlastRadius struct {
	Namespaces int
	Pods       int
	Nodes      int
	Summary    string
}

// RemediationStep is one recommended action.
type RemediationStep struct {
	Description string
	Domain      DomainName
}

// PlatformHealth is the synthesizer's verdict classification.
type PlatformHealth string

const (
	PlatformHealthHealthy  PlatformHealth = "HEALTHY"
	PlatformHealthDegraded PlatformHealth = "DEGRADED"
	PlatformHealthCritical PlatformHealth = "CRITICAL"
	PlatformHealthUnknown  PlatformHealth = "UNKNOWN"
)

// ClusterHealthReport is the synthesizer's top-level output.
type ClusterHealthReport struct {
	PlatformHealth      PlatformHealth
	CausalChains        []CausalChain
	UncorrelatedFindings []DomainAnomaly
	BlastRadius         BlastRadius
	ImmediateSteps      []RemediationStep
	LongTermSteps       []RemediationStep
	ReDispatchNeeded    bool
	ReDispatchDomains   []DomainName
	DataCompleteness    float64
}

// CurrentRisk is one guard-mode current-risk entry.
type CurrentRisk struct {
	ResourceKey string
	Description string
	Severity    string
}

// PredictiveRisk is one guard-mode predictive-risk entry, derived from a
// long-term remediation recommendation.
type PredictiveRisk struct {
	Description string
	Basis       string
}

// ScanDelta is the sorted-set difference between two guard scans.
type ScanDelta struct {
	NewRisks      []string
	ResolvedRisks []string
}

// GuardOverallHealth is the closed classification for a guard-mode scan.
type GuardOverallHealth string

const (
	GuardHealthCritical GuardOverallHealth = "CRITICAL"
	GuardHealthDegraded GuardOverallHealth = "DEGRADED"
	GuardHealthHealthy  GuardOverallHealth = "HEALTHY"
)

// GuardScanResult is guard mode's three-layer output.
type GuardScanResult struct {
	CurrentRisks    []CurrentRisk
	PredictiveRisks []PredictiveRisk
	Delta           ScanDelta
	OverallHealth   GuardOverallHealth
	RiskScore       float64
	ScannedAt       time.Time
}
