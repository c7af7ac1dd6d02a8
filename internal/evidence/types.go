// Package evidence defines the EvidencePin and ToolResult entities and the
// pure Evidence Pin Factory that turns a tool result into provenance-bearing
// evidence.
package evidence

import "time"

// EvidenceType classifies what kind of observation a pin or tool result carries.
type EvidenceType string

const (
	EvidenceTypeLog        EvidenceType = "log"
	EvidenceTypeMetric     EvidenceType = "metric"
	EvidenceTypeTrace      EvidenceType = "trace"
	EvidenceTypeK8sEvent   EvidenceType = "k8s_event"
	EvidenceTypeK8sResource EvidenceType = "k8s_resource"
	EvidenceTypeCode       EvidenceType = "code"
	EvidenceTypeChange     EvidenceType = "change"
)

// Source distinguishes automatically collected evidence from user-driven evidence.
type Source string

const (
	SourceAuto   Source = "auto"
	SourceManual Source = "manual"
)

// TriggeredBy identifies what caused a tool call to happen.
type TriggeredBy string

const (
	TriggeredByAutomatedPipeline TriggeredBy = "automated_pipeline"
	TriggeredByUserChat          TriggeredBy = "user_chat"
	TriggeredByQuickAction       TriggeredBy = "quick_action"
)

// Domain classifies which cluster subsystem a piece of evidence concerns.
type Domain string

const (
	DomainCompute      Domain = "compute"
	DomainNetwork      Domain = "network"
	DomainStorage      Domain = "storage"
	DomainControlPlane Domain = "control_plane"
	DomainUnknown      Domain = "unknown"
)

// Severity is a coarse urgency classification, mainly derived from log scanning.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityInfo     Severity = "info"
)

// ValidationStatus tracks the critic's verdict on a pin.
type ValidationStatus string

const (
	ValidationPendingCritic ValidationStatus = "pending_critic"
	ValidationValidated     ValidationStatus = "validated"
	ValidationRejected      ValidationStatus = "rejected"
)

// CausalRole classifies a pin's place in the causal narrative once the
// critic (internal/critic) has adjudicated it.
type CausalRole string

const (
	CausalRoleRootCause         CausalRole = "root_cause"
	CausalRoleCascadingSymptom  CausalRole = "cascading_symptom"
	CausalRoleCorrelated        CausalRole = "correlated"
	CausalRoleInformational     CausalRole = "informational"
)

// MaxRawOutputCodePoints bounds the raw_output field of both ToolResult and
// EvidencePin (SPEC_FULL §3.2).
const MaxRawOutputCodePoints = 50_000

// ToolResult is the normalized output of one Tool Executor call.
type ToolResult struct {
	Success          bool
	Intent           string
	RawOutput        string
	Summary          string
	EvidenceSnippets []string
	EvidenceType     EvidenceType
	Domain           Domain
	Severity         Severity
	Error            string
	Metadata         map[string]interface{}
}

// RouterContext carries the scoping information available at dispatch time
// that the Evidence Pin Factory copies onto the produced pin.
type RouterContext struct {
	Namespace    string
	Service      string
	ResourceName string
	SourceAgent  string
	SourceTool   string
	TimeWindow   TimeWindow
}

// TimeWindow is a closed wall-clock interval.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// EvidencePin is one atomic observation with provenance and confidence.
type EvidencePin struct {
	ID                string
	Claim             string
	SourceAgent        string
	SourceTool         string
	Confidence         float64
	Timestamp          time.Time
	EvidenceType       EvidenceType
	Source             Source
	TriggeredBy        TriggeredBy
	Domain             Domain
	ValidationStatus   ValidationStatus
	Severity           Severity
	CausalRole         CausalRole
	Namespace          string
	Service            string
	ResourceName       string
	RawOutput          string
	TimeWindow         TimeWindow
	SupportingEvidence []string
}

// TruncateCodePoints truncates s to at most n Unicode code points,
// matching the pin/tool-result raw_output truncation invariant.
func TruncateCodePoints(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
