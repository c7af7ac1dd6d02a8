// Package supervisor drives the application-diagnosis phase state machine:
// it decides which agents to dispatch for the current phase, gates on
// confidence, and records a reasoning trail for every transition.
package supervisor

import (
	"time"

	"github.com/inder1991/cluster-incident-agent/internal/evidence"
)

// Phase is one state of the application-diagnosis workflow.
type Phase string

const (
	PhaseInitial           Phase = "initial"
	PhaseCollectingContext Phase = "collecting_context"
	PhaseLogsAnalyzed      Phase = "logs_analyzed"
	PhaseMetricsAnalyzed   Phase = "metrics_analyzed"
	PhaseK8sAnalyzed       Phase = "k8s_analyzed"
	PhaseTracingAnalyzed   Phase = "tracing_analyzed"
	PhaseCodeAnalyzed      Phase = "code_analyzed"
	PhaseValidating        Phase = "validating"
	PhaseReInvestigating   Phase = "re_investigating"
	PhaseDiagnosisComplete Phase = "diagnosis_complete"
	PhaseFixInProgress     Phase = "fix_in_progress"
	PhaseComplete          Phase = "complete"
)

// AgentName identifies one of the application-diagnosis agents the
// supervisor can dispatch. Distinct from clustermodel.DomainName, which
// names the Cluster Diagnostic Graph's domain agents.
type AgentName string

const (
	AgentLog     AgentName = "log_agent"
	AgentMetrics AgentName = "metrics_agent"
	AgentK8s     AgentName = "k8s_agent"
	AgentTracing AgentName = "tracing_agent"
	AgentCode    AgentName = "code_agent"
)

// Decision is the outcome of the confidence gate applied after every
// dispatched phase.
type Decision string

const (
	DecisionProceed Decision = "proceed"
	DecisionAskUser Decision = "ask_user"
)

// AttestationDecision is the outcome an external attestation gate reports
// back to the supervisor via AcknowledgeAttestation.
type AttestationDecision string

const (
	AttestationApprove        AttestationDecision = "approve"
	AttestationReject         AttestationDecision = "reject"
	AttestationRequestChanges AttestationDecision = "request_changes"
)

// ReasoningStep records one supervisor decision for the session's
// ReasoningManifest (SPEC_FULL §3.1).
type ReasoningStep struct {
	Number               int
	Timestamp            time.Time
	Decision             string
	Reasoning            string
	EvidenceConsidered    []string
	ConfidenceAtStep     int
	AlternativesRejected []string
}

// AgentOutput is what one dispatched agent reports back to the supervisor.
type AgentOutput struct {
	Pins       []evidence.EvidencePin
	Confidence int
	Summary    string
}

// State is the supervisor's view of one diagnostic session. It is not
// safe for concurrent use without external locking (the Session Manager,
// internal/session, owns the per-session lock per SPEC_FULL §3.3).
type State struct {
	SessionID   string
	ServiceName string
	TraceID     string
	Namespace   string
	RepoURL     string

	Phase              Phase
	PendingPhase       Phase
	AgentsCompleted    []AgentName
	Pins               []evidence.EvidencePin
	OverallConfidence  int
	Decision           Decision
	ReInvestigateCount int

	Reasoning []ReasoningStep
}

// New constructs a fresh supervisor state for a session, entering
// COLLECTING_CONTEXT immediately (it marks that the request parameters
// have been accepted but no analysis has started; like INITIAL, it
// dispatches the log agent first).
func New(sessionID, serviceName, traceID, namespace, repoURL string) *State {
	return &State{
		SessionID:   sessionID,
		ServiceName: serviceName,
		TraceID:     traceID,
		Namespace:   namespace,
		RepoURL:     repoURL,
		Phase:       PhaseCollectingContext,
	}
}

func (s *State) hasCompleted(agent AgentName) bool {
	for _, a := range s.AgentsCompleted {
		if a == agent {
			return true
		}
	}
	return false
}

func (s *State) recordStep(now time.Time, decision, reasoning string, evidenceRefs []string, confidence int, alternativesRejected []string) {
	s.Reasoning = append(s.Reasoning, ReasoningStep{
		Number:               len(s.Reasoning) + 1,
		Timestamp:            now,
		Decision:             decision,
		Reasoning:            reasoning,
		EvidenceConsidered:    evidenceRefs,
		ConfidenceAtStep:     confidence,
		AlternativesRejected: alternativesRejected,
	})
}
