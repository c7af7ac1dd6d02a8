// Package critic implements the two Critic operations: validate(), which
// cross-checks one application-diagnosis Finding against the rest of the
// session's evidence, and validate_delta(), which revalidates a single
// manually-added EvidencePin against the pins and causal chains already
// on the graph. Both are LLM-backed with a hard 30s timeout and a
// literal, documented fallback shape on timeout or parse failure.
package critic

import (
	"time"

	"github.com/inder1991/cluster-incident-agent/internal/evidence"
)

// Breadcrumb is a short, streamable trail entry distinct from the fuller
// supervisor.ReasoningStep (SPEC_FULL §3.1A).
type Breadcrumb struct {
	AgentName       string
	Action          string
	SourceType      string
	SourceReference string
	RawEvidence     string
	Timestamp       time.Time
}

// NegativeFinding records that an agent explicitly checked something and
// ruled it out (SPEC_FULL §3.1A), carried alongside DomainReport.RuledOut
// so the Critic can cite "X was explicitly ruled out by domain Y".
type NegativeFinding struct {
	AgentName      string
	WhatWasChecked string
	Result         string
	Implication    string
	SourceRef      string
	RuledOutAt     time.Time
}

// Verdict is the Critic's judgment on one Finding.
type Verdict string

const (
	VerdictValidated        Verdict = "validated"
	VerdictChallenged       Verdict = "challenged"
	VerdictInsufficientData Verdict = "insufficient_data"
)

// Finding is one application-diagnosis agent's claim, carrying its own
// supporting breadcrumbs and negative findings (ported from
// original_source/backend/src/models/schemas.py's Finding).
type Finding struct {
	FindingID       string
	AgentName       string
	Category        string
	Summary         string
	ConfidenceScore int
	Severity        string
	Breadcrumbs     []Breadcrumb
	NegativeFindings []NegativeFinding
}

// CriticVerdict is validate()'s result, attached back onto the Finding.
type CriticVerdict struct {
	FindingID             string
	AgentSource           string
	Verdict               Verdict
	Reasoning             string
	ContradictingEvidence []Breadcrumb
	Recommendation        string
	ConfidenceInVerdict   int
}

// DomainAvailability records which other agents' data the Critic had on
// hand when validating a Finding — used both to build the LLM context
// (mirroring critic_agent.py's _build_context) and to drive the static
// rule-based fallback evaluator (§4.11) before any LLM call is made.
type DomainAvailability struct {
	LogSummary     string
	MetricsSummary string
	K8sSummary     string
	TraceSummary   string

	MetricsAvailable bool
	K8sAvailable     bool

	OtherNegativeFindings []NegativeFinding
}

// DeltaResult is validate_delta()'s result (SPEC_FULL §4.11).
type DeltaResult struct {
	ValidationStatus evidence.ValidationStatus
	CausalRole       evidence.CausalRole
	Confidence       float64
	Reasoning        string
	Contradictions   []string
}
