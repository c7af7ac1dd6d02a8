// Package attestation implements the AttestationGate entity and the
// human-response parsing the Supervisor's acknowledge_attestation
// endpoint needs (SPEC_FULL §3.1, §9 "Attestation coupling").
package attestation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inder1991/cluster-incident-agent/internal/supervisor"
)

// GateType classifies which point in the diagnosis lifecycle a gate guards.
type GateType string

const (
	GateDiscoveryComplete GateType = "discovery_complete"
	GatePreRemediation    GateType = "pre_remediation"
	GatePostRemediation   GateType = "post_remediation"
)

// Decision reuses internal/supervisor's AttestationDecision vocabulary so
// there is exactly one canonical approve/reject/request_changes type in the
// module, not two that happen to agree.
type Decision = supervisor.AttestationDecision

const (
	DecisionApprove         = supervisor.AttestationApprove
	DecisionReject          = supervisor.AttestationReject
	DecisionRequestChanges  = supervisor.AttestationRequestChanges
)

// Gate is one AttestationGate record: proposed to the user at EvidenceSummary
// / ProposedAction, and left undecided (Decision == "") until Decide is
// called.
type Gate struct {
	ID              string
	SessionID       string
	GateType        GateType
	EvidenceSummary string
	ProposedAction  string
	Decision        Decision
	DecidedBy       string
	Notes           string
	Timestamp       time.Time
}

// NewGate creates an undecided gate awaiting a decision.
func NewGate(sessionID string, gateType GateType, evidenceSummary, proposedAction string, now time.Time) *Gate {
	return &Gate{
		ID:              uuid.NewString(),
		SessionID:       sessionID,
		GateType:        gateType,
		EvidenceSummary: evidenceSummary,
		ProposedAction:  proposedAction,
		Timestamp:       now,
	}
}

// ErrAlreadyDecided is returned by Decide on a gate that already carries a
// decision; gates are decided exactly once.
var ErrAlreadyDecided = fmt.Errorf("attestation: gate already decided")

// ErrInvalidDecision is returned by Decide for any value outside the
// approve/reject/request_changes vocabulary.
var ErrInvalidDecision = fmt.Errorf("attestation: invalid decision")

// Decide records decision against the gate. Gates are not advisory
// (SPEC_FULL §9): once recorded, the decision is final.
func (g *Gate) Decide(decision Decision, decidedBy, notes string, now time.Time) error {
	if g.Decision != "" {
		return ErrAlreadyDecided
	}
	if decision != DecisionApprove && decision != DecisionReject && decision != DecisionRequestChanges {
		return ErrInvalidDecision
	}

	g.Decision = decision
	g.DecidedBy = decidedBy
	g.Notes = notes
	g.Timestamp = now
	return nil
}
