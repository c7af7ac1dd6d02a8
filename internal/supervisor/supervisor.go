package supervisor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/inder1991/cluster-incident-agent/internal/logging"
)

var logger = logging.GetLogger("supervisor")

// AgentFunc runs one application-diagnosis agent against the session's
// current state and returns its findings.
type AgentFunc func(ctx context.Context, state *State) (AgentOutput, error)

// CriticDecision is what the Critic reports back at the VALIDATING phase.
type CriticDecision struct {
	ReInvestigate bool
	Reasoning     string
}

// CriticFunc validates the accumulated evidence pins at VALIDATING. A nil
// CriticFunc means validation always passes straight to DIAGNOSIS_COMPLETE.
type CriticFunc func(ctx context.Context, state *State) (CriticDecision, error)

// Deps bundles the supervisor's pluggable collaborators.
type Deps struct {
	Agents map[AgentName]AgentFunc
	Critic CriticFunc
	Clock  func() time.Time
}

func (d Deps) now() time.Time {
	if d.Clock != nil {
		return d.Clock()
	}
	return time.Now().UTC()
}

// ErrAttestationRequired is returned by Run when the state machine has
// reached DIAGNOSIS_COMPLETE and is waiting for an external
// acknowledge_attestation(decision) call before it will transition into
// FIX_IN_PROGRESS (SPEC_FULL §9: "the supervisor refuses to transition
// into FIX_IN_PROGRESS without an approved pre_remediation gate").
var ErrAttestationRequired = errors.New("supervisor: pre_remediation attestation required before fix_in_progress")

// reInvestigateLimit caps RE_INVESTIGATING at one pass per session, the
// same defensive cap the Cluster Diagnostic Graph applies to re-dispatch
// (SPEC_FULL §9 Open Questions), so a critic that always asks for
// re-investigation cannot keep a session from ever completing.
const reInvestigateLimit = 1

// Run drives the phase state machine forward until it either reaches a
// phase that requires external input (confidence gate triggered the
// ask_user decision, or DIAGNOSIS_COMPLETE awaiting attestation) or
// reaches COMPLETE. It is safe to call again on the same state after the
// caller has resolved an ask_user gate or acknowledged an attestation;
// Run resumes exactly where it left off.
func Run(ctx context.Context, deps Deps, state *State) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		switch state.Phase {
		case PhaseComplete:
			return nil

		case PhaseDiagnosisComplete:
			return ErrAttestationRequired

		case PhaseFixInProgress:
			state.Phase = PhaseComplete
			state.recordStep(deps.now(), "complete", "fix acknowledged complete", nil, state.OverallConfidence, nil)
			continue

		case PhaseValidating:
			if err := runValidation(ctx, deps, state); err != nil {
				return err
			}
			continue
		}

		if state.Decision == DecisionAskUser && state.PendingPhase != "" {
			// Paused at a confidence gate; the caller must resolve it
			// via AcknowledgeAttestation before Run will advance.
			return nil
		}

		if err := dispatchPhase(ctx, deps, state); err != nil {
			return err
		}
	}
}

func dispatchPhase(ctx context.Context, deps Deps, state *State) error {
	agents, reason, rejected := nextDispatch(state)

	if len(agents) == 0 {
		state.Phase = nextPhase(state.Phase, agents)
		state.recordStep(deps.now(), "proceed", reason, nil, state.OverallConfidence, rejected)
		return nil
	}

	outputs, err := runAgents(ctx, deps, state, agents)
	if err != nil {
		return err
	}

	var evidenceRefs []string
	for _, agent := range agents {
		out, ok := outputs[agent]
		if !ok {
			continue
		}
		state.Pins = append(state.Pins, out.Pins...)
		state.AgentsCompleted = append(state.AgentsCompleted, agent)
		for _, pin := range out.Pins {
			evidenceRefs = append(evidenceRefs, pin.ID)
		}
	}

	confidence := aggregateConfidence(state.OverallConfidence, len(state.Reasoning) > 0, outputs)
	state.OverallConfidence = confidence

	resultingPhase := nextPhase(state.Phase, agents)

	if confidence < 50 {
		state.Decision = DecisionAskUser
		state.PendingPhase = resultingPhase
		logger.Warn("session %s: overall_confidence %d below gate threshold at %s, pausing for attestation", state.SessionID, confidence, state.Phase)
		state.recordStep(deps.now(), string(DecisionAskUser), reason+"; overall_confidence dropped below 50", evidenceRefs, confidence, rejected)
		return nil
	}

	state.Decision = DecisionProceed
	state.Phase = resultingPhase
	state.recordStep(deps.now(), string(DecisionProceed), reason, evidenceRefs, confidence, rejected)
	return nil
}

// runAgents dispatches the given agent set concurrently. Unlike the
// Cluster Diagnostic Graph's domain-agent fan-out (which deliberately
// uses a plain errgroup.Group so one domain's timeout never cancels its
// siblings), the supervisor's per-phase dispatch set uses
// errgroup.WithContext: these agents are expected to all succeed before
// the phase can be trusted, so the first error should cancel the rest.
func runAgents(ctx context.Context, deps Deps, state *State, agents []AgentName) (map[AgentName]AgentOutput, error) {
	group, groupCtx := errgroup.WithContext(ctx)

	results := make(map[AgentName]AgentOutput, len(agents))
	var mu sync.Mutex

	for _, agent := range agents {
		agent := agent
		fn, ok := deps.Agents[agent]
		if !ok {
			return nil, fmt.Errorf("supervisor: no agent registered for %s", agent)
		}
		group.Go(func() error {
			out, err := fn(groupCtx, state)
			if err != nil {
				return fmt.Errorf("%s: %w", agent, err)
			}
			mu.Lock()
			results[agent] = out
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runValidation(ctx context.Context, deps Deps, state *State) error {
	if deps.Critic == nil {
		state.Phase = PhaseDiagnosisComplete
		state.recordStep(deps.now(), "proceed", "no critic configured; validation passes by default", nil, state.OverallConfidence, nil)
		return nil
	}

	decision, err := deps.Critic(ctx, state)
	if err != nil {
		return fmt.Errorf("supervisor: critic validation: %w", err)
	}

	if decision.ReInvestigate && state.ReInvestigateCount < reInvestigateLimit {
		state.ReInvestigateCount++
		state.Phase = PhaseReInvestigating
		state.recordStep(deps.now(), "re_investigate", decision.Reasoning, nil, state.OverallConfidence, nil)
		return nil
	}
	if decision.ReInvestigate {
		logger.Warn("session %s: critic requested re-investigation again, refusing past the single-pass cap", state.SessionID)
	}

	state.Phase = PhaseDiagnosisComplete
	reason := decision.Reasoning
	if reason == "" {
		reason = "validation complete"
	}
	state.recordStep(deps.now(), "proceed", reason, nil, state.OverallConfidence, nil)
	return nil
}

// AcknowledgeAttestation resolves either the confidence-gate pause (an
// ask_user Decision with a PendingPhase queued) or, once the state has
// reached DIAGNOSIS_COMPLETE, the pre_remediation gate guarding entry
// into FIX_IN_PROGRESS. A non-approve decision halts the state machine
// at its current phase; the caller decides whether to retry.
func AcknowledgeAttestation(state *State, decision AttestationDecision, notes string) {
	now := time.Now().UTC()

	if state.Decision == DecisionAskUser && state.PendingPhase != "" {
		if decision == AttestationApprove {
			state.Phase = state.PendingPhase
			state.PendingPhase = ""
			state.Decision = DecisionProceed
			state.recordStep(now, "attestation_approved", notes, nil, state.OverallConfidence, nil)
		} else {
			state.recordStep(now, "attestation_"+string(decision), notes, nil, state.OverallConfidence, nil)
		}
		return
	}

	if state.Phase == PhaseDiagnosisComplete {
		if decision == AttestationApprove {
			state.Phase = PhaseFixInProgress
			state.recordStep(now, "attestation_approved", notes, nil, state.OverallConfidence, nil)
		} else {
			state.recordStep(now, "attestation_"+string(decision), notes, nil, state.OverallConfidence, nil)
		}
	}
}
