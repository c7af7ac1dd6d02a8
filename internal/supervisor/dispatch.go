package supervisor

// nextDispatch returns the deterministic set of agents to run for the
// state's current phase, per SPEC_FULL §4.10, plus a short reasoning
// string recorded on the resulting ReasoningStep.
func nextDispatch(s *State) ([]AgentName, string, []string) {
	switch s.Phase {
	case PhaseInitial, PhaseCollectingContext:
		return []AgentName{AgentLog}, "no analysis has run yet; log evidence is the cheapest starting signal", nil

	case PhaseLogsAnalyzed:
		agents := []AgentName{AgentMetrics}
		reason := "log analysis complete; metrics checked next to corroborate or bound the incident window"
		var rejected []string
		if s.Namespace != "" {
			agents = append(agents, AgentK8s)
			reason += "; namespace is set, so k8s state is dispatched alongside metrics"
		} else {
			rejected = append(rejected, "k8s_agent: no namespace on the session")
		}
		return agents, reason, rejected

	case PhaseMetricsAnalyzed, PhaseK8sAnalyzed:
		if s.TraceID != "" {
			return []AgentName{AgentTracing}, "a trace_id is available; tracing narrows the failure point before code is consulted", nil
		}
		if s.RepoURL != "" {
			return []AgentName{AgentCode}, "no trace_id; repo_url is available so code analysis runs directly", []string{"tracing_agent: no trace_id on the session"}
		}
		return nil, "no trace_id and no repo_url; nothing further to dispatch", []string{"tracing_agent: no trace_id", "code_agent: no repo_url"}

	case PhaseTracingAnalyzed:
		if s.RepoURL != "" {
			return []AgentName{AgentCode}, "tracing complete; repo_url is available so code analysis runs", nil
		}
		return nil, "tracing complete; no repo_url to analyze code against", []string{"code_agent: no repo_url on the session"}

	case PhaseCodeAnalyzed:
		return nil, "code analysis complete; nothing left to dispatch", nil

	case PhaseReInvestigating:
		// Re-investigation re-runs the same first signal (logs) under
		// the assumption that the original diagnosis missed something
		// upstream; a fuller re-run policy is out of scope here.
		return []AgentName{AgentLog}, "critic requested re-investigation", nil
	}

	return nil, "phase has no dispatch policy", nil
}

// nextPhase computes the phase to enter once the given dispatch set (as
// returned by nextDispatch for the CURRENT phase) has completed.
func nextPhase(current Phase, dispatched []AgentName) Phase {
	switch current {
	case PhaseInitial, PhaseCollectingContext:
		return PhaseLogsAnalyzed

	case PhaseLogsAnalyzed:
		for _, a := range dispatched {
			if a == AgentK8s {
				return PhaseK8sAnalyzed
			}
		}
		return PhaseMetricsAnalyzed

	case PhaseMetricsAnalyzed, PhaseK8sAnalyzed:
		for _, a := range dispatched {
			switch a {
			case AgentTracing:
				return PhaseTracingAnalyzed
			case AgentCode:
				return PhaseCodeAnalyzed
			}
		}
		return PhaseValidating

	case PhaseTracingAnalyzed:
		for _, a := range dispatched {
			if a == AgentCode {
				return PhaseCodeAnalyzed
			}
		}
		return PhaseValidating

	case PhaseCodeAnalyzed:
		return PhaseValidating

	case PhaseReInvestigating:
		return PhaseValidating
	}

	return current
}

// aggregateConfidence folds the per-agent confidences of one dispatch
// round into the session's running overall_confidence: the minimum of
// the round's reported confidences and the prior overall_confidence
// (confidence never recovers from a single weak signal within a run),
// or the round's minimum alone on the very first dispatch.
func aggregateConfidence(previous int, hadPrevious bool, outputs map[AgentName]AgentOutput) int {
	if len(outputs) == 0 {
		if hadPrevious {
			return previous
		}
		return 0
	}

	min := -1
	for _, out := range outputs {
		if min == -1 || out.Confidence < min {
			min = out.Confidence
		}
	}
	if hadPrevious && previous < min {
		return previous
	}
	return min
}
