package critic

import "strings"

// staticEvaluate implements the Critic's static rule-based fallback,
// ported from critic_agent.py's _evaluate_finding but retargeted to the
// spec's literal trigger condition: it runs whenever corroborating
// domain data for the finding's own domain is missing, BEFORE validate()
// would otherwise call the LLM (SPEC_FULL §4.11). ok=false means no
// static rule applied and the caller should fall through to the LLM.
func staticEvaluate(finding Finding, avail DomainAvailability) (CriticVerdict, bool) {
	category := strings.ToLower(finding.Category)
	summary := strings.ToLower(finding.Summary)

	if (strings.Contains(category, "database") || strings.Contains(category, "db")) &&
		strings.Contains(summary, "unreachable") && !avail.MetricsAvailable {
		return CriticVerdict{
			FindingID:           finding.FindingID,
			AgentSource:         finding.AgentName,
			Verdict:             VerdictInsufficientData,
			Reasoning:           "no corroborating metrics data to confirm or refute a database-unreachable claim",
			ConfidenceInVerdict: 40,
		}, true
	}

	if strings.Contains(category, "oom") && !avail.K8sAvailable {
		return CriticVerdict{
			FindingID:           finding.FindingID,
			AgentSource:         finding.AgentName,
			Verdict:             VerdictChallenged,
			Reasoning:           "no k8s resource data available to confirm an OOM finding",
			ConfidenceInVerdict: 80,
		}, true
	}

	return CriticVerdict{}, false
}
