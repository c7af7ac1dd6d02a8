// Package synthesize implements the cluster diagnostic graph's synthesizer:
// a three-stage pipeline (deterministic merge, LLM causal reasoning, LLM
// verdict) that turns four domain reports plus the causal firewall's
// search space into one ClusterHealthReport.
// Grounded on original_source/backend/src/agents/cluster/synthesizer.py.
package synthesize

import (
	"strings"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
)

// mergedAnomaly is one deduplicated anomaly plus the set of domains that
// independently reported it.
type mergedAnomaly struct {
	clustermodel.DomainAnomaly
	ReportedBy []clustermodel.DomainName
}

// normalizeDescription is the dedup key: case- and whitespace-normalized
// description, matching the original's description.lower().strip().
func normalizeDescription(description string) string {
	return strings.ToLower(strings.TrimSpace(description))
}

// mergeAnomalies unions anomalies across reports, deduplicating on
// normalized description. The first report to contribute a given
// description wins for the kept anomaly fields; later duplicates only
// extend ReportedBy.
func mergeAnomalies(reports []clustermodel.DomainReport) []mergedAnomaly {
	var order []string
	byKey := map[string]*mergedAnomaly{}

	for _, report := range reports {
		for _, anomaly := range report.Anomalies {
			key := normalizeDescription(anomaly.Description)
			if existing, ok := byKey[key]; ok {
				existing.ReportedBy = append(existing.ReportedBy, report.Domain)
				continue
			}
			merged := &mergedAnomaly{DomainAnomaly: anomaly, ReportedBy: []clustermodel.DomainName{report.Domain}}
			byKey[key] = merged
			order = append(order, key)
		}
	}

	out := make([]mergedAnomaly, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	return out
}

// mergeRuledOut unions ruled_out entries across reports, deduplicating on
// the same normalized-description key.
func mergeRuledOut(reports []clustermodel.DomainReport) []string {
	var order []string
	seen := map[string]bool{}
	for _, report := range reports {
		for _, item := range report.RuledOut {
			key := normalizeDescription(item)
			if seen[key] {
				continue
			}
			seen[key] = true
			order = append(order, item)
		}
	}
	return order
}

// DataCompleteness is (domains with status in {SUCCESS, PARTIAL}) /
// (domains not SKIPPED), per SPEC_FULL §4.8 and DESIGN.md Open Question
// resolution 2. Returns 1.0 when every domain was SKIPPED (no denominator),
// matching internal/topology.Coverage's empty-denominator convention.
func DataCompleteness(reports []clustermodel.DomainReport) float64 {
	var succeeded, counted int
	for _, report := range reports {
		if report.Status == clustermodel.DomainStatusSkipped {
			continue
		}
		counted++
		if report.Status == clustermodel.DomainStatusSuccess || report.Status == clustermodel.DomainStatusPartial {
			succeeded++
		}
	}
	if counted == 0 {
		return 1.0
	}
	return float64(succeeded) / float64(counted)
}
