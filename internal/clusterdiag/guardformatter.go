package clusterdiag

import (
	"sort"
	"strings"
	"time"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
)

// normalizeDescription is the same case/whitespace-insensitive dedup key
// internal/synthesize uses for merging anomaly descriptions.
func normalizeDescription(description string) string {
	return strings.ToLower(strings.TrimSpace(description))
}

// formatGuardScan implements guard_formatter.py's three-layer output: what's
// broken now, what will break soon, and what changed since the last scan.
func formatGuardScan(reports []clustermodel.DomainReport, clusters []clustermodel.IssueCluster, health clustermodel.ClusterHealthReport, previous *clustermodel.GuardScanResult) clustermodel.GuardScanResult {
	current := extractCurrentRisks(reports, clusters)
	predictive := extractPredictiveRisks(health)

	scan := clustermodel.GuardScanResult{
		CurrentRisks:    current,
		PredictiveRisks: predictive,
		OverallHealth:   computeOverallHealth(current),
		RiskScore:       computeRiskScore(current, predictive),
		ScannedAt:       time.Now().UTC(),
	}
	scan.Delta = computeDelta(current, previous)
	return scan
}

func extractCurrentRisks(reports []clustermodel.DomainReport, clusters []clustermodel.IssueCluster) []clustermodel.CurrentRisk {
	var risks []clustermodel.CurrentRisk
	seen := map[string]bool{}

	for _, report := range reports {
		for _, anomaly := range report.Anomalies {
			risks = append(risks, clustermodel.CurrentRisk{
				ResourceKey: anomaly.EvidenceRef,
				Description: anomaly.Description,
				Severity:    anomaly.Severity,
			})
			seen[normalizeDescription(anomaly.Description)] = true
		}
	}

	for _, cluster := range clusters {
		for _, alert := range cluster.Alerts {
			desc := alert.AlertType + " on " + alert.ResourceKey
			if seen[normalizeDescription(desc)] {
				continue
			}
			seen[normalizeDescription(desc)] = true
			risks = append(risks, clustermodel.CurrentRisk{
				ResourceKey: alert.ResourceKey,
				Description: desc,
				Severity:    alert.Severity,
			})
		}
	}

	return risks
}

func extractPredictiveRisks(health clustermodel.ClusterHealthReport) []clustermodel.PredictiveRisk {
	var risks []clustermodel.PredictiveRisk
	for _, step := range health.LongTermSteps {
		risks = append(risks, clustermodel.PredictiveRisk{
			Description: step.Description,
			Basis:       string(step.Domain),
		})
	}
	return risks
}

func computeDelta(current []clustermodel.CurrentRisk, previous *clustermodel.GuardScanResult) clustermodel.ScanDelta {
	if previous == nil {
		return clustermodel.ScanDelta{}
	}

	prevSet := map[string]bool{}
	for _, r := range previous.CurrentRisks {
		prevSet[r.Description] = true
	}
	currSet := map[string]bool{}
	for _, r := range current {
		currSet[r.Description] = true
	}

	var newRisks, resolved []string
	for d := range currSet {
		if !prevSet[d] {
			newRisks = append(newRisks, d)
		}
	}
	for d := range prevSet {
		if !currSet[d] {
			resolved = append(resolved, d)
		}
	}
	sort.Strings(newRisks)
	sort.Strings(resolved)
	return clustermodel.ScanDelta{NewRisks: newRisks, ResolvedRisks: resolved}
}

func computeOverallHealth(risks []clustermodel.CurrentRisk) clustermodel.GuardOverallHealth {
	for _, r := range risks {
		if r.Severity == "critical" {
			return clustermodel.GuardHealthCritical
		}
	}
	if len(risks) > 0 {
		return clustermodel.GuardHealthDegraded
	}
	return clustermodel.GuardHealthHealthy
}

// currentRiskWeights/predictiveRiskWeights are the severity weights from
// guard_formatter.py's _compute_risk_score, adapted to this spec's
// {critical, high, medium, low} severity vocabulary.
var currentRiskWeights = map[string]float64{"critical": 0.3, "high": 0.15, "medium": 0.08, "low": 0.05}
var predictiveRiskWeight = 0.05

func computeRiskScore(current []clustermodel.CurrentRisk, predictive []clustermodel.PredictiveRisk) float64 {
	score := 0.0
	for _, r := range current {
		if w, ok := currentRiskWeights[r.Severity]; ok {
			score += w
		} else {
			score += 0.05
		}
	}
	score += float64(len(predictive)) * predictiveRiskWeight
	if score > 1.0 {
		return 1.0
	}
	return score
}
