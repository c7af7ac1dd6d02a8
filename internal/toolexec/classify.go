// Classification helpers grounded on
// original_source/backend/src/tools/tool_executor.py's _KIND_TO_DOMAIN and
// error-keyword severity tiers, as precisely enumerated by SPEC_FULL §4.1's
// supplemented table.
package toolexec

import (
	"strings"

	"github.com/inder1991/cluster-incident-agent/internal/evidence"
)

var kindToDomain = map[string]evidence.Domain{
	"pod":           evidence.DomainCompute,
	"deployment":    evidence.DomainCompute,
	"replicaset":    evidence.DomainCompute,
	"statefulset":   evidence.DomainCompute,
	"daemonset":     evidence.DomainCompute,
	"node":          evidence.DomainCompute,
	"service":       evidence.DomainNetwork,
	"ingress":       evidence.DomainNetwork,
	"networkpolicy": evidence.DomainNetwork,
	"endpoints":     evidence.DomainNetwork,
	"pvc":           evidence.DomainStorage,
	"pv":            evidence.DomainStorage,
	"storageclass":  evidence.DomainStorage,
	"configmap":     evidence.DomainControlPlane,
	"secret":        evidence.DomainControlPlane,
	"role":          evidence.DomainControlPlane,
	"rolebinding":   evidence.DomainControlPlane,
}

// DomainForKind classifies a resource kind into a Domain; unknown kinds
// (and the payload-keyword checks below) fall back to DomainUnknown.
func DomainForKind(kind string) evidence.Domain {
	if d, ok := kindToDomain[strings.ToLower(kind)]; ok {
		return d
	}
	return evidence.DomainUnknown
}

// DomainForPayload classifies a free-form payload string (e.g. a
// query_prometheus query or search_logs search term) by keyword, per
// SPEC_FULL §4.1: "coredns"/"dns" → network; "apiserver"/"etcd" →
// control_plane; else unknown.
func DomainForPayload(payload string) evidence.Domain {
	lower := strings.ToLower(payload)
	switch {
	case strings.Contains(lower, "coredns"), strings.Contains(lower, "dns"):
		return evidence.DomainNetwork
	case strings.Contains(lower, "apiserver"), strings.Contains(lower, "etcd"):
		return evidence.DomainControlPlane
	default:
		return evidence.DomainUnknown
	}
}

var (
	criticalKeywords = []string{"fatal", "panic"}
	highKeywords     = []string{"oom", "killed", "segfault", "outofmemory"}
	mediumKeywords   = []string{"error", "exception", "failed", "timeout"}
)

func lineHasAnyKeyword(line string, keywords []string) bool {
	lower := strings.ToLower(line)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ExtractErrorLines returns every line of text matching the combined
// critical/high/medium keyword set, trimmed of surrounding whitespace.
func ExtractErrorLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if lineHasAnyKeyword(line, criticalKeywords) || lineHasAnyKeyword(line, highKeywords) || lineHasAnyKeyword(line, mediumKeywords) {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	return lines
}

// ClassifyLogSeverity classifies overall severity from extracted error
// lines, matching original_source's _classify_log_severity exactly.
func ClassifyLogSeverity(errorLines []string) evidence.Severity {
	combined := strings.ToLower(strings.Join(errorLines, " "))
	for _, kw := range criticalKeywords {
		if strings.Contains(combined, kw) {
			return evidence.SeverityCritical
		}
	}
	for _, kw := range highKeywords {
		if strings.Contains(combined, kw) {
			return evidence.SeverityHigh
		}
	}
	if len(errorLines) > 0 {
		return evidence.SeverityMedium
	}
	return evidence.SeverityInfo
}
