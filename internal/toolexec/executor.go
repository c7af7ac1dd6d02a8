// Package toolexec implements the Tool Executor (SPEC_FULL §4.1): it
// translates a named intent and parameter map into a normalized
// evidence.ToolResult by calling exactly one external collector, validating
// and clamping parameters first and classifying the result after.
// Grounded on original_source/backend/src/tools/tool_executor.py.
package toolexec

import (
	"context"
	"fmt"

	"github.com/inder1991/cluster-incident-agent/internal/evidence"
	"github.com/inder1991/cluster-incident-agent/internal/logging"
)

// Intent is the closed set of registered intent names.
type Intent string

const (
	IntentFetchPodLogs        Intent = "fetch_pod_logs"
	IntentDescribeResource    Intent = "describe_resource"
	IntentQueryPrometheus     Intent = "query_prometheus"
	IntentSearchLogs          Intent = "search_logs"
	IntentCheckPodStatus      Intent = "check_pod_status"
	IntentGetEvents           Intent = "get_events"
	IntentReInvestigateService Intent = "re_investigate_service"
	IntentGetResourceYAML     Intent = "get_resource_yaml"
	IntentGetResourceEvents   Intent = "get_resource_events"
	IntentGetPodLogs          Intent = "get_pod_logs"
)

// Collectors bundles the external collector dependencies the executor
// dispatches to; all are specified only at their interface boundary
// (SPEC_FULL §6.1) and are out of this core's scope to implement
// concretely beyond the K8s read client.
type Collectors struct {
	K8s        K8sReadClient
	TimeSeries TimeSeriesClient
	LogIndex   LogIndexClient
	Tracing    TracingClient
	SourceHost SourceHostClient
}

// Executor is the stateless-per-call tool dispatcher.
type Executor struct {
	collectors Collectors
	logger     *logging.Logger
}

// NewExecutor builds an Executor over the given collectors.
func NewExecutor(collectors Collectors) *Executor {
	return &Executor{collectors: collectors, logger: logging.GetLogger("toolexec")}
}

// Execute dispatches params by intent name, validating and clamping
// parameters before the call and classifying the raw collector response
// after.
func (e *Executor) Execute(ctx context.Context, intent Intent, params Params) evidence.ToolResult {
	switch intent {
	case IntentFetchPodLogs, IntentGetPodLogs:
		return e.fetchPodLogs(ctx, params)
	case IntentDescribeResource, IntentGetResourceYAML:
		return e.describeResource(ctx, params)
	case IntentQueryPrometheus:
		return e.queryPrometheus(ctx, params)
	case IntentSearchLogs:
		return e.searchLogs(ctx, params)
	case IntentCheckPodStatus:
		return e.checkPodStatus(ctx, params)
	case IntentGetEvents, IntentGetResourceEvents:
		return e.getEvents(ctx, params)
	case IntentReInvestigateService:
		return e.reInvestigateService(ctx, params)
	default:
		return evidence.ToolResult{
			Success: false,
			Intent:  string(intent),
			Error:   fmt.Sprintf("unknown intent: %s", intent),
			Domain:  evidence.DomainUnknown,
		}
	}
}

func missingResult(intent Intent, evType evidence.EvidenceType, domain evidence.Domain, missing []string) evidence.ToolResult {
	return evidence.ToolResult{
		Success:      false,
		Intent:       string(intent),
		Error:        missingParamsError(missing),
		EvidenceType: evType,
		Domain:       domain,
	}
}

// ------------------------------------------------------------------
// fetch_pod_logs / get_pod_logs
// ------------------------------------------------------------------

func (e *Executor) fetchPodLogs(ctx context.Context, params Params) evidence.ToolResult {
	if missing := RequireParams(params, "namespace", "pod"); len(missing) > 0 {
		return missingResult(IntentFetchPodLogs, evidence.EvidenceTypeLog, evidence.DomainCompute, missing)
	}
	namespace, _ := params.str("namespace")
	pod, _ := params.str("pod")
	container, _ := params.str("container")
	previous := params.boolOrDefault("previous", false)
	tailLines := ClampTailLines(params)

	logText, err := e.collectors.K8s.PodLogs(ctx, namespace, pod, container, tailLines, previous)
	if err != nil {
		e.logger.Warn("fetch_pod_logs failed: namespace=%s pod=%s: %v", namespace, pod, err)
		return evidence.ToolResult{
			Success:      false,
			Intent:       string(IntentFetchPodLogs),
			Error:        "Failed to fetch pod logs",
			EvidenceType: evidence.EvidenceTypeLog,
			Domain:       evidence.DomainCompute,
			Metadata:     map[string]interface{}{"pod": pod, "namespace": namespace},
		}
	}

	errorLines := ExtractErrorLines(logText)
	severity := ClassifyLogSeverity(errorLines)

	summary := fmt.Sprintf("No errors found in %s logs", pod)
	if len(errorLines) > 0 {
		summary = fmt.Sprintf("Found %d error line(s) in %s logs (severity: %s)", len(errorLines), pod, severity)
	}

	return evidence.ToolResult{
		Success:          true,
		Intent:           string(IntentFetchPodLogs),
		RawOutput:        logText,
		Summary:          summary,
		EvidenceSnippets: errorLines,
		EvidenceType:     evidence.EvidenceTypeLog,
		Domain:           evidence.DomainCompute,
		Severity:         severity,
		Metadata: map[string]interface{}{
			"pod": pod, "namespace": namespace, "container": container,
			"previous": previous, "tail_lines": tailLines, "error_count": len(errorLines),
		},
	}
}

// ------------------------------------------------------------------
// describe_resource / get_resource_yaml
// ------------------------------------------------------------------

func (e *Executor) describeResource(ctx context.Context, params Params) evidence.ToolResult {
	if missing := RequireParams(params, "kind", "name"); len(missing) > 0 {
		return missingResult(IntentDescribeResource, evidence.EvidenceTypeK8sResource, evidence.DomainUnknown, missing)
	}
	kind, _ := params.str("kind")
	name, _ := params.str("name")
	namespace, _ := params.str("namespace")
	domain := DomainForKind(kind)

	desc, err := e.collectors.K8s.GetResource(ctx, kind, namespace, name)
	if err != nil {
		e.logger.Warn("describe_resource failed: kind=%s name=%s: %v", kind, name, err)
		return evidence.ToolResult{
			Success:      false,
			Intent:       string(IntentDescribeResource),
			Error:        "Failed to fetch resource",
			EvidenceType: evidence.EvidenceTypeK8sResource,
			Domain:       domain,
			Metadata:     map[string]interface{}{"kind": kind, "name": name, "namespace": namespace},
		}
	}

	summary, keyLines, hasIssues := extractResourceSignals(desc, kind, name)
	severity := evidence.SeverityInfo
	if hasIssues {
		severity = evidence.SeverityHigh
	}

	return evidence.ToolResult{
		Success:          true,
		Intent:           string(IntentDescribeResource),
		RawOutput:        desc.RawText,
		Summary:          summary,
		EvidenceSnippets: keyLines,
		EvidenceType:     evidence.EvidenceTypeK8sResource,
		Domain:           domain,
		Severity:         severity,
		Metadata:         map[string]interface{}{"kind": kind, "name": name, "namespace": namespace, "has_issues": hasIssues},
	}
}

func extractResourceSignals(desc ResourceDescription, kind, name string) (summary string, keyLines []string, hasIssues bool) {
	if kind == "pod" && desc.Pod != nil {
		var issues []string
		for _, cs := range desc.Pod.Containers {
			if !cs.Ready {
				issues = append(issues, fmt.Sprintf("Container '%s' is not ready", cs.Name))
			}
			if cs.TerminatedReason != "" {
				issues = append(issues, fmt.Sprintf("Container '%s' terminated: %s (exit code %d)", cs.Name, cs.TerminatedReason, cs.ExitCode))
			}
			if cs.WaitingReason != "" {
				issues = append(issues, fmt.Sprintf("Container '%s' waiting: %s", cs.Name, cs.WaitingReason))
			}
		}
		if len(issues) > 0 {
			return fmt.Sprintf("Pod has issues: %s", joinSemicolon(issues)), issues, true
		}
		return "Pod containers are all ready", nil, false
	}
	return fmt.Sprintf("%s '%s' described", kind, name), nil, false
}

func joinSemicolon(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += "; "
		}
		out += item
	}
	return out
}

// ------------------------------------------------------------------
// query_prometheus
// ------------------------------------------------------------------

func (e *Executor) queryPrometheus(ctx context.Context, params Params) evidence.ToolResult {
	if missing := RequireParams(params, "query"); len(missing) > 0 {
		return missingResult(IntentQueryPrometheus, evidence.EvidenceTypeMetric, evidence.DomainUnknown, missing)
	}
	query, _ := params.str("query")
	rangeMinutes := ClampRangeMinutes(params, 60)
	domain := DomainForPayload(query)

	results, err := e.collectors.TimeSeries.QueryRange(ctx, query, rangeMinutes)
	if err != nil {
		e.logger.Warn("query_prometheus failed: %v", err)
		return evidence.ToolResult{
			Success:      false,
			Intent:       string(IntentQueryPrometheus),
			Error:        "Prometheus query failed",
			EvidenceType: evidence.EvidenceTypeMetric,
			Domain:       domain,
		}
	}

	downsampled := make([]TimeSeriesResult, len(results))
	truncated := false
	for i, series := range results {
		if len(series.Values) > MaxSeriesPoints {
			truncated = true
			downsampled[i] = TimeSeriesResult{Metric: series.Metric, Values: LTTBDownsample(series.Values, MaxSeriesPoints)}
		} else {
			downsampled[i] = series
		}
	}

	summary := fmt.Sprintf("Returned %d series", len(downsampled))
	if len(downsampled) == 0 {
		summary = "No data returned"
	}

	return evidence.ToolResult{
		Success:      true,
		Intent:       string(IntentQueryPrometheus),
		RawOutput:    formatSeries(downsampled),
		Summary:      summary,
		EvidenceType: evidence.EvidenceTypeMetric,
		Domain:       domain,
		Severity:     evidence.SeverityInfo,
		Metadata:     map[string]interface{}{"query": query, "range_minutes": rangeMinutes, "truncated": truncated, "series_count": len(downsampled)},
	}
}

func formatSeries(series []TimeSeriesResult) string {
	out := ""
	for _, s := range series {
		out += fmt.Sprintf("%v: %d points\n", s.Metric, len(s.Values))
	}
	return out
}

// ------------------------------------------------------------------
// search_logs
// ------------------------------------------------------------------

func (e *Executor) searchLogs(ctx context.Context, params Params) evidence.ToolResult {
	if missing := RequireParams(params, "query"); len(missing) > 0 {
		return missingResult(IntentSearchLogs, evidence.EvidenceTypeLog, evidence.DomainUnknown, missing)
	}
	query, _ := params.str("query")
	sinceMinutes := ClampSinceMinutes(params, 60)
	domain := DomainForPayload(query)

	lines, err := e.collectors.LogIndex.Search(ctx, query, sinceMinutes)
	if err != nil {
		e.logger.Warn("search_logs failed: %v", err)
		return evidence.ToolResult{
			Success:      false,
			Intent:       string(IntentSearchLogs),
			Error:        "Log search failed",
			EvidenceType: evidence.EvidenceTypeLog,
			Domain:       domain,
		}
	}

	errorLines := ExtractErrorLines(joinLines(lines))
	severity := ClassifyLogSeverity(errorLines)

	return evidence.ToolResult{
		Success:          true,
		Intent:           string(IntentSearchLogs),
		RawOutput:        joinLines(lines),
		Summary:          fmt.Sprintf("Found %d matching line(s)", len(lines)),
		EvidenceSnippets: errorLines,
		EvidenceType:     evidence.EvidenceTypeLog,
		Domain:           domain,
		Severity:         severity,
		Metadata:         map[string]interface{}{"query": query, "since_minutes": sinceMinutes, "hit_count": len(lines)},
	}
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

// ------------------------------------------------------------------
// check_pod_status
// ------------------------------------------------------------------

func (e *Executor) checkPodStatus(ctx context.Context, params Params) evidence.ToolResult {
	if missing := RequireParams(params, "namespace", "pod"); len(missing) > 0 {
		return missingResult(IntentCheckPodStatus, evidence.EvidenceTypeK8sResource, evidence.DomainCompute, missing)
	}
	namespace, _ := params.str("namespace")
	pod, _ := params.str("pod")

	status, err := e.collectors.K8s.PodStatus(ctx, namespace, pod)
	if err != nil {
		e.logger.Warn("check_pod_status failed: namespace=%s pod=%s: %v", namespace, pod, err)
		return evidence.ToolResult{
			Success:      false,
			Intent:       string(IntentCheckPodStatus),
			Error:        fmt.Sprintf("Pod not found in namespace %s", namespace),
			EvidenceType: evidence.EvidenceTypeK8sResource,
			Domain:       evidence.DomainCompute,
		}
	}

	_, keyLines, hasIssues := extractResourceSignals(ResourceDescription{Pod: &status}, "pod", pod)
	severity := evidence.SeverityInfo
	if hasIssues {
		severity = evidence.SeverityHigh
	}

	return evidence.ToolResult{
		Success:          true,
		Intent:           string(IntentCheckPodStatus),
		RawOutput:        fmt.Sprintf("phase=%s", status.Phase),
		Summary:          fmt.Sprintf("Pod %s is %s", pod, status.Phase),
		EvidenceSnippets: keyLines,
		EvidenceType:     evidence.EvidenceTypeK8sResource,
		Domain:           evidence.DomainCompute,
		Severity:         severity,
		Metadata:         map[string]interface{}{"namespace": namespace, "pod": pod, "phase": status.Phase},
	}
}

// ------------------------------------------------------------------
// get_events / get_resource_events
// ------------------------------------------------------------------

func (e *Executor) getEvents(ctx context.Context, params Params) evidence.ToolResult {
	if missing := RequireParams(params, "namespace"); len(missing) > 0 {
		return missingResult(IntentGetEvents, evidence.EvidenceTypeK8sEvent, evidence.DomainUnknown, missing)
	}
	namespace, _ := params.str("namespace")

	events, err := e.collectors.K8s.Events(ctx, namespace)
	if err != nil {
		e.logger.Warn("get_events failed: namespace=%s: %v", namespace, err)
		return evidence.ToolResult{
			Success:      false,
			Intent:       string(IntentGetEvents),
			Error:        "Failed to fetch events",
			EvidenceType: evidence.EvidenceTypeK8sEvent,
			Domain:       evidence.DomainUnknown,
		}
	}

	var snippets []string
	warnCount := 0
	for _, ev := range events {
		if ev.Type == "Warning" {
			warnCount++
			snippets = append(snippets, fmt.Sprintf("%s %s: %s", ev.Involved, ev.Reason, ev.Message))
		}
	}
	severity := evidence.SeverityInfo
	if warnCount > 0 {
		severity = evidence.SeverityMedium
	}

	return evidence.ToolResult{
		Success:          true,
		Intent:           string(IntentGetEvents),
		RawOutput:        fmt.Sprintf("%d events, %d warnings", len(events), warnCount),
		Summary:          fmt.Sprintf("%d event(s), %d warning(s)", len(events), warnCount),
		EvidenceSnippets: snippets,
		EvidenceType:     evidence.EvidenceTypeK8sEvent,
		Domain:           evidence.DomainUnknown,
		Severity:         severity,
		Metadata:         map[string]interface{}{"namespace": namespace, "event_count": len(events), "warning_count": warnCount},
	}
}

// ------------------------------------------------------------------
// re_investigate_service (stub)
// ------------------------------------------------------------------

// reInvestigateService is a registered but not-yet-implemented intent
// (SPEC_FULL §4.1): it always returns a not-implemented ToolResult rather
// than panicking on an unknown handler, matching the original's explicit
// placeholder handlers.
func (e *Executor) reInvestigateService(ctx context.Context, params Params) evidence.ToolResult {
	return evidence.ToolResult{
		Success: false,
		Intent:  string(IntentReInvestigateService),
		Error:   "re_investigate_service is not implemented",
		Domain:  evidence.DomainUnknown,
	}
}
