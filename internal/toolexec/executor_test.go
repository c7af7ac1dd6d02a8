package toolexec

import (
	"context"
	"testing"

	"github.com/inder1991/cluster-incident-agent/internal/evidence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor() (*Executor, *FakeK8sReadClient, *FakeTimeSeriesClient, *FakeLogIndexClient) {
	k8s := NewFakeK8sReadClient()
	ts := &FakeTimeSeriesClient{}
	logs := &FakeLogIndexClient{}
	exec := NewExecutor(Collectors{K8s: k8s, TimeSeries: ts, LogIndex: logs})
	return exec, k8s, ts, logs
}

func TestExecute_FetchPodLogs_MissingParams(t *testing.T) {
	exec, _, _, _ := newTestExecutor()
	result := exec.Execute(context.Background(), IntentFetchPodLogs, Params{"namespace": "prod"})
	assert.False(t, result.Success)
	assert.Equal(t, "missing: pod", result.Error)
}

func TestExecute_FetchPodLogs_ClassifiesSeverity(t *testing.T) {
	exec, k8s, _, _ := newTestExecutor()
	k8s.Logs["prod/auth-5b6q/"] = "2026-01-01 INFO starting\n2026-01-01 FATAL panic: nil pointer"

	result := exec.Execute(context.Background(), IntentFetchPodLogs, Params{"namespace": "prod", "pod": "auth-5b6q"})
	require.True(t, result.Success)
	assert.Equal(t, evidence.SeverityCritical, result.Severity)
	assert.Len(t, result.EvidenceSnippets, 1)
}

func TestExecute_FetchPodLogs_TailLinesClampedTo5000(t *testing.T) {
	exec, k8s, _, _ := newTestExecutor()
	k8s.Logs["prod/auth-5b6q/"] = "ok"

	result := exec.Execute(context.Background(), IntentFetchPodLogs, Params{"namespace": "prod", "pod": "auth-5b6q", "tail_lines": 99999})
	require.True(t, result.Success)
	assert.Equal(t, 5000, result.Metadata["tail_lines"])
}

func TestExecute_FetchPodLogs_NotFound_SanitizedError(t *testing.T) {
	exec, _, _, _ := newTestExecutor()
	result := exec.Execute(context.Background(), IntentFetchPodLogs, Params{"namespace": "prod", "pod": "missing"})
	assert.False(t, result.Success)
	assert.Equal(t, "Failed to fetch pod logs", result.Error, "error must be a fixed sanitized category phrase")
}

func TestExecute_DescribeResource_PodIssuesAreClassified(t *testing.T) {
	exec, k8s, _, _ := newTestExecutor()
	k8s.Resources["pod/prod/auth-5b6q"] = ResourceDescription{
		RawText: "{...}",
		Pod: &PodStatus{Phase: "Running", Containers: []ContainerStatus{
			{Name: "app", Ready: false, WaitingReason: "CrashLoopBackOff"},
		}},
	}

	result := exec.Execute(context.Background(), IntentDescribeResource, Params{"kind": "pod", "name": "auth-5b6q", "namespace": "prod"})
	require.True(t, result.Success)
	assert.Equal(t, evidence.DomainCompute, result.Domain)
	assert.Equal(t, evidence.SeverityHigh, result.Severity)
	assert.Len(t, result.EvidenceSnippets, 2)
}

func TestExecute_QueryPrometheus_DownsamplesLongSeries(t *testing.T) {
	exec, _, ts, _ := newTestExecutor()
	points := make([]TimeSeriesPoint, 500)
	for i := range points {
		points[i] = TimeSeriesPoint{Timestamp: float64(i), Value: float64(i % 7)}
	}
	ts.Results = []TimeSeriesResult{{Metric: map[string]string{"pod": "auth"}, Values: points}}

	result := exec.Execute(context.Background(), IntentQueryPrometheus, Params{"query": "up"})
	require.True(t, result.Success)
	assert.Equal(t, true, result.Metadata["truncated"])
}

func TestExecute_QueryPrometheus_DomainFromPayload(t *testing.T) {
	exec, _, ts, _ := newTestExecutor()
	ts.Results = nil
	result := exec.Execute(context.Background(), IntentQueryPrometheus, Params{"query": "coredns_dns_request_count"})
	assert.Equal(t, evidence.DomainNetwork, result.Domain)
}

func TestExecute_CheckPodStatus_MissingNamespace(t *testing.T) {
	exec, _, _, _ := newTestExecutor()
	result := exec.Execute(context.Background(), IntentCheckPodStatus, Params{"pod": "auth"})
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "missing: namespace")
}

func TestExecute_GetEvents_WarningsRaiseSeverity(t *testing.T) {
	exec, k8s, _, _ := newTestExecutor()
	k8s.EventsOf["prod"] = []EventRecord{
		{Type: "Normal", Reason: "Scheduled", Message: "scheduled"},
		{Type: "Warning", Reason: "BackOff", Message: "back-off restarting", Involved: "pod/auth-5b6q"},
	}
	result := exec.Execute(context.Background(), IntentGetEvents, Params{"namespace": "prod"})
	require.True(t, result.Success)
	assert.Equal(t, evidence.SeverityMedium, result.Severity)
	assert.Len(t, result.EvidenceSnippets, 1)
}

func TestExecute_ReInvestigateService_IsStub(t *testing.T) {
	exec, _, _, _ := newTestExecutor()
	result := exec.Execute(context.Background(), IntentReInvestigateService, Params{})
	assert.False(t, result.Success)
}

func TestExecute_UnknownIntent(t *testing.T) {
	exec, _, _, _ := newTestExecutor()
	result := exec.Execute(context.Background(), Intent("bogus"), Params{})
	assert.False(t, result.Success)
}

func TestExecute_SearchLogs_ClassifiesAndClampsSinceMinutes(t *testing.T) {
	exec, _, _, logIndex := newTestExecutor()
	logIndex.Lines = []string{"request timeout after 30s"}

	result := exec.Execute(context.Background(), IntentSearchLogs, Params{"query": "apiserver", "since_minutes": 999999})
	require.True(t, result.Success)
	assert.Equal(t, 1440, result.Metadata["since_minutes"])
	assert.Equal(t, evidence.DomainControlPlane, result.Domain)
	assert.Equal(t, evidence.SeverityMedium, result.Severity)
}
