package toolexec

import (
	"context"
	"time"
)

// TimeSeriesPoint is one (timestamp, value) sample of a metric series.
type TimeSeriesPoint struct {
	Timestamp float64
	Value     float64
}

// TimeSeriesResult is one labeled series returned by a range query.
type TimeSeriesResult struct {
	Metric map[string]string
	Values []TimeSeriesPoint
}

// TimeSeriesClient is the out-of-scope time-series DB, specified only at
// this interface boundary (SPEC_FULL §6.1).
type TimeSeriesClient interface {
	QueryRange(ctx context.Context, query string, rangeMinutes int) ([]TimeSeriesResult, error)
}

// LogIndexClient is the out-of-scope log index, specified only at this
// interface boundary (SPEC_FULL §6.1).
type LogIndexClient interface {
	Search(ctx context.Context, query string, sinceMinutes int) ([]string, error)
}

// ContainerStatus mirrors the subset of a pod's container status this core
// inspects for issue signals.
type ContainerStatus struct {
	Name             string
	Ready            bool
	WaitingReason    string
	TerminatedReason string
	ExitCode         int32
}

// PodStatus is the subset of Kubernetes pod status this core inspects.
type PodStatus struct {
	Phase      string
	Containers []ContainerStatus
}

// EventRecord is one Kubernetes event.
type EventRecord struct {
	Type      string
	Reason    string
	Message   string
	Timestamp time.Time
	Involved  string // "<kind>/<name>"
}

// K8sReadClient is the out-of-scope cluster API client, specified only at
// this interface boundary (SPEC_FULL §6.1). The live implementation in
// internal/topology covers topology listing; this interface covers the
// narrower per-resource reads the Tool Executor issues.
type K8sReadClient interface {
	PodLogs(ctx context.Context, namespace, pod, container string, tailLines int, previous bool) (string, error)
	GetResource(ctx context.Context, kind, namespace, name string) (ResourceDescription, error)
	PodStatus(ctx context.Context, namespace, pod string) (PodStatus, error)
	Events(ctx context.Context, namespace string) ([]EventRecord, error)
}

// ResourceDescription is a generic described resource: a YAML-ish text
// rendering plus structured signals the classifier inspects.
type ResourceDescription struct {
	RawText string
	Pod     *PodStatus // populated only when kind == "pod"
	Name    string
}

// TracingClient is the out-of-scope tracing backend, specified only at this
// interface boundary (SPEC_FULL §6.1).
type TracingClient interface {
	ListServices(ctx context.Context) ([]string, error)
	GetTrace(ctx context.Context, traceID string) (string, error)
}

// SourceHostClient is the out-of-scope source host, specified only at this
// interface boundary (SPEC_FULL §6.1).
type SourceHostClient interface {
	CommitsSince(ctx context.Context, since time.Time) ([]string, error)
}
