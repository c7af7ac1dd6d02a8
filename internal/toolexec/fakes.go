package toolexec

import (
	"context"
	"errors"
	"time"
)

// FakeK8sReadClient is an in-memory K8sReadClient for tests and the
// mock/demo CLI commands (SPEC_FULL §6.1 — concrete cluster clients are out
// of scope, so tests exercise the executor against this fake).
type FakeK8sReadClient struct {
	Logs      map[string]string // key: namespace/pod/container
	Resources map[string]ResourceDescription
	Statuses  map[string]PodStatus
	EventsOf  map[string][]EventRecord
	Err       error
}

func NewFakeK8sReadClient() *FakeK8sReadClient {
	return &FakeK8sReadClient{
		Logs:      make(map[string]string),
		Resources: make(map[string]ResourceDescription),
		Statuses:  make(map[string]PodStatus),
		EventsOf:  make(map[string][]EventRecord),
	}
}

func (f *FakeK8sReadClient) PodLogs(ctx context.Context, namespace, pod, container string, tailLines int, previous bool) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	key := namespace + "/" + pod + "/" + container
	if text, ok := f.Logs[key]; ok {
		return text, nil
	}
	key = namespace + "/" + pod + "/"
	if text, ok := f.Logs[key]; ok {
		return text, nil
	}
	return "", errNotFound(pod)
}

func (f *FakeK8sReadClient) GetResource(ctx context.Context, kind, namespace, name string) (ResourceDescription, error) {
	if f.Err != nil {
		return ResourceDescription{}, f.Err
	}
	key := kind + "/" + namespace + "/" + name
	if desc, ok := f.Resources[key]; ok {
		return desc, nil
	}
	return ResourceDescription{}, errNotFound(name)
}

func (f *FakeK8sReadClient) PodStatus(ctx context.Context, namespace, pod string) (PodStatus, error) {
	if f.Err != nil {
		return PodStatus{}, f.Err
	}
	key := namespace + "/" + pod
	if s, ok := f.Statuses[key]; ok {
		return s, nil
	}
	return PodStatus{}, errNotFound(pod)
}

func (f *FakeK8sReadClient) Events(ctx context.Context, namespace string) ([]EventRecord, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.EventsOf[namespace], nil
}

func errNotFound(name string) error { return errors.New("not found: " + name) }

// FakeTimeSeriesClient is an in-memory TimeSeriesClient.
type FakeTimeSeriesClient struct {
	Results []TimeSeriesResult
	Err     error
}

func (f *FakeTimeSeriesClient) QueryRange(ctx context.Context, query string, rangeMinutes int) ([]TimeSeriesResult, error) {
	return f.Results, f.Err
}

// FakeLogIndexClient is an in-memory LogIndexClient.
type FakeLogIndexClient struct {
	Lines []string
	Err   error
}

func (f *FakeLogIndexClient) Search(ctx context.Context, query string, sinceMinutes int) ([]string, error) {
	return f.Lines, f.Err
}

// FakeTracingClient is an in-memory TracingClient.
type FakeTracingClient struct {
	Services []string
	Traces   map[string]string
}

func (f *FakeTracingClient) ListServices(ctx context.Context) ([]string, error) { return f.Services, nil }
func (f *FakeTracingClient) GetTrace(ctx context.Context, traceID string) (string, error) {
	if t, ok := f.Traces[traceID]; ok {
		return t, nil
	}
	return "", errNotFound(traceID)
}

// FakeSourceHostClient is an in-memory SourceHostClient.
type FakeSourceHostClient struct {
	Commits []string
}

func (f *FakeSourceHostClient) CommitsSince(ctx context.Context, since time.Time) ([]string, error) {
	return f.Commits, nil
}
