package domainagents

import "context"

// FakeClusterDataClient is an in-memory ClusterDataClient for tests.
type FakeClusterDataClient struct {
	Platform        string
	PlatformVersion string
	Nodes           QueryResult
	Pods            QueryResult
	Events          QueryResult
	PVCs            QueryResult
	Services        QueryResult
	Ingresses       QueryResult
	Operators       QueryResult
	APIHealth       map[string]interface{}
	Metrics         QueryResult
	Err             error
}

func (f *FakeClusterDataClient) DetectPlatform(ctx context.Context) (string, string, error) {
	return f.Platform, f.PlatformVersion, f.Err
}
func (f *FakeClusterDataClient) ListNodes(ctx context.Context) (QueryResult, error) {
	return f.Nodes, f.Err
}
func (f *FakeClusterDataClient) ListPods(ctx context.Context, namespace string) (QueryResult, error) {
	return f.Pods, f.Err
}
func (f *FakeClusterDataClient) ListEvents(ctx context.Context, namespace string) (QueryResult, error) {
	return f.Events, f.Err
}
func (f *FakeClusterDataClient) ListPVCs(ctx context.Context, namespace string) (QueryResult, error) {
	return f.PVCs, f.Err
}
func (f *FakeClusterDataClient) ListServices(ctx context.Context, namespace string) (QueryResult, error) {
	return f.Services, f.Err
}
func (f *FakeClusterDataClient) ListIngresses(ctx context.Context, namespace string) (QueryResult, error) {
	return f.Ingresses, f.Err
}
func (f *FakeClusterDataClient) GetClusterOperators(ctx context.Context) (QueryResult, error) {
	return f.Operators, f.Err
}
func (f *FakeClusterDataClient) GetAPIHealth(ctx context.Context) (map[string]interface{}, error) {
	return f.APIHealth, f.Err
}
func (f *FakeClusterDataClient) QueryPrometheus(ctx context.Context, query, timeRange string) (QueryResult, error) {
	return f.Metrics, f.Err
}
