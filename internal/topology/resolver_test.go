package topology

import (
	"context"
	"errors"
	"testing"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_BuildsFreshOnFirstCall(t *testing.T) {
	fake := &FakeClusterClient{Snapshot: clustermodel.TopologySnapshot{
		Nodes: map[string]clustermodel.TopologyNode{"node/worker-1": {Kind: "node", Name: "worker-1"}},
	}}
	resolver := NewResolver(fake)

	snap, freshness, err := resolver.Resolve(context.Background(), "session-1")
	require.NoError(t, err)
	assert.False(t, freshness.Stale)
	assert.Len(t, snap.Nodes, 1)
}

func TestResolver_CacheHitOnSecondCall(t *testing.T) {
	calls := 0
	fake := &countingClient{snapshot: clustermodel.TopologySnapshot{Nodes: map[string]clustermodel.TopologyNode{}}, calls: &calls}
	resolver := NewResolver(fake)

	_, _, err := resolver.Resolve(context.Background(), "session-1")
	require.NoError(t, err)
	_, _, err = resolver.Resolve(context.Background(), "session-1")
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "second resolve within TTL must hit cache, not rebuild")
}

func TestResolver_ClearCache_ForcesRebuild(t *testing.T) {
	calls := 0
	fake := &countingClient{snapshot: clustermodel.TopologySnapshot{Nodes: map[string]clustermodel.TopologyNode{}}, calls: &calls}
	resolver := NewResolver(fake)

	_, _, _ = resolver.Resolve(context.Background(), "session-1")
	resolver.ClearCache("session-1")
	_, _, _ = resolver.Resolve(context.Background(), "session-1")

	assert.Equal(t, 2, calls)
}

func TestResolver_NoClient_ReturnsStaleEmptySnapshot(t *testing.T) {
	resolver := NewResolver(nil)
	snap, freshness, err := resolver.Resolve(context.Background(), "session-1")
	require.NoError(t, err)
	assert.True(t, freshness.Stale)
	assert.True(t, snap.Stale)
}

func TestResolver_ClientError_Propagates(t *testing.T) {
	fake := &FakeClusterClient{Err: errors.New("api unreachable")}
	resolver := NewResolver(fake)
	_, _, err := resolver.Resolve(context.Background(), "session-1")
	assert.Error(t, err)
}

type countingClient struct {
	snapshot clustermodel.TopologySnapshot
	calls    *int
}

func (c *countingClient) BuildTopologySnapshot(ctx context.Context) (clustermodel.TopologySnapshot, error) {
	*c.calls++
	return c.snapshot, nil
}
