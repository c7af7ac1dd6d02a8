package topology

import (
	"context"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
)

// FakeClusterClient is an in-memory ClusterClient for tests and the
// guard-mode CLI's dry-run path.
type FakeClusterClient struct {
	Snapshot clustermodel.TopologySnapshot
	Err      error
}

func (f *FakeClusterClient) BuildTopologySnapshot(ctx context.Context) (clustermodel.TopologySnapshot, error) {
	if f.Err != nil {
		return clustermodel.TopologySnapshot{}, f.Err
	}
	return f.Snapshot, nil
}
