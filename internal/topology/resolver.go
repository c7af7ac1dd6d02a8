package topology

import (
	"context"
	"sync"
	"time"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
	"github.com/inder1991/cluster-incident-agent/internal/logging"
)

// TTL is the lifetime of a cached topology snapshot (SPEC_FULL §4.5),
// carried over from the original's topology_snapshot_resolver.
const TTL = 300 * time.Second

type cacheEntry struct {
	snapshot clustermodel.TopologySnapshot
	cachedAt time.Time
}

// Resolver builds or serves a cached TopologySnapshot per session. All
// cache reads and writes go through a single mutex-guarded map operation
// (never a read-then-write pair across two lock acquisitions) so a
// concurrent session-expiry invalidation can never race a build-and-store,
// per the original's cache comment.
type Resolver struct {
	mu     sync.Mutex
	cache  map[string]cacheEntry
	client ClusterClient
	logger *logging.Logger
}

// NewResolver builds a Resolver backed by the given ClusterClient.
func NewResolver(client ClusterClient) *Resolver {
	return &Resolver{
		cache:  make(map[string]cacheEntry),
		client: client,
		logger: logging.GetLogger("topology"),
	}
}

// Freshness describes whether a resolved snapshot came from cache.
type Freshness struct {
	BuiltAt time.Time
	Stale   bool
}

// Resolve returns the cached snapshot for sessionID if it is younger than
// TTL, else builds a fresh one via the ClusterClient and caches it.
func (r *Resolver) Resolve(ctx context.Context, sessionID string) (clustermodel.TopologySnapshot, Freshness, error) {
	if r.client == nil {
		r.logger.Warn("no cluster client configured, returning stale empty topology")
		return clustermodel.TopologySnapshot{Stale: true}, Freshness{Stale: true}, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.cache[sessionID]

	if ok && time.Since(entry.cachedAt) < TTL {
		r.logger.Info("topology cache hit: session=%s nodes=%d", sessionID, len(entry.snapshot.Nodes))
		return entry.snapshot, Freshness{BuiltAt: entry.snapshot.BuiltAt, Stale: false}, nil
	}

	snapshot, err := r.client.BuildTopologySnapshot(ctx)
	if err != nil {
		return clustermodel.TopologySnapshot{}, Freshness{}, err
	}
	snapshot.BuiltAt = now()

	r.cache[sessionID] = cacheEntry{snapshot: snapshot, cachedAt: time.Now()}

	r.logger.Info("topology built fresh: session=%s nodes=%d edges=%d", sessionID, len(snapshot.Nodes), len(snapshot.Edges))
	return snapshot, Freshness{BuiltAt: snapshot.BuiltAt, Stale: false}, nil
}

// ClearCache evicts a session's cached snapshot, called on session cleanup.
func (r *Resolver) ClearCache(sessionID string) {
	r.mu.Lock()
	delete(r.cache, sessionID)
	r.mu.Unlock()
}

func now() time.Time { return time.Now() }
