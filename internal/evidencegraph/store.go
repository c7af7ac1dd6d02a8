package evidencegraph

import "context"

// GraphStore is the durable backing store behind an in-process EvidenceGraph
// cache. It mirrors the write surface an EvidenceGraph needs from
// internal/graph's Client without requiring callers to depend on that
// package's Kubernetes-resource-shaped node/edge types.
type GraphStore interface {
	// Connect establishes the connection to the backing store.
	Connect(ctx context.Context) error

	// Close releases the connection.
	Close() error

	// PersistNode writes one EvidenceNode for a session.
	PersistNode(ctx context.Context, sessionID string, node EvidenceNode) error

	// PersistEdge writes one CausalEdge for a session.
	PersistEdge(ctx context.Context, sessionID string, edge CausalEdge) error

	// LoadGraph reads back every node and edge persisted for a session, in
	// the order they were written.
	LoadGraph(ctx context.Context, sessionID string) ([]EvidenceNode, []CausalEdge, error)
}
