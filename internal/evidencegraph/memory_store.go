package evidencegraph

import (
	"context"
	"sync"
)

// memoryStore is a GraphStore fake backed by process memory, for tests and
// for running without a FalkorDB instance available.
type memoryStore struct {
	mu    sync.Mutex
	nodes map[string][]EvidenceNode
	edges map[string][]CausalEdge
}

// NewMemoryStore returns an in-memory GraphStore fake.
func NewMemoryStore() GraphStore {
	return &memoryStore{
		nodes: make(map[string][]EvidenceNode),
		edges: make(map[string][]CausalEdge),
	}
}

func (s *memoryStore) Connect(ctx context.Context) error { return nil }
func (s *memoryStore) Close() error                      { return nil }

func (s *memoryStore) PersistNode(ctx context.Context, sessionID string, node EvidenceNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[sessionID] = append(s.nodes[sessionID], node)
	return nil
}

func (s *memoryStore) PersistEdge(ctx context.Context, sessionID string, edge CausalEdge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges[sessionID] = append(s.edges[sessionID], edge)
	return nil
}

func (s *memoryStore) LoadGraph(ctx context.Context, sessionID string) ([]EvidenceNode, []CausalEdge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nodes := make([]EvidenceNode, len(s.nodes[sessionID]))
	copy(nodes, s.nodes[sessionID])
	edges := make([]CausalEdge, len(s.edges[sessionID]))
	copy(edges, s.edges[sessionID])
	return nodes, edges, nil
}
