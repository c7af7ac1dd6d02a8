package evidencegraph

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/inder1991/cluster-incident-agent/internal/evidence"
	"github.com/inder1991/cluster-incident-agent/internal/logging"
)

var logger = logging.GetLogger("evidencegraph")

// Graph is the in-process Evidence Graph for one diagnostic session: an
// append-only set of EvidenceNodes and CausalEdges, plus the derived
// root-cause and timeline views (SPEC_FULL §4.12). Writes are mirrored to
// Store when one is configured; Store is optional so unit tests and
// short-lived sessions can run purely in memory.
type Graph struct {
	SessionID string
	Store     GraphStore

	mu         sync.Mutex
	nodes      []EvidenceNode
	edges      []CausalEdge
	rootCauses []string
}

// New creates an empty Evidence Graph for a session. store may be nil, in
// which case the graph is purely in-process and nothing is persisted.
func New(sessionID string, store GraphStore) *Graph {
	return &Graph{SessionID: sessionID, Store: store}
}

// AddEvidence turns a pin into a node, assigns it a new unique node id, and
// appends it to the graph. Persist failures are logged but do not fail the
// call: the in-process graph is authoritative during a live session.
func (g *Graph) AddEvidence(ctx context.Context, pin evidence.EvidencePin, nodeType NodeType) string {
	node := EvidenceNode{ID: uuid.NewString(), Pin: pin, NodeType: nodeType}

	g.mu.Lock()
	g.nodes = append(g.nodes, node)
	g.mu.Unlock()

	if g.Store != nil {
		if err := g.Store.PersistNode(ctx, g.SessionID, node); err != nil {
			logger.Warn("session %s: failed to persist evidence node %s: %v", g.SessionID, node.ID, err)
		}
	}

	return node.ID
}

// AddCausalLink appends a directed causal edge between two node ids already
// present on the graph.
func (g *Graph) AddCausalLink(ctx context.Context, src, dst string, relationship Relationship, confidence float64, reasoning string) error {
	if !g.hasNode(src) || !g.hasNode(dst) {
		return fmt.Errorf("evidencegraph: unknown node in causal link %s -> %s", src, dst)
	}

	edge := CausalEdge{From: src, To: dst, Relationship: relationship, Confidence: confidence, Reasoning: reasoning}

	g.mu.Lock()
	g.edges = append(g.edges, edge)
	g.mu.Unlock()

	if g.Store != nil {
		if err := g.Store.PersistEdge(ctx, g.SessionID, edge); err != nil {
			logger.Warn("session %s: failed to persist causal edge %s -> %s: %v", g.SessionID, src, dst, err)
		}
	}

	return nil
}

func (g *Graph) hasNode(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, n := range g.nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

// IdentifyRootCauses finds every node that appears as a causal edge's
// source but never as its target, unioned with isolated nodes that have no
// incident edges at all (source or target). The result is stored on the
// graph and also returned.
func (g *Graph) IdentifyRootCauses() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	isSource := make(map[string]bool)
	isTarget := make(map[string]bool)
	for _, e := range g.edges {
		isSource[e.From] = true
		isTarget[e.To] = true
	}

	var roots []string
	for _, n := range g.nodes {
		hasAnyEdge := isSource[n.ID] || isTarget[n.ID]
		isOnlySource := isSource[n.ID] && !isTarget[n.ID]
		if isOnlySource || !hasAnyEdge {
			roots = append(roots, n.ID)
		}
	}

	g.rootCauses = roots
	return roots
}

// RootCauses returns the result of the most recent IdentifyRootCauses call.
func (g *Graph) RootCauses() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.rootCauses...)
}

// BuildTimeline returns every node's evidence as a chronologically ordered
// timeline event. Severity is "error" for cause/symptom nodes, "info"
// otherwise.
func (g *Graph) BuildTimeline() []TimelineEvent {
	g.mu.Lock()
	nodes := append([]EvidenceNode(nil), g.nodes...)
	g.mu.Unlock()

	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Pin.Timestamp.Before(nodes[j].Pin.Timestamp)
	})

	events := make([]TimelineEvent, 0, len(nodes))
	for _, n := range nodes {
		severity := severityInfo
		if n.NodeType == NodeTypeCause || n.NodeType == NodeTypeSymptom {
			severity = severityError
		}
		events = append(events, TimelineEvent{
			NodeID:    n.ID,
			Timestamp: n.Pin.Timestamp,
			Severity:  severity,
			Summary:   n.Pin.Claim,
		})
	}

	return events
}

// Load replaces the in-process graph with whatever the configured Store has
// persisted for this session, e.g. to resume a session after a restart.
func (g *Graph) Load(ctx context.Context) error {
	if g.Store == nil {
		return fmt.Errorf("evidencegraph: no store configured for session %s", g.SessionID)
	}

	nodes, edges, err := g.Store.LoadGraph(ctx, g.SessionID)
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.nodes = nodes
	g.edges = edges
	g.mu.Unlock()

	return nil
}
