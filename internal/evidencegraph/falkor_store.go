package evidencegraph

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/inder1991/cluster-incident-agent/internal/graph"
)

// Node and edge labels used when persisting an EvidenceGraph through the
// shared FalkorDB client. Separate from graph.NodeType/graph.EdgeType (those
// model Kubernetes resource topology); evidence graphs get their own labels
// in the same backing graph, namespaced by session so sessions never collide.
const (
	falkorNodeLabel graph.NodeType = "EvidenceNode"
	falkorEdgeLabel graph.EdgeType = "CAUSAL_LINK"
)

// falkorStore persists an EvidenceGraph via internal/graph's FalkorDB
// client (graph.Client), which it is handed rather than opening a
// connection of its own.
type falkorStore struct {
	client graph.Client
}

// NewFalkorStore adapts an already-configured internal/graph.Client into a
// GraphStore for evidence graphs.
func NewFalkorStore(client graph.Client) GraphStore {
	return &falkorStore{client: client}
}

func (s *falkorStore) Connect(ctx context.Context) error { return s.client.Connect(ctx) }
func (s *falkorStore) Close() error                      { return s.client.Close() }

type persistedNode struct {
	UID       string `json:"uid"`
	SessionID string `json:"sessionId"`
	NodeID    string `json:"nodeId"`
	NodeType  string `json:"nodeType"`
	PinJSON   string `json:"pinJson"`
	Timestamp int64  `json:"timestamp"`
}

func (s *falkorStore) PersistNode(ctx context.Context, sessionID string, node EvidenceNode) error {
	pinJSON, err := json.Marshal(node.Pin)
	if err != nil {
		return fmt.Errorf("evidencegraph: marshal pin for node %s: %w", node.ID, err)
	}

	return s.client.CreateNode(ctx, falkorNodeLabel, persistedNode{
		UID:       sessionID + ":" + node.ID,
		SessionID: sessionID,
		NodeID:    node.ID,
		NodeType:  string(node.NodeType),
		PinJSON:   string(pinJSON),
		Timestamp: node.Pin.Timestamp.UnixNano(),
	})
}

type persistedEdge struct {
	Relationship string  `json:"relationship"`
	Confidence   float64 `json:"confidence"`
	Reasoning    string  `json:"reasoning"`
}

func (s *falkorStore) PersistEdge(ctx context.Context, sessionID string, edge CausalEdge) error {
	return s.client.CreateEdge(ctx, falkorEdgeLabel, sessionID+":"+edge.From, sessionID+":"+edge.To, persistedEdge{
		Relationship: string(edge.Relationship),
		Confidence:   edge.Confidence,
		Reasoning:    edge.Reasoning,
	})
}

// LoadGraph queries every EvidenceNode/CAUSAL_LINK belonging to a session
// back out of FalkorDB. Edge endpoints come back as the session-prefixed
// uid, so they're trimmed back to bare node IDs before returning.
func (s *falkorStore) LoadGraph(ctx context.Context, sessionID string) ([]EvidenceNode, []CausalEdge, error) {
	nodeResult, err := s.client.ExecuteQuery(ctx, graph.GraphQuery{
		Query:      "MATCH (n:EvidenceNode {sessionId: $sessionId}) RETURN n.nodeId, n.nodeType, n.pinJson",
		Parameters: map[string]interface{}{"sessionId": sessionID},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("evidencegraph: load nodes for session %s: %w", sessionID, err)
	}

	nodes := make([]EvidenceNode, 0, len(nodeResult.Rows))
	for _, row := range nodeResult.Rows {
		if len(row) < 3 {
			continue
		}
		nodeID, _ := row[0].(string)
		nodeType, _ := row[1].(string)
		pinJSON, _ := row[2].(string)

		var node EvidenceNode
		if err := json.Unmarshal([]byte(pinJSON), &node.Pin); err != nil {
			return nil, nil, fmt.Errorf("evidencegraph: unmarshal pin for node %s: %w", nodeID, err)
		}
		node.ID = nodeID
		node.NodeType = NodeType(nodeType)
		nodes = append(nodes, node)
	}

	edgeResult, err := s.client.ExecuteQuery(ctx, graph.GraphQuery{
		Query: "MATCH (a:EvidenceNode {sessionId: $sessionId})-[r:CAUSAL_LINK]->(b:EvidenceNode {sessionId: $sessionId}) " +
			"RETURN a.nodeId, b.nodeId, r.relationship, r.confidence, r.reasoning",
		Parameters: map[string]interface{}{"sessionId": sessionID},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("evidencegraph: load edges for session %s: %w", sessionID, err)
	}

	edges := make([]CausalEdge, 0, len(edgeResult.Rows))
	for _, row := range edgeResult.Rows {
		if len(row) < 5 {
			continue
		}
		from, _ := row[0].(string)
		to, _ := row[1].(string)
		relationship, _ := row[2].(string)
		confidence, _ := row[3].(float64)
		reasoning, _ := row[4].(string)

		edges = append(edges, CausalEdge{
			From:         from,
			To:           to,
			Relationship: Relationship(relationship),
			Confidence:   confidence,
			Reasoning:    reasoning,
		})
	}

	return nodes, edges, nil
}
