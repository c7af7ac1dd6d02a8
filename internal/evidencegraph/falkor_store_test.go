package evidencegraph

import (
	"context"
	"testing"
	"time"

	"github.com/inder1991/cluster-incident-agent/internal/evidence"
	"github.com/inder1991/cluster-incident-agent/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGraphClient is a minimal graph.Client fake that records calls in
// place of the FalkorDB client.
type fakeGraphClient struct {
	createdNodes []struct {
		NodeType   graph.NodeType
		Properties interface{}
	}
	createdEdges []struct {
		EdgeType          graph.EdgeType
		FromUID, ToUID    string
		Properties        interface{}
	}
	queryResults map[string]*graph.QueryResult
}

func (f *fakeGraphClient) Connect(ctx context.Context) error { return nil }
func (f *fakeGraphClient) Close() error                      { return nil }
func (f *fakeGraphClient) Ping(ctx context.Context) error     { return nil }

func (f *fakeGraphClient) CreateNode(ctx context.Context, nodeType graph.NodeType, properties interface{}) error {
	f.createdNodes = append(f.createdNodes, struct {
		NodeType   graph.NodeType
		Properties interface{}
	}{nodeType, properties})
	return nil
}

func (f *fakeGraphClient) CreateEdge(ctx context.Context, edgeType graph.EdgeType, fromUID, toUID string, properties interface{}) error {
	f.createdEdges = append(f.createdEdges, struct {
		EdgeType       graph.EdgeType
		FromUID, ToUID string
		Properties     interface{}
	}{edgeType, fromUID, toUID, properties})
	return nil
}

func (f *fakeGraphClient) GetNode(ctx context.Context, nodeType graph.NodeType, uid string) (*graph.Node, error) {
	return nil, nil
}

func (f *fakeGraphClient) DeleteNodesByTimestamp(ctx context.Context, nodeType graph.NodeType, timestampField string, cutoffNs int64) (int, error) {
	return 0, nil
}

func (f *fakeGraphClient) GetGraphStats(ctx context.Context) (*graph.GraphStats, error) {
	return &graph.GraphStats{}, nil
}

func (f *fakeGraphClient) InitializeSchema(ctx context.Context) error { return nil }
func (f *fakeGraphClient) DeleteGraph(ctx context.Context) error      { return nil }

func (f *fakeGraphClient) ExecuteQuery(ctx context.Context, query graph.GraphQuery) (*graph.QueryResult, error) {
	if result, ok := f.queryResults[query.Query]; ok {
		return result, nil
	}
	return &graph.QueryResult{}, nil
}

func TestFalkorStore_PersistNode_CreatesNodeWithSessionPrefixedUID(t *testing.T) {
	client := &fakeGraphClient{}
	store := NewFalkorStore(client)

	node := EvidenceNode{ID: "node-1", NodeType: NodeTypeCause, Pin: evidence.EvidencePin{Claim: "oom", Timestamp: time.Now()}}
	require.NoError(t, store.PersistNode(context.Background(), "session-1", node))

	require.Len(t, client.createdNodes, 1)
	assert.Equal(t, falkorNodeLabel, client.createdNodes[0].NodeType)
	props, ok := client.createdNodes[0].Properties.(persistedNode)
	require.True(t, ok)
	assert.Equal(t, "session-1:node-1", props.UID)
	assert.Equal(t, "session-1", props.SessionID)
}

func TestFalkorStore_PersistEdge_CreatesEdgeBetweenPrefixedUIDs(t *testing.T) {
	client := &fakeGraphClient{}
	store := NewFalkorStore(client)

	edge := CausalEdge{From: "a", To: "b", Relationship: RelationshipCauses, Confidence: 0.9, Reasoning: "x"}
	require.NoError(t, store.PersistEdge(context.Background(), "session-1", edge))

	require.Len(t, client.createdEdges, 1)
	assert.Equal(t, falkorEdgeLabel, client.createdEdges[0].EdgeType)
	assert.Equal(t, "session-1:a", client.createdEdges[0].FromUID)
	assert.Equal(t, "session-1:b", client.createdEdges[0].ToUID)
}
