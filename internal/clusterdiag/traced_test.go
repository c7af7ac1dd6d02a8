package clusterdiag

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracedNode_Success_RecordsSuccessTrace(t *testing.T) {
	state := newGraphState("diag-1", "kubernetes", "1.29", "diagnostic", clustermodel.DiagnosticScope{}, nil)
	fn := tracedNode("test_node", time.Second, func(ctx context.Context, s *GraphState) error { return nil })

	err := fn(context.Background(), state)

	require.NoError(t, err)
	require.Len(t, state.Trace, 1)
	assert.Equal(t, "SUCCESS", state.Trace[0].Status)
}

func TestTracedNode_Timeout_RecordsFailedTimeoutTrace(t *testing.T) {
	state := newGraphState("diag-1", "kubernetes", "1.29", "diagnostic", clustermodel.DiagnosticScope{}, nil)
	fn := tracedNode("slow_node", 10*time.Millisecond, func(ctx context.Context, s *GraphState) error {
		time.Sleep(100 * time.Millisecond)
		return nil
	})

	err := fn(context.Background(), state)

	require.Error(t, err)
	require.Len(t, state.Trace, 1)
	assert.Equal(t, "FAILED", state.Trace[0].Status)
	assert.Equal(t, clustermodel.FailureReasonTimeout, state.Trace[0].FailureReason)
}

func TestTracedNode_Panic_RecordsFailedExceptionTrace(t *testing.T) {
	state := newGraphState("diag-1", "kubernetes", "1.29", "diagnostic", clustermodel.DiagnosticScope{}, nil)
	fn := tracedNode("panicky_node", time.Second, func(ctx context.Context, s *GraphState) error {
		panic("boom")
	})

	err := fn(context.Background(), state)

	require.Error(t, err)
	require.Len(t, state.Trace, 1)
	assert.Equal(t, "FAILED", state.Trace[0].Status)
	assert.Equal(t, clustermodel.FailureReasonException, state.Trace[0].FailureReason)
}

func TestTracedNode_Error_RecordsFailedExceptionTrace(t *testing.T) {
	state := newGraphState("diag-1", "kubernetes", "1.29", "diagnostic", clustermodel.DiagnosticScope{}, nil)
	fn := tracedNode("erroring_node", time.Second, func(ctx context.Context, s *GraphState) error {
		return errors.New("boom")
	})

	err := fn(context.Background(), state)

	require.Error(t, err)
	assert.Equal(t, clustermodel.FailureReasonException, state.Trace[0].FailureReason)
}
