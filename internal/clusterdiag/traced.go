package clusterdiag

import (
	"context"
	"fmt"
	"time"

	"github.com/inder1991/cluster-incident-agent/internal/clustermodel"
	"github.com/inder1991/cluster-incident-agent/internal/logging"
)

var logger = logging.GetLogger("clusterdiag")

// Graph-level wall-clock ceiling, per SPEC_FULL §4.9.
const GraphDeadline = 180 * time.Second

// Per-node timeout defaults, per SPEC_FULL §4.9.
const (
	timeoutTopology      = 30 * time.Second
	timeoutCorrelator    = 15 * time.Second
	timeoutFirewall      = 15 * time.Second
	timeoutCtrlPlane     = 30 * time.Second
	timeoutNode          = 45 * time.Second
	timeoutNetwork       = 45 * time.Second
	timeoutStorage       = 60 * time.Second
	timeoutSynthesize    = 60 * time.Second
	timeoutGuardFormat   = 15 * time.Second
)

// NodeFunc is one graph node: it reads and mutates the shared GraphState.
type NodeFunc func(ctx context.Context, state *GraphState) error

// tracedNode wraps fn with a per-node timeout and panic recovery, recording
// a TraceRecord into state.Trace either way. Mirrors traced_node.py's
// asyncio.wait_for + try/except shape: context.WithTimeout stands in for
// wait_for, and a completion channel lets a panicking fn be recovered
// without taking the whole graph down.
func tracedNode(name string, timeout time.Duration, fn NodeFunc) NodeFunc {
	return func(ctx context.Context, state *GraphState) error {
		nodeCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		start := time.Now()
		done := make(chan error, 1)

		go func() {
			defer func() {
				if r := recover(); r != nil {
					done <- fmt.Errorf("panic: %v", r)
				}
			}()
			done <- fn(nodeCtx, state)
		}()

		select {
		case <-nodeCtx.Done():
			detail := fmt.Sprintf("timed out after %s", timeout)
			state.appendTrace(TraceRecord{
				NodeName: name, Status: "FAILED",
				FailureReason: clustermodel.FailureReasonTimeout, FailureDetail: detail,
				DurationMs: durationMs(start),
			})
			logger.Warn("node %s timed out after %s", name, timeout)
			return nodeCtx.Err()
		case err := <-done:
			if err != nil {
				state.appendTrace(TraceRecord{
					NodeName: name, Status: "FAILED",
					FailureReason: clustermodel.FailureReasonException, FailureDetail: err.Error(),
					DurationMs: durationMs(start),
				})
				logger.Warn("node %s failed: %v", name, err)
				return err
			}
			state.appendTrace(TraceRecord{NodeName: name, Status: "SUCCESS", DurationMs: durationMs(start)})
			return nil
		}
	}
}
