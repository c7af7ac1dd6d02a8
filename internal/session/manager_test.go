package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCreateSession_RejectsDuplicateSessionID(t *testing.T) {
	m := NewManager(ManagerConfig{})
	_, err := m.CreateSession("s1", "checkout", "", "", "")
	require.NoError(t, err)

	_, err = m.CreateSession("s1", "checkout", "", "", "")
	assert.ErrorIs(t, err, ErrSessionExists)
}

func TestCreateSession_CreatesSupervisorState(t *testing.T) {
	m := NewManager(ManagerConfig{})
	_, err := m.CreateSession("s1", "checkout", "trace-1", "ns", "")
	require.NoError(t, err)

	state, err := m.Supervisor("s1")
	require.NoError(t, err)
	assert.Equal(t, "checkout", state.ServiceName)
	assert.Equal(t, "trace-1", state.TraceID)
}

func TestGet_UnknownSession_ReturnsNotFound(t *testing.T) {
	m := NewManager(ManagerConfig{})
	_, err := m.Get("does-not-exist")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestGet_TouchesLastAccessed(t *testing.T) {
	now := time.Now()
	clock := now
	m := NewManager(ManagerConfig{Clock: func() time.Time { return clock }})
	_, err := m.CreateSession("s1", "checkout", "", "", "")
	require.NoError(t, err)

	clock = now.Add(time.Hour)
	sess, err := m.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, clock, sess.LastAccessedAt)
}

func TestRecordTokenUsage_TokenSummary_AggregatesByAgentAndTotal(t *testing.T) {
	m := NewManager(ManagerConfig{})
	_, err := m.CreateSession("s1", "checkout", "", "", "")
	require.NoError(t, err)

	require.NoError(t, m.RecordTokenUsage("s1", NewTokenUsage("log_agent", 100, 50, time.Now())))
	require.NoError(t, m.RecordTokenUsage("s1", NewTokenUsage("log_agent", 10, 5, time.Now())))
	require.NoError(t, m.RecordTokenUsage("s1", NewTokenUsage("metrics_agent", 20, 20, time.Now())))

	summary, err := m.TokenSummary("s1")
	require.NoError(t, err)

	assert.Equal(t, TokenTotals{InputTokens: 110, OutputTokens: 55, TotalTokens: 165}, summary.ByAgent["log_agent"])
	assert.Equal(t, TokenTotals{InputTokens: 20, OutputTokens: 20, TotalTokens: 40}, summary.ByAgent["metrics_agent"])
	assert.Equal(t, TokenTotals{InputTokens: 130, OutputTokens: 75, TotalTokens: 205}, summary.Total)
}

func TestSweep_RemovesExpiredSessionsAndCancelsTasks(t *testing.T) {
	now := time.Now()
	clock := now
	m := NewManager(ManagerConfig{TTL: time.Hour, Clock: func() time.Time { return clock }})

	_, err := m.CreateSession("expiring", "checkout", "", "", "")
	require.NoError(t, err)

	cancelled := false
	_, cancel := context.WithCancel(context.Background())
	require.NoError(t, m.RegisterTask("expiring", func() { cancelled = true; cancel() }))

	clock = now.Add(2 * time.Hour)
	m.Sweep()

	assert.True(t, cancelled)
	_, err = m.Get("expiring")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSweep_KeepsSessionsWithinTTL(t *testing.T) {
	now := time.Now()
	clock := now
	m := NewManager(ManagerConfig{TTL: time.Hour, Clock: func() time.Time { return clock }})

	_, err := m.CreateSession("fresh", "checkout", "", "", "")
	require.NoError(t, err)

	clock = now.Add(30 * time.Minute)
	m.Sweep()

	_, err = m.Get("fresh")
	assert.NoError(t, err)
}

func TestSetExecutor_SetRouter_RoundTrip(t *testing.T) {
	m := NewManager(ManagerConfig{})
	_, err := m.CreateSession("s1", "checkout", "", "", "")
	require.NoError(t, err)

	require.NoError(t, m.SetRouter("s1", "router-handle"))
	router, err := m.Router("s1")
	require.NoError(t, err)
	assert.Equal(t, "router-handle", router)
}

func TestStartStop_SweeperRunsOnInterval(t *testing.T) {
	now := time.Now()
	clock := now
	m := NewManager(ManagerConfig{TTL: time.Millisecond, CleanupInterval: 5 * time.Millisecond, Clock: func() time.Time { return clock }})
	_, err := m.CreateSession("s1", "checkout", "", "", "")
	require.NoError(t, err)

	clock = now.Add(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)
	defer m.Stop()

	require.Eventually(t, func() bool {
		_, err := m.Get("s1")
		return err == ErrSessionNotFound
	}, time.Second, 5*time.Millisecond)
}
