// Package session implements the per-diagnostic-session lifecycle: the
// Session Manager's session/supervisor/executor/router bookkeeping and TTL
// sweeper, and the EventEmitter's append-then-fanout task event log
// (SPEC_FULL §3.3, §4.13).
package session

import "time"

// DefaultTTL is SESSION_TTL: a session lives at most this long before the
// sweeper reclaims it.
const DefaultTTL = 24 * time.Hour

// DefaultCleanupInterval is SESSION_CLEANUP_INTERVAL: how often the sweeper
// runs.
const DefaultCleanupInterval = 5 * time.Minute

// Session is the bookkeeping record the Manager keeps per diagnostic
// session. The diagnosis state itself lives in *supervisor.State, tracked
// alongside it in the Manager's entry, not duplicated here.
type Session struct {
	ID             string
	ServiceName    string
	TraceID        string
	Namespace      string
	RepoURL        string
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// TokenUsage is one LLM call's token accounting, attributed to an agent
// (SPEC_FULL §3.1A). TotalTokens is always InputTokens+OutputTokens; use
// NewTokenUsage rather than constructing the struct directly so that
// invariant can't be violated.
type TokenUsage struct {
	AgentName    string
	InputTokens  int
	OutputTokens int
	TotalTokens  int
	RecordedAt   time.Time
}

// NewTokenUsage builds a TokenUsage with TotalTokens derived from input and
// output, per the §3.1A validation invariant.
func NewTokenUsage(agentName string, inputTokens, outputTokens int, recordedAt time.Time) TokenUsage {
	return TokenUsage{
		AgentName:    agentName,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		TotalTokens:  inputTokens + outputTokens,
		RecordedAt:   recordedAt,
	}
}

// TokenTotals aggregates token counts across one or more calls.
type TokenTotals struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

func (t *TokenTotals) add(u TokenUsage) {
	t.InputTokens += u.InputTokens
	t.OutputTokens += u.OutputTokens
	t.TotalTokens += u.TotalTokens
}

// SessionTokenSummary is the per-session aggregation surfaced at
// GET /session/{id}/status (SPEC_FULL §6.2, §3.1A).
type SessionTokenSummary struct {
	ByAgent map[string]TokenTotals
	Total   TokenTotals
}

func newSessionTokenSummary() SessionTokenSummary {
	return SessionTokenSummary{ByAgent: make(map[string]TokenTotals)}
}
