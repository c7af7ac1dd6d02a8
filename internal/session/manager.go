package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/inder1991/cluster-incident-agent/internal/logging"
	"github.com/inder1991/cluster-incident-agent/internal/supervisor"
	"github.com/inder1991/cluster-incident-agent/internal/toolexec"
)

var managerLogger = logging.GetLogger("session.manager")

// ManagerConfig configures a Manager's lifecycle policy.
type ManagerConfig struct {
	// TTL is SESSION_TTL. Zero means DefaultTTL.
	TTL time.Duration
	// CleanupInterval is SESSION_CLEANUP_INTERVAL. Zero means
	// DefaultCleanupInterval.
	CleanupInterval time.Duration
	// Clock lets tests control "now". Nil means time.Now.
	Clock func() time.Time
}

func (c ManagerConfig) ttl() time.Duration {
	if c.TTL <= 0 {
		return DefaultTTL
	}
	return c.TTL
}

func (c ManagerConfig) cleanupInterval() time.Duration {
	if c.CleanupInterval <= 0 {
		return DefaultCleanupInterval
	}
	return c.CleanupInterval
}

func (c ManagerConfig) now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock()
}

// entry is everything the Manager tracks for one session. All access to an
// entry's fields other than Session.LastAccessedAt must hold mu (SPEC_FULL
// §3.3: "all write access to its state must be inside the lock").
type entry struct {
	mu          sync.Mutex
	session     *Session
	supervisor  *supervisor.State
	executor    *toolexec.Executor
	router      interface{} // no dedicated investigation-router package yet
	tokenUsage  []TokenUsage
	cancelFuncs []context.CancelFunc
}

// Manager owns every live session's Session/Supervisor/ToolExecutor/router
// bookkeeping and sweeps expired sessions on a timer (SPEC_FULL §3.3,
// §4.13).
type Manager struct {
	config ManagerConfig

	mu       sync.Mutex
	sessions map[string]*entry

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewManager creates a Manager. The sweeper does not run until Start is
// called.
func NewManager(config ManagerConfig) *Manager {
	return &Manager{
		config:   config,
		sessions: make(map[string]*entry),
		stopCh:   make(chan struct{}),
	}
}

// ErrSessionExists is returned by CreateSession for a session_id already
// tracked.
var ErrSessionExists = fmt.Errorf("session: session already exists")

// ErrSessionNotFound is returned by accessors for an unknown or already-
// reclaimed session_id.
var ErrSessionNotFound = fmt.Errorf("session: session not found")

// CreateSession registers a new session and its Supervisor state.
func (m *Manager) CreateSession(sessionID, serviceName, traceID, namespace, repoURL string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[sessionID]; exists {
		return nil, ErrSessionExists
	}

	now := m.config.now()
	sess := &Session{
		ID:             sessionID,
		ServiceName:    serviceName,
		TraceID:        traceID,
		Namespace:      namespace,
		RepoURL:        repoURL,
		CreatedAt:      now,
		LastAccessedAt: now,
	}

	m.sessions[sessionID] = &entry{
		session:    sess,
		supervisor: supervisor.New(sessionID, serviceName, traceID, namespace, repoURL),
		tokenUsage: nil,
	}

	return sess, nil
}

func (m *Manager) lookup(sessionID string) (*entry, error) {
	m.mu.Lock()
	e, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

// Get returns a session's bookkeeping record and touches its last-accessed
// time.
func (m *Manager) Get(sessionID string) (*Session, error) {
	e, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.LastAccessedAt = m.config.now()
	return e.session, nil
}

// Supervisor returns a session's Supervisor state.
func (m *Manager) Supervisor(sessionID string) (*supervisor.State, error) {
	e, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.supervisor, nil
}

// SetExecutor attaches a session's Tool Executor.
func (m *Manager) SetExecutor(sessionID string, executor *toolexec.Executor) error {
	e, err := m.lookup(sessionID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.executor = executor
	return nil
}

// Executor returns a session's Tool Executor, if one has been attached.
func (m *Manager) Executor(sessionID string) (*toolexec.Executor, error) {
	e, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.executor, nil
}

// SetRouter attaches a session's investigation router.
func (m *Manager) SetRouter(sessionID string, router interface{}) error {
	e, err := m.lookup(sessionID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.router = router
	return nil
}

// Router returns a session's investigation router, if one has been
// attached.
func (m *Manager) Router(sessionID string) (interface{}, error) {
	e, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.router, nil
}

// RegisterTask tracks cancel as an in-flight critic or diagnosis task for a
// session, so the sweeper can cancel it on expiry.
func (m *Manager) RegisterTask(sessionID string, cancel context.CancelFunc) error {
	e, err := m.lookup(sessionID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelFuncs = append(e.cancelFuncs, cancel)
	return nil
}

// RecordTokenUsage attributes one LLM call's token usage to a session.
func (m *Manager) RecordTokenUsage(sessionID string, usage TokenUsage) error {
	e, err := m.lookup(sessionID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tokenUsage = append(e.tokenUsage, usage)
	return nil
}

// TokenSummary aggregates a session's recorded token usage by agent and in
// total, for GET /session/{id}/status.
func (m *Manager) TokenSummary(sessionID string) (SessionTokenSummary, error) {
	e, err := m.lookup(sessionID)
	if err != nil {
		return SessionTokenSummary{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	summary := newSessionTokenSummary()
	for _, u := range e.tokenUsage {
		totals := summary.ByAgent[u.AgentName]
		totals.add(u)
		summary.ByAgent[u.AgentName] = totals
		summary.Total.add(u)
	}
	return summary, nil
}

// Start launches the background sweeper. It runs until ctx is done or Stop
// is called.
func (m *Manager) Start(ctx context.Context) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.config.cleanupInterval())
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-m.stopCh:
				return
			case <-ticker.C:
				m.Sweep()
			}
		}
	}()
}

// Stop halts the sweeper and waits for it to exit.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
	m.wg.Wait()
}

// Sweep removes every session whose last access is older than TTL,
// cancelling its in-flight tasks first. Exposed directly so tests don't
// need to wait on the ticker.
func (m *Manager) Sweep() {
	cutoff := m.config.now().Add(-m.config.ttl())

	m.mu.Lock()
	expired := make(map[string]*entry)
	for id, e := range m.sessions {
		e.mu.Lock()
		lastAccessed := e.session.LastAccessedAt
		e.mu.Unlock()
		if lastAccessed.Before(cutoff) {
			expired[id] = e
		}
	}
	for id := range expired {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for id, e := range expired {
		e.mu.Lock()
		cancelFuncs := e.cancelFuncs
		e.cancelFuncs = nil
		e.mu.Unlock()

		for _, cancel := range cancelFuncs {
			cancel()
		}
		managerLogger.Info("session %s: expired, cancelled %d in-flight task(s)", id, len(cancelFuncs))
	}
}
