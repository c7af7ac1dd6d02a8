// Package audit defines the AuditEvent record shape and the AuditSink seam
// it writes through (SPEC_FULL §6.3). Audit log *persistence* is out of
// scope for this core — an embedded relational store is the transport's
// concern — so this package only specifies the record and two sinks: a
// no-op default and an in-memory one for tests, matching the teacher's own
// JSONL `audit` package shape for the record fields without adopting its
// file-backed writer.
package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one audit log entry: an entity mutation worth a compliance
// trail, distinct from internal/session's TaskEvent narrative stream.
type Event struct {
	ID         string
	Timestamp  time.Time
	EntityType string
	EntityID   string
	Action     string
	Actor      string
	Details    map[string]interface{}
}

// NewEvent builds an Event with a freshly generated id.
func NewEvent(entityType, entityID, action, actor string, details map[string]interface{}, now time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Timestamp:  now,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Actor:      actor,
		Details:    details,
	}
}

// Sink persists an Event. Satisfied by NoopSink by default and by
// MemorySink in tests; a relational-store-backed sink is the transport's
// concern.
type Sink interface {
	Record(event Event) error
}

// NoopSink discards every event. It's the default sink when no audit
// persistence is configured.
type NoopSink struct{}

// Record implements Sink.
func (NoopSink) Record(Event) error { return nil }

// MemorySink accumulates every recorded event in memory, for tests.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Record implements Sink.
func (s *MemorySink) Record(event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns every event recorded so far, in recording order.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}
