package session

import (
	"sync"
	"time"

	"github.com/inder1991/cluster-incident-agent/internal/logging"
)

var emitterLogger = logging.GetLogger("session.emitter")

// EventType is a TaskEvent's kind. The vocabulary is ported from the
// teacher's audit.EventType, trimmed to the events SPEC_FULL §4.13
// explicitly names; the debug/verbose and LLM-metrics event types the
// teacher also defines aren't part of this surface.
type EventType string

const (
	EventTypeSessionStart      EventType = "session_start"
	EventTypeUserMessage       EventType = "user_message"
	EventTypeAgentActivated    EventType = "agent_activated"
	EventTypeToolStart         EventType = "tool_start"
	EventTypeToolComplete      EventType = "tool_complete"
	EventTypeAgentText         EventType = "agent_text"
	EventTypePipelineComplete EventType = "pipeline_complete"
	EventTypeError             EventType = "error"
	EventTypeSessionEnd        EventType = "session_end"
)

// TaskEvent is one entry of a session's ordered event log.
type TaskEvent struct {
	Timestamp time.Time
	AgentName string
	EventType EventType
	Message   string
	Details   map[string]interface{}
}

// Subscriber receives a session's events as they're emitted.
type Subscriber func(TaskEvent)

// AuditSink optionally persists emitted events; audit persistence itself is
// out of scope (DESIGN.md), so this is a pluggable seam rather than a
// built-in JSONL writer.
type AuditSink interface {
	Record(sessionID string, event TaskEvent) error
}

// EventEmitter holds a per-session ordered log of TaskEvents and fans each
// one out to subscribers and an optional AuditSink. Emit always appends to
// the log first; fanout is best-effort and never fails the call.
type EventEmitter struct {
	mu          sync.Mutex
	logs        map[string][]TaskEvent
	subscribers map[string][]Subscriber
	sink        AuditSink
}

// NewEventEmitter creates an EventEmitter. sink may be nil.
func NewEventEmitter(sink AuditSink) *EventEmitter {
	return &EventEmitter{
		logs:        make(map[string][]TaskEvent),
		subscribers: make(map[string][]Subscriber),
		sink:        sink,
	}
}

// Subscribe registers sub to receive every future event emitted for
// sessionID.
func (e *EventEmitter) Subscribe(sessionID string, sub Subscriber) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subscribers[sessionID] = append(e.subscribers[sessionID], sub)
}

// Emit appends event to sessionID's log, then attempts fanout to
// subscribers and the audit sink. A subscriber panic or a sink error is
// logged at WARN and never propagates to the caller.
func (e *EventEmitter) Emit(sessionID string, event TaskEvent) {
	e.mu.Lock()
	e.logs[sessionID] = append(e.logs[sessionID], event)
	subs := append([]Subscriber(nil), e.subscribers[sessionID]...)
	sink := e.sink
	e.mu.Unlock()

	for _, sub := range subs {
		e.deliver(sessionID, sub, event)
	}

	if sink != nil {
		if err := sink.Record(sessionID, event); err != nil {
			emitterLogger.Warn("session %s: audit sink failed to record %s event: %v", sessionID, event.EventType, err)
		}
	}
}

func (e *EventEmitter) deliver(sessionID string, sub Subscriber, event TaskEvent) {
	defer func() {
		if r := recover(); r != nil {
			emitterLogger.Warn("session %s: event subscriber panicked handling %s event: %v", sessionID, event.EventType, r)
		}
	}()
	sub(event)
}

// Log returns sessionID's event log, in emission order.
func (e *EventEmitter) Log(sessionID string) []TaskEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]TaskEvent(nil), e.logs[sessionID]...)
}

// Forget discards a session's log and subscribers. The Manager's sweeper
// does not call it; a reclaimed session's log stays until Forget is called.
func (e *EventEmitter) Forget(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.logs, sessionID)
	delete(e.subscribers, sessionID)
}
