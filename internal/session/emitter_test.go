package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	records []TaskEvent
	err     error
}

func (f *fakeSink) Record(sessionID string, event TaskEvent) error {
	f.records = append(f.records, event)
	return f.err
}

func TestEmit_AppendsToLogInOrder(t *testing.T) {
	e := NewEventEmitter(nil)

	e.Emit("s1", TaskEvent{EventType: EventTypeSessionStart, Timestamp: time.Now()})
	e.Emit("s1", TaskEvent{EventType: EventTypeAgentActivated, AgentName: "log_agent", Timestamp: time.Now()})

	log := e.Log("s1")
	require.Len(t, log, 2)
	assert.Equal(t, EventTypeSessionStart, log[0].EventType)
	assert.Equal(t, EventTypeAgentActivated, log[1].EventType)
}

func TestEmit_FansOutToSubscribers(t *testing.T) {
	e := NewEventEmitter(nil)
	var received []TaskEvent
	e.Subscribe("s1", func(ev TaskEvent) { received = append(received, ev) })

	e.Emit("s1", TaskEvent{EventType: EventTypeToolStart})

	require.Len(t, received, 1)
	assert.Equal(t, EventTypeToolStart, received[0].EventType)
}

func TestEmit_SubscriberPanicDoesNotPreventAppendOrOtherSubscribers(t *testing.T) {
	e := NewEventEmitter(nil)
	var secondCalled bool
	e.Subscribe("s1", func(ev TaskEvent) { panic("boom") })
	e.Subscribe("s1", func(ev TaskEvent) { secondCalled = true })

	assert.NotPanics(t, func() {
		e.Emit("s1", TaskEvent{EventType: EventTypeError})
	})

	assert.True(t, secondCalled)
	assert.Len(t, e.Log("s1"), 1)
}

func TestEmit_SinkErrorDoesNotPreventAppend(t *testing.T) {
	sink := &fakeSink{err: errors.New("disk full")}
	e := NewEventEmitter(sink)

	assert.NotPanics(t, func() {
		e.Emit("s1", TaskEvent{EventType: EventTypeSessionEnd})
	})

	assert.Len(t, e.Log("s1"), 1)
	assert.Len(t, sink.records, 1)
}

func TestForget_ClearsLogAndSubscribers(t *testing.T) {
	e := NewEventEmitter(nil)
	e.Subscribe("s1", func(ev TaskEvent) {})
	e.Emit("s1", TaskEvent{EventType: EventTypeSessionStart})

	e.Forget("s1")

	assert.Empty(t, e.Log("s1"))
}
