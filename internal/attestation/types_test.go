package attestation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGate_StartsUndecided(t *testing.T) {
	g := NewGate("session-1", GatePreRemediation, "evidence summary", "restart the deployment", time.Now())
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, Decision(""), g.Decision)
}

func TestDecide_RecordsDecisionOnce(t *testing.T) {
	g := NewGate("session-1", GatePreRemediation, "summary", "action", time.Now())

	now := time.Now()
	require.NoError(t, g.Decide(DecisionApprove, "oncall", "looks right", now))

	assert.Equal(t, DecisionApprove, g.Decision)
	assert.Equal(t, "oncall", g.DecidedBy)
	assert.Equal(t, now, g.Timestamp)
}

func TestDecide_RejectsASecondDecision(t *testing.T) {
	g := NewGate("session-1", GatePreRemediation, "summary", "action", time.Now())
	require.NoError(t, g.Decide(DecisionApprove, "oncall", "", time.Now()))

	err := g.Decide(DecisionReject, "oncall", "changed my mind", time.Now())
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestDecide_RejectsInvalidDecisionValue(t *testing.T) {
	g := NewGate("session-1", GatePreRemediation, "summary", "action", time.Now())
	err := g.Decide(Decision("maybe"), "oncall", "", time.Now())
	assert.ErrorIs(t, err, ErrInvalidDecision)
}
