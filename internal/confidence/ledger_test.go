package confidence

import (
	"testing"

	"github.com/inder1991/cluster-incident-agent/internal/evidence"
	"github.com/stretchr/testify/assert"
)

func TestWeightsSumToOne(t *testing.T) {
	sum := 0.25 + 0.30 + 0.20 + 0.15 + 0.05 + 0.05
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestWeightedFinal_Scenario_S5(t *testing.T) {
	l := NewLedger()
	l.AddPins([]evidence.EvidencePin{
		{EvidenceType: evidence.EvidenceTypeLog, Confidence: 0.8},
		{EvidenceType: evidence.EvidenceTypeMetric, Confidence: 0.9},
		{EvidenceType: evidence.EvidenceTypeTrace, Confidence: 0.7},
		{EvidenceType: evidence.EvidenceTypeK8sEvent, Confidence: 0.6},
		{EvidenceType: evidence.EvidenceTypeCode, Confidence: 0.5},
		{EvidenceType: evidence.EvidenceTypeChange, Confidence: 0.4},
	})

	assert.InDelta(t, 0.745, l.WeightedFinal(), 1e-9)

	l.SetCriticAdjustment(-0.1)
	assert.InDelta(t, 0.645, l.WeightedFinal(), 1e-9)
}

func TestWeightedFinal_ZeroPins(t *testing.T) {
	l := NewLedger()
	assert.Equal(t, 0.0, l.WeightedFinal())

	l.SetCriticAdjustment(0.1)
	assert.InDelta(t, 0.1, l.WeightedFinal(), 1e-9)
}

func TestWeightedFinal_ClampedToUnitInterval(t *testing.T) {
	l := NewLedger()
	l.AddPins([]evidence.EvidencePin{
		{EvidenceType: evidence.EvidenceTypeLog, Confidence: 1.0},
		{EvidenceType: evidence.EvidenceTypeMetric, Confidence: 1.0},
		{EvidenceType: evidence.EvidenceTypeTrace, Confidence: 1.0},
		{EvidenceType: evidence.EvidenceTypeK8sEvent, Confidence: 1.0},
		{EvidenceType: evidence.EvidenceTypeCode, Confidence: 1.0},
		{EvidenceType: evidence.EvidenceTypeChange, Confidence: 1.0},
	})
	l.SetCriticAdjustment(0.1)
	assert.Equal(t, 1.0, l.WeightedFinal())
}

func TestSetCriticAdjustment_Clamps(t *testing.T) {
	l := NewLedger()
	l.SetCriticAdjustment(-5)
	assert.Equal(t, minCriticAdjustment, l.CriticAdjustment())

	l.SetCriticAdjustment(5)
	assert.Equal(t, maxCriticAdjustment, l.CriticAdjustment())
}

func TestWeightedFinal_Idempotent(t *testing.T) {
	l := NewLedger()
	l.AddPins([]evidence.EvidencePin{{EvidenceType: evidence.EvidenceTypeLog, Confidence: 0.9}})
	first := l.WeightedFinal()
	second := l.WeightedFinal()
	assert.Equal(t, first, second)
}

func TestRunningMeanAcrossBatches(t *testing.T) {
	l := NewLedger()
	l.AddPins([]evidence.EvidencePin{{EvidenceType: evidence.EvidenceTypeLog, Confidence: 1.0}})
	l.AddPins([]evidence.EvidencePin{{EvidenceType: evidence.EvidenceTypeLog, Confidence: 0.0}})
	assert.InDelta(t, 0.5, l.PerSourceConfidence("log"), 1e-9)
}
