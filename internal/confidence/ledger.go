// Package confidence implements the Confidence Ledger: per-source
// confidence tracking, fixed weights, and the critic-adjusted weighted
// aggregate.
package confidence

import "github.com/inder1991/cluster-incident-agent/internal/evidence"

// Weights are fixed per SPEC_FULL §4.3 and sum to exactly 1.0.
var Weights = map[evidence.EvidenceType]float64{
	evidence.EvidenceTypeLog:    0.25,
	evidence.EvidenceTypeMetric: 0.30,
	evidence.EvidenceTypeTrace:  0.20,
	// k8s_event and k8s_resource both roll up into the "k8s" source weight.
	evidence.EvidenceTypeK8sEvent:    0.15,
	evidence.EvidenceTypeK8sResource: 0.15,
	evidence.EvidenceTypeCode:        0.05,
	evidence.EvidenceTypeChange:      0.05,
}

// ledgerWeight returns the weight bucket an EvidenceType rolls into for the
// purpose of Σw_i, collapsing the two k8s evidence types into one "k8s"
// weight slot so the six named weights {log, metrics, tracing, k8s, code,
// change} still sum to 1.0.
func ledgerWeight(t evidence.EvidenceType) (key string, weight float64) {
	switch t {
	case evidence.EvidenceTypeLog:
		return "log", 0.25
	case evidence.EvidenceTypeMetric:
		return "metrics", 0.30
	case evidence.EvidenceTypeTrace:
		return "tracing", 0.20
	case evidence.EvidenceTypeK8sEvent, evidence.EvidenceTypeK8sResource:
		return "k8s", 0.15
	case evidence.EvidenceTypeCode:
		return "code", 0.05
	case evidence.EvidenceTypeChange:
		return "change", 0.05
	default:
		return "", 0
	}
}

const (
	minCriticAdjustment = -0.3
	maxCriticAdjustment = 0.1
)

// Ledger holds per-source running confidence means and the critic's bounded
// adjustment to the weighted aggregate.
type Ledger struct {
	meanByKey     map[string]float64
	countByKey    map[string]int
	criticAdjust  float64
}

// NewLedger returns an empty ledger with critic_adjustment at its default (0).
func NewLedger() *Ledger {
	return &Ledger{
		meanByKey:  make(map[string]float64),
		countByKey: make(map[string]int),
	}
}

// AddPins folds a batch of pins into the ledger's running per-type means.
func (l *Ledger) AddPins(pins []evidence.EvidencePin) {
	for _, p := range pins {
		key, w := ledgerWeight(p.EvidenceType)
		if w == 0 && key == "" {
			continue
		}
		n := l.countByKey[key]
		mean := l.meanByKey[key]
		// Incremental arithmetic mean: mean_{n+1} = mean_n + (x - mean_n)/(n+1)
		newMean := mean + (p.Confidence-mean)/float64(n+1)
		l.meanByKey[key] = newMean
		l.countByKey[key] = n + 1
	}
}

// SetCriticAdjustment sets critic_adjustment, clamped to [-0.3, 0.1].
func (l *Ledger) SetCriticAdjustment(v float64) {
	if v < minCriticAdjustment {
		v = minCriticAdjustment
	}
	if v > maxCriticAdjustment {
		v = maxCriticAdjustment
	}
	l.criticAdjust = v
}

// CriticAdjustment returns the current critic_adjustment.
func (l *Ledger) CriticAdjustment() float64 { return l.criticAdjust }

// PerSourceConfidence returns the current per-type running mean (0 if unseen).
func (l *Ledger) PerSourceConfidence(key string) float64 {
	return l.meanByKey[key]
}

// WeightedFinal computes weighted_final = clamp([0,1], Σ w_i·c_i + critic_adjustment).
// With zero pins every per-type mean is 0, so this reduces to
// clamp([0,1], critic_adjustment), matching the zero-pins boundary behavior.
func (l *Ledger) WeightedFinal() float64 {
	sum := 0.0
	sum += 0.25 * l.meanByKey["log"]
	sum += 0.30 * l.meanByKey["metrics"]
	sum += 0.20 * l.meanByKey["tracing"]
	sum += 0.15 * l.meanByKey["k8s"]
	sum += 0.05 * l.meanByKey["code"]
	sum += 0.05 * l.meanByKey["change"]
	sum += l.criticAdjust

	if sum < 0 {
		return 0
	}
	if sum > 1 {
		return 1
	}
	return sum
}
