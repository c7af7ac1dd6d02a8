// Package causal implements the Causal Invariants registry and the
// two-tier Causal Firewall that shapes the candidate link set handed to
// the synthesizer's LLM reasoning stage.
package causal

// Invariant is a hard-block rule: a (from_kind, to_kind) direction that can
// never be a real causal mechanism in this topology.
type Invariant struct {
	ID          string
	FromKind    string
	ToKind      string
	Description string
}

// hardBlocks is the closed table ported from the original cluster agent's
// causal_invariants module.
var hardBlocks = []Invariant{
	{ID: "INV-CP-001", FromKind: "pod", ToKind: "etcd", Description: "Pods never directly cause etcd failures"},
	{ID: "INV-CP-002", FromKind: "service", ToKind: "node", Description: "Services do not cause node-level failures"},
	{ID: "INV-CP-003", FromKind: "namespace", ToKind: "control_plane", Description: "Namespace state cannot cause control-plane failures"},
	{ID: "INV-CP-004", FromKind: "pvc", ToKind: "api_server", Description: "PVC state cannot cause API server failures"},
	{ID: "INV-CP-005", FromKind: "ingress", ToKind: "etcd", Description: "Ingress state cannot cause etcd failures"},
	{ID: "INV-CP-006", FromKind: "pod", ToKind: "node", Description: "Pods do not cause node failures (direction is host to guest)"},
	{ID: "INV-CP-007", FromKind: "configmap", ToKind: "node", Description: "ConfigMap changes cannot cause node-level failures"},
	{ID: "INV-NET-001", FromKind: "pod", ToKind: "network_plugin", Description: "Pods cannot cause network plugin failures"},
	{ID: "INV-STG-001", FromKind: "pod", ToKind: "storage_class", Description: "Pods cannot cause storage class failures"},
	{ID: "INV-STG-002", FromKind: "deployment", ToKind: "pv", Description: "Deployments do not directly cause PV failures"},
}

// invariantIndex indexes hardBlocks by (from_kind, to_kind) for O(1) lookup.
var invariantIndex = func() map[[2]string]Invariant {
	idx := make(map[[2]string]Invariant, len(hardBlocks))
	for _, inv := range hardBlocks {
		idx[[2]string{inv.FromKind, inv.ToKind}] = inv
	}
	return idx
}()

// LookupHardBlock returns the invariant blocking fromKind->toKind, if any.
func LookupHardBlock(fromKind, toKind string) (Invariant, bool) {
	inv, ok := invariantIndex[[2]string{fromKind, toKind}]
	return inv, ok
}

// HardBlocks returns a copy of the closed hard-block table.
func HardBlocks() []Invariant {
	out := make([]Invariant, len(hardBlocks))
	copy(out, hardBlocks)
	return out
}

// SoftRule is a Tier 2 contextual annotation: it never blocks a link, it
// only hints a confidence adjustment for the LLM reasoning stage.
type SoftRule struct {
	ID             string
	Description    string
	ConfidenceHint float64
	Reason         string
}

// Soft rule ids, ported from causal_invariants.py.
const (
	SoftNodeTransient        = "SOFT-001"
	SoftPVCPendingHealthy    = "SOFT-002"
	SoftCrossNamespaceNoOwner = "SOFT-003"
	SoftIsolatedControlPlane = "SOFT-004"
)

var softRules = map[string]SoftRule{
	SoftNodeTransient: {
		ID: SoftNodeTransient, ConfidenceHint: 0.2,
		Description: "Node condition may be transient without corroborating cascade",
		Reason:      "node alert is transient with no observed cascading effects",
	},
	SoftPVCPendingHealthy: {
		ID: SoftPVCPendingHealthy, ConfidenceHint: 0.25,
		Description: "Storage backend healthy suggests a scheduling, not storage, issue",
		Reason:      "PVC pending but storage backend healthy",
	},
	SoftCrossNamespaceNoOwner: {
		ID: SoftCrossNamespaceNoOwner, ConfidenceHint: 0.3,
		Description: "Cross-namespace causality is unusual without a shared controller",
		Reason:      "alert pair spans different namespaces with no shared owner",
	},
	SoftIsolatedControlPlane: {
		ID: SoftIsolatedControlPlane, ConfidenceHint: 0.3,
		Description: "Isolated control-plane alert lacks corroborating workload impact",
		Reason:      "control-plane alert with no downstream workload alerts",
	},
}

// SoftRules returns a copy of the soft rule table.
func SoftRules() map[string]SoftRule {
	out := make(map[string]SoftRule, len(softRules))
	for k, v := range softRules {
		out[k] = v
	}
	return out
}
