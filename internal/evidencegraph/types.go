// Package evidencegraph builds the per-session Evidence Graph and its
// derived timeline: evidence pins become nodes, Critic-adjudicated causal
// relationships become edges, and root-cause identification and timeline
// construction are pure functions over that structure (SPEC_FULL §4.12).
package evidencegraph

import (
	"time"

	"github.com/hashicorp/go-version"
	"github.com/inder1991/cluster-incident-agent/internal/evidence"
)

// SchemaVersion mirrors causal_paths.AlgorithmVersion: it names the
// evidence-graph schema of this build. The store does not write it onto
// persisted graphs; SchemaVersionSupported checks a version string that a
// caller supplies.
const SchemaVersion = "v1.0-evidencegraph"

// schemaVersion is parsed once so SchemaVersionSupported callers don't pay
// the parse cost per call.
var schemaVersion = version.Must(version.NewVersion("1.0.0"))

// SchemaVersionSupported reports whether a graph stamped with stored can
// still be read by this build. Only a major-version bump is considered
// incompatible.
func SchemaVersionSupported(stored string) bool {
	storedVer, err := version.NewVersion(stored)
	if err != nil {
		return false
	}
	return storedVer.Segments()[0] == schemaVersion.Segments()[0]
}

// NodeType classifies an EvidenceNode's place in the causal narrative.
type NodeType string

const (
	NodeTypeSymptom            NodeType = "symptom"
	NodeTypeCause              NodeType = "cause"
	NodeTypeContributingFactor NodeType = "contributing_factor"
	NodeTypeContext            NodeType = "context"
)

// Relationship classifies a CausalEdge.
type Relationship string

const (
	RelationshipCauses        Relationship = "causes"
	RelationshipCorrelates    Relationship = "correlates"
	RelationshipPrecedes      Relationship = "precedes"
	RelationshipContributesTo Relationship = "contributes_to"
)

// EvidenceNode wraps one EvidencePin with its place in the causal graph.
type EvidenceNode struct {
	ID       string
	Pin      evidence.EvidencePin
	NodeType NodeType
}

// CausalEdge is a directed, confidence-scored causal relationship between
// two EvidenceNodes, identified by node ID.
type CausalEdge struct {
	From         string
	To           string
	Relationship Relationship
	Confidence   float64
	Reasoning    string
}

// TimelineEvent is one entry of build_timeline()'s output.
type TimelineEvent struct {
	NodeID    string
	Timestamp time.Time
	Severity  string
	Summary   string
}

const (
	severityError = "error"
	severityInfo  = "info"
)
