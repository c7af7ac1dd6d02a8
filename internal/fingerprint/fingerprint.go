// Package fingerprint implements IncidentFingerprint similarity as a pure
// function (SPEC_FULL §6.3): no external storage is required to specify or
// test it, so it gets no interface seam, unlike the package's memory store.
package fingerprint

// IncidentFingerprint summarizes a resolved (or in-progress) incident for
// similarity matching against past incidents.
type IncidentFingerprint struct {
	ErrorPatterns      []string
	AffectedServices   []string
	SymptomCategories  []string
	RootCause          string
	ResolutionSteps    []string
	Success            bool
	TimeToResolveNanos int64
}

// NovelThreshold: an incident is novel when its highest similarity against
// every known fingerprint is strictly below this (SPEC_FULL §6.3).
const NovelThreshold = 0.8

// Similarity computes the Jaccard similarity between two fingerprints:
// the size of the intersection over the size of the union of their
// error_patterns, affected_services, and symptom_categories string sets
// combined. Two fingerprints with empty combined sets are defined as
// having zero similarity, not NaN.
func Similarity(a, b IncidentFingerprint) float64 {
	setA := combinedSet(a)
	setB := combinedSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	union := make(map[string]struct{}, len(setA)+len(setB))
	for k := range setA {
		union[k] = struct{}{}
	}
	for k := range setB {
		union[k] = struct{}{}
	}

	intersection := 0
	for k := range setA {
		if _, ok := setB[k]; ok {
			intersection++
		}
	}

	return float64(intersection) / float64(len(union))
}

func combinedSet(f IncidentFingerprint) map[string]struct{} {
	set := make(map[string]struct{}, len(f.ErrorPatterns)+len(f.AffectedServices)+len(f.SymptomCategories))
	for _, v := range f.ErrorPatterns {
		set[v] = struct{}{}
	}
	for _, v := range f.AffectedServices {
		set[v] = struct{}{}
	}
	for _, v := range f.SymptomCategories {
		set[v] = struct{}{}
	}
	return set
}

// IsNovel reports whether candidate is novel against a set of known
// fingerprints: novel iff its maximum similarity against every known
// fingerprint is strictly below NovelThreshold. An empty known set is
// trivially novel.
func IsNovel(candidate IncidentFingerprint, known []IncidentFingerprint) bool {
	return MaxSimilarity(candidate, known) < NovelThreshold
}

// MaxSimilarity returns the highest Similarity between candidate and any
// fingerprint in known, or 0 if known is empty.
func MaxSimilarity(candidate IncidentFingerprint, known []IncidentFingerprint) float64 {
	max := 0.0
	for _, k := range known {
		if s := Similarity(candidate, k); s > max {
			max = s
		}
	}
	return max
}
