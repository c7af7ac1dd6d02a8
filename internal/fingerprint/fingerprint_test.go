package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity_IdenticalFingerprintsScoreOne(t *testing.T) {
	f := IncidentFingerprint{
		ErrorPatterns:     []string{"OOMKilled"},
		AffectedServices:  []string{"checkout"},
		SymptomCategories: []string{"memory"},
	}
	assert.Equal(t, 1.0, Similarity(f, f))
}

func TestSimilarity_DisjointFingerprintsScoreZero(t *testing.T) {
	a := IncidentFingerprint{ErrorPatterns: []string{"OOMKilled"}, AffectedServices: []string{"checkout"}}
	b := IncidentFingerprint{ErrorPatterns: []string{"ConnectionRefused"}, AffectedServices: []string{"billing"}}
	assert.Equal(t, 0.0, Similarity(a, b))
}

func TestSimilarity_PartialOverlap(t *testing.T) {
	a := IncidentFingerprint{ErrorPatterns: []string{"OOMKilled", "CrashLoopBackOff"}, AffectedServices: []string{"checkout"}}
	b := IncidentFingerprint{ErrorPatterns: []string{"OOMKilled"}, AffectedServices: []string{"billing"}}
	// union: {OOMKilled, CrashLoopBackOff, checkout, billing} = 4, intersection: {OOMKilled} = 1
	assert.InDelta(t, 0.25, Similarity(a, b), 0.0001)
}

func TestSimilarity_BothEmptyIsZeroNotNaN(t *testing.T) {
	assert.Equal(t, 0.0, Similarity(IncidentFingerprint{}, IncidentFingerprint{}))
}

func TestIsNovel_BelowThresholdIsNovel(t *testing.T) {
	candidate := IncidentFingerprint{ErrorPatterns: []string{"OOMKilled"}}
	known := []IncidentFingerprint{{ErrorPatterns: []string{"ConnectionRefused"}}}
	assert.True(t, IsNovel(candidate, known))
}

func TestIsNovel_AtOrAboveThresholdIsNotNovel(t *testing.T) {
	candidate := IncidentFingerprint{ErrorPatterns: []string{"OOMKilled"}, AffectedServices: []string{"checkout"}, SymptomCategories: []string{"memory", "restart"}}
	known := []IncidentFingerprint{{ErrorPatterns: []string{"OOMKilled"}, AffectedServices: []string{"checkout"}, SymptomCategories: []string{"memory"}}}
	// union 4, intersection 3 -> 0.75, still novel
	assert.True(t, IsNovel(candidate, known))

	known[0].SymptomCategories = append(known[0].SymptomCategories, "restart")
	// now identical -> similarity 1.0, not novel
	assert.False(t, IsNovel(candidate, known))
}

func TestIsNovel_EmptyKnownSetIsTriviallyNovel(t *testing.T) {
	assert.True(t, IsNovel(IncidentFingerprint{ErrorPatterns: []string{"x"}}, nil))
}

func TestStore_MostSimilar_ReturnsBestMatch(t *testing.T) {
	store := NewStore()
	store.Add(IncidentFingerprint{ErrorPatterns: []string{"ConnectionRefused"}})
	store.Add(IncidentFingerprint{ErrorPatterns: []string{"OOMKilled"}, AffectedServices: []string{"checkout"}})

	candidate := IncidentFingerprint{ErrorPatterns: []string{"OOMKilled"}, AffectedServices: []string{"checkout"}, SymptomCategories: []string{"memory"}}
	match, similarity, ok := store.MostSimilar(candidate)

	assert.True(t, ok)
	assert.Equal(t, []string{"OOMKilled"}, match.ErrorPatterns)
	assert.Greater(t, similarity, 0.5)
}

func TestStore_MostSimilar_EmptyStoreReturnsNotOK(t *testing.T) {
	_, _, ok := NewStore().MostSimilar(IncidentFingerprint{})
	assert.False(t, ok)
}
