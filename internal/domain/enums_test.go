package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageIsValid(t *testing.T) {
	assert.True(t, LanguageIdo.IsValid())
	assert.True(t, LanguageEsperanto.IsValid())
	assert.False(t, Language("fr").IsValid())
}

func TestPOSFromHeader(t *testing.T) {
	cases := map[string]PartOfSpeech{
		"noun":        POSNoun,
		"substantivo": POSNoun,
		"verbo":       POSVerb,
		"adjektivo":   POSAdjective,
	}
	for header, want := range cases {
		got, ok := POSFromHeader(header)
		assert.True(t, ok, header)
		assert.Equal(t, want, got, header)
	}
	_, ok := POSFromHeader("not a real header")
	assert.False(t, ok)
}

func TestProvenanceSetMaxConfidence(t *testing.T) {
	defaults := DefaultSources()
	s := NewProvenanceSet(ProvenanceEnWiktionaryVia, ProvenanceIoWiktionary)
	assert.Equal(t, 1.0, s.MaxConfidence(defaults))
}

func TestProvenanceSetHighestPriority(t *testing.T) {
	defaults := DefaultSources()
	s := NewProvenanceSet(ProvenanceEnWiktionaryVia, ProvenanceFrWiktionaryMeaning)
	best, ok := s.HighestPriority(defaults)
	assert.True(t, ok)
	assert.Equal(t, ProvenanceEnWiktionaryVia, best)
}

func TestProvenanceSetSortedIsDeterministic(t *testing.T) {
	s := NewProvenanceSet(ProvenanceWikidata, ProvenanceIoWiktionary, ProvenanceEoWiktionary)
	got := s.Sorted()
	assert.Equal(t, []ProvenanceTag{ProvenanceIoWiktionary, ProvenanceEoWiktionary, ProvenanceWikidata}, got)
}

func TestParadigmClosure(t *testing.T) {
	for _, p := range AllParadigms() {
		assert.True(t, IsValidParadigm(p))
	}
	assert.False(t, IsValidParadigm(ParadigmId("made_up")))
}

func TestDefaultSurfaceParadigm(t *testing.T) {
	assert.Equal(t, ParadigmNoun, DefaultSurfaceParadigm(POSNoun))
	assert.Equal(t, ParadigmVerb, DefaultSurfaceParadigm(POSVerb))
	assert.Equal(t, ParadigmPronoun, DefaultSurfaceParadigm(POSPronoun))
	assert.Equal(t, ParadigmUnknown, DefaultSurfaceParadigm(POSOther))
}
