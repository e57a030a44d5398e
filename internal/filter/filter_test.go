package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komapc/ido-esperanto-extractor/internal/domain"
)

func wikipediaOnlyEntry(lemma string, pos domain.PartOfSpeech) domain.Entry {
	return domain.Entry{
		Lemma:      lemma,
		Language:   domain.LanguageIdo,
		POS:        pos,
		Provenance: domain.NewProvenanceSet(domain.ProvenanceIoWikipedia),
	}
}

func TestApplyDropsInvalidSchema(t *testing.T) {
	entries := []domain.Entry{{Lemma: "", Language: domain.LanguageIdo, POS: domain.POSNoun}}
	result := Apply(entries, FrequencyRanks{}, 1000)
	assert.Empty(t, result.Entries)
	assert.Equal(t, 1, result.Stats.DroppedInvalidSchema)
}

func TestApplyDropsWikipediaOnlyLowFrequency(t *testing.T) {
	entries := []domain.Entry{wikipediaOnlyEntry("obskura", domain.POSNoun)}
	result := Apply(entries, FrequencyRanks{}, 1000)
	assert.Empty(t, result.Entries)
	assert.Equal(t, 1, result.Stats.DroppedWikipediaLowFreq)
}

func TestApplyKeepsWikipediaOnlyWithinTopN(t *testing.T) {
	entries := []domain.Entry{wikipediaOnlyEntry("domo", domain.POSNoun)}
	result := Apply(entries, FrequencyRanks{"domo": 42}, 1000)
	require.Len(t, result.Entries, 1)
}

func TestApplyExemptsProperNounsFromFrequencyGate(t *testing.T) {
	entries := []domain.Entry{wikipediaOnlyEntry("Abdulino", domain.POSProperNoun)}
	result := Apply(entries, FrequencyRanks{}, 1000)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, 0, result.Stats.DroppedWikipediaLowFreq)
}

func TestApplyDoesNotFrequencyGateEntriesWithWiktionaryProvenance(t *testing.T) {
	entries := []domain.Entry{{
		Lemma: "rara", Language: domain.LanguageIdo, POS: domain.POSAdjective,
		Provenance: domain.NewProvenanceSet(domain.ProvenanceIoWiktionary, domain.ProvenanceIoWikipedia),
	}}
	result := Apply(entries, FrequencyRanks{}, 1000)
	require.Len(t, result.Entries, 1)
}

func TestApplyRemovesExactDuplicates(t *testing.T) {
	entry := domain.Entry{
		Lemma: "hundo", Language: domain.LanguageIdo, POS: domain.POSNoun,
		Senses: []domain.Sense{{Translations: []domain.Translation{
			{Term: "hundo", Lang: domain.LanguageEsperanto},
		}}},
	}
	result := Apply([]domain.Entry{entry, entry}, FrequencyRanks{}, 1000)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, 1, result.Stats.DroppedDuplicate)
}
