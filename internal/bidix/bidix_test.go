package bidix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komapc/ido-esperanto-extractor/internal/domain"
)

func TestBuildEmitsOneRowPerTranslation(t *testing.T) {
	entries := []domain.Entry{{
		Lemma:      "hundo",
		Language:   domain.LanguageIdo,
		POS:        domain.POSNoun,
		Morphology: domain.Morphology{Paradigm: domain.ParadigmNoun},
		Senses: []domain.Sense{{Translations: []domain.Translation{
			{Term: "hundo", Lang: domain.LanguageEsperanto, Sources: domain.NewProvenanceSet(domain.ProvenanceIoWiktionary)},
			{Term: "kanuto", Lang: domain.LanguageEsperanto, Sources: domain.NewProvenanceSet(domain.ProvenanceIoWiktionary)},
		}}},
	}}

	rows := Build(entries)
	require.Len(t, rows, 2)
	assert.Equal(t, "hundo", rows[0].Lemma)
	assert.Equal(t, domain.ParadigmNoun, rows[0].Paradigm)
	assert.Equal(t, domain.ParadigmNoun, rows[0].TranslationParadigm)
}

func TestBuildOrdersLexicographicallyByLemmaThenTranslation(t *testing.T) {
	entries := []domain.Entry{
		{
			Lemma: "zebro", Language: domain.LanguageIdo, POS: domain.POSNoun,
			Senses: []domain.Sense{{Translations: []domain.Translation{{Term: "zebro", Lang: domain.LanguageEsperanto}}}},
		},
		{
			Lemma: "abelo", Language: domain.LanguageIdo, POS: domain.POSNoun,
			Senses: []domain.Sense{{Translations: []domain.Translation{
				{Term: "zumilo", Lang: domain.LanguageEsperanto},
				{Term: "abelo", Lang: domain.LanguageEsperanto},
			}}},
		},
	}

	rows := Build(entries)
	require.Len(t, rows, 3)
	assert.Equal(t, "abelo", rows[0].Lemma)
	assert.Equal(t, "abelo", rows[0].Translation)
	assert.Equal(t, "abelo", rows[1].Lemma)
	assert.Equal(t, "zumilo", rows[1].Translation)
	assert.Equal(t, "zebro", rows[2].Lemma)
}

func TestBuildSkipsEoHeadedEntries(t *testing.T) {
	entries := []domain.Entry{{Lemma: "hundo", Language: domain.LanguageEsperanto}}
	assert.Empty(t, Build(entries))
}
