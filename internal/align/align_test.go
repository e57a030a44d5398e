package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komapc/ido-esperanto-extractor/internal/domain"
)

func TestFlipPassesThroughIoEntries(t *testing.T) {
	e := domain.Entry{Lemma: "hundo", Language: domain.LanguageIdo}
	out := Flip(e)
	require.Len(t, out, 1)
	assert.Equal(t, e, out[0])
}

func TestFlipProducesIoHeadedEntriesFromEo(t *testing.T) {
	e := domain.Entry{
		Lemma:    "hundo",
		Language: domain.LanguageEsperanto,
		POS:      domain.POSNoun,
		Senses: []domain.Sense{{
			SenseID: "1",
			Translations: []domain.Translation{
				{Term: "hundo", Lang: domain.LanguageIdo, Confidence: 1.0, Sources: domain.NewProvenanceSet(domain.ProvenanceEoWiktionary)},
				{Term: "kanuto", Lang: domain.LanguageIdo, Confidence: 1.0, Sources: domain.NewProvenanceSet(domain.ProvenanceEoWiktionary)},
			},
		}},
	}
	out := Flip(e)
	require.Len(t, out, 2)
	for _, entry := range out {
		assert.Equal(t, domain.LanguageIdo, entry.Language)
		assert.Equal(t, "hundo", entry.Senses[0].Translations[0].Term)
		assert.Equal(t, domain.LanguageEsperanto, entry.Senses[0].Translations[0].Lang)
	}
}

func TestAlignMergesBothStreams(t *testing.T) {
	io := []domain.Entry{{Lemma: "stulo", Language: domain.LanguageIdo}}
	eo := []domain.Entry{{
		Lemma:    "seĝo",
		Language: domain.LanguageEsperanto,
		Senses: []domain.Sense{{Translations: []domain.Translation{
			{Term: "stulo", Lang: domain.LanguageIdo, Sources: domain.NewProvenanceSet(domain.ProvenanceEoWiktionary)},
		}}},
	}}
	out := Align(io, eo)
	assert.Len(t, out, 2)
}
