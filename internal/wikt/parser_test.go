package wikt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komapc/ido-esperanto-extractor/internal/domain"
)

func TestParsePageInlineRoundTripExample(t *testing.T) {
	wikitext := "== Ido ==\n* {{eo}}: {{t|eo|hundo}}, {{t+|eo|ĉaro}}\n"
	p := NewParser(Config{
		SourceLang: "io",
		TargetLang: "eo",
		Source:     domain.ProvenanceIoWiktionary,
	}, domain.DefaultSources())

	entries, err := p.ParsePage("hundo-page", wikitext)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, domain.LanguageIdo, e.Language)
	require.Len(t, e.Senses, 1)
	terms := []string{e.Senses[0].Translations[0].Term, e.Senses[0].Translations[1].Term}
	assert.ElementsMatch(t, []string{"hundo", "ĉaro"}, terms)
	for _, tr := range e.Senses[0].Translations {
		assert.Equal(t, domain.LanguageEsperanto, tr.Lang)
		assert.Equal(t, 1.0, tr.Confidence)
		assert.True(t, tr.Sources.Contains(domain.ProvenanceIoWiktionary))
	}
}

func TestParsePageMultiSensePreservation(t *testing.T) {
	wikitext := "== Ido ==\n" +
		"'''1.''' madaldama\n* Esperanto: {{t|eo|malgrandigi}}\n" +
		"'''2.''' malaltigi\n* Esperanto: {{t|eo|malaltigi}}\n"
	p := NewParser(Config{SourceLang: "io", TargetLang: "eo", Source: domain.ProvenanceIoWiktionary}, domain.DefaultSources())

	entries, err := p.ParsePage("abasar", wikitext)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Senses, 2)
	assert.Equal(t, "1", entries[0].Senses[0].SenseID)
	assert.Equal(t, "2", entries[0].Senses[1].SenseID)
}

func TestParsePageNoSectionReturnsNil(t *testing.T) {
	p := NewParser(Config{SourceLang: "io", TargetLang: "eo", Source: domain.ProvenanceIoWiktionary}, domain.DefaultSources())
	entries, err := p.ParsePage("nothing", "== Esperanto ==\nfoo\n")
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestParsePageEnglishTranslationsScopedPerDefinition(t *testing.T) {
	wikitext := "==English==\n" +
		"===Noun===\n" +
		"# a domesticated carnivorous mammal\n\n" +
		"====Translations====\n" +
		"{{trans-top|mammal}}\n* Esperanto: {{t|eo|hundo}}\n{{trans-bottom}}\n\n" +
		"# a despicable person\n\n" +
		"====Translations====\n" +
		"{{trans-top|despicable person}}\n* Esperanto: {{t|eo|fiulo}}\n{{trans-bottom}}\n"
	p := NewParser(Config{SourceLang: "en", TargetLang: "eo", Source: domain.ProvenanceEnWiktionaryVia}, domain.DefaultSources())

	entries, err := p.ParsePage("hound", wikitext)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, domain.POSNoun, e.POS)
	require.Len(t, e.Senses, 2)
	assert.Equal(t, "hundo", e.Senses[0].Translations[0].Term)
	assert.Equal(t, "fiulo", e.Senses[1].Translations[0].Term)
}

func TestParsePageFrenchResolvesPOSHeader(t *testing.T) {
	wikitext := "== {{langue|fr}} ==\n" +
		"=== {{S|nom|fr}} ===\n" +
		"{{trad-début|Siège|1}}\n{{T|io}}: stulo\n{{T|eo}}: seĝo\n{{trad-fin}}\n"
	p := NewParser(Config{SourceLang: "fr", TargetLang: "eo", Source: domain.ProvenanceFrWiktionaryMeaning}, domain.DefaultSources())

	entries, err := p.ParsePage("chaise", wikitext)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.POSNoun, entries[0].POS)
}

func TestParsePageFrenchMeaningBlockPrecision(t *testing.T) {
	wikitext := "== {{langue|fr}} ==\n" +
		"{{trad-début|Siège|1}}\n{{T|io}}: stulo\n{{T|eo}}: seĝo\n{{trad-fin}}\n"
	p := NewParser(Config{SourceLang: "fr", TargetLang: "eo", Source: domain.ProvenanceFrWiktionaryMeaning}, domain.DefaultSources())

	entries, err := p.ParsePage("chaise", wikitext)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Senses, 1)
	require.Len(t, entries[0].Senses[0].Translations, 1)
	assert.Equal(t, "seĝo", entries[0].Senses[0].Translations[0].Term)
	assert.Equal(t, 0.7, entries[0].Senses[0].Translations[0].Confidence)
}
