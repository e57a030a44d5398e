package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komapc/ido-esperanto-extractor/internal/domain"
	"github.com/komapc/ido-esperanto-extractor/internal/filter"
)

func entry(lemma string, pos domain.PartOfSpeech, paradigm domain.ParadigmId, tags ...domain.ProvenanceTag) domain.Entry {
	return domain.Entry{
		Lemma:      lemma,
		Language:   domain.LanguageIdo,
		POS:        pos,
		Morphology: domain.Morphology{Paradigm: paradigm},
		Provenance: domain.NewProvenanceSet(tags...),
	}
}

func TestBuildStatsCountsByPOSAndSourceAndParadigm(t *testing.T) {
	entries := []domain.Entry{
		entry("banko", domain.POSNoun, domain.ParadigmNoun, domain.ProvenanceIoWiktionary, domain.ProvenanceEnWiktionaryVia),
		entry("irar", domain.POSVerb, domain.ParadigmVerb, domain.ProvenanceIoWiktionary),
	}
	r := BuildStats(entries)
	assert.Equal(t, 2, r.TotalEntries)
	assert.Equal(t, 2, r.ByPOS[domain.POSNoun]+r.ByPOS[domain.POSVerb])
	assert.Equal(t, 2, r.BySource[domain.ProvenanceIoWiktionary])
	assert.Equal(t, 1, r.BySource[domain.ProvenanceEnWiktionaryVia])
	assert.Equal(t, 1, r.ByParadigm[domain.ParadigmNoun])
}

func TestWriteStatsProducesNonEmptyOutput(t *testing.T) {
	r := BuildStats([]domain.Entry{entry("banko", domain.POSNoun, domain.ParadigmNoun, domain.ProvenanceIoWiktionary)})
	var buf bytes.Buffer
	require.NoError(t, WriteStats(&buf, r))
	assert.Contains(t, buf.String(), "STATISTICS REPORT")
	assert.Contains(t, buf.String(), domain.POSNoun.String())
}

func TestBuildCoverageSplitsPresentAndMissing(t *testing.T) {
	entries := []domain.Entry{{Lemma: "banko"}}
	ranks := filter.FrequencyRanks{"banko": 1, "stulo": 2, "domo": 3}
	r := BuildCoverage(entries, ranks, 2)
	assert.Equal(t, 2, r.RankedTotal)
	assert.Equal(t, 1, r.Covered)
	assert.Equal(t, []string{"stulo"}, r.Missing)
}

func TestBuildCoverageIgnoresLemmasOutsideTopN(t *testing.T) {
	entries := []domain.Entry{{Lemma: "banko"}}
	ranks := filter.FrequencyRanks{"banko": 1, "domo": 500}
	r := BuildCoverage(entries, ranks, 10)
	assert.Equal(t, 1, r.RankedTotal)
	assert.Empty(t, r.Missing)
}

func TestBuildConflictsBucketsByKind(t *testing.T) {
	warnings := []domain.ConflictWarning{
		{Kind: domain.ConflictPOS, Lemma: "stulo", Detail: "noun vs proper-noun"},
		{Kind: domain.ConflictMorphology, Lemma: "banko", Detail: "o__n vs np__np"},
	}
	r := BuildConflicts(warnings, filter.Stats{DroppedInvalidSchema: 3})
	assert.Len(t, r.POSConflicts, 1)
	assert.Len(t, r.MorphologyConflicts, 1)
	assert.Empty(t, r.DuplicatesRejected)
	assert.Equal(t, 3, r.FilterStats.DroppedInvalidSchema)
}

func TestWriteConflictsProducesNonEmptyOutput(t *testing.T) {
	r := BuildConflicts([]domain.ConflictWarning{
		{Kind: domain.ConflictPOS, Lemma: "stulo", Detail: "noun vs proper-noun"},
	}, filter.Stats{})
	var buf bytes.Buffer
	require.NoError(t, WriteConflicts(&buf, r))
	assert.Contains(t, buf.String(), "stulo")
}

func TestBuildDumpCoverageCountsMissingAndRecoveredLemmas(t *testing.T) {
	ioWiktEntries := []domain.Entry{
		{Lemma: "stulo", Language: domain.LanguageIdo, Senses: []domain.Sense{{SenseID: "1"}}},
		{Lemma: "domo", Language: domain.LanguageIdo},
		{Lemma: "tablo", Language: domain.LanguageIdo},
		{Lemma: "Londra", Language: domain.LanguageEsperanto},
	}
	finalEntries := []domain.Entry{
		{Lemma: "stulo", Language: domain.LanguageIdo},
		{Lemma: "domo", Language: domain.LanguageIdo},
	}
	r := BuildDumpCoverage(ioWiktEntries, finalEntries)
	assert.Equal(t, 3, r.IoWiktEntries)
	assert.Equal(t, 2, r.NoEoTranslation)
	assert.Equal(t, 1, r.Recovered)
}

func TestWriteDumpCoverageProducesNonEmptyOutput(t *testing.T) {
	r := BuildDumpCoverage(
		[]domain.Entry{{Lemma: "domo", Language: domain.LanguageIdo}},
		nil,
	)
	var buf bytes.Buffer
	require.NoError(t, WriteDumpCoverage(&buf, r))
	assert.Contains(t, buf.String(), "IO WIKTIONARY DUMP COVERAGE")
	assert.Contains(t, buf.String(), "Without a direct Esperanto translation: 1")
}
