package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntryBucketKeyFoldsNonProperNouns(t *testing.T) {
	e := Entry{Lemma: "Stulo", Language: LanguageIdo, POS: POSNoun}
	assert.Equal(t, Key{Language: LanguageIdo, Lemma: "stulo", POS: POSNoun}, e.BucketKey())
}

func TestEntryBucketKeyPreservesProperNounCase(t *testing.T) {
	e := Entry{Lemma: "Parizo", Language: LanguageIdo, POS: POSProperNoun}
	assert.Equal(t, Key{Language: LanguageIdo, Lemma: "Parizo", POS: POSProperNoun}, e.BucketKey())
}

func TestMorphologyPresent(t *testing.T) {
	var m Morphology
	assert.False(t, m.Present())
	m.Paradigm = ParadigmNoun
	assert.True(t, m.Present())
}
