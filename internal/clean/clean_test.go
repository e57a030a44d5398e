package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanBoundaryExamples(t *testing.T) {
	assert.Equal(t, "tu", Clean("'''1.''' tu (io)"))
	assert.Equal(t, "ALTRA", Clean("'''[[altra|ALTRA]]'''"))
	assert.Equal(t, "hundo common", Clean("{{tr|io|hundo}} {{qualifier|common}}"))
}

func TestCleanTranslationTemplate(t *testing.T) {
	assert.Equal(t, "hundo", Clean("{{t|eo|hundo}}"))
	assert.Equal(t, "ĉaro", Clean("{{t+|eo|ĉaro}}"))
}

func TestCleanStripsTrailingLanguageIndicator(t *testing.T) {
	assert.Equal(t, "tablo", Clean("tablo (eo)"))
}

func TestIsValidLemmaRejectsMarkupRemnant(t *testing.T) {
	assert.False(t, IsValidLemma("'''abelo", false))
}

func TestIsValidLemmaRejectsShortOrNonLetterStart(t *testing.T) {
	assert.False(t, IsValidLemma("a", false))
	assert.False(t, IsValidLemma("2bo", false))
}

func TestIsValidLemmaRejectsAcronymUnlessOrganization(t *testing.T) {
	assert.False(t, IsValidLemma("ABCDE", false))
	assert.True(t, IsValidLemma("ABCDE", true))
}

func TestIsValidLemmaRejectsLongColonTitle(t *testing.T) {
	lemma := "this is a very long sentence-like: title that should not pass"
	assert.False(t, IsValidLemma(lemma, false))
}

func TestValidateRejectsInvalidLemma(t *testing.T) {
	_, err := Validate("'''abelo", false)
	assert.Error(t, err)
}

func TestValidateAcceptsCleanLemma(t *testing.T) {
	got, err := Validate("'''stulo'''", false)
	assert.NoError(t, err)
	assert.Equal(t, "stulo", got)
}
