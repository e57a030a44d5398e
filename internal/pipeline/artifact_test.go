package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komapc/ido-esperanto-extractor/internal/domain"
)

func TestWriteEntriesThenReadEntriesRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "entries.json")
	entries := []domain.Entry{
		{Lemma: "banko", Language: domain.LanguageIdo, POS: domain.POSNoun},
	}
	require.NoError(t, WriteEntries(path, entries))

	got, err := ReadEntries(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "banko", got[0].Lemma)
}

func TestReadEntriesMissingFileErrors(t *testing.T) {
	_, err := ReadEntries(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestReadEntriesCorruptedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, WriteEntries(path, nil))
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	_, err := ReadEntries(path)
	assert.Error(t, err)
}
