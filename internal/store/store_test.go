package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLookupMissReturnsFalse(t *testing.T) {
	s := openTestStore(t)
	_, ok, err := s.Lookup("normalize", "abc123")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecordThenLookupHits(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Record("normalize", "abc123", "/work/normalize/abc123.json"))

	path, ok, err := s.Lookup("normalize", "abc123")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/work/normalize/abc123.json", path)
}

func TestRecordOverwritesPriorEntryForSameKey(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Record("filter", "h1", "/work/filter/v1.json"))
	require.NoError(t, s.Record("filter", "h1", "/work/filter/v2.json"))

	path, ok, err := s.Lookup("filter", "h1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/work/filter/v2.json", path)
}

func TestDistinctInputHashesDoNotCollide(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Record("merge", "h1", "/work/merge/h1.json"))
	require.NoError(t, s.Record("merge", "h2", "/work/merge/h2.json"))

	p1, ok1, err := s.Lookup("merge", "h1")
	require.NoError(t, err)
	p2, ok2, err := s.Lookup("merge", "h2")
	require.NoError(t, err)

	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, "/work/merge/h1.json", p1)
	assert.Equal(t, "/work/merge/h2.json", p2)
}

func TestInvalidateRemovesOnlyTargetedStage(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Record("filter", "h1", "/work/filter/h1.json"))
	require.NoError(t, s.Record("merge", "h1", "/work/merge/h1.json"))

	require.NoError(t, s.Invalidate("filter"))

	_, ok, err := s.Lookup("filter", "h1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.Lookup("merge", "h1")
	require.NoError(t, err)
	assert.True(t, ok)
}
