package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCache opens a cache backed by a temp database.
func testCache(t *testing.T) *Cache {
	t.Helper()

	c, err := Open(&Config{Path: filepath.Join(t.TempDir(), "nested", "cache.db"), Size: 2})
	require.NoError(t, err)
	t.Cleanup(func() {
		c.Close()
	})
	return c
}

func TestOpen_EnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("CLOVE_CACHE_DB", path)

	c, err := Open(nil)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, path, c.Path())
}

func TestGetPut(t *testing.T) {
	c := testCache(t)

	_, ok, err := c.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put("k1", "(ns A)"))
	out, ok, err := c.Get("k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "(ns A)", out)

	require.NoError(t, c.Put("k1", "(ns B)"))
	out, _, err = c.Get("k1")
	require.NoError(t, err)
	assert.Equal(t, "(ns B)", out)
}

func TestLookup(t *testing.T) {
	c := testCache(t)

	_, err := c.Lookup("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Put("k", "out"))
	entry, err := c.Lookup("k")
	require.NoError(t, err)
	assert.Equal(t, "k", entry.Key)
	assert.Len(t, entry.ID, 36)
	assert.WithinDuration(t, time.Now(), entry.CreatedAt, time.Minute)
}

func TestMemoryTier(t *testing.T) {
	c := testCache(t)

	require.NoError(t, c.Put("a", "1"))
	require.NoError(t, c.Put("b", "2"))
	require.NoError(t, c.Put("c", "3"))
	assert.False(t, c.IsCached("a"), "oldest entry should be evicted from memory")

	// evicted entries are still served from disk and come back into memory
	out, ok, err := c.Get("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", out)
	assert.True(t, c.IsCached("a"))
}

func TestPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	c, err := Open(&Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, c.Put("k", "kept"))
	require.NoError(t, c.Close())

	c, err = Open(&Config{Path: path})
	require.NoError(t, err)
	defer c.Close()

	assert.False(t, c.IsCached("k"))
	out, ok, err := c.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "kept", out)
}

func TestEntriesPruneClear(t *testing.T) {
	c := testCache(t)

	require.NoError(t, c.Put("a", "1"))
	require.NoError(t, c.Put("b", "2"))

	entries, err := c.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	n, err := c.Prune(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = c.Prune(time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, c.Put("c", "3"))
	require.NoError(t, c.Clear())
	entries, err = c.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.False(t, c.IsCached("c"))
}
