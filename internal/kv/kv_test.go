package kv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := NewSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"sqlite": sqlite,
		"memory": NewMemory(),
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			value, err := store.Get("nope")
			require.NoError(t, err)
			assert.Nil(t, value)
		})
	}
}

func TestSetGetDelete(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set("a", []byte(`{"v":1}`)))
			require.NoError(t, store.Set("a", []byte(`{"v":2}`)))

			value, err := store.Get("a")
			require.NoError(t, err)
			assert.Equal(t, []byte(`{"v":2}`), value)

			require.NoError(t, store.Delete("a"))
			value, err = store.Get("a")
			require.NoError(t, err)
			assert.Nil(t, value)
		})
	}
}

func TestListByPrefix(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set("notes.note.b", []byte("2")))
			require.NoError(t, store.Set("notes.note.a", []byte("1")))
			require.NoError(t, store.Set("notes.collections", []byte("x")))
			require.NoError(t, store.Set("journal.day.2024-01-01", []byte("y")))

			entries, err := store.List("notes.note.")
			require.NoError(t, err)
			require.Len(t, entries, 2)
			assert.Equal(t, "notes.note.a", entries[0].Key)
			assert.Equal(t, "notes.note.b", entries[1].Key)

			all, err := store.List("")
			require.NoError(t, err)
			assert.Len(t, all, 4)
		})
	}
}

func TestListEscapesWildcards(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set("a_b", []byte("1")))
			require.NoError(t, store.Set("axb", []byte("2")))

			entries, err := store.List("a_")
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, "a_b", entries[0].Key)
		})
	}
}

func TestMemoryCopiesValues(t *testing.T) {
	store := NewMemory()
	value := []byte("abc")
	require.NoError(t, store.Set("k", value))
	value[0] = 'z'

	got, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}
