package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func backends(t *testing.T) map[string]Storage {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return map[string]Storage{
		"memory": NewMemory(),
		"sqlite": db,
	}
}

func TestWidthsRoundTripPerStorageKey(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, SaveWidths(s, "brokers", map[string]int{"name": 31, "email": 24}))
			require.NoError(t, SaveWidths(s, "companies", map[string]int{"name": 12}))

			got, err := LoadWidths(s, "brokers")
			require.NoError(t, err)
			assert.Equal(t, map[string]int{"name": 31, "email": 24}, got)

			other, err := LoadWidths(s, "companies")
			require.NoError(t, err)
			assert.Equal(t, map[string]int{"name": 12}, other)
		})
	}
}

func TestWidthsLastWriteWins(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, SaveWidths(s, "funds", map[string]int{"name": 10}))
			require.NoError(t, SaveWidths(s, "funds", map[string]int{"name": 18}))

			got, err := LoadWidths(s, "funds")
			require.NoError(t, err)
			assert.Equal(t, 18, got["name"])
		})
	}
}

func TestLoadWidthsMissingIsEmpty(t *testing.T) {
	got, err := LoadWidths(NewMemory(), "listings")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadWidthsDropsInvalidEntries(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Set(WidthsKey("listings"), `{"name":20,"city":0,"price":-4}`))
	got, err := LoadWidths(m, "listings")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"name": 20}, got)
}

func TestLoadWidthsCorruptJSON(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Set(WidthsKey("listings"), "not json"))
	_, err := LoadWidths(m, "listings")
	assert.Error(t, err)
}

func TestResetWidths(t *testing.T) {
	m := NewMemory()
	require.NoError(t, SaveWidths(m, "brokers", map[string]int{"name": 31}))
	require.NoError(t, ResetWidths(m, "brokers"))
	assert.Empty(t, m.Snapshot())
}

func TestEmptyStorageKeyRejected(t *testing.T) {
	m := NewMemory()
	_, err := LoadWidths(m, "")
	assert.ErrorIs(t, err, ErrEmptyStorageKey)
	assert.ErrorIs(t, SaveWidths(m, "", nil), ErrEmptyStorageKey)
	assert.ErrorIs(t, ResetWidths(m, ""), ErrEmptyStorageKey)
}

func TestSQLiteListKeysByPrefix(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, SaveWidths(db, "brokers", map[string]int{"name": 31}))
	require.NoError(t, SaveWidths(db, "listings", map[string]int{"name": 20}))
	require.NoError(t, db.Set("other_key", "x"))

	entries, err := db.ListKeys(WidthsPrefix)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "table-widths:brokers", entries[0].Key)
	assert.Equal(t, `{"name":31}`, entries[0].Value)
	assert.NotEmpty(t, entries[0].UpdatedAt)
	assert.Equal(t, "table-widths:listings", entries[1].Key)
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	db, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, SaveWidths(db, "brokers", map[string]int{"phone": 14}))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()
	got, err := LoadWidths(db, "brokers")
	require.NoError(t, err)
	assert.Equal(t, 14, got["phone"])
}

func TestSQLiteCloseLeaksNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	require.NoError(t, db.Set("k", "v"))
	require.NoError(t, db.Close())
}
