package localdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestAdapter_StoreLoadRoundtrip(t *testing.T) {
	a := New(t.TempDir())

	require.NoError(t, a.Store("decks", record{Name: "Spanish", Count: 3}))

	var got record
	require.True(t, a.Load("decks", &got))
	assert.Equal(t, record{Name: "Spanish", Count: 3}, got)
}

func TestAdapter_LoadAbsentLeavesDestUntouched(t *testing.T) {
	a := New(t.TempDir())

	got := record{Name: "seed"}
	assert.False(t, a.Load("missing", &got))
	assert.Equal(t, "seed", got.Name)
}

func TestAdapter_LoadCorruptRecordReportsFalse(t *testing.T) {
	dir := t.TempDir()
	a := New(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "decks.json"), []byte("{not json"), 0o600))

	var got record
	assert.False(t, a.Load("decks", &got))
}

func TestAdapter_DeleteRemovesRecord(t *testing.T) {
	a := New(t.TempDir())

	require.NoError(t, a.Store("user", record{Name: "ana"}))
	a.Delete("user")

	var got record
	assert.False(t, a.Load("user", &got))

	// Deleting again is a no-op.
	a.Delete("user")
}

func TestAdapter_NilAndUnconfiguredAreSafe(t *testing.T) {
	var nilAdapter *Adapter
	assert.Error(t, nilAdapter.Store("k", 1))
	assert.False(t, nilAdapter.Load("k", new(int)))
	nilAdapter.Delete("k")

	empty := New("  ")
	assert.Error(t, empty.Store("k", 1))
	assert.False(t, empty.Load("k", new(int)))
}

func TestAdapter_StoreCreatesRootLazily(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	a := New(dir)

	require.NoError(t, a.Store("cards", []record{{Name: "hola"}}))

	var got []record
	require.True(t, a.Load("cards", &got))
	require.Len(t, got, 1)
	assert.Equal(t, "hola", got[0].Name)
}
