package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	p := Load(filepath.Join(t.TempDir(), "absent.toml"))

	assert.Equal(t, defaultTheme, p.Theme)
	assert.Zero(t, p.LastDeckID)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.toml")

	require.NoError(t, Save(path, Prefs{Theme: "Paper", LastDeckID: 7}))

	p := Load(path)
	assert.Equal(t, "Paper", p.Theme)
	assert.Equal(t, int64(7), p.LastDeckID)
}

func TestLoad_EmptyThemeFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	require.NoError(t, os.WriteFile(path, []byte(`theme = ""`+"\n"+`last_deck_id = 3`), 0o644))

	p := Load(path)
	assert.Equal(t, defaultTheme, p.Theme)
	assert.Equal(t, int64(3), p.LastDeckID)
}

func TestLoad_MalformedFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	require.NoError(t, os.WriteFile(path, []byte("theme = [broken"), 0o644))

	p := Load(path)
	assert.Equal(t, defaultTheme, p.Theme)
	assert.Zero(t, p.LastDeckID)
}
