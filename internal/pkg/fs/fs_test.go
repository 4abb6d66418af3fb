package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "devices", "fb1"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "fb0"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(root, "devices", "fb1"), filepath.Join(root, "fb1")))
	require.NoError(t, os.WriteFile(filepath.Join(root, "fb0", "name"), []byte("simple\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme"), []byte("x"), 0o644))

	e := NewEntry(root)

	names, err := e.DirNames("fb")
	assert.NoError(t, err)
	assert.Equal(t, []string{"fb0", "fb1"}, names)

	dirs, _ := e.Dirs()
	assert.NotContains(t, dirs, "readme")
	assert.Contains(t, dirs, "fb1")
	fb0 := dirs["fb0"]
	name, err := fb0.ReadString("name")
	assert.NoError(t, err)
	assert.Equal(t, "simple", name)
}

func TestEntryMissing(t *testing.T) {
	e := NewEntry(filepath.Join(t.TempDir(), "nope"))
	_, err := e.Dirs()
	assert.Error(t, err)
}
