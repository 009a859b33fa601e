package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveOpenDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save("notas/2024.csv", []byte("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.Dir(), "notas", "2024.csv"), path)

	f, err := store.Open("notas/2024.csv")
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))

	require.NoError(t, store.Delete("notas/2024.csv"))
	require.NoError(t, store.Delete("notas/2024.csv"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageRejectsEscapes(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../x.csv", "/etc/passwd", ".."} {
		_, err := store.Save(name, []byte("x"))
		assert.Error(t, err, name)
	}
}

func TestLocalStorageCleanup(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	oldPath, err := store.Save("old.csv", []byte("old"))
	require.NoError(t, err)
	_, err = store.Save("new.csv", []byte("new"))
	require.NoError(t, err)
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, past, past))

	deleted, err := store.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.csv"}, deleted)

	_, err = os.Stat(filepath.Join(store.Dir(), "new.csv"))
	assert.NoError(t, err)
}
