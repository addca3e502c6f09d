package fetch

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createArchive(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "refs.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func TestExtractSnapshot_JSON(t *testing.T) {
	archive := createArchive(t, map[string]string{
		"refs.json": `{"lists":{}}`,
		"leeme.txt": "ignorado",
	})

	dest := t.TempDir()
	path, err := ExtractSnapshot(archive, dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "refs.json"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"lists":{}}`, string(raw))
}

func TestExtractSnapshot_FlattensDirectories(t *testing.T) {
	archive := createArchive(t, map[string]string{
		"listas/2024/refs.xlsx": "workbook-bytes",
	})

	dest := t.TempDir()
	path, err := ExtractSnapshot(archive, dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "refs.xlsx"), path)
}

func TestExtractSnapshot_NoSnapshot(t *testing.T) {
	archive := createArchive(t, map[string]string{"leeme.txt": "nada"})

	_, err := ExtractSnapshot(archive, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no snapshot file")
}

func TestExtractSnapshot_Ambiguous(t *testing.T) {
	archive := createArchive(t, map[string]string{
		"refs.json": "{}",
		"refs.xlsx": "x",
	})

	_, err := ExtractSnapshot(archive, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected one")
}
