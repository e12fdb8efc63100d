// SPDX-License-Identifier: Apache-2.0
package lexer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndLoadTableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "tables.json")
	table := scriptumTable(t)

	require.NoError(t, WriteTableFile(path, table), "Missing parent directories are created")

	loaded, err := LoadTableFile(path)
	require.NoError(t, err)
	assert.Equal(t, table, loaded)

	// No temp files left behind by the atomic write.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tables.json", entries[0].Name())
}

func TestLoadTableFileMissing(t *testing.T) {
	_, err := LoadTableFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)

	var tableErr *TableError
	require.ErrorAs(t, err, &tableErr)
	assert.Contains(t, tableErr.Error(), "build-lexer", "The error should say how to regenerate the table")
}

func TestLoadTableFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := LoadTableFile(path)
	require.Error(t, err)
	var tableErr *TableError
	assert.ErrorAs(t, err, &tableErr)
}

func TestStoreCachesAndInvalidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.json")
	require.NoError(t, WriteTableFile(path, scriptumTable(t)))

	store := NewStore(path)
	first, err := store.Load()
	require.NoError(t, err)

	second, err := store.Load()
	require.NoError(t, err)
	assert.Same(t, first, second, "Repeated loads reuse the cached runtime")

	store.Invalidate()
	third, err := store.Load()
	require.NoError(t, err)
	assert.NotSame(t, first, third, "Invalidate forces a re-read")

	// Once invalidated, a deleted file surfaces as an error.
	store.Invalidate()
	require.NoError(t, os.Remove(path))
	_, err = store.Load()
	assert.Error(t, err)
}
